package domain

import "context"

// Caller usuario autenticado que origina la petición. Las llamadas al backend se
// hacen en nombre de su empresa.
type Caller struct {
	UserID    string
	CompanyID string
	Role      string
	Token     string // bearer recibido, sin el prefijo
}

type callerKey struct{}

// WithCaller devuelve un contexto que lleva al llamante.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom llamante del contexto, si lo hay.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
