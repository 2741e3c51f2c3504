package widget

import (
	"context"
	"sync"
)

// Registry registro de capacidades opcionales que pueden llegar a estar disponibles
// después del arranque (p. ej. el renderizador Gantt). Se inyecta en quien la
// necesita; no hay instancia global.
type Registry struct {
	mu      sync.Mutex
	entries map[string]any
	ready   map[string]chan struct{}
}

// NewRegistry crea un registro vacío: ninguna capacidad disponible.
func NewRegistry() *Registry {
	return &Registry{
		entries: map[string]any{},
		ready:   map[string]chan struct{}{},
	}
}

// readyChan requiere r.mu.
func (r *Registry) readyChan(name string) chan struct{} {
	ch, ok := r.ready[name]
	if !ok {
		ch = make(chan struct{})
		r.ready[name] = ch
	}
	return ch
}

// Provide publica una capacidad y despierta a quien la espera. Volver a publicar
// reemplaza la implementación.
func (r *Registry) Provide(name string, impl any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.entries[name]
	r.entries[name] = impl
	if !existed {
		close(r.readyChan(name))
	}
}

// Lookup devuelve la capacidad si ya está disponible.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	impl, ok := r.entries[name]
	return impl, ok
}

// Available indica si la capacidad está disponible.
func (r *Registry) Available(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Await bloquea hasta que la capacidad esté disponible o ctx termine.
func (r *Registry) Await(ctx context.Context, name string) (any, error) {
	r.mu.Lock()
	ch := r.readyChan(name)
	r.mu.Unlock()

	select {
	case <-ch:
		impl, _ := r.Lookup(name)
		return impl, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve búsqueda tipada: falso si no está o no implementa T.
func Resolve[T any](r *Registry, name string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	impl, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := impl.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
