// Package backend implementa widget.Fetcher contra la API de inventario usando el
// cliente HTTP de fiber.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// TokenSource entrega el bearer token de cada petición. ctx lleva al llamante
// (domain.CallerFrom) cuando la petición viene de un usuario autenticado.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken token fijo (BACKEND_TOKEN).
type StaticToken string

// Token implementa TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// CompanyTokens firma un token de servicio con la empresa del llamante; sin llamante
// usa la empresa por defecto de Source.
type CompanyTokens struct {
	Source *pkgjwt.ServiceTokenSource
}

// Token implementa TokenSource.
func (t CompanyTokens) Token(ctx context.Context) (string, error) {
	if c, ok := domain.CallerFrom(ctx); ok && c.CompanyID != "" {
		return t.Source.TokenFor(c.CompanyID)
	}
	return t.Source.Token()
}

// ForwardToken reenvía el bearer del llamante; sin llamante recurre a Fallback.
type ForwardToken struct {
	Fallback TokenSource // nil = sin Authorization
}

// Token implementa TokenSource.
func (t ForwardToken) Token(ctx context.Context) (string, error) {
	if c, ok := domain.CallerFrom(ctx); ok && c.Token != "" {
		return c.Token, nil
	}
	if t.Fallback == nil {
		return "", nil
	}
	return t.Fallback.Token(ctx)
}

// StatusError respuesta no 2xx del backend.
type StatusError struct {
	Endpoint string
	Code     int
	ErrCode  string // campo "code" del cuerpo de error, si viene
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: GET %s: estado %d: %s", e.Endpoint, e.Code, e.Message)
}

// UserMessage mensaje para el recuadro de error del widget.
func (e *StatusError) UserMessage() string { return e.Message }

// Config opciones del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource // nil = sin Authorization
}

// Client cliente de la API de inventario.
type Client struct {
	baseURL string
	timeout time.Duration
	tokens  TokenSource
	log     *logger.Logger
}

// NewClient construye el cliente.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend: URL base vacía")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: base,
		timeout: cfg.Timeout,
		tokens:  cfg.Tokens,
		log:     log.Named("backend"),
	}, nil
}

type result struct {
	code int
	body []byte
	err  error
}

// Fetch hace GET baseURL+endpoint?params y devuelve el cuerpo crudo. Respeta ctx: si se
// cancela antes de la respuesta devuelve ctx.Err().
func (c *Client) Fetch(ctx context.Context, endpoint string, params widget.Params) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			// Timeout(0) desactiva el límite de fasthttp.
			return nil, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}

	a := fiber.Get(c.baseURL + endpoint).
		QueryString(params.Encode()).
		Timeout(timeout).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("backend: token de servicio: %w", err)
		}
		if tok != "" {
			a.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		code, body, errs := a.Bytes()
		done <- result{code: code, body: body, err: errors.Join(errs...)}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Str("query", params.Encode()).
		Int("status", res.code).
		Dur("elapsed", time.Since(start)).
		Msg("petición al backend")

	if res.err != nil {
		return nil, fmt.Errorf("backend: GET %s: %w", endpoint, res.err)
	}
	if res.code < 200 || res.code > 299 {
		return nil, statusError(endpoint, res.code, res.body)
	}
	return res.body, nil
}

// statusError extrae el mensaje del cuerpo de error del backend: {"code","message"}
// como dto.ErrorResponse o {"error"} como devuelven sus middlewares.
func statusError(endpoint string, code int, body []byte) *StatusError {
	e := &StatusError{Endpoint: endpoint, Code: code}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.ErrCode = payload.Code
		e.Message = strings.TrimSpace(payload.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(payload.Error)
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("el servidor respondió con estado %d", code)
	}
	return e
}
