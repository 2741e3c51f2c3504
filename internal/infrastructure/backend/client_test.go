package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/backend"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
)

func newClient(t *testing.T, url string, tokens backend.TokenSource) *backend.Client {
	t.Helper()
	c, err := backend.NewClient(backend.Config{BaseURL: url + "/", Timeout: 2 * time.Second, Tokens: tokens}, nil)
	require.NoError(t, err)
	return c
}

func TestClient_FetchEnviaQueryYToken(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, backend.StaticToken("abc123"))
	params := widget.NewParams(map[string]string{widget.ParamWarehouse: "WH 1", widget.ParamPage: "2"})

	body, err := c.Fetch(context.Background(), "/api/inventory/stock-levels", params)
	require.NoError(t, err)

	assert.JSONEq(t, `{"data": []}`, string(body))
	assert.Equal(t, "/api/inventory/stock-levels", gotPath)
	assert.Equal(t, "page=2&warehouse=WH+1", gotQuery)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_TokenDeServicio(t *testing.T) {
	const secret = "secreto-de-pruebas"
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tokens := &pkgjwt.ServiceTokenSource{Secret: secret, Issuer: "inventory-pro", UserID: "dash", CompanyID: "c-1", Role: "admin"}
	c := newClient(t, srv.URL, backend.CompanyTokens{Source: tokens})

	_, err := c.Fetch(context.Background(), "/api/orders/timeline", widget.Params{})
	require.NoError(t, err)

	require.True(t, len(gotAuth) > len("Bearer "))
	claims, err := pkgjwt.Parse(secret, gotAuth[len("Bearer "):])
	require.NoError(t, err)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, "admin", claims.Role)

	// Con llamante autenticado el token va firmado para su empresa.
	ctx := domain.WithCaller(context.Background(), domain.Caller{UserID: "u-9", CompanyID: "c-B", Role: "bodeguero"})
	_, err = c.Fetch(ctx, "/api/orders/timeline", widget.Params{})
	require.NoError(t, err)

	claims, err = pkgjwt.Parse(secret, gotAuth[len("Bearer "):])
	require.NoError(t, err)
	assert.Equal(t, "c-B", claims.CompanyID)
}

func TestClient_ReenviaTokenDelLlamante(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, backend.ForwardToken{Fallback: backend.StaticToken("fijo")})

	ctx := domain.WithCaller(context.Background(), domain.Caller{CompanyID: "c-B", Token: "tok-usuario"})
	_, err := c.Fetch(ctx, "/x", widget.Params{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-usuario", gotAuth)

	_, err = c.Fetch(context.Background(), "/x", widget.Params{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer fijo", gotAuth)

	gotAuth = ""
	_, err = newClient(t, srv.URL, backend.ForwardToken{}).Fetch(context.Background(), "/x", widget.Params{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_SinTokenNoEnviaAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).Fetch(context.Background(), "/x", widget.Params{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErroresDeEstado(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		code    string
	}{
		{"code y message", http.StatusBadRequest, `{"code":"VALIDATION","message":"rango de fechas inválido"}`, "rango de fechas inválido", "VALIDATION"},
		{"campo error", http.StatusUnauthorized, `{"error":"token expirado"}`, "token expirado", ""},
		{"cuerpo no JSON", http.StatusBadGateway, `<html>bad gateway</html>`, "el servidor respondió con estado 502", ""},
		{"cuerpo vacío", http.StatusInternalServerError, ``, "el servidor respondió con estado 500", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL, nil).Fetch(context.Background(), "/api/inventory/low-stock", widget.Params{})
			require.Error(t, err)

			var se *backend.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Code)
			assert.Equal(t, tt.code, se.ErrCode)
			assert.Equal(t, tt.message, widget.MessageOf(err))
		})
	}
}

func TestClient_RespetaCancelacion(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := newClient(t, srv.URL, nil).Fetch(ctx, "/lento", widget.Params{})
	assert.ErrorIs(t, err, context.Canceled)
}

type expiredCtx struct {
	context.Context
	deadline time.Time
}

func (c expiredCtx) Deadline() (time.Time, bool) { return c.deadline, true }

func TestClient_PlazoVencidoNoLlamaAlBackend(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// Plazo vencido con Err() todavía nil, como entre el vencimiento y el aviso del timer.
	ctx := expiredCtx{Context: context.Background(), deadline: time.Now().Add(-time.Millisecond)}

	_, err := newClient(t, srv.URL, nil).Fetch(ctx, "/x", widget.Params{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestClient_BackendCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url, nil).Fetch(context.Background(), "/x", widget.Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend: GET /x")
}

func TestNewClient_URLVacia(t *testing.T) {
	_, err := backend.NewClient(backend.Config{}, nil)
	assert.Error(t, err)
}
