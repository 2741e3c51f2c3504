package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventory-pro-test"
)

// tokenFor genera el header Authorization de un usuario de la API de inventario.
func tokenFor(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testCompanyID, role)
}

// authServer servidor con la autenticación tal como la configura el entorno.
func authServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", testJWTSecret)
	cfg, err := config.Load()
	require.NoError(t, err)
	return newTestServer(t, cfg.Auth.JWTSecret, cfg.Auth.Roles...)
}

func (s *testServer) doAs(t *testing.T, method, path, body, auth string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Acceso a la API
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RolesConfigurados(t *testing.T) {
	s := authServer(t)

	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, 60)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, "admin", testIssuer, 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, -1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		auth   string
		status int
		code   string
	}{
		{"admin", tokenForRole(t, "admin"), http.StatusOK, ""},
		{"bodeguero", tokenForRole(t, "bodeguero"), http.StatusOK, ""},
		{"vendedor sin acceso", tokenForRole(t, "vendedor"), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", "Bearer " + noRole, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"otro secreto", "Bearer " + otherSecret, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.doAs(t, http.MethodGet, "/api/widgets", "", tt.auth)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, resp).Code)
				return
			}
			resp.Body.Close()
		})
	}
}

func TestAuth_RutasPublicas(t *testing.T) {
	s := authServer(t)

	for _, path := range []string{"/health", "/metrics"} {
		resp := s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestAuth_SinRolesCualquierTokenValido(t *testing.T) {
	s := newTestServer(t, testJWTSecret)

	resp := s.doAs(t, http.MethodGet, "/api/widgets", "", tokenForRole(t, "vendedor"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// Un tablero solo existe para la empresa que lo montó.
func TestAuth_TableroDeOtraEmpresa(t *testing.T) {
	s := authServer(t)
	owner := tokenFor(t, "empresa-A", "bodeguero")

	resp := s.doAs(t, http.MethodPost, "/api/boards", `{"widgets": ["low_stock"]}`, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	board := decode[dto.BoardDTO](t, resp)
	base := "/api/boards/" + board.ID

	stranger := tokenFor(t, "empresa-B", "admin")
	resp = s.doAs(t, http.MethodGet, base, "", stranger)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "BOARD_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.doAs(t, http.MethodPost, base+"/widgets/low_stock/search", `{"text": "x"}`, stranger)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doAs(t, http.MethodDelete, base, "", stranger)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doAs(t, http.MethodGet, base, "", owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Llamadas al backend a nombre de la empresa del usuario
// ──────────────────────────────────────────────────────────────────────────────

// inventoryAPI backend falso que guarda el Authorization de cada petición.
type inventoryAPI struct {
	srv  *httptest.Server
	mu   sync.Mutex
	auth []string
}

func newInventoryAPI(t *testing.T) *inventoryAPI {
	t.Helper()
	api := &inventoryAPI{}
	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.auth = append(api.auth, r.Header.Get("Authorization"))
		api.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"warehouse": "Norte", "sku": "SKU-1", "on_hand": 10}]}`))
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *inventoryAPI) received() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.auth...)
}

// upstreamCompany empresa del token de servicio recibido por el backend.
func upstreamCompany(t *testing.T, secret, auth string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(auth, "Bearer "), auth)
	claims, err := pkgjwt.Parse(secret, strings.TrimPrefix(auth, "Bearer "))
	require.NoError(t, err)
	return claims.CompanyID
}

func TestAuth_TokenDeServicioConLaEmpresaDelUsuario(t *testing.T) {
	const backendSecret = "secreto-del-backend"
	api := newInventoryAPI(t)

	// Igual que tokenSource con la configuración por defecto: sin empresa fija.
	client, err := backend.NewClient(backend.Config{
		BaseURL: api.srv.URL,
		Timeout: 2 * time.Second,
		Tokens: backend.CompanyTokens{Source: &pkgjwt.ServiceTokenSource{
			Secret: backendSecret, Issuer: "inventory-pro", UserID: "inventario-dashboard", Role: "admin",
		}},
	}, nil)
	require.NoError(t, err)

	app, _ := buildApp(t, client, testJWTSecret, "admin", "bodeguero")
	s := &testServer{app: app}

	resp := s.doAs(t, http.MethodGet, "/api/widgets/stock_levels", "", tokenFor(t, "company-B", "bodeguero"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", decode[dto.WidgetViewDTO](t, resp).Status)

	got := api.received()
	require.Len(t, got, 1)
	assert.Equal(t, "company-B", upstreamCompany(t, backendSecret, got[0]))

	// Las cargas asíncronas del tablero también van a nombre de la empresa.
	resp = s.doAs(t, http.MethodPost, "/api/boards", `{"widgets": ["low_stock"]}`, tokenFor(t, "company-C", "admin"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.Eventually(t, func() bool { return len(api.received()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "company-C", upstreamCompany(t, backendSecret, api.received()[1]))
}

func TestAuth_ReenviaElTokenDelUsuario(t *testing.T) {
	api := newInventoryAPI(t)

	client, err := backend.NewClient(backend.Config{
		BaseURL: api.srv.URL,
		Timeout: 2 * time.Second,
		Tokens:  backend.ForwardToken{Fallback: backend.StaticToken("token-fijo")},
	}, nil)
	require.NoError(t, err)

	app, _ := buildApp(t, client, testJWTSecret)
	s := &testServer{app: app}

	user := tokenFor(t, "company-B", "admin")
	resp := s.doAs(t, http.MethodGet, "/api/widgets/low_stock", "", user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	got := api.received()
	require.Len(t, got, 1)
	assert.Equal(t, user, got[0])
}

func TestAuthMiddleware_DejaElLlamanteEnElContexto(t *testing.T) {
	var caller domain.Caller
	var found bool
	fetcher := widget.FetcherFunc(func(ctx context.Context, _ string, _ widget.Params) ([]byte, error) {
		caller, found = domain.CallerFrom(ctx)
		return []byte(`[]`), nil
	})

	app, _ := buildApp(t, fetcher, testJWTSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/widgets/low_stock", nil)
	auth := tokenForRole(t, "bodeguero")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	require.True(t, found)
	assert.Equal(t, domain.Caller{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      "bodeguero",
		Token:     strings.TrimPrefix(auth, "Bearer "),
	}, caller)
}
