package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
)

func TestWidgetFlags_Params(t *testing.T) {
	f := widgetFlags{warehouse: "WH-1", groupBy: "month", page: 2, perPage: 0}

	assert.Equal(t, map[string]string{
		"warehouse": "WH-1",
		"group_by":  "month",
		"page":      "2",
	}, f.params().Map())
}

func TestWidgetCmd_Flags(t *testing.T) {
	cmd := newWidgetCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--warehouse", "WH-2", "--date-from", "2024-01-01", "--per-page", "50"}))

	for _, name := range []string{"warehouse", "date-from", "date-to", "status", "group-by", "page", "per-page", "search", "pdf"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, cmd.Args(cmd, nil), "exige el id del widget")
}

func TestRootCmd_Subcomandos(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "widget"}, names)
}

func TestTokenSource(t *testing.T) {
	assert.Equal(t,
		backend.ForwardToken{Fallback: backend.StaticToken("fijo")},
		tokenSource(config.BackendConfig{Token: "fijo", JWTSecret: "s"}))

	src := tokenSource(config.BackendConfig{JWTSecret: "s", Role: "admin", CompanyID: "c-1", TokenMinutes: 5})
	svc, ok := src.(backend.CompanyTokens)
	require.True(t, ok)
	assert.Equal(t, "admin", svc.Source.Role)

	// El token de servicio va firmado para la empresa del usuario autenticado.
	ctx := domain.WithCaller(context.Background(), domain.Caller{CompanyID: "c-B"})
	tok, err := src.Token(ctx)
	require.NoError(t, err)
	claims, err := pkgjwt.Parse("s", tok)
	require.NoError(t, err)
	assert.Equal(t, "c-B", claims.CompanyID)

	assert.Equal(t, backend.ForwardToken{}, tokenSource(config.BackendConfig{}))
}
