package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8090", cfg.HTTP.Addr())
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 400*time.Millisecond, cfg.Widget.SearchDebounce())
	assert.True(t, cfg.Timeline.RendererEnabled)
	assert.Equal(t, "es", cfg.Report.Lang)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"admin", "bodeguero"}, cfg.Auth.Roles)
	assert.False(t, cfg.Docs.Enabled)
}

func TestFromViper_Sobrescritos(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9000")
	v.Set("BACKEND_URL", "https://api.ejemplo.co/")
	v.Set("BACKEND_TIMEOUT_SECONDS", 3)
	v.Set("SEARCH_DEBOUNCE_MS", "250")
	v.Set("TIMELINE_RENDERER_ENABLED", "false")
	v.Set("AUTH_ROLES", " admin , ,gerente")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "https://api.ejemplo.co", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.Widget.SearchDebounce())
	assert.False(t, cfg.Timeline.RendererEnabled)
	assert.Equal(t, []string{"admin", "gerente"}, cfg.Auth.Roles)
}

func TestFromViper_EnteroInvalidoUsaDefecto(t *testing.T) {
	v := viper.New()
	v.Set("SEARCH_DEBOUNCE_MS", "rápido")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Widget.SearchDebounceMS)
}

func TestFromViper_Errores(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND_URL", "")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("HTTP_PORT", 0)
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://inventario:8080")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://inventario:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "production", cfg.App.Env)
}
