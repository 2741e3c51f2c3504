package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	Widget   WidgetConfig
	Timeline TimelineConfig
	Report   ReportConfig
	Auth     AuthConfig
	Docs     DocsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig acceso a la API de inventario de la que se leen las métricas.
// Si Token está vacío y JWTSecret no, se firma un token de servicio por petición.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
	Token          string
	JWTSecret      string
	JWTIssuer      string
	CompanyID      string
	UserID         string
	Role           string
	TokenMinutes   int
}

// Timeout devuelve el timeout de cada petición al backend.
func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WidgetConfig comportamiento de los widgets.
type WidgetConfig struct {
	SearchDebounceMS int // ventana de debounce del texto de búsqueda
}

// SearchDebounce devuelve la ventana de debounce como duración.
func (c WidgetConfig) SearchDebounce() time.Duration {
	if c.SearchDebounceMS <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// TimelineConfig renderizador Gantt del widget de línea de tiempo.
type TimelineConfig struct {
	RendererEnabled bool
	Location        string // zona para fechas sin offset (IANA)
}

// ReportConfig exportación PDF.
type ReportConfig struct {
	Lang string // idioma para separadores numéricos
}

// AuthConfig protección de /api con el JWT de la API de inventario.
// Sin JWTSecret la API queda abierta (uso interno detrás del gateway).
type AuthConfig struct {
	JWTSecret string
	Roles     []string
}

// DocsConfig Swagger UI.
type DocsConfig struct {
	Enabled bool
	Path    string // ruta al swagger.json
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, BACKEND_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-dashboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8090),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getString(v, "BACKEND_URL", "http://localhost:8080"), "/"),
			TimeoutSeconds: getInt(v, "BACKEND_TIMEOUT_SECONDS", 15),
			Token:          getString(v, "BACKEND_TOKEN", ""),
			JWTSecret:      getString(v, "BACKEND_JWT_SECRET", ""),
			JWTIssuer:      getString(v, "BACKEND_JWT_ISSUER", "inventory-pro"),
			CompanyID:      getString(v, "BACKEND_COMPANY_ID", ""),
			UserID:         getString(v, "BACKEND_USER_ID", "inventario-dashboard"),
			Role:           getString(v, "BACKEND_ROLE", "admin"),
			TokenMinutes:   getInt(v, "BACKEND_TOKEN_MINUTES", 5),
		},
		Widget: WidgetConfig{
			SearchDebounceMS: getInt(v, "SEARCH_DEBOUNCE_MS", 400),
		},
		Timeline: TimelineConfig{
			RendererEnabled: getBool(v, "TIMELINE_RENDERER_ENABLED", true),
			Location:        getString(v, "TIMELINE_LOCATION", "UTC"),
		},
		Report: ReportConfig{
			Lang: getString(v, "REPORT_LANG", "es"),
		},
		Auth: AuthConfig{
			JWTSecret: getString(v, "AUTH_JWT_SECRET", ""),
			Roles:     splitList(getString(v, "AUTH_ROLES", "admin,bodeguero")),
		},
		Docs: DocsConfig{
			Enabled: getBool(v, "DOCS_ENABLED", false),
			Path:    getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config: BACKEND_URL es obligatorio")
	}
	if cfg.HTTP.Port <= 0 {
		return nil, fmt.Errorf("config: HTTP_PORT inválido: %d", cfg.HTTP.Port)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// splitList separa una lista por comas descartando elementos vacíos.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
