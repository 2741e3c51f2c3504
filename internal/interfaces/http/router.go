package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name     string
	DocsPath string // swagger.json; vacío o inexistente = sin /docs
	Log      *logger.Logger
}

// NewApp crea la aplicación con recover, request id, log de peticiones, /health y,
// si existe el archivo, Swagger UI en /docs.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(log.Named("http")))

	if cfg.DocsPath != "" {
		if _, err := os.Stat(cfg.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.DocsPath,
				Path:     "docs",
				Title:    "Inventario Dashboard API",
			}))
		} else {
			log.Warn().Str("path", cfg.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WidgetUC    *appanalytics.WidgetUseCase
	DashboardUC *appanalytics.DashboardUseCase
	BoardUC     *appanalytics.BoardUseCase
	Metrics     http.Handler // nil = sin /metrics
	JWTSecret   string       // vacío = API sin autenticación
	Roles       []string     // roles con acceso; vacío = cualquier token válido
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		if len(deps.Roles) > 0 {
			api.Use(RequireRole(deps.Roles...))
		}
	}

	// Widgets (carga puntual)
	widgets := api.Group("/widgets")
	widgetHandler := NewWidgetHandler(deps.WidgetUC)
	widgets.Get("/", widgetHandler.List)
	widgets.Get("/:id/export.pdf", widgetHandler.ExportPDF)
	widgets.Get("/:id", widgetHandler.Get)

	// Resumen
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Tableros con estado
	boards := api.Group("/boards")
	boardHandler := NewBoardHandler(deps.BoardUC)
	boards.Post("/", boardHandler.Create)
	boards.Get("/:id", boardHandler.Get)
	boards.Delete("/:id", boardHandler.Delete)
	boards.Get("/:id/widgets/:widget", boardHandler.GetWidget)
	boards.Put("/:id/widgets/:widget/params", boardHandler.SetParams)
	boards.Post("/:id/widgets/:widget/search", boardHandler.Search)
}
