package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/gantt"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Dashboard de operación de bodega",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newWidgetCmd())
	return root
}

// container dependencias compartidas por los comandos.
type container struct {
	cfg       *config.Config
	log       *logger.Logger
	catalog   *appanalytics.Catalog
	caps      *widget.Registry
	collector *metrics.Collector
	widgets   *appanalytics.WidgetUseCase
	dashboard *appanalytics.DashboardUseCase
	boards    *appanalytics.BoardUseCase
}

// buildContainer arma el grafo de dependencias. logOut recibe los logs; la CLI usa
// stderr para no mezclarlos con la salida JSON.
func buildContainer(logOut io.Writer) (*container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: logOut})

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
		Tokens:  tokenSource(cfg.Backend),
	}, log)
	if err != nil {
		return nil, err
	}

	c := &container{
		cfg:     cfg,
		log:     log,
		catalog: appanalytics.DefaultCatalog(),
		caps:    widget.NewRegistry(),
	}

	// El gauge de tableros lee c.boards, que se asigna más abajo.
	c.collector = metrics.New(func() int {
		if c.boards == nil {
			return 0
		}
		return c.boards.Count()
	})

	reports := infrapdf.NewMarotoReportGenerator(cfg.Report.Lang)
	c.widgets = appanalytics.NewWidgetUseCase(c.catalog, client, c.caps, c.collector, reports)
	c.dashboard = appanalytics.NewDashboardUseCase(c.catalog, c.widgets)
	c.boards = appanalytics.NewBoardUseCase(c.catalog, client, c.caps, appanalytics.BoardOptions{
		SearchDebounce: cfg.Widget.SearchDebounce(),
		LoadTimeout:    cfg.Backend.Timeout() + 5*time.Second,
		Observer:       c.collector,
	}, log)
	return c, nil
}

// tokenSource decide cómo se autentican las llamadas al backend:
//   - BACKEND_TOKEN: se reenvía el token del usuario autenticado; sin usuario, el fijo.
//   - BACKEND_JWT_SECRET: token de servicio firmado para la empresa del usuario.
//   - ninguno: solo se reenvía el token del usuario, si lo hay.
func tokenSource(cfg config.BackendConfig) backend.TokenSource {
	switch {
	case cfg.Token != "":
		return backend.ForwardToken{Fallback: backend.StaticToken(cfg.Token)}
	case cfg.JWTSecret != "":
		return backend.CompanyTokens{Source: &pkgjwt.ServiceTokenSource{
			Secret:     cfg.JWTSecret,
			Issuer:     cfg.JWTIssuer,
			UserID:     cfg.UserID,
			CompanyID:  cfg.CompanyID,
			Role:       cfg.Role,
			ExpMinutes: cfg.TokenMinutes,
		}}
	default:
		return backend.ForwardToken{}
	}
}

// provideTimeline publica el renderizador Gantt si está habilitado.
func (c *container) provideTimeline() {
	if !c.cfg.Timeline.RendererEnabled {
		c.log.Warn().Msg("renderizador de línea de tiempo deshabilitado")
		return
	}
	loc, err := time.LoadLocation(c.cfg.Timeline.Location)
	if err != nil {
		c.log.Warn().Err(err).Str("location", c.cfg.Timeline.Location).Msg("zona horaria inválida, se usa UTC")
		loc = time.UTC
	}
	c.caps.Provide(appanalytics.TimelineCapability, gantt.NewRenderer(loc))
}
