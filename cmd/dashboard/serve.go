package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	httpRouter "github.com/jhoicas/Inventario-dashboard/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servicio HTTP del dashboard",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := buildContainer(os.Stdout)
			if err != nil {
				return err
			}
			return runServe(c)
		},
	}
}

func runServe(c *container) error {
	log := c.log
	cfg := c.cfg
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// El widget de línea de tiempo funciona sin el renderizador; solo se registra
	// cuándo queda disponible.
	go func() {
		if _, err := c.caps.Await(ctx, appanalytics.TimelineCapability); err == nil {
			log.Info().Msg("renderizador de línea de tiempo disponible")
		}
	}()
	c.provideTimeline()

	docsPath := ""
	if cfg.Docs.Enabled {
		docsPath = cfg.Docs.Path
	}
	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:     cfg.App.Name,
		DocsPath: docsPath,
		Log:      log,
	})

	var roles []string
	if cfg.Auth.JWTSecret != "" {
		roles = cfg.Auth.Roles
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		WidgetUC:    c.widgets,
		DashboardUC: c.dashboard,
		BoardUC:     c.boards,
		Metrics:     c.collector.Handler(),
		JWTSecret:   cfg.Auth.JWTSecret,
		Roles:       roles,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := c.boards.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de tableros")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
