package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/speakeralign/api"
	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/server"
)

const drainTimeout = 30 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the attribution API over HTTP",
		Long: `Serve exposes POST /v1/attributions and POST /v1/jobs together with
/health, /ready, /info and /metrics, and runs until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *AppConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get("server")
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	registry := component.NewRegistry()
	checker := func(ctx context.Context) []component.Health {
		return append(registry.HealthAll(ctx), svc.HealthReport(ctx)...)
	}
	srv.ApplyDefaults(cfg.Name, checker)
	api.NewHandler(svc).Register(srv.GinEngine())

	httpComponent := server.NewComponent(srv)
	if err := registry.Register(observability.NewComponent(cfg.Observability)); err != nil {
		return err
	}
	if err := registry.Register(httpComponent); err != nil {
		return err
	}

	if err := registry.StartAll(ctx); err != nil {
		_ = registry.StopAll(context.Background())
		return err
	}
	for _, r := range httpComponent.Routes() {
		log.Debug("route", logger.Fields("method", r.Method, "path", r.Path, "handler", r.Handler))
	}
	log.Info("speakeralign ready", logger.Fields(
		"addr", srv.Addr(),
		"environment", cfg.Environment,
		"version", cfg.Version,
	))

	<-ctx.Done()
	log.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	return registry.StopAll(drainCtx)
}
