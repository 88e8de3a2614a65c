package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/internal/bootstrap"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/service"
)

type serveOptions struct {
	*rootOptions
	host string
	port int
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve [engine-url]",
		Short: "Run the registry HTTP server",
		Long: `Run the registry HTTP server.

The optional engine URL selects the database, for example
  registry serve sqlite:///registry.db
  registry serve postgresql://feast:secret@db:5432/feast
Without it the DB_* environment variables are used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var engineURL string
			if len(args) == 1 {
				engineURL = args[0]
			}
			return runServe(cmd, opts, engineURL)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "bind address (default $HOST or 127.0.0.1)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "bind port (default $PORT or 8000)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions, engineURL string) error {
	cfg, err := loadConfig(cmd, opts.rootOptions, engineURL)
	if err != nil {
		return err
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = strconv.Itoa(opts.port)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	storage, err := bootstrap.OpenStorage(ctx, cfg.Database, cfg.Registry)
	if err != nil {
		return err
	}
	defer storage.Close()

	publisher, closePublisher, err := bootstrap.OpenPublisher(ctx, cfg.Redis, log.Named("events"))
	if err != nil {
		return err
	}
	defer closePublisher()

	registry := service.NewRegistry(storage.Store,
		service.WithPublisher(publisher),
		service.WithLogger(log.Named("registry")))

	if cfg.Registry.TeardownSchedule != "" {
		scheduler, err := bootstrap.NewTeardownScheduler(cfg.Registry.TeardownSchedule, registry, time.Minute, log.Named("scheduler"))
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		Health:         storage.Health,
		Registry:       registry,
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("driver", cfg.Database.Driver),
			zap.String("service", cfg.App.ServiceName))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
