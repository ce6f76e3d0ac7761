package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/auth"
	"github.com/vyrodovalexey/shoppinglist/internal/config"
	"github.com/vyrodovalexey/shoppinglist/internal/screen"
	"github.com/vyrodovalexey/shoppinglist/internal/server"
	"github.com/vyrodovalexey/shoppinglist/internal/store"
)

func (a *app) serveCommand() *cli.Command {
	var port int

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the shopping list over HTTP and WebSocket",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "listen port (overrides server.port)",
				Destination: &port,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			if port != 0 {
				a.cfg.Server.Port = port
				if err := a.cfg.Validate(); err != nil {
					return fmt.Errorf("validate flags: %w", err)
				}
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	output := "stdout"
	if cfg.Log.File != "" {
		output = cfg.Log.File
	}
	logger, err := initLogger(cfg.Log.Level, output)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.String("auth_mode", cfg.AuthModeOrDefault()),
	)

	authenticator, err := createAuthenticator(cfg)
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}

	loop := screen.NewLoop(screen.New(store.NewMemoryStore(), logger), logger)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	srv := server.New(cfg, logger, loop, authenticator)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return err
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// createAuthenticator returns nil when authentication is disabled.
func createAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	return auth.New(auth.Method(cfg.AuthModeOrDefault()), cfg.Auth.BasicUsers, cfg.Auth.APIKeys)
}
