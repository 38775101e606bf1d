package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/announcer/component"
	"github.com/kbukum/announcer/logger"
)

const defaultGracefulTimeout = 30 * time.Second

// App owns the lifecycle of a long-running process. The type parameter C is
// the config type.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.Register(telemetry, announcer, statusServer)
//	return app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults, validates the config, and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := resolveOptions(opts)
	log := o.logger
	if log == nil {
		logger.Init(base.Logging)
		log = logger.GetGlobalLogger()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Logger:          log,
		Components:      component.NewRegistry(log),
		gracefulTimeout: defaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	return app, nil
}

// Register adds components in start order. They are stopped in reverse.
func (a *App[C]) Register(cs ...component.Component) error {
	for _, c := range cs {
		if err := a.Components.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Run starts every component, blocks until a shutdown signal arrives or
// ctx is done, then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.Shutdown()
}

// Start runs the startup sequence. If any component fails to start, the
// ones already running are stopped before the error is returned.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("startup failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			a.Logger.Warn("Component not healthy after start", map[string]interface{}{
				logger.FieldComponent: h.Name,
				logger.FieldStatus:    string(h.Status),
				"message":             h.Message,
			})
		}
	}

	a.Logger.Info("Application started", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// WaitForSignal blocks until a shutdown signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs OnStop hooks and stops every component within the graceful
// timeout. It is detached from any caller context so a cancelled run still
// gets a full shutdown.
func (a *App[C]) Shutdown() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
		shutdownErr = err
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
