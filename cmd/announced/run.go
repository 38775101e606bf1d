package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/announcer/announce"
	"github.com/kbukum/announcer/bootstrap"
	"github.com/kbukum/announcer/errors"
	"github.com/kbukum/announcer/observability"
	"github.com/kbukum/announcer/server"
)

const instrumentationName = "github.com/kbukum/announcer"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Announce until interrupted",
	Long: `Start announcing to the configured registry endpoints. On SIGINT or SIGTERM
the announcement is withdrawn from every endpoint before the process exits.

Examples:
  # Use ./cmd/announced/config.yml, ./config/config.yml or ./config.yml
  announced run

  # Configure entirely from the environment
  ANNOUNCE_DISCOVERY_HOSTS=disco-1,disco-2 ANNOUNCE_ENVIRONMENT=prod announced run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configFile, envFile)
		if err != nil {
			return err
		}
		app, _, err := newApp(cfg)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// newApp validates cfg and registers the components in start order:
// telemetry first so it is flushed last, then the announcer, then the
// status server so it stops before the announcement is withdrawn.
func newApp(cfg *AppConfig) (*bootstrap.App[*AppConfig], *announce.Service, error) {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, log)
	svc := announce.NewService(cfg.Announce, log,
		announce.WithMeter(observability.Meter(instrumentationName)),
		announce.WithTracer(observability.Tracer(instrumentationName)),
	)
	if err := app.Register(telemetry, svc); err != nil {
		return nil, nil, err
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, log)
		srv.Routes(cfg.Name, cfg.Version, app.Components.HealthAll, statusSource(svc))
		if err := app.Register(server.NewComponent(srv)); err != nil {
			return nil, nil, err
		}
	}
	return app, svc, nil
}

func statusSource(svc *announce.Service) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		st := svc.Status()
		if !st.Running {
			return nil, errors.NotStarted(svc.Name())
		}
		return st, nil
	}
}
