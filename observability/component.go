package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/announcer/component"
	"github.com/kbukum/announcer/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component installs the OTLP tracer and meter providers on Start and
// flushes them on Stop. Register it before anything that records telemetry
// so it is stopped last.
type Component struct {
	cfg Config
	log *logger.Logger

	mu      sync.Mutex
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	started bool
}

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{cfg: cfg, log: log.WithComponent("telemetry")}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the providers. It is a no-op when export is disabled.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	c.started = true
	if !c.cfg.Enabled {
		c.log.Debug("telemetry export disabled")
		return nil
	}

	tp, err := InitTracer(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tracer, c.meter = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.started = false

	var errs []error
	if c.meter != nil {
		if err := c.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.meter = nil
	}
	if c.tracer != nil {
		if err := c.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tracer = nil
	}
	return stderrors.Join(errs...)
}

// Health reports healthy once started.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

// Describe returns a summary for the startup log.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample_rate=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
