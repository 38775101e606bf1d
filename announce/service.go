package announce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/announcer/errors"
	"github.com/kbukum/announcer/httpclient"
	"github.com/kbukum/announcer/logger"
)

// Status is a point-in-time view of the announcer.
type Status struct {
	NodeID         string    `json:"node_id"`
	AnnouncementID string    `json:"announcement_id"`
	Running        bool      `json:"running"`
	Announced      bool      `json:"announced"`
	Endpoint       string    `json:"endpoint,omitempty"`
	LastTick       time.Time `json:"last_tick,omitzero"`
	Ticks          uint64    `json:"ticks"`
}

// Option configures a Service.
type Option func(*Service)

// WithAnnouncer replaces the HTTP announcer.
func WithAnnouncer(a Announcer) Option {
	return func(s *Service) { s.announcer = a }
}

// WithMeter records announce metrics on m.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.meter = m }
}

// WithTracer records a span per tick and per request on t.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// Service keeps this process announced to the registry while it runs.
type Service struct {
	cfg      Config
	log      *logger.Logger
	identity Identity

	announcer Announcer
	client    *httpclient.Client
	meter     metric.Meter
	tracer    trace.Tracer
	metrics   *Metrics

	endpoints *EndpointSet
	builder   *DescriptorBuilder
	gate      *LogGate
	scheduler *Scheduler

	mu      sync.RWMutex
	started bool
	status  Status
}

// NewService creates an announcer service. The process identity is fixed
// here; configuration is validated by Start.
func NewService(cfg Config, log *logger.Logger, opts ...Option) *Service {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	id := NewIdentity(cfg.NodeID)

	s := &Service{
		cfg:      cfg,
		identity: id,
		log: log.WithComponent("announce").WithFields(map[string]interface{}{
			logger.FieldNodeID: id.NodeID,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}
	s.status = Status{NodeID: id.NodeID, AnnouncementID: id.AnnouncementID}
	return s
}

// Identity returns the process identity.
func (s *Service) Identity() Identity { return s.identity }

// Start validates the configuration and begins announcing. The first
// announcement is sent immediately in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	if err := s.init(); err != nil {
		return err
	}
	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}
	s.started = true
	s.status.Running = true

	s.log.Info("announcer started", map[string]interface{}{
		"endpoints": s.endpoints.All(),
		"period":    s.cfg.PeriodDuration().String(),
	})
	return nil
}

// init builds everything a tick needs.
func (s *Service) init() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	endpoints, err := NewEndpointSet(s.cfg.Discovery.Hosts, s.cfg.Discovery.Port)
	if err != nil {
		return err
	}
	metrics, err := NewMetrics(s.meter)
	if err != nil {
		return errors.Internal(fmt.Errorf("create announce metrics: %w", err))
	}
	if s.announcer == nil {
		client, err := httpclient.New(httpclient.Config{Timeout: s.cfg.RequestTimeout})
		if err != nil {
			return errors.Internal(err)
		}
		s.client = client
		s.announcer = NewHTTPAnnouncer(client, s.identity.NodeID, s.tracer)
	}

	s.endpoints = endpoints
	s.metrics = metrics
	s.builder = NewDescriptorBuilder(s.identity, s.cfg)
	s.gate = NewLogGate()
	s.scheduler = NewScheduler(s.cfg.PeriodDuration(), s.tick, s.log)
	return nil
}

// Stop stops announcing and withdraws the announcement from every
// endpoint. Withdrawal failures are logged, never returned.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.scheduler.Stop()
	s.withdrawAll(ctx)

	s.mu.Lock()
	s.status.Running = false
	s.status.Announced = false
	s.status.Endpoint = ""
	s.mu.Unlock()

	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	s.log.Info("announcer stopped")
	return nil
}

// withdrawAll sends a DELETE to every endpoint in order. Cancellation of
// ctx does not cut the loop short; each request has its own timeout.
func (s *Service) withdrawAll(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, ep := range s.endpoints.All() {
		res := s.announcer.WithdrawAt(ctx, ep)
		s.metrics.RecordWithdrawal(ctx, res)

		if res.Err != nil {
			s.log.Warn(fmt.Sprintf("withdraw from %s failed: %v", ep, res.Err), map[string]interface{}{
				logger.FieldEndpoint: ep,
				logger.FieldError:    res.Err,
			})
			continue
		}
		s.log.Info(fmt.Sprintf("withdraw from %s returned HTTP %d", ep, res.StatusCode), map[string]interface{}{
			logger.FieldEndpoint:   ep,
			logger.FieldStatusCode: res.StatusCode,
		})
	}
}

// tick runs one announce round. It is only ever called by the scheduler
// goroutine, which owns the gate. Gate and status are settled before
// anything is reported, so a failure while logging or recording metrics
// cannot leave them behind.
func (s *Service) tick(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "announce.tick")
	defer span.End()

	start := time.Now()
	out := s.runTick(ctx)
	shouldLog := s.gate.Decide(out.Success)

	s.mu.Lock()
	s.status.Announced = out.Success
	s.status.Endpoint = out.Endpoint
	s.status.LastTick = start
	s.status.Ticks++
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.log.Warn(fmt.Sprintf("announce tick reporting failed: %v", r))
		}
	}()
	if shouldLog {
		Emit(s.log, out.Messages)
	}
	s.metrics.RecordTick(ctx, out, time.Since(start))
	span.SetAttributes(
		attribute.Bool("announce.success", out.Success),
		attribute.Int("announce.attempts", out.Attempts),
	)
}

// runTick turns a panic anywhere in the round into a failed outcome.
func (s *Service) runTick(ctx context.Context) (out TickOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = TickOutcome{Messages: []Message{{
				Level: LevelWarn,
				Text:  fmt.Sprintf("announce tick failed: %v", r),
				Err:   errors.Internal(fmt.Errorf("panic: %v", r)),
			}}}
		}
	}()
	return RunTick(ctx, s.announcer, s.builder, s.endpoints)
}

// Status returns a snapshot of the announcer state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
