package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/announcer/component"
	"github.com/kbukum/announcer/logger"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.MetricInterval)
	}
	if cfg.Environment != "development" || cfg.ServiceVersion != "dev" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled needs nothing", Config{}, false},
		{"enabled", Config{Enabled: true, ServiceName: "announced", SampleRate: 0.5}, false},
		{"enabled without name", Config{Enabled: true}, true},
		{"bad sample rate", Config{Enabled: true, ServiceName: "a", SampleRate: 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("announced", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		AttrServiceName:    "announced",
		AttrServiceVersion: "1.2.3",
		AttrEnvironment:    "staging",
	}
	for k, v := range want {
		got, ok := res.Set().Value(attribute.Key(k))
		if !ok || got.AsString() != v {
			t.Errorf("attribute %s: expected %q, got %q", k, v, got.AsString())
		}
	}
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != "AlwaysOnSampler" {
		t.Errorf("unexpected sampler for 1.0: %s", sampler(1).Description())
	}
	if sampler(0).Description() != "AlwaysOffSampler" {
		t.Errorf("unexpected sampler for 0: %s", sampler(0).Description())
	}
}

func TestComponentDisabled(t *testing.T) {
	c := NewComponent(Config{}, logger.Nop())
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %v", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy || h.Message != "export disabled" {
		t.Errorf("unexpected health: %+v", h)
	}
	if c.Describe().Details != "disabled" {
		t.Errorf("unexpected description: %+v", c.Describe())
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestComponentRejectsInvalidConfig(t *testing.T) {
	c := NewComponent(Config{Enabled: true}, logger.Nop())
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected error for enabled telemetry without a service name")
	}
}

func TestServiceHealth(t *testing.T) {
	sh := NewServiceHealth("announced", "1.0.0")
	if sh.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", sh.Status)
	}

	sh.AddComponent(component.Health{Name: "telemetry", Status: component.StatusHealthy})
	sh.AddComponent(component.Health{Name: "announcer", Status: component.StatusDegraded})
	if sh.Status != component.StatusDegraded || !sh.IsHealthy() {
		t.Errorf("expected degraded but serving, got %s", sh.Status)
	}

	sh.AddComponent(component.Health{Name: "server", Status: component.StatusUnhealthy})
	sh.AddComponent(component.Health{Name: "late", Status: component.StatusDegraded})
	if sh.Status != component.StatusUnhealthy || sh.IsHealthy() {
		t.Errorf("unhealthy must stick, got %s", sh.Status)
	}
	if len(sh.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(sh.Components))
	}
}
