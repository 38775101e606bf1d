package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/announcer/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name: announced
environment: staging
announce:
  discovery:
    hosts: "disco-1, disco-2"
  environment: prod
  http_port: 8080
`)
	t.Setenv("ANNOUNCE_PERIOD", "7")

	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Announce.Discovery.Hosts != "disco-1, disco-2" || cfg.Announce.Discovery.Port != 4111 {
		t.Errorf("unexpected discovery config: %+v", cfg.Announce.Discovery)
	}
	if cfg.Announce.Period != 7 {
		t.Errorf("expected env override of period, got %d", cfg.Announce.Period)
	}
	if cfg.Announce.RequestTimeout != 10*time.Second {
		t.Errorf("unexpected request timeout %v", cfg.Announce.RequestTimeout)
	}
	if cfg.Observability.ServiceName != "announced" || cfg.Observability.Environment != "staging" {
		t.Errorf("observability must inherit service identity: %+v", cfg.Observability)
	}
	if !cfg.Server.Enabled {
		t.Error("status server is enabled by default")
	}
}

func TestValidateMissingHosts(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Announce.Environment = "prod"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected missing hosts error, got %v", err)
	}
}

func TestNewAppWiresComponents(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Name = "announced"
	cfg.Environment = "production"
	cfg.Announce.Discovery.Hosts = "127.0.0.1"
	cfg.Announce.Discovery.Port = 1
	cfg.Announce.Environment = "test"
	cfg.Announce.RequestTimeout = 50 * time.Millisecond
	cfg.Server.Enabled = true
	cfg.Server.Host = "127.0.0.1"

	app, svc, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	for _, name := range []string{"telemetry", "announcer", "http-server"} {
		if app.Components.Get(name) == nil {
			t.Errorf("component %s not registered", name)
		}
	}
	if svc.Identity().NodeID == "" {
		t.Error("expected a generated node id")
	}

	if _, err := statusSource(svc)(context.Background()); !errors.IsCode(err, errors.ErrCodeNotStarted) {
		t.Errorf("expected not started before Start, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "announced ") {
		t.Errorf("unexpected output %q", out.String())
	}
}
