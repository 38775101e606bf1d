package announce

import (
	"testing"
	"time"

	"github.com/kbukum/announcer/errors"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Discovery.Port != 4111 || cfg.Pool != "general" || cfg.HostIP != "127.0.0.1" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Period != 5 || cfg.PeriodDuration() != 5*time.Second {
		t.Errorf("unexpected period: %d", cfg.Period)
	}
	if cfg.ServiceType != "reporting" || cfg.RequestTimeout != 10*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode errors.ErrorCode
	}{
		{"valid", func(*Config) {}, ""},
		{"no hosts", func(c *Config) { c.Discovery.Hosts = "" }, errors.ErrCodeMissingField},
		{"blank hosts", func(c *Config) { c.Discovery.Hosts = " , " }, errors.ErrCodeMissingField},
		{"bad port", func(c *Config) { c.Discovery.Port = 70000 }, errors.ErrCodeInvalidInput},
		{"no environment", func(c *Config) { c.Environment = "" }, errors.ErrCodeInvalidInput},
		{"negative http port", func(c *Config) { c.HTTPPort = -1 }, errors.ErrCodeInvalidInput},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, errors.ErrCodeInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig("a,b")
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.IsCode(err, tc.wantCode) {
				t.Errorf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestDefaultsKeys(t *testing.T) {
	d := Defaults("announce")
	if d["announce.discovery.port"] != 4111 {
		t.Errorf("unexpected port default: %v", d["announce.discovery.port"])
	}
	if d["announce.request_timeout"] != "10s" {
		t.Errorf("unexpected timeout default: %v", d["announce.request_timeout"])
	}
	if _, ok := d["announce.discovery.hosts"]; !ok {
		t.Error("hosts key must be registered for env binding")
	}
}
