package main

import (
	"maps"

	"github.com/kbukum/announcer/announce"
	"github.com/kbukum/announcer/config"
	"github.com/kbukum/announcer/observability"
	"github.com/kbukum/announcer/server"
	"github.com/kbukum/announcer/version"
)

// AppConfig is the full process configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Announce      announce.Config      `yaml:"announce" mapstructure:"announce"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Announce.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Announce errors are returned unwrapped so
// callers can inspect the error code.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Announce.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// loaderDefaults registers every key so environment variables such as
// ANNOUNCE_DISCOVERY_HOSTS override them.
func loaderDefaults() map[string]any {
	d := map[string]any{
		"name":           serviceName,
		"environment":    "",
		"version":        "",
		"debug":          false,
		"logging.level":  "",
		"logging.format": "",
		"logging.output": "",
	}
	maps.Copy(d, announce.Defaults("announce"))
	maps.Copy(d, server.Defaults("server"))
	maps.Copy(d, observability.Defaults("observability"))
	return d
}

// loadConfig reads the config file, .env file and environment.
func loadConfig(file, env string) (*AppConfig, error) {
	var cfg AppConfig
	opts := []config.LoaderOption{config.WithDefaults(loaderDefaults())}
	if file != "" {
		opts = append(opts, config.WithConfigFile(file))
	}
	if env != "" {
		opts = append(opts, config.WithEnvFile(env))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
