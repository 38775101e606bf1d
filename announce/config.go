package announce

import (
	"fmt"
	"time"

	"github.com/kbukum/announcer/errors"
	"github.com/kbukum/announcer/validation"
)

const (
	DefaultDiscoveryPort  = 4111
	DefaultPool           = "general"
	DefaultHostIP         = "127.0.0.1"
	DefaultPeriodSeconds  = 5
	DefaultServiceType    = "reporting"
	DefaultRequestTimeout = 10 * time.Second
)

// DiscoveryConfig locates the registry replicas.
type DiscoveryConfig struct {
	// Hosts is a comma-separated list of registry hosts in failover order.
	Hosts string `yaml:"hosts" mapstructure:"hosts"`
	// Port is shared by every host.
	Port int `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
}

// Config configures the announcer.
type Config struct {
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`

	Environment string `yaml:"environment" mapstructure:"environment" validate:"required"`
	Pool        string `yaml:"pool" mapstructure:"pool" validate:"required"`

	// HostIP is the address advertised in the http, https and telnet
	// properties.
	HostIP string `yaml:"host_ip" mapstructure:"host_ip" validate:"required"`
	// Hostname, when set, adds an http-external property.
	Hostname string `yaml:"hostname" mapstructure:"hostname"`

	// A port of 0 leaves the matching property out of the descriptor.
	TelnetPort int `yaml:"telnet_port" mapstructure:"telnet_port" validate:"min=0,max=65535"`
	HTTPPort   int `yaml:"http_port" mapstructure:"http_port" validate:"min=0,max=65535"`
	HTTPSPort  int `yaml:"https_port" mapstructure:"https_port" validate:"min=0,max=65535"`

	// Period is the announce interval in seconds.
	Period int `yaml:"period" mapstructure:"period" validate:"min=1"`

	ServiceType string `yaml:"service_type" mapstructure:"service_type" validate:"required"`

	// NodeID pins the node id. Empty generates one per process.
	NodeID string `yaml:"node_id" mapstructure:"node_id"`

	// RequestTimeout bounds a single PUT or DELETE.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Discovery.Port == 0 {
		c.Discovery.Port = DefaultDiscoveryPort
	}
	if c.Pool == "" {
		c.Pool = DefaultPool
	}
	if c.HostIP == "" {
		c.HostIP = DefaultHostIP
	}
	if c.Period == 0 {
		c.Period = DefaultPeriodSeconds
	}
	if c.ServiceType == "" {
		c.ServiceType = DefaultServiceType
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Validate checks the configuration. The registry host list is checked
// first so an empty list reports the missing field by name.
func (c *Config) Validate() error {
	if _, err := NewEndpointSet(c.Discovery.Hosts, c.Discovery.Port); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return errors.InvalidInput("request_timeout",
			fmt.Sprintf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	return nil
}

// PeriodDuration returns Period as a time.Duration.
func (c *Config) PeriodDuration() time.Duration {
	return time.Duration(c.Period) * time.Second
}

// Defaults returns the config defaults keyed under prefix, for
// config.WithDefaults. Every key is listed so environment variables can
// override any of them.
func Defaults(prefix string) map[string]any {
	return map[string]any{
		prefix + ".discovery.hosts": "",
		prefix + ".discovery.port":  DefaultDiscoveryPort,
		prefix + ".environment":     "",
		prefix + ".pool":            DefaultPool,
		prefix + ".host_ip":         DefaultHostIP,
		prefix + ".hostname":        "",
		prefix + ".telnet_port":     0,
		prefix + ".http_port":       0,
		prefix + ".https_port":      0,
		prefix + ".period":          DefaultPeriodSeconds,
		prefix + ".service_type":    DefaultServiceType,
		prefix + ".node_id":         "",
		prefix + ".request_timeout": DefaultRequestTimeout.String(),
	}
}
