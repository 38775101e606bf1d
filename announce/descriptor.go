package announce

import (
	"net"
	"strconv"
)

// Property names published in a service entry.
const (
	PropertyHTTP         = "http"
	PropertyHTTPS        = "https"
	PropertyTelnet       = "telnet"
	PropertyHTTPExternal = "http-external"
)

// Descriptor is the JSON document PUT to the registry.
type Descriptor struct {
	Environment string         `json:"environment"`
	Pool        string         `json:"pool"`
	Location    string         `json:"location"`
	Services    []ServiceEntry `json:"services"`
}

// ServiceEntry describes one announced service and how to reach it.
type ServiceEntry struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// DescriptorBuilder assembles descriptors from identity and configuration.
type DescriptorBuilder struct {
	identity    Identity
	environment string
	pool        string
	serviceType string
	hostIP      string
	hostname    string
	httpPort    int
	httpsPort   int
	telnetPort  int
}

// NewDescriptorBuilder captures the values a descriptor is built from.
func NewDescriptorBuilder(id Identity, cfg Config) *DescriptorBuilder {
	return &DescriptorBuilder{
		identity:    id,
		environment: cfg.Environment,
		pool:        cfg.Pool,
		serviceType: cfg.ServiceType,
		hostIP:      cfg.HostIP,
		hostname:    cfg.Hostname,
		httpPort:    cfg.HTTPPort,
		httpsPort:   cfg.HTTPSPort,
		telnetPort:  cfg.TelnetPort,
	}
}

// Build returns a new Descriptor. Endpoints whose port is not positive are
// left out entirely.
func (b *DescriptorBuilder) Build() Descriptor {
	props := make(map[string]string, 4)
	if b.httpPort > 0 {
		props[PropertyHTTP] = "http://" + hostPort(b.hostIP, b.httpPort)
		if b.hostname != "" {
			props[PropertyHTTPExternal] = "http://" + hostPort(b.hostname, b.httpPort)
		}
	}
	if b.httpsPort > 0 {
		props[PropertyHTTPS] = "https://" + hostPort(b.hostIP, b.httpsPort)
	}
	if b.telnetPort > 0 {
		props[PropertyTelnet] = hostPort(b.hostIP, b.telnetPort)
	}

	return Descriptor{
		Environment: b.environment,
		Pool:        b.pool,
		Location:    "/" + b.identity.NodeID,
		Services: []ServiceEntry{{
			ID:         b.identity.AnnouncementID,
			Type:       b.serviceType,
			Properties: props,
		}},
	}
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
