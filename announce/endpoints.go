package announce

import (
	"net"
	"strconv"
	"strings"

	"github.com/kbukum/announcer/errors"
)

const registryScheme = "http"

// EndpointSet is the ordered list of registry base URLs. Order is failover
// priority.
type EndpointSet struct {
	urls []string
}

// NewEndpointSet builds base URLs from a comma-separated host list and a
// shared port. Blank entries are skipped; an empty result is an error.
func NewEndpointSet(hosts string, port int) (*EndpointSet, error) {
	if port < 1 || port > 65535 {
		return nil, errors.InvalidInput("announce.discovery.port",
			"port must be between 1 and 65535, got "+strconv.Itoa(port))
	}

	var urls []string
	for _, h := range strings.Split(hosts, ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		urls = append(urls, registryScheme+"://"+net.JoinHostPort(h, strconv.Itoa(port)))
	}
	if len(urls) == 0 {
		return nil, errors.MissingField("announce.discovery.hosts")
	}
	return &EndpointSet{urls: urls}, nil
}

// All returns the endpoints in priority order. The slice is a copy.
func (s *EndpointSet) All() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// Len returns the number of endpoints.
func (s *EndpointSet) Len() int { return len(s.urls) }
