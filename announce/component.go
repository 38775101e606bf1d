package announce

import (
	"context"
	"fmt"

	"github.com/kbukum/announcer/component"
)

var (
	_ component.Component   = (*Service)(nil)
	_ component.Describable = (*Service)(nil)
)

// Name returns the component name.
func (s *Service) Name() string { return "announcer" }

// Health reports healthy while the last tick was accepted by a registry.
func (s *Service) Health(_ context.Context) component.Health {
	st := s.Status()
	switch {
	case !st.Running:
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	case st.Announced:
		return component.Health{Name: s.Name(), Status: component.StatusHealthy, Message: "announced to " + st.Endpoint}
	case st.Ticks == 0:
		return component.Health{Name: s.Name(), Status: component.StatusDegraded, Message: "first announcement pending"}
	default:
		return component.Health{Name: s.Name(), Status: component.StatusDegraded, Message: "no registry accepted the last announcement"}
	}
}

// Describe returns a summary for the startup log.
func (s *Service) Describe() component.Description {
	endpoints := 0
	if set, err := NewEndpointSet(s.cfg.Discovery.Hosts, s.cfg.Discovery.Port); err == nil {
		endpoints = set.Len()
	}
	return component.Description{
		Name: "Announcer",
		Type: "announcer",
		Details: fmt.Sprintf("endpoints=%d period=%s type=%s node=%s",
			endpoints, s.cfg.PeriodDuration(), s.cfg.ServiceType, s.identity.NodeID),
	}
}
