package announce

import "github.com/google/uuid"

// Identity is generated once per process and never changes.
type Identity struct {
	// AnnouncementID identifies the announced service entry.
	AnnouncementID string
	// NodeID addresses the announcement on the registry and is sent as the
	// User-Agent of every request.
	NodeID string
}

// NewIdentity returns a fresh identity. A non-empty nodeID is used as-is
// instead of generating one.
func NewIdentity(nodeID string) Identity {
	if nodeID == "" {
		nodeID = uuid.NewString()
	}
	return Identity{
		AnnouncementID: uuid.NewString(),
		NodeID:         nodeID,
	}
}
