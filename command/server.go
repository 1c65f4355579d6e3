package command

import (
	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/state"
)

// AnnounceServer registers or re-registers a worker server.
type AnnounceServer struct {
	ServerId string
	Context  entity.ServerContext
	Now      clock.Instant
}

func (c *AnnounceServer) Execute(s *state.State) (any, error) {
	s.ServerAdd(c.ServerId, c.Context, c.Now)
	return nil, nil
}

// HeartbeatServer refreshes a server's last-seen time.
type HeartbeatServer struct {
	ServerId string
	Now      clock.Instant
}

func (c *HeartbeatServer) Execute(s *state.State) (any, error) {
	s.ServerHeartbeat(c.ServerId, c.Now)
	return nil, nil
}

// RemoveServer deregisters a server.
type RemoveServer struct {
	ServerId string
}

func (c *RemoveServer) Execute(s *state.State) (any, error) {
	s.ServerRemove(c.ServerId)
	return nil, nil
}

// ListServers returns every currently registered server, for monitoring.
type ListServers struct{}

func (c *ListServers) Execute(s *state.State) (any, error) {
	return s.Servers(), nil
}

// EvictExpired runs the periodic eviction sweep. The dispatcher issues
// this on its own ticker; it is also reachable as an ordinary command for
// tests that want deterministic eviction.
type EvictExpired struct {
	Now clock.Instant
}

func (c *EvictExpired) Execute(s *state.State) (any, error) {
	return s.EvictExpiredEntries(c.Now), nil
}
