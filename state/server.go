package state

import (
	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
)

// ServerAdd registers or re-registers a worker server.
func (s *State) ServerAdd(serverId string, ctx entity.ServerContext, now clock.Instant) {
	srv, ok := s.servers[serverId]
	if !ok {
		srv = &entity.Server{ServerId: serverId, StartedAt: now}
		s.servers[serverId] = srv
	}
	srv.Context = ctx
	srv.HeartbeatAt = now
}

// ServerHeartbeat updates a registered server's heartbeat timestamp.
// No-op if the server is not registered.
func (s *State) ServerHeartbeat(serverId string, now clock.Instant) {
	if srv, ok := s.servers[serverId]; ok {
		srv.Touch(now)
	}
}

// ServerRemove unregisters a worker server.
func (s *State) ServerRemove(serverId string) {
	delete(s.servers, serverId)
}

// ServerGet returns the registered server, or nil if none is registered
// under that id.
func (s *State) ServerGet(serverId string) *entity.Server {
	return s.servers[serverId]
}

// Servers returns every currently registered server.
func (s *State) Servers() []*entity.Server {
	out := make([]*entity.Server, 0, len(s.servers))
	for _, srv := range s.servers {
		out = append(out, srv)
	}
	return out
}
