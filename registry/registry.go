// Package registry tracks the live, outside-the-dispatcher bookkeeping
// the facade layer needs: connected worker servers and the set of queue
// names each open connection subscribes to. None of this is durable
// storage, so it is kept separate from state.State and the dispatcher.
package registry

import (
	"sync"

	"oss.nandlabs.io/jobstore/managers"
)

// Registry holds live worker-server metadata and per-connection queue
// subscriptions, built on the shared generic ItemManager.
type Registry struct {
	servers       managers.ItemManager[string]
	subscriptions sync.Map // connectionId string -> []string queue names
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{servers: managers.NewItemManager[string]()}
}

// TrackServer records serverId as currently connected.
func (r *Registry) TrackServer(serverId string) {
	r.servers.Register(serverId, serverId)
}

// UntrackServer forgets serverId.
func (r *Registry) UntrackServer(serverId string) {
	r.servers.Unregister(serverId)
}

// TrackedServers lists every server currently tracked as connected.
func (r *Registry) TrackedServers() []string {
	return r.servers.Items()
}

// Subscribe records that connectionId is fetching from queues.
func (r *Registry) Subscribe(connectionId string, queues []string) {
	cp := make([]string, len(queues))
	copy(cp, queues)
	r.subscriptions.Store(connectionId, cp)
}

// Unsubscribe forgets connectionId's queue subscription.
func (r *Registry) Unsubscribe(connectionId string) {
	r.subscriptions.Delete(connectionId)
}

// QueuesFor returns the queue names connectionId last subscribed to, or
// nil if it never subscribed.
func (r *Registry) QueuesFor(connectionId string) []string {
	v, ok := r.subscriptions.Load(connectionId)
	if !ok {
		return nil
	}
	return v.([]string)
}
