package facade

import (
	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/dispatcher"
	"oss.nandlabs.io/jobstore/lock"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/registry"
)

// NewConnection builds a Connection façade bound to the given engine
// internals. Call sites are expected to be jobstore.Engine; this is
// exported so other orchestration code can build façades directly in
// tests.
func NewConnection(d *dispatcher.Dispatcher, l *lock.Manager, q *queue.Engine, r *registry.Registry, c clock.Clock) *Connection {
	return newConnection(d, l, q, r, c)
}

// NewMonitoring builds a Monitoring façade bound to the given engine
// internals.
func NewMonitoring(d *dispatcher.Dispatcher, r *registry.Registry, c clock.Clock) *Monitoring {
	return newMonitoring(d, r, c)
}
