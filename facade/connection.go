package facade

import (
	"context"
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/command"
	"oss.nandlabs.io/jobstore/dispatcher"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/lock"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/registry"
)

// Connection is the per-framework-connection façade. Every method
// translates into one command submitted to the dispatcher, or (for
// locks and queue fetches, which are deliberately outside the dispatcher)
// a direct call into lock.Manager / queue.Engine.
type Connection struct {
	id         string
	dispatcher *dispatcher.Dispatcher
	locks      *lock.Manager
	queues     *queue.Engine
	registry   *registry.Registry
	clock      clock.Clock
}

func newConnection(d *dispatcher.Dispatcher, l *lock.Manager, q *queue.Engine, r *registry.Registry, c clock.Clock) *Connection {
	return &Connection{id: keys.New().String(), dispatcher: d, locks: l, queues: q, registry: r, clock: c}
}

// ID returns this connection's opaque identity, the same value used to
// key its queue subscription in the registry. Lock ownership uses the
// Connection value itself, not this string.
func (c *Connection) ID() string {
	return c.id
}

// AcquireDistributedLock acquires resource's lock for this connection,
// blocking up to timeout. The lock is owned by the Connection value
// itself so repeated acquisitions from the same connection are reentrant.
func (c *Connection) AcquireDistributedLock(resource string, timeout time.Duration) (*lock.Handle, error) {
	h, err := c.locks.Acquire(resource, c, timeout)
	if err != nil {
		return nil, ErrLockTimeout
	}
	return h, nil
}

// GetJobData projects a job's invocation data, current state name,
// creation time and parameters. Returns (nil, nil) for an unknown job
// instead of an error.
func (c *Connection) GetJobData(ctx context.Context, id keys.K) (*JobData, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetJob{Key: id})
	if err != nil {
		return nil, err
	}
	j, _ := res.(*entity.Job)
	if j == nil {
		return nil, nil
	}
	stateName := ""
	if j.CurrentState != nil {
		stateName = j.CurrentState.Name
	}
	return &JobData{
		InvocationData: j.InvocationData,
		StateName:      stateName,
		CreatedAt:      entity.WallClock(j.CreatedAt),
		Parameters:     j.Parameters,
	}, nil
}

// GetStateData projects a job's current state record, or nil if the job
// is unknown or has never had a state set.
func (c *Connection) GetStateData(ctx context.Context, id keys.K) (*StateData, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetJob{Key: id})
	if err != nil {
		return nil, err
	}
	j, _ := res.(*entity.Job)
	if j == nil || j.CurrentState == nil {
		return nil, nil
	}
	return &StateData{
		Name:      j.CurrentState.Name,
		Reason:    j.CurrentState.Reason,
		Data:      j.CurrentState.Data,
		CreatedAt: entity.WallClock(j.CurrentState.CreatedAt),
	}, nil
}

// GetJobParameter reads one parameter off a job; ok is false when the job
// or the parameter is unknown.
func (c *Connection) GetJobParameter(ctx context.Context, id keys.K, name string) (string, bool, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetJobParameter{Key: id, Name: name})
	if err != nil {
		return "", false, err
	}
	r := res.(command.JobParameterResult)
	return r.Value, r.Found, nil
}

// GetHash reads a hash's fields; nil if absent.
func (c *Connection) GetHash(ctx context.Context, key string) (*entity.Hash, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetHash{Key: key})
	if err != nil {
		return nil, err
	}
	h, _ := res.(*entity.Hash)
	return h, nil
}

// GetList reads a list's values; nil if absent.
func (c *Connection) GetList(ctx context.Context, key string) (*entity.List, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetList{Key: key})
	if err != nil {
		return nil, err
	}
	l, _ := res.(*entity.List)
	return l, nil
}

// GetSortedSet reads a sorted set's members; nil if absent.
func (c *Connection) GetSortedSet(ctx context.Context, key string) (*entity.SortedSet, error) {
	res, err := c.dispatcher.Submit(ctx, &command.GetSortedSet{Key: key})
	if err != nil {
		return nil, err
	}
	s, _ := res.(*entity.SortedSet)
	return s, nil
}

// AnnounceServer registers or re-registers serverId as connected.
func (c *Connection) AnnounceServer(ctx context.Context, serverId string, sctx entity.ServerContext) error {
	c.registry.TrackServer(serverId)
	_, err := c.dispatcher.Submit(ctx, &command.AnnounceServer{ServerId: serverId, Context: sctx, Now: c.clock.Now()})
	return err
}

// RemoveServer deregisters serverId.
func (c *Connection) RemoveServer(ctx context.Context, serverId string) error {
	c.registry.UntrackServer(serverId)
	_, err := c.dispatcher.Submit(ctx, &command.RemoveServer{ServerId: serverId})
	return err
}

// Heartbeat refreshes serverId's last-seen time.
func (c *Connection) Heartbeat(ctx context.Context, serverId string) error {
	_, err := c.dispatcher.Submit(ctx, &command.HeartbeatServer{ServerId: serverId, Now: c.clock.Now()})
	return err
}

// GetNextJobFromQueues performs a blocking fetch across the named queues,
// bypassing the dispatcher since the queue engine has its own
// synchronization.
// Returns ErrFetchTimeout when nothing was available before ctx/timeout.
func (c *Connection) GetNextJobFromQueues(ctx context.Context, queueNames []string, timeout time.Duration) (keys.K, string, error) {
	k, name, ok := c.queues.Fetch(ctx, queueNames, timeout)
	if !ok {
		return keys.K{}, "", ErrFetchTimeout
	}
	c.registry.Subscribe(c.id, queueNames)
	return k, name, nil
}

// CreateTransaction starts a new Transaction façade bound to this
// connection's dispatcher, lock manager and queue engine.
func (c *Connection) CreateTransaction() *Transaction {
	return newTransaction(c.dispatcher, c.locks, c.queues, c.clock)
}
