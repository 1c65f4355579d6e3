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
)

// Transaction accumulates a batch of write commands and commits them
// atomically: no partial visibility until Commit succeeds or fails at a
// recorded sub-command index. Disposing a Transaction without committing
// releases any locks it acquired.
type Transaction struct {
	dispatcher *dispatcher.Dispatcher
	locks      *lock.Manager
	queues     *queue.Engine
	clock      clock.Clock

	tx        *command.Transaction
	heldLocks []*lock.Handle
	committed bool
}

func newTransaction(d *dispatcher.Dispatcher, l *lock.Manager, q *queue.Engine, c clock.Clock) *Transaction {
	return &Transaction{dispatcher: d, locks: l, queues: q, clock: c, tx: command.NewTransaction()}
}

// AcquireLock acquires resource's lock on behalf of this transaction. The
// handle is tracked and released automatically on Dispose if Commit is
// never called.
func (t *Transaction) AcquireLock(resource string, timeout time.Duration) (*lock.Handle, error) {
	h, err := t.locks.Acquire(resource, t, timeout)
	if err != nil {
		return nil, ErrLockTimeout
	}
	t.heldLocks = append(t.heldLocks, h)
	return h, nil
}

// CreateJob mints a new job key and queues its creation. The key is
// minted immediately (not when the transaction commits) so later calls in
// the same transaction - SetJobState, AddToQueue - can reference it.
func (t *Transaction) CreateJob(invocationData any, parameters map[string]string, expireIn *time.Duration) keys.K {
	k := keys.New()
	t.tx.Add(&command.CreateJob{
		Key:            k,
		InvocationData: invocationData,
		CreatedAt:      t.clock.Now(),
		ExpireIn:       expireIn,
		Parameters:     parameters,
	})
	return k
}

// SetJobParameter queues a parameter write.
func (t *Transaction) SetJobParameter(id keys.K, name, value string) {
	t.tx.Add(&command.SetJobParameter{Key: id, Name: name, Value: value})
}

// ExpireJob queues a TTL update.
func (t *Transaction) ExpireJob(id keys.K, expireIn *time.Duration) {
	t.tx.Add(&command.ExpireJob{Key: id, Now: t.clock.Now(), ExpireIn: expireIn})
}

// PersistJob queues clearing a job's TTL.
func (t *Transaction) PersistJob(id keys.K) {
	t.tx.Add(&command.PersistJob{Key: id})
}

// SetJobState queues a state transition.
func (t *Transaction) SetJobState(id keys.K, rec entity.StateRecord) {
	t.tx.Add(&command.SetJobState{Key: id, Rec: rec})
}

// AddJobState is an alias of SetJobState: both push a state record onto
// the job's history and make it current; storage-side they are identical
// operations.
func (t *Transaction) AddJobState(id keys.K, rec entity.StateRecord) {
	t.SetJobState(id, rec)
}

// AddToQueue queues an enqueue, and records the post-commit signal effect
// the dispatcher carries out once the whole transaction applies cleanly.
func (t *Transaction) AddToQueue(queueName string, id keys.K) {
	t.tx.AddEffect(command.EnqueueEffect{
		Queue: queueName,
		Apply: func(e *queue.Engine) { e.Enqueue(queueName, id) },
	})
}

// RemoveFromQueue is a documented no-op: this engine has no invisibility
// timeout, so there is nothing to remove once a job has been fetched.
func (t *Transaction) RemoveFromQueue(queueName string, id keys.K) {}

// IncrementCounter adds delta (possibly negative) to a counter.
func (t *Transaction) IncrementCounter(key string, delta int64, expireIn *time.Duration) {
	t.tx.Add(&command.CounterIncrement{Key: key, Delta: delta})
	if expireIn != nil {
		t.tx.Add(&command.ExpireCounter{Key: key, Now: t.clock.Now(), ExpireIn: expireIn})
	}
}

// SortedSetAdd upserts value at score in a sorted set.
func (t *Transaction) SortedSetAdd(key, value string, score float64) {
	t.tx.Add(&command.SortedSetAdd{Key: key, Value: value, Score: score})
}

// SortedSetRemove removes value from a sorted set.
func (t *Transaction) SortedSetRemove(key, value string) {
	t.tx.Add(&command.SortedSetRemove{Key: key, Value: value})
}

// ListPush prepends value onto a list.
func (t *Transaction) ListPush(key, value string) {
	t.tx.Add(&command.ListPush{Key: key, Value: value})
}

// HashSetFields merges fields into a hash.
func (t *Transaction) HashSetFields(key string, fields map[string]string) {
	t.tx.Add(&command.HashSetFields{Key: key, Fields: fields})
}

// ExpireHash/ExpireList/ExpireSortedSet queue TTL updates on their kind.
func (t *Transaction) ExpireHash(key string, expireIn *time.Duration) {
	t.tx.Add(&command.ExpireHash{Key: key, Now: t.clock.Now(), ExpireIn: expireIn})
}
func (t *Transaction) ExpireList(key string, expireIn *time.Duration) {
	t.tx.Add(&command.ExpireList{Key: key, Now: t.clock.Now(), ExpireIn: expireIn})
}
func (t *Transaction) ExpireSortedSet(key string, expireIn *time.Duration) {
	t.tx.Add(&command.ExpireSortedSet{Key: key, Now: t.clock.Now(), ExpireIn: expireIn})
}

// PersistHash/PersistList/PersistSortedSet clear a kind's TTL.
func (t *Transaction) PersistHash(key string) {
	t.tx.Add(&command.ExpireHash{Key: key, Now: t.clock.Now(), ExpireIn: nil})
}
func (t *Transaction) PersistList(key string) {
	t.tx.Add(&command.ExpireList{Key: key, Now: t.clock.Now(), ExpireIn: nil})
}
func (t *Transaction) PersistSortedSet(key string) {
	t.tx.Add(&command.ExpireSortedSet{Key: key, Now: t.clock.Now(), ExpireIn: nil})
}

// RemoveHash deletes a hash outright.
func (t *Transaction) RemoveHash(key string) {
	t.tx.Add(&command.DeleteHash{Key: key})
}

// RemoveSet deletes a sorted set outright.
func (t *Transaction) RemoveSet(key string) {
	t.tx.Add(&command.DeleteSortedSet{Key: key})
}

// Commit submits every accumulated sub-command as one Transaction. On
// success, Dispose becomes a no-op (locks acquired through the
// transaction are left held for the caller to release explicitly).
func (t *Transaction) Commit(ctx context.Context) error {
	_, err := t.dispatcher.Submit(ctx, t.tx)
	if err == nil {
		t.committed = true
	}
	return err
}

// Dispose releases any locks acquired through this transaction if it was
// never committed.
func (t *Transaction) Dispose() {
	if t.committed {
		return
	}
	for _, h := range t.heldLocks {
		h.Release()
	}
}
