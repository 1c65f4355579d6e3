package entity

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/collections"
	"oss.nandlabs.io/jobstore/keys"
)

// StateRecord captures one state transition of a job: its name, the reason
// it moved there, when, and any state-specific data.
type StateRecord struct {
	Name      string
	Reason    string
	CreatedAt clock.Instant
	Data      map[string]string
}

// Job is the central entity: an invocation with an optional TTL, a current
// state and a bounded state history. Invariant: if CurrentState is
// non-nil, the identical record is also StateHistory[0].
type Job struct {
	Key            keys.K
	InvocationData any
	CreatedAt      clock.Instant
	ExpireAt       *clock.Instant
	CurrentState   *StateRecord
	StateHistory   []StateRecord
	Parameters     map[string]string
}

// SetExpireAt implements the expirable interface used by the shared
// expiration algorithm in jobstore/state.
func (j *Job) SetExpireAt(at *clock.Instant) { j.ExpireAt = at }

// GetExpireAt implements the expirable interface.
func (j *Job) GetExpireAt() *clock.Instant { return j.ExpireAt }

// PushState prepends a new state record, trimming StateHistory to maxLen
// when it is positive (MaxStateHistoryLength).
func (j *Job) PushState(rec StateRecord, maxLen int) {
	j.CurrentState = &rec
	j.StateHistory = append([]StateRecord{rec}, j.StateHistory...)
	if maxLen > 0 && len(j.StateHistory) > maxLen {
		j.StateHistory = j.StateHistory[:maxLen]
	}
}

// Hash is a string-keyed bag of string fields with an optional TTL.
type Hash struct {
	Key      string
	ExpireAt *clock.Instant
	Fields   map[string]string
}

func (h *Hash) SetExpireAt(at *clock.Instant) { h.ExpireAt = at }
func (h *Hash) GetExpireAt() *clock.Instant   { return h.ExpireAt }

// List is an ordered sequence of strings with head-prepend semantics and an
// optional TTL. Values are held in a LinkedList so Prepend stays O(1)
// regardless of length, rather than re-slicing a backing array on every
// call.
type List struct {
	Key      string
	ExpireAt *clock.Instant
	items    *collections.LinkedList[string]
}

// NewList creates an empty List for key.
func NewList(key string) *List {
	return &List{Key: key, items: collections.NewLinkedList[string]()}
}

func (l *List) SetExpireAt(at *clock.Instant) { l.ExpireAt = at }
func (l *List) GetExpireAt() *clock.Instant   { return l.ExpireAt }

// Prepend adds value at the head of the list.
func (l *List) Prepend(value string) {
	if l.items == nil {
		l.items = collections.NewLinkedList[string]()
	}
	_ = l.items.AddFirst(value)
}

// Values materializes the list's current contents head-to-tail.
func (l *List) Values() []string {
	if l.items == nil {
		return nil
	}
	out := make([]string, 0, l.items.Size())
	it := l.items.Iterator()
	for it.HasNext() {
		out = append(out, it.Next())
	}
	return out
}

// Len reports the number of values currently held.
func (l *List) Len() int {
	if l.items == nil {
		return 0
	}
	return l.items.Size()
}

// SortedSetMember is one (value, score) pair of a sorted set. Value is
// unique under the set's configured comparer.
type SortedSetMember struct {
	Value string
	Score float64
}

// SortedSet holds unique (value, score) pairs with an optional TTL. The
// dual hash+sorted-slice indexing lives in jobstore/index; this struct is the
// entity the index mutates.
type SortedSet struct {
	Key      string
	ExpireAt *clock.Instant
	Members  map[string]float64
}

func (s *SortedSet) SetExpireAt(at *clock.Instant) { s.ExpireAt = at }
func (s *SortedSet) GetExpireAt() *clock.Instant   { return s.ExpireAt }

// Counter is a signed 64-bit value with an optional TTL. Counters bypass
// the MaxExpirationTime cap because timeline statistics require multi-day
// retention.
type Counter struct {
	Key      string
	ExpireAt *clock.Instant
	Value    int64
}

func (c *Counter) SetExpireAt(at *clock.Instant) { c.ExpireAt = at }
func (c *Counter) GetExpireAt() *clock.Instant   { return c.ExpireAt }

// ServerContext describes a worker server's operating parameters.
type ServerContext struct {
	WorkerCount int
	Queues      []string
}

// Server records a framework worker server's registration and heartbeat.
type Server struct {
	ServerId    string
	Context     ServerContext
	StartedAt   clock.Instant
	HeartbeatAt clock.Instant
}

// Touch updates the heartbeat timestamp.
func (s *Server) Touch(now clock.Instant) {
	s.HeartbeatAt = now
}

// WallClock is a convenience conversion helper so façades can report
// CreatedAt/StartedAt/HeartbeatAt as ordinary time.Time without exposing
// clock.Instant to the surrounding framework.
func WallClock(i clock.Instant) time.Time {
	return i.ToUTC()
}
