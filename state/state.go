// Package state is the sole mutator of every entity and index the engine
// holds. It is owned exclusively by the dispatcher goroutine; no other
// caller may dereference it directly.
package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/index"
)

// Options configures the caps and comparers memory state enforces.
type Options struct {
	MaxExpirationTime     *time.Duration
	StringComparer        entity.Comparer
	MaxStateHistoryLength int
}

// State aggregates the entity maps and their secondary indexes behind one
// mutable owner.
type State struct {
	opts Options

	jobs     map[string]*entity.Job
	hashes   map[string]*entity.Hash
	lists    map[string]*entity.List
	sets     map[string]*entity.SortedSet
	setIdx   map[string]*index.SortedSetIndex
	counters map[string]*entity.Counter
	servers  map[string]*entity.Server

	jobExpIdx     *index.ExpirationIndex[*entity.Job]
	hashExpIdx    *index.ExpirationIndex[*entity.Hash]
	listExpIdx    *index.ExpirationIndex[*entity.List]
	setExpIdx     *index.ExpirationIndex[*entity.SortedSet]
	counterExpIdx *index.ExpirationIndex[*entity.Counter]

	stateIdx *index.StateIndex
}

// New creates an empty State with the given options.
func New(opts Options) *State {
	if opts.StringComparer == nil {
		opts.StringComparer = entity.CaseSensitiveComparer
	}
	return &State{
		opts:     opts,
		jobs:     make(map[string]*entity.Job),
		hashes:   make(map[string]*entity.Hash),
		lists:    make(map[string]*entity.List),
		sets:     make(map[string]*entity.SortedSet),
		setIdx:   make(map[string]*index.SortedSetIndex),
		counters: make(map[string]*entity.Counter),
		servers:  make(map[string]*entity.Server),

		jobExpIdx:     index.NewExpirationIndex[*entity.Job](),
		hashExpIdx:    index.NewExpirationIndex[*entity.Hash](),
		listExpIdx:    index.NewExpirationIndex[*entity.List](),
		setExpIdx:     index.NewExpirationIndex[*entity.SortedSet](),
		counterExpIdx: index.NewExpirationIndex[*entity.Counter](),

		stateIdx: index.NewStateIndex(),
	}
}

// Comparer returns the configured string comparer.
func (s *State) Comparer() entity.Comparer { return s.opts.StringComparer }

// fold normalizes x through the configured comparer so a plain Go map can
// serve as a comparer-aware lookup for keys, hash fields and sorted-set
// values.
func (s *State) fold(x string) string {
	return s.opts.StringComparer.Normalize(x)
}

// expireOutcome is the outcome of the shared expiration algorithm.
type expireOutcome int

const (
	expireKeep expireOutcome = iota
	expireDeleteNow
)

// entryExpire implements the shared cap/clear/insert algorithm: if
// expireIn is nil, ExpireAt is cleared and the entry is kept. If expireIn
// is present, it is capped at MaxExpirationTime (unless ignoreMax,
// reserved for counters), and an expireIn <= 0 after capping means
// "delete now" rather than "keep with a past ExpireAt".
func (s *State) entryExpire(now clock.Instant, expireIn *time.Duration, ignoreMax bool) (*clock.Instant, expireOutcome) {
	if expireIn == nil {
		return nil, expireKeep
	}
	d := *expireIn
	if !ignoreMax && s.opts.MaxExpirationTime != nil && d > *s.opts.MaxExpirationTime {
		d = *s.opts.MaxExpirationTime
	}
	if d <= 0 {
		return nil, expireDeleteNow
	}
	at := now.Add(d)
	return &at, expireKeep
}
