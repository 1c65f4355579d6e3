package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
)

// CounterGetOrAdd returns the counter at key, creating one at zero if
// absent. key is folded through the configured comparer.
func (s *State) CounterGetOrAdd(key string) *entity.Counter {
	key = s.fold(key)
	c, ok := s.counters[key]
	if !ok {
		c = &entity.Counter{Key: key}
		s.counters[key] = c
	}
	return c
}

// CounterGet returns the counter at key, or nil if it does not exist.
func (s *State) CounterGet(key string) *entity.Counter {
	return s.counters[s.fold(key)]
}

// CounterIncrement adds delta to the counter at key, creating it if
// absent, and returns the resulting value. A counter that settles back at
// zero with no TTL ever set on it is removed outright rather than kept as
// a zero-valued entry, so a balanced increment/decrement pair on a
// previously-absent counter leaves it absent again. A counter that has
// had an explicit TTL set (the timeline counters do)
// keeps its record at zero, since an expiry command already took over its
// lifecycle.
func (s *State) CounterIncrement(key string, delta int64) int64 {
	c := s.CounterGetOrAdd(key)
	c.Value += delta
	value := c.Value
	if value == 0 && c.ExpireAt == nil {
		s.CounterDelete(key)
	}
	return value
}

// CounterExpire sets or clears the TTL on the counter at key. Counters
// bypass MaxExpirationTime (ignoreMax=true) because timeline statistics
// require multi-day retention.
func (s *State) CounterExpire(key string, now clock.Instant, expireIn *time.Duration) bool {
	key = s.fold(key)
	c, ok := s.counters[key]
	if !ok {
		return false
	}
	s.counterExpIdx.Remove(key)
	at, outcome := s.entryExpire(now, expireIn, true)
	if outcome == expireDeleteNow {
		s.CounterDelete(key)
		return true
	}
	c.ExpireAt = at
	if at != nil {
		s.counterExpIdx.Upsert(key, *at, c)
	}
	return false
}

// CounterPersist clears the TTL on the counter at key.
func (s *State) CounterPersist(key string) {
	key = s.fold(key)
	c, ok := s.counters[key]
	if !ok {
		return
	}
	c.ExpireAt = nil
	s.counterExpIdx.Remove(key)
}

// CounterDelete removes the counter at key from the primary map and its
// expiration index.
func (s *State) CounterDelete(key string) {
	key = s.fold(key)
	if _, ok := s.counters[key]; !ok {
		return
	}
	s.counterExpIdx.Remove(key)
	delete(s.counters, key)
}
