package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
)

// ListGetOrAdd returns the list at key, creating an empty one if absent.
// key is folded through the configured comparer.
func (s *State) ListGetOrAdd(key string) *entity.List {
	key = s.fold(key)
	l, ok := s.lists[key]
	if !ok {
		l = entity.NewList(key)
		s.lists[key] = l
	}
	return l
}

// ListGet returns the list at key, or nil if it does not exist.
func (s *State) ListGet(key string) *entity.List {
	return s.lists[s.fold(key)]
}

// ListExpire sets or clears the TTL on the list at key, deleting it
// immediately if the resolved expiry is non-positive. No-op if absent.
func (s *State) ListExpire(key string, now clock.Instant, expireIn *time.Duration) bool {
	key = s.fold(key)
	l, ok := s.lists[key]
	if !ok {
		return false
	}
	s.listExpIdx.Remove(key)
	at, outcome := s.entryExpire(now, expireIn, false)
	if outcome == expireDeleteNow {
		s.ListDelete(key)
		return true
	}
	l.ExpireAt = at
	if at != nil {
		s.listExpIdx.Upsert(key, *at, l)
	}
	return false
}

// ListPersist clears the TTL on the list at key.
func (s *State) ListPersist(key string) {
	key = s.fold(key)
	l, ok := s.lists[key]
	if !ok {
		return
	}
	l.ExpireAt = nil
	s.listExpIdx.Remove(key)
}

// ListDelete removes the list at key from the primary map and its index.
func (s *State) ListDelete(key string) {
	key = s.fold(key)
	if _, ok := s.lists[key]; !ok {
		return
	}
	s.listExpIdx.Remove(key)
	delete(s.lists, key)
}
