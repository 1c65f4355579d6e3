package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
)

// HashGetOrAdd returns the hash at key, creating an empty one if absent.
// key is folded through the configured comparer first, so "Foo" and "foo"
// resolve to the same hash under a case-insensitive comparer.
func (s *State) HashGetOrAdd(key string) *entity.Hash {
	key = s.fold(key)
	h, ok := s.hashes[key]
	if !ok {
		h = &entity.Hash{Key: key, Fields: make(map[string]string)}
		s.hashes[key] = h
	}
	return h
}

// HashGet returns the hash at key, or nil if it does not exist.
func (s *State) HashGet(key string) *entity.Hash {
	return s.hashes[s.fold(key)]
}

// HashSetFields merges fields into the hash at key, creating it first if
// necessary. Field names are folded through the configured comparer too.
func (s *State) HashSetFields(key string, fields map[string]string) {
	h := s.HashGetOrAdd(key)
	for name, value := range fields {
		h.Fields[s.fold(name)] = value
	}
}

// HashExpire sets or clears the TTL on the hash at key, deleting it
// immediately if the resolved expiry is non-positive. No-op if absent.
func (s *State) HashExpire(key string, now clock.Instant, expireIn *time.Duration) bool {
	key = s.fold(key)
	h, ok := s.hashes[key]
	if !ok {
		return false
	}
	s.hashExpIdx.Remove(key)
	at, outcome := s.entryExpire(now, expireIn, false)
	if outcome == expireDeleteNow {
		s.HashDelete(key)
		return true
	}
	h.ExpireAt = at
	if at != nil {
		s.hashExpIdx.Upsert(key, *at, h)
	}
	return false
}

// HashPersist clears the TTL on the hash at key.
func (s *State) HashPersist(key string) {
	key = s.fold(key)
	h, ok := s.hashes[key]
	if !ok {
		return
	}
	h.ExpireAt = nil
	s.hashExpIdx.Remove(key)
}

// HashDelete removes the hash at key from the primary map and its index.
func (s *State) HashDelete(key string) {
	key = s.fold(key)
	if _, ok := s.hashes[key]; !ok {
		return
	}
	s.hashExpIdx.Remove(key)
	delete(s.hashes, key)
}
