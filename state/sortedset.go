package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/index"
)

// SetGetOrAdd returns the sorted set's entity and its dual hash+sorted-slice index
// at key, creating both empty if absent. key is folded through the
// configured comparer.
func (s *State) SetGetOrAdd(key string) (*entity.SortedSet, *index.SortedSetIndex) {
	key = s.fold(key)
	set, ok := s.sets[key]
	if !ok {
		set = &entity.SortedSet{Key: key, Members: make(map[string]float64)}
		s.sets[key] = set
		s.setIdx[key] = index.NewSortedSetIndex()
	}
	return set, s.setIdx[key]
}

// SetGet returns the sorted set's entity and index at key, or nils if
// absent.
func (s *State) SetGet(key string) (*entity.SortedSet, *index.SortedSetIndex) {
	key = s.fold(key)
	return s.sets[key], s.setIdx[key]
}

// SetAdd upserts (value, score) into the sorted set at key, creating the
// set if absent. value is folded through the configured comparer before
// being used as the uniqueness key, so two values the comparer treats as
// equal collapse to one member.
func (s *State) SetAdd(key, value string, score float64) {
	set, idx := s.SetGetOrAdd(key)
	value = s.fold(value)
	idx.Upsert(value, score)
	set.Members[value] = score
}

// SetRemove removes value from the sorted set at key.
func (s *State) SetRemove(key, value string) bool {
	key, value = s.fold(key), s.fold(value)
	set, idx := s.sets[key], s.setIdx[key]
	if set == nil {
		return false
	}
	delete(set.Members, value)
	return idx.Remove(value)
}

// SetExpire sets or clears the TTL on the sorted set at key, deleting it
// immediately if the resolved expiry is non-positive. No-op if absent.
func (s *State) SetExpire(key string, now clock.Instant, expireIn *time.Duration) bool {
	key = s.fold(key)
	set, ok := s.sets[key]
	if !ok {
		return false
	}
	s.setExpIdx.Remove(key)
	at, outcome := s.entryExpire(now, expireIn, false)
	if outcome == expireDeleteNow {
		s.SetDelete(key)
		return true
	}
	set.ExpireAt = at
	if at != nil {
		s.setExpIdx.Upsert(key, *at, set)
	}
	return false
}

// SetPersist clears the TTL on the sorted set at key.
func (s *State) SetPersist(key string) {
	key = s.fold(key)
	set, ok := s.sets[key]
	if !ok {
		return
	}
	set.ExpireAt = nil
	s.setExpIdx.Remove(key)
}

// SetDelete removes the sorted set at key from the primary map, its dual
// index and the expiration index.
func (s *State) SetDelete(key string) {
	key = s.fold(key)
	if _, ok := s.sets[key]; !ok {
		return
	}
	s.setExpIdx.Remove(key)
	delete(s.sets, key)
	delete(s.setIdx, key)
}
