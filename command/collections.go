package command

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/state"
)

// HashSetFields merges the given fields into a hash, creating it first if
// necessary.
type HashSetFields struct {
	Key    string
	Fields map[string]string
}

func (c *HashSetFields) Execute(s *state.State) (any, error) {
	s.HashSetFields(c.Key, c.Fields)
	return nil, nil
}

// GetHash reads a hash by key; nil when absent.
type GetHash struct {
	Key string
}

func (c *GetHash) Execute(s *state.State) (any, error) {
	return s.HashGet(c.Key), nil
}

// ExpireHash sets or clears a hash's ExpireAt.
type ExpireHash struct {
	Key      string
	Now      clock.Instant
	ExpireIn *time.Duration
}

func (c *ExpireHash) Execute(s *state.State) (any, error) {
	return s.HashExpire(c.Key, c.Now, c.ExpireIn), nil
}

// DeleteHash removes a hash outright.
type DeleteHash struct {
	Key string
}

func (c *DeleteHash) Execute(s *state.State) (any, error) {
	s.HashDelete(c.Key)
	return nil, nil
}

// ListPush prepends value to a list, creating it first if necessary.
type ListPush struct {
	Key   string
	Value string
}

func (c *ListPush) Execute(s *state.State) (any, error) {
	l := s.ListGetOrAdd(c.Key)
	l.Prepend(c.Value)
	return nil, nil
}

// GetList reads a list by key; nil when absent.
type GetList struct {
	Key string
}

func (c *GetList) Execute(s *state.State) (any, error) {
	return s.ListGet(c.Key), nil
}

// ExpireList sets or clears a list's ExpireAt.
type ExpireList struct {
	Key      string
	Now      clock.Instant
	ExpireIn *time.Duration
}

func (c *ExpireList) Execute(s *state.State) (any, error) {
	return s.ListExpire(c.Key, c.Now, c.ExpireIn), nil
}

// DeleteList removes a list outright.
type DeleteList struct {
	Key string
}

func (c *DeleteList) Execute(s *state.State) (any, error) {
	s.ListDelete(c.Key)
	return nil, nil
}

// SortedSetAdd upserts value at score in the named sorted set.
type SortedSetAdd struct {
	Key   string
	Value string
	Score float64
}

func (c *SortedSetAdd) Execute(s *state.State) (any, error) {
	s.SetAdd(c.Key, c.Value, c.Score)
	return nil, nil
}

// SortedSetRemove removes value from the named sorted set.
type SortedSetRemove struct {
	Key   string
	Value string
}

func (c *SortedSetRemove) Execute(s *state.State) (any, error) {
	return s.SetRemove(c.Key, c.Value), nil
}

// GetSortedSet reads a sorted set's members by key; nil when absent.
type GetSortedSet struct {
	Key string
}

func (c *GetSortedSet) Execute(s *state.State) (any, error) {
	set, _ := s.SetGet(c.Key)
	return set, nil
}

// ExpireSortedSet sets or clears a sorted set's ExpireAt.
type ExpireSortedSet struct {
	Key      string
	Now      clock.Instant
	ExpireIn *time.Duration
}

func (c *ExpireSortedSet) Execute(s *state.State) (any, error) {
	return s.SetExpire(c.Key, c.Now, c.ExpireIn), nil
}

// DeleteSortedSet removes a sorted set outright.
type DeleteSortedSet struct {
	Key string
}

func (c *DeleteSortedSet) Execute(s *state.State) (any, error) {
	s.SetDelete(c.Key)
	return nil, nil
}

// CounterIncrement adds delta (may be negative) to a counter, creating it
// first if necessary, and returns the resulting value.
type CounterIncrement struct {
	Key   string
	Delta int64
}

func (c *CounterIncrement) Execute(s *state.State) (any, error) {
	return s.CounterIncrement(c.Key, c.Delta), nil
}

// ExpireCounter sets or clears a counter's ExpireAt. Counters ignore the
// configured MaxExpirationTime cap.
type ExpireCounter struct {
	Key      string
	Now      clock.Instant
	ExpireIn *time.Duration
}

func (c *ExpireCounter) Execute(s *state.State) (any, error) {
	return s.CounterExpire(c.Key, c.Now, c.ExpireIn), nil
}

// DeleteCounter removes a counter outright.
type DeleteCounter struct {
	Key string
}

func (c *DeleteCounter) Execute(s *state.State) (any, error) {
	s.CounterDelete(c.Key)
	return nil, nil
}
