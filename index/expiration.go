// Package index implements the secondary indexes memory state keeps
// alongside the primary entity maps: per-kind expiration indexes, the
// per-state job index, and the dual-indexed sorted-set structure.
package index

import (
	"sort"

	"oss.nandlabs.io/jobstore/clock"
)

// Expirable is any entry the shared expiration algorithm in jobstore/state
// can cap, clear or evict.
type Expirable interface {
	GetExpireAt() *clock.Instant
}

type expirationEntry[T Expirable] struct {
	key      string
	expireAt clock.Instant
	entry    T
}

// ExpirationIndex is an ordered-by-(expireAt,key) index over one expirable
// kind (jobs, hashes, lists, sets or counters). Only entries with a
// non-null ExpireAt are members.
//
// There is no ordered-tree collection available here (see DESIGN.md), so
// this keeps a sorted slice; insertion, removal and PopExpired are O(n)
// (each rebuilds the key lookup) but correct.
type ExpirationIndex[T Expirable] struct {
	entries []expirationEntry[T]
	byKey   map[string]int
}

// NewExpirationIndex creates an empty ExpirationIndex.
func NewExpirationIndex[T Expirable]() *ExpirationIndex[T] {
	return &ExpirationIndex[T]{byKey: make(map[string]int)}
}

// Upsert inserts or repositions key's entry at expireAt. Callers must
// Remove first if the entry was already indexed under a different key.
func (idx *ExpirationIndex[T]) Upsert(key string, expireAt clock.Instant, entry T) {
	idx.Remove(key)
	pos := sort.Search(len(idx.entries), func(i int) bool {
		cmp := idx.entries[i].expireAt.Compare(expireAt)
		if cmp != 0 {
			return cmp > 0
		}
		return idx.entries[i].key >= key
	})
	idx.entries = append(idx.entries, expirationEntry[T]{})
	copy(idx.entries[pos+1:], idx.entries[pos:])
	idx.entries[pos] = expirationEntry[T]{key: key, expireAt: expireAt, entry: entry}
	idx.reindex()
}

// Remove drops key's entry from the index, if present.
func (idx *ExpirationIndex[T]) Remove(key string) {
	pos, ok := idx.byKey[key]
	if !ok {
		return
	}
	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	idx.reindex()
}

// reindex rebuilds the key->position lookup after a structural mutation.
func (idx *ExpirationIndex[T]) reindex() {
	idx.byKey = make(map[string]int, len(idx.entries))
	for i, e := range idx.entries {
		idx.byKey[e.key] = i
	}
}

// Len reports how many entries are currently indexed.
func (idx *ExpirationIndex[T]) Len() int {
	return len(idx.entries)
}

// Contains reports whether key is currently indexed.
func (idx *ExpirationIndex[T]) Contains(key string) bool {
	_, ok := idx.byKey[key]
	return ok
}

// PopExpired removes and returns every entry whose ExpireAt is <= now, in
// ascending expireAt order.
func (idx *ExpirationIndex[T]) PopExpired(now clock.Instant) []T {
	var out []T
	for len(idx.entries) > 0 && !idx.entries[0].expireAt.After(now) {
		out = append(out, idx.entries[0].entry)
		idx.entries = idx.entries[1:]
	}
	idx.reindex()
	return out
}
