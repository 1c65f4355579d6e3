package index

import (
	"sort"
	"strings"

	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
)

// stateBucket holds every job currently in one state, ordered by
// (CreatedAt, Key).
type stateBucket struct {
	jobs []*entity.Job
}

func (b *stateBucket) insert(j *entity.Job) {
	pos := sort.Search(len(b.jobs), func(i int) bool {
		cmp := b.jobs[i].CreatedAt.Compare(j.CreatedAt)
		if cmp != 0 {
			return cmp > 0
		}
		return !b.jobs[i].Key.Less(j.Key)
	})
	b.jobs = append(b.jobs, nil)
	copy(b.jobs[pos+1:], b.jobs[pos:])
	b.jobs[pos] = j
}

func (b *stateBucket) remove(key keys.K) {
	for i, j := range b.jobs {
		if j.Key == key {
			b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
			return
		}
	}
}

// StateIndex tracks, for every state name, the jobs currently in that
// state. State names are compared case-insensitively regardless of the
// engine's configured StringComparer, since the index is
// framework-internal.
type StateIndex struct {
	buckets map[string]*stateBucket // keyed by lower-cased state name
	current map[string]string       // job key string -> lower-cased state name
}

// NewStateIndex creates an empty StateIndex.
func NewStateIndex() *StateIndex {
	return &StateIndex{
		buckets: make(map[string]*stateBucket),
		current: make(map[string]string),
	}
}

func fold(name string) string {
	return strings.ToLower(name)
}

// SetState moves j into stateName's bucket, removing it from whatever
// bucket it previously occupied so a job belongs to at most one state
// bucket at a time.
func (idx *StateIndex) SetState(j *entity.Job, stateName string) {
	idx.clearCurrent(j.Key)
	folded := fold(stateName)
	b, ok := idx.buckets[folded]
	if !ok {
		b = &stateBucket{}
		idx.buckets[folded] = b
	}
	b.insert(j)
	idx.current[j.Key.String()] = folded
}

// Remove takes j out of whichever bucket currently holds it.
func (idx *StateIndex) Remove(j *entity.Job) {
	idx.clearCurrent(j.Key)
}

func (idx *StateIndex) clearCurrent(key keys.K) {
	folded, ok := idx.current[key.String()]
	if !ok {
		return
	}
	if b, ok := idx.buckets[folded]; ok {
		b.remove(key)
	}
	delete(idx.current, key.String())
}

// Jobs returns the jobs currently in stateName, ordered by (CreatedAt, Key).
func (idx *StateIndex) Jobs(stateName string) []*entity.Job {
	b, ok := idx.buckets[fold(stateName)]
	if !ok {
		return nil
	}
	out := make([]*entity.Job, len(b.jobs))
	copy(out, b.jobs)
	return out
}

// Count returns how many jobs currently sit in stateName.
func (idx *StateIndex) Count(stateName string) int {
	b, ok := idx.buckets[fold(stateName)]
	if !ok {
		return 0
	}
	return len(b.jobs)
}
