package state

import "oss.nandlabs.io/jobstore/clock"

// EvictionStats reports how many entries of each kind were evicted by one
// EvictExpiredEntries call, useful for logging and tests.
type EvictionStats struct {
	Jobs, Hashes, Lists, Sets, Counters int
}

// EvictExpiredEntries deletes every expirable entry whose ExpireAt is
// <= now, across all five kinds, removing each from its primary map and
// from the state index (jobs) or dual index (sorted sets) so every index
// stays consistent.
func (s *State) EvictExpiredEntries(now clock.Instant) EvictionStats {
	var stats EvictionStats

	for _, j := range s.jobExpIdx.PopExpired(now) {
		s.stateIdx.Remove(j)
		delete(s.jobs, j.Key.String())
		stats.Jobs++
	}
	for _, h := range s.hashExpIdx.PopExpired(now) {
		delete(s.hashes, h.Key)
		stats.Hashes++
	}
	for _, l := range s.listExpIdx.PopExpired(now) {
		delete(s.lists, l.Key)
		stats.Lists++
	}
	for _, set := range s.setExpIdx.PopExpired(now) {
		delete(s.sets, set.Key)
		delete(s.setIdx, set.Key)
		stats.Sets++
	}
	for _, c := range s.counterExpIdx.PopExpired(now) {
		delete(s.counters, c.Key)
		stats.Counters++
	}

	return stats
}
