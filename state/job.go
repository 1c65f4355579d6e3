package state

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
)

// JobCreate stores a freshly minted job and returns its key.
func (s *State) JobCreate(invocationData any, createdAt clock.Instant, expireIn *time.Duration, parameters map[string]string) keys.K {
	return s.JobCreateWithKey(keys.New(), invocationData, createdAt, expireIn, parameters)
}

// JobCreateWithKey stores a job under a caller-chosen key. Callers that
// must reference the new job's key before the write actually lands (a
// transaction batching CreateJob with a later AddToQueue, for instance)
// mint the key up front with keys.New() and pass it in here.
func (s *State) JobCreateWithKey(k keys.K, invocationData any, createdAt clock.Instant, expireIn *time.Duration, parameters map[string]string) keys.K {
	j := &entity.Job{
		Key:            k,
		InvocationData: invocationData,
		CreatedAt:      createdAt,
		Parameters:     parameters,
	}
	if j.Parameters == nil {
		j.Parameters = make(map[string]string)
	}
	s.jobs[k.String()] = j
	if at, outcome := s.entryExpire(createdAt, expireIn, false); outcome == expireDeleteNow {
		s.JobDelete(k)
	} else if outcome == expireKeep && at != nil {
		j.ExpireAt = at
		s.jobExpIdx.Upsert(k.String(), *at, j)
	}
	return k
}

// JobGet returns the job for key, or nil if it does not exist or was never
// created.
func (s *State) JobGet(key keys.K) *entity.Job {
	return s.jobs[key.String()]
}

// JobSetState transitions job key into a new named state, recording it in
// both the job's own history and the global state index. A job that does
// not exist is a silent no-op.
func (s *State) JobSetState(key keys.K, rec entity.StateRecord) {
	j := s.jobs[key.String()]
	if j == nil {
		return
	}
	j.PushState(rec, s.opts.MaxStateHistoryLength)
	s.stateIdx.SetState(j, rec.Name)
}

// JobSetParameter sets one parameter on job key, creating the map if
// necessary. No-op if the job does not exist.
func (s *State) JobSetParameter(key keys.K, name, value string) {
	j := s.jobs[key.String()]
	if j == nil {
		return
	}
	if j.Parameters == nil {
		j.Parameters = make(map[string]string)
	}
	j.Parameters[name] = value
}

// JobGetParameter returns job key's parameter name, and whether it exists.
func (s *State) JobGetParameter(key keys.K, name string) (string, bool) {
	j := s.jobs[key.String()]
	if j == nil {
		return "", false
	}
	v, ok := j.Parameters[name]
	return v, ok
}

// JobExpire sets or clears job key's TTL relative to now, applying the
// shared cap/clear/delete algorithm. Returns true if the job should be
// deleted immediately (expireIn resolved to <= 0).
func (s *State) JobExpire(key keys.K, now clock.Instant, expireIn *time.Duration) bool {
	j := s.jobs[key.String()]
	if j == nil {
		return false
	}
	s.jobExpIdx.Remove(key.String())
	at, outcome := s.entryExpire(now, expireIn, false)
	if outcome == expireDeleteNow {
		s.JobDelete(key)
		return true
	}
	j.ExpireAt = at
	if at != nil {
		s.jobExpIdx.Upsert(key.String(), *at, j)
	}
	return false
}

// JobPersist clears job key's TTL, removing it from the expiration index.
func (s *State) JobPersist(key keys.K) {
	j := s.jobs[key.String()]
	if j == nil {
		return
	}
	j.ExpireAt = nil
	s.jobExpIdx.Remove(key.String())
}

// JobDelete removes job key from the primary map and every index that may
// reference it.
func (s *State) JobDelete(key keys.K) {
	j := s.jobs[key.String()]
	if j == nil {
		return
	}
	s.stateIdx.Remove(j)
	s.jobExpIdx.Remove(key.String())
	delete(s.jobs, key.String())
}

// JobsInState returns the jobs currently in stateName, ordered by
// (CreatedAt, Key).
func (s *State) JobsInState(stateName string) []*entity.Job {
	return s.stateIdx.Jobs(stateName)
}

// JobCountInState returns how many jobs currently occupy stateName.
func (s *State) JobCountInState(stateName string) int {
	return s.stateIdx.Count(stateName)
}
