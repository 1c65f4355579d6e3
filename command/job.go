package command

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/state"
)

// CreateJob inserts a new job under Key (minted by the caller so it is
// known before the command runs - a transaction batching CreateJob with a
// later AddToQueue needs the key immediately).
type CreateJob struct {
	Key            keys.K
	InvocationData any
	CreatedAt      clock.Instant
	ExpireIn       *time.Duration
	Parameters     map[string]string
}

func (c *CreateJob) Execute(s *state.State) (any, error) {
	k := s.JobCreateWithKey(c.Key, c.InvocationData, c.CreatedAt, c.ExpireIn, c.Parameters)
	return k, nil
}

// GetJob reads a job by key. Result is nil (not an error) when the job is
// unknown, rather than a distinct not-found error.
type GetJob struct {
	Key keys.K
}

func (c *GetJob) Execute(s *state.State) (any, error) {
	return s.JobGet(c.Key), nil
}

// SetJobState records rec as the job's new current state, moving it
// between state buckets.
type SetJobState struct {
	Key keys.K
	Rec entity.StateRecord
}

func (c *SetJobState) Execute(s *state.State) (any, error) {
	s.JobSetState(c.Key, c.Rec)
	return nil, nil
}

// SetJobParameter stores name=value on the job's parameter bag.
type SetJobParameter struct {
	Key   keys.K
	Name  string
	Value string
}

func (c *SetJobParameter) Execute(s *state.State) (any, error) {
	s.JobSetParameter(c.Key, c.Name, c.Value)
	return nil, nil
}

// GetJobParameter reads one parameter; result is ("", false) when absent.
type GetJobParameter struct {
	Key  keys.K
	Name string
}

// JobParameterResult is the result of a GetJobParameter command.
type JobParameterResult struct {
	Value string
	Found bool
}

func (c *GetJobParameter) Execute(s *state.State) (any, error) {
	v, ok := s.JobGetParameter(c.Key, c.Name)
	return JobParameterResult{Value: v, Found: ok}, nil
}

// ExpireJob sets or clears the job's ExpireAt, evicting it immediately if
// the new expiry already lies in the past.
type ExpireJob struct {
	Key      keys.K
	Now      clock.Instant
	ExpireIn *time.Duration
}

func (c *ExpireJob) Execute(s *state.State) (any, error) {
	deleted := s.JobExpire(c.Key, c.Now, c.ExpireIn)
	return deleted, nil
}

// PersistJob clears the job's ExpireAt, making it permanent.
type PersistJob struct {
	Key keys.K
}

func (c *PersistJob) Execute(s *state.State) (any, error) {
	s.JobPersist(c.Key)
	return nil, nil
}

// DeleteJob removes a job outright.
type DeleteJob struct {
	Key keys.K
}

func (c *DeleteJob) Execute(s *state.State) (any, error) {
	s.JobDelete(c.Key)
	return nil, nil
}

// JobsInState lists every job currently in stateName, for monitoring
// queries.
type JobsInState struct {
	StateName string
}

func (c *JobsInState) Execute(s *state.State) (any, error) {
	return s.JobsInState(c.StateName), nil
}

// JobCountInState reports the count of jobs in stateName.
type JobCountInState struct {
	StateName string
}

func (c *JobCountInState) Execute(s *state.State) (any, error) {
	return s.JobCountInState(c.StateName), nil
}
