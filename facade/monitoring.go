package facade

import (
	"context"
	"fmt"
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/command"
	"oss.nandlabs.io/jobstore/dispatcher"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/registry"
	"oss.nandlabs.io/jobstore/state"
)

// Monitoring is the read-only façade: queue summaries, server listings,
// job state counts and pagination, and the fixed/timeline counters the
// surrounding framework keeps in well-known keys.
type Monitoring struct {
	dispatcher *dispatcher.Dispatcher
	registry   *registry.Registry
	clock      clock.Clock
}

func newMonitoring(d *dispatcher.Dispatcher, r *registry.Registry, c clock.Clock) *Monitoring {
	return &Monitoring{dispatcher: d, registry: r, clock: c}
}

// QueueSummary projects a named state bucket's top-5 oldest jobs.
type QueueSummary struct {
	Name            string
	Length          int
	TopFiveEnqueued []*entity.Job
}

// Queues reports the Enqueued bucket's size and its 5 oldest jobs. This
// engine does not track per-queue-name occupancy separately from job
// state, so "queues" here means the Enqueued state bucket as a whole;
// per-named-queue depth is not reported.
func (m *Monitoring) Queues(ctx context.Context) (QueueSummary, error) {
	res, err := m.dispatcher.Submit(ctx, &command.JobsInState{StateName: "Enqueued"})
	if err != nil {
		return QueueSummary{}, err
	}
	jobs, _ := res.([]*entity.Job)
	top := jobs
	if len(top) > 5 {
		top = top[:5]
	}
	return QueueSummary{Name: "Enqueued", Length: len(jobs), TopFiveEnqueued: top}, nil
}

// Servers lists every currently registered server.
func (m *Monitoring) Servers(ctx context.Context) ([]*entity.Server, error) {
	res, err := m.dispatcher.Submit(ctx, &command.ListServers{})
	if err != nil {
		return nil, err
	}
	servers, _ := res.([]*entity.Server)
	return servers, nil
}

// JobDetails projects a job's full detail view: invocation, state
// history, parameters. Returns nil for an unknown job.
func (m *Monitoring) JobDetails(ctx context.Context, id keys.K) (*entity.Job, error) {
	res, err := m.dispatcher.Submit(ctx, &command.GetJob{Key: id})
	if err != nil {
		return nil, err
	}
	j, _ := res.(*entity.Job)
	return j, nil
}

// JobsInState paginates the jobs currently in stateName (enqueued,
// processing, scheduled, succeeded, failed, deleted, awaiting, ...) with
// from/count pagination.
func (m *Monitoring) JobsInState(ctx context.Context, stateName string, from, count int) ([]*entity.Job, error) {
	res, err := m.dispatcher.Submit(ctx, &command.JobsInState{StateName: stateName})
	if err != nil {
		return nil, err
	}
	jobs, _ := res.([]*entity.Job)
	return paginate(jobs, from, count), nil
}

// CountInState reports how many jobs currently occupy stateName.
func (m *Monitoring) CountInState(ctx context.Context, stateName string) (int, error) {
	res, err := m.dispatcher.Submit(ctx, &command.JobCountInState{StateName: stateName})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

// SucceededTotal reads the fixed "stats:succeeded" counter.
func (m *Monitoring) SucceededTotal(ctx context.Context) (int64, error) {
	return m.readCounter(ctx, "stats:succeeded")
}

// DeletedTotal reads the fixed "stats:deleted" counter.
func (m *Monitoring) DeletedTotal(ctx context.Context) (int64, error) {
	return m.readCounter(ctx, "stats:deleted")
}

func (m *Monitoring) readCounter(ctx context.Context, key string) (int64, error) {
	res, err := m.dispatcher.Submit(ctx, command.Func(func(s *state.State) (any, error) {
		return s.CounterGet(key), nil
	}))
	if err != nil {
		return 0, err
	}
	c, _ := res.(*entity.Counter)
	if c == nil {
		return 0, nil
	}
	return c.Value, nil
}

// RecurringJobCount reads the size of the "recurring-jobs" set.
func (m *Monitoring) RecurringJobCount(ctx context.Context) (int, error) {
	return m.readSortedSetSize(ctx, "recurring-jobs")
}

// RetryCount reads the size of the "retries" set.
func (m *Monitoring) RetryCount(ctx context.Context) (int, error) {
	return m.readSortedSetSize(ctx, "retries")
}

func (m *Monitoring) readSortedSetSize(ctx context.Context, key string) (int, error) {
	res, err := m.dispatcher.Submit(ctx, &command.GetSortedSet{Key: key})
	if err != nil {
		return 0, err
	}
	set, _ := res.(*entity.SortedSet)
	if set == nil {
		return 0, nil
	}
	return len(set.Members), nil
}

// AwaitingCount reports how many jobs are currently in the Awaiting
// state, read from the state index.
func (m *Monitoring) AwaitingCount(ctx context.Context) (int, error) {
	return m.CountInState(ctx, "Awaiting")
}

// FetchedJobs lists jobs currently checked out by a worker. This engine has
// no invisibility timeout or redelivery for fetched-but-unacknowledged
// jobs - a fetched job is simply a job in the Processing state - so there
// is nothing distinct to report here; it always returns an empty slice.
func (m *Monitoring) FetchedJobs(ctx context.Context) ([]*entity.Job, error) {
	return nil, nil
}

// DailyTimelineKey builds the "stats:{type}:yyyy-MM-dd" bucket key used by
// the last-7-days daily timeline.
func DailyTimelineKey(statType string, day time.Time) string {
	return fmt.Sprintf("stats:%s:%s", statType, day.UTC().Format("2006-01-02"))
}

// HourlyTimelineKey builds the "stats:{type}:yyyy-MM-dd-HH" bucket key
// used by the last-24-hours hourly timeline.
func HourlyTimelineKey(statType string, hour time.Time) string {
	return fmt.Sprintf("stats:%s:%s", statType, hour.UTC().Format("2006-01-02-15"))
}

// Timeline reads count-type statistics (one fixed counter per bucket key)
// for the given already-built bucket keys, in order.
func (m *Monitoring) Timeline(ctx context.Context, bucketKeys []string) ([]int64, error) {
	out := make([]int64, len(bucketKeys))
	for i, k := range bucketKeys {
		v, err := m.readCounter(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func paginate[T any](items []T, from, count int) []T {
	if from < 0 {
		from = 0
	}
	if from >= len(items) {
		return nil
	}
	end := from + count
	if end > len(items) || count < 0 {
		end = len(items)
	}
	return items[from:end]
}
