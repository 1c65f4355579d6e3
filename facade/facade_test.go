package facade

import (
	"context"
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/dispatcher"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/lock"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/registry"
	"oss.nandlabs.io/jobstore/state"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func newTestRig(t *testing.T) (*Connection, *Monitoring, func()) {
	t.Helper()
	s := state.New(state.Options{})
	q := queue.New()
	l := lock.New()
	r := registry.New()
	c := clock.New()
	d := dispatcher.New(s, q, dispatcher.Options{Clock: c, EvictionInterval: time.Hour})
	assert.NoError(t, d.Start())

	conn := NewConnection(d, l, q, r, c)
	mon := NewMonitoring(d, r, c)
	return conn, mon, func() { d.Stop() }
}

func TestTransaction_CreateEnqueueFetch(t *testing.T) {
	conn, _, stop := newTestRig(t)
	defer stop()
	ctx := context.Background()

	tx := conn.CreateTransaction()
	k := tx.CreateJob("payload", map[string]string{"k": "v"}, nil)
	tx.SetJobState(k, entity.StateRecord{Name: "Enqueued"})
	tx.AddToQueue("default", k)
	assert.NoError(t, tx.Commit(ctx))

	got, name, err := conn.GetNextJobFromQueues(ctx, []string{"default"}, 5*time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "default", name)
	assert.Equal(t, k.String(), got.String())

	jd, err := conn.GetJobData(ctx, k)
	assert.NoError(t, err)
	assert.NotNil(t, jd)
	assert.Equal(t, "Enqueued", jd.StateName)
}

func TestTransaction_HashWrites(t *testing.T) {
	conn, _, stop := newTestRig(t)
	defer stop()
	ctx := context.Background()

	tx := conn.CreateTransaction()
	tx.HashSetFields("h1", map[string]string{"a": "1"})
	assert.NoError(t, tx.Commit(ctx))

	hash, err := conn.GetHash(ctx, "h1")
	assert.NoError(t, err)
	assert.NotNil(t, hash)
	assert.Equal(t, "1", hash.Fields["a"])
}

func TestMonitoring_CountInState(t *testing.T) {
	conn, mon, stop := newTestRig(t)
	defer stop()
	ctx := context.Background()

	tx := conn.CreateTransaction()
	k := tx.CreateJob(nil, nil, nil)
	tx.SetJobState(k, entity.StateRecord{Name: "Processing"})
	assert.NoError(t, tx.Commit(ctx))

	count, err := mon.CountInState(ctx, "Processing")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTimelineKeys(t *testing.T) {
	day := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "stats:succeeded:2026-07-29", DailyTimelineKey("succeeded", day))
	assert.Equal(t, "stats:succeeded:2026-07-29-00", HourlyTimelineKey("succeeded", day))
}

func TestAcquireDistributedLock_TimesOutWhenHeld(t *testing.T) {
	l := lock.New()
	c := clock.New()
	conn1 := NewConnection(nil, l, nil, nil, c)
	conn2 := NewConnection(nil, l, nil, nil, c)

	h, err := conn1.AcquireDistributedLock("resource-1", time.Second)
	assert.NoError(t, err)
	defer h.Release()

	_, err = conn2.AcquireDistributedLock("resource-1", 50*time.Millisecond)
	assert.Error(t, err)
}
