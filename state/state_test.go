package state

import (
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestJobCreateAndGet(t *testing.T) {
	s := New(Options{})
	c := clock.New()
	k := s.JobCreate("payload", c.Now(), nil, map[string]string{"k": "v"})
	j := s.JobGet(k)
	assert.NotNil(t, j)
	assert.Equal(t, "v", j.Parameters["k"])
}

func TestJobSetState_UpdatesIndex(t *testing.T) {
	s := New(Options{})
	c := clock.New()
	k := s.JobCreate(nil, c.Now(), nil, nil)
	s.JobSetState(k, entity.StateRecord{Name: "Enqueued", CreatedAt: c.Now()})
	assert.Equal(t, 1, s.JobCountInState("Enqueued"))

	s.JobSetState(k, entity.StateRecord{Name: "Processing", CreatedAt: c.Now()})
	assert.Equal(t, 0, s.JobCountInState("Enqueued"))
	assert.Equal(t, 1, s.JobCountInState("Processing"))
}

func TestJobExpire_CapsAtMaxExpirationTime(t *testing.T) {
	maxTTL := 3 * time.Hour
	s := New(Options{MaxExpirationTime: &maxTTL})
	c := clock.New()
	now := c.Now()
	k := s.JobCreate(nil, now, nil, nil)

	sevenDays := 7 * 24 * time.Hour
	s.JobExpire(k, now, &sevenDays)

	j := s.JobGet(k)
	assert.NotNil(t, j.ExpireAt)
	assert.True(t, !j.ExpireAt.After(now.Add(maxTTL)))
}

func TestCounterExpire_IgnoresMaxExpirationTime(t *testing.T) {
	maxTTL := 1 * time.Hour
	s := New(Options{MaxExpirationTime: &maxTTL})
	c := clock.New()
	now := c.Now()
	s.CounterIncrement("stats:succeeded", 1)

	sevenDays := 7 * 24 * time.Hour
	s.CounterExpire("stats:succeeded", now, &sevenDays)

	ctr := s.CounterGet("stats:succeeded")
	assert.NotNil(t, ctr.ExpireAt)
	assert.Equal(t, now.Add(sevenDays).Compare(*ctr.ExpireAt), 0)
}

func TestJobExpire_ThenPersist_RemovesExpireAt(t *testing.T) {
	s := New(Options{})
	c := clock.New()
	now := c.Now()
	k := s.JobCreate(nil, now, nil, nil)
	hour := time.Hour
	s.JobExpire(k, now, &hour)
	assert.NotNil(t, s.JobGet(k).ExpireAt)

	s.JobPersist(k)
	assert.Nil(t, s.JobGet(k).ExpireAt)
}

func TestEvictExpiredEntries(t *testing.T) {
	s := New(Options{})
	m := clock.NewManual()
	keys := []string{"h1", "h2", "h3", "h4", "h5"}
	durations := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 40 * time.Millisecond, 50 * time.Millisecond}
	for i, d := range durations {
		s.HashGetOrAdd(keys[i])
		s.HashExpire(keys[i], m.Now(), &d)
	}

	m.Advance(35 * time.Millisecond)
	stats := s.EvictExpiredEntries(m.Now())
	assert.Equal(t, 3, stats.Hashes)
	assert.Equal(t, 2, s.hashExpIdx.Len())
}

func TestIncrementThenDecrement_RestoresPriorValue(t *testing.T) {
	s := New(Options{})
	s.CounterIncrement("k", 1)
	v := s.CounterIncrement("k", -1)
	assert.Equal(t, int64(0), v)
}

func TestCounterIncrementThenDecrement_RemovesPreviouslyAbsentCounter(t *testing.T) {
	s := New(Options{})
	s.CounterIncrement("k", 5)
	s.CounterIncrement("k", -5)
	assert.Nil(t, s.CounterGet("k"))
}

func TestSetAdd_CaseInsensitiveComparer_CollapsesDuplicateValue(t *testing.T) {
	s := New(Options{StringComparer: entity.CaseInsensitiveComparer})
	s.SetAdd("myset", "Foo", 1)
	s.SetAdd("myset", "foo", 2)

	set, idx := s.SetGet("myset")
	assert.Equal(t, 1, len(set.Members))
	assert.Equal(t, 1, idx.Len())
	score, ok := idx.Score("foo")
	assert.True(t, ok)
	assert.Equal(t, float64(2), score)
}

func TestHashSetFields_CaseInsensitiveComparer_CollapsesDuplicateField(t *testing.T) {
	s := New(Options{StringComparer: entity.CaseInsensitiveComparer})
	s.HashSetFields("H1", map[string]string{"Name": "a"})
	s.HashSetFields("h1", map[string]string{"name": "b"})

	h := s.HashGet("H1")
	assert.Equal(t, 1, len(h.Fields))
	assert.Equal(t, "b", h.Fields["name"])
}
