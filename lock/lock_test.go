package lock

import (
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestAcquire_UncontendedSucceeds(t *testing.T) {
	m := New()
	h, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Depth("job:1"))
	h.Release()
	assert.Equal(t, 0, m.Depth("job:1"))
}

func TestAcquire_ReentrantSameOwner(t *testing.T) {
	m := New()
	h1, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)
	h2, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Depth("job:1"))

	h1.Release()
	assert.Equal(t, 1, m.Depth("job:1"))
	h2.Release()
	assert.Equal(t, 0, m.Depth("job:1"))
}

func TestRelease_Idempotent(t *testing.T) {
	m := New()
	h, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)
	h.Release()
	h.Release()
	assert.Equal(t, 0, m.Depth("job:1"))
}

func TestAcquire_TimesOutWhenHeldByAnotherOwner(t *testing.T) {
	m := New()
	_, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)

	start := time.Now()
	_, err = m.Acquire("job:1", "owner-b", 50*time.Millisecond)
	elapsed := time.Since(start)
	assert.Error(t, err)
	assert.True(t, elapsed >= 50*time.Millisecond)
}

func TestAcquire_WaitsThenSucceedsAfterRelease(t *testing.T) {
	m := New()
	h, err := m.Acquire("job:1", "owner-a", time.Second)
	assert.NoError(t, err)

	done := make(chan struct{})
	var acquireErr error
	go func() {
		_, acquireErr = m.Acquire("job:1", "owner-b", 2*time.Second)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	h.Release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("owner-b never acquired the lock after release")
	}
	assert.NoError(t, acquireErr)
}
