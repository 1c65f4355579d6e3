package clock

import (
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestInstant_Add(t *testing.T) {
	c := New()
	now := c.Now()
	later := now.Add(time.Second)
	assert.True(t, later.After(now))
	assert.True(t, now.Before(later))
}

func TestInstant_Compare(t *testing.T) {
	c := New()
	now := c.Now()
	later := now.Add(time.Millisecond)
	assert.Equal(t, -1, now.Compare(later))
	assert.Equal(t, 1, later.Compare(now))
	assert.Equal(t, 0, now.Compare(now))
}

func TestInstant_Sub(t *testing.T) {
	c := New()
	now := c.Now()
	later := now.Add(10 * time.Second)
	assert.Equal(t, 10*time.Second, later.Sub(now))
}

func TestManualClock_Advance(t *testing.T) {
	m := NewManual()
	start := m.Now()
	m.Advance(50 * time.Millisecond)
	after := m.Now()
	assert.Equal(t, 50*time.Millisecond, after.Sub(start))
}

func TestManualClock_DoesNotMoveOnItsOwn(t *testing.T) {
	m := NewManual()
	first := m.Now()
	second := m.Now()
	assert.Equal(t, 0, first.Compare(second))
}
