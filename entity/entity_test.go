package entity

import (
	"testing"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestJob_PushState_TracksHead(t *testing.T) {
	j := &Job{Key: keys.New(), CreatedAt: clock.New().Now()}
	j.PushState(StateRecord{Name: "Enqueued"}, 0)
	assert.Equal(t, "Enqueued", j.CurrentState.Name)
	assert.Equal(t, "Enqueued", j.StateHistory[0].Name)
}

func TestJob_PushState_TrimsHistory(t *testing.T) {
	j := &Job{Key: keys.New()}
	j.PushState(StateRecord{Name: "A"}, 2)
	j.PushState(StateRecord{Name: "B"}, 2)
	j.PushState(StateRecord{Name: "C"}, 2)
	assert.Equal(t, 2, len(j.StateHistory))
	assert.Equal(t, "C", j.StateHistory[0].Name)
	assert.Equal(t, "B", j.StateHistory[1].Name)
}

func TestList_Prepend(t *testing.T) {
	l := NewList("k")
	l.Prepend("a")
	l.Prepend("b")
	assert.Equal(t, []string{"b", "a"}, l.Values())
}

func TestCaseSensitiveComparer(t *testing.T) {
	assert.False(t, CaseSensitiveComparer.Equal("Foo", "foo"))
	assert.True(t, CaseSensitiveComparer.Equal("foo", "foo"))
}

func TestCaseInsensitiveComparer(t *testing.T) {
	assert.True(t, CaseInsensitiveComparer.Equal("Foo", "foo"))
	assert.True(t, CaseInsensitiveComparer.Less("apple", "Banana"))
}
