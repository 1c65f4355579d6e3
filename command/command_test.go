package command

import (
	"testing"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/state"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestCreateJobThenGetJob(t *testing.T) {
	s := state.New(state.Options{})
	c := clock.New()

	create := &CreateJob{InvocationData: "payload", CreatedAt: c.Now()}
	res, err := create.Execute(s)
	assert.NoError(t, err)
	k := res.(keys.K)

	get := &GetJob{Key: k}
	res, err = get.Execute(s)
	assert.NoError(t, err)
	j := res.(*entity.Job)
	assert.NotNil(t, j)
	assert.Equal(t, "payload", j.InvocationData)
}

func TestGetJob_UnknownReturnsNil(t *testing.T) {
	s := state.New(state.Options{})
	get := &GetJob{Key: keys.New()}
	res, err := get.Execute(s)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestSetJobState_UpdatesCounts(t *testing.T) {
	s := state.New(state.Options{})
	c := clock.New()
	res, _ := (&CreateJob{CreatedAt: c.Now()}).Execute(s)
	k := res.(keys.K)

	setState := &SetJobState{Key: k, Rec: entity.StateRecord{Name: "Enqueued", CreatedAt: c.Now()}}
	_, err := setState.Execute(s)
	assert.NoError(t, err)

	count, _ := (&JobCountInState{StateName: "Enqueued"}).Execute(s)
	assert.Equal(t, 1, count.(int))
}

func TestHashSetFieldsThenGet(t *testing.T) {
	s := state.New(state.Options{})
	_, err := (&HashSetFields{Key: "h1", Fields: map[string]string{"a": "1"}}).Execute(s)
	assert.NoError(t, err)

	res, _ := (&GetHash{Key: "h1"}).Execute(s)
	h := res.(*entity.Hash)
	assert.Equal(t, "1", h.Fields["a"])
}

func TestCounterIncrement(t *testing.T) {
	s := state.New(state.Options{})
	res, err := (&CounterIncrement{Key: "c1", Delta: 5}).Execute(s)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), res.(int64))
}

func TestTransaction_StopsAtFirstFailure(t *testing.T) {
	s := state.New(state.Options{})
	tx := NewTransaction()
	tx.Add(&HashSetFields{Key: "h1", Fields: map[string]string{"a": "1"}})
	tx.Add(Func(func(s *state.State) (any, error) {
		return nil, errSentinel{}
	}))
	tx.Add(&HashSetFields{Key: "h2", Fields: map[string]string{"b": "2"}})

	_, err := tx.Execute(s)
	assert.Error(t, err)

	res, _ := (&GetHash{Key: "h1"}).Execute(s)
	assert.NotNil(t, res)
	res, _ = (&GetHash{Key: "h2"}).Execute(s)
	assert.Nil(t, res)
}

type errSentinel struct{}

func (errSentinel) Error() string { return "boom" }
