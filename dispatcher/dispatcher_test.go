package dispatcher

import (
	"context"
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/command"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/state"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestSubmit_RunsCommandAndReturnsResult(t *testing.T) {
	s := state.New(state.Options{})
	q := queue.New()
	d := New(s, q, Options{EvictionInterval: time.Hour})
	assert.NoError(t, d.Start())
	defer d.Stop()

	ctx := context.Background()
	res, err := d.Submit(ctx, &command.CounterIncrement{Key: "c", Delta: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), res.(int64))
}

func TestSubmit_CommandsSerializeAcrossGoroutines(t *testing.T) {
	s := state.New(state.Options{})
	q := queue.New()
	d := New(s, q, Options{EvictionInterval: time.Hour})
	assert.NoError(t, d.Start())
	defer d.Stop()

	ctx := context.Background()
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			_, _ = d.Submit(ctx, &command.CounterIncrement{Key: "c", Delta: 1})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}

	res, err := d.Submit(ctx, Func(func(s *state.State) (any, error) {
		return s.CounterGet("c").Value, nil
	}))
	assert.NoError(t, err)
	assert.Equal(t, int64(50), res.(int64))
}

func TestTransaction_SignalsQueueOnlyOnCommit(t *testing.T) {
	s := state.New(state.Options{})
	q := queue.New()
	d := New(s, q, Options{EvictionInterval: time.Hour})
	assert.NoError(t, d.Start())
	defer d.Stop()

	ctx := context.Background()
	tx := command.NewTransaction()
	k := keys.New()
	tx.Add(&command.CreateJob{Key: k, CreatedAt: clock.New().Now()})
	tx.AddEffect(command.EnqueueEffect{
		Queue: "default",
		Apply: func(e *queue.Engine) { e.Enqueue("default", k) },
	})

	_, err := d.Submit(ctx, tx)
	assert.NoError(t, err)

	got, name, ok := q.Fetch(ctx, []string{"default"}, time.Second)
	assert.True(t, ok)
	assert.Equal(t, "default", name)
	assert.Equal(t, k.String(), got.String())
}

func TestStop_RejectsFurtherSubmits(t *testing.T) {
	s := state.New(state.Options{})
	q := queue.New()
	d := New(s, q, Options{EvictionInterval: time.Hour})
	assert.NoError(t, d.Start())
	assert.NoError(t, d.Stop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := d.Submit(ctx, &command.CounterIncrement{Key: "c", Delta: 1})
	assert.Error(t, err)
}

// Func adapts a plain function to command.Command for ad-hoc test reads.
type Func = command.Func
