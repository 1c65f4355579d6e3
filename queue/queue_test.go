package queue

import (
	"context"
	"testing"
	"time"

	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestEnqueueThenFetch_NonBlocking(t *testing.T) {
	e := New()
	k := keys.New()
	becameNonEmpty := e.Enqueue("default", k)
	assert.True(t, becameNonEmpty)

	ctx := context.Background()
	got, name, ok := e.Fetch(ctx, []string{"default"}, time.Second)
	assert.True(t, ok)
	assert.Equal(t, "default", name)
	assert.Equal(t, k.String(), got.String())
}

func TestFetch_TimesOutOnEmptyQueue(t *testing.T) {
	e := New()
	ctx := context.Background()
	start := time.Now()
	_, _, ok := e.Fetch(ctx, []string{"default"}, 100*time.Millisecond)
	elapsed := time.Since(start)
	assert.False(t, ok)
	assert.True(t, elapsed >= 100*time.Millisecond)
}

func TestFetch_WakesOnSignal(t *testing.T) {
	e := New()
	ctx := context.Background()
	done := make(chan struct{})
	var got keys.K
	var ok bool
	go func() {
		got, _, ok = e.Fetch(ctx, []string{"default"}, 2*time.Second)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	k := keys.New()
	becameNonEmpty := e.Enqueue("default", k)
	assert.True(t, becameNonEmpty)
	e.SignalOne("default")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fetch did not wake up after signal")
	}
	assert.True(t, ok)
	assert.Equal(t, k.String(), got.String())
}

func TestFetch_CancelledContext(t *testing.T) {
	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var ok bool
	go func() {
		_, _, ok = e.Fetch(ctx, []string{"default"}, 5*time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fetch did not return after context cancellation")
	}
	assert.False(t, ok)
}

func TestSignalOne_WakesAtMostOneWaiter(t *testing.T) {
	e := New()
	ctx := context.Background()
	woken := make(chan int, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			_, _, ok := e.Fetch(ctx, []string{"default"}, 2*time.Second)
			if ok {
				woken <- i
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)

	e.Enqueue("default", keys.New())
	e.SignalOne("default")

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("no waiter woke up")
	}
	select {
	case <-woken:
		t.Fatal("a second waiter woke up from one SignalOne/one item")
	case <-time.After(100 * time.Millisecond):
	}
}
