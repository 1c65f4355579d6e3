// Package dispatcher owns the single goroutine that is the only writer of
// state.State, serializing every command through one mailbox channel so
// storage mutations never race.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"oss.nandlabs.io/jobstore/chrono"
	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/command"
	"oss.nandlabs.io/jobstore/l3"
	"oss.nandlabs.io/jobstore/lifecycle"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/state"
)

var logger = l3.Get()

// DefaultEvictionInterval is how often the dispatcher sweeps for expired
// entries when Options.EvictionInterval is zero.
const DefaultEvictionInterval = time.Second

// envelope is one unit of mailbox traffic: a command plus a one-shot reply
// channel. Using a single channel for every Submit call, regardless of
// command kind, is what gives the dispatcher its total order.
type envelope struct {
	cmd   command.Command
	reply chan reply
}

type reply struct {
	result any
	err    error
}

// Options configures a Dispatcher.
type Options struct {
	Clock             clock.Clock
	EvictionInterval  time.Duration
	MailboxBufferSize int
	// CommandTimeout bounds how long Submit waits for the dispatcher to
	// pick up and run a command when the caller's context carries no
	// deadline of its own. Zero disables the bound.
	CommandTimeout time.Duration
}

// Dispatcher is the single-writer engine that runs commands against one
// state.State instance and, after each commit, notifies the queue.Engine
// of any effects the command recorded.
type Dispatcher struct {
	lc lifecycle.SimpleComponent

	clock      clock.Clock
	state      *state.State
	queues     *queue.Engine
	mailbox    chan envelope
	evictIn    time.Duration
	cmdTimeout time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Dispatcher bound to s and queues. The dispatcher is not
// running until Start is called.
func New(s *state.State, queues *queue.Engine, opts Options) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.EvictionInterval <= 0 {
		opts.EvictionInterval = DefaultEvictionInterval
	}
	if opts.MailboxBufferSize <= 0 {
		opts.MailboxBufferSize = 64
	}

	d := &Dispatcher{
		clock:      opts.Clock,
		state:      s,
		queues:     queues,
		mailbox:    make(chan envelope, opts.MailboxBufferSize),
		evictIn:    opts.EvictionInterval,
		cmdTimeout: opts.CommandTimeout,
		done:       make(chan struct{}),
	}
	d.lc = lifecycle.SimpleComponent{
		CompId:    "jobstore.dispatcher",
		StartFunc: d.start,
		StopFunc:  d.stop,
	}
	return d
}

// Id satisfies lifecycle.Component.
func (d *Dispatcher) Id() string { return d.lc.Id() }

// State satisfies lifecycle.Component.
func (d *Dispatcher) State() lifecycle.ComponentState { return d.lc.State() }

// OnChange satisfies lifecycle.Component.
func (d *Dispatcher) OnChange(f func(prevState, newState lifecycle.ComponentState)) {
	d.lc.OnChange(f)
}

// Start launches the dispatcher goroutine.
func (d *Dispatcher) Start() error { return d.lc.Start() }

// Stop signals the dispatcher goroutine to exit. Commands still waiting in
// the mailbox are not run; their submitters return once their context ends.
func (d *Dispatcher) Stop() error { return d.lc.Stop() }

func (d *Dispatcher) start() error {
	go d.run()
	return nil
}

func (d *Dispatcher) stop() error {
	d.stopOnce.Do(func() { close(d.done) })
	return nil
}

// evictionSchedule computes successive eviction tick times. Using a
// chrono.Schedule rather than a bare time.Duration keeps the tick
// cadence pluggable (e.g. a future backoff schedule) without touching
// the run loop below, while still firing on the dispatcher's own
// goroutine - the single-writer invariant rules out a second goroutine
// driving eviction independently.
func (d *Dispatcher) evictionSchedule() chrono.Schedule {
	sched, err := chrono.NewIntervalSchedule(d.evictIn)
	if err != nil {
		// evictIn is always positive by the time New returns (it falls back
		// to DefaultEvictionInterval), so this indicates a programming error.
		panic(err)
	}
	return sched
}

func (d *Dispatcher) run() {
	sched := d.evictionSchedule()
	next := sched.Next(d.clock.Now().Raw())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-timer.C:
			now := d.clock.Now()
			stats := d.state.EvictExpiredEntries(now)
			if stats.Jobs+stats.Hashes+stats.Lists+stats.Sets+stats.Counters > 0 {
				logger.DebugF("evicted %d jobs, %d hashes, %d lists, %d sets, %d counters",
					stats.Jobs, stats.Hashes, stats.Lists, stats.Sets, stats.Counters)
			}
			next = sched.Next(now.ToUTC())
			timer.Reset(time.Until(next))
		case env := <-d.mailbox:
			select {
			case <-d.done:
				return
			default:
			}
			d.apply(env)
		}
	}
}

func (d *Dispatcher) apply(env envelope) {
	result, err := env.cmd.Execute(d.state)
	if err == nil {
		if tx, ok := env.cmd.(*command.Transaction); ok {
			d.applyEffects(tx.Effects)
		}
	}
	env.reply <- reply{result: result, err: err}
}

func (d *Dispatcher) applyEffects(effects []command.EnqueueEffect) {
	for _, e := range effects {
		e.Apply(d.queues)
		d.queues.SignalOne(e.Queue)
	}
}

// Submit hands cmd to the dispatcher goroutine and blocks until it has
// run (or ctx is cancelled first). This is the only way any other
// goroutine touches state.State.
func (d *Dispatcher) Submit(ctx context.Context, cmd command.Command) (any, error) {
	if d.cmdTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.cmdTimeout)
			defer cancel()
		}
	}
	select {
	case <-d.done:
		return nil, lifecycle.ErrCompAlreadyStopped
	default:
	}
	env := envelope{cmd: cmd, reply: make(chan reply, 1)}
	select {
	case d.mailbox <- env:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, lifecycle.ErrCompAlreadyStopped
	}

	select {
	case r := <-env.reply:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
