package jobstore

import (
	"time"

	"oss.nandlabs.io/jobstore/clock"
	"oss.nandlabs.io/jobstore/config"
	"oss.nandlabs.io/jobstore/dispatcher"
	"oss.nandlabs.io/jobstore/entity"
	"oss.nandlabs.io/jobstore/facade"
	"oss.nandlabs.io/jobstore/l3"
	"oss.nandlabs.io/jobstore/lifecycle"
	"oss.nandlabs.io/jobstore/lock"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/registry"
	"oss.nandlabs.io/jobstore/state"
)

var logger = l3.Get()

// Default knob values, overridable per Options or by the two environment
// variables read in defaultOptions.
const (
	DefaultMaxExpirationTime     = 3 * time.Hour
	DefaultMaxStateHistoryLength = 10
	DefaultCommandTimeout        = 30 * time.Second
	DefaultEvictionInterval      = time.Second
)

// Options configures a new Engine. A zero Options value is valid and
// produces sensible defaults.
type Options struct {
	// MaxExpirationTime caps any caller-requested TTL except counters,
	// which are always exempt. Nil is replaced by DefaultMaxExpirationTime,
	// so the cap is always in force.
	MaxExpirationTime *time.Duration
	// CaseInsensitive selects the SQL-Server-like comparer for keys,
	// fields and sorted-set values. Queue names are always compared
	// case-sensitively. The state-name index always stays
	// case-insensitive regardless of this setting.
	CaseInsensitive bool
	// MaxStateHistoryLength bounds how many state records a job retains.
	MaxStateHistoryLength int
	// CommandTimeout bounds Submit when the caller's context has no
	// deadline of its own. Zero disables the bound.
	CommandTimeout time.Duration
	// EvictionInterval is how often the dispatcher sweeps for expired
	// entries.
	EvictionInterval time.Duration
	// Clock overrides the monotonic time source; tests use a
	// clock.ManualClock here to drive eviction deterministically.
	Clock clock.Clock
}

// defaultOptions fills zero-valued fields with their defaults, honoring
// two environment overrides (JOBSTORE_EVICTION_INTERVAL,
// JOBSTORE_COMMAND_TIMEOUT) read through the config package's typed env
// var helpers - the only place this engine touches the OS environment.
func defaultOptions(o Options) Options {
	if o.MaxExpirationTime == nil {
		d := DefaultMaxExpirationTime
		o.MaxExpirationTime = &d
	}
	if o.MaxStateHistoryLength <= 0 {
		o.MaxStateHistoryLength = DefaultMaxStateHistoryLength
	}
	if o.EvictionInterval <= 0 {
		seconds, err := config.GetEnvAsInt64("JOBSTORE_EVICTION_INTERVAL", int64(DefaultEvictionInterval/time.Second))
		if err != nil {
			seconds = int64(DefaultEvictionInterval / time.Second)
		}
		o.EvictionInterval = time.Duration(seconds) * time.Second
	}
	if o.CommandTimeout <= 0 {
		seconds, err := config.GetEnvAsInt64("JOBSTORE_COMMAND_TIMEOUT", int64(DefaultCommandTimeout/time.Second))
		if err != nil {
			seconds = int64(DefaultCommandTimeout / time.Second)
		}
		o.CommandTimeout = time.Duration(seconds) * time.Second
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}

func (o Options) comparer() entity.Comparer {
	if o.CaseInsensitive {
		return entity.CaseInsensitiveComparer
	}
	return entity.CaseSensitiveComparer
}

// Engine is the top-level construction point of the whole storage core:
// one state.State, one dispatcher.Dispatcher goroutine, one lock.Manager,
// one queue.Engine and one registry.Registry, wired together and exposed
// only through the three façades. No package-level global instance
// exists; every caller builds (and owns) its own Engine.
type Engine struct {
	lcm lifecycle.ComponentManager

	dispatcher *dispatcher.Dispatcher
	locks      *lock.Manager
	queues     *queue.Engine
	registry   *registry.Registry
	clock      clock.Clock
}

// New builds and starts an Engine. The dispatcher goroutine is running by
// the time New returns.
func New(opts Options) (*Engine, error) {
	opts = defaultOptions(opts)

	st := state.New(state.Options{
		MaxExpirationTime:     opts.MaxExpirationTime,
		StringComparer:        opts.comparer(),
		MaxStateHistoryLength: opts.MaxStateHistoryLength,
	})
	q := queue.New()
	d := dispatcher.New(st, q, dispatcher.Options{
		Clock:            opts.Clock,
		EvictionInterval: opts.EvictionInterval,
		CommandTimeout:   opts.CommandTimeout,
	})

	lcm := lifecycle.NewSimpleComponentManager()
	lcm.Register(d)
	if err := lcm.Start(d.Id()); err != nil {
		return nil, err
	}

	logger.InfoF("jobstore engine started: eviction every %s, command timeout %s", opts.EvictionInterval, opts.CommandTimeout)

	return &Engine{
		lcm:        lcm,
		dispatcher: d,
		locks:      lock.New(),
		queues:     q,
		registry:   registry.New(),
		clock:      opts.Clock,
	}, nil
}

// Connection builds a new Connection façade bound to this engine. Callers
// typically build one per framework "connection".
func (e *Engine) Connection() *facade.Connection {
	return facade.NewConnection(e.dispatcher, e.locks, e.queues, e.registry, e.clock)
}

// Monitoring builds a new read-only Monitoring façade bound to this
// engine.
func (e *Engine) Monitoring() *facade.Monitoring {
	return facade.NewMonitoring(e.dispatcher, e.registry, e.clock)
}

// Close stops the dispatcher goroutine. It does not wait for in-flight
// Submit calls, and commands still waiting in the mailbox are not run;
// callers should stop issuing new commands before calling Close.
func (e *Engine) Close() error {
	return e.lcm.Stop(e.dispatcher.Id())
}
