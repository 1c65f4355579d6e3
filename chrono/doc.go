// Package chrono provides the schedule abstraction the dispatcher's
// eviction timer runs on: a pluggable "what's the next activation time"
// calculation, independent of whatever waits on it.
//
// Upstream golly's chrono package ships a full cron/interval/one-shot job
// scheduler with its own goroutine and pluggable storage. This engine has
// exactly one periodic job - sweeping expired entries - and it must run on
// the dispatcher's own goroutine, not a second one, to preserve the
// single-writer invariant. So only the Schedule calculation survives here;
// the runner, storage and cron-expression machinery were dropped.
package chrono
