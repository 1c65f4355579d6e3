// Package jobstore is an in-process, in-memory job storage engine.
//
// It keeps jobs, their states, queues and distributed-style locks entirely in
// memory behind a single-writer dispatcher, and evicts expired entries off a
// monotonic clock. It is the storage core a background job processing
// framework sits on top of - not a standalone worker pool or scheduler.
//
// Each sub-package is independently importable:
//
//	import "oss.nandlabs.io/jobstore/entity"     // Job/State/Queue entities
//	import "oss.nandlabs.io/jobstore/dispatcher" // single-writer command loop
//	import "oss.nandlabs.io/jobstore/queue"      // blocking fair FIFO queues
//	import "oss.nandlabs.io/jobstore/lock"       // reentrant named locks
//	import "oss.nandlabs.io/jobstore/command"    // transactional command pattern
//	import "oss.nandlabs.io/jobstore/facade"     // the public engine facade
//	import "oss.nandlabs.io/jobstore/l3"         // Logging
//	import "oss.nandlabs.io/jobstore/config"     // Environment based configuration
//
// For a complete list of packages and documentation, see:
// https://pkg.go.dev/oss.nandlabs.io/jobstore
package jobstore
