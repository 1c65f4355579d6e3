// Package facade exposes the three in-process entry points the surrounding
// framework talks to - Connection, Transaction, Monitoring - translating
// every call into a command.Command run by the dispatcher.
package facade

import (
	"errors"
	"time"
)

// Error kinds of the façade, so framework code can branch on Is/As
// instead of parsing messages. Façade methods return ErrLockTimeout and
// ErrFetchTimeout; ErrInvalidArgument and ErrInvariantViolation are not
// returned by any façade method, and other dispatcher/state errors are
// passed through unclassified.
var (
	ErrInvalidArgument    = errors.New("jobstore: invalid argument")
	ErrLockTimeout        = errors.New("jobstore: lock timeout")
	ErrFetchTimeout       = errors.New("jobstore: fetch timeout")
	ErrInvariantViolation = errors.New("jobstore: invariant violation")
)

// JobData is the Connection façade's projection of a job.
type JobData struct {
	InvocationData any
	StateName      string
	CreatedAt      time.Time
	Parameters     map[string]string
}

// StateData is the façade's projection of a job's current state record.
type StateData struct {
	Name      string
	Reason    string
	Data      map[string]string
	CreatedAt time.Time
}

// FetchedJob pairs a job key with the queue it was fetched from.
// Connection.GetNextJobFromQueues returns these two values separately
// and does not use this type.
type FetchedJob struct {
	JobKey string
	Queue  string
}
