// Package command implements the command pattern the dispatcher executes
// against the single state.State instance. Every mutation of storage -
// whether issued standalone or inside a Transaction - goes through a
// Command so the dispatcher never touches state.State directly.
package command

import (
	"fmt"

	"oss.nandlabs.io/jobstore/errutils"
	"oss.nandlabs.io/jobstore/queue"
	"oss.nandlabs.io/jobstore/state"
)

// Command is one unit of work the dispatcher runs against state.State.
// Result is whatever the caller's façade method needs to return; it is
// nil for pure writes.
type Command interface {
	Execute(s *state.State) (result any, err error)
}

// Func adapts a plain function to the Command interface, the way small
// one-off commands are expressed without a dedicated type.
type Func func(s *state.State) (any, error)

// Execute calls f.
func (f Func) Execute(s *state.State) (any, error) {
	return f(s)
}

// EnqueueEffect is returned by a command (in Result) when it wants the
// dispatcher to signal a worker after the command (or its enclosing
// transaction) commits. The dispatcher owns the queue.Engine, not
// state.State, so commands cannot call Enqueue/SignalOne themselves -
// they report the intent and the dispatcher carries it out post-commit.
type EnqueueEffect struct {
	Queue string
	Apply func(e *queue.Engine)
}

// Transaction runs an ordered list of Commands against one state.State,
// stopping at the first failing sub-command without rolling back any
// already-applied writes: in-memory storage keeps no undo log, so a
// partially applied transaction is expected behavior, not a bug.
type Transaction struct {
	Commands []Command
	Effects  []EnqueueEffect
}

// NewTransaction creates an empty Transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Add appends cmd to the transaction.
func (tx *Transaction) Add(cmd Command) {
	tx.Commands = append(tx.Commands, cmd)
}

// AddEffect records a post-commit queue effect (e.g. a job enqueue) to be
// carried out by the dispatcher once the transaction commits.
func (tx *Transaction) AddEffect(effect EnqueueEffect) {
	tx.Effects = append(tx.Effects, effect)
}

// TransactionError reports which sub-command (by index) first failed. A
// failing transaction names the first failing sub-command's index rather
// than aggregating every downstream failure, since sub-commands after the
// first failure never run.
type TransactionError struct {
	Index int
	Err   error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("jobstore: transaction command %d failed: %v", e.Index, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// Execute runs every sub-command in order against s, stopping at the
// first error. On success the result is a []any holding each
// sub-command's result in order; on failure the result is nil.
func (tx *Transaction) Execute(s *state.State) (any, error) {
	var results []any
	for i, cmd := range tx.Commands {
		res, err := cmd.Execute(s)
		if err != nil {
			me := errutils.NewMultiErr(&TransactionError{Index: i, Err: err})
			return nil, me
		}
		results = append(results, res)
	}
	return results, nil
}
