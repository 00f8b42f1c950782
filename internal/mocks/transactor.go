package mocks

import (
	"context"

	"github.com/phrazzld/task-manager-api/internal/store"
)

// FakeTransactor runs the function directly with a nil *sql.Tx. Mock stores
// ignore the transaction in WithTx, so the unit of work runs against them.
type FakeTransactor struct {
	// Err, when set, is returned instead of running fn
	Err error

	// Calls counts RunInTx invocations
	Calls int
}

var _ store.Transactor = (*FakeTransactor)(nil)

// RunInTx implements store.Transactor.
func (f *FakeTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	f.Calls++
	if f.Err != nil {
		return f.Err
	}
	return fn(ctx, nil)
}
