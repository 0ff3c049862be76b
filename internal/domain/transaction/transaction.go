package transaction

import "context"

// Tx is a unit of work against the reservation store. Repositories accept it
// so that the domain never depends on sqlx directly.
type Tx interface {
	// Commit makes every write in the unit visible atomically.
	Commit() error
	// Rollback discards the unit. Calling it after Commit is a no-op.
	Rollback() error
}

// Manager opens units of work.
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
