package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nikhil8615/movie-booking/internal/domain/transaction"
)

var errForeignTx = errors.New("transaction was not opened by the postgres TxManager")

// TxWrapper adapts sqlx.Tx to transaction.Tx.
type TxWrapper struct {
	*sqlx.Tx
}

// Commit commits the transaction. Serialization failures and unique
// violations detected at commit surface as reservation.ErrStoreContention.
func (t *TxWrapper) Commit() error {
	return translateError(t.Tx.Commit())
}

func (t *TxWrapper) Rollback() error {
	return t.Tx.Rollback()
}

// TxManager opens read-committed transactions on a sqlx.DB.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx extracts the sqlx.Tx behind tx, nil for foreign implementations.
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

func mustUnwrap(tx transaction.Tx) (*sqlx.Tx, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, errForeignTx
	}
	return sqlTx, nil
}

var _ transaction.Manager = (*TxManager)(nil)
