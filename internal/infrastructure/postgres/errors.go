package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
)

// translateError maps PostgreSQL failures caused by concurrent writers to
// reservation.ErrStoreContention. Other errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgerrcode.UniqueViolation,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable:
		return fmt.Errorf("%w: %s (%s)", reservation.ErrStoreContention, pqErr.Message, pqErr.Code)
	}
	return err
}
