package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"unique violation", &pq.Error{Code: pgerrcode.UniqueViolation}, true},
		{"serialization failure", &pq.Error{Code: pgerrcode.SerializationFailure}, true},
		{"deadlock", &pq.Error{Code: pgerrcode.DeadlockDetected}, true},
		{"lock timeout", &pq.Error{Code: pgerrcode.LockNotAvailable}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: pgerrcode.UniqueViolation}), true},
		{"check violation", &pq.Error{Code: pgerrcode.CheckViolation}, false},
		{"no rows", sql.ErrNoRows, false},
		{"plain", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.Equal(t, tt.transient, errors.Is(got, reservation.ErrStoreContention))
			if !tt.transient {
				assert.Equal(t, tt.err, got)
			}
		})
	}

	assert.NoError(t, translateError(nil))
}
