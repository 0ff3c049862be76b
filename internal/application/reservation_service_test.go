package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
)

const testReservationID = "0f8e5d7c-4b1a-4c2e-8f3d-2a6b9c1d0e4f"

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func activeReservation(owner string) *reservation.Reservation {
	return &reservation.Reservation{
		ID:         testReservationID,
		UserID:     owner,
		ShowID:     testShowID,
		SeatNumber: 3,
		Status:     reservation.StatusActive,
		CreatedAt:  fixedNow.Add(-time.Hour),
	}
}

func TestCancelReservation_Success(t *testing.T) {
	cache := new(MockAvailabilityCache)
	f := newBookingFixture(t, WithCacheInvalidation(cache), WithClock(func() time.Time { return fixedNow }))
	f.txm.On("Begin", mock.Anything).Return(f.tx, nil)
	f.resRepo.On("GetByIDForUpdate", mock.Anything, f.tx, testReservationID).Return(activeReservation(alice.UserID), nil)
	f.resRepo.On("Update", mock.Anything, f.tx, mock.MatchedBy(func(r *reservation.Reservation) bool {
		return r.Status == reservation.StatusReleased && r.ReleasedAt != nil && r.ReleasedAt.Equal(fixedNow)
	})).Return(nil)
	f.tx.On("Commit").Return(nil).Once()
	cache.On("Invalidate", mock.Anything, testShowID).Return(nil).Once()

	res, err := f.svc.CancelReservation(context.Background(), alice, testReservationID)

	require.NoError(t, err)
	assert.Equal(t, reservation.StatusReleased, res.Status)
	assert.Equal(t, fixedNow.Add(-time.Hour), res.CreatedAt, "created_at is never changed")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CancellationsTotal.WithLabelValues("success")))
	f.resRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCancelReservation_Errors(t *testing.T) {
	released := activeReservation(alice.UserID)
	released.Status = reservation.StatusReleased
	releasedAt := fixedNow.Add(-time.Minute)
	released.ReleasedAt = &releasedAt

	tests := []struct {
		name     string
		caller   identity.Caller
		stored   *reservation.Reservation
		loadErr  error
		wantKind apperr.Kind
		wantErr  error
		outcome  string
	}{
		{name: "anonymous", caller: identity.Caller{}, wantKind: apperr.KindUnauthenticated},
		{name: "unknown reservation", caller: alice, loadErr: reservation.ErrReservationNotFound, wantKind: apperr.KindNotFound, wantErr: reservation.ErrReservationNotFound, outcome: "not_found"},
		{name: "other user's active reservation", caller: bob, stored: activeReservation(alice.UserID), wantKind: apperr.KindForbidden, wantErr: reservation.ErrNotOwner, outcome: "forbidden"},
		{name: "other user's released reservation", caller: bob, stored: released, wantKind: apperr.KindForbidden, wantErr: reservation.ErrNotOwner, outcome: "forbidden"},
		{name: "already released", caller: alice, stored: released, wantKind: apperr.KindInvalidState, wantErr: reservation.ErrAlreadyReleased, outcome: "invalid_state"},
		{name: "store failure", caller: alice, loadErr: errDBDown, wantKind: apperr.KindInternal, wantErr: errDBDown, outcome: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			f.txm.On("Begin", mock.Anything).Return(f.tx, nil).Maybe()
			if tt.stored != nil {
				cp := *tt.stored
				f.resRepo.On("GetByIDForUpdate", mock.Anything, f.tx, testReservationID).Return(&cp, nil)
			} else if tt.loadErr != nil {
				f.resRepo.On("GetByIDForUpdate", mock.Anything, f.tx, testReservationID).Return(nil, tt.loadErr)
			}

			res, err := f.svc.CancelReservation(context.Background(), tt.caller, testReservationID)

			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.outcome != "" {
				assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CancellationsTotal.WithLabelValues(tt.outcome)))
			}
			f.resRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			f.tx.AssertNotCalled(t, "Commit")
		})
	}
}

func TestCancelReservation_CommitFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.txm.On("Begin", mock.Anything).Return(f.tx, nil)
	f.resRepo.On("GetByIDForUpdate", mock.Anything, f.tx, testReservationID).Return(activeReservation(alice.UserID), nil)
	f.resRepo.On("Update", mock.Anything, f.tx, mock.Anything).Return(nil)
	f.tx.On("Commit").Return(errDBDown)

	_, err := f.svc.CancelReservation(context.Background(), alice, testReservationID)

	assert.ErrorIs(t, err, errDBDown)
	f.txm.AssertNumberOfCalls(t, "Begin", 1)
}

func TestListMyReservations(t *testing.T) {
	f := newBookingFixture(t)
	mine := []*reservation.Reservation{activeReservation(alice.UserID)}
	f.resRepo.On("ListByUser", mock.Anything, alice.UserID, 0, 0).Return(mine, nil)
	f.resRepo.On("ListByUser", mock.Anything, alice.UserID, 10, 20).Return(mine, nil)

	got, err := f.svc.ListMyReservations(context.Background(), alice, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, mine, got)

	_, err = f.svc.ListMyReservations(context.Background(), alice, 10, 20)
	require.NoError(t, err)

	_, err = f.svc.ListMyReservations(context.Background(), alice, -1, -5)
	require.NoError(t, err)
	f.resRepo.AssertNumberOfCalls(t, "ListByUser", 3)

	_, err = f.svc.ListMyReservations(context.Background(), identity.Caller{}, 0, 0)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestCountActiveReservations(t *testing.T) {
	f := newBookingFixture(t)
	f.resRepo.On("CountActive", mock.Anything).Return(7, nil).Once()
	f.resRepo.On("CountActive", mock.Anything).Return(0, errDBDown).Once()

	n, err := f.svc.CountActiveReservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = f.svc.CountActiveReservations(context.Background())
	assert.True(t, errors.Is(err, errDBDown))
}

func TestAuthorizeOwner(t *testing.T) {
	r := activeReservation(alice.UserID)

	assert.NoError(t, authorizeOwner(alice, r))

	err := authorizeOwner(bob, r)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	e, _ := apperr.As(err)
	assert.Equal(t, testReservationID, e.Details["reservation_id"])

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(authorizeOwner(identity.Caller{}, r)))
}
