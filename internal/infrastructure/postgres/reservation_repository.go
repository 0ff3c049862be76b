package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/transaction"
)

// seatLockTimeout bounds the wait for a seat lock. Exceeding it raises
// lock_not_available, which the booking engine retries.
const seatLockTimeout = "5s"

type reservationRow struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	ShowID     string     `db:"show_id"`
	SeatNumber int        `db:"seat_number"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	ReleasedAt *time.Time `db:"released_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID:         r.ID,
		UserID:     r.UserID,
		ShowID:     r.ShowID,
		SeatNumber: r.SeatNumber,
		Status:     reservation.Status(r.Status),
		CreatedAt:  r.CreatedAt,
		ReleasedAt: r.ReleasedAt,
	}
}

const reservationColumns = `id, user_id, show_id, seat_number, status, created_at, released_at`

// ReservationRepository is the PostgreSQL reservation store.
type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// SeatLockKey is the advisory lock key of one seat of one show.
func SeatLockKey(showID string, seatNumber int) string {
	return fmt.Sprintf("reservation:%s:%d", showID, seatNumber)
}

// LockSeat takes a transaction scoped advisory lock on the seat. Unlike
// SELECT ... FOR UPDATE it also serializes writers when no row exists yet.
func (r *ReservationRepository) LockSeat(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) error {
	sqlTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	if _, err := sqlTx.ExecContext(ctx, `SET LOCAL lock_timeout = '`+seatLockTimeout+`'`); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", translateError(err))
	}
	if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, SeatLockKey(showID, seatNumber)); err != nil {
		return fmt.Errorf("failed to lock seat: %w", translateError(err))
	}
	return nil
}

func (r *ReservationRepository) FindActiveBySeat(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) (*reservation.Reservation, error) {
	sqlTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}

	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE show_id = $1 AND seat_number = $2 AND status = 'active'
		FOR UPDATE`
	if err := sqlTx.GetContext(ctx, &row, query, showID, seatNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find active reservation: %w", translateError(err))
	}
	return row.toEntity(), nil
}

// Create inserts res with a fresh id. A concurrent insert for the same seat
// violates uq_reservations_active_seat and surfaces as ErrStoreContention.
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	query := `INSERT INTO reservations (` + reservationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := sqlTx.ExecContext(ctx, query,
		res.ID, res.UserID, res.ShowID, res.SeatNumber, string(res.Status), res.CreatedAt, res.ReleasedAt,
	); err != nil {
		return fmt.Errorf("failed to create reservation: %w", translateError(err))
	}
	return nil
}

func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	if uuid.Validate(id) != nil {
		return nil, reservation.ErrReservationNotFound
	}

	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	if err := sqlTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", translateError(err))
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}

	result, err := sqlTx.ExecContext(ctx,
		`UPDATE reservations SET status = $1, released_at = $2 WHERE id = $3`,
		string(res.Status), res.ReleasedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", translateError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if uuid.Validate(id) != nil {
		return nil, reservation.ErrReservationNotFound
	}

	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, max(offset, 0))
	} else if offset > 0 {
		query += ` OFFSET $2`
		args = append(args, offset)
	}

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) ListActiveSeatNumbers(ctx context.Context, showID string) ([]int, error) {
	if uuid.Validate(showID) != nil {
		return []int{}, nil
	}

	seats := []int{}
	query := `SELECT seat_number FROM reservations WHERE show_id = $1 AND status = 'active' ORDER BY seat_number`
	if err := r.db.SelectContext(ctx, &seats, query, showID); err != nil {
		return nil, fmt.Errorf("failed to list booked seats: %w", err)
	}
	return seats, nil
}

func (r *ReservationRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE status = 'active'`); err != nil {
		return 0, fmt.Errorf("failed to count active reservations: %w", err)
	}
	return count, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
