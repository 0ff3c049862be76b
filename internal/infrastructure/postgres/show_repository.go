package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nikhil8615/movie-booking/internal/domain/show"
)

type movieRow struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	DurationMinutes int       `db:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r *movieRow) toEntity() *show.Movie {
	return &show.Movie{
		ID:              r.ID,
		Title:           r.Title,
		DurationMinutes: r.DurationMinutes,
		CreatedAt:       r.CreatedAt,
	}
}

type showRow struct {
	ID         string    `db:"id"`
	MovieID    string    `db:"movie_id"`
	ScreenName string    `db:"screen_name"`
	StartsAt   time.Time `db:"starts_at"`
	TotalSeats int       `db:"total_seats"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *showRow) toEntity() *show.Show {
	return &show.Show{
		ID:         r.ID,
		MovieID:    r.MovieID,
		ScreenName: r.ScreenName,
		StartsAt:   r.StartsAt,
		TotalSeats: r.TotalSeats,
		CreatedAt:  r.CreatedAt,
	}
}

const showColumns = `id, movie_id, screen_name, starts_at, total_seats, created_at`

// ShowRepository is the PostgreSQL catalog of movies and shows.
type ShowRepository struct {
	db *sqlx.DB
}

func NewShowRepository(db *sqlx.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

func (r *ShowRepository) CreateMovie(ctx context.Context, m *show.Movie) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `INSERT INTO movies (id, title, duration_minutes, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Title, m.DurationMinutes, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

func (r *ShowRepository) Create(ctx context.Context, s *show.Show) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `INSERT INTO shows (` + showColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.MovieID, s.ScreenName, s.StartsAt, s.TotalSeats, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create show: %w", err)
	}
	return nil
}

func (r *ShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	if uuid.Validate(id) != nil {
		return nil, show.ErrShowNotFound
	}

	var row showRow
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ShowRepository) ListByMovieID(ctx context.Context, movieID string) ([]*show.Show, error) {
	if uuid.Validate(movieID) != nil {
		return []*show.Show{}, nil
	}

	var rows []showRow
	query := `SELECT ` + showColumns + ` FROM shows WHERE movie_id = $1 ORDER BY starts_at, id`
	if err := r.db.SelectContext(ctx, &rows, query, movieID); err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	shows := make([]*show.Show, len(rows))
	for i := range rows {
		shows[i] = rows[i].toEntity()
	}
	return shows, nil
}

func (r *ShowRepository) ListMovies(ctx context.Context) ([]*show.Movie, error) {
	var rows []movieRow
	query := `SELECT id, title, duration_minutes, created_at FROM movies ORDER BY title, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	movies := make([]*show.Movie, len(rows))
	for i := range rows {
		movies[i] = rows[i].toEntity()
	}
	return movies, nil
}

var _ show.Repository = (*ShowRepository)(nil)
