package show

import "context"

// Repository reads the movie and show catalog. Writes exist for seeding and
// tests only; the booking core treats the catalog as read-only.
type Repository interface {
	// GetByID returns ErrShowNotFound for unknown or malformed ids.
	GetByID(ctx context.Context, id string) (*Show, error)

	// ListByMovieID returns the shows of a movie ordered by start time.
	// An unknown movie yields an empty list.
	ListByMovieID(ctx context.Context, movieID string) ([]*Show, error)

	ListMovies(ctx context.Context) ([]*Movie, error)

	CreateMovie(ctx context.Context, m *Movie) error

	Create(ctx context.Context, s *Show) error
}
