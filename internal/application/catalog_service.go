package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
)

// CatalogService exposes the read-only movie and show catalog.
type CatalogService struct {
	showRepo show.Repository
}

func NewCatalogService(showRepo show.Repository) *CatalogService {
	return &CatalogService{showRepo: showRepo}
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]*show.Movie, error) {
	return s.showRepo.ListMovies(ctx)
}

// ListShowsByMovie returns an empty list for unknown movies.
func (s *CatalogService) ListShowsByMovie(ctx context.Context, movieID string) ([]*show.Show, error) {
	return s.showRepo.ListByMovieID(ctx, movieID)
}

func (s *CatalogService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	sh, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, show.ErrShowNotFound) {
			return nil, apperr.NotFound("show not found", err).With("show_id", id)
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	return sh, nil
}
