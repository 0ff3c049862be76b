package show

import "errors"

var (
	ErrShowNotFound       = errors.New("show not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieIDRequired    = errors.New("movie id is required")
	ErrMovieTitleRequired = errors.New("movie title is required")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidTotalSeats  = errors.New("total seats must be at least 1")
)
