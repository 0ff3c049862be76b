package show

import "time"

// Movie is a catalog entry that shows are scheduled for.
type Movie struct {
	ID              string
	Title           string
	DurationMinutes int
	CreatedAt       time.Time
}

// NewMovie creates a movie. The ID is assigned by the repository.
func NewMovie(title string, durationMinutes int) *Movie {
	return &Movie{
		Title:           title,
		DurationMinutes: durationMinutes,
		CreatedAt:       time.Now(),
	}
}

// Validate checks the movie fields.
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrMovieTitleRequired
	}
	if m.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Show is a scheduled screening with a fixed number of seats numbered
// 1..TotalSeats.
type Show struct {
	ID         string
	MovieID    string
	ScreenName string
	StartsAt   time.Time
	TotalSeats int
	CreatedAt  time.Time
}

// NewShow creates a show. The ID is assigned by the repository.
func NewShow(movieID, screenName string, startsAt time.Time, totalSeats int) *Show {
	return &Show{
		MovieID:    movieID,
		ScreenName: screenName,
		StartsAt:   startsAt,
		TotalSeats: totalSeats,
		CreatedAt:  time.Now(),
	}
}

// Validate checks the show fields.
func (s *Show) Validate() error {
	if s.MovieID == "" {
		return ErrMovieIDRequired
	}
	if s.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	return nil
}

// HasSeat reports whether n is a seat of this show.
func (s *Show) HasSeat(n int) bool {
	return n >= 1 && n <= s.TotalSeats
}
