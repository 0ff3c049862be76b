package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikhil8615/movie-booking/internal/domain/show"
)

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(s CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type MovieResponse struct {
	ID              string `json:"id" example:"2f1c6a3e-6f0b-4c55-9d1e-8b2f7c3a9e10"`
	Title           string `json:"title" example:"Heat"`
	DurationMinutes int    `json:"duration_minutes" example:"170"`
}

type ShowResponse struct {
	ID         string `json:"id"`
	MovieID    string `json:"movie_id"`
	ScreenName string `json:"screen_name" example:"Screen 1"`
	StartsAt   string `json:"date_time" example:"2026-03-14T19:30:00Z"`
	TotalSeats int    `json:"total_seats" example:"100"`
}

func toMovieResponse(m *show.Movie) MovieResponse {
	return MovieResponse{ID: m.ID, Title: m.Title, DurationMinutes: m.DurationMinutes}
}

func toShowResponse(s *show.Show) ShowResponse {
	return ShowResponse{
		ID:         s.ID,
		MovieID:    s.MovieID,
		ScreenName: s.ScreenName,
		StartsAt:   s.StartsAt.UTC().Format(time.RFC3339),
		TotalSeats: s.TotalSeats,
	}
}

// ListMovies godoc
// @Summary List movies
// @Tags catalog
// @Produce json
// @Success 200 {array} MovieResponse
// @Router /movies [get]
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.service.ListMovies(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListShows godoc
// @Summary List the shows of a movie
// @Tags catalog
// @Produce json
// @Param movie_id path string true "Movie ID"
// @Success 200 {array} ShowResponse
// @Router /movies/{movie_id}/shows [get]
func (h *CatalogHandler) ListShows(c echo.Context) error {
	shows, err := h.service.ListShowsByMovie(c.Request().Context(), c.Param("movie_id"))
	if err != nil {
		return err
	}
	resp := make([]ShowResponse, len(shows))
	for i, s := range shows {
		resp[i] = toShowResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetShow godoc
// @Summary Get a show
// @Tags catalog
// @Produce json
// @Param show_id path string true "Show ID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{show_id} [get]
func (h *CatalogHandler) GetShow(c echo.Context) error {
	s, err := h.service.GetShow(c.Request().Context(), c.Param("show_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowResponse(s))
}
