package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikhil8615/movie-booking/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type AvailabilityResponse struct {
	ShowID         string `json:"show_id"`
	TotalSeats     int    `json:"total_seats" example:"10"`
	BookedSeats    []int  `json:"booked_seats" example:"2,5"`
	AvailableSeats []int  `json:"available_seats" example:"1,3,4,6,7,8,9,10"`
	AvailableCount int    `json:"available_count" example:"8"`
}

func toAvailabilityResponse(a *seat.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ShowID:         a.ShowID,
		TotalSeats:     a.Total,
		BookedSeats:    a.Booked,
		AvailableSeats: a.Available,
		AvailableCount: a.AvailableCount(),
	}
}

// GetAvailable godoc
// @Summary Available seats of a show
// @Tags seats
// @Produce json
// @Param show_id path string true "Show ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{show_id}/available-seats [get]
func (h *SeatHandler) GetAvailable(c echo.Context) error {
	a, err := h.service.GetAvailability(c.Request().Context(), c.Param("show_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAvailabilityResponse(a))
}
