package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikhil8615/movie-booking/internal/api/middleware"
	"github.com/nikhil8615/movie-booking/internal/application"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

// BookSeatRequest accepts seat_number as a JSON number or a numeric string.
type BookSeatRequest struct {
	SeatNumber json.RawMessage `json:"seat_number" swaggertype:"integer" example:"5"`
}

type ReservationResponse struct {
	ID         string     `json:"id" example:"0f8e5d7c-4b1a-4c2e-8f3d-2a6b9c1d0e4f"`
	UserID     string     `json:"user_id" example:"user-123"`
	ShowID     string     `json:"show_id"`
	SeatNumber int        `json:"seat_number" example:"5"`
	Status     string     `json:"status" example:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

type ListBookingsQuery struct {
	Limit  int `query:"limit" validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

type CancelResponse struct {
	Message string              `json:"message" example:"Booking cancelled successfully"`
	Booking ReservationResponse `json:"booking"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, UserID: r.UserID, ShowID: r.ShowID,
		SeatNumber: r.SeatNumber, Status: string(r.Status),
		CreatedAt: r.CreatedAt, ReleasedAt: r.ReleasedAt,
	}
}

// maxExactFloatInt is the largest integer a float64 holds exactly.
const maxExactFloatInt = 1 << 53

// rawSeatNumber returns the client's seat number as text. Strings are
// unquoted. Numbers with a zero fraction such as 5.0 or 1e1 are rewritten
// as integers; other numbers are kept verbatim so that 5.5 still fails
// parsing.
func rawSeatNumber(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	text := string(raw)
	if !strings.ContainsAny(text, ".eE") {
		return text, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloatInt {
		return text, nil
	}
	return strconv.FormatInt(int64(f), 10), nil
}

// Book godoc
// @Summary Book a seat
// @Description Books one seat of a show for the authenticated user
// @Tags bookings
// @Accept json
// @Produce json
// @Security Bearer
// @Param show_id path string true "Show ID"
// @Param request body BookSeatRequest true "Seat to book"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse "Invalid seat number or missing field"
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "Show not found"
// @Failure 409 {object} api.ErrorResponse "Seat already booked"
// @Router /shows/{show_id}/book [post]
func (h *ReservationHandler) Book(c echo.Context) error {
	caller, _ := middleware.CallerFrom(c)

	var req BookSeatRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid request body", "", err)
	}
	seatNumber, err := rawSeatNumber(req.SeatNumber)
	if err != nil {
		return apperr.InvalidInput("seat_number must be a valid integer", "seat_number", err)
	}

	r, err := h.service.BookSeat(c.Request().Context(), caller, application.BookSeatInput{
		ShowID:     c.Param("show_id"),
		SeatNumber: seatNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// Cancel godoc
// @Summary Cancel a booking
// @Description Releases the seat of the caller's booking
// @Tags bookings
// @Produce json
// @Security Bearer
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} CancelResponse
// @Failure 400 {object} api.ErrorResponse "Booking already cancelled"
// @Failure 401 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse "Cannot cancel someone else's booking"
// @Failure 404 {object} api.ErrorResponse "Booking not found"
// @Router /bookings/{booking_id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	caller, _ := middleware.CallerFrom(c)

	r, err := h.service.CancelReservation(c.Request().Context(), caller, c.Param("booking_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CancelResponse{
		Message: "Booking cancelled successfully",
		Booking: toReservationResponse(r),
	})
}

// ListMine godoc
// @Summary List my bookings
// @Description All bookings of the caller, newest first. Without limit every booking is returned.
// @Tags bookings
// @Produce json
// @Security Bearer
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /my-bookings [get]
func (h *ReservationHandler) ListMine(c echo.Context) error {
	caller, _ := middleware.CallerFrom(c)

	var q ListBookingsQuery
	if err := c.Bind(&q); err != nil {
		return apperr.InvalidInput("limit and offset must be integers", "", err)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	reservations, err := h.service.ListMyReservations(c.Request().Context(), caller, q.Limit, q.Offset)
	if err != nil {
		return err
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
