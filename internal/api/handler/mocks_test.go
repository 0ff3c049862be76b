package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikhil8615/movie-booking/internal/api/middleware"
	"github.com/nikhil8615/movie-booking/internal/application"
	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/seat"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/pkg/token"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListMovies(ctx context.Context) ([]*show.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*show.Movie), args.Error(1)
}

func (m *MockCatalogService) ListShowsByMovie(ctx context.Context, movieID string) ([]*show.Show, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*show.Show), args.Error(1)
}

func (m *MockCatalogService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Show), args.Error(1)
}

type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) GetAvailability(ctx context.Context, showID string) (*seat.Availability, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Availability), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) BookSeat(ctx context.Context, caller identity.Caller, input application.BookSeatInput) (*reservation.Reservation, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, caller identity.Caller, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) ListMyReservations(ctx context.Context, caller identity.Caller, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

var (
	testTokens = token.NewService("handler-test-secret", "movie-booking", time.Hour)
	alice      = identity.Caller{UserID: "user-alice", Username: "alice"}
)

func bearer(t *testing.T, caller identity.Caller) string {
	t.Helper()
	raw, err := testTokens.Issue(caller.UserID, caller.Username)
	require.NoError(t, err)
	return "Bearer " + raw
}

func authed() echo.MiddlewareFunc {
	return middleware.RequireCaller(testTokens)
}

type echoServer struct {
	*echo.Echo
}

func (s *echoServer) do(method, target, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}
