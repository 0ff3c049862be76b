package application

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/seat"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/domain/transaction"
)

// memStore is an in-memory reservation store with the locking behaviour of
// the PostgreSQL one: seat and row locks are held until the transaction
// ends, and a commit that would create a second active row for a seat
// fails with ErrStoreContention.
type memStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	rows  map[string]*reservation.Reservation

	// failCommits makes the next n commits fail with ErrStoreContention.
	failCommits int
	commits     int
}

func newMemStore() *memStore {
	return &memStore{
		locks: map[string]*sync.Mutex{},
		rows:  map[string]*reservation.Reservation{},
	}
}

type memTx struct {
	store   *memStore
	held    []*sync.Mutex
	pending []*reservation.Reservation
	done    bool
}

func (s *memStore) Begin(context.Context) (transaction.Tx, error) {
	return &memTx{store: s}, nil
}

func (s *memStore) lock(tx transaction.Tx, key string) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	mt := tx.(*memTx)
	mt.held = append(mt.held, l)
}

func (t *memTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
	t.done = true
}

func (t *memTx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commits++
	if s.failCommits > 0 {
		s.failCommits--
		return fmt.Errorf("%w: injected", reservation.ErrStoreContention)
	}
	for _, p := range t.pending {
		if p.Status != reservation.StatusActive {
			continue
		}
		for _, r := range s.rows {
			if r.ID != p.ID && r.IsActive() && r.ShowID == p.ShowID && r.SeatNumber == p.SeatNumber {
				return fmt.Errorf("%w: duplicate active seat", reservation.ErrStoreContention)
			}
		}
	}
	for _, p := range t.pending {
		cp := *p
		s.rows[p.ID] = &cp
	}
	return nil
}

func (t *memTx) Rollback() error {
	if !t.done {
		t.release()
	}
	return nil
}

func (s *memStore) LockSeat(_ context.Context, tx transaction.Tx, showID string, seatNumber int) error {
	s.lock(tx, fmt.Sprintf("reservation:%s:%d", showID, seatNumber))
	return nil
}

func (s *memStore) FindActiveBySeat(_ context.Context, _ transaction.Tx, showID string, seatNumber int) (*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.IsActive() && r.ShowID == showID && r.SeatNumber == seatNumber {
			cp := *r
			return &cp, nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (s *memStore) Create(_ context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	cp := *r
	mt := tx.(*memTx)
	mt.pending = append(mt.pending, &cp)
	return nil
}

func (s *memStore) GetByIDForUpdate(_ context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	s.lock(tx, "row:"+id)
	return s.GetByID(context.Background(), id)
}

func (s *memStore) Update(_ context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	cp := *r
	mt := tx.(*memTx)
	mt.pending = append(mt.pending, &cp)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*reservation.Reservation
	for _, r := range s.rows {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) ListActiveSeatNumbers(_ context.Context, showID string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := []int{}
	for _, r := range s.rows {
		if r.IsActive() && r.ShowID == showID {
			seats = append(seats, r.SeatNumber)
		}
	}
	slices.Sort(seats)
	return seats, nil
}

func (s *memStore) CountActive(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.IsActive() {
			n++
		}
	}
	return n, nil
}

// memShows is a fixed in-memory catalog.
type memShows struct {
	movies []*show.Movie
	shows  map[string]*show.Show
}

func newMemShows(shows ...*show.Show) *memShows {
	m := &memShows{shows: map[string]*show.Show{}}
	for _, s := range shows {
		m.shows[s.ID] = s
	}
	return m
}

func (m *memShows) GetByID(_ context.Context, id string) (*show.Show, error) {
	s, ok := m.shows[id]
	if !ok {
		return nil, show.ErrShowNotFound
	}
	return s, nil
}

func (m *memShows) ListByMovieID(_ context.Context, movieID string) ([]*show.Show, error) {
	out := []*show.Show{}
	for _, s := range m.shows {
		if s.MovieID == movieID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memShows) ListMovies(context.Context) ([]*show.Movie, error) { return m.movies, nil }

func (m *memShows) CreateMovie(_ context.Context, mv *show.Movie) error {
	m.movies = append(m.movies, mv)
	return nil
}

func (m *memShows) Create(_ context.Context, s *show.Show) error {
	m.shows[s.ID] = s
	return nil
}

// pausedSeatReads parks the first ListActiveSeatNumbers call after it has
// read the store, until resume is closed.
type pausedSeatReads struct {
	*memStore
	once    sync.Once
	reached chan struct{}
	resume  chan struct{}
}

func pauseSeatReads(store *memStore) *pausedSeatReads {
	return &pausedSeatReads{memStore: store, reached: make(chan struct{}), resume: make(chan struct{})}
}

func (p *pausedSeatReads) ListActiveSeatNumbers(ctx context.Context, showID string) ([]int, error) {
	seats, err := p.memStore.ListActiveSeatNumbers(ctx, showID)
	p.once.Do(func() {
		close(p.reached)
		<-p.resume
	})
	return seats, err
}

// memCache is an in-memory AvailabilityCache with generation checked fills.
type memCache struct {
	mu        sync.Mutex
	snapshots map[string]*seat.Availability
	gens      map[string]int64
}

func newMemCache() *memCache {
	return &memCache{snapshots: map[string]*seat.Availability{}, gens: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, showID string) (*seat.Availability, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.snapshots[showID]
	if !ok {
		return nil, seat.ErrAvailabilityNotCached
	}
	return a, nil
}

func (c *memCache) Generation(_ context.Context, showID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[showID], nil
}

func (c *memCache) Set(_ context.Context, a *seat.Availability, gen int64, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[a.ShowID] != gen {
		return seat.ErrAvailabilityStale
	}
	c.snapshots[a.ShowID] = a
	return nil
}

func (c *memCache) Invalidate(_ context.Context, showID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[showID]++
	delete(c.snapshots, showID)
	return nil
}

var (
	_ AvailabilityCache      = (*memCache)(nil)
	_ reservation.Repository = (*pausedSeatReads)(nil)
	_ transaction.Manager    = (*memStore)(nil)
	_ reservation.Repository = (*memStore)(nil)
	_ show.Repository        = (*memShows)(nil)
)
