package seat

import (
	"strconv"
	"strings"
)

// ParseNumber converts a client supplied seat number. Blank input is
// ErrSeatNumberRequired, anything that is not a base-10 integer is
// ErrSeatNumberNotInteger. Range checks belong to the caller.
func ParseNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrSeatNumberRequired
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrSeatNumberNotInteger
	}
	return n, nil
}

// Availability is a point-in-time view of a show's seats.
type Availability struct {
	ShowID    string
	Total     int
	Booked    []int
	Available []int
}

// AvailableCount returns the number of free seats.
func (a *Availability) AvailableCount() int {
	return len(a.Available)
}

// ComputeAvailability partitions 1..total into booked and available seats.
// occupied may be unsorted and contain duplicates; numbers outside the
// range are ignored. Both result slices are ascending and non-nil.
func ComputeAvailability(showID string, total int, occupied []int) *Availability {
	if total < 0 {
		total = 0
	}
	taken := make(map[int]struct{}, len(occupied))
	for _, n := range occupied {
		if n >= 1 && n <= total {
			taken[n] = struct{}{}
		}
	}

	booked := make([]int, 0, len(taken))
	available := make([]int, 0, total-len(taken))
	for n := 1; n <= total; n++ {
		if _, ok := taken[n]; ok {
			booked = append(booked, n)
			continue
		}
		available = append(available, n)
	}

	return &Availability{
		ShowID:    showID,
		Total:     total,
		Booked:    booked,
		Available: available,
	}
}
