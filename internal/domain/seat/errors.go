package seat

import "errors"

var (
	ErrSeatNumberRequired   = errors.New("seat_number is required")
	ErrSeatNumberNotInteger = errors.New("seat_number must be a valid integer")
	ErrSeatOutOfRange       = errors.New("seat out of range")

	// ErrAvailabilityNotCached is returned by availability caches on a miss.
	ErrAvailabilityNotCached = errors.New("availability not cached")
	// ErrAvailabilityStale rejects a cache fill that lost to an invalidation.
	ErrAvailabilityStale = errors.New("availability snapshot is stale")
)
