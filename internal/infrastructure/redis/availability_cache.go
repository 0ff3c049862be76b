package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhil8615/movie-booking/internal/domain/seat"
)

// generationTTL keeps generation counters of idle shows from piling up.
// A counter that expires under a reader still fails that reader's fill.
const generationTTL = 24 * time.Hour

// fillScript stores the snapshot only while the show's generation still
// equals the one the reader saw before reading the store.
var fillScript = redis.NewScript(`
	local current = redis.call("GET", KEYS[1]) or "0"
	if current ~= ARGV[1] then
		return 0
	end
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
`)

type availabilityEntry struct {
	ShowID    string `json:"show_id"`
	Total     int    `json:"total"`
	Booked    []int  `json:"booked"`
	Available []int  `json:"available"`
}

// AvailabilityCache stores computed seat availability snapshots per show.
//
// Every invalidation bumps a per-show generation counter. Fills carry the
// generation observed before the store read and are dropped when an
// invalidation happened in between, so a snapshot taken before a commit
// never outlives that commit's invalidation.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func (c *AvailabilityCache) Get(ctx context.Context, showID string) (*seat.Availability, error) {
	raw, err := c.client.Get(ctx, availabilityKey(showID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, seat.ErrAvailabilityNotCached
		}
		return nil, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var entry availabilityEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode availability cache: %w", err)
	}
	return &seat.Availability{
		ShowID:    entry.ShowID,
		Total:     entry.Total,
		Booked:    entry.Booked,
		Available: entry.Available,
	}, nil
}

// Generation returns the show's current invalidation generation, zero when
// the show was never invalidated.
func (c *AvailabilityCache) Generation(ctx context.Context, showID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(showID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read availability generation: %w", err)
	}
	return gen, nil
}

// Set stores a for ttl unless the show was invalidated after generation
// gen was read, in which case seat.ErrAvailabilityStale is returned.
func (c *AvailabilityCache) Set(ctx context.Context, a *seat.Availability, gen int64, ttl time.Duration) error {
	raw, err := json.Marshal(availabilityEntry{
		ShowID:    a.ShowID,
		Total:     a.Total,
		Booked:    a.Booked,
		Available: a.Available,
	})
	if err != nil {
		return fmt.Errorf("failed to encode availability: %w", err)
	}

	stored, err := fillScript.Run(ctx, c.client,
		[]string{generationKey(a.ShowID), availabilityKey(a.ShowID)},
		strconv.FormatInt(gen, 10), raw, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	if stored == 0 {
		return seat.ErrAvailabilityStale
	}
	return nil
}

// Invalidate drops the cached snapshot and bumps the show's generation so
// that fills already in flight are discarded.
func (c *AvailabilityCache) Invalidate(ctx context.Context, showID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(showID))
		pipe.Expire(ctx, generationKey(showID), generationTTL)
		pipe.Del(ctx, availabilityKey(showID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

func availabilityKey(showID string) string {
	return "seats:available:" + showID
}

func generationKey(showID string) string {
	return "seats:gen:" + showID
}
