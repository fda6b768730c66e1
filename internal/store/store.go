package store

import (
	"context"
	"time"

	"github.com/quietnest/noise-event-service/internal/models"
)

// Filter selects readings. The zero value matches everything; DeviceID and
// Before narrow the match and may be combined.
type Filter struct {
	// DeviceID, when non-empty, matches readings from that device only.
	DeviceID string
	// Before, when non-zero, matches readings with timestamp strictly less
	// than the cutoff.
	Before time.Time
}

// Store is the durable, queryable collection of readings. Implementations
// must be safe for concurrent use; the handle is constructed once at boot
// and shared by every request.
//
// Query returns matches ordered descending by timestamp (most recent
// first) — the single canonical order. Ascending-for-display is an explicit
// transform at the consuming boundary. limit <= 0 means unbounded.
type Store interface {
	Insert(ctx context.Context, r models.Reading) error
	Query(ctx context.Context, f Filter, limit int) ([]models.Reading, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// DeleteByID removes readings by id list and reports how many were
	// deleted. Deleting by a previously collected id list keeps
	// preview/execute acting on a logically consistent set even when new
	// readings arrive in between.
	DeleteByID(ctx context.Context, ids []string) (int64, error)
	Ping(ctx context.Context) error
	Close()
}
