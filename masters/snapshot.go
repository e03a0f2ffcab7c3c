package masters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// CALENDAR SNAPSHOTS - Freezing resolved ranges for downstream transactions
// =============================================================================

// Snapshot freezes the resolved classifications of a date range. Once a
// date is covered by a snapshot it is locked: the holidays behind it may
// no longer be mutated, only superseded by new future-dated records.
type Snapshot struct {
	ID          string
	LocationID  calendar.LocationID
	Start       calendar.Date
	End         calendar.Date
	Reason      string
	Resolutions []calendar.DayResolution
	CreatedBy   string
	CreatedAt   time.Time
}

// SnapshotStore persists snapshots. Append-only: snapshots are never
// updated or deleted.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)

	// SnapshotCovering returns any snapshot whose range contains the date
	// for the location, or nil.
	SnapshotCovering(ctx context.Context, locationID calendar.LocationID, date calendar.Date) (*Snapshot, error)
}

// SnapshotManager creates and queries snapshots through the engine, so a
// snapshot always records exactly what the resolver answered at creation
// time.
type SnapshotManager struct {
	resolver *calendar.Resolver
	store    SnapshotStore
}

func NewSnapshotManager(resolver *calendar.Resolver, store SnapshotStore) *SnapshotManager {
	return &SnapshotManager{resolver: resolver, store: store}
}

// CreateSnapshot resolves [start, end] and persists the frozen result.
func (m *SnapshotManager) CreateSnapshot(ctx context.Context, locationID calendar.LocationID, start, end calendar.Date, reason, createdBy string) (*Snapshot, error) {
	resolutions, err := m.resolver.ResolveRange(ctx, locationID, start, end)
	if err != nil {
		return nil, err
	}

	s := Snapshot{
		ID:          uuid.NewString(),
		LocationID:  locationID,
		Start:       start,
		End:         end,
		Reason:      reason,
		Resolutions: resolutions,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.store.SaveSnapshot(ctx, s); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	return &s, nil
}

// GetSnapshot returns a snapshot by id, or ErrSnapshotNotFound.
func (m *SnapshotManager) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	s, err := m.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", calendar.ErrSnapshotNotFound, id)
	}
	return s, nil
}

// IsDateLocked reports whether any snapshot covers the date for the
// location, which freezes its classification against mutation.
func (m *SnapshotManager) IsDateLocked(ctx context.Context, locationID calendar.LocationID, date calendar.Date) (bool, error) {
	s, err := m.store.SnapshotCovering(ctx, locationID, date)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}
