package masters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/masters"
	"github.com/warp/calendar-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newSnapshotFixture(t *testing.T) (*masters.SnapshotManager, *sqlite.Store) {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.SaveLocation(ctx, calendar.Location{ID: "loc-1", Name: "Headquarters"}))
	require.NoError(t, st.SaveHoliday(ctx, calendar.Holiday{
		ID:         "h-1",
		LocationID: "loc-1",
		Date:       calendar.NewDate(2025, time.January, 1),
		Name:       "New Year",
		Mandatory:  true,
	}))
	require.NoError(t, st.SaveWeeklyOffRule(ctx, calendar.WeeklyOffRule{
		ID:            "r-1",
		LocationID:    "loc-1",
		Name:          "Weekend",
		Type:          calendar.RuleFixed,
		FixedWeekdays: []calendar.WeekDay{calendar.Saturday, calendar.Sunday},
		EffectiveFrom: calendar.NewDate(2025, time.January, 1),
	}))

	resolver := calendar.NewResolver(st, st, st)
	return masters.NewSnapshotManager(resolver, st), st
}

// =============================================================================
// SNAPSHOT LIFECYCLE TESTS
// =============================================================================

func TestCreateSnapshot_FreezesResolvedRange(t *testing.T) {
	// GIVEN: A location with a holiday and weekend offs
	// WHEN: Snapshotting the first week of January 2025
	// THEN: The snapshot records exactly what the resolver answered

	manager, _ := newSnapshotFixture(t)
	ctx := context.Background()

	snap, err := manager.CreateSnapshot(ctx, "loc-1",
		calendar.NewDate(2025, time.January, 1), calendar.NewDate(2025, time.January, 7),
		"january payroll", "payroll-service")
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	require.Len(t, snap.Resolutions, 7)

	assert.Equal(t, calendar.KindHoliday, snap.Resolutions[0].Classification.Kind, "Jan 1")
	assert.Equal(t, calendar.KindWeeklyOff, snap.Resolutions[3].Classification.Kind, "Jan 4 Saturday")
	assert.Equal(t, calendar.KindWorkingDay, snap.Resolutions[1].Classification.Kind, "Jan 2 Thursday")

	// Round-trips through the store unchanged
	loaded, err := manager.GetSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Resolutions, loaded.Resolutions)
	assert.Equal(t, "january payroll", loaded.Reason)
	assert.Equal(t, "payroll-service", loaded.CreatedBy)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestGetSnapshot_Unknown_Error(t *testing.T) {
	manager, _ := newSnapshotFixture(t)

	_, err := manager.GetSnapshot(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, calendar.ErrSnapshotNotFound)
}

func TestCreateSnapshot_UnknownLocation_Error(t *testing.T) {
	manager, _ := newSnapshotFixture(t)

	_, err := manager.CreateSnapshot(context.Background(), "loc-missing",
		calendar.NewDate(2025, time.January, 1), calendar.NewDate(2025, time.January, 7),
		"", "")
	assert.ErrorIs(t, err, calendar.ErrLocationNotFound)
}

// =============================================================================
// DATE LOCK TESTS
// =============================================================================

func TestIsDateLocked(t *testing.T) {
	// GIVEN: A snapshot covering Jan 1-7
	// WHEN: Checking dates inside and outside the range
	// THEN: Covered dates are locked, others are not

	manager, _ := newSnapshotFixture(t)
	ctx := context.Background()

	_, err := manager.CreateSnapshot(ctx, "loc-1",
		calendar.NewDate(2025, time.January, 1), calendar.NewDate(2025, time.January, 7),
		"", "")
	require.NoError(t, err)

	locked, err := manager.IsDateLocked(ctx, "loc-1", calendar.NewDate(2025, time.January, 3))
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = manager.IsDateLocked(ctx, "loc-1", calendar.NewDate(2025, time.January, 8))
	require.NoError(t, err)
	assert.False(t, locked)

	// Other locations are unaffected
	locked, err = manager.IsDateLocked(ctx, "loc-2", calendar.NewDate(2025, time.January, 3))
	require.NoError(t, err)
	assert.False(t, locked)
}
