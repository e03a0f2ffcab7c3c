package sqlite_test

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

func newTestStore(t *testing.T) *sqlite.Store {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testHoliday(id, loc string, date calendar.Date, name string) calendar.Holiday {
	return calendar.Holiday{
		ID:         calendar.RecordID(id),
		LocationID: calendar.LocationID(loc),
		Date:       date,
		Name:       name,
		Mandatory:  true,
	}
}

// =============================================================================
// LOCATION TESTS
// =============================================================================

func TestLocations_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveLocation(ctx, calendar.Location{ID: "loc-1", Name: "Headquarters"}))

	loc, err := st.GetLocation(ctx, "loc-1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Headquarters", loc.Name)
	assert.Equal(t, calendar.StatusActive, loc.Status, "status defaults to ACTIVE")

	exists, err := st.LocationExists(ctx, "loc-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = st.LocationExists(ctx, "loc-missing")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := st.GetLocation(ctx, "loc-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListLocations_NameOrdered(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveLocation(ctx, calendar.Location{ID: "loc-b", Name: "Berlin"}))
	require.NoError(t, st.SaveLocation(ctx, calendar.Location{ID: "loc-a", Name: "Austin"}))

	locations, err := st.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Austin", locations[0].Name)
	assert.Equal(t, "Berlin", locations[1].Name)
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestHolidays_SaveAndQuery(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	jan1 := calendar.NewDate(2025, time.January, 1)
	require.NoError(t, st.SaveHoliday(ctx, testHoliday("h-1", "loc-1", jan1, "New Year")))
	require.NoError(t, st.SaveHoliday(ctx, testHoliday("h-2", "loc-1",
		calendar.NewDate(2024, time.December, 25), "Christmas")))

	// Engine-facing query returns every ACTIVE record, date-ordered
	all, err := st.HolidaysFor(ctx, "loc-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Christmas", all[0].Name)

	// Report query partitions by year
	year2025, err := st.ListHolidays(ctx, "loc-1", 2025)
	require.NoError(t, err)
	require.Len(t, year2025, 1)
	assert.Equal(t, "New Year", year2025[0].Name)

	exists, err := st.HolidayExists(ctx, "loc-1", jan1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeactivateHoliday_HidesFromEngineQueries(t *testing.T) {
	// GIVEN: An ACTIVE holiday
	// WHEN: Deactivating it
	// THEN: Engine queries no longer see it, but the record still loads by id

	st := newTestStore(t)
	ctx := context.Background()

	jan1 := calendar.NewDate(2025, time.January, 1)
	require.NoError(t, st.SaveHoliday(ctx, testHoliday("h-1", "loc-1", jan1, "New Year")))
	require.NoError(t, st.DeactivateHoliday(ctx, "h-1"))

	all, err := st.HolidaysFor(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, all)

	exists, err := st.HolidayExists(ctx, "loc-1", jan1)
	require.NoError(t, err)
	assert.False(t, exists)

	h, err := st.GetHoliday(ctx, "h-1")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, calendar.StatusInactive, h.Status)
}

// =============================================================================
// WEEKLY-OFF RULE TESTS
// =============================================================================

func TestWeeklyOffRules_PatternRoundTrip(t *testing.T) {
	// GIVEN: One FIXED and one NTH_WEEKDAY rule version
	// WHEN: Saving and reloading
	// THEN: Pattern payloads survive the JSON column intact

	st := newTestStore(t)
	ctx := context.Background()

	to := calendar.NewDate(2025, time.June, 30)
	require.NoError(t, st.SaveWeeklyOffRule(ctx, calendar.WeeklyOffRule{
		ID:            "r-fixed",
		LocationID:    "loc-1",
		Name:          "Weekend",
		Type:          calendar.RuleFixed,
		FixedWeekdays: []calendar.WeekDay{calendar.Saturday, calendar.Sunday},
		EffectiveFrom: calendar.NewDate(2025, time.January, 1),
		EffectiveTo:   &to,
	}))
	require.NoError(t, st.SaveWeeklyOffRule(ctx, calendar.WeeklyOffRule{
		ID:         "r-nth",
		LocationID: "loc-1",
		Name:       "Alternate Saturdays",
		Type:       calendar.RuleNthWeekday,
		NthWeekday: &calendar.NthWeekdayPattern{
			Weekday:     calendar.Saturday,
			Occurrences: []int{2, 4},
		},
		EffectiveFrom: calendar.NewDate(2025, time.July, 1),
	}))

	rules, err := st.WeeklyOffRulesFor(ctx, "loc-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)

	fixed := rules[0]
	assert.Equal(t, calendar.RecordID("r-fixed"), fixed.ID)
	assert.Equal(t, []calendar.WeekDay{calendar.Saturday, calendar.Sunday}, fixed.FixedWeekdays)
	require.NotNil(t, fixed.EffectiveTo)
	assert.Equal(t, "2025-06-30", fixed.EffectiveTo.String())

	nth := rules[1]
	require.NotNil(t, nth.NthWeekday)
	assert.Equal(t, calendar.Saturday, nth.NthWeekday.Weekday)
	assert.Equal(t, []int{2, 4}, nth.NthWeekday.Occurrences)
	assert.Nil(t, nth.EffectiveTo)
}

func TestEndDateWeeklyOffRule(t *testing.T) {
	// GIVEN: An open-ended rule version
	// WHEN: End-dating it
	// THEN: The window closes without touching its status

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveWeeklyOffRule(ctx, calendar.WeeklyOffRule{
		ID:            "r-1",
		LocationID:    "loc-1",
		Name:          "Weekend",
		Type:          calendar.RuleFixed,
		FixedWeekdays: []calendar.WeekDay{calendar.Sunday},
		EffectiveFrom: calendar.NewDate(2025, time.January, 1),
	}))
	require.NoError(t, st.EndDateWeeklyOffRule(ctx, "r-1", calendar.NewDate(2025, time.June, 30)))

	rule, err := st.GetWeeklyOffRule(ctx, "r-1")
	require.NoError(t, err)
	require.NotNil(t, rule)
	require.NotNil(t, rule.EffectiveTo)
	assert.Equal(t, "2025-06-30", rule.EffectiveTo.String())
	assert.Equal(t, calendar.StatusActive, rule.Status)
}

func TestDeactivateWeeklyOffRule(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveWeeklyOffRule(ctx, calendar.WeeklyOffRule{
		ID:            "r-1",
		LocationID:    "loc-1",
		Name:          "Weekend",
		Type:          calendar.RuleFixed,
		FixedWeekdays: []calendar.WeekDay{calendar.Sunday},
		EffectiveFrom: calendar.NewDate(2025, time.January, 1),
	}))
	require.NoError(t, st.DeactivateWeeklyOffRule(ctx, "r-1"))

	active, err := st.WeeklyOffRulesFor(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, active, "engine query filters INACTIVE versions")

	all, err := st.ListWeeklyOffRules(ctx, "loc-1")
	require.NoError(t, err)
	require.Len(t, all, 1, "master-data view keeps history")
	assert.Equal(t, calendar.StatusInactive, all[0].Status)
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestSnapshots_RoundTripAndCovering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	snap := masters.Snapshot{
		ID:         "snap-1",
		LocationID: "loc-1",
		Start:      calendar.NewDate(2025, time.January, 1),
		End:        calendar.NewDate(2025, time.January, 7),
		Reason:     "payroll",
		CreatedBy:  "payroll-service",
		CreatedAt:  time.Date(2025, time.January, 15, 10, 30, 45, 0, time.UTC),
		Resolutions: []calendar.DayResolution{
			{
				Date:      calendar.NewDate(2025, time.January, 1),
				DayOfWeek: calendar.Wednesday,
				Classification: calendar.Classification{
					Kind:          calendar.KindHoliday,
					Name:          "New Year",
					ReferenceID:   "h-1",
					ReferenceType: "holiday",
					Mandatory:     true,
				},
			},
			{
				Date:           calendar.NewDate(2025, time.January, 2),
				DayOfWeek:      calendar.Thursday,
				Classification: calendar.WorkingDay(),
			},
		},
	}
	require.NoError(t, st.SaveSnapshot(ctx, snap))

	loaded, err := st.GetSnapshot(ctx, "snap-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Resolutions, loaded.Resolutions)
	assert.Equal(t, "payroll", loaded.Reason)
	// Creation time survives with second precision, not day granularity
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt),
		"expected %s, got %s", snap.CreatedAt, loaded.CreatedAt)

	covering, err := st.SnapshotCovering(ctx, "loc-1", calendar.NewDate(2025, time.January, 4))
	require.NoError(t, err)
	require.NotNil(t, covering)
	assert.Equal(t, "snap-1", covering.ID)

	outside, err := st.SnapshotCovering(ctx, "loc-1", calendar.NewDate(2025, time.January, 8))
	require.NoError(t, err)
	assert.Nil(t, outside)

	missing, err := st.GetSnapshot(ctx, "snap-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
