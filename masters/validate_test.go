package masters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/masters"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func validFixedRule(id string) calendar.WeeklyOffRule {
	return calendar.WeeklyOffRule{
		ID:            calendar.RecordID(id),
		LocationID:    "loc-1",
		Name:          "Weekend",
		Type:          calendar.RuleFixed,
		FixedWeekdays: []calendar.WeekDay{calendar.Saturday, calendar.Sunday},
		EffectiveFrom: calendar.NewDate(2025, time.January, 1),
		Status:        calendar.StatusActive,
	}
}

func endDated(rule calendar.WeeklyOffRule, year int, month time.Month, day int) calendar.WeeklyOffRule {
	to := calendar.NewDate(year, month, day)
	rule.EffectiveTo = &to
	return rule
}

// =============================================================================
// HOLIDAY VALIDATION TESTS
// =============================================================================

func TestValidateHoliday(t *testing.T) {
	valid := calendar.Holiday{
		ID:         "h-1",
		LocationID: "loc-1",
		Date:       calendar.NewDate(2025, time.January, 1),
		Name:       "New Year",
	}
	assert.NoError(t, masters.ValidateHoliday(valid))

	missingLocation := valid
	missingLocation.LocationID = ""
	assert.Error(t, masters.ValidateHoliday(missingLocation))

	missingName := valid
	missingName.Name = "  "
	assert.Error(t, masters.ValidateHoliday(missingName))

	missingDate := valid
	missingDate.Date = calendar.Date{}
	assert.Error(t, masters.ValidateHoliday(missingDate))
}

// =============================================================================
// RULE VALIDATION TESTS
// =============================================================================

func TestValidateRule_ValidFixed(t *testing.T) {
	assert.NoError(t, masters.ValidateRule(validFixedRule("r-1"), nil))
}

func TestValidateRule_ValidNthWeekday(t *testing.T) {
	rule := validFixedRule("r-1")
	rule.Type = calendar.RuleNthWeekday
	rule.FixedWeekdays = nil
	rule.NthWeekday = &calendar.NthWeekdayPattern{
		Weekday:     calendar.Saturday,
		Occurrences: []int{2, 4},
	}
	assert.NoError(t, masters.ValidateRule(rule, nil))
}

func TestValidateRule_BadPatterns(t *testing.T) {
	// GIVEN: Rules with malformed pattern payloads
	// WHEN: Validating each
	// THEN: ErrInvalidPattern in every case

	noWeekdays := validFixedRule("r-1")
	noWeekdays.FixedWeekdays = nil
	assert.ErrorIs(t, masters.ValidateRule(noWeekdays, nil), calendar.ErrInvalidPattern)

	badWeekday := validFixedRule("r-2")
	badWeekday.FixedWeekdays = []calendar.WeekDay{"CATURDAY"}
	assert.ErrorIs(t, masters.ValidateRule(badWeekday, nil), calendar.ErrInvalidPattern)

	nthMissing := validFixedRule("r-3")
	nthMissing.Type = calendar.RuleNthWeekday
	nthMissing.FixedWeekdays = nil
	assert.ErrorIs(t, masters.ValidateRule(nthMissing, nil), calendar.ErrInvalidPattern)

	nthOutOfBounds := nthMissing
	nthOutOfBounds.NthWeekday = &calendar.NthWeekdayPattern{
		Weekday:     calendar.Saturday,
		Occurrences: []int{6},
	}
	assert.ErrorIs(t, masters.ValidateRule(nthOutOfBounds, nil), calendar.ErrInvalidPattern)

	unknownType := validFixedRule("r-4")
	unknownType.Type = "LUNAR"
	assert.ErrorIs(t, masters.ValidateRule(unknownType, nil), calendar.ErrInvalidPattern)
}

func TestValidateRule_InvertedWindow_Error(t *testing.T) {
	rule := endDated(validFixedRule("r-1"), 2024, time.December, 31)
	assert.ErrorIs(t, masters.ValidateRule(rule, nil), calendar.ErrInvalidRange)
}

// =============================================================================
// OVERLAP VALIDATION TESTS
// =============================================================================

func TestValidateRule_OverlapWithOpenEndedVersion_Conflict(t *testing.T) {
	// GIVEN: An existing open-ended ACTIVE version
	// WHEN: Adding a new version starting inside its window
	// THEN: RuleConflictError at write time

	existing := validFixedRule("v1")
	newRule := validFixedRule("v2")
	newRule.EffectiveFrom = calendar.NewDate(2025, time.July, 1)

	err := masters.ValidateRule(newRule, []calendar.WeeklyOffRule{existing})
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrRuleConflict)

	var conflict *calendar.RuleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ElementsMatch(t, []calendar.RecordID{"v1", "v2"}, conflict.RuleIDs)
}

func TestValidateRule_AdjacentWindows_NoConflict(t *testing.T) {
	// GIVEN: v1 ending 2025-06-30
	// WHEN: Adding v2 from 2025-07-01
	// THEN: Touching-but-disjoint windows are fine

	existing := endDated(validFixedRule("v1"), 2025, time.June, 30)
	newRule := validFixedRule("v2")
	newRule.EffectiveFrom = calendar.NewDate(2025, time.July, 1)

	assert.NoError(t, masters.ValidateRule(newRule, []calendar.WeeklyOffRule{existing}))
}

func TestValidateRule_SharedBoundaryDay_Conflict(t *testing.T) {
	// A window ending on the same day the next begins is an overlap: both
	// versions would claim the boundary date.
	existing := endDated(validFixedRule("v1"), 2025, time.June, 30)
	newRule := validFixedRule("v2")
	newRule.EffectiveFrom = calendar.NewDate(2025, time.June, 30)

	assert.ErrorIs(t, masters.ValidateRule(newRule, []calendar.WeeklyOffRule{existing}),
		calendar.ErrRuleConflict)
}

func TestValidateRule_InactiveExistingIgnored(t *testing.T) {
	existing := validFixedRule("v1")
	existing.Status = calendar.StatusInactive
	newRule := validFixedRule("v2")

	assert.NoError(t, masters.ValidateRule(newRule, []calendar.WeeklyOffRule{existing}))
}

func TestValidateRule_OtherLocationIgnored(t *testing.T) {
	existing := validFixedRule("v1")
	existing.LocationID = "loc-2"
	newRule := validFixedRule("v2")

	assert.NoError(t, masters.ValidateRule(newRule, []calendar.WeeklyOffRule{existing}))
}
