/*
matcher.go - Weekday pattern evaluation

PURPOSE:
  Pure evaluation of a single rule's weekday pattern against a date.
  No effective-window logic here (that is selector.go) and no precedence
  logic (that is resolver.go).

PATTERNS:
  FIXED:       date's weekday is a member of the rule's weekday set
  NTH_WEEKDAY: date's weekday equals the pattern weekday AND the date's
               1-based ordinal occurrence within its month is a member of
               the pattern's occurrence set

ORDINAL OCCURRENCE:
  ((day_of_month - 1) / 7) + 1. The 1st-7th of a month are the first
  occurrence of their weekday, the 8th-14th the second, and so on. A month
  has at most 5 occurrences of any weekday.

SEE ALSO:
  - selector.go: picks the applicable rule version first
  - masters/validate.go: write-time validation of pattern payloads
*/
package calendar

import "fmt"

const maxOccurrence = 5

// Matches reports whether the date satisfies the rule's weekday pattern.
// Pure and total for any valid calendar date; a malformed pattern payload
// yields an InvalidPatternError rather than a silent false.
func Matches(rule WeeklyOffRule, date Date) (bool, error) {
	switch rule.Type {
	case RuleFixed:
		if len(rule.FixedWeekdays) == 0 {
			return false, &InvalidPatternError{RuleID: rule.ID, Reason: "FIXED rule has no weekdays"}
		}
		day := WeekDayOf(date)
		for _, wd := range rule.FixedWeekdays {
			if wd == day {
				return true, nil
			}
		}
		return false, nil

	case RuleNthWeekday:
		p := rule.NthWeekday
		if p == nil || !p.Weekday.Valid() || len(p.Occurrences) == 0 {
			return false, &InvalidPatternError{RuleID: rule.ID, Reason: "NTH_WEEKDAY rule is missing weekday or occurrences"}
		}
		for _, n := range p.Occurrences {
			if n < 1 || n > maxOccurrence {
				return false, &InvalidPatternError{
					RuleID: rule.ID,
					Reason: fmt.Sprintf("occurrence %d outside [1,%d]", n, maxOccurrence),
				}
			}
		}
		if WeekDayOf(date) != p.Weekday {
			return false, nil
		}
		occurrence := OccurrenceInMonth(date)
		for _, n := range p.Occurrences {
			if n == occurrence {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, &InvalidPatternError{RuleID: rule.ID, Reason: fmt.Sprintf("unknown rule type %q", rule.Type)}
	}
}

// OccurrenceInMonth returns the 1-based ordinal occurrence of the date's
// weekday within its calendar month (e.g. the 12th is always the 2nd
// occurrence of its weekday).
func OccurrenceInMonth(date Date) int {
	return ((date.Day() - 1) / 7) + 1
}
