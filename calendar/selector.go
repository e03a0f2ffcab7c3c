/*
selector.go - Effective-dated rule version selection

PURPOSE:
  A location's weekly-off policy is a series of time-boxed rule versions.
  For any date, at most one ACTIVE version's effective window may contain
  it. This file picks that version - or fails loudly when the invariant is
  violated.

WHY FAIL ON OVERLAP:
  Silently picking the "latest" version would mask upstream master-data
  bugs. Overlap is a data-integrity error, so the selector re-checks the
  non-overlap invariant on every read even though the write path validates
  it too.

SEE ALSO:
  - masters/validate.go: write-time overlap validation
  - resolver.go: feeds the selected rule into the matcher
*/
package calendar

// SelectRule picks the single applicable weekly-off rule version for a
// location and date from the candidate set.
//
// Returns (nil, nil) when no ACTIVE version covers the date - the location
// simply has no weekly-off policy there. Returns a RuleConflictError when
// more than one version claims the date.
func SelectRule(locationID LocationID, date Date, candidates []WeeklyOffRule) (*WeeklyOffRule, error) {
	var matched []WeeklyOffRule
	for _, rule := range candidates {
		if rule.Status != StatusActive {
			continue
		}
		if rule.LocationID != locationID {
			continue
		}
		if !rule.InEffect(date) {
			continue
		}
		matched = append(matched, rule)
	}

	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		rule := matched[0]
		return &rule, nil
	default:
		ids := make([]RecordID, len(matched))
		for i, r := range matched {
			ids[i] = r.ID
		}
		return nil, &RuleConflictError{LocationID: locationID, Date: date, RuleIDs: ids}
	}
}
