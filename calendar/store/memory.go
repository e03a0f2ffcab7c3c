// Package store provides source implementations for the calendar engine.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements the engine's LocationSource, HolidaySource, and
// RuleSource over in-process maps. The engine contract is ACTIVE-only
// reads, so the source methods filter by status the same way the SQLite
// store's queries do.
type Memory struct {
	mu        sync.RWMutex
	locations map[calendar.LocationID]calendar.Location
	holidays  map[calendar.LocationID][]calendar.Holiday
	rules     map[calendar.LocationID][]calendar.WeeklyOffRule
}

func NewMemory() *Memory {
	return &Memory{
		locations: make(map[calendar.LocationID]calendar.Location),
		holidays:  make(map[calendar.LocationID][]calendar.Holiday),
		rules:     make(map[calendar.LocationID][]calendar.WeeklyOffRule),
	}
}

// AddLocation registers a location.
func (m *Memory) AddLocation(loc calendar.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loc.Status == "" {
		loc.Status = calendar.StatusActive
	}
	m.locations[loc.ID] = loc
}

// AddHoliday registers a holiday record, keeping the per-location slice
// date-ordered.
func (m *Memory) AddHoliday(h calendar.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.Status == "" {
		h.Status = calendar.StatusActive
	}
	holidays := m.holidays[h.LocationID]
	i := sort.Search(len(holidays), func(i int) bool {
		return holidays[i].Date.After(h.Date)
	})
	holidays = append(holidays, calendar.Holiday{})
	copy(holidays[i+1:], holidays[i:])
	holidays[i] = h
	m.holidays[h.LocationID] = holidays
}

// AddRule registers a weekly-off rule version.
func (m *Memory) AddRule(r calendar.WeeklyOffRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Status == "" {
		r.Status = calendar.StatusActive
	}
	m.rules[r.LocationID] = append(m.rules[r.LocationID], r)
}

// DeactivateHoliday flips a holiday record to INACTIVE.
func (m *Memory) DeactivateHoliday(id calendar.RecordID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for loc, holidays := range m.holidays {
		for i := range holidays {
			if holidays[i].ID == id {
				holidays[i].Status = calendar.StatusInactive
				m.holidays[loc] = holidays
				return
			}
		}
	}
}

// DeactivateRule flips a rule version to INACTIVE.
func (m *Memory) DeactivateRule(id calendar.RecordID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for loc, rules := range m.rules {
		for i := range rules {
			if rules[i].ID == id {
				rules[i].Status = calendar.StatusInactive
				m.rules[loc] = rules
				return
			}
		}
	}
}

// =============================================================================
// SOURCE INTERFACES
// =============================================================================

func (m *Memory) LocationExists(_ context.Context, locationID calendar.LocationID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[locationID]
	return ok && loc.Status == calendar.StatusActive, nil
}

func (m *Memory) HolidaysFor(_ context.Context, locationID calendar.LocationID) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []calendar.Holiday
	for _, h := range m.holidays[locationID] {
		if h.Status == calendar.StatusActive {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *Memory) WeeklyOffRulesFor(_ context.Context, locationID calendar.LocationID) ([]calendar.WeeklyOffRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []calendar.WeeklyOffRule
	for _, r := range m.rules[locationID] {
		if r.Status == calendar.StatusActive {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListHolidays returns the location's ACTIVE holidays for one year,
// date-ordered.
func (m *Memory) ListHolidays(_ context.Context, locationID calendar.LocationID, year int) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []calendar.Holiday
	for _, h := range m.holidays[locationID] {
		if h.Status == calendar.StatusActive && h.Year() == year {
			result = append(result, h)
		}
	}
	return result, nil
}

// HolidayExists reports whether an ACTIVE holiday already covers the date.
func (m *Memory) HolidayExists(_ context.Context, locationID calendar.LocationID, date calendar.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.holidays[locationID] {
		if h.Status == calendar.StatusActive && h.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

// SaveHoliday satisfies the master-data writer interface used by the bulk
// importer.
func (m *Memory) SaveHoliday(_ context.Context, h calendar.Holiday) error {
	m.AddHoliday(h)
	return nil
}
