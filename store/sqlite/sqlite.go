/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the master data the calendar engine reads (locations, holidays,
  weekly-off rule versions) and the calendar snapshots the master-data
  layer creates. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  calendar.LocationSource: location existence checks
  calendar.HolidaySource:  ACTIVE holidays per location
  calendar.RuleSource:     ACTIVE weekly-off rule versions per location
  masters.HolidayWriter:   bulk-import persistence
  masters.SnapshotStore:   snapshot persistence (append-only)
  reports.HolidayLister:   holiday report queries

STATUS SEMANTICS:
  Records are never deleted; deactivation flips status to INACTIVE. The
  engine-facing source queries filter to ACTIVE, so a deactivated record
  disappears from resolution without losing history.

KEY TABLES:
  locations:          office/site records scoping policies
  holidays:           explicit non-working dates (year column derived)
  weekly_off_rules:   versioned rules, pattern payload as JSON
  calendar_snapshots: frozen resolved ranges, resolutions as JSON

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and a single writer at a time.

USAGE:
  store, err := sqlite.New("./data/calendar.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  resolver := calendar.NewResolver(store, store, store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - calendar/resolver.go: source interface definitions
  - calendar/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/masters"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Locations scoping holiday and weekly-off policies
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL
	);

	-- Holidays (explicit non-working dates)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		date TEXT NOT NULL,
		year INTEGER NOT NULL,
		name TEXT NOT NULL,
		is_mandatory INTEGER NOT NULL DEFAULT 1,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_holidays_location_date
		ON holidays(location_id, date);
	CREATE INDEX IF NOT EXISTS idx_holidays_location_year
		ON holidays(location_id, year);

	-- Weekly-off rule versions (pattern payload as JSON)
	CREATE TABLE IF NOT EXISTS weekly_off_rules (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		name TEXT NOT NULL,
		rule_type TEXT NOT NULL,
		pattern_json TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rules_location
		ON weekly_off_rules(location_id, status);

	-- Calendar snapshots (append-only; frozen resolved ranges)
	CREATE TABLE IF NOT EXISTS calendar_snapshots (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		resolutions_json TEXT NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_location_range
		ON calendar_snapshots(location_id, start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOCATIONS
// =============================================================================

// SaveLocation inserts or replaces a location record.
func (s *Store) SaveLocation(ctx context.Context, loc calendar.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc.Status == "" {
		loc.Status = calendar.StatusActive
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO locations (id, name, status, created_at)
		VALUES (?, ?, ?, ?)`,
		string(loc.ID), loc.Name, string(loc.Status), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetLocation returns a location by id, or nil if not found.
func (s *Store) GetLocation(ctx context.Context, id calendar.LocationID) (*calendar.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, status FROM locations WHERE id = ?`, string(id))

	var loc calendar.Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

// ListLocations returns all ACTIVE locations, name-ordered.
func (s *Store) ListLocations(ctx context.Context) ([]calendar.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status FROM locations WHERE status = 'ACTIVE' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []calendar.Location
	for rows.Next() {
		var loc calendar.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Status); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// LocationExists implements calendar.LocationSource.
func (s *Store) LocationExists(ctx context.Context, id calendar.LocationID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE id = ? AND status = 'ACTIVE'`,
		string(id)).Scan(&count)
	return count > 0, err
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts a holiday record. The year column is derived from
// the date for partitioned report queries.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.Status == "" {
		h.Status = calendar.StatusActive
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, location_id, date, year, name, is_mandatory, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(h.ID), string(h.LocationID), h.Date.String(), h.Date.Year(),
		h.Name, boolToInt(h.Mandatory), h.Description, string(h.Status),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// HolidayExists reports whether an ACTIVE holiday covers the date.
func (s *Store) HolidayExists(ctx context.Context, locationID calendar.LocationID, date calendar.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM holidays
		WHERE location_id = ? AND date = ? AND status = 'ACTIVE'`,
		string(locationID), date.String()).Scan(&count)
	return count > 0, err
}

// DeactivateHoliday flips a holiday to INACTIVE. Records are never deleted.
func (s *Store) DeactivateHoliday(ctx context.Context, id calendar.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE holidays SET status = 'INACTIVE' WHERE id = ?`, string(id))
	return err
}

// GetHoliday returns a holiday by id, or nil if not found.
func (s *Store) GetHoliday(ctx context.Context, id calendar.RecordID) (*calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, date, name, is_mandatory, description, status
		FROM holidays WHERE id = ?`, string(id))
	h, err := scanHoliday(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// HolidaysFor implements calendar.HolidaySource (ACTIVE records only).
func (s *Store) HolidaysFor(ctx context.Context, locationID calendar.LocationID) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, date, name, is_mandatory, description, status
		FROM holidays
		WHERE location_id = ? AND status = 'ACTIVE'
		ORDER BY date`, string(locationID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// ListHolidays implements reports.HolidayLister: ACTIVE holidays for a
// location and year, date-ordered.
func (s *Store) ListHolidays(ctx context.Context, locationID calendar.LocationID, year int) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, date, name, is_mandatory, description, status
		FROM holidays
		WHERE location_id = ? AND year = ? AND status = 'ACTIVE'
		ORDER BY date`, string(locationID), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHoliday(row rowScanner) (*calendar.Holiday, error) {
	var h calendar.Holiday
	var dateStr string
	var mandatory int
	var description sql.NullString
	if err := row.Scan(&h.ID, &h.LocationID, &dateStr, &h.Name, &mandatory, &description, &h.Status); err != nil {
		return nil, err
	}
	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt holiday date %q: %w", dateStr, err)
	}
	h.Date = date
	h.Mandatory = mandatory != 0
	h.Description = description.String
	return &h, nil
}

func scanHolidays(rows *sql.Rows) ([]calendar.Holiday, error) {
	var holidays []calendar.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, *h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// WEEKLY-OFF RULES
// =============================================================================

// patternJSON is the stored pattern payload.
type patternJSON struct {
	FixedWeekdays []calendar.WeekDay `json:"fixed_weekdays,omitempty"`
	NthWeekday    *nthWeekdayJSON    `json:"nth_weekday,omitempty"`
}

type nthWeekdayJSON struct {
	Weekday     calendar.WeekDay `json:"weekday"`
	Occurrences []int            `json:"occurrences"`
}

// SaveWeeklyOffRule inserts a rule version.
func (s *Store) SaveWeeklyOffRule(ctx context.Context, r calendar.WeeklyOffRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Status == "" {
		r.Status = calendar.StatusActive
	}

	pattern := patternJSON{FixedWeekdays: r.FixedWeekdays}
	if r.NthWeekday != nil {
		pattern.NthWeekday = &nthWeekdayJSON{
			Weekday:     r.NthWeekday.Weekday,
			Occurrences: r.NthWeekday.Occurrences,
		}
	}
	patternBytes, err := json.Marshal(pattern)
	if err != nil {
		return fmt.Errorf("marshaling pattern: %w", err)
	}

	var effectiveTo any
	if r.EffectiveTo != nil {
		effectiveTo = r.EffectiveTo.String()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weekly_off_rules (id, location_id, name, rule_type, pattern_json, effective_from, effective_to, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.LocationID), r.Name, string(r.Type), string(patternBytes),
		r.EffectiveFrom.String(), effectiveTo, string(r.Status),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeactivateWeeklyOffRule flips a rule version to INACTIVE.
func (s *Store) DeactivateWeeklyOffRule(ctx context.Context, id calendar.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE weekly_off_rules SET status = 'INACTIVE' WHERE id = ?`, string(id))
	return err
}

// EndDateWeeklyOffRule closes an open-ended rule version's effective
// window, the supported way to supersede a version without deactivating
// its history.
func (s *Store) EndDateWeeklyOffRule(ctx context.Context, id calendar.RecordID, effectiveTo calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE weekly_off_rules SET effective_to = ? WHERE id = ?`,
		effectiveTo.String(), string(id))
	return err
}

// GetWeeklyOffRule returns a rule version by id, or nil if not found.
func (s *Store) GetWeeklyOffRule(ctx context.Context, id calendar.RecordID) (*calendar.WeeklyOffRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, name, rule_type, pattern_json, effective_from, effective_to, status
		FROM weekly_off_rules
		WHERE id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules, err := scanRules(rows)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return &rules[0], nil
}

// WeeklyOffRulesFor implements calendar.RuleSource: all ACTIVE versions
// for the location. Effective-window filtering happens in the selector.
func (s *Store) WeeklyOffRulesFor(ctx context.Context, locationID calendar.LocationID) ([]calendar.WeeklyOffRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, name, rule_type, pattern_json, effective_from, effective_to, status
		FROM weekly_off_rules
		WHERE location_id = ? AND status = 'ACTIVE'
		ORDER BY effective_from`, string(locationID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

// ListWeeklyOffRules returns every version for a location regardless of
// status (master-data UI view).
func (s *Store) ListWeeklyOffRules(ctx context.Context, locationID calendar.LocationID) ([]calendar.WeeklyOffRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, name, rule_type, pattern_json, effective_from, effective_to, status
		FROM weekly_off_rules
		WHERE location_id = ?
		ORDER BY effective_from`, string(locationID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func scanRules(rows *sql.Rows) ([]calendar.WeeklyOffRule, error) {
	var rules []calendar.WeeklyOffRule
	for rows.Next() {
		var r calendar.WeeklyOffRule
		var patternStr, fromStr string
		var toStr sql.NullString
		if err := rows.Scan(&r.ID, &r.LocationID, &r.Name, &r.Type, &patternStr, &fromStr, &toStr, &r.Status); err != nil {
			return nil, err
		}

		var pattern patternJSON
		if err := json.Unmarshal([]byte(patternStr), &pattern); err != nil {
			return nil, fmt.Errorf("corrupt pattern on rule %s: %w", r.ID, err)
		}
		r.FixedWeekdays = pattern.FixedWeekdays
		if pattern.NthWeekday != nil {
			r.NthWeekday = &calendar.NthWeekdayPattern{
				Weekday:     pattern.NthWeekday.Weekday,
				Occurrences: pattern.NthWeekday.Occurrences,
			}
		}

		from, err := calendar.ParseDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt effective_from on rule %s: %w", r.ID, err)
		}
		r.EffectiveFrom = from
		if toStr.Valid {
			to, err := calendar.ParseDate(toStr.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt effective_to on rule %s: %w", r.ID, err)
			}
			r.EffectiveTo = &to
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// resolutionJSON is the stored form of one resolved day.
type resolutionJSON struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"day_of_week"`
	Kind          string `json:"classification"`
	Name          string `json:"name,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
	Mandatory     bool   `json:"is_mandatory,omitempty"`
}

// SaveSnapshot implements masters.SnapshotStore. Append-only.
func (s *Store) SaveSnapshot(ctx context.Context, snap masters.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]resolutionJSON, len(snap.Resolutions))
	for i, day := range snap.Resolutions {
		stored[i] = resolutionJSON{
			Date:          day.Date.String(),
			DayOfWeek:     string(day.DayOfWeek),
			Kind:          string(day.Classification.Kind),
			Name:          day.Classification.Name,
			ReferenceID:   string(day.Classification.ReferenceID),
			ReferenceType: day.Classification.ReferenceType,
			Mandatory:     day.Classification.Mandatory,
		}
	}
	resolutionsBytes, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshaling resolutions: %w", err)
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calendar_snapshots (id, location_id, start_date, end_date, reason, resolutions_json, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.LocationID), snap.Start.String(), snap.End.String(),
		snap.Reason, string(resolutionsBytes), snap.CreatedBy,
		createdAt.Format(time.RFC3339))
	return err
}

// GetSnapshot returns a snapshot by id, or nil if not found.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*masters.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, start_date, end_date, reason, resolutions_json, created_by, created_at
		FROM calendar_snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotCovering returns any snapshot whose range contains the date for
// the location, or nil.
func (s *Store) SnapshotCovering(ctx context.Context, locationID calendar.LocationID, date calendar.Date) (*masters.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, start_date, end_date, reason, resolutions_json, created_by, created_at
		FROM calendar_snapshots
		WHERE location_id = ? AND start_date <= ? AND end_date >= ?
		LIMIT 1`, string(locationID), date.String(), date.String())
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func scanSnapshot(row rowScanner) (*masters.Snapshot, error) {
	var snap masters.Snapshot
	var startStr, endStr, resolutionsStr, createdAtStr string
	var reason, createdBy sql.NullString
	if err := row.Scan(&snap.ID, &snap.LocationID, &startStr, &endStr, &reason, &resolutionsStr, &createdBy, &createdAtStr); err != nil {
		return nil, err
	}
	snap.Reason = reason.String
	snap.CreatedBy = createdBy.String
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot created_at %q: %w", createdAtStr, err)
	}
	snap.CreatedAt = createdAt

	start, err := calendar.ParseDate(startStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot start date %q: %w", startStr, err)
	}
	end, err := calendar.ParseDate(endStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot end date %q: %w", endStr, err)
	}
	snap.Start, snap.End = start, end

	var stored []resolutionJSON
	if err := json.Unmarshal([]byte(resolutionsStr), &stored); err != nil {
		return nil, fmt.Errorf("corrupt resolutions on snapshot %s: %w", snap.ID, err)
	}
	snap.Resolutions = make([]calendar.DayResolution, len(stored))
	for i, day := range stored {
		date, err := calendar.ParseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("corrupt resolution date on snapshot %s: %w", snap.ID, err)
		}
		snap.Resolutions[i] = calendar.DayResolution{
			Date:      date,
			DayOfWeek: calendar.WeekDay(day.DayOfWeek),
			Classification: calendar.Classification{
				Kind:          calendar.ClassificationKind(day.Kind),
				Name:          day.Name,
				ReferenceID:   calendar.RecordID(day.ReferenceID),
				ReferenceType: day.ReferenceType,
				Mandatory:     day.Mandatory,
			},
		}
	}
	return &snap, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
