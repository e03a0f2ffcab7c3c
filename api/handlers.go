/*
handlers.go - HTTP API handlers for the calendar resolution service

PURPOSE:
  Exposes the calendar engine and its master-data glue via REST. Handles
  HTTP request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Resolution:
    POST   /api/calendar/resolve          Classify one date or a range
    POST   /api/calendar/working-days     Range counts
    GET    /api/calendar/month/{loc}/{y}/{m}  Full month calendar

  Snapshots:
    POST   /api/calendar/snapshot         Freeze a resolved range
    GET    /api/calendar/snapshot/{id}    Fetch a snapshot

  Import and reports:
    POST   /api/calendar/holidays/bulk-import  CSV/XLSX upload
    GET    /api/calendar/reports/holidays      JSON or XLSX
    GET    /api/calendar/reports/working-days  Monthly breakdown
    POST   /api/calendar/cache/clear           Drop the resolution cache

  Master data:
    GET/POST        /api/locations, GET /api/locations/{id}
    GET/POST/DELETE /api/holidays
    GET/POST/DELETE /api/weekly-off-rules

ERROR HANDLING:
  Engine errors map to HTTP status via their sentinel:
  - 400: ErrInvalidRange, ErrInvalidPattern, malformed input
  - 404: ErrLocationNotFound, ErrSnapshotNotFound
  - 409: ErrRuleConflict, duplicates, snapshot-locked mutations
  - 500: everything else

CACHE DISCIPLINE:
  Every holiday or rule mutation invalidates the affected location's
  resolution cache before responding, so a later lookup can never see a
  stale classification.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/masters"
	"github.com/warp/calendar-engine/reports"
	"github.com/warp/calendar-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Resolver  *calendar.Resolver
	Snapshots *masters.SnapshotManager
	Importer  *masters.Importer
	Reports   *reports.Builder
}

// NewHandler wires the engine and its collaborators around the store.
func NewHandler(store *sqlite.Store) *Handler {
	resolver := calendar.NewResolver(store, store, store).WithCache()
	return &Handler{
		Store:     store,
		Resolver:  resolver,
		Snapshots: masters.NewSnapshotManager(resolver, store),
		Importer:  masters.NewImporter(store),
		Reports:   reports.NewBuilder(resolver, store),
	}
}

// =============================================================================
// RESOLUTION HANDLERS
// =============================================================================

// ResolveCalendar classifies a single date or an inclusive range.
// This is the only way other subsystems should determine working days.
func (h *Handler) ResolveCalendar(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.LocationID == "" {
		writeError(w, http.StatusBadRequest, "location_id is required", nil)
		return
	}
	locationID := calendar.LocationID(req.LocationID)

	switch {
	case req.Date != "":
		date, err := calendar.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		classification, err := h.Resolver.Resolve(r.Context(), locationID, date)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ResolveResponse{
			Resolution: toDayResolutionDTO(calendar.DayResolution{
				Date:           date,
				DayOfWeek:      calendar.WeekDayOf(date),
				Classification: classification,
			}),
		})

	case req.StartDate != "" && req.EndDate != "":
		start, end, err := parseRange(req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range", err)
			return
		}
		days, err := h.Resolver.ResolveRange(r.Context(), locationID, start, end)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ResolveRangeResponse{Resolutions: toDayResolutionDTOs(days)})

	default:
		writeError(w, http.StatusBadRequest, "Provide either 'date' or 'start_date' and 'end_date'", nil)
	}
}

// CountWorkingDays tallies a date range.
func (h *Handler) CountWorkingDays(w http.ResponseWriter, r *http.Request) {
	var req WorkingDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	counts, err := h.Resolver.CountWorkingDays(r.Context(), calendar.LocationID(req.LocationID), start, end)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCountsDTO(counts))
}

// GetMonthCalendar returns the complete month view with a summary.
func (h *Handler) GetMonthCalendar(w http.ResponseWriter, r *http.Request) {
	locationID := calendar.LocationID(chi.URLParam(r, "locationID"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	calendarMonth, err := h.Resolver.BuildMonth(r.Context(), locationID, year, time.Month(month))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthResponse{
		Year:      calendarMonth.Year,
		Month:     int(calendarMonth.Month),
		MonthName: calendarMonth.MonthName,
		Summary:   toCountsDTO(calendarMonth.Summary),
		Calendar:  toDayResolutionDTOs(calendarMonth.Days),
	})
}

// =============================================================================
// SNAPSHOT HANDLERS
// =============================================================================

// CreateSnapshot freezes the resolved classifications of a range.
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	snapshot, err := h.Snapshots.CreateSnapshot(r.Context(),
		calendar.LocationID(req.LocationID), start, end, req.Reason, req.CreatedBy)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(*snapshot))
}

// GetSnapshot returns a snapshot by id.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Snapshots.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(*snapshot))
}

// =============================================================================
// BULK IMPORT
// =============================================================================

// BulkImportHolidays imports a CSV or XLSX holiday calendar upload.
func (h *Handler) BulkImportHolidays(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	locationID := calendar.LocationID(r.FormValue("location_id"))
	if locationID == "" {
		writeError(w, http.StatusBadRequest, "location_id is required", nil)
		return
	}
	if err := h.requireLocation(r.Context(), locationID); err != nil {
		writeEngineError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file", err)
		return
	}
	defer file.Close()

	var result masters.ImportResult
	switch {
	case strings.HasSuffix(header.Filename, ".csv"):
		result, err = h.Importer.ImportCSV(r.Context(), locationID, file)
	case strings.HasSuffix(header.Filename, ".xlsx"), strings.HasSuffix(header.Filename, ".xls"):
		result, err = h.Importer.ImportXLSX(r.Context(), locationID, file)
	default:
		writeError(w, http.StatusBadRequest, "Only CSV and XLSX files are supported", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Import failed", err)
		return
	}

	h.Resolver.InvalidateLocation(locationID)

	dto := ImportResultDTO{
		TotalRows:    result.TotalRows,
		Imported:     result.Imported,
		Errors:       len(result.Errors),
		ErrorDetails: make([]ImportRowErrorDTO, 0, len(result.Errors)),
	}
	for _, rowErr := range result.Errors {
		dto.ErrorDetails = append(dto.ErrorDetails, ImportRowErrorDTO{Row: rowErr.Row, Error: rowErr.Message})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// HolidayReport returns the holiday calendar for a location and year,
// as JSON or as an XLSX download (?format=xlsx).
func (h *Handler) HolidayReport(w http.ResponseWriter, r *http.Request) {
	locationID := calendar.LocationID(r.URL.Query().Get("location_id"))
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	if err := h.requireLocation(r.Context(), locationID); err != nil {
		writeEngineError(w, err)
		return
	}

	report, err := h.Reports.Holidays(r.Context(), locationID, year)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=holidays_%d.xlsx", year))
		if err := report.WriteXLSX(w); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render workbook", err)
		}
		return
	}

	dto := HolidayReportDTO{
		LocationID: string(report.LocationID),
		Year:       report.Year,
		Holidays:   make([]HolidayDTO, 0, len(report.Holidays)),
	}
	for _, holiday := range report.Holidays {
		dto.Holidays = append(dto.Holidays, toHolidayDTO(holiday))
	}
	writeJSON(w, http.StatusOK, dto)
}

// WorkingDaysReport returns the month-by-month range analysis.
func (h *Handler) WorkingDaysReport(w http.ResponseWriter, r *http.Request) {
	locationID := calendar.LocationID(r.URL.Query().Get("location_id"))
	start, end, err := parseRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	report, err := h.Reports.WorkingDays(r.Context(), locationID, start, end)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkingDaysReportDTO(report))
}

// ClearCache drops the whole resolution cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Resolver.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Store.ListLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list locations", err)
		return
	}
	dtos := make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		dtos = append(dtos, LocationDTO{ID: string(loc.ID), Name: loc.Name, Status: string(loc.Status)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	loc := calendar.Location{ID: calendar.LocationID(req.ID), Name: req.Name, Status: calendar.StatusActive}
	if err := h.Store.SaveLocation(r.Context(), loc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create location", err)
		return
	}
	writeJSON(w, http.StatusCreated, LocationDTO{ID: req.ID, Name: req.Name, Status: string(calendar.StatusActive)})
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.Store.GetLocation(r.Context(), calendar.LocationID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get location", err)
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Location not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, LocationDTO{ID: string(loc.ID), Name: loc.Name, Status: string(loc.Status)})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	locationID := calendar.LocationID(r.URL.Query().Get("location_id"))
	if locationID == "" {
		writeError(w, http.StatusBadRequest, "location_id is required", nil)
		return
	}

	var holidays []calendar.Holiday
	var err error
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, convErr := strconv.Atoi(yearStr)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", convErr)
			return
		}
		holidays, err = h.Store.ListHolidays(r.Context(), locationID, year)
	} else {
		holidays, err = h.Store.HolidaysFor(r.Context(), locationID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, toHolidayDTO(holiday))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday declares a new holiday. Dates locked by a snapshot are
// immutable: the classification downstream transactions consumed must
// stay reproducible, so the request is rejected with 409.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	locationID := calendar.LocationID(req.LocationID)
	if err := h.requireLocation(r.Context(), locationID); err != nil {
		writeEngineError(w, err)
		return
	}

	holiday := calendar.Holiday{
		ID:          calendar.RecordID(uuid.NewString()),
		LocationID:  locationID,
		Date:        date,
		Name:        req.Name,
		Mandatory:   true,
		Description: req.Description,
		Status:      calendar.StatusActive,
	}
	if req.IsMandatory != nil {
		holiday.Mandatory = *req.IsMandatory
	}
	if err := masters.ValidateHoliday(holiday); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday", err)
		return
	}

	locked, err := h.Snapshots.IsDateLocked(r.Context(), locationID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check snapshot lock", err)
		return
	}
	if locked {
		writeError(w, http.StatusConflict, "Date is locked by a calendar snapshot; declare a future-dated record instead", nil)
		return
	}

	exists, err := h.Store.HolidayExists(r.Context(), locationID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing holidays", err)
		return
	}
	if exists {
		writeError(w, http.StatusConflict, fmt.Sprintf("Holiday on %s already exists", date), nil)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	h.Resolver.InvalidateLocation(locationID)
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday deactivates a holiday (records are never deleted).
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := calendar.RecordID(chi.URLParam(r, "id"))

	holiday, err := h.Store.GetHoliday(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holiday", err)
		return
	}
	if holiday == nil {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}

	locked, err := h.Snapshots.IsDateLocked(r.Context(), holiday.LocationID, holiday.Date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check snapshot lock", err)
		return
	}
	if locked {
		writeError(w, http.StatusConflict, "Holiday is locked by a calendar snapshot", nil)
		return
	}

	if err := h.Store.DeactivateHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to deactivate holiday", err)
		return
	}
	h.Resolver.InvalidateLocation(holiday.LocationID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// =============================================================================
// WEEKLY-OFF RULE HANDLERS
// =============================================================================

func (h *Handler) ListWeeklyOffRules(w http.ResponseWriter, r *http.Request) {
	locationID := calendar.LocationID(r.URL.Query().Get("location_id"))
	if locationID == "" {
		writeError(w, http.StatusBadRequest, "location_id is required", nil)
		return
	}

	rules, err := h.Store.ListWeeklyOffRules(r.Context(), locationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list weekly-off rules", err)
		return
	}
	dtos := make([]WeeklyOffRuleDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, toWeeklyOffRuleDTO(rule))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWeeklyOffRule adds a rule version after pattern and non-overlap
// validation against the location's existing ACTIVE versions.
func (h *Handler) CreateWeeklyOffRule(w http.ResponseWriter, r *http.Request) {
	var req CreateWeeklyOffRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	locationID := calendar.LocationID(req.LocationID)
	if err := h.requireLocation(r.Context(), locationID); err != nil {
		writeEngineError(w, err)
		return
	}

	rule, err := ruleFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule", err)
		return
	}

	existing, err := h.Store.WeeklyOffRulesFor(r.Context(), locationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load existing rules", err)
		return
	}
	if err := masters.ValidateRule(rule, existing); err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.Store.SaveWeeklyOffRule(r.Context(), rule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create rule", err)
		return
	}
	h.Resolver.InvalidateLocation(locationID)
	writeJSON(w, http.StatusCreated, toWeeklyOffRuleDTO(rule))
}

// EndDateWeeklyOffRule closes a rule version's effective window, the
// supported way to supersede a version before adding its replacement.
func (h *Handler) EndDateWeeklyOffRule(w http.ResponseWriter, r *http.Request) {
	id := calendar.RecordID(chi.URLParam(r, "id"))

	var req EndDateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	effectiveTo, err := calendar.ParseDate(req.EffectiveTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_to date", err)
		return
	}

	rule, err := h.Store.GetWeeklyOffRule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule", err)
		return
	}
	if rule == nil {
		writeError(w, http.StatusNotFound, "Rule not found", nil)
		return
	}

	// The moved boundary must pass the same non-overlap validation as a
	// new version: extending a window can collide with a successor.
	updated := *rule
	updated.EffectiveTo = &effectiveTo
	existing, err := h.Store.WeeklyOffRulesFor(r.Context(), rule.LocationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load existing rules", err)
		return
	}
	if err := masters.ValidateRule(updated, existing); err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.Store.EndDateWeeklyOffRule(r.Context(), id, effectiveTo); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to end-date rule", err)
		return
	}
	h.Resolver.InvalidateLocation(rule.LocationID)
	writeJSON(w, http.StatusOK, toWeeklyOffRuleDTO(updated))
}

// DeleteWeeklyOffRule deactivates a rule version.
func (h *Handler) DeleteWeeklyOffRule(w http.ResponseWriter, r *http.Request) {
	id := calendar.RecordID(chi.URLParam(r, "id"))

	rule, err := h.Store.GetWeeklyOffRule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule", err)
		return
	}
	if rule == nil {
		writeError(w, http.StatusNotFound, "Rule not found", nil)
		return
	}

	if err := h.Store.DeactivateWeeklyOffRule(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to deactivate rule", err)
		return
	}
	h.Resolver.InvalidateLocation(rule.LocationID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func ruleFromRequest(req CreateWeeklyOffRuleRequest) (calendar.WeeklyOffRule, error) {
	effectiveFrom, err := calendar.ParseDate(req.EffectiveFrom)
	if err != nil {
		return calendar.WeeklyOffRule{}, err
	}

	rule := calendar.WeeklyOffRule{
		ID:            calendar.RecordID(uuid.NewString()),
		LocationID:    calendar.LocationID(req.LocationID),
		Name:          req.Name,
		Type:          calendar.RuleType(req.RuleType),
		EffectiveFrom: effectiveFrom,
		Status:        calendar.StatusActive,
	}
	for _, wd := range req.FixedWeekdays {
		rule.FixedWeekdays = append(rule.FixedWeekdays, calendar.WeekDay(wd))
	}
	if req.NthWeekday != nil {
		rule.NthWeekday = &calendar.NthWeekdayPattern{
			Weekday:     calendar.WeekDay(req.NthWeekday.Weekday),
			Occurrences: req.NthWeekday.Occurrences,
		}
	}
	if req.EffectiveTo != nil {
		effectiveTo, err := calendar.ParseDate(*req.EffectiveTo)
		if err != nil {
			return calendar.WeeklyOffRule{}, err
		}
		rule.EffectiveTo = &effectiveTo
	}
	return rule, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) requireLocation(ctx context.Context, locationID calendar.LocationID) error {
	exists, err := h.Store.LocationExists(ctx, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", calendar.ErrLocationNotFound, locationID)
	}
	return nil
}

func parseRange(startStr, endStr string) (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(startStr)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(endStr)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine errors onto HTTP statuses via their
// sentinel.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case calendar.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, calendar.ErrRuleConflict):
		writeError(w, http.StatusConflict, "Conflicting weekly-off rule versions", err)
	case calendar.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
