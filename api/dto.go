/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

WIRE FORMAT:
  Dates are ISO-8601 (YYYY-MM-DD). A resolved day carries its
  classification tag plus, for HOLIDAY and WEEKLY_OFF, the originating
  record's name and reference. Range responses report total_days,
  working_days, holidays, weekly_offs as integers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/masters"
	"github.com/warp/calendar-engine/reports"
)

// =============================================================================
// RESOLUTION TYPES
// =============================================================================

// ResolveRequest asks for a single date or an inclusive date range.
type ResolveRequest struct {
	LocationID string `json:"location_id"`
	Date       string `json:"date,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
}

// DayResolutionDTO is one classified day.
type DayResolutionDTO struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	Classification string `json:"classification"`
	Name           string `json:"name,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
	ReferenceType  string `json:"reference_type,omitempty"`
	IsMandatory    bool   `json:"is_mandatory,omitempty"`
}

// ResolveResponse wraps a single-date resolution.
type ResolveResponse struct {
	Resolution DayResolutionDTO `json:"resolution"`
}

// ResolveRangeResponse wraps a range resolution.
type ResolveRangeResponse struct {
	Resolutions []DayResolutionDTO `json:"resolutions"`
}

// WorkingDaysRequest asks for range counts.
type WorkingDaysRequest struct {
	LocationID string `json:"location_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// CountsDTO reports range tallies.
type CountsDTO struct {
	TotalDays   int `json:"total_days"`
	WorkingDays int `json:"working_days"`
	Holidays    int `json:"holidays"`
	WeeklyOffs  int `json:"weekly_offs"`
}

// MonthResponse is the full month calendar view.
type MonthResponse struct {
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	MonthName string             `json:"month_name"`
	Summary   CountsDTO          `json:"summary"`
	Calendar  []DayResolutionDTO `json:"calendar"`
}

// =============================================================================
// SNAPSHOT TYPES
// =============================================================================

type SnapshotRequest struct {
	LocationID string `json:"location_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	CreatedBy  string `json:"created_by,omitempty"`
}

type SnapshotDTO struct {
	SnapshotID  string             `json:"snapshot_id"`
	LocationID  string             `json:"location_id"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Reason      string             `json:"reason,omitempty"`
	Resolutions []DayResolutionDTO `json:"resolutions"`
	CreatedBy   string             `json:"created_by,omitempty"`
	CreatedAt   string             `json:"created_at,omitempty"`
}

// =============================================================================
// MASTER-DATA TYPES
// =============================================================================

type LocationDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type CreateLocationRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type HolidayDTO struct {
	ID          string `json:"id"`
	LocationID  string `json:"location_id"`
	Date        string `json:"date"`
	Year        int    `json:"year"`
	Name        string `json:"name"`
	IsMandatory bool   `json:"is_mandatory"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

type CreateHolidayRequest struct {
	LocationID  string `json:"location_id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	IsMandatory *bool  `json:"is_mandatory,omitempty"` // default true
	Description string `json:"description,omitempty"`
}

type NthWeekdayDTO struct {
	Weekday     string `json:"weekday"`
	Occurrences []int  `json:"occurrences"`
}

type WeeklyOffRuleDTO struct {
	ID            string         `json:"id"`
	LocationID    string         `json:"location_id"`
	Name          string         `json:"name"`
	RuleType      string         `json:"rule_type"`
	FixedWeekdays []string       `json:"fixed_weekdays,omitempty"`
	NthWeekday    *NthWeekdayDTO `json:"nth_weekday,omitempty"`
	EffectiveFrom string         `json:"effective_from"`
	EffectiveTo   *string        `json:"effective_to,omitempty"`
	Status        string         `json:"status"`
}

// EndDateRuleRequest closes an open-ended rule version's window.
type EndDateRuleRequest struct {
	EffectiveTo string `json:"effective_to"`
}

type CreateWeeklyOffRuleRequest struct {
	LocationID    string         `json:"location_id"`
	Name          string         `json:"name"`
	RuleType      string         `json:"rule_type"`
	FixedWeekdays []string       `json:"fixed_weekdays,omitempty"`
	NthWeekday    *NthWeekdayDTO `json:"nth_weekday,omitempty"`
	EffectiveFrom string         `json:"effective_from"`
	EffectiveTo   *string        `json:"effective_to,omitempty"`
}

// =============================================================================
// IMPORT AND REPORT TYPES
// =============================================================================

type ImportRowErrorDTO struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResultDTO struct {
	TotalRows    int                 `json:"total_rows"`
	Imported     int                 `json:"imported"`
	Errors       int                 `json:"errors"`
	ErrorDetails []ImportRowErrorDTO `json:"error_details"`
}

type MonthBreakdownDTO struct {
	Year         int    `json:"year"`
	Month        string `json:"month"`
	TotalDays    int    `json:"total_days"`
	WorkingDays  int    `json:"working_days"`
	Holidays     int    `json:"holidays"`
	WeeklyOffs   int    `json:"weekly_offs"`
	WorkingRatio string `json:"working_ratio"`
}

type WorkingDaysReportDTO struct {
	LocationID       string              `json:"location_id"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	MonthlyBreakdown []MonthBreakdownDTO `json:"monthly_breakdown"`
	TotalSummary     CountsDTO           `json:"total_summary"`
}

type HolidayReportDTO struct {
	LocationID string       `json:"location_id"`
	Year       int          `json:"year"`
	Holidays   []HolidayDTO `json:"holidays"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDayResolutionDTO(day calendar.DayResolution) DayResolutionDTO {
	return DayResolutionDTO{
		Date:           day.Date.String(),
		DayOfWeek:      string(day.DayOfWeek),
		Classification: string(day.Classification.Kind),
		Name:           day.Classification.Name,
		ReferenceID:    string(day.Classification.ReferenceID),
		ReferenceType:  day.Classification.ReferenceType,
		IsMandatory:    day.Classification.Mandatory,
	}
}

func toDayResolutionDTOs(days []calendar.DayResolution) []DayResolutionDTO {
	dtos := make([]DayResolutionDTO, len(days))
	for i, day := range days {
		dtos[i] = toDayResolutionDTO(day)
	}
	return dtos
}

func toCountsDTO(counts calendar.RangeCounts) CountsDTO {
	return CountsDTO{
		TotalDays:   counts.Total,
		WorkingDays: counts.WorkingDays,
		Holidays:    counts.Holidays,
		WeeklyOffs:  counts.WeeklyOffs,
	}
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:          string(h.ID),
		LocationID:  string(h.LocationID),
		Date:        h.Date.String(),
		Year:        h.Year(),
		Name:        h.Name,
		IsMandatory: h.Mandatory,
		Description: h.Description,
		Status:      string(h.Status),
	}
}

func toWeeklyOffRuleDTO(r calendar.WeeklyOffRule) WeeklyOffRuleDTO {
	dto := WeeklyOffRuleDTO{
		ID:            string(r.ID),
		LocationID:    string(r.LocationID),
		Name:          r.Name,
		RuleType:      string(r.Type),
		EffectiveFrom: r.EffectiveFrom.String(),
		Status:        string(r.Status),
	}
	for _, wd := range r.FixedWeekdays {
		dto.FixedWeekdays = append(dto.FixedWeekdays, string(wd))
	}
	if r.NthWeekday != nil {
		dto.NthWeekday = &NthWeekdayDTO{
			Weekday:     string(r.NthWeekday.Weekday),
			Occurrences: r.NthWeekday.Occurrences,
		}
	}
	if r.EffectiveTo != nil {
		s := r.EffectiveTo.String()
		dto.EffectiveTo = &s
	}
	return dto
}

func toSnapshotDTO(s masters.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		SnapshotID:  s.ID,
		LocationID:  string(s.LocationID),
		StartDate:   s.Start.String(),
		EndDate:     s.End.String(),
		Reason:      s.Reason,
		Resolutions: toDayResolutionDTOs(s.Resolutions),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func toWorkingDaysReportDTO(r *reports.WorkingDaysReport) WorkingDaysReportDTO {
	dto := WorkingDaysReportDTO{
		LocationID:   string(r.LocationID),
		StartDate:    r.Start.String(),
		EndDate:      r.End.String(),
		TotalSummary: toCountsDTO(r.Totals),
	}
	for _, m := range r.Months {
		dto.MonthlyBreakdown = append(dto.MonthlyBreakdown, MonthBreakdownDTO{
			Year:         m.Year,
			Month:        m.MonthName,
			TotalDays:    m.TotalDays,
			WorkingDays:  m.WorkingDays,
			Holidays:     m.Holidays,
			WeeklyOffs:   m.WeeklyOffs,
			WorkingRatio: m.WorkingRatio.String(),
		})
	}
	return dto
}
