/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Single-entry and day-batch requests carry go-playground/validator struct
  tags and are rejected at the HTTP boundary on malformed input. Week-batch
  bodies deliberately carry no tags: week submissions report structural
  problems as soft violations from the engine, so the raw strings pass
  through.

WEEK BODY SHAPES:
  The week endpoint accepts two JSON shapes for the same payload:
    flat:    {"schedules": [ {entry}, {entry}, ... ]}
    grouped: {"schedules": [ {"date": "...", "schedules": [ {entry}, ... ]} ]}
  detectWeekShape sniffs the first element for a nested "schedules" key.

SEE ALSO:
  - handlers.go: Uses these types
  - schedule/normalize.go: Canonical week-batch representation
*/
package api

import (
	"encoding/json"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EmbeddedEmployeeRequest is employee data nested inside a schedule entry.
// A non-nil MaxWeeklyHours overrides the stored scheduling preference.
type EmbeddedEmployeeRequest struct {
	ID             string   `json:"id"`
	Skills         []string `json:"skills,omitempty"`
	MaxWeeklyHours *int     `json:"max_weekly_hours,omitempty" validate:"omitempty,min=1"`
}

// ScheduleEntryRequest is the request body for single-entry create/update.
type ScheduleEntryRequest struct {
	EmployeeID         string                   `json:"employee_id" validate:"required"`
	Date               string                   `json:"date" validate:"required,datetime=2006-01-02"`
	ScheduledStartTime string                   `json:"scheduled_start_time" validate:"required"`
	ScheduledEndTime   string                   `json:"scheduled_end_time" validate:"required"`
	ActualStartTime    string                   `json:"actual_start_time,omitempty"`
	ActualEndTime      string                   `json:"actual_end_time,omitempty"`
	VCI                bool                     `json:"vci"`
	StatusID           string                   `json:"status_id" validate:"required"`
	RequiredSkills     []string                 `json:"required_skills,omitempty"`
	Employee           *EmbeddedEmployeeRequest `json:"employee,omitempty"`
}

// DayBatchRequest is the request body for the day-batch endpoint. Every
// entry is stamped with the batch date regardless of its own date field.
type DayBatchRequest struct {
	Date      string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Schedules []ScheduleEntryRequest `json:"schedules" validate:"required,min=1,dive"`
}

// WeekEntryRequest is one entry of a week submission. All fields are plain
// strings: the engine reports missing or malformed values as violations
// instead of an HTTP error.
type WeekEntryRequest struct {
	ID                 string                   `json:"id,omitempty"`
	EmployeeID         string                   `json:"employee_id"`
	Date               string                   `json:"date"`
	ScheduledStartTime string                   `json:"scheduled_start_time"`
	ScheduledEndTime   string                   `json:"scheduled_end_time"`
	ActualStartTime    string                   `json:"actual_start_time,omitempty"`
	ActualEndTime      string                   `json:"actual_end_time,omitempty"`
	VCI                bool                     `json:"vci"`
	StatusID           string                   `json:"status_id"`
	RequiredSkills     []string                 `json:"required_skills,omitempty"`
	Employee           *EmbeddedEmployeeRequest `json:"employee,omitempty"`
}

// WeekDayGroupRequest is one day of a grouped week submission.
type WeekDayGroupRequest struct {
	Date      string             `json:"date"`
	Schedules []WeekEntryRequest `json:"schedules"`
}

// WeekBatchRequest is the raw week body. Elements are kept raw until the
// shape is known.
type WeekBatchRequest struct {
	Schedules []json.RawMessage `json:"schedules"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ScheduleEntryDTO represents a persisted shift entry in API responses.
type ScheduleEntryDTO struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	Date               string   `json:"date"`
	ScheduledStartTime string   `json:"scheduled_start_time"`
	ScheduledEndTime   string   `json:"scheduled_end_time"`
	ActualStartTime    *string  `json:"actual_start_time,omitempty"`
	ActualEndTime      *string  `json:"actual_end_time,omitempty"`
	ScheduledHours     string   `json:"scheduled_hours"`
	VCI                bool     `json:"vci"`
	StatusID           string   `json:"status_id"`
	AgreeOnException   bool     `json:"agree_on_exception"`
	ExceptionNotes     string   `json:"exception_notes,omitempty"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
}

// SkillCoverageDTO reports skill coverage for one date.
type SkillCoverageDTO struct {
	Required  []string `json:"required"`
	Available []string `json:"available"`
	Covered   []string `json:"covered"`
	Missing   []string `json:"missing"`
}

// EmployeeHoursDTO reports one employee's weekly-hours standing. Hours are
// decimal strings so clients see exact values.
type EmployeeHoursDTO struct {
	EmployeeName        string `json:"employee_name"`
	TotalScheduledHours string `json:"total_scheduled_hours"`
	MaxWeeklyHours      string `json:"max_weekly_hours"`
	HoursRemaining      string `json:"hours_remaining"`
	OverLimit           bool   `json:"over_limit"`
}

// OverlapPairDTO identifies two clashing entries by batch position.
type OverlapPairDTO struct {
	FirstIndex  int    `json:"first_index"`
	SecondIndex int    `json:"second_index"`
	FirstRange  string `json:"first_range"`
	SecondRange string `json:"second_range"`
}

// ConflictDTO reports an employee's overlapping entries on one date.
type ConflictDTO struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Date         string           `json:"date"`
	Pairs        []OverlapPairDTO `json:"pairs"`
}

// SingleScheduleResponse is returned by the single-entry endpoints.
type SingleScheduleResponse struct {
	Valid      bool              `json:"valid"`
	Violations []string          `json:"violations"`
	Schedule   *ScheduleEntryDTO `json:"schedule"`
}

// DaySummaryDTO aggregates one day's saved roster.
type DaySummaryDTO struct {
	Date                    string   `json:"date"`
	TotalSchedules          int      `json:"total_schedules"`
	UniqueEmployees         int      `json:"unique_employees"`
	TotalHours              string   `json:"total_hours"`
	SchedulesWithExceptions int      `json:"schedules_with_exceptions"`
	RequiredSkills          []string `json:"required_skills"`
	AvailableSkills         []string `json:"available_skills"`
	SkillCoverageComplete   bool     `json:"skill_coverage_complete"`
}

// DayScheduleResponse is returned by the day-batch endpoint.
type DayScheduleResponse struct {
	Valid        bool                        `json:"valid"`
	Violations   []string                    `json:"violations"`
	Conflicts    []ConflictDTO               `json:"conflicts,omitempty"`
	HoursSummary map[string]EmployeeHoursDTO `json:"hours_summary,omitempty"`
	Schedules    []ScheduleEntryDTO          `json:"schedules"`
	Summary      *DaySummaryDTO              `json:"summary,omitempty"`
}

// WeekSummaryDTO aggregates one week's saved roster.
type WeekSummaryDTO struct {
	WeekStart               string `json:"week_start"`
	WeekEnd                 string `json:"week_end"`
	TotalSchedules          int    `json:"total_schedules"`
	UniqueEmployees         int    `json:"unique_employees"`
	UniqueDates             int    `json:"unique_dates"`
	TotalHours              string `json:"total_hours"`
	SchedulesWithExceptions int    `json:"schedules_with_exceptions"`
	ValidationStatus        string `json:"validation_status"`
	TotalViolations         int    `json:"total_violations"`
}

// WeekScheduleResponse is returned by the week-batch endpoint.
type WeekScheduleResponse struct {
	Valid         bool                        `json:"valid"`
	Violations    []string                    `json:"violations"`
	SkillCoverage map[string]SkillCoverageDTO `json:"skill_coverage,omitempty"`
	HoursSummary  map[string]EmployeeHoursDTO `json:"hours_summary,omitempty"`
	Conflicts     []ConflictDTO               `json:"conflicts,omitempty"`
	Schedules     []ScheduleEntryDTO          `json:"schedules,omitempty"`
	Summary       *WeekSummaryDTO             `json:"summary,omitempty"`
}

// WeeklySummaryDTO is one employee's schedule for the work week holding a
// reference date.
type WeeklySummaryDTO struct {
	EmployeeID          string             `json:"employee_id"`
	EmployeeName        string             `json:"employee_name"`
	WeekStart           string             `json:"week_start"`
	WeekEnd             string             `json:"week_end"`
	Schedules           []ScheduleEntryDTO `json:"schedules"`
	TotalScheduledHours string             `json:"total_scheduled_hours"`
	TotalActualHours    string             `json:"total_actual_hours"`
	MaxWeeklyHours      string             `json:"max_weekly_hours"`
	HoursRemaining      string             `json:"hours_remaining"`
	OverLimit           bool               `json:"over_limit"`
}

// AnalysisResponse reports day-level skill coverage.
type AnalysisResponse struct {
	Date         string           `json:"date"`
	Coverage     SkillCoverageDTO `json:"coverage"`
	FullyCovered bool             `json:"fully_covered"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string           `json:"id"`
	FullName       string           `json:"full_name"`
	Skills         []SkillRatingDTO `json:"skills,omitempty"`
	MaxWeeklyHours string           `json:"max_weekly_hours,omitempty"`
}

// SkillRatingDTO is one employee-held skill with proficiency.
type SkillRatingDTO struct {
	SkillID string `json:"skill_id"`
	Rating  int    `json:"rating"`
}

// SkillDTO represents skill reference data.
type SkillDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusDTO represents status reference data.
type StatusDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e *schedule.ShiftEntry) ScheduleEntryDTO {
	dto := ScheduleEntryDTO{
		ID:                 string(e.ID),
		EmployeeID:         string(e.EmployeeID),
		Date:               e.Date.String(),
		ScheduledStartTime: e.ScheduledStart.String(),
		ScheduledEndTime:   e.ScheduledEnd.String(),
		ScheduledHours:     e.ScheduledHours().String(),
		VCI:                e.VCI,
		StatusID:           string(e.StatusID),
		AgreeOnException:   e.ExceptionApproved,
		ExceptionNotes:     e.ExceptionNotes,
	}
	if e.ActualStart != nil {
		s := e.ActualStart.String()
		dto.ActualStartTime = &s
	}
	if e.ActualEnd != nil {
		s := e.ActualEnd.String()
		dto.ActualEndTime = &s
	}
	for _, id := range e.RequiredSkills {
		dto.RequiredSkills = append(dto.RequiredSkills, string(id))
	}
	return dto
}

func toEntryDTOs(entries []*schedule.ShiftEntry) []ScheduleEntryDTO {
	dtos := make([]ScheduleEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

func toCoverageDTO(c schedule.SkillCoverage) SkillCoverageDTO {
	return SkillCoverageDTO{
		Required:  skillStrings(c.Required),
		Available: skillStrings(c.Available),
		Covered:   skillStrings(c.Covered),
		Missing:   skillStrings(c.Missing),
	}
}

func toCoverageDTOs(m map[string]schedule.SkillCoverage) map[string]SkillCoverageDTO {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]SkillCoverageDTO, len(m))
	for k, v := range m {
		out[k] = toCoverageDTO(v)
	}
	return out
}

func toHoursDTOs(m map[schedule.EmployeeID]schedule.EmployeeHours) map[string]EmployeeHoursDTO {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]EmployeeHoursDTO, len(m))
	for id, h := range m {
		out[string(id)] = EmployeeHoursDTO{
			EmployeeName:        h.EmployeeName,
			TotalScheduledHours: h.TotalScheduledHours.String(),
			MaxWeeklyHours:      h.MaxWeeklyHours.String(),
			HoursRemaining:      h.HoursRemaining.String(),
			OverLimit:           h.OverLimit,
		}
	}
	return out
}

func toConflictDTOs(conflicts []schedule.Conflict) []ConflictDTO {
	var out []ConflictDTO
	for _, c := range conflicts {
		dto := ConflictDTO{
			EmployeeID:   string(c.EmployeeID),
			EmployeeName: c.EmployeeName,
			Date:         c.Date.String(),
		}
		for _, p := range c.Pairs {
			dto.Pairs = append(dto.Pairs, OverlapPairDTO{
				FirstIndex:  p.FirstIndex,
				SecondIndex: p.SecondIndex,
				FirstRange:  p.First.String(),
				SecondRange: p.Second.String(),
			})
		}
		out = append(out, dto)
	}
	return out
}

func toDaySummaryDTO(s *schedule.DaySummary) *DaySummaryDTO {
	if s == nil {
		return nil
	}
	return &DaySummaryDTO{
		Date:                    s.Date.String(),
		TotalSchedules:          s.TotalSchedules,
		UniqueEmployees:         s.UniqueEmployees,
		TotalHours:              s.TotalHours.String(),
		SchedulesWithExceptions: s.SchedulesWithExceptions,
		RequiredSkills:          skillStrings(s.RequiredSkills),
		AvailableSkills:         skillStrings(s.AvailableSkills),
		SkillCoverageComplete:   s.SkillCoverageComplete,
	}
}

func toWeekSummaryDTO(s *schedule.WeekSummary) *WeekSummaryDTO {
	if s == nil {
		return nil
	}
	return &WeekSummaryDTO{
		WeekStart:               s.WeekStart.String(),
		WeekEnd:                 s.WeekEnd.String(),
		TotalSchedules:          s.TotalSchedules,
		UniqueEmployees:         s.UniqueEmployees,
		UniqueDates:             s.UniqueDates,
		TotalHours:              s.TotalHours.String(),
		SchedulesWithExceptions: s.SchedulesWithExceptions,
		ValidationStatus:        s.ValidationStatus,
		TotalViolations:         s.TotalViolations,
	}
}

func toEmployeeDTO(e *schedule.Employee, withDetails bool) EmployeeDTO {
	dto := EmployeeDTO{ID: string(e.ID), FullName: e.FullName}
	if !withDetails {
		return dto
	}
	for _, sr := range e.Skills {
		dto.Skills = append(dto.Skills, SkillRatingDTO{
			SkillID: string(sr.SkillID),
			Rating:  sr.Rating,
		})
	}
	dto.MaxWeeklyHours = e.MaxWeeklyHours().String()
	return dto
}

func skillStrings(ids []schedule.SkillID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toEmbeddedEmployee(r *EmbeddedEmployeeRequest) *schedule.EmbeddedEmployee {
	if r == nil {
		return nil
	}
	return &schedule.EmbeddedEmployee{
		ID:             r.ID,
		Skills:         r.Skills,
		MaxWeeklyHours: r.MaxWeeklyHours,
	}
}

func toEntryInput(r WeekEntryRequest) schedule.EntryInput {
	return schedule.EntryInput{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Date:           r.Date,
		ScheduledStart: r.ScheduledStartTime,
		ScheduledEnd:   r.ScheduledEndTime,
		ActualStart:    r.ActualStartTime,
		ActualEnd:      r.ActualEndTime,
		VCI:            r.VCI,
		StatusID:       r.StatusID,
		RequiredSkills: r.RequiredSkills,
		Employee:       toEmbeddedEmployee(r.Employee),
	}
}
