/*
handlers.go - HTTP API handlers for the shift scheduling system

PURPOSE:
  Exposes the schedule validation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Schedules:
    POST   /api/schedules                     Create single entry
    PUT    /api/schedules/{id}                Update single entry
    POST   /api/schedules/day                 Day batch
    POST   /api/schedules/week                Week batch (flat or grouped)
    GET    /api/schedules/weekly/{employeeID} Weekly summary for one employee
    GET    /api/schedules/analysis            Day-level skill coverage

  Reference data:
    GET    /api/employees                     List employees
    GET    /api/employees/{id}                Employee with skills and cap
    GET    /api/skills                        List skills
    GET    /api/statuses                      List statuses

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator for single/day bodies)
  3. Call domain logic (schedule.Service)
  4. Serialize response
  5. Handle errors

SAVE SEMANTICS:
  Validation failure does not block persistence. Entries are saved with an
  exception stamp and the response carries valid=false plus the violation
  messages. Only malformed requests, unknown employees, and week batches
  spanning more than one work week are rejected outright.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, empty batches, bad query parameters
  - 404: Unknown employee or schedule entry
  - 422: Field-level validation failures, week-span rejection
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - schedule/service.go: Domain operations behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Service  *schedule.Service
	Log      *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:    store,
		Service:  schedule.NewService(store),
		Log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// CreateSchedule validates and saves one entry.
// POST /api/schedules
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid schedule entry", err)
		return
	}

	saved, verdict, err := h.Service.ValidateAndSave(r.Context(), entry, false)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dto := toEntryDTO(saved)
	writeJSON(w, http.StatusCreated, SingleScheduleResponse{
		Valid:      verdict.Valid,
		Violations: verdict.Messages(),
		Schedule:   &dto,
	})
}

// UpdateSchedule re-validates and saves an existing entry. A re-validation
// that passes clears any prior exception stamp.
// PUT /api/schedules/{id}
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := schedule.EntryID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEntry(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	var req ScheduleEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid schedule entry", err)
		return
	}
	entry.ID = id

	saved, verdict, err := h.Service.ValidateAndSave(r.Context(), entry, true)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dto := toEntryDTO(saved)
	writeJSON(w, http.StatusOK, SingleScheduleResponse{
		Valid:      verdict.Valid,
		Violations: verdict.Messages(),
		Schedule:   &dto,
	})
}

// CreateDaySchedules validates and saves a day batch. The batch date is
// stamped onto every entry.
// POST /api/schedules/day
func (h *Handler) CreateDaySchedules(w http.ResponseWriter, r *http.Request) {
	var req DayBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	entries := make([]*schedule.ShiftEntry, len(req.Schedules))
	for i, er := range req.Schedules {
		entry, err := entryFromRequest(er)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("Invalid schedule entry at index %d", i), err)
			return
		}
		entries[i] = entry
	}

	saved, verdict, summary, err := h.Service.ValidateAndSaveDay(r.Context(), date, entries)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, DayScheduleResponse{
		Valid:        verdict.Valid,
		Violations:   verdict.Messages(),
		Conflicts:    toConflictDTOs(verdict.Conflicts),
		HoursSummary: toHoursDTOs(verdict.HoursSummary),
		Schedules:    toEntryDTOs(saved),
		Summary:      toDaySummaryDTO(summary),
	})
}

// CreateWeekSchedules validates and saves a week batch in either accepted
// JSON shape. A batch spanning more than one work week is rejected whole.
// POST /api/schedules/week
func (h *Handler) CreateWeekSchedules(w http.ResponseWriter, r *http.Request) {
	var req WeekBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	batch, err := decodeWeekBatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week payload", err)
		return
	}

	saved, verdict, summary, err := h.Service.ValidateAndSaveWeek(r.Context(), batch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := WeekScheduleResponse{
		Valid:         verdict.Valid,
		Violations:    verdict.Messages(),
		SkillCoverage: toCoverageDTOs(verdict.SkillCoverage),
		HoursSummary:  toHoursDTOs(verdict.HoursSummary),
		Conflicts:     toConflictDTOs(verdict.Conflicts),
	}

	// A nil entry set means the batch was rejected before persistence
	// (dates spanning more than one work week).
	if saved == nil {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	resp.Schedules = toEntryDTOs(saved)
	resp.Summary = toWeekSummaryDTO(summary)
	writeJSON(w, http.StatusCreated, resp)
}

// GetWeeklySchedule returns one employee's entries and hour totals for the
// work week containing the reference date.
// GET /api/schedules/weekly/{employeeID}?date=YYYY-MM-DD
func (h *Handler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	employeeID := schedule.EmployeeID(chi.URLParam(r, "employeeID"))

	date, ok := h.dateQueryParam(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.WeeklySummary(r.Context(), employeeID, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WeeklySummaryDTO{
		EmployeeID:          string(summary.Employee.ID),
		EmployeeName:        summary.Employee.FullName,
		WeekStart:           summary.Week.Start.String(),
		WeekEnd:             summary.Week.End.String(),
		Schedules:           toEntryDTOs(summary.Entries),
		TotalScheduledHours: summary.TotalScheduledHours.String(),
		TotalActualHours:    summary.TotalActualHours.String(),
		MaxWeeklyHours:      summary.MaxWeeklyHours.String(),
		HoursRemaining:      summary.HoursRemaining.String(),
		OverLimit:           summary.OverLimit,
	})
}

// GetScheduleAnalysis reports skill coverage for one date. Required skills
// come from the `skills` query parameter (comma-separated); when omitted,
// the union of the day's per-entry requirements is analyzed.
// GET /api/schedules/analysis?date=YYYY-MM-DD&skills=a,b
func (h *Handler) GetScheduleAnalysis(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateQueryParam(w, r)
	if !ok {
		return
	}

	var required []schedule.SkillID
	if raw := r.URL.Query().Get("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				required = append(required, schedule.SkillID(s))
			}
		}
	}

	report, err := h.Service.DayCoverage(r.Context(), date, required)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalysisResponse{
		Date:         report.Date.String(),
		Coverage:     toCoverageDTO(report.Coverage),
		FullyCovered: report.Coverage.FullyCovered(),
	})
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee with skills and weekly-hours cap.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := schedule.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.FindEmployee(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp, true))
}

// ListSkills returns all skill reference data.
// GET /api/skills
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Store.ListSkills(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list skills", err)
		return
	}

	dtos := make([]SkillDTO, len(skills))
	for i, s := range skills {
		dtos[i] = SkillDTO{ID: string(s.ID), Name: s.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListStatuses returns all status reference data.
// GET /api/statuses
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Store.ListStatuses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list statuses", err)
		return
	}

	dtos := make([]StatusDTO, len(statuses))
	for i, s := range statuses {
		dtos[i] = StatusDTO{ID: string(s.ID), Name: s.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REQUEST DECODING
// =============================================================================

// entryFromRequest parses a validated single/day entry body into the domain
// type. Date and time formats are hard failures on this path.
func entryFromRequest(r ScheduleEntryRequest) (*schedule.ShiftEntry, error) {
	date, err := schedule.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ParseTimeOfDay(r.ScheduledStartTime)
	if err != nil {
		return nil, fmt.Errorf("scheduled_start_time: %w", err)
	}
	end, err := schedule.ParseTimeOfDay(r.ScheduledEndTime)
	if err != nil {
		return nil, fmt.Errorf("scheduled_end_time: %w", err)
	}

	entry := &schedule.ShiftEntry{
		EmployeeID:     schedule.EmployeeID(r.EmployeeID),
		Date:           date,
		ScheduledStart: start,
		ScheduledEnd:   end,
		VCI:            r.VCI,
		StatusID:       schedule.StatusID(r.StatusID),
	}
	for _, s := range r.RequiredSkills {
		entry.RequiredSkills = append(entry.RequiredSkills, schedule.SkillID(s))
	}

	if r.ActualStartTime != "" {
		t, err := schedule.ParseTimeOfDay(r.ActualStartTime)
		if err != nil {
			return nil, fmt.Errorf("actual_start_time: %w", err)
		}
		entry.ActualStart = &t
	}
	if r.ActualEndTime != "" {
		t, err := schedule.ParseTimeOfDay(r.ActualEndTime)
		if err != nil {
			return nil, fmt.Errorf("actual_end_time: %w", err)
		}
		entry.ActualEnd = &t
	}

	return entry, nil
}

// decodeWeekBatch sniffs the payload shape: elements carrying a nested
// "schedules" array are day groups, otherwise the list is flat entries.
func decodeWeekBatch(req WeekBatchRequest) (schedule.WeekBatch, error) {
	if len(req.Schedules) == 0 {
		return schedule.NewFlatBatch(nil), nil
	}

	var probe struct {
		Schedules []json.RawMessage `json:"schedules"`
	}
	if err := json.Unmarshal(req.Schedules[0], &probe); err != nil {
		return schedule.WeekBatch{}, fmt.Errorf("malformed schedules element: %w", err)
	}

	if probe.Schedules == nil {
		entries := make([]schedule.EntryInput, len(req.Schedules))
		for i, raw := range req.Schedules {
			var er WeekEntryRequest
			if err := json.Unmarshal(raw, &er); err != nil {
				return schedule.WeekBatch{}, fmt.Errorf("malformed entry at index %d: %w", i, err)
			}
			entries[i] = toEntryInput(er)
		}
		return schedule.NewFlatBatch(entries), nil
	}

	groups := make([]schedule.DayGroup, len(req.Schedules))
	for i, raw := range req.Schedules {
		var gr WeekDayGroupRequest
		if err := json.Unmarshal(raw, &gr); err != nil {
			return schedule.WeekBatch{}, fmt.Errorf("malformed day group at index %d: %w", i, err)
		}
		group := schedule.DayGroup{Date: gr.Date}
		for _, er := range gr.Schedules {
			group.Entries = append(group.Entries, toEntryInput(er))
		}
		groups[i] = group
	}
	return schedule.NewGroupedBatch(groups), nil
}

func (h *Handler) dateQueryParam(w http.ResponseWriter, r *http.Request) (schedule.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing required query parameter 'date'", nil)
		return schedule.Date{}, false
	}
	date, err := schedule.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return schedule.Date{}, false
	}
	return date, true
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var notFound *schedule.EmployeeNotFoundError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "Employee not found", err)
	case errors.Is(err, schedule.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "Schedule entry not found", err)
	case errors.Is(err, schedule.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, "At least one schedule entry is required", nil)
	case errors.Is(err, schedule.ErrInvalidTimeRange),
		errors.Is(err, schedule.ErrMalformedTime),
		errors.Is(err, schedule.ErrMalformedDate):
		writeError(w, http.StatusUnprocessableEntity, "Invalid schedule entry", err)
	default:
		h.Log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		writeError(w, http.StatusUnprocessableEntity, "Validation failed",
			errors.New(strings.Join(msgs, "; ")))
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "Validation failed", err)
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
