/*
service.go - Validate-and-save entry points

PURPOSE:
  The three operations callers actually invoke: validate a single entry, a
  day's batch, or a week's batch, then persist with exception stamping
  applied. Plus the two read-only reports (per-employee weekly summary, day
  skill-coverage analysis).

FLOW:
  proposals -> validator -> verdict -> exception policy stamps entries ->
  repository bulk write -> summary

ERRORS:
  Business violations never abort: the batch is persisted exception-flagged.
  Unresolvable employees, malformed input at single/day granularity, and
  repository failures abort with no partial writes. A week batch spanning
  more than one 7-day range is rejected before per-day checks: the verdict
  is returned but nothing is persisted.

CONCURRENCY:
  The service is stateless; each call is a pure function of its inputs plus
  point-in-time repository reads. Two concurrent validations for the same
  employee and week can race on the hours limit (both read the same existing
  total before either writes); callers wanting stronger guarantees must
  serialize writes per (employee, work week) at the repository level.
*/
package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service wires the validator, exception policy, and repository into the
// public operations.
type Service struct {
	Repo      Repository
	Validator *Validator
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo, Validator: NewValidator(repo)}
}

// ValidateAndSave validates and persists one entry. Set isUpdate when the
// entry already exists so its persisted copy is excluded from the hours sum
// and a stale exception stamp can be cleared.
func (s *Service) ValidateAndSave(ctx context.Context, entry *ShiftEntry, isUpdate bool) (*ShiftEntry, *Verdict, error) {
	if err := checkEntryInvariants(entry); err != nil {
		return nil, nil, err
	}

	var exclude ExcludeFilter
	if isUpdate {
		exclude.EntryIDs = []EntryID{entry.ID}
	}

	verdict, err := s.Validator.ValidateEntry(ctx, entry, exclude)
	if err != nil {
		return nil, nil, err
	}

	ApplyExceptionPolicy([]*ShiftEntry{entry}, verdict, ExceptionLabelDaily, isUpdate)

	saved, err := s.Repo.SaveEntries(ctx, []*ShiftEntry{entry})
	if err != nil {
		return nil, nil, err
	}
	return saved[0], verdict, nil
}

// ValidateAndSaveDay validates and persists a day's batch. The date is
// propagated onto every entry before validation. Entries carrying persisted
// identities are treated as updates and excluded from the existing-hours
// sum.
func (s *Service) ValidateAndSaveDay(ctx context.Context, date Date, entries []*ShiftEntry) ([]*ShiftEntry, *Verdict, *DaySummary, error) {
	if len(entries) == 0 {
		return nil, nil, nil, ErrEmptyBatch
	}

	var exclude ExcludeFilter
	isUpdate := false
	for _, e := range entries {
		e.Date = date
		if err := checkEntryInvariants(e); err != nil {
			return nil, nil, nil, err
		}
		if e.ID != "" {
			exclude.EntryIDs = append(exclude.EntryIDs, e.ID)
			isUpdate = true
		}
	}

	verdict, employees, err := s.Validator.ValidateDay(ctx, date, entries, exclude)
	if err != nil {
		return nil, nil, nil, err
	}

	ApplyExceptionPolicy(entries, verdict, ExceptionLabelDaily, isUpdate)

	saved, err := s.Repo.SaveEntries(ctx, entries)
	if err != nil {
		return nil, nil, nil, err
	}

	summary := BuildDaySummary(date, saved, employees)
	return saved, verdict, &summary, nil
}

// ValidateAndSaveWeek validates and persists a week batch in either input
// shape. A batch whose dates span more than one 7-day range is rejected:
// the verdict is returned with no entries persisted.
func (s *Service) ValidateAndSaveWeek(ctx context.Context, batch WeekBatch) ([]*ShiftEntry, *Verdict, *WeekSummary, error) {
	verdict, entries, err := s.Validator.ValidateWeek(ctx, batch)
	if err != nil {
		return nil, nil, nil, err
	}
	if entries == nil {
		// Date-span rejection: nothing to persist.
		return nil, verdict, nil, nil
	}

	isUpdate := false
	for _, e := range entries {
		if e.ID != "" {
			isUpdate = true
			break
		}
	}
	ApplyExceptionPolicy(entries, verdict, ExceptionLabelWeekly, isUpdate)

	saved, err := s.Repo.SaveEntries(ctx, entries)
	if err != nil {
		return nil, nil, nil, err
	}

	summary := BuildWeekSummary(saved, verdict)
	return saved, verdict, &summary, nil
}

// WeeklySummary reports one employee's schedule for the work week containing
// date: entries, scheduled and actual totals, and standing against the limit.
func (s *Service) WeeklySummary(ctx context.Context, id EmployeeID, date Date) (*WeeklySummary, error) {
	emp, err := s.Repo.FindEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	week := s.Validator.Calendar.WeekFor(date)
	entries, err := s.Repo.ListEntries(ctx, id, week.Start, week.End)
	if err != nil {
		return nil, err
	}

	scheduled := SumScheduled(entries)
	actual := decimal.Zero
	for _, e := range entries {
		actual = actual.Add(e.ActualHours())
	}

	limit := emp.MaxWeeklyHours()
	remaining := limit.Sub(scheduled)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &WeeklySummary{
		Week:                week,
		Employee:            emp,
		Entries:             entries,
		TotalScheduledHours: scheduled,
		TotalActualHours:    actual,
		MaxWeeklyHours:      limit,
		HoursRemaining:      remaining,
		OverLimit:           ExceedsCap(scheduled, limit),
	}, nil
}

// DayCoverage evaluates the required skills against the roster already
// persisted for the date (every employee with at least one shift that day).
// With no explicit required set, the union of the roster's own per-entry
// requirements is evaluated.
func (s *Service) DayCoverage(ctx context.Context, date Date, required []SkillID) (*DayCoverageReport, error) {
	roster, err := s.Repo.ListEntriesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if len(required) == 0 {
		for _, e := range roster {
			required = append(required, e.RequiredSkills...)
		}
	}

	var available []SkillID
	seen := make(map[EmployeeID]struct{})
	for _, e := range roster {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		emp, err := s.Repo.FindEmployee(ctx, e.EmployeeID)
		if err != nil {
			return nil, err
		}
		available = append(available, emp.SkillIDs()...)
	}

	return &DayCoverageReport{
		Date:     date,
		Coverage: EvaluateCoverage(required, available),
	}, nil
}

// checkEntryInvariants enforces the hard time-ordering invariants assumed at
// single/day granularity (the request layer pre-validates formats; ordering
// is re-checked here).
func checkEntryInvariants(e *ShiftEntry) error {
	if !e.ScheduledEnd.After(e.ScheduledStart) {
		return &TimeRangeError{EmployeeID: e.EmployeeID, Date: e.Date, Start: e.ScheduledStart, End: e.ScheduledEnd}
	}
	if e.ActualStart != nil && e.ActualEnd != nil && !e.ActualEnd.After(*e.ActualStart) {
		return &TimeRangeError{EmployeeID: e.EmployeeID, Date: e.Date, Start: *e.ActualStart, End: *e.ActualEnd}
	}
	return nil
}
