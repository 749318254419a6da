/*
validator.go - Orchestrated schedule validation

PURPOSE:
  Runs the constraint checks over three granularities and produces one
  Verdict per call:

  Single entry:  skill check -> weekly-hours check (repository read)
  Day batch:     per-employee overlap -> per-entry skill -> per-employee
                 weekly hours (repository read, entry-ID exclusion)
  Week batch:    date-span pre-check -> per-date skill coverage ->
                 per-employee whole-batch hours -> per-employee per-date
                 overlap -> structural integrity

FAILURE POLICY:
  A failing check never stops subsequent checks. All violations across all
  checks are concatenated, in check order, into one verdict so the caller
  sees the complete picture in one pass. The single hard stop is the week
  date-span pre-check: a batch spanning more than a 7-day range is rejected
  before any per-day check runs.

  Employee-not-found is never a soft violation: it aborts the operation
  (partial weekly schedules are not a supported half-state).

PURITY:
  Each check is a function returning its own violation list; the
  orchestrator concatenates them. No check mutates shared state.

SEE ALSO:
  - verdict.go:   Violation constructors and exact message wording
  - exception.go: What happens to an invalid batch afterwards
*/
package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// Validator orchestrates the constraint checks. Stateless between calls;
// safe for concurrent use.
type Validator struct {
	Repo     Repository
	Calendar WorkWeekCalendar
}

func NewValidator(repo Repository) *Validator {
	return &Validator{Repo: repo, Calendar: NewWorkWeekCalendar()}
}

// =============================================================================
// SINGLE-ENTRY GRANULARITY
// =============================================================================

// ValidateEntry checks one entry: skill requirements, then the weekly-hours
// limit including already-persisted hours. The exclusion filter removes the
// persisted copy of an entry being updated.
func (v *Validator) ValidateEntry(ctx context.Context, entry *ShiftEntry, exclude ExcludeFilter) (*Verdict, error) {
	emp, err := v.Repo.FindEmployee(ctx, entry.EmployeeID)
	if err != nil {
		return nil, err
	}

	var violations []Violation

	skillViolations, err := v.checkEntrySkills(ctx, emp, entry)
	if err != nil {
		return nil, err
	}
	violations = append(violations, skillViolations...)

	agg := HoursAggregator{Repo: v.Repo, Calendar: v.Calendar}
	total, err := agg.WeeklyTotal(ctx, emp.ID, entry.Date, []*ShiftEntry{entry}, exclude)
	if err != nil {
		return nil, err
	}
	limit := emp.MaxWeeklyHours()
	if ExceedsCap(total, limit) {
		violations = append(violations, hoursCapViolation(emp.ID, total, limit))
	}

	return NewVerdict(violations), nil
}

// =============================================================================
// DAY-BATCH GRANULARITY
// =============================================================================

// ValidateDay checks a day's batch (one date, any number of employees and
// split shifts): overlaps per employee, skills per entry, then each
// employee's day total rolled into the weekly-hours check. The resolved
// employees are returned so callers can build summaries without a second
// repository read per employee.
func (v *Validator) ValidateDay(ctx context.Context, date Date, entries []*ShiftEntry, exclude ExcludeFilter) (*Verdict, map[EmployeeID]*Employee, error) {
	if len(entries) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	employees, order, err := v.resolveEmployees(ctx, entryEmployeeIDs(entries))
	if err != nil {
		return nil, nil, err
	}

	var violations []Violation

	overlapViolations, conflicts := v.checkDayOverlaps(date, entries, employees)
	violations = append(violations, overlapViolations...)

	for i, e := range entries {
		skillViolations, err := v.checkEntrySkills(ctx, employees[e.EmployeeID], e)
		if err != nil {
			return nil, nil, err
		}
		for _, viol := range skillViolations {
			violations = append(violations, indexedViolation(i, viol))
		}
	}

	hoursViolations, summary, err := v.checkDayHours(ctx, date, entries, employees, order, exclude)
	if err != nil {
		return nil, nil, err
	}
	violations = append(violations, hoursViolations...)

	verdict := NewVerdict(violations)
	verdict.Conflicts = conflicts
	verdict.HoursSummary = summary
	return verdict, employees, nil
}

// checkDayOverlaps groups the day's entries by employee and runs the
// all-pairs comparison within each group. Employees are visited in
// first-appearance order so output is deterministic.
func (v *Validator) checkDayOverlaps(date Date, entries []*ShiftEntry, employees map[EmployeeID]*Employee) ([]Violation, []Conflict) {
	byEmployee := make(map[EmployeeID][]indexedRange)
	var order []EmployeeID
	for i, e := range entries {
		if _, seen := byEmployee[e.EmployeeID]; !seen {
			order = append(order, e.EmployeeID)
		}
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], indexedRange{Index: i, Range: e.ScheduledRange()})
	}

	var violations []Violation
	var conflicts []Conflict
	for _, id := range order {
		pairs := detectOverlaps(byEmployee[id])
		if len(pairs) == 0 {
			continue
		}
		for _, pair := range pairs {
			violations = append(violations, dayOverlapViolation(id, pair))
		}
		conflicts = append(conflicts, Conflict{
			EmployeeID:   id,
			EmployeeName: employees[id].FullName,
			Date:         date,
			Pairs:        pairs,
		})
	}
	return violations, conflicts
}

// checkDayHours totals each employee's hours for the day and rolls them into
// the weekly limit check against persisted state.
func (v *Validator) checkDayHours(ctx context.Context, date Date, entries []*ShiftEntry, employees map[EmployeeID]*Employee, order []EmployeeID, exclude ExcludeFilter) ([]Violation, map[EmployeeID]EmployeeHours, error) {
	dayTotals := make(map[EmployeeID]decimal.Decimal)
	for _, e := range entries {
		dayTotals[e.EmployeeID] = dayTotals[e.EmployeeID].Add(e.ScheduledHours())
	}

	agg := HoursAggregator{Repo: v.Repo, Calendar: v.Calendar}
	var violations []Violation
	summary := make(map[EmployeeID]EmployeeHours, len(order))

	for _, id := range order {
		emp := employees[id]
		week := v.Calendar.WeekFor(date)
		existing, err := agg.Repo.SumScheduledHours(ctx, id, week.Start, week.End, exclude)
		if err != nil {
			return nil, nil, err
		}
		total := existing.Add(dayTotals[id])
		limit := emp.MaxWeeklyHours()

		summary[id] = EmployeeHours{
			EmployeeName:        emp.FullName,
			TotalScheduledHours: total,
			MaxWeeklyHours:      limit,
			HoursRemaining:      decimal.Max(decimal.Zero, limit.Sub(total)),
			OverLimit:           ExceedsCap(total, limit),
		}
		if ExceedsCap(total, limit) {
			violations = append(violations, dayHoursCapViolation(id, emp.FullName, total, limit))
		}
	}
	return violations, summary, nil
}

// =============================================================================
// WEEK-BATCH GRANULARITY
// =============================================================================

// ValidateWeek normalizes the batch to its flat form and runs the week-level
// checks. It returns the verdict together with the parsed entries aligned
// one-to-one with the flattened input, ready for exception stamping and
// persistence. No repository hours read is needed: the full week is
// supplied.
func (v *Validator) ValidateWeek(ctx context.Context, batch WeekBatch) (*Verdict, []*ShiftEntry, error) {
	inputs := batch.Flatten()
	if len(inputs) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	parsed, structural := parseWeekInputs(inputs)

	// Date-span pre-check: reject before any per-day check runs.
	if spansMoreThanOneWeek(parsed) {
		return NewVerdict([]Violation{weekSpanViolation()}), nil, nil
	}

	employees, order, err := v.resolveEmployees(ctx, weekEmployeeIDs(parsed))
	if err != nil {
		return nil, nil, err
	}

	var violations []Violation

	coverageViolations, coverage, err := v.checkWeekCoverage(ctx, parsed, employees)
	if err != nil {
		return nil, nil, err
	}
	violations = append(violations, coverageViolations...)

	hoursViolations, summary := checkWeekHours(parsed, employees, order)
	violations = append(violations, hoursViolations...)

	overlapViolations, conflicts := checkWeekOverlaps(parsed, employees, order)
	violations = append(violations, overlapViolations...)

	violations = append(violations, structural...)

	verdict := NewVerdict(violations)
	verdict.SkillCoverage = coverage
	verdict.HoursSummary = summary
	verdict.Conflicts = conflicts

	entries := make([]*ShiftEntry, len(parsed))
	for i, p := range parsed {
		entries[i] = p.toEntry()
	}
	return verdict, entries, nil
}

// checkWeekCoverage evaluates skill coverage per date: the required set is
// the union of the date's entries' required skills, the available set is the
// union of skills held by every employee with at least one shift that date.
func (v *Validator) checkWeekCoverage(ctx context.Context, parsed []parsedWeekEntry, employees map[EmployeeID]*Employee) ([]Violation, map[string]SkillCoverage, error) {
	byDate := make(map[string][]parsedWeekEntry)
	var dateOrder []string
	for _, p := range parsed {
		if !p.dateOK {
			continue
		}
		key := p.date.String()
		if _, seen := byDate[key]; !seen {
			dateOrder = append(dateOrder, key)
		}
		byDate[key] = append(byDate[key], p)
	}

	var violations []Violation
	coverage := make(map[string]SkillCoverage, len(dateOrder))

	for _, key := range dateOrder {
		dayEntries := byDate[key]
		var required, available []SkillID
		seenEmployee := make(map[EmployeeID]struct{})
		for _, p := range dayEntries {
			required = append(required, p.requiredSkills...)
			// Entries without a resolvable employee (missing employee_id is
			// a structural violation) contribute no available skills.
			emp, ok := employees[p.employeeID]
			if !ok {
				continue
			}
			if _, seen := seenEmployee[p.employeeID]; seen {
				continue
			}
			seenEmployee[p.employeeID] = struct{}{}
			available = append(available, emp.SkillIDs()...)
		}

		cov := EvaluateCoverage(required, available)
		coverage[key] = cov
		if cov.FullyCovered() {
			continue
		}
		names, err := v.skillNames(ctx, cov.Missing)
		if err != nil {
			return nil, nil, err
		}
		violations = append(violations, dateCoverageViolation(dayEntries[0].date, cov.Missing, names))
	}
	return violations, coverage, nil
}

// checkWeekHours totals each employee's scheduled hours across the whole
// batch and compares against the limit. An embedded weekly-hour limit on any of
// the employee's entries takes precedence over the stored preference.
func checkWeekHours(parsed []parsedWeekEntry, employees map[EmployeeID]*Employee, order []EmployeeID) ([]Violation, map[EmployeeID]EmployeeHours) {
	totals := make(map[EmployeeID]decimal.Decimal)
	limits := make(map[EmployeeID]decimal.Decimal)
	for _, p := range parsed {
		if p.employeeID == "" {
			continue
		}
		if p.timesOK() {
			totals[p.employeeID] = totals[p.employeeID].Add(p.scheduledRange().Duration())
		}
		if _, ok := limits[p.employeeID]; !ok && p.input.Employee != nil && p.input.Employee.MaxWeeklyHours != nil {
			limits[p.employeeID] = decimal.NewFromInt(int64(*p.input.Employee.MaxWeeklyHours))
		}
	}

	var violations []Violation
	summary := make(map[EmployeeID]EmployeeHours, len(order))
	for _, id := range order {
		emp := employees[id]
		limit, ok := limits[id]
		if !ok {
			limit = emp.MaxWeeklyHours()
		}
		total := totals[id]

		summary[id] = EmployeeHours{
			EmployeeName:        emp.FullName,
			TotalScheduledHours: total,
			MaxWeeklyHours:      limit,
			HoursRemaining:      decimal.Max(decimal.Zero, limit.Sub(total)),
			OverLimit:           ExceedsCap(total, limit),
		}
		if ExceedsCap(total, limit) {
			violations = append(violations, weekHoursCapViolation(id, emp.FullName, total, limit))
		}
	}
	return violations, summary
}

// checkWeekOverlaps runs overlap detection per employee per date. One
// violation is recorded per (employee, date) with overlapping shifts; the
// pair-level detail goes into the conflict side channel. Indexes refer to
// positions in the flattened batch.
func checkWeekOverlaps(parsed []parsedWeekEntry, employees map[EmployeeID]*Employee, order []EmployeeID) ([]Violation, []Conflict) {
	type dayKey struct {
		id   EmployeeID
		date string
	}
	grouped := make(map[dayKey][]indexedRange)
	dates := make(map[dayKey]Date)
	var keyOrder []dayKey

	for i, p := range parsed {
		if p.employeeID == "" || !p.dateOK || !p.timesOK() {
			continue
		}
		k := dayKey{id: p.employeeID, date: p.date.String()}
		if _, seen := grouped[k]; !seen {
			keyOrder = append(keyOrder, k)
			dates[k] = p.date
		}
		grouped[k] = append(grouped[k], indexedRange{Index: i, Range: p.scheduledRange()})
	}

	var violations []Violation
	var conflicts []Conflict
	for _, id := range order {
		for _, k := range keyOrder {
			if k.id != id {
				continue
			}
			pairs := detectOverlaps(grouped[k])
			if len(pairs) == 0 {
				continue
			}
			name := employees[id].FullName
			violations = append(violations, weekOverlapViolation(id, name, dates[k]))
			conflicts = append(conflicts, Conflict{
				EmployeeID:   id,
				EmployeeName: name,
				Date:         dates[k],
				Pairs:        pairs,
			})
		}
	}
	return violations, conflicts
}

// =============================================================================
// SHARED CHECKS AND HELPERS
// =============================================================================

// checkEntrySkills compares an entry's required skills against the assigned
// employee's skill set. Missing skills are reported by display name.
func (v *Validator) checkEntrySkills(ctx context.Context, emp *Employee, entry *ShiftEntry) ([]Violation, error) {
	if len(entry.RequiredSkills) == 0 {
		return nil, nil
	}
	cov := EvaluateCoverage(entry.RequiredSkills, emp.SkillIDs())
	if cov.FullyCovered() {
		return nil, nil
	}
	names, err := v.skillNames(ctx, cov.Missing)
	if err != nil {
		return nil, err
	}
	return []Violation{skillGapViolation(emp.ID, cov.Missing, names)}, nil
}

// skillNames resolves display names for violation text, falling back to the
// raw identifier for anything the repository does not know.
func (v *Validator) skillNames(ctx context.Context, ids []SkillID) ([]string, error) {
	skills, err := v.Repo.FindSkills(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[SkillID]string, len(skills))
	for _, s := range skills {
		byID[s.ID] = s.Name
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			names[i] = name
		} else {
			names[i] = string(id)
		}
	}
	return names, nil
}

// resolveEmployees fetches each distinct employee once per validation call.
// Any unresolved identifier aborts the operation.
func (v *Validator) resolveEmployees(ctx context.Context, ids []EmployeeID) (map[EmployeeID]*Employee, []EmployeeID, error) {
	employees := make(map[EmployeeID]*Employee, len(ids))
	for _, id := range ids {
		emp, err := v.Repo.FindEmployee(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		employees[id] = emp
	}
	return employees, ids, nil
}

func entryEmployeeIDs(entries []*ShiftEntry) []EmployeeID {
	seen := make(map[EmployeeID]struct{}, len(entries))
	var ids []EmployeeID
	for _, e := range entries {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		ids = append(ids, e.EmployeeID)
	}
	return ids
}

func weekEmployeeIDs(parsed []parsedWeekEntry) []EmployeeID {
	seen := make(map[EmployeeID]struct{}, len(parsed))
	var ids []EmployeeID
	for _, p := range parsed {
		if p.employeeID == "" {
			continue
		}
		if _, ok := seen[p.employeeID]; ok {
			continue
		}
		seen[p.employeeID] = struct{}{}
		ids = append(ids, p.employeeID)
	}
	return ids
}
