/*
summary.go - Result summaries returned alongside verdicts

PURPOSE:
  Each batch operation reports a compact summary to the caller: the date
  range covered, distinct employee count, total scheduled hours, how many
  entries carry an approved exception, and the verdict's side channels.
  Per-employee weekly reports and day coverage reports back the read-only
  query endpoints.
*/
package schedule

import "github.com/shopspring/decimal"

// DaySummary describes one processed day batch.
type DaySummary struct {
	Date                    Date
	TotalSchedules          int
	UniqueEmployees         int
	TotalHours              decimal.Decimal
	SchedulesWithExceptions int
	RequiredSkills          []SkillID
	AvailableSkills         []SkillID
	SkillCoverageComplete   bool
}

// BuildDaySummary aggregates a day's processed entries. Available skills are
// the union over the employees scheduled that day.
func BuildDaySummary(date Date, entries []*ShiftEntry, employees map[EmployeeID]*Employee) DaySummary {
	var required, available []SkillID
	seen := make(map[EmployeeID]struct{})
	exceptions := 0
	for _, e := range entries {
		required = append(required, e.RequiredSkills...)
		if e.ExceptionApproved {
			exceptions++
		}
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		if emp, ok := employees[e.EmployeeID]; ok {
			available = append(available, emp.SkillIDs()...)
		}
	}

	cov := EvaluateCoverage(required, available)
	return DaySummary{
		Date:                    date,
		TotalSchedules:          len(entries),
		UniqueEmployees:         len(seen),
		TotalHours:              SumScheduled(entries),
		SchedulesWithExceptions: exceptions,
		RequiredSkills:          cov.Required,
		AvailableSkills:         cov.Available,
		SkillCoverageComplete:   cov.FullyCovered(),
	}
}

// WeekSummary describes one processed week batch.
type WeekSummary struct {
	WeekStart               Date
	WeekEnd                 Date
	TotalSchedules          int
	UniqueEmployees         int
	UniqueDates             int
	TotalHours              decimal.Decimal
	SchedulesWithExceptions int
	ValidationStatus        string
	TotalViolations         int

	SkillCoverage map[string]SkillCoverage
	HoursSummary  map[EmployeeID]EmployeeHours
	Conflicts     []Conflict
}

// BuildWeekSummary aggregates a processed week batch with the verdict's side
// channels. The reported range is the span of submitted dates, not the
// calendar work week.
func BuildWeekSummary(entries []*ShiftEntry, verdict *Verdict) WeekSummary {
	var start, end Date
	employees := make(map[EmployeeID]struct{})
	dates := make(map[string]struct{})
	exceptions := 0

	for _, e := range entries {
		employees[e.EmployeeID] = struct{}{}
		if !e.Date.IsZero() {
			dates[e.Date.String()] = struct{}{}
			if start.IsZero() || e.Date.Before(start) {
				start = e.Date
			}
			if end.IsZero() || e.Date.After(end) {
				end = e.Date
			}
		}
		if e.ExceptionApproved {
			exceptions++
		}
	}

	status := "passed"
	if !verdict.Valid {
		status = "failed"
	}

	return WeekSummary{
		WeekStart:               start,
		WeekEnd:                 end,
		TotalSchedules:          len(entries),
		UniqueEmployees:         len(employees),
		UniqueDates:             len(dates),
		TotalHours:              SumScheduled(entries),
		SchedulesWithExceptions: exceptions,
		ValidationStatus:        status,
		TotalViolations:         len(verdict.Violations),
		SkillCoverage:           verdict.SkillCoverage,
		HoursSummary:            verdict.HoursSummary,
		Conflicts:               verdict.Conflicts,
	}
}

// WeeklySummary is the per-employee report for one work week.
type WeeklySummary struct {
	Week                WorkWeek
	Employee            *Employee
	Entries             []*ShiftEntry
	TotalScheduledHours decimal.Decimal
	TotalActualHours    decimal.Decimal
	MaxWeeklyHours      decimal.Decimal
	HoursRemaining      decimal.Decimal
	OverLimit           bool
}

// DayCoverageReport answers "are the required skills covered by the roster
// already persisted for this date".
type DayCoverageReport struct {
	Date     Date
	Coverage SkillCoverage
}
