/*
hours.go - Weekly-hours aggregation

PURPOSE:
  Totals an employee's scheduled hours across a work week, mixing one
  repository read (already-persisted entries) with purely in-memory proposed
  entries, and compares the total against the weekly limit.

CAP SEMANTICS:
  ExceedsCap is a strict comparison: hitting the limit exactly is allowed,
  one minute over is not.

DOUBLE-COUNTING:
  An entry being updated exists both in the proposal and in storage. The
  exclusion filter removes the persisted copy before summing.
*/
package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// SumScheduled totals the scheduled hours of the given entries.
func SumScheduled(entries []*ShiftEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.ScheduledHours())
	}
	return total
}

// ExceedsCap reports whether total is strictly over the limit.
func ExceedsCap(total, limit decimal.Decimal) bool {
	return total.GreaterThan(limit)
}

// HoursAggregator computes weekly totals against persisted state.
type HoursAggregator struct {
	Repo     Repository
	Calendar WorkWeekCalendar
}

// WeeklyTotal returns the employee's total scheduled hours for the work week
// containing date: persisted entries in the week (minus exclusions) plus the
// proposed entries whose dates fall in the same week.
func (a HoursAggregator) WeeklyTotal(ctx context.Context, id EmployeeID, date Date, proposed []*ShiftEntry, exclude ExcludeFilter) (decimal.Decimal, error) {
	week := a.Calendar.WeekFor(date)

	existing, err := a.Repo.SumScheduledHours(ctx, id, week.Start, week.End, exclude)
	if err != nil {
		return decimal.Zero, err
	}

	total := existing
	for _, e := range proposed {
		if e.EmployeeID == id && week.Contains(e.Date) {
			total = total.Add(e.ScheduledHours())
		}
	}
	return total, nil
}
