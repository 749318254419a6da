/*
workweek.go - Work-week boundary computation

PURPOSE:
  The organization's accounting week is anchored to a fixed weekday rather
  than the calendar week. All weekly-hour aggregation uses these boundaries.
  The organizational anchor is Tuesday: a week runs Tuesday through the
  following Monday.

PROPERTIES (hold for every date d):
  WeekStart(d) <= d <= WeekEnd(d)
  WeekEnd(d) == WeekStart(d) + 6 days
  WeekStart(WeekStart(d)) == WeekStart(d)    (idempotent anchor)

Pure functions - no side effects, safe from any goroutine.
*/
package schedule

import "time"

// DefaultWeekAnchor is the weekday the organizational work week starts on.
const DefaultWeekAnchor = time.Tuesday

// WorkWeek is a 7-day interval [Start, End], both days inclusive.
// Derived on demand, never persisted.
type WorkWeek struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the work week.
func (w WorkWeek) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// WorkWeekCalendar computes work-week boundaries for an anchor weekday.
// The zero value anchors on Sunday; use NewWorkWeekCalendar for the
// organizational default.
type WorkWeekCalendar struct {
	Anchor time.Weekday
}

func NewWorkWeekCalendar() WorkWeekCalendar {
	return WorkWeekCalendar{Anchor: DefaultWeekAnchor}
}

// WeekStart returns the most recent occurrence of the anchor weekday on or
// before d. If d itself falls on the anchor weekday it is returned unchanged.
func (c WorkWeekCalendar) WeekStart(d Date) Date {
	back := (int(d.Weekday()) - int(c.Anchor) + 7) % 7
	return d.AddDays(-back)
}

// WeekEnd returns the last day of the work week containing d (end of day,
// inclusive).
func (c WorkWeekCalendar) WeekEnd(d Date) Date {
	return c.WeekStart(d).AddDays(6)
}

// WeekFor returns the full work week containing d.
func (c WorkWeekCalendar) WeekFor(d Date) WorkWeek {
	start := c.WeekStart(d)
	return WorkWeek{Start: start, End: start.AddDays(6)}
}
