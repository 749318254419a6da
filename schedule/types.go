/*
Package schedule provides the core shift-schedule validation engine.

PURPOSE:
  This package contains the domain types and algorithms for validating
  proposed work-shift assignments against organizational constraints:
  weekly-hour caps, split-shift overlap rules, and per-day skill coverage.
  It decides, deterministically, whether a batch of proposed shifts is
  acceptable or must be auto-flagged as an approved exception.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date: A calendar date (no time zone surprises, UTC day granularity)
  - TimeOfDay: A day-local clock time (used for shift boundaries)
  - ShiftEntry: One proposed or persisted block of scheduled work
  - Employee/Skill/Status: Read-only reference data borrowed from storage

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for hour arithmetic, never float64
  2. Type Safety: Strong typing for IDs prevents mixing employee/skill IDs
  3. Determinism: All checks preserve input order so violation output is
     reproducible for the same input
  4. Purity: Validation checks are pure functions over their inputs plus
     point-in-time repository reads

USAGE:
  entry := &schedule.ShiftEntry{
      EmployeeID:     "emp-1",
      Date:           schedule.NewDate(2024, time.January, 16),
      ScheduledStart: schedule.MustParseTimeOfDay("09:00:00"),
      ScheduledEnd:   schedule.MustParseTimeOfDay("17:00:00"),
  }
  hours := entry.ScheduledHours() // 8

SEE ALSO:
  - workweek.go:  Work-week boundary computation
  - timerange.go: Overlap and duration arithmetic
  - validator.go: The orchestrated checks
*/
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type SkillID string
type StatusID string
type EntryID string

// DefaultMaxWeeklyHours is the organizational fallback cap applied when an
// employee has no scheduling preference record. An absent preference never
// means "unconstrained".
const DefaultMaxWeeklyHours = 40

// =============================================================================
// DATE - Calendar date at day granularity
// =============================================================================

// Date is a calendar date. The zero value is "no date".
// All dates are normalized to midnight UTC so comparisons are exact.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return Date{Time: t}, nil
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic and properties
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) Weekday() time.Weekday {
	return d.normalize().Weekday()
}

// DaysBetween returns the number of whole days from d to other (positive
// when other is later).
func (d Date) DaysBetween(other Date) int {
	return int(other.normalize().Sub(d.normalize()).Hours() / 24)
}

func (d Date) IsZero() bool   { return d.Time.IsZero() }
func (d Date) String() string { return d.normalize().Format(dateLayout) }

// =============================================================================
// TIME OF DAY - Day-local clock time
// =============================================================================

// TimeOfDay is a clock time within a single day, stored as seconds since
// midnight. Shift boundaries never cross midnight in this system.
type TimeOfDay struct {
	Seconds int
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Seconds: hour*3600 + minute*60 + second}
}

// ParseTimeOfDay parses "HH:MM:SS"; a bare "HH:MM" is accepted too since
// some clients omit seconds.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// MustParseTimeOfDay is for literals in tests and seed data.
func MustParseTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}

func (t TimeOfDay) Hour() int   { return t.Seconds / 3600 }
func (t TimeOfDay) Minute() int { return (t.Seconds % 3600) / 60 }
func (t TimeOfDay) Second() int { return t.Seconds % 60 }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.Seconds < other.Seconds }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.Seconds > other.Seconds }
func (t TimeOfDay) Equal(other TimeOfDay) bool  { return t.Seconds == other.Seconds }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// =============================================================================
// SHIFT ENTRY - The unit being validated
// =============================================================================

// ShiftEntry is one proposed or persisted block of scheduled (and optionally
// actual) work time for one employee on one date.
//
// Invariants: ScheduledEnd is strictly after ScheduledStart; when both actual
// times are present, ActualEnd is strictly after ActualStart. The request
// layer enforces this for single/day submissions; week batches record
// violations via the structural-integrity check instead.
//
// The entry is owned by the submitting batch until persisted. Only the
// exception policy mutates it (ExceptionApproved / ExceptionNotes) before the
// repository write.
type ShiftEntry struct {
	ID         EntryID
	EmployeeID EmployeeID
	Date       Date

	ScheduledStart TimeOfDay
	ScheduledEnd   TimeOfDay
	ActualStart    *TimeOfDay
	ActualEnd      *TimeOfDay

	VCI      bool
	StatusID StatusID

	ExceptionApproved bool
	ExceptionNotes    string

	RequiredSkills []SkillID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledRange returns the scheduled time range of the entry.
func (e *ShiftEntry) ScheduledRange() TimeRange {
	return TimeRange{Start: e.ScheduledStart, End: e.ScheduledEnd}
}

// ScheduledHours returns the scheduled duration in fractional hours.
func (e *ShiftEntry) ScheduledHours() decimal.Decimal {
	return e.ScheduledRange().Duration()
}

// ActualHours returns the worked duration in fractional hours, or zero when
// either actual time is absent.
func (e *ShiftEntry) ActualHours() decimal.Decimal {
	if e.ActualStart == nil || e.ActualEnd == nil {
		return decimal.Zero
	}
	return TimeRange{Start: *e.ActualStart, End: *e.ActualEnd}.Duration()
}

// =============================================================================
// REFERENCE DATA - Read-only views borrowed from the repository
// =============================================================================

// Skill is immutable reference data.
type Skill struct {
	ID   SkillID
	Name string
}

// Status is immutable reference data (e.g. scheduled, confirmed).
type Status struct {
	ID   StatusID
	Name string
}

// SkillRating is one skill an employee holds, with a proficiency rating.
type SkillRating struct {
	SkillID SkillID
	Rating  int
}

// SchedulePreference holds an employee's weekly-hour cap. At most one per
// employee is consulted.
type SchedulePreference struct {
	MaximumHours   int
	EmploymentType string
}

// Employee is a read-only view for one validation call. The engine never
// mutates it.
type Employee struct {
	ID         EmployeeID
	FullName   string
	Skills     []SkillRating
	Preference *SchedulePreference
}

// SkillIDs returns the identifiers of all skills the employee holds,
// preserving rating order.
func (e *Employee) SkillIDs() []SkillID {
	ids := make([]SkillID, len(e.Skills))
	for i, s := range e.Skills {
		ids[i] = s.SkillID
	}
	return ids
}

// MaxWeeklyHours returns the employee's weekly-hour cap, falling back to the
// organizational default when no preference record exists.
func (e *Employee) MaxWeeklyHours() decimal.Decimal {
	if e.Preference == nil {
		return decimal.NewFromInt(DefaultMaxWeeklyHours)
	}
	return decimal.NewFromInt(int64(e.Preference.MaximumHours))
}
