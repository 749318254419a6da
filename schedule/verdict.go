/*
verdict.go - Validation verdicts and structured violations

PURPOSE:
  A Verdict is the complete outcome of one validation call: a valid flag,
  the ordered violation list, and granularity-specific side channels
  (skill coverage per date, hours summary per employee, conflict list).
  Constructed fresh per call, never mutated after construction.

STRUCTURED VIOLATIONS:
  Human-readable text remains the payload of the exception note, but every
  violation also carries its kind, the affected identifiers, and numeric
  detail so consumers can branch on semantics instead of parsing prose.

ORDERING:
  Violations appear in check order, and within a check in input order, so
  the same input always yields the same verdict.
*/
package schedule

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ViolationKind classifies a business-rule or structural violation.
type ViolationKind string

const (
	ViolationSkillGap   ViolationKind = "skill_gap"
	ViolationHoursCap   ViolationKind = "hours_cap"
	ViolationOverlap    ViolationKind = "overlap"
	ViolationStructural ViolationKind = "structural"
)

// Violation is one recorded rule breach. Message is what lands in the
// exception note; the remaining fields are the machine-readable detail.
type Violation struct {
	Kind    ViolationKind
	Message string

	EmployeeID   EmployeeID
	Date         Date
	SkillIDs     []SkillID
	EntryIndexes []int

	Total decimal.Decimal
	Limit decimal.Decimal
}

// Conflict is the side-channel record of overlapping shifts for one
// employee on one date.
type Conflict struct {
	EmployeeID   EmployeeID
	EmployeeName string
	Date         Date
	Pairs        []OverlapPair
}

// EmployeeHours is the per-employee hours side channel.
type EmployeeHours struct {
	EmployeeName        string
	TotalScheduledHours decimal.Decimal
	MaxWeeklyHours      decimal.Decimal
	HoursRemaining      decimal.Decimal
	OverLimit           bool
}

// Verdict is the outcome of one validation call.
type Verdict struct {
	Valid      bool
	Violations []Violation

	// Side channels; populated per granularity, nil otherwise.
	SkillCoverage map[string]SkillCoverage
	HoursSummary  map[EmployeeID]EmployeeHours
	Conflicts     []Conflict
}

// NewVerdict builds a verdict; Valid is true iff no violations were
// recorded.
func NewVerdict(violations []Violation) *Verdict {
	return &Verdict{Valid: len(violations) == 0, Violations: violations}
}

// Messages returns the violation texts in recorded order.
func (v *Verdict) Messages() []string {
	msgs := make([]string, len(v.Violations))
	for i, viol := range v.Violations {
		msgs[i] = viol.Message
	}
	return msgs
}

// =============================================================================
// VIOLATION CONSTRUCTORS - one per message shape, kept together so the
// exact wording lives in one place
// =============================================================================

func skillGapViolation(employeeID EmployeeID, missing []SkillID, names []string) Violation {
	return Violation{
		Kind:       ViolationSkillGap,
		Message:    "Employee does not possess required skills: " + strings.Join(names, ", "),
		EmployeeID: employeeID,
		SkillIDs:   missing,
	}
}

func indexedViolation(index int, v Violation) Violation {
	v.Message = fmt.Sprintf("Schedule #%d: %s", index, v.Message)
	v.EntryIndexes = append([]int{index}, v.EntryIndexes...)
	return v
}

func hoursCapViolation(employeeID EmployeeID, total, limit decimal.Decimal) Violation {
	return Violation{
		Kind: ViolationHoursCap,
		Message: fmt.Sprintf("Weekly hours limit exceeded. Total: %sh, Maximum: %sh",
			total.String(), limit.String()),
		EmployeeID: employeeID,
		Total:      total,
		Limit:      limit,
	}
}

func dayHoursCapViolation(employeeID EmployeeID, name string, total, limit decimal.Decimal) Violation {
	return Violation{
		Kind: ViolationHoursCap,
		Message: fmt.Sprintf("Employee %s: Weekly hours limit exceeded. Total: %sh, Maximum: %sh",
			name, total.String(), limit.String()),
		EmployeeID: employeeID,
		Total:      total,
		Limit:      limit,
	}
}

func weekHoursCapViolation(employeeID EmployeeID, name string, total, limit decimal.Decimal) Violation {
	return Violation{
		Kind: ViolationHoursCap,
		Message: fmt.Sprintf("Employee %s: Weekly hours limit exceeded. Scheduled: %sh, Maximum: %sh",
			name, total.String(), limit.String()),
		EmployeeID: employeeID,
		Total:      total,
		Limit:      limit,
	}
}

func dayOverlapViolation(employeeID EmployeeID, pair OverlapPair) Violation {
	return Violation{
		Kind: ViolationOverlap,
		Message: fmt.Sprintf("Employee ID %s has overlapping shifts: Schedule #%d (%s) overlaps with Schedule #%d (%s)",
			employeeID, pair.FirstIndex, pair.First, pair.SecondIndex, pair.Second),
		EmployeeID:   employeeID,
		EntryIndexes: []int{pair.FirstIndex, pair.SecondIndex},
	}
}

func weekOverlapViolation(employeeID EmployeeID, name string, date Date) Violation {
	return Violation{
		Kind:       ViolationOverlap,
		Message:    fmt.Sprintf("Employee %s has overlapping schedules on %s", name, date),
		EmployeeID: employeeID,
		Date:       date,
	}
}

func dateCoverageViolation(date Date, missing []SkillID, names []string) Violation {
	return Violation{
		Kind:     ViolationSkillGap,
		Message:  fmt.Sprintf("Date %s: Missing required skills - %s", date, strings.Join(names, ", ")),
		Date:     date,
		SkillIDs: missing,
	}
}

func structuralViolation(index int, detail string) Violation {
	return Violation{
		Kind:         ViolationStructural,
		Message:      fmt.Sprintf("Schedule entry %d: %s", index, detail),
		EntryIndexes: []int{index},
	}
}

func weekSpanViolation() Violation {
	return Violation{
		Kind:    ViolationStructural,
		Message: "All schedule dates must fall within a single work week (7-day range).",
	}
}
