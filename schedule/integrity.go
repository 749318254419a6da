/*
integrity.go - Structural-integrity pass over raw week inputs

PURPOSE:
  Week batches arrive wire-shaped (string dates and times) and tolerate
  malformed values: instead of rejecting the request, each defect becomes a
  structural violation in the verdict. This file performs the single parse
  pass the other week checks consume, collecting those violations in entry
  order.

CHECKS PER ENTRY:
  - required fields present (date, employee_id, scheduled start/end, status_id)
  - date and time values parse
  - scheduled end strictly after start; same for actual times when both given
  - embedded employee data, when supplied, agrees with employee_id

Entries with unusable times still flow through: they contribute zero hours
and are skipped by overlap detection, but they are persisted with the rest
of the exception-flagged batch.
*/
package schedule

import "fmt"

// parsedWeekEntry is one flattened input after the parse pass.
type parsedWeekEntry struct {
	input      EntryInput
	employeeID EmployeeID

	date   Date
	dateOK bool

	start, end       TimeOfDay
	startOK, endOK   bool
	orderOK          bool
	actStart, actEnd *TimeOfDay

	requiredSkills []SkillID
}

func (p parsedWeekEntry) timesOK() bool {
	return p.startOK && p.endOK && p.orderOK
}

func (p parsedWeekEntry) scheduledRange() TimeRange {
	return TimeRange{Start: p.start, End: p.end}
}

// toEntry builds the persistable entry. Malformed times fall back to the
// zero clock value; the batch carrying them is already exception-flagged.
func (p parsedWeekEntry) toEntry() *ShiftEntry {
	e := &ShiftEntry{
		ID:             EntryID(p.input.ID),
		EmployeeID:     p.employeeID,
		Date:           p.date,
		ScheduledStart: p.start,
		ScheduledEnd:   p.end,
		ActualStart:    p.actStart,
		ActualEnd:      p.actEnd,
		VCI:            p.input.VCI,
		StatusID:       StatusID(p.input.StatusID),
		RequiredSkills: p.requiredSkills,
	}
	return e
}

// parseWeekInputs runs the parse pass and returns the parsed entries
// together with the structural violations, both in input order.
func parseWeekInputs(inputs []EntryInput) ([]parsedWeekEntry, []Violation) {
	parsed := make([]parsedWeekEntry, len(inputs))
	var violations []Violation

	record := func(index int, detail string) {
		violations = append(violations, structuralViolation(index, detail))
	}

	for i, in := range inputs {
		p := parsedWeekEntry{input: in, employeeID: EmployeeID(in.EmployeeID), orderOK: true}

		for _, field := range [...]struct {
			name  string
			value string
		}{
			{"date", in.Date},
			{"employee_id", in.EmployeeID},
			{"scheduled_start_time", in.ScheduledStart},
			{"scheduled_end_time", in.ScheduledEnd},
			{"status_id", in.StatusID},
		} {
			if field.value == "" {
				record(i, fmt.Sprintf("Missing required field '%s'", field.name))
			}
		}

		if in.Date != "" {
			if d, err := ParseDate(in.Date); err != nil {
				record(i, "Invalid date format")
			} else {
				p.date, p.dateOK = d, true
			}
		}

		timeOK := true
		if in.ScheduledStart != "" {
			if t, err := ParseTimeOfDay(in.ScheduledStart); err != nil {
				timeOK = false
			} else {
				p.start, p.startOK = t, true
			}
		}
		if in.ScheduledEnd != "" {
			if t, err := ParseTimeOfDay(in.ScheduledEnd); err != nil {
				timeOK = false
			} else {
				p.end, p.endOK = t, true
			}
		}
		if !timeOK {
			record(i, "Invalid time format")
		}
		if p.startOK && p.endOK && !p.end.After(p.start) {
			p.orderOK = false
			record(i, "End time must be after start time")
		}

		p.actStart, p.actEnd = parseActualTimes(in, i, record)

		if in.Employee != nil && in.Employee.ID != "" && in.Employee.ID != in.EmployeeID {
			record(i, "Employee ID mismatch between employee_id and embedded employee data")
		}

		p.requiredSkills = make([]SkillID, 0, len(in.RequiredSkills))
		for _, s := range in.RequiredSkills {
			p.requiredSkills = append(p.requiredSkills, SkillID(s))
		}

		parsed[i] = p
	}
	return parsed, violations
}

// parseActualTimes handles the optional actual start/end pair. Both must
// parse and be ordered for either to be kept.
func parseActualTimes(in EntryInput, index int, record func(int, string)) (*TimeOfDay, *TimeOfDay) {
	var start, end *TimeOfDay
	if in.ActualStart != "" {
		if t, err := ParseTimeOfDay(in.ActualStart); err != nil {
			record(index, "Invalid time format")
		} else {
			start = &t
		}
	}
	if in.ActualEnd != "" {
		if t, err := ParseTimeOfDay(in.ActualEnd); err != nil {
			record(index, "Invalid time format")
		} else {
			end = &t
		}
	}
	if start != nil && end != nil && !end.After(*start) {
		record(index, "Actual end time must be after actual start time")
	}
	return start, end
}

// spansMoreThanOneWeek reports whether the parsed dates exceed a single
// 7-day range (min to max more than 6 days apart).
func spansMoreThanOneWeek(parsed []parsedWeekEntry) bool {
	var min, max Date
	seen := false
	for _, p := range parsed {
		if !p.dateOK {
			continue
		}
		if !seen {
			min, max, seen = p.date, p.date, true
			continue
		}
		if p.date.Before(min) {
			min = p.date
		}
		if p.date.After(max) {
			max = p.date
		}
	}
	return seen && min.DaysBetween(max) > 6
}
