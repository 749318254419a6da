/*
normalize.go - Week-batch input shapes and flattening

PURPOSE:
  Week-level input arrives in one of two shapes: a flat list of entries
  each carrying its own date (legacy), or a list of per-date groups each
  containing its entries. Both are represented as an explicit tagged union
  and flattened into one canonical form before any check runs; every
  validator after this point sees only the flat shape.

SHAPE DETECTION:
  A batch is grouped when its first element carries a nested entry list.
  The transport layer performs this detection on the raw JSON and builds
  the matching variant.

RAW ENTRIES:
  EntryInput carries wire-shaped strings rather than parsed values because
  week batches tolerate malformed times: the structural-integrity check
  records them as violations instead of rejecting the request outright.
*/
package schedule

// EmbeddedEmployee is optional employee data a client may attach to a week
// entry. When present, the structural check verifies it agrees with the
// entry's EmployeeID; an embedded weekly-hour cap takes precedence over the
// stored preference.
type EmbeddedEmployee struct {
	ID             string
	Skills         []string
	MaxWeeklyHours *int
}

// EntryInput is one wire-shaped shift entry, pre-parse.
type EntryInput struct {
	ID             string
	EmployeeID     string
	Date           string
	ScheduledStart string
	ScheduledEnd   string
	ActualStart    string
	ActualEnd      string
	VCI            bool
	StatusID       string
	RequiredSkills []string
	Employee       *EmbeddedEmployee
}

// DayGroup is one date with its entries (the nested shape).
type DayGroup struct {
	Date    string
	Entries []EntryInput
}

// BatchShape tags the two accepted week-input shapes.
type BatchShape int

const (
	FlatShape BatchShape = iota
	GroupedShape
)

// WeekBatch is the tagged union of the two input shapes. Construct with
// NewFlatBatch or NewGroupedBatch; exactly one variant is populated.
type WeekBatch struct {
	shape   BatchShape
	flat    []EntryInput
	grouped []DayGroup
}

func NewFlatBatch(entries []EntryInput) WeekBatch {
	return WeekBatch{shape: FlatShape, flat: entries}
}

func NewGroupedBatch(days []DayGroup) WeekBatch {
	return WeekBatch{shape: GroupedShape, grouped: days}
}

func (b WeekBatch) Shape() BatchShape { return b.shape }

// Len returns the number of entries across the batch.
func (b WeekBatch) Len() int {
	if b.shape == FlatShape {
		return len(b.flat)
	}
	n := 0
	for _, day := range b.grouped {
		n += len(day.Entries)
	}
	return n
}

// Flatten produces the canonical flat form. For the grouped shape, each
// group's date is propagated onto every contained entry; an entry's own
// date field is ignored in that shape.
func (b WeekBatch) Flatten() []EntryInput {
	if b.shape == FlatShape {
		out := make([]EntryInput, len(b.flat))
		copy(out, b.flat)
		return out
	}

	var out []EntryInput
	for _, day := range b.grouped {
		for _, entry := range day.Entries {
			entry.Date = day.Date
			out = append(out, entry)
		}
	}
	return out
}
