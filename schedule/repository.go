/*
repository.go - Persistence interface for schedule data

PURPOSE:
  Defines the interface between the validation engine and storage. The
  engine issues point-in-time reads (employee with skills and preference,
  skill display names, persisted weekly hours) and one bulk write per
  processed batch. Retry policy, if any, belongs to the implementation;
  the engine propagates repository failures unmodified.

IMPLEMENTATIONS:
  - store/sqlite:        Production SQLite
  - schedule/store:      In-memory, for engine tests

EXCLUSION FILTER:
  SumScheduledHours must not double-count an entry that is both being
  updated and already persisted. Exclusion is keyed by entry identifier;
  the date-keyed variant exists for callers replacing a whole day at once.
*/
package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExcludeFilter narrows a persisted-hours query so in-flight updates are not
// counted twice. The zero value excludes nothing.
type ExcludeFilter struct {
	// EntryIDs excludes specific persisted entries (the ones being updated).
	EntryIDs []EntryID

	// Date excludes every persisted entry on one date (whole-day replace).
	Date *Date
}

// Excludes reports whether a persisted entry should be left out of the sum.
func (f ExcludeFilter) Excludes(e *ShiftEntry) bool {
	if f.Date != nil && e.Date.Equal(*f.Date) {
		return true
	}
	for _, id := range f.EntryIDs {
		if id != "" && e.ID == id {
			return true
		}
	}
	return false
}

// Repository is the engine's view of durable storage. All methods may fail
// with storage errors, which the engine treats as fatal for the operation.
type Repository interface {
	// FindEmployee resolves an employee with skills and scheduling
	// preference. Returns an error wrapping ErrEmployeeNotFound when the
	// identifier does not resolve.
	FindEmployee(ctx context.Context, id EmployeeID) (*Employee, error)

	// FindSkills resolves skill display names for violation text. Unknown
	// identifiers are silently omitted.
	FindSkills(ctx context.Context, ids []SkillID) ([]Skill, error)

	// SumScheduledHours totals the scheduled hours of persisted entries for
	// one employee with dates in [from, to], minus anything the filter
	// excludes.
	SumScheduledHours(ctx context.Context, id EmployeeID, from, to Date, exclude ExcludeFilter) (decimal.Decimal, error)

	// SaveEntries persists a batch (create or update) atomically and syncs
	// each entry's required-skill associations. Returned entries carry
	// their assigned identities.
	SaveEntries(ctx context.Context, entries []*ShiftEntry) ([]*ShiftEntry, error)

	// ListEntries returns one employee's persisted entries with dates in
	// [from, to], ordered by date then start time.
	ListEntries(ctx context.Context, id EmployeeID, from, to Date) ([]*ShiftEntry, error)

	// ListEntriesByDate returns every employee's persisted entries for one
	// date (the day's roster), ordered by employee then start time.
	ListEntriesByDate(ctx context.Context, date Date) ([]*ShiftEntry, error)
}
