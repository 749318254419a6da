/*
errors.go - Centralized error types for the validation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers branch on sentinels with errors.Is(); structured errors carry
  the identifiers needed for meaningful transport-layer responses.

ERROR CATEGORIES:
  1. Not-found errors   - Referenced employee/entry doesn't resolve; fatal
                          for the whole operation, never a soft violation
  2. Input errors       - Malformed dates/times at granularities that assume
                          pre-validated input
  3. Repository errors  - Storage failures, propagated unmodified

Business-rule violations (skill gaps, hour-cap breaches, overlaps) are NOT
errors: they are recorded in the Verdict and the batch is still persisted as
an approved exception. See validator.go.
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee identifier
	// does not resolve. This aborts the whole batch: partial weekly
	// schedules are not a supported half-state.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEntryNotFound is returned when an update references an unknown
	// shift entry.
	ErrEntryNotFound = errors.New("shift entry not found")

	// ErrMalformedTime is returned when a time-of-day value cannot be
	// parsed. Hard at single/day granularity; the week validator records it
	// as a structural violation instead.
	ErrMalformedTime = errors.New("malformed time of day")

	// ErrMalformedDate is returned when a calendar date cannot be parsed.
	ErrMalformedDate = errors.New("malformed date")

	// ErrInvalidTimeRange is returned when an end time is not strictly
	// after its start time.
	ErrInvalidTimeRange = errors.New("invalid time range: end not after start")

	// ErrEmptyBatch is returned when a batch operation receives no entries.
	ErrEmptyBatch = errors.New("empty schedule batch")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EmployeeNotFoundError reports which employee failed to resolve.
type EmployeeNotFoundError struct {
	EmployeeID EmployeeID
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("employee with ID %s not found", e.EmployeeID)
}

func (e *EmployeeNotFoundError) Unwrap() error {
	return ErrEmployeeNotFound
}

// TimeRangeError reports an entry whose times fail the ordering invariant.
type TimeRangeError struct {
	EmployeeID EmployeeID
	Date       Date
	Start      TimeOfDay
	End        TimeOfDay
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("invalid time range for employee %s on %s: %s-%s",
		e.EmployeeID, e.Date, e.Start, e.End)
}

func (e *TimeRangeError) Unwrap() error {
	return ErrInvalidTimeRange
}
