/*
timerange.go - Time-range value type and overlap arithmetic

PURPOSE:
  TimeRange pairs a day-local start and end time and provides the two
  operations everything else is built on: duration in fractional hours and
  half-open interval overlap.

OVERLAP SEMANTICS:
  a overlaps b  iff  a.Start < b.End && b.Start < a.End

  Touching endpoints do NOT overlap: 09:00-13:00 and 13:00-17:00 are a legal
  split shift. Overlap is symmetric by construction.
*/
package schedule

import "github.com/shopspring/decimal"

const secondsPerHour = 3600

// TimeRange is a day-local [Start, End) pair. Construction invariant:
// End is strictly after Start, so Duration is never negative.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Duration returns End - Start in fractional hours.
func (r TimeRange) Duration() decimal.Decimal {
	return decimal.NewFromInt(int64(r.End.Seconds - r.Start.Seconds)).
		Div(decimal.NewFromInt(secondsPerHour))
}

// Overlaps reports whether the two ranges share any interior time.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
