/*
exception.go - Exception stamping policy

PURPOSE:
  An invalid verdict does not reject the batch: every entry is persisted
  anyway, stamped as an approved exception with a generated explanation.
  The note is the joined violation text behind a fixed prefix label.

RE-VALIDATION RESETS EXCEPTIONS:
  When a previously out-of-policy entry is edited back into compliance, the
  valid verdict must clear the stale exception marker. On first creation
  with a valid verdict, the fields are left untouched.
*/
package schedule

import "strings"

const (
	// ExceptionLabelDaily prefixes notes produced by single-entry and
	// day-batch validation.
	ExceptionLabelDaily = "Business rule violations: "

	// ExceptionLabelWeekly prefixes notes produced by week-batch validation.
	ExceptionLabelWeekly = "Weekly validation violations: "

	exceptionSeparator = "; "
)

// FormatExceptionNotes joins the verdict's violation messages behind the
// given label.
func FormatExceptionNotes(label string, verdict *Verdict) string {
	return label + strings.Join(verdict.Messages(), exceptionSeparator)
}

// ApplyExceptionPolicy stamps or clears exception fields on every entry in
// the batch according to the verdict:
//   - invalid verdict: stamp all entries approved with the generated note
//   - valid verdict on update: clear any stale stamp
//   - valid verdict on create: leave the fields as submitted
func ApplyExceptionPolicy(entries []*ShiftEntry, verdict *Verdict, label string, isUpdate bool) {
	if !verdict.Valid {
		notes := FormatExceptionNotes(label, verdict)
		for _, e := range entries {
			e.ExceptionApproved = true
			e.ExceptionNotes = notes
		}
		return
	}

	if isUpdate {
		for _, e := range entries {
			e.ExceptionApproved = false
			e.ExceptionNotes = ""
		}
	}
}
