package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/shift-engine/schedule"
)

func invalidVerdict(messages ...string) *schedule.Verdict {
	violations := make([]schedule.Violation, len(messages))
	for i, m := range messages {
		violations[i] = schedule.Violation{Kind: schedule.ViolationHoursCap, Message: m}
	}
	return schedule.NewVerdict(violations)
}

func TestFormatExceptionNotes(t *testing.T) {
	verdict := invalidVerdict("first violation", "second violation")

	notes := schedule.FormatExceptionNotes(schedule.ExceptionLabelDaily, verdict)
	assert.Equal(t, "Business rule violations: first violation; second violation", notes)

	notes = schedule.FormatExceptionNotes(schedule.ExceptionLabelWeekly, verdict)
	assert.Equal(t, "Weekly validation violations: first violation; second violation", notes)
}

func TestApplyExceptionPolicy_InvalidVerdictStampsAllEntries(t *testing.T) {
	entries := []*schedule.ShiftEntry{
		shift(t, "emp-1", "2025-06-04", "09:00", "17:00"),
		shift(t, "emp-2", "2025-06-04", "09:00", "13:00"),
	}

	schedule.ApplyExceptionPolicy(entries, invalidVerdict("over the limit"), schedule.ExceptionLabelDaily, false)

	for _, e := range entries {
		assert.True(t, e.ExceptionApproved)
		assert.Equal(t, "Business rule violations: over the limit", e.ExceptionNotes)
	}
}

func TestApplyExceptionPolicy_ValidUpdateClearsStaleStamp(t *testing.T) {
	entry := shift(t, "emp-1", "2025-06-04", "09:00", "17:00")
	entry.ExceptionApproved = true
	entry.ExceptionNotes = "Business rule violations: something old"

	schedule.ApplyExceptionPolicy([]*schedule.ShiftEntry{entry}, schedule.NewVerdict(nil),
		schedule.ExceptionLabelDaily, true)

	assert.False(t, entry.ExceptionApproved)
	assert.Empty(t, entry.ExceptionNotes)
}

func TestApplyExceptionPolicy_ValidCreateLeavesFieldsUntouched(t *testing.T) {
	entry := shift(t, "emp-1", "2025-06-04", "09:00", "17:00")
	entry.ExceptionApproved = true
	entry.ExceptionNotes = "pre-approved by a supervisor"

	schedule.ApplyExceptionPolicy([]*schedule.ShiftEntry{entry}, schedule.NewVerdict(nil),
		schedule.ExceptionLabelDaily, false)

	assert.True(t, entry.ExceptionApproved, "create path must not reset submitted fields")
	assert.Equal(t, "pre-approved by a supervisor", entry.ExceptionNotes)
}
