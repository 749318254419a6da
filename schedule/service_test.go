package schedule_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

func newTestService() (*schedule.Service, *store.Memory) {
	v, mem := newTestValidator()
	svc := schedule.NewService(mem)
	svc.Validator = v
	return svc, mem
}

// =============================================================================
// SINGLE-ENTRY SAVE
// =============================================================================

func TestService_ValidateAndSave_InvalidEntryStillPersisted(t *testing.T) {
	// GIVEN: An entry breaching the 20h cap
	// WHEN: Saved through the service
	// THEN: It persists anyway, stamped as an approved exception

	svc, mem := newTestService()
	ctx := context.Background()

	entry := shift(t, "emp-2", "2025-06-04", "08:00", "20:00")
	entry2 := shift(t, "emp-2", "2025-06-05", "08:00", "20:00")

	_, verdict, err := svc.ValidateAndSave(ctx, entry, false)
	require.NoError(t, err)
	assert.True(t, verdict.Valid, "12h of 20h is fine")
	assert.False(t, entry.ExceptionApproved)
	assert.Empty(t, entry.ExceptionNotes)

	saved, verdict, err := svc.ValidateAndSave(ctx, entry2, false)
	require.NoError(t, err)

	require.False(t, verdict.Valid, "24h of 20h breaches the cap")
	assert.True(t, saved.ExceptionApproved)
	assert.Contains(t, saved.ExceptionNotes, schedule.ExceptionLabelDaily)
	assert.Contains(t, saved.ExceptionNotes, "20h",
		"the note must state the breached limit")

	persisted, err := mem.ListEntriesByDate(ctx, mustDate(t, "2025-06-05"))
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.True(t, persisted[0].ExceptionApproved)
}

func TestService_ValidateAndSave_UpdateExcludesOwnPersistedCopy(t *testing.T) {
	// The persisted copy of the entry being updated must not double-count in
	// the weekly total.

	svc, _ := newTestService()
	ctx := context.Background()

	entry := shift(t, "emp-2", "2025-06-04", "08:00", "20:00")
	saved, verdict, err := svc.ValidateAndSave(ctx, entry, false)
	require.NoError(t, err)
	require.True(t, verdict.Valid)

	// Re-submit the identical 12h entry as an update. Without exclusion the
	// total would read 24h and breach the 20h cap.
	edited := shift(t, "emp-2", "2025-06-04", "08:00", "20:00")
	edited.ID = saved.ID

	_, verdict, err = svc.ValidateAndSave(ctx, edited, true)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestService_ValidateAndSave_RevalidationClearsException(t *testing.T) {
	// GIVEN: A persisted entry stamped as an exception
	// WHEN: It is edited into compliance and re-validated
	// THEN: The exception flag and note are cleared

	svc, _ := newTestService()
	ctx := context.Background()

	first := shift(t, "emp-2", "2025-06-04", "08:00", "20:00")
	_, _, err := svc.ValidateAndSave(ctx, first, false)
	require.NoError(t, err)

	over := shift(t, "emp-2", "2025-06-05", "08:00", "20:00")
	saved, verdict, err := svc.ValidateAndSave(ctx, over, false)
	require.NoError(t, err)
	require.False(t, verdict.Valid)
	require.True(t, saved.ExceptionApproved)

	// Shrink the second shift to 4h: 12 + 4 = 16h of 20h.
	fixed := shift(t, "emp-2", "2025-06-05", "08:00", "12:00")
	fixed.ID = saved.ID
	fixed.ExceptionApproved = saved.ExceptionApproved
	fixed.ExceptionNotes = saved.ExceptionNotes

	resaved, verdict, err := svc.ValidateAndSave(ctx, fixed, true)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.False(t, resaved.ExceptionApproved, "stale exception stamp must be cleared")
	assert.Empty(t, resaved.ExceptionNotes)
}

func TestService_ValidateAndSave_InvertedTimes_HardError(t *testing.T) {
	svc, _ := newTestService()

	entry := shift(t, "emp-1", "2025-06-04", "17:00", "09:00")
	_, _, err := svc.ValidateAndSave(context.Background(), entry, false)

	var rangeErr *schedule.TimeRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeRange)
}

// =============================================================================
// DAY-BATCH SAVE
// =============================================================================

func TestService_ValidateAndSaveDay_StampsDateAndBuildsSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		withSkills(shift(t, "emp-1", "2025-06-01", "09:00", "13:00"), "cashier"),
		shift(t, "emp-2", "2025-06-01", "13:00", "17:00"),
	}

	saved, verdict, summary, err := svc.ValidateAndSaveDay(ctx, date, entries)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	require.Len(t, saved, 2)
	for _, e := range saved {
		assert.Equal(t, date, e.Date, "batch date overrides per-entry dates")
		assert.NotEmpty(t, e.ID)
	}

	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalSchedules)
	assert.Equal(t, 2, summary.UniqueEmployees)
	assert.Equal(t, "8", summary.TotalHours.String())
	assert.Equal(t, 0, summary.SchedulesWithExceptions)
}

func TestService_ValidateAndSaveDay_InvalidBatchStampsAllEntries(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		shift(t, "emp-2", "2025-06-04", "08:00", "20:00"),
		shift(t, "emp-2", "2025-06-04", "09:00", "21:00"),
	}

	saved, verdict, summary, err := svc.ValidateAndSaveDay(ctx, date, entries)
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	for _, e := range saved {
		assert.True(t, e.ExceptionApproved, "every entry in an invalid batch is stamped")
		assert.Contains(t, e.ExceptionNotes, schedule.ExceptionLabelDaily)
	}
	assert.Equal(t, 2, summary.SchedulesWithExceptions)
}

// employeeReadCounter counts FindEmployee calls passing through to the
// underlying store.
type employeeReadCounter struct {
	*store.Memory
	reads int
}

func (c *employeeReadCounter) FindEmployee(ctx context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	c.reads++
	return c.Memory.FindEmployee(ctx, id)
}

func TestService_ValidateAndSaveDay_ResolvesEachEmployeeOnce(t *testing.T) {
	// GIVEN: A day batch with two distinct employees, one with a split shift
	// WHEN: Saved through the service
	// THEN: Each employee is fetched exactly once; the summary reuses the
	//       roster resolved during validation

	_, mem := newTestValidator()
	counter := &employeeReadCounter{Memory: mem}
	svc := schedule.NewService(counter)
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		withSkills(shift(t, "emp-1", "2025-06-04", "08:00", "12:00"), "cashier"),
		withSkills(shift(t, "emp-1", "2025-06-04", "13:00", "17:00"), "cashier"),
		withSkills(shift(t, "emp-2", "2025-06-04", "09:00", "13:00"), "cashier"),
	}

	saved, verdict, summary, err := svc.ValidateAndSaveDay(ctx, date, entries)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.Len(t, saved, 3)
	assert.Equal(t, 2, summary.UniqueEmployees)
	assert.Equal(t, 2, counter.reads, "one repository read per distinct employee")
}

// =============================================================================
// WEEK-BATCH SAVE
// =============================================================================

func TestService_ValidateAndSaveWeek_ValidBatchPersisted(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		{EmployeeID: "emp-1", Date: "2025-06-03", ScheduledStart: "09:00", ScheduledEnd: "17:00", StatusID: "scheduled"},
		{EmployeeID: "emp-1", Date: "2025-06-04", ScheduledStart: "09:00", ScheduledEnd: "13:00", StatusID: "scheduled"},
	})

	saved, verdict, summary, err := svc.ValidateAndSaveWeek(ctx, batch)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	require.Len(t, saved, 2)

	require.NotNil(t, summary)
	assert.Equal(t, "passed", summary.ValidationStatus)
	assert.Equal(t, 2, summary.UniqueDates)
	assert.Equal(t, "12", summary.TotalHours.String())
	assert.Equal(t, "2025-06-03", summary.WeekStart.String())
	assert.Equal(t, "2025-06-04", summary.WeekEnd.String())

	persisted, err := mem.ListEntries(ctx, "emp-1", mustDate(t, "2025-06-03"), mustDate(t, "2025-06-09"))
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestService_ValidateAndSaveWeek_InvalidBatchStampedWeeklyLabel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		{EmployeeID: "emp-2", Date: "2025-06-03", ScheduledStart: "08:00", ScheduledEnd: "20:00", StatusID: "scheduled"},
		{EmployeeID: "emp-2", Date: "2025-06-04", ScheduledStart: "08:00", ScheduledEnd: "20:00", StatusID: "scheduled"},
	})

	saved, verdict, summary, err := svc.ValidateAndSaveWeek(ctx, batch)
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	for _, e := range saved {
		assert.True(t, e.ExceptionApproved)
		assert.Contains(t, e.ExceptionNotes, schedule.ExceptionLabelWeekly)
	}
	assert.Equal(t, "failed", summary.ValidationStatus)
}

func TestService_ValidateAndSaveWeek_SpanRejection_NothingPersisted(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	var inputs []schedule.EntryInput
	for day := 0; day < 8; day++ {
		inputs = append(inputs, schedule.EntryInput{
			EmployeeID:     "emp-1",
			Date:           mustDate(t, "2025-06-03").AddDays(day).String(),
			ScheduledStart: "09:00",
			ScheduledEnd:   "13:00",
			StatusID:       "scheduled",
		})
	}

	saved, verdict, summary, err := svc.ValidateAndSaveWeek(ctx, schedule.NewFlatBatch(inputs))
	require.NoError(t, err)

	assert.Nil(t, saved)
	assert.Nil(t, summary)
	require.False(t, verdict.Valid)

	persisted, err := mem.ListEntries(ctx, "emp-1",
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-30"))
	require.NoError(t, err)
	assert.Empty(t, persisted, "a rejected batch leaves no partial writes")
}

// =============================================================================
// REPORTING
// =============================================================================

func TestService_WeeklySummary(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	actualStart := schedule.MustParseTimeOfDay("09:05")
	actualEnd := schedule.MustParseTimeOfDay("17:05")
	entry := shift(t, "emp-1", "2025-06-04", "09:00", "17:00")
	entry.ActualStart = &actualStart
	entry.ActualEnd = &actualEnd

	_, err := mem.SaveEntries(ctx, []*schedule.ShiftEntry{
		entry,
		shift(t, "emp-1", "2025-06-05", "10:00", "16:00"),
		// Next week: out of scope for the summary.
		shift(t, "emp-1", "2025-06-10", "09:00", "17:00"),
	})
	require.NoError(t, err)

	summary, err := svc.WeeklySummary(ctx, "emp-1", mustDate(t, "2025-06-06"))
	require.NoError(t, err)

	assert.Equal(t, "2025-06-03", summary.Week.Start.String())
	assert.Equal(t, "2025-06-09", summary.Week.End.String())
	assert.Len(t, summary.Entries, 2)
	assert.Equal(t, "14", summary.TotalScheduledHours.String())
	assert.Equal(t, "8", summary.TotalActualHours.String())
	assert.Equal(t, "26", summary.HoursRemaining.String())
	assert.False(t, summary.OverLimit)
}

func TestService_WeeklySummary_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.WeeklySummary(context.Background(), "emp-ghost", mustDate(t, "2025-06-06"))
	assert.ErrorIs(t, err, schedule.ErrEmployeeNotFound)
}

func TestService_DayCoverage(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	_, err := mem.SaveEntries(ctx, []*schedule.ShiftEntry{
		shift(t, "emp-1", "2025-06-04", "09:00", "17:00"),
	})
	require.NoError(t, err)

	report, err := svc.DayCoverage(ctx, mustDate(t, "2025-06-04"), skillIDs("cashier", "kitchen"))
	require.NoError(t, err)

	assert.Equal(t, skillIDs("cashier"), report.Coverage.Covered)
	assert.Equal(t, skillIDs("kitchen"), report.Coverage.Missing)
	assert.False(t, report.Coverage.FullyCovered())
}

func TestService_DayCoverage_DefaultsToRosterRequirements(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	_, err := mem.SaveEntries(ctx, []*schedule.ShiftEntry{
		withSkills(shift(t, "emp-1", "2025-06-04", "09:00", "17:00"), "cashier", "kitchen"),
	})
	require.NoError(t, err)

	report, err := svc.DayCoverage(ctx, mustDate(t, "2025-06-04"), nil)
	require.NoError(t, err)

	assert.Equal(t, skillIDs("cashier", "kitchen"), report.Coverage.Required)
	assert.Equal(t, skillIDs("kitchen"), report.Coverage.Missing)
}
