package schedule_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestValidator() (*schedule.Validator, *store.Memory) {
	mem := store.NewMemory()

	mem.AddSkill(schedule.Skill{ID: "cashier", Name: "Cashier"})
	mem.AddSkill(schedule.Skill{ID: "barista", Name: "Barista"})
	mem.AddSkill(schedule.Skill{ID: "kitchen", Name: "Kitchen"})

	mem.AddEmployee(&schedule.Employee{
		ID:       "emp-1",
		FullName: "Alice Kowalski",
		Skills: []schedule.SkillRating{
			{SkillID: "cashier", Rating: 5},
			{SkillID: "barista", Rating: 4},
		},
	})
	mem.AddEmployee(&schedule.Employee{
		ID:       "emp-2",
		FullName: "Bruno Martins",
		Skills:   []schedule.SkillRating{{SkillID: "cashier", Rating: 3}},
		Preference: &schedule.SchedulePreference{
			MaximumHours:   20,
			EmploymentType: "part_time",
		},
	})

	return schedule.NewValidator(mem), mem
}

func withSkills(e *schedule.ShiftEntry, ids ...string) *schedule.ShiftEntry {
	e.RequiredSkills = skillIDs(ids...)
	return e
}

// =============================================================================
// SINGLE-ENTRY VALIDATION
// =============================================================================

func TestValidateEntry_SkilledEmployeeWithinCap_Valid(t *testing.T) {
	// GIVEN: Employee holding both required skills, no prior hours, cap 40h
	// WHEN: Validating a 09:00-17:00 entry requiring those skills
	// THEN: Verdict is valid and the entry carries 8 scheduled hours

	v, _ := newTestValidator()
	ctx := context.Background()

	entry := withSkills(shift(t, "emp-1", "2025-06-04", "09:00", "17:00"), "cashier", "barista")

	verdict, err := v.ValidateEntry(ctx, entry, schedule.ExcludeFilter{})
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Violations)
	assert.Equal(t, "8", entry.ScheduledHours().String())
}

func TestValidateEntry_MissingSkill_NamedInViolation(t *testing.T) {
	// GIVEN: Employee without the kitchen skill
	// WHEN: Validating an entry requiring kitchen
	// THEN: The violation names the skill by display name

	v, _ := newTestValidator()
	ctx := context.Background()

	entry := withSkills(shift(t, "emp-2", "2025-06-04", "09:00", "13:00"), "cashier", "kitchen")

	verdict, err := v.ValidateEntry(ctx, entry, schedule.ExcludeFilter{})
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "Employee does not possess required skills: Kitchen", verdict.Violations[0].Message)
	assert.Equal(t, schedule.ViolationSkillGap, verdict.Violations[0].Kind)
	assert.Equal(t, skillIDs("kitchen"), verdict.Violations[0].SkillIDs)
}

func TestValidateEntry_ExactlyAtCap_Valid(t *testing.T) {
	// Hitting the cap exactly is allowed; one minute over is not.

	v, mem := newTestValidator()
	ctx := context.Background()

	// 32h already persisted this week for the 40h-capped employee.
	_, err := mem.SaveEntries(ctx, []*schedule.ShiftEntry{
		shift(t, "emp-1", "2025-06-03", "08:00", "20:00"),
		shift(t, "emp-1", "2025-06-04", "08:00", "20:00"),
		shift(t, "emp-1", "2025-06-05", "08:00", "16:00"),
	})
	require.NoError(t, err)

	atCap := shift(t, "emp-1", "2025-06-06", "08:00", "16:00")
	verdict, err := v.ValidateEntry(ctx, atCap, schedule.ExcludeFilter{})
	require.NoError(t, err)
	assert.True(t, verdict.Valid, "40h of 40h should pass")

	overCap := shift(t, "emp-1", "2025-06-06", "08:00", "16:01")
	verdict, err = v.ValidateEntry(ctx, overCap, schedule.ExcludeFilter{})
	require.NoError(t, err)
	require.False(t, verdict.Valid, "one minute over the cap should fail")
	assert.Equal(t, schedule.ViolationHoursCap, verdict.Violations[0].Kind)
}

func TestValidateEntry_UnknownEmployee_HardError(t *testing.T) {
	v, _ := newTestValidator()

	entry := shift(t, "emp-ghost", "2025-06-04", "09:00", "17:00")
	_, err := v.ValidateEntry(context.Background(), entry, schedule.ExcludeFilter{})

	var notFound *schedule.EmployeeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, schedule.EmployeeID("emp-ghost"), notFound.EmployeeID)
}

// =============================================================================
// DAY-BATCH VALIDATION
// =============================================================================

func TestValidateDay_HoursCapBreach_NamesEmployeeAndTotals(t *testing.T) {
	// GIVEN: Employee capped at 20h per week
	// WHEN: Submitting two 12h shifts on the same day
	// THEN: The violation names the employee and states 24h against the 20h cap

	v, _ := newTestValidator()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		shift(t, "emp-2", "2025-06-04", "08:00", "20:00"),
		shift(t, "emp-2", "2025-06-04", "08:00", "20:00"),
	}

	verdict, _, err := v.ValidateDay(ctx, date, entries, schedule.ExcludeFilter{})
	require.NoError(t, err)

	require.False(t, verdict.Valid)

	var capMsg string
	for _, viol := range verdict.Violations {
		if viol.Kind == schedule.ViolationHoursCap {
			capMsg = viol.Message
		}
	}
	assert.Equal(t, "Employee Bruno Martins: Weekly hours limit exceeded. Total: 24h, Maximum: 20h", capMsg)

	hours, ok := verdict.HoursSummary["emp-2"]
	require.True(t, ok)
	assert.True(t, hours.OverLimit)
	assert.Equal(t, "24", hours.TotalScheduledHours.String())
	assert.Equal(t, "20", hours.MaxWeeklyHours.String())
}

func TestValidateDay_OverlappingShifts_IdentifiedByInputOrder(t *testing.T) {
	// GIVEN: One employee with shifts 09:00-13:00 and 12:00-17:00 on one day
	// WHEN: Validating the day batch
	// THEN: The overlap is reported between entries 0 and 1, in input order

	v, _ := newTestValidator()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		shift(t, "emp-1", "2025-06-04", "09:00", "13:00"),
		shift(t, "emp-1", "2025-06-04", "12:00", "17:00"),
	}

	verdict, _, err := v.ValidateDay(ctx, date, entries, schedule.ExcludeFilter{})
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, verdict.Conflicts, 1)

	conflict := verdict.Conflicts[0]
	assert.Equal(t, schedule.EmployeeID("emp-1"), conflict.EmployeeID)
	require.Len(t, conflict.Pairs, 1)
	assert.Equal(t, 0, conflict.Pairs[0].FirstIndex)
	assert.Equal(t, 1, conflict.Pairs[0].SecondIndex)

	assert.Equal(t,
		"Employee ID emp-1 has overlapping shifts: Schedule #0 (09:00:00-13:00:00) overlaps with Schedule #1 (12:00:00-17:00:00)",
		verdict.Violations[0].Message)
}

func TestValidateDay_SplitShift_NoOverlap(t *testing.T) {
	// Touching endpoints are a legal split shift, not an overlap.

	v, _ := newTestValidator()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		shift(t, "emp-1", "2025-06-04", "09:00", "13:00"),
		shift(t, "emp-1", "2025-06-04", "13:00", "17:00"),
	}

	verdict, _, err := v.ValidateDay(ctx, date, entries, schedule.ExcludeFilter{})
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Conflicts)
}

func TestValidateDay_ChecksRunInFixedOrder(t *testing.T) {
	// Overlap violations come before skill violations, which come before
	// hours violations, regardless of which entries trigger them.

	v, _ := newTestValidator()
	ctx := context.Background()
	date := mustDate(t, "2025-06-04")

	entries := []*schedule.ShiftEntry{
		withSkills(shift(t, "emp-2", "2025-06-04", "08:00", "20:00"), "kitchen"),
		shift(t, "emp-2", "2025-06-04", "10:00", "22:00"),
	}

	verdict, _, err := v.ValidateDay(ctx, date, entries, schedule.ExcludeFilter{})
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, verdict.Violations, 3)
	assert.Equal(t, schedule.ViolationOverlap, verdict.Violations[0].Kind)
	assert.Equal(t, schedule.ViolationSkillGap, verdict.Violations[1].Kind)
	assert.Equal(t, schedule.ViolationHoursCap, verdict.Violations[2].Kind)

	// Per-entry skill violations carry the batch index.
	assert.Equal(t, "Schedule #0: Employee does not possess required skills: Kitchen",
		verdict.Violations[1].Message)
}

func TestValidateDay_EmptyBatch_Rejected(t *testing.T) {
	v, _ := newTestValidator()

	_, _, err := v.ValidateDay(context.Background(), mustDate(t, "2025-06-04"), nil, schedule.ExcludeFilter{})
	assert.ErrorIs(t, err, schedule.ErrEmptyBatch)
}

// =============================================================================
// WEEK-BATCH VALIDATION
// =============================================================================

func weekInput(employeeID, date, start, end string, skills ...string) schedule.EntryInput {
	return schedule.EntryInput{
		EmployeeID:     employeeID,
		Date:           date,
		ScheduledStart: start,
		ScheduledEnd:   end,
		StatusID:       "scheduled",
		RequiredSkills: skills,
	}
}

func TestValidateWeek_FullyCovered_Valid(t *testing.T) {
	v, _ := newTestValidator()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		weekInput("emp-1", "2025-06-03", "09:00", "17:00", "cashier"),
		weekInput("emp-2", "2025-06-04", "09:00", "13:00", "cashier"),
	})

	verdict, entries, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	require.Len(t, entries, 2)
	assert.Equal(t, mustDate(t, "2025-06-03"), entries[0].Date)

	cov, ok := verdict.SkillCoverage["2025-06-03"]
	require.True(t, ok)
	assert.True(t, cov.FullyCovered())
}

func TestValidateWeek_MissingCoverage_NamedByDisplayName(t *testing.T) {
	// GIVEN: A date whose roster covers only cashier
	// WHEN: Entries for that date require cashier and kitchen
	// THEN: The coverage violation names Kitchen by display name

	v, _ := newTestValidator()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		weekInput("emp-2", "2025-06-03", "09:00", "13:00", "cashier", "kitchen"),
	})

	verdict, _, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	assert.Equal(t, "Date 2025-06-03: Missing required skills - Kitchen", verdict.Violations[0].Message)

	cov := verdict.SkillCoverage["2025-06-03"]
	assert.Equal(t, skillIDs("kitchen"), cov.Missing)
}

func TestValidateWeek_SpanningTwoWeeks_RejectedBeforeOtherChecks(t *testing.T) {
	// GIVEN: A batch whose dates span 8 distinct days
	// WHEN: Validating the week
	// THEN: Only the span violation is reported and no entries are returned

	v, _ := newTestValidator()

	var inputs []schedule.EntryInput
	for day := 3; day <= 10; day++ {
		// emp-ghost would be a hard error if employee resolution ran.
		inputs = append(inputs, weekInput("emp-ghost",
			mustDate(t, "2025-06-03").AddDays(day-3).String(), "09:00", "13:00"))
	}

	verdict, entries, err := v.ValidateWeek(context.Background(), schedule.NewFlatBatch(inputs))
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "All schedule dates must fall within a single work week (7-day range).",
		verdict.Violations[0].Message)
	assert.Nil(t, entries, "rejected batch must not produce entries")
}

func TestValidateWeek_GroupedShape_DatePropagated(t *testing.T) {
	batch := schedule.NewGroupedBatch([]schedule.DayGroup{
		{Date: "2025-06-03", Entries: []schedule.EntryInput{
			weekInput("emp-1", "", "09:00", "17:00"),
		}},
		{Date: "2025-06-04", Entries: []schedule.EntryInput{
			weekInput("emp-1", "", "09:00", "13:00"),
		}},
	})

	v, _ := newTestValidator()
	verdict, entries, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-06-03", entries[0].Date.String())
	assert.Equal(t, "2025-06-04", entries[1].Date.String())
}

func TestValidateWeek_EmbeddedCapOverridesPreference(t *testing.T) {
	// emp-1 has no preference record (40h default), but the submitted batch
	// embeds a 10h cap that must take precedence.

	v, _ := newTestValidator()

	limit := 10
	input := weekInput("emp-1", "2025-06-03", "08:00", "20:00")
	input.Employee = &schedule.EmbeddedEmployee{ID: "emp-1", MaxWeeklyHours: &limit}

	verdict, _, err := v.ValidateWeek(context.Background(), schedule.NewFlatBatch([]schedule.EntryInput{input}))
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	assert.Equal(t, "Employee Alice Kowalski: Weekly hours limit exceeded. Scheduled: 12h, Maximum: 10h",
		verdict.Violations[0].Message)
}

func TestValidateWeek_MalformedTime_SoftStructuralViolation(t *testing.T) {
	// Unparseable times at week granularity are soft: recorded in the
	// verdict, appended after the business-rule checks, batch still parses.

	v, _ := newTestValidator()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		weekInput("emp-1", "2025-06-03", "09:00", "17:00"),
		weekInput("emp-1", "2025-06-04", "not-a-time", "17:00"),
	})

	verdict, entries, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, entries, 2)

	last := verdict.Violations[len(verdict.Violations)-1]
	assert.Equal(t, schedule.ViolationStructural, last.Kind)
	assert.Contains(t, last.Message, "Schedule entry 1:")
	assert.Contains(t, last.Message, "Invalid time format")
}

func TestValidateWeek_MissingRequiredField_Reported(t *testing.T) {
	v, _ := newTestValidator()

	input := weekInput("emp-1", "2025-06-03", "09:00", "17:00")
	input.StatusID = ""

	verdict, _, err := v.ValidateWeek(context.Background(), schedule.NewFlatBatch([]schedule.EntryInput{input}))
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	assert.Contains(t, verdict.Violations[0].Message, "Missing required field 'status_id'")
}

func TestValidateWeek_MissingEmployeeID_SoftViolation(t *testing.T) {
	// GIVEN: A week batch where one entry has a valid date but no employee_id
	// WHEN: Validating the batch
	// THEN: The missing field is a structural violation; coverage still runs
	//       for the date and every entry flows through for persistence

	v, _ := newTestValidator()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		weekInput("emp-1", "2025-06-03", "09:00", "17:00", "cashier"),
		weekInput("", "2025-06-03", "10:00", "14:00", "cashier"),
	})

	verdict, entries, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	require.False(t, verdict.Valid)
	require.Len(t, entries, 2)

	var structural []string
	for _, viol := range verdict.Violations {
		if viol.Kind == schedule.ViolationStructural {
			structural = append(structural, viol.Message)
		}
	}
	require.Len(t, structural, 1)
	assert.Equal(t, "Schedule entry 1: Missing required field 'employee_id'", structural[0])

	// The resolvable employee still backs the date's coverage evaluation.
	cov, ok := verdict.SkillCoverage["2025-06-03"]
	require.True(t, ok)
	assert.Empty(t, cov.Missing)
}

func TestValidateWeek_OverlapPerEmployeePerDate(t *testing.T) {
	v, _ := newTestValidator()

	batch := schedule.NewFlatBatch([]schedule.EntryInput{
		weekInput("emp-1", "2025-06-03", "09:00", "13:00"),
		weekInput("emp-1", "2025-06-03", "12:00", "17:00"),
		// Same times next day: no cross-date overlap.
		weekInput("emp-1", "2025-06-04", "09:00", "13:00"),
	})

	verdict, _, err := v.ValidateWeek(context.Background(), batch)
	require.NoError(t, err)

	require.False(t, verdict.Valid)

	var overlapMsgs []string
	for _, viol := range verdict.Violations {
		if viol.Kind == schedule.ViolationOverlap {
			overlapMsgs = append(overlapMsgs, viol.Message)
		}
	}
	require.Len(t, overlapMsgs, 1)
	assert.Equal(t, "Employee Alice Kowalski has overlapping schedules on 2025-06-03", overlapMsgs[0])

	require.Len(t, verdict.Conflicts, 1)
	require.Len(t, verdict.Conflicts[0].Pairs, 1)
	assert.Equal(t, 0, verdict.Conflicts[0].Pairs[0].FirstIndex)
	assert.Equal(t, 1, verdict.Conflicts[0].Pairs[0].SecondIndex)
}
