/*
main.go - Development database seeder

PURPOSE:
  Populates a SQLite database with reference data and a sample roster so
  the API has something to serve out of the box: skills, statuses, a small
  team with varying skill sets and weekly-hour caps, and one validated week
  of shifts.

USAGE:
  go run ./cmd/seed -db=./data/shifts.db -week=2025-06-03

  -db    SQLite database path (default shifts.db)
  -week  Any date inside the week to seed (default: today)

IDEMPOTENCE:
  Reference data is upserted, so re-running refreshes names in place.
  Shift entries are created fresh each run with new identities.

SEE ALSO:
  - store/sqlite/sqlite.go: Persistence
  - schedule/service.go: Validation pipeline the seed runs through
*/
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dbPath := flag.String("db", "shifts.db", "SQLite database path")
	weekDate := flag.String("week", time.Now().Format("2006-01-02"), "any date inside the week to seed")
	flag.Parse()

	anchor, err := schedule.ParseDate(*weekDate)
	if err != nil {
		log.Error("invalid -week date", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if err := seedReferenceData(ctx, store); err != nil {
		log.Error("failed to seed reference data", "error", err)
		os.Exit(1)
	}
	log.Info("reference data seeded")

	if err := seedEmployees(ctx, store); err != nil {
		log.Error("failed to seed employees", "error", err)
		os.Exit(1)
	}
	log.Info("employees seeded")

	saved, verdict, err := seedWeek(ctx, store, anchor)
	if err != nil {
		log.Error("failed to seed week", "error", err)
		os.Exit(1)
	}
	log.Info("week seeded",
		"entries", len(saved),
		"valid", verdict.Valid,
		"violations", len(verdict.Violations))
}

func seedReferenceData(ctx context.Context, store *sqlite.Store) error {
	skills := []schedule.Skill{
		{ID: "cashier", Name: "Cashier"},
		{ID: "barista", Name: "Barista"},
		{ID: "kitchen", Name: "Kitchen"},
		{ID: "shift-lead", Name: "Shift Lead"},
	}
	for _, sk := range skills {
		if err := store.SaveSkill(ctx, sk); err != nil {
			return err
		}
	}

	statuses := []schedule.Status{
		{ID: "scheduled", Name: "Scheduled"},
		{ID: "confirmed", Name: "Confirmed"},
		{ID: "completed", Name: "Completed"},
		{ID: "cancelled", Name: "Cancelled"},
	}
	for _, st := range statuses {
		if err := store.SaveStatus(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func seedEmployees(ctx context.Context, store *sqlite.Store) error {
	parttime := 24
	employees := []*schedule.Employee{
		{
			ID:       "emp-alice",
			FullName: "Alice Kowalski",
			Skills: []schedule.SkillRating{
				{SkillID: "cashier", Rating: 5},
				{SkillID: "shift-lead", Rating: 4},
			},
		},
		{
			ID:       "emp-bruno",
			FullName: "Bruno Martins",
			Skills: []schedule.SkillRating{
				{SkillID: "barista", Rating: 5},
				{SkillID: "cashier", Rating: 3},
			},
			Preference: &schedule.SchedulePreference{
				MaximumHours:   parttime,
				EmploymentType: "part_time",
			},
		},
		{
			ID:       "emp-chen",
			FullName: "Chen Wei",
			Skills: []schedule.SkillRating{
				{SkillID: "kitchen", Rating: 5},
				{SkillID: "barista", Rating: 2},
			},
		},
	}
	for _, emp := range employees {
		if err := store.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}

// seedWeek saves five weekday shifts through the full validation pipeline so
// the seeded data carries real verdict state.
func seedWeek(ctx context.Context, store *sqlite.Store, anchor schedule.Date) ([]*schedule.ShiftEntry, *schedule.Verdict, error) {
	svc := schedule.NewService(store)
	start := svc.Validator.Calendar.WeekStart(anchor)

	var inputs []schedule.EntryInput
	for day := 0; day < 5; day++ {
		date := start.AddDays(day).String()
		inputs = append(inputs,
			schedule.EntryInput{
				EmployeeID:     "emp-alice",
				Date:           date,
				ScheduledStart: "08:00",
				ScheduledEnd:   "14:00",
				StatusID:       "scheduled",
				RequiredSkills: []string{"cashier"},
			},
			schedule.EntryInput{
				EmployeeID:     "emp-bruno",
				Date:           date,
				ScheduledStart: "10:00",
				ScheduledEnd:   "14:00",
				StatusID:       "scheduled",
				RequiredSkills: []string{"barista"},
			},
			schedule.EntryInput{
				EmployeeID:     "emp-chen",
				Date:           date,
				ScheduledStart: "12:00",
				ScheduledEnd:   "18:00",
				StatusID:       "scheduled",
				RequiredSkills: []string{"kitchen"},
			},
		)
	}

	saved, verdict, _, err := svc.ValidateAndSaveWeek(ctx, schedule.NewFlatBatch(inputs))
	if err != nil {
		return nil, nil, err
	}
	return saved, verdict, nil
}
