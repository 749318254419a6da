/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements schedule.Repository using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:             Employee records
  employee_skills:       Employee-to-skill links with proficiency rating
  skills:                Skill reference data
  statuses:              Status reference data
  schedule_preferences:  Weekly-hour caps per employee
  daily_schedules:       Shift entries (the validated unit)
  daily_schedule_skills: Required-skill links per entry

IDENTITY:
  New shift entries receive a UUID on first save. Updates are keyed by that
  identity; the required-skill associations are synced (delete + insert)
  inside the same transaction.

DECIMAL HOURS:
  Scheduled hours are stored as decimal text and summed with
  decimal.Decimal in Go, never as REAL, so cap comparisons are exact.

INDEXES:
  - idx_schedules_employee_date: Weekly-hours aggregation (hot path)
  - idx_schedules_date:          Day-roster queries for skill coverage

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := schedule.NewService(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - schedule/repository.go: Interface definition
  - schedule/store/memory.go: In-memory implementation for engine tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/schedule"
)

// Store implements schedule.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS statuses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employee_skills (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		skill_id TEXT NOT NULL REFERENCES skills(id),
		rating INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, skill_id)
	);

	CREATE TABLE IF NOT EXISTS schedule_preferences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		maximum_hours INTEGER NOT NULL,
		employment_type TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_preferences_employee
		ON schedule_preferences(employee_id);

	-- Shift entries. Scheduled hours are denormalized as decimal text so
	-- weekly sums never re-derive durations from the time columns.
	CREATE TABLE IF NOT EXISTS daily_schedules (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date_of_day TEXT NOT NULL,
		scheduled_start_time TEXT NOT NULL,
		scheduled_end_time TEXT NOT NULL,
		actual_start_time TEXT,
		actual_end_time TEXT,
		scheduled_hours TEXT NOT NULL,
		vci BOOLEAN NOT NULL DEFAULT FALSE,
		status_id TEXT NOT NULL DEFAULT '',
		agree_on_exception BOOLEAN NOT NULL DEFAULT FALSE,
		exception_notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_employee_date
		ON daily_schedules(employee_id, date_of_day);

	CREATE INDEX IF NOT EXISTS idx_schedules_date
		ON daily_schedules(date_of_day);

	CREATE TABLE IF NOT EXISTS daily_schedule_skills (
		schedule_id TEXT NOT NULL REFERENCES daily_schedules(id),
		skill_id TEXT NOT NULL REFERENCES skills(id),
		is_required BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (schedule_id, skill_id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES AND REFERENCE DATA
// =============================================================================

// FindEmployee loads an employee with skills and scheduling preference.
func (s *Store) FindEmployee(ctx context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp := &schedule.Employee{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT full_name FROM employees WHERE id = ?", string(id),
	).Scan(&emp.FullName)
	if err == sql.ErrNoRows {
		return nil, &schedule.EmployeeNotFoundError{EmployeeID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT skill_id, rating FROM employee_skills WHERE employee_id = ? ORDER BY skill_id",
		string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query employee skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sr schedule.SkillRating
		var skillID string
		if err := rows.Scan(&skillID, &sr.Rating); err != nil {
			return nil, err
		}
		sr.SkillID = schedule.SkillID(skillID)
		emp.Skills = append(emp.Skills, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// At most one preference record is consulted.
	var pref schedule.SchedulePreference
	err = s.db.QueryRowContext(ctx,
		`SELECT maximum_hours, employment_type FROM schedule_preferences
		 WHERE employee_id = ? ORDER BY created_at ASC LIMIT 1`,
		string(id),
	).Scan(&pref.MaximumHours, &pref.EmploymentType)
	switch err {
	case nil:
		emp.Preference = &pref
	case sql.ErrNoRows:
		// No preference: the engine applies the organizational default.
	default:
		return nil, fmt.Errorf("failed to query schedule preference: %w", err)
	}

	return emp, nil
}

// FindSkills resolves display names; unknown identifiers are omitted.
func (s *Store) FindSkills(ctx context.Context, ids []schedule.SkillID) ([]schedule.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM skills WHERE id IN ("+placeholders+") ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var out []schedule.Skill
	for rows.Next() {
		var sk schedule.Skill
		var id string
		if err := rows.Scan(&id, &sk.Name); err != nil {
			return nil, err
		}
		sk.ID = schedule.SkillID(id)
		out = append(out, sk)
	}
	return out, rows.Err()
}

// SaveEmployee upserts an employee and replaces their skill links and
// preference record.
func (s *Store) SaveEmployee(ctx context.Context, emp *schedule.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO employees (id, full_name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET full_name = excluded.full_name`,
		string(emp.ID), emp.FullName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM employee_skills WHERE employee_id = ?", string(emp.ID)); err != nil {
		return err
	}
	for _, sr := range emp.Skills {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employee_skills (employee_id, skill_id, rating) VALUES (?, ?, ?)",
			string(emp.ID), string(sr.SkillID), sr.Rating); err != nil {
			return fmt.Errorf("failed to save employee skill: %w", err)
		}
	}

	if emp.Preference != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM schedule_preferences WHERE employee_id = ?", string(emp.ID)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_preferences (id, employee_id, maximum_hours, employment_type, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), string(emp.ID), emp.Preference.MaximumHours,
			emp.Preference.EmploymentType, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to save schedule preference: %w", err)
		}
	}

	return tx.Commit()
}

// SaveSkill upserts reference data.
func (s *Store) SaveSkill(ctx context.Context, sk schedule.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		string(sk.ID), sk.Name)
	return err
}

// SaveStatus upserts reference data.
func (s *Store) SaveStatus(ctx context.Context, st schedule.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statuses (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		string(st.ID), st.Name)
	return err
}

// ListEmployees returns all employees without skills or preferences.
func (s *Store) ListEmployees(ctx context.Context) ([]*schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, full_name FROM employees ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Employee
	for rows.Next() {
		var id string
		emp := &schedule.Employee{}
		if err := rows.Scan(&id, &emp.FullName); err != nil {
			return nil, err
		}
		emp.ID = schedule.EmployeeID(id)
		out = append(out, emp)
	}
	return out, rows.Err()
}

// ListSkills returns all skill reference data.
func (s *Store) ListSkills(ctx context.Context) ([]schedule.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM skills ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var out []schedule.Skill
	for rows.Next() {
		var sk schedule.Skill
		var id string
		if err := rows.Scan(&id, &sk.Name); err != nil {
			return nil, err
		}
		sk.ID = schedule.SkillID(id)
		out = append(out, sk)
	}
	return out, rows.Err()
}

// ListStatuses returns all status reference data.
func (s *Store) ListStatuses(ctx context.Context) ([]schedule.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM statuses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var out []schedule.Status
	for rows.Next() {
		var st schedule.Status
		var id string
		if err := rows.Scan(&id, &st.Name); err != nil {
			return nil, err
		}
		st.ID = schedule.StatusID(id)
		out = append(out, st)
	}
	return out, rows.Err()
}

// =============================================================================
// SHIFT ENTRIES (schedule.Repository)
// =============================================================================

const entryColumns = `id, employee_id, date_of_day, scheduled_start_time, scheduled_end_time,
	actual_start_time, actual_end_time, vci, status_id, agree_on_exception, exception_notes,
	created_at, updated_at`

// SaveEntries persists a batch atomically: new entries receive a UUID,
// existing ones are updated in place, and each entry's required-skill links
// are synced inside the same transaction.
func (s *Store) SaveEntries(ctx context.Context, entries []*schedule.ShiftEntry) ([]*schedule.ShiftEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	saved := make([]*schedule.ShiftEntry, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = schedule.EntryID(uuid.NewString())
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_schedules
			(id, employee_id, date_of_day, scheduled_start_time, scheduled_end_time,
			 actual_start_time, actual_end_time, scheduled_hours, vci, status_id,
			 agree_on_exception, exception_notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				employee_id = excluded.employee_id,
				date_of_day = excluded.date_of_day,
				scheduled_start_time = excluded.scheduled_start_time,
				scheduled_end_time = excluded.scheduled_end_time,
				actual_start_time = excluded.actual_start_time,
				actual_end_time = excluded.actual_end_time,
				scheduled_hours = excluded.scheduled_hours,
				vci = excluded.vci,
				status_id = excluded.status_id,
				agree_on_exception = excluded.agree_on_exception,
				exception_notes = excluded.exception_notes,
				updated_at = excluded.updated_at`,
			string(e.ID),
			string(e.EmployeeID),
			e.Date.String(),
			e.ScheduledStart.String(),
			e.ScheduledEnd.String(),
			nullTime(e.ActualStart),
			nullTime(e.ActualEnd),
			e.ScheduledHours().String(),
			e.VCI,
			string(e.StatusID),
			e.ExceptionApproved,
			nullString(e.ExceptionNotes),
			now,
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to save schedule entry: %w", err)
		}

		// Sync required-skill associations.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM daily_schedule_skills WHERE schedule_id = ?", string(e.ID)); err != nil {
			return nil, err
		}
		for _, skillID := range e.RequiredSkills {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO daily_schedule_skills (schedule_id, skill_id) VALUES (?, ?)",
				string(e.ID), string(skillID)); err != nil {
				return nil, fmt.Errorf("failed to save schedule skill: %w", err)
			}
		}

		saved[i] = e
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetEntry loads one entry with its required skills.
func (s *Store) GetEntry(ctx context.Context, id schedule.EntryID) (*schedule.ShiftEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM daily_schedules WHERE id = ?", string(id))
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, schedule.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadEntrySkills(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SumScheduledHours totals persisted scheduled hours in [from, to], minus
// exclusions.
func (s *Store) SumScheduledHours(ctx context.Context, id schedule.EmployeeID, from, to schedule.Date, exclude schedule.ExcludeFilter) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date_of_day, scheduled_hours FROM daily_schedules
		WHERE employee_id = ? AND date_of_day >= ? AND date_of_day <= ?`,
		string(id), from.String(), to.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query scheduled hours: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var entryID, dateStr, hoursStr string
		if err := rows.Scan(&entryID, &dateStr, &hoursStr); err != nil {
			return decimal.Zero, err
		}
		date, err := schedule.ParseDate(dateStr)
		if err != nil {
			return decimal.Zero, err
		}
		probe := &schedule.ShiftEntry{ID: schedule.EntryID(entryID), EmployeeID: id, Date: date}
		if exclude.Excludes(probe) {
			continue
		}
		hours, err := decimal.NewFromString(hoursStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt scheduled_hours for entry %s: %w", entryID, err)
		}
		total = total.Add(hours)
	}
	return total, rows.Err()
}

// ListEntries returns one employee's entries in [from, to], ordered by date
// then start time.
func (s *Store) ListEntries(ctx context.Context, id schedule.EmployeeID, from, to schedule.Date) ([]*schedule.ShiftEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM daily_schedules
		WHERE employee_id = ? AND date_of_day >= ? AND date_of_day <= ?
		ORDER BY date_of_day ASC, scheduled_start_time ASC`,
		string(id), from.String(), to.String())
}

// ListEntriesByDate returns the full roster for one date.
func (s *Store) ListEntriesByDate(ctx context.Context, date schedule.Date) ([]*schedule.ShiftEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM daily_schedules
		WHERE date_of_day = ?
		ORDER BY employee_id ASC, scheduled_start_time ASC`,
		date.String())
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]*schedule.ShiftEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var out []*schedule.ShiftEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range out {
		if err := s.loadEntrySkills(ctx, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanEntry(row rowScanner) (*schedule.ShiftEntry, error) {
	var (
		e                      schedule.ShiftEntry
		id, empID, dateStr     string
		startStr, endStr       string
		actStart, actEnd       sql.NullString
		statusID               string
		notes                  sql.NullString
		createdStr, updatedStr string
	)
	err := row.Scan(&id, &empID, &dateStr, &startStr, &endStr,
		&actStart, &actEnd, &e.VCI, &statusID, &e.ExceptionApproved, &notes,
		&createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}

	e.ID = schedule.EntryID(id)
	e.EmployeeID = schedule.EmployeeID(empID)
	e.StatusID = schedule.StatusID(statusID)
	e.ExceptionNotes = notes.String

	if e.Date, err = schedule.ParseDate(dateStr); err != nil {
		return nil, err
	}
	if e.ScheduledStart, err = schedule.ParseTimeOfDay(startStr); err != nil {
		return nil, err
	}
	if e.ScheduledEnd, err = schedule.ParseTimeOfDay(endStr); err != nil {
		return nil, err
	}
	if actStart.Valid {
		t, err := schedule.ParseTimeOfDay(actStart.String)
		if err != nil {
			return nil, err
		}
		e.ActualStart = &t
	}
	if actEnd.Valid {
		t, err := schedule.ParseTimeOfDay(actEnd.String)
		if err != nil {
			return nil, err
		}
		e.ActualEnd = &t
	}

	e.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return &e, nil
}

func (s *Store) loadEntrySkills(ctx context.Context, e *schedule.ShiftEntry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT skill_id FROM daily_schedule_skills WHERE schedule_id = ? ORDER BY skill_id",
		string(e.ID))
	if err != nil {
		return fmt.Errorf("failed to query schedule skills: %w", err)
	}
	defer rows.Close()

	e.RequiredSkills = nil
	for rows.Next() {
		var skillID string
		if err := rows.Scan(&skillID); err != nil {
			return err
		}
		e.RequiredSkills = append(e.RequiredSkills, schedule.SkillID(skillID))
	}
	return rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *schedule.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}
