// Package store provides Repository implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// MEMORY REPOSITORY - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[schedule.EmployeeID]*schedule.Employee
	skills    map[schedule.SkillID]schedule.Skill
	entries   map[schedule.EntryID]*schedule.ShiftEntry
	nextID    int
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[schedule.EmployeeID]*schedule.Employee),
		skills:    make(map[schedule.SkillID]schedule.Skill),
		entries:   make(map[schedule.EntryID]*schedule.ShiftEntry),
	}
}

// AddEmployee registers reference data for validation calls.
func (m *Memory) AddEmployee(emp *schedule.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
}

// AddSkill registers a skill for display-name resolution.
func (m *Memory) AddSkill(s schedule.Skill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills[s.ID] = s
}

func (m *Memory) FindEmployee(_ context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, &schedule.EmployeeNotFoundError{EmployeeID: id}
	}

	cp := *emp
	return &cp, nil
}

func (m *Memory) FindSkills(_ context.Context, ids []schedule.SkillID) ([]schedule.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schedule.Skill
	for _, id := range ids {
		if s, ok := m.skills[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) SumScheduledHours(_ context.Context, id schedule.EmployeeID, from, to schedule.Date, exclude schedule.ExcludeFilter) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, e := range m.entries {
		if e.EmployeeID != id {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if exclude.Excludes(e) {
			continue
		}
		total = total.Add(e.ScheduledHours())
	}
	return total, nil
}

// SaveEntries assigns identities to new entries and overwrites updated ones.
// All-or-nothing is trivial here; the sqlite implementation wraps a real
// transaction.
func (m *Memory) SaveEntries(_ context.Context, entries []*schedule.ShiftEntry) ([]*schedule.ShiftEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]*schedule.ShiftEntry, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			m.nextID++
			e.ID = schedule.EntryID(fmt.Sprintf("entry-%d", m.nextID))
		}
		cp := *e
		m.entries[e.ID] = &cp
		saved[i] = e
	}
	return saved, nil
}

func (m *Memory) ListEntries(_ context.Context, id schedule.EmployeeID, from, to schedule.Date) ([]*schedule.ShiftEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*schedule.ShiftEntry
	for _, e := range m.entries {
		if e.EmployeeID != id || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sortEntries(out)
	return out, nil
}

func (m *Memory) ListEntriesByDate(_ context.Context, date schedule.Date) ([]*schedule.ShiftEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*schedule.ShiftEntry
	for _, e := range m.entries {
		if !e.Date.Equal(date) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []*schedule.ShiftEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].EmployeeID != entries[j].EmployeeID {
			return entries[i].EmployeeID < entries[j].EmployeeID
		}
		return entries[i].ScheduledStart.Before(entries[j].ScheduledStart)
	})
}
