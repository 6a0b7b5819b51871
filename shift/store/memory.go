// Package store provides in-memory shift.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/CLI)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	profile *shift.Profile
	days    shift.Shifts
}

func NewMemory() *Memory {
	return &Memory{days: shift.Shifts{}}
}

// NewMemoryFromState seeds a store with an existing state, e.g. one decoded
// from a JSON export.
func NewMemoryFromState(st shift.State) *Memory {
	m := NewMemory()
	p := st.Profile
	m.profile = &p
	for date, rec := range st.Shifts {
		if rec.Date == "" {
			rec.Date = date
		}
		m.days[rec.Date] = rec.Clone()
	}
	return m
}

func (m *Memory) LoadState(_ context.Context) (shift.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := shift.NewState()
	if m.profile != nil {
		st.Profile = *m.profile
	}
	st.Shifts = m.days.Clone()
	return st, nil
}

func (m *Memory) SaveProfile(_ context.Context, p shift.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &p
	return nil
}

func (m *Memory) SaveDay(_ context.Context, rec shift.DayRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[rec.Date] = rec.Clone()
	return nil
}

// ImportDays validates every record before writing any.
func (m *Memory) ImportDays(_ context.Context, recs []shift.DayRecord) error {
	if err := shift.ValidateAll(recs); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		m.days[rec.Date] = rec.Clone()
	}
	return nil
}

func (m *Memory) GetDay(_ context.Context, date string) (shift.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.days[date]
	if !ok {
		return shift.DayRecord{}, generic.ErrDayNotFound
	}
	return rec.Clone(), nil
}

func (m *Memory) LoadRange(_ context.Context, from, to generic.TimePoint) (shift.Shifts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	span := generic.Period{Start: from, End: to}
	out := shift.Shifts{}
	for _, day := range span.Days() {
		if rec, ok := m.days.Get(day); ok {
			out[day.Key()] = rec.Clone()
		}
	}
	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = nil
	m.days = shift.Shifts{}
	return nil
}

var _ shift.Store = (*Memory)(nil)
