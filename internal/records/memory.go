package records

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"sync"
	"time"
)

type memoryTable struct {
	rows   map[string]Record
	nextID int64
}

// InMemoryRepository is used when no database is configured. Missing primary
// keys are assigned from a per-table counter.
type InMemoryRepository struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
	now    func() time.Time
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tables: make(map[string]*memoryTable), now: time.Now}
}

func (m *InMemoryRepository) table(name string) *memoryTable {
	t, ok := m.tables[name]
	if !ok {
		t = &memoryTable{rows: make(map[string]Record)}
		m.tables[name] = t
	}
	return t
}

func key(v any) string {
	return fmt.Sprint(v)
}

func (m *InMemoryRepository) List(_ context.Context, res Resource, filter map[string]string) ([]Record, error) {
	for col := range filter {
		if !res.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, res.Table, col)
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[res.Table]
	if !ok {
		return []Record{}, nil
	}
	out := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		match := true
		for col, want := range filter {
			if key(row[col]) != want {
				match = false
				break
			}
		}
		if match {
			out = append(out, maps.Clone(row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessKey(out[i][res.PrimaryKey], out[j][res.PrimaryKey])
	})
	return out, nil
}

func lessKey(a, b any) bool {
	ai, aerr := strconv.ParseInt(key(a), 10, 64)
	bi, berr := strconv.ParseInt(key(b), 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return key(a) < key(b)
}

func (m *InMemoryRepository) Create(_ context.Context, res Resource, rec Record) (Record, error) {
	if _, err := rec.columns(res); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table(res.Table)
	row := maps.Clone(rec)
	if v, ok := row[res.PrimaryKey]; !ok || v == nil || key(v) == "" {
		t.nextID++
		row[res.PrimaryKey] = t.nextID
	}
	if res.HasColumn("created_at") {
		if _, ok := row["created_at"]; !ok {
			row["created_at"] = m.now().UTC()
		}
	}
	id := key(row[res.PrimaryKey])
	if _, exists := t.rows[id]; exists {
		return nil, fmt.Errorf("%w: %s %s", ErrDuplicateKey, res.Table, id)
	}
	t.rows[id] = row
	return maps.Clone(row), nil
}

func (m *InMemoryRepository) Get(_ context.Context, res Resource, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[res.Table]
	if !ok {
		return nil, ErrNotFound
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(row), nil
}

func (m *InMemoryRepository) Update(_ context.Context, res Resource, id string, rec Record) (Record, error) {
	if _, err := rec.columns(res); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table(res.Table)
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := maps.Clone(row)
	maps.Copy(updated, rec)
	newID := key(updated[res.PrimaryKey])
	if newID != id {
		if _, taken := t.rows[newID]; taken {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateKey, res.Table, newID)
		}
		delete(t.rows, id)
	}
	t.rows[newID] = updated
	return maps.Clone(updated), nil
}

func (m *InMemoryRepository) Delete(_ context.Context, res Resource, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[res.Table]; ok {
		delete(t.rows, id)
	}
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
