// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio-backend-go/internal/store"
)

type cascade struct {
	child  string
	column string
}

// Memory keeps tables as slices of rows. Inserted rows get an increasing
// "id" (unless one is supplied) and created_at/updated_at, as Postgres
// column defaults would.
type Memory struct {
	mu       sync.Mutex
	tables   map[string][]store.Row
	nextID   map[string]int64
	cascades map[string][]cascade
	keyless  map[string]bool
	failures map[string]error
	calls    []string
	now      func() time.Time
}

func New() *Memory {
	return &Memory{
		tables:   map[string][]store.Row{},
		nextID:   map[string]int64{},
		cascades: map[string][]cascade{},
		keyless:  map[string]bool{},
		failures: map[string]error{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Cascade deletes rows of child whose column matches the id of a deleted
// parent row.
func (m *Memory) Cascade(parent, child, column string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cascades[parent] = append(m.cascades[parent], cascade{child: child, column: column})
	return m
}

// Keyless marks a table whose rows get no generated id, such as a join table.
func (m *Memory) Keyless(table string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyless[table] = true
	return m
}

// FailOn makes the next calls of op ("select", "insert", ...) on table fail.
func (m *Memory) FailOn(op, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+table] = err
}

func (m *Memory) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = map[string]error{}
}

// Calls lists "op:table" for every call made, in order.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Rows returns a copy of a table's rows.
func (m *Memory) Rows(table string) []store.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Row, 0, len(m.tables[table]))
	for _, row := range m.tables[table] {
		out = append(out, copyRow(row))
	}
	return out
}

func (m *Memory) Select(ctx context.Context, q store.Query, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("select", q.Table); err != nil {
		return err
	}
	matched := []store.Row{}
	for _, row := range m.tables[q.Table] {
		if matches(row, q.Filters) {
			matched = append(matched, row)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range q.Order {
			c := compare(matched[i][o.Column], matched[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return decode(matched, dest)
}

func (m *Memory) Insert(ctx context.Context, table string, rows []store.Row, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("insert", table); err != nil {
		return err
	}
	inserted := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		inserted = append(inserted, m.insertLocked(table, row))
	}
	return decode(inserted, dest)
}

func (m *Memory) Update(ctx context.Context, table string, values store.Row, filters []store.Filter, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("update", table); err != nil {
		return err
	}
	if len(filters) == 0 {
		return store.ErrEmptyFilter
	}
	updated := []store.Row{}
	for _, row := range m.tables[table] {
		if !matches(row, filters) {
			continue
		}
		for k, v := range values {
			row[k] = v
		}
		updated = append(updated, row)
	}
	return decode(updated, dest)
}

func (m *Memory) Upsert(ctx context.Context, table string, values store.Row, conflictColumn string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("upsert", table); err != nil {
		return err
	}
	for _, row := range m.tables[table] {
		if equal(row[conflictColumn], values[conflictColumn]) {
			for k, v := range values {
				row[k] = v
			}
			return decode([]store.Row{row}, dest)
		}
	}
	return decode([]store.Row{m.insertLocked(table, values)}, dest)
}

func (m *Memory) Delete(ctx context.Context, table string, filters []store.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("delete", table); err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, store.ErrEmptyFilter
	}
	return m.deleteLocked(table, filters), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enter("ping", "")
}

// InTx snapshots every table and restores the snapshot when fn fails.
func (m *Memory) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	m.mu.Lock()
	snapshot := map[string][]store.Row{}
	for table, rows := range m.tables {
		copied := make([]store.Row, len(rows))
		for i, row := range rows {
			copied[i] = copyRow(row)
		}
		snapshot[table] = copied
	}
	nextID := map[string]int64{}
	for k, v := range m.nextID {
		nextID[k] = v
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.tables = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

// WithoutTx hides the Transactor implementation of s.
func WithoutTx(s store.Store) store.Store {
	return noTx{s}
}

type noTx struct{ store.Store }

func (m *Memory) enter(op, table string) error {
	m.calls = append(m.calls, op+":"+table)
	if err, ok := m.failures[op+":"+table]; ok {
		return &store.Error{Op: op, Table: table, Err: err}
	}
	return nil
}

func (m *Memory) insertLocked(table string, values store.Row) store.Row {
	row := copyRow(values)
	if id, ok := toInt(row["id"]); ok {
		if id > m.nextID[table] {
			m.nextID[table] = id
		}
	} else if !m.keyless[table] {
		m.nextID[table]++
		row["id"] = m.nextID[table]
	}
	now := m.now()
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	if _, ok := row["updated_at"]; !ok {
		row["updated_at"] = now
	}
	m.tables[table] = append(m.tables[table], row)
	return row
}

func (m *Memory) deleteLocked(table string, filters []store.Filter) int64 {
	kept := m.tables[table][:0]
	removed := []store.Row{}
	for _, row := range m.tables[table] {
		if matches(row, filters) {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}
	m.tables[table] = kept
	for _, row := range removed {
		for _, c := range m.cascades[table] {
			m.deleteLocked(c.child, []store.Filter{store.Eq(c.column, row["id"])})
		}
	}
	return int64(len(removed))
}

func matches(row store.Row, filters []store.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case store.OpIn:
			found := false
			for _, v := range f.Values {
				if equal(row[f.Column], v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if !equal(row[f.Column], f.Values[0]) {
				return false
			}
		}
	}
	return true
}

func equal(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compare(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	f, ok := toFloat(v)
	return int64(f), ok
}

func copyRow(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func decode(rows []store.Row, dest any) error {
	if dest == nil {
		return nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}
