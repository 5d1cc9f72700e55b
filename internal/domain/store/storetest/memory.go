// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
)

type Call struct {
	Op     string
	Table  string
	ID     string
	Fields map[string]any
	Values []string
}

// Memory keeps rows as JSON-shaped maps. Fail injects an error for a given
// "op:table:id" key (op is update, delete or insert; insert keys use the
// inserted id).
type Memory struct {
	tables map[string][]map[string]any
	Fail   map[string]error
	Calls  []Call
}

func NewMemory() *Memory {
	return &Memory{
		tables: map[string][]map[string]any{},
		Fail:   map[string]error{},
	}
}

// Seed adds rows (structs or maps) to a table.
func (m *Memory) Seed(table string, rows ...any) {
	for _, r := range rows {
		raw, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var row map[string]any
		if err := json.Unmarshal(raw, &row); err != nil {
			panic(err)
		}
		m.tables[table] = append(m.tables[table], row)
	}
}

// Rows returns a copy of a table's rows ordered by id.
func (m *Memory) Rows(table string) []map[string]any {
	rows := append([]map[string]any(nil), m.tables[table]...)
	sort.SliceStable(rows, func(i, j int) bool {
		return idOf(rows[i]) < idOf(rows[j])
	})
	return rows
}

func (m *Memory) Row(table, id string) (map[string]any, bool) {
	for _, r := range m.tables[table] {
		if idOf(r) == id {
			return r, true
		}
	}
	return nil, false
}

// Writes counts every mutating call, successful or not.
func (m *Memory) Writes() int {
	n := 0
	for _, c := range m.Calls {
		if c.Op != "select" {
			n++
		}
	}
	return n
}

func (m *Memory) WritesTo(table string) int {
	n := 0
	for _, c := range m.Calls {
		if c.Op != "select" && c.Table == table {
			n++
		}
	}
	return n
}

func (m *Memory) Select(_ context.Context, table string, filter store.Filter, dest any) error {
	m.Calls = append(m.Calls, Call{Op: "select", Table: table})

	var out []map[string]any
	for _, r := range m.Rows(table) {
		if matches(r, filter) {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []map[string]any{}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (m *Memory) Update(_ context.Context, table, id string, fields map[string]any) error {
	m.Calls = append(m.Calls, Call{Op: "update", Table: table, ID: id, Fields: fields})
	if err := m.Fail["update:"+table+":"+id]; err != nil {
		return err
	}
	row, ok := m.Row(table, id)
	if !ok {
		return fmt.Errorf("update %s/%s: %w", table, id, store.ErrNotFound)
	}
	for k, v := range normalize(fields) {
		row[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, table, id string) error {
	m.Calls = append(m.Calls, Call{Op: "delete", Table: table, ID: id})
	if err := m.Fail["delete:"+table+":"+id]; err != nil {
		return err
	}
	rows := m.tables[table]
	for i, r := range rows {
		if idOf(r) == id {
			m.tables[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s/%s: %w", table, id, store.ErrNotFound)
}

func (m *Memory) Insert(_ context.Context, table string, fields map[string]any) error {
	id := fmt.Sprint(fields["id"])
	m.Calls = append(m.Calls, Call{Op: "insert", Table: table, ID: id, Fields: fields})
	if err := m.Fail["insert:"+table+":"+id]; err != nil {
		return err
	}
	m.tables[table] = append(m.tables[table], normalize(fields))
	return nil
}

func (m *Memory) DeleteIn(_ context.Context, table, column string, values []string) (int64, error) {
	m.Calls = append(m.Calls, Call{Op: "delete_in", Table: table, Values: values})
	if err := m.Fail["delete_in:"+table+":"+column]; err != nil {
		return 0, err
	}
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	var kept []map[string]any
	var n int64
	for _, r := range m.tables[table] {
		if want[fmt.Sprint(r[column])] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return n, nil
}

func matches(r map[string]any, f store.Filter) bool {
	for k, v := range f.Eq {
		if fmt.Sprint(r[k]) != fmt.Sprint(v) {
			return false
		}
	}
	for k, values := range f.In {
		found := false
		for _, v := range values {
			if fmt.Sprint(r[k]) == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize round-trips values through JSON so stored rows look the same
// whether they were seeded from structs or written as field maps.
func normalize(fields map[string]any) map[string]any {
	raw, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func idOf(r map[string]any) string {
	return fmt.Sprint(r["id"])
}

var _ store.Store = (*Memory)(nil)
