// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Delimiter separates the tags of a tag-list cell.
const Delimiter = ","

// Well-known column names.
const (
	ColumnRoles   = "roles"
	ColumnRaces   = "races"
	ColumnSpecial = "special"
	ColumnGroup   = "group"
)

// TagList is the parsed form of a tag-list cell: trimmed, non-blank tokens in
// cell order.
type TagList []string

// ParseTagList splits a cell on the delimiter and trims every token. Blank
// tokens are dropped so that "a,,b" and "a, b" parse alike.
func ParseTagList(cell string) TagList {
	if strings.TrimSpace(cell) == "" {
		return TagList{}
	}

	parts := strings.Split(cell, Delimiter)
	tags := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Contains reports whether tag is one of the tokens. Comparison is exact and
// case-sensitive.
func (tl TagList) Contains(tag string) bool {
	return slices.Contains(tl, tag)
}

// ContainsAny reports whether any of tags is one of the tokens.
func (tl TagList) ContainsAny(tags ...string) bool {
	for _, tag := range tags {
		if tl.Contains(tag) {
			return true
		}
	}
	return false
}

// String joins the tags back into canonical cell form.
func (tl TagList) String() string {
	return strings.Join(tl, Delimiter)
}

// Row is a single record. Cells holds the raw value of every schema column;
// tags holds the parsed form of the table's tag-list columns.
type Row struct {
	Index int
	ID    string
	Name  string
	Cells map[string]string

	tags map[string]TagList
}

// Cell returns the raw value of column, or "" when the row has no such cell.
func (r Row) Cell(column string) string {
	return r.Cells[column]
}

// Tags returns the parsed tag list for column. Columns that were not indexed
// at construction are parsed on demand.
func (r Row) Tags(column string) TagList {
	if tl, ok := r.tags[column]; ok {
		return tl
	}
	return ParseTagList(r.Cells[column])
}

// Table is an ordered, immutable set of rows sharing a schema.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	tagColumns []string
}

// Option customizes table construction.
type Option func(*Table)

// WithTagColumns marks columns whose cells are tag lists. Those cells are
// parsed once at construction.
func WithTagColumns(columns ...string) Option {
	return func(t *Table) {
		for _, c := range columns {
			if !slices.Contains(t.tagColumns, c) {
				t.tagColumns = append(t.tagColumns, c)
			}
		}
	}
}

// New builds a table from a header and records. Each record is aligned to
// columns; short records are padded with empty cells and long ones truncated.
// The identifier and display name are taken from the "id" and "name" columns
// (case-insensitive). Without an id column the 1-based row number is used.
func New(name string, columns []string, records [][]string, opts ...Option) *Table {
	t := &Table{
		Name:    name,
		Columns: slices.Clone(columns),
	}
	for _, opt := range opts {
		opt(t)
	}

	idCol := t.lookup("id")
	nameCol := t.lookup("name")

	t.Rows = make([]Row, 0, len(records))
	for i, rec := range records {
		cells := make(map[string]string, len(t.Columns))
		for c, col := range t.Columns {
			if c < len(rec) {
				cells[col] = rec[c]
			} else {
				cells[col] = ""
			}
		}

		row := Row{Index: i, Cells: cells}
		if idCol != "" {
			row.ID = strings.TrimSpace(cells[idCol])
		} else {
			row.ID = strconv.Itoa(i + 1)
		}
		if nameCol != "" {
			row.Name = strings.TrimSpace(cells[nameCol])
		}
		t.index(&row)
		t.Rows = append(t.Rows, row)
	}

	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether column is part of the schema.
func (t *Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Column returns the raw cells of column in row order.
func (t *Table) Column(column string) []string {
	cells := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		cells[i] = r.Cells[column]
	}
	return cells
}

// Row returns the row with the given identifier.
func (t *Table) Row(id string) (Row, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Names maps identifiers to display names, keeping the order of ids and
// falling back to the identifier when it is unknown.
func (t *Table) Names(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := t.Row(id); ok && r.Name != "" {
			names = append(names, r.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// Select returns a new table holding the rows at the given positions, in the
// given order, with a dense 0-based index. Rows are shared, not copied; cells
// are never mutated after construction.
func (t *Table) Select(positions []int) *Table {
	out := &Table{
		Name:       t.Name,
		Columns:    t.Columns,
		Rows:       make([]Row, 0, len(positions)),
		tagColumns: t.tagColumns,
	}
	for i, p := range positions {
		row := t.Rows[p]
		row.Index = i
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Clone returns a re-indexed copy sharing the rows of t.
func (t *Table) Clone() *Table {
	positions := make([]int, len(t.Rows))
	for i := range positions {
		positions[i] = i
	}
	return t.Select(positions)
}

// Records returns the rows as string slices in schema order.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for c, col := range t.Columns {
			rec[c] = r.Cells[col]
		}
		records = append(records, rec)
	}
	return records
}

// Maps returns each row as a column→value map, the shape used by the output
// package.
func (t *Table) Maps() []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(t.Rows))
	for _, r := range t.Rows {
		m := make(map[string]interface{}, len(t.Columns))
		for _, col := range t.Columns {
			m[col] = r.Cells[col]
		}
		result = append(result, m)
	}
	return result
}

// String is a short description used in log lines.
func (t *Table) String() string {
	return fmt.Sprintf("%s(%d rows, %d columns)", t.Name, t.Len(), len(t.Columns))
}

func (t *Table) lookup(column string) string {
	for _, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), column) {
			return c
		}
	}
	return ""
}

func (t *Table) index(row *Row) {
	if len(t.tagColumns) == 0 {
		return
	}
	row.tags = make(map[string]TagList, len(t.tagColumns))
	for _, col := range t.tagColumns {
		row.tags[col] = ParseTagList(row.Cells[col])
	}
}
