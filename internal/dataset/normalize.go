// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"slices"
	"strings"
)

// GroupSeparator is the separator the roles source uses between race ids in
// its group column.
const GroupSeparator = " | "

// NormalizeRoles renames the roles table's group column to races and rewrites
// its separator to the canonical delimiter. A table that already carries a
// races column is only re-delimited. The source table is left untouched.
func NormalizeRoles(t *Table) *Table {
	columns := slices.Clone(t.Columns)
	target := ColumnRaces

	if !slices.Contains(columns, ColumnRaces) {
		if i := slices.Index(columns, ColumnGroup); i >= 0 {
			columns[i] = ColumnRaces
		}
	}

	pos := slices.Index(columns, target)
	records := t.Records()
	if pos >= 0 {
		for _, rec := range records {
			rec[pos] = strings.ReplaceAll(rec[pos], GroupSeparator, Delimiter)
		}
	}

	return New(t.Name, columns, records, WithTagColumns(append(slices.Clone(t.tagColumns), target)...))
}

// EnsureColumns returns a table whose schema includes every column in
// columns; missing ones are appended with empty cells. The second result
// lists the columns that were added.
func EnsureColumns(t *Table, columns ...string) (*Table, []string) {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return t, nil
	}

	schema := append(slices.Clone(t.Columns), missing...)
	return New(t.Name, schema, t.Records(), WithTagColumns(t.tagColumns...)), missing
}

// Reindex returns t with the given tag columns parsed up front.
func Reindex(t *Table, tagColumns ...string) *Table {
	return New(t.Name, t.Columns, t.Records(), WithTagColumns(append(slices.Clone(t.tagColumns), tagColumns...)...))
}
