// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"strings"

	"github.com/tfctl/rpgdex/internal/dataset"
)

// Mask holds one boolean per table row, in row order.
type Mask []bool

// RowHasTag reports whether the tag-list cell contains tag. The cell is split
// on the delimiter and each token trimmed; tag must already be trimmed. An
// empty cell contains nothing.
func RowHasTag(cell string, tag string) bool {
	return dataset.ParseTagList(cell).Contains(tag)
}

// BuildMask evaluates tag membership for every row of column.
func BuildMask(t *dataset.Table, column string, tag string) Mask {
	m := make(Mask, t.Len())
	for i, row := range t.Rows {
		m[i] = row.Tags(column).Contains(tag)
	}
	return m
}

// nonEmptyMask is true for every row whose column cell is not blank.
func nonEmptyMask(t *dataset.Table, column string) Mask {
	m := make(Mask, t.Len())
	for i, row := range t.Rows {
		m[i] = strings.TrimSpace(row.Cell(column)) != ""
	}
	return m
}

// Any combines masks with a per-row OR. It returns nil when no masks are
// given; callers treat that as "keep everything".
func Any(masks ...Mask) Mask {
	if len(masks) == 0 {
		return nil
	}
	out := make(Mask, len(masks[0]))
	for _, m := range masks {
		out = out.Or(m)
	}
	return out
}

// Or returns the per-row union of m and o. Both must cover the same table.
func (m Mask) Or(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || (i < len(o) && o[i])
	}
	return out
}

// And returns the per-row intersection of m and o.
func (m Mask) And(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && i < len(o) && o[i]
	}
	return out
}

// Count returns the number of true entries.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Apply returns a new table with the rows selected by m, in order, densely
// re-indexed.
func (m Mask) Apply(t *dataset.Table) *dataset.Table {
	positions := make([]int, 0, m.Count())
	for i, keep := range m {
		if keep && i < t.Len() {
			positions = append(positions, i)
		}
	}
	return t.Select(positions)
}
