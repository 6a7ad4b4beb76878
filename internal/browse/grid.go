// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tfctl/rpgdex/internal/dataset"
)

// DefaultPerRow is the number of toggles on one grid line.
const DefaultPerRow = 12

// Item is one toggle of a Grid.
type Item struct {
	ID   string
	Name string
}

// Grid is a row-wrapped set of toggles with a cursor. Selected ids are kept
// in the order they were toggled on.
type Grid struct {
	Items  []Item
	PerRow int

	cursor   int
	selected []string
}

// NewGrid builds a grid with one toggle per row of t.
func NewGrid(t *dataset.Table, perRow int) Grid {
	if perRow <= 0 {
		perRow = DefaultPerRow
	}

	g := Grid{PerRow: perRow}
	if t == nil {
		return g
	}
	for _, r := range t.Rows {
		if r.ID == "" {
			continue
		}
		name := r.Name
		if name == "" {
			name = r.ID
		}
		g.Items = append(g.Items, Item{ID: r.ID, Name: name})
	}
	return g
}

// Cursor returns the position of the focused toggle.
func (g Grid) Cursor() int {
	return g.cursor
}

// Move shifts the cursor by delta, clamped to the grid.
func (g *Grid) Move(delta int) {
	if len(g.Items) == 0 {
		return
	}
	g.cursor = max(0, min(len(g.Items)-1, g.cursor+delta))
}

// Toggle flips the toggle under the cursor.
func (g *Grid) Toggle() {
	if len(g.Items) == 0 {
		return
	}
	id := g.Items[g.cursor].ID
	if i := slices.Index(g.selected, id); i >= 0 {
		g.selected = slices.Delete(g.selected, i, i+1)
		return
	}
	g.selected = append(g.selected, id)
}

// IsSelected reports whether id is toggled on.
func (g Grid) IsSelected(id string) bool {
	return slices.Contains(g.selected, id)
}

// Selected returns the toggled ids.
func (g Grid) Selected() []string {
	return slices.Clone(g.selected)
}

// View renders the grid. The cursor is only highlighted when focused.
func (g Grid) View(focused bool) string {
	var lines []string
	for start := 0; start < len(g.Items); start += g.PerRow {
		end := min(start+g.PerRow, len(g.Items))

		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			item := g.Items[i]

			label := "[ ] " + item.Name
			style := toggleStyle
			if g.IsSelected(item.ID) {
				label = "[x] " + item.Name
				style = selectedStyle
			}
			if focused && i == g.cursor {
				style = style.Reverse(true)
			}
			cells = append(cells, style.Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}
