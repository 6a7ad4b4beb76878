// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/output"
)

const (
	maxColumnWidth = 32
	// Rows shown per table before the window size is known.
	defaultTableRows = 15
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#8a3b12", Dark: "#e8a33d"}

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 2).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Faint(true).Padding(0, 2)
	headingStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	toggleStyle      = lipgloss.NewStyle().PaddingRight(2)
	selectedStyle    = toggleStyle.Foreground(accent).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc3333"))
)

func (m Model) View() string {
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if Tab(i) == m.tab {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	switch m.tab {
	case MovesTab:
		b.WriteString(m.movesView())
	case RacesTab:
		b.WriteString(m.racesView())
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n" + m.help.View(m.keys))

	return b.String()
}

func (m Model) movesView() string {
	lines := []string{
		headingStyle.Render("Roles"),
		m.roles.View(!m.editing),
		"Roles: " + strings.Join(m.data.Roles.Names(m.roles.Selected()), ", "),
	}

	races := "[ ] Show races"
	if m.showRaces {
		races = selectedStyle.Render("[x] Show races")
	}
	special := mutedStyle.Render("Special (/): ") + m.special.View()
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, toggleStyle.Render(races), special))

	lines = append(lines,
		headingStyle.Render("Moves"),
		mutedStyle.Render(output.Footer(m.moves.Len(), m.data.Moves.Len())),
		renderTable(m.moves, m.tableRows(2)),
	)
	return strings.Join(lines, "\n")
}

func (m Model) racesView() string {
	return strings.Join([]string{
		headingStyle.Render("Races"),
		renderTable(m.data.Races, m.tableRows(3)),
		headingStyle.Render("Roles"),
		m.races.View(true),
		"Races selected: " + strings.Join(m.data.Races.Names(m.races.Selected()), ", "),
		renderTable(m.roleView, m.tableRows(3)),
	}, "\n")
}

// tableRows splits the window height left over by the fixed parts of the
// view between share tables.
func (m Model) tableRows(share int) int {
	if m.height == 0 {
		return defaultTableRows
	}
	return max(3, (m.height-12)/share)
}

// renderTable draws t as a static bubbles table showing at most rows rows.
func renderTable(t *dataset.Table, rows int) string {
	if t == nil {
		return ""
	}

	records := t.Records()
	columns := make([]table.Column, len(t.Columns))
	for c, title := range t.Columns {
		width := lipgloss.Width(title)
		for _, rec := range records {
			width = max(width, lipgloss.Width(rec[c]))
		}
		columns[c] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	tableRows := make([]table.Row, len(records))
	for i, rec := range records {
		tableRows[i] = table.Row(rec)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(accent).Bold(true)
	styles.Selected = lipgloss.NewStyle()

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(min(len(records), rows)+2),
		table.WithStyles(styles),
	)
	return tbl.View()
}
