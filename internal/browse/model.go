// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/filters"
	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/log"
)

// Tab identifies one page of the browser.
type Tab int

const (
	MovesTab Tab = iota
	RacesTab
)

var tabTitles = []string{"Moves", "Races & Roles"}

// Model is the bubbletea model of the browser.
type Model struct {
	data *loader.Dataset

	tab       Tab
	roles     Grid
	races     Grid
	showRaces bool
	special   textinput.Model
	editing   bool

	moves    *dataset.Table
	roleView *dataset.Table
	err      error

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New returns a model over data with nothing selected.
func New(data *loader.Dataset) Model {
	ti := textinput.New()
	ti.Placeholder = "tag,tag"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		data:    data,
		roles:   NewGrid(data.Roles, DefaultPerRow),
		races:   NewGrid(data.Races, DefaultPerRow),
		special: ti,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

// Run opens the browser on the terminal and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, data *loader.Dataset) error {
	p := tea.NewProgram(New(data), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// Selection returns the current moves selection.
func (m Model) Selection() filters.Selection {
	return filters.Selection{
		Roles:    m.roles.Selected(),
		AllRaces: m.showRaces,
		Special:  m.special.Value(),
	}
}

// Moves returns the moves matching the current selection.
func (m Model) Moves() *dataset.Table {
	return m.moves
}

// Roles returns the roles playable by the toggled races.
func (m Model) Roles() *dataset.Table {
	return m.roleView
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSpecial(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % Tab(len(tabTitles))
		case key.Matches(msg, m.keys.Left):
			m.grid().Move(-1)
		case key.Matches(msg, m.keys.Right):
			m.grid().Move(1)
		case key.Matches(msg, m.keys.Up):
			m.grid().Move(-m.grid().PerRow)
		case key.Matches(msg, m.keys.Down):
			m.grid().Move(m.grid().PerRow)
		case key.Matches(msg, m.keys.Toggle):
			m.grid().Toggle()
			m.refresh()
		case key.Matches(msg, m.keys.Races):
			if m.tab == MovesTab {
				m.showRaces = !m.showRaces
				m.refresh()
			}
		case key.Matches(msg, m.keys.Edit):
			if m.tab == MovesTab {
				m.editing = true
				return m, m.special.Focus()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// updateSpecial feeds keys to the special input until enter or esc.
func (m Model) updateSpecial(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Done):
		m.editing = false
		m.special.Blur()
		m.refresh()
		return m, nil
	}

	before := m.special.Value()
	var cmd tea.Cmd
	m.special, cmd = m.special.Update(msg)
	if m.special.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// grid returns the toggle grid of the active tab.
func (m *Model) grid() *Grid {
	if m.tab == RacesTab {
		return &m.races
	}
	return &m.roles
}

// refresh re-runs both filters. On error the previous tables are kept and
// the error is shown.
func (m *Model) refresh() {
	m.err = nil

	moves, err := m.Selection().Apply(m.data.Moves)
	if err != nil {
		log.Errorf("browse moves: %v", err)
		m.err = err
	} else {
		m.moves = moves
	}

	roles, err := filters.FilterByRaces(m.data.Roles, m.races.Selected())
	if err != nil {
		log.Errorf("browse roles: %v", err)
		m.err = err
	} else {
		m.roleView = roles
	}
}
