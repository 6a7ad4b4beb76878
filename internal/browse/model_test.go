// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package browse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/loader"
)

func fixture() *loader.Dataset {
	return &loader.Dataset{
		Location: "test",
		Races: dataset.New(loader.Races,
			[]string{"ID", "name"},
			[][]string{{"1", "Human"}, {"2", "Elf"}, {"3", "Dwarf"}}),
		Roles: dataset.New(loader.Roles,
			[]string{"ID", "name", "races"},
			[][]string{
				{"1", "Fighter", "1,2"},
				{"2", "Mage", "2"},
				{"3", "Rogue", "any"},
				{"4", "Priest", "3"},
			}),
		Moves: dataset.New(loader.Moves,
			[]string{"ID", "name", "roles", "races", "special"},
			[][]string{
				{"1", "Slash", "1,3", "", ""},
				{"2", "Bolt", "2", "2", "Rare"},
				{"3", "Blaze", "", "3", "Rare,Fire"},
				{"4", "Pray", "4", "", ""},
			},
			dataset.WithTagColumns("roles", "races", "special")),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// send feeds msgs through Update and returns the final model and the last
// command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func names(t *dataset.Table) []string {
	out := []string{}
	for _, r := range t.Rows {
		out = append(out, r.Name)
	}
	return out
}

func TestNew(t *testing.T) {
	m := New(fixture())

	assert.Nil(t, m.Init())
	assert.Equal(t, MovesTab, m.tab)
	assert.True(t, m.Selection().IsEmpty())
	assert.Equal(t, []string{"Slash", "Bolt", "Blaze", "Pray"}, names(m.Moves()))
	assert.Equal(t, []string{"Fighter", "Mage", "Rogue", "Priest"}, names(m.Roles()))
	assert.Len(t, m.roles.Items, 4)
	assert.Len(t, m.races.Items, 3)
}

func TestUpdate_Moves(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want []string
	}{
		{
			name: "toggle first role",
			keys: []tea.Msg{keySpace},
			want: []string{"Slash"},
		},
		{
			name: "toggle two roles",
			keys: []tea.Msg{keySpace, keyRight, keySpace},
			want: []string{"Slash", "Bolt"},
		},
		{
			name: "toggle off again",
			keys: []tea.Msg{keySpace, keySpace},
			want: []string{"Slash", "Bolt", "Blaze", "Pray"},
		},
		{
			name: "show races",
			keys: []tea.Msg{keyRunes("r")},
			want: []string{"Bolt", "Blaze"},
		},
		{
			name: "show races or role",
			keys: []tea.Msg{keyRunes("r"), keySpace},
			want: []string{"Slash", "Bolt", "Blaze"},
		},
		{
			name: "special narrows",
			keys: []tea.Msg{keyRunes("r"), keyRunes("/"), keyRunes("Fire"), keyEnter},
			want: []string{"Blaze"},
		},
		{
			name: "special alone",
			keys: []tea.Msg{keyRunes("/"), keyRunes("Rare"), keyEsc},
			want: []string{"Bolt", "Blaze"},
		},
		{
			name: "cursor clamps at the end",
			keys: []tea.Msg{keyDown, keySpace},
			want: []string{"Pray"},
		},
		{
			name: "cursor clamps at the start",
			keys: []tea.Msg{keyLeft, keyLeft, keySpace},
			want: []string{"Slash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := send(t, New(fixture()), tt.keys...)
			assert.Equal(t, tt.want, names(m.Moves()))
		})
	}
}

func TestUpdate_SpecialInput(t *testing.T) {
	m, cmd := send(t, New(fixture()), keyRunes("/"))
	assert.True(t, m.editing)
	assert.NotNil(t, cmd)

	// Keys are text while editing, so q and space do not quit or toggle.
	m, _ = send(t, m, keyRunes("q"))
	assert.True(t, m.editing)
	assert.Equal(t, "q", m.special.Value())
	assert.Empty(t, m.Moves().Rows)

	m, _ = send(t, m, keyEnter)
	assert.False(t, m.editing)
	assert.Equal(t, "q", m.Selection().Special)

	m, _ = send(t, m, keySpace)
	assert.Equal(t, []string{"1"}, m.Selection().Roles)
}

func TestUpdate_RacesTab(t *testing.T) {
	m, _ := send(t, New(fixture()), keyTab)
	assert.Equal(t, RacesTab, m.tab)

	// Human plays Fighter, and Rogue is open to any race.
	m, _ = send(t, m, keySpace)
	assert.Equal(t, []string{"Fighter", "Rogue"}, names(m.Roles()))

	m, _ = send(t, m, keyRight, keyRight, keySpace)
	assert.Equal(t, []string{"Fighter", "Rogue", "Priest"}, names(m.Roles()))

	// r and / only apply to the Moves tab.
	m, _ = send(t, m, keyRunes("r"), keyRunes("/"))
	assert.False(t, m.showRaces)
	assert.False(t, m.editing)

	// The roles selection is untouched.
	assert.Empty(t, m.Selection().Roles)

	m, _ = send(t, m, keyTab)
	assert.Equal(t, MovesTab, m.tab)
}

func TestUpdate_Quit(t *testing.T) {
	for _, msg := range []tea.Msg{keyRunes("q"), keyCtrlC} {
		_, cmd := send(t, New(fixture()), msg)
		assert.IsType(t, tea.QuitMsg{}, quitMsg(cmd))
	}

	m, _ := send(t, New(fixture()), keyRunes("/"))
	_, cmd := send(t, m, keyCtrlC)
	assert.IsType(t, tea.QuitMsg{}, quitMsg(cmd))
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := send(t, New(fixture()), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 14, m.tableRows(2))
}

func TestView(t *testing.T) {
	m, _ := send(t, New(fixture()), keySpace, keyRight, keySpace)
	view := m.View()

	assert.Contains(t, view, "Moves")
	assert.Contains(t, view, "Races & Roles")
	assert.Contains(t, view, "Roles: Fighter, Mage")
	assert.Contains(t, view, "Show races")
	assert.Contains(t, view, "2 of 4 rows")
	assert.Contains(t, view, "Bolt")
	assert.NotContains(t, view, "Pray")

	m, _ = send(t, m, keyTab, keyRight, keySpace)
	view = m.View()
	assert.Contains(t, view, "Races selected: Elf")
	assert.Contains(t, view, "Dwarf")
}

func TestView_Error(t *testing.T) {
	data := fixture()
	data.Moves = dataset.New(loader.Moves, []string{"ID", "name"}, [][]string{{"1", "Slash"}})

	m := New(data)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "missing required column")
}

// quitMsg runs cmd and returns its message when it is a quit.
func quitMsg(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	if msg, ok := cmd().(tea.QuitMsg); ok {
		return msg
	}
	return nil
}
