// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoles(t *testing.T) {
	src := New("roles",
		[]string{"ID", "name", "group"},
		[][]string{
			{"1", "Knight", "human | elf"},
			{"2", "Druid", "any"},
			{"3", "Hermit", ""},
		},
	)

	got := NormalizeRoles(src)

	assert.Equal(t, []string{"ID", "name", "races"}, got.Columns)
	assert.Equal(t, "human,elf", got.Rows[0].Cell("races"))
	assert.Equal(t, TagList{"human", "elf"}, got.Rows[0].Tags("races"))
	assert.Equal(t, "any", got.Rows[1].Cell("races"))
	assert.Equal(t, TagList{}, got.Rows[2].Tags("races"))

	// Source untouched.
	assert.Equal(t, []string{"ID", "name", "group"}, src.Columns)
	assert.Equal(t, "human | elf", src.Rows[0].Cell("group"))
}

func TestNormalizeRoles_ExistingRacesColumn(t *testing.T) {
	src := New("roles", []string{"id", "races", "group"}, [][]string{{"1", "a | b", "x | y"}})

	got := NormalizeRoles(src)

	assert.Equal(t, []string{"id", "races", "group"}, got.Columns)
	assert.Equal(t, "a,b", got.Rows[0].Cell("races"))
	assert.Equal(t, "x | y", got.Rows[0].Cell("group"))
}

func TestNormalizeRoles_NoGroupColumn(t *testing.T) {
	src := New("roles", []string{"id", "name"}, [][]string{{"1", "Knight"}})
	got := NormalizeRoles(src)
	assert.Equal(t, src.Columns, got.Columns)
	assert.Equal(t, src.Records(), got.Records())
}

func TestEnsureColumns(t *testing.T) {
	src := New("moves", []string{"id", "roles"}, [][]string{{"1", "A"}})

	got, added := EnsureColumns(src, "roles", "races", "special")
	require.Equal(t, []string{"races", "special"}, added)
	assert.Equal(t, []string{"id", "roles", "races", "special"}, got.Columns)
	assert.Equal(t, "", got.Rows[0].Cell("special"))

	same, added := EnsureColumns(got, "roles")
	assert.Nil(t, added)
	assert.Same(t, got, same)
}

func TestReindex(t *testing.T) {
	src := New("moves", []string{"id", "special"}, [][]string{{"1", "Rare , Epic"}})
	got := Reindex(src, "special")
	assert.Equal(t, TagList{"Rare", "Epic"}, got.Rows[0].tags["special"])
	assert.Nil(t, src.Rows[0].tags)
}
