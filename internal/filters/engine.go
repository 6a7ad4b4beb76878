// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/log"
)

const (
	// SentinelAll in a race selection matches every row with a non-empty
	// races cell. It is never compared as a literal tag.
	SentinelAll = "All"

	// WildcardAny is implicitly selected by FilterByRaces, so roles tagged
	// "any" survive every non-empty race selection.
	WildcardAny = "any"
)

// ErrMissingColumn is returned when a table lacks a column the engine needs.
var ErrMissingColumn = errors.New("missing required column")

// Selection is the caller-owned filter state for the moves view.
type Selection struct {
	Roles    []string `yaml:"roles" json:"roles"`
	Races    []string `yaml:"races" json:"races"`
	AllRaces bool     `yaml:"allRaces" json:"allRaces"`
	Special  string   `yaml:"special" json:"special"`
}

// RaceSelection returns the races with the All sentinel appended when
// AllRaces is set.
func (s Selection) RaceSelection() []string {
	races := slices.Clone(s.Races)
	if s.AllRaces {
		races = append(races, SentinelAll)
	}
	return races
}

// IsEmpty reports whether the selection would keep every row.
func (s Selection) IsEmpty() bool {
	return len(clean(s.Roles)) == 0 &&
		len(clean(s.RaceSelection())) == 0 &&
		len(SplitTags(s.Special)) == 0
}

// Apply runs Filter with this selection.
func (s Selection) Apply(t *dataset.Table) (*dataset.Table, error) {
	return Filter(t, s.Roles, s.RaceSelection(), s.Special)
}

// Filter returns the rows of t that match
// (any role OR any race) AND (every special tag).
//
// Roles are matched against the roles column and races against the races
// column; the All sentinel stands for "races cell not blank". With no role or
// race selected the OR stage keeps every row. special is a comma-joined list
// whose tags are applied in order, each narrowing the previous result.
// Unknown tags simply match nothing. The result is a new, densely indexed
// table; t is not modified.
func Filter(t *dataset.Table, roles, races []string, special string) (*dataset.Table, error) {
	if err := requireColumns(t, dataset.ColumnRoles, dataset.ColumnRaces, dataset.ColumnSpecial); err != nil {
		return nil, err
	}

	roleSearch := clean(roles)
	raceSearch := clean(races)

	masks := make([]Mask, 0, len(roleSearch)+len(raceSearch))
	for _, role := range roleSearch {
		masks = append(masks, BuildMask(t, dataset.ColumnRoles, role))
	}

	if slices.Contains(raceSearch, SentinelAll) {
		masks = append(masks, nonEmptyMask(t, dataset.ColumnRaces))
		raceSearch = slices.DeleteFunc(raceSearch, func(s string) bool { return s == SentinelAll })
	}
	for _, race := range raceSearch {
		masks = append(masks, BuildMask(t, dataset.ColumnRaces, race))
	}

	var result *dataset.Table
	if combined := Any(masks...); combined != nil {
		result = combined.Apply(t)
	} else {
		result = t.Clone()
	}
	log.Tracef("or stage: masks=%d, rows=%d/%d", len(masks), result.Len(), t.Len())

	for _, tag := range SplitTags(special) {
		result = BuildMask(result, dataset.ColumnSpecial, tag).Apply(result)
		log.Tracef("and stage: tag=%s, rows=%d", tag, result.Len())
	}

	log.Debugf("filter %s: roles=%v races=%v special=%q -> %d rows",
		t.Name, roleSearch, races, special, result.Len())
	return result, nil
}

// FilterByRaces keeps the rows of t whose races tag list shares a tag with
// raceIDs or carries the "any" wildcard. An empty selection returns t as is.
func FilterByRaces(t *dataset.Table, raceIDs []string) (*dataset.Table, error) {
	selected := clean(raceIDs)
	if len(selected) == 0 {
		return t, nil
	}
	if err := requireColumns(t, dataset.ColumnRaces); err != nil {
		return nil, err
	}

	selected = append(selected, WildcardAny)
	masks := make([]Mask, 0, len(selected))
	for _, id := range selected {
		masks = append(masks, BuildMask(t, dataset.ColumnRaces, id))
	}

	result := Any(masks...).Apply(t)
	log.Debugf("filter %s by races=%v -> %d rows", t.Name, selected, result.Len())
	return result, nil
}

// SplitTags splits a comma-joined selection string, trimming each entry and
// discarding blanks.
func SplitTags(raw string) []string {
	return clean(strings.Split(raw, dataset.Delimiter))
}

// clean trims every entry and drops blanks and repeats, keeping first-seen
// order.
func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func requireColumns(t *dataset.Table, columns ...string) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrMissingColumn)
	}
	for _, c := range columns {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w %q in table %s", ErrMissingColumn, c, t.Name)
		}
	}
	return nil
}
