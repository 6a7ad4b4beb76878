// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters implements tag-membership filtering over dataset tables.
//
// Tag Matching:
//
// A tag-list cell is a comma-joined list of tags. RowHasTag and BuildMask
// compare trimmed tokens exactly and case-sensitively; a blank cell contains
// no tags.
//
// Moves Filter:
//
// Filter combines three selections with a fixed shape:
//
//	(any selected role OR any selected race) AND (every special tag)
//
// Roles and races are OR-ed into one mask. The race selection may contain
// the sentinel "All", which matches every row with a non-empty races cell.
// When neither roles nor races are selected the OR stage keeps every row, so
// special tags alone still narrow the full table. Special tags come in as one
// comma-joined string and are applied in order, each one intersecting the
// running result.
//
// Races Filter:
//
// FilterByRaces keeps roles whose races list shares a tag with the selected
// race ids. The wildcard tag "any" is always part of the selection, so roles
// open to every race stay visible.
//
// Column Expressions:
//
// ApplyExprs implements the --filter flag, a generic key-operator-value
// post-filter over any column:
//
//   - = : exact match (numeric when both sides are numbers)
//   - ^ : prefix match
//   - ~ : case-insensitive equality
//   - @ : substring
//   - / : regex
//   - # : tag-list membership
//   - < and > : numeric or lexical comparison
//
// Every operator may be negated with a leading '!'. All expressions must
// match for a row to be kept.
package filters
