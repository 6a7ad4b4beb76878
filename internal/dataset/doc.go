// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package dataset holds the in-memory table model shared by the loaders, the
// filter engine and the output layer.
//
// A Table is an ordered list of Rows over a fixed schema. Every cell is kept
// as its raw string; columns registered with WithTagColumns are additionally
// parsed once into a TagList so repeated filtering does not re-split cells.
// Tables are never mutated after construction. Select and the normalizing
// helpers always return new tables with a dense 0-based row index.
package dataset
