// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders dataset tables as text, json, yaml or csv.
//
// Spit runs the shared pipeline: --filter expressions, attr transforms,
// --sort and finally the emitter picked by --output. Text output is a
// borderless lipgloss table with optional titles, row colors and a
// "<n> of <total> rows" footer.
package output
