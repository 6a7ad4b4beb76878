// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package loader reads the races, roles and moves datasets into tables.
//
// A location is one of:
//   - a directory holding one file per dataset. For each dataset the first of
//     <name>.yaml, <name>.yml, <name>.json, <name>.csv and <name>.hcl found
//     is used.
//   - a SQLite database (.db, .sqlite, .sqlite3) with a table per dataset.
//   - an s3://bucket/prefix URI, searched like a directory, or naming a
//     SQLite object. Downloads are cached by bucket, key and ETag.
//
// YAML and JSON files hold a list of rows keyed by column name. List values
// become tag-list cells. HCL files hold one row block per row with the id as
// label.
//
// The roles table is normalized after loading: its group column becomes
// races with the " | " separator rewritten to ",". The moves table always has
// roles, races and special columns; missing ones are added empty.
package loader
