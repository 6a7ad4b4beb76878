// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for rpgdex. It wires flags,
// validators, actions, and shell completion for subcommands.
//
// The table commands (moves, roles, races) share one pipeline: load the
// dataset from --data, select rows with the filter engine and hand the
// result to output.Spit. Flag values may come from the command line, env
// vars, or the config file under the command's namespace.
package command
