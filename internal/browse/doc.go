// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package browse is the interactive terminal browser behind `rpgdex browse`.
//
// The Moves tab toggles roles, the "Show races" switch and a special tag
// input, and shows the moves filtered by that selection. The Races & Roles
// tab lists the races and the roles playable by the toggled races. All
// selection state lives in the Model.
package browse
