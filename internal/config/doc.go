// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for rpgdex's user
// configuration. The configuration is a YAML document named rpgdex.yaml in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/rpgdex.yaml or $HOME/.config/rpgdex.yaml
//   - macOS: $HOME/Library/Application Support/rpgdex.yaml
//   - Windows: %AppData%/rpgdex.yaml
//
// RPGDEX_CFG_FILE overrides the location. A typical file:
//
//	data: ~/games/dex
//	colors:
//	  title: "#ffaa00"
//	aws:
//	  region: eu-west-1
//	moves:
//	  titles: true
//	  healers:
//	    - --roles Cleric,Druid
//	    - --sort name
package config
