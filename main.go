// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/rpgdex/internal/cacheutil"
	"github.com/tfctl/rpgdex/internal/command"
	"github.com/tfctl/rpgdex/internal/config"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/version"
)

// defaultSet is the config set expanded when no @set is given.
const defaultSet = "defaults"

// defaultCacheHours is how long cached downloads are kept unless cache.hours
// says otherwise.
const defaultCacheHours = 24 * 7

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args)
	log.Debugf("args after dedup: args=%v", args)

	return args
}

// processSetOnly expands a flag set from the config file. An explicit @name
// argument selects <command>.<name> and is replaced by its entries at the same
// position. Without one, <command>.defaults is inserted right after the
// command so that later command line flags win.
func processSetOnly(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	set, idx := defaultSet, 2
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			set, idx = args[i][1:], i
			args = append(args[:i:i], args[i+1:]...)
			break
		}
	}

	key := args[1] + "." + set
	entries, err := config.GetStringSlice(key, nil)
	if err != nil {
		log.Warnf("set %s: %v", key, err)
		return args
	}
	return injectConfigSet(args, entries, idx)
}

// injectConfigSet splits each entry on whitespace and inserts the fields at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// argGroup is a flag with its value, or a lone positional argument.
type argGroup struct {
	name   string
	tokens []string
}

// deduplicateFlags drops all but the last occurrence of each flag so that a
// flag given on the command line overrides the same flag from a set. A flag
// takes the following token as its value unless it uses the name=value form
// or the next token is itself a flag.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	var groups []argGroup
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		if !isFlag(tok) {
			groups = append(groups, argGroup{tokens: []string{tok}})
			continue
		}

		name, _, hasValue := strings.Cut(tok, "=")
		g := argGroup{name: name, tokens: []string{tok}}
		if !hasValue && i+1 < len(rest) && !isFlag(rest[i+1]) {
			g.tokens = append(g.tokens, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}

func isFlag(tok string) bool {
	return len(tok) > 1 && strings.HasPrefix(tok, "-")
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled, and drop stale
	// entries.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	} else if ok {
		hours, _ := config.GetInt("cache.hours", defaultCacheHours)
		if err := cacheutil.Purge(hours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}
