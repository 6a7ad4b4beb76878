// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/rpgdex/internal/browse"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/meta"
)

// ErrNotTerminal is returned by browse when stdin or stdout is redirected.
var ErrNotTerminal = errors.New("browse needs an interactive terminal")

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func browseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action for %v", m.Args)

	if !isTerminal() {
		return ErrNotTerminal
	}

	ds, err := LoadDataset(ctx, cmd)
	if err != nil {
		return err
	}

	return browse.Run(ctx, ds)
}

// browseCommandBuilder constructs the cli.Command for the interactive
// browser. Only the dataset flags apply.
func browseCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive moves, races and roles browser",
		UsageText: "rpgdex browse [--data location]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewDataFlag("browse", meta.Config.Source),
			NewRegionFlag(meta.Config.Source),
		},
		Action: browseCommandAction,
	}
}
