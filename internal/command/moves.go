// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/filters"
	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/meta"
)

// movesSelection reads the selection flags of the moves command.
func movesSelection(cmd *cli.Command) filters.Selection {
	return filters.Selection{
		Roles:    filters.SplitTags(cmd.String("roles")),
		Races:    filters.SplitTags(cmd.String("races")),
		AllRaces: cmd.Bool("all-races"),
		Special:  cmd.String("special"),
	}
}

func movesSelect(_ context.Context, cmd *cli.Command, ds *loader.Dataset) (*dataset.Table, error) {
	sel := movesSelection(cmd)
	log.Debugf("moves selection: %+v", sel)
	return sel.Apply(ds.Moves)
}

func movesCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner("moves", loader.Moves, nil, movesSelect).Run(ctx, cmd)
}

// movesCommandBuilder constructs the cli.Command for "moves", wiring
// metadata, flags, and action handlers.
func movesCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "moves", meta.Config.Source
	return (&QueryCommandBuilder{
		Name:      ns,
		Usage:     "moves available to roles and races",
		UsageText: "rpgdex moves [--roles a,b] [--races x,y] [--all-races] [--special t1,t2] [options]",
		Flags: []cli.Flag{
			NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
				Name:  "roles",
				Usage: "comma-separated role ids; a move matches any of them",
			}),
			NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
				Name:  "races",
				Usage: "comma-separated race ids; a move matches any of them",
			}),
			NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.BoolFlag{
				Name:  "all-races",
				Usage: "match every move tied to any race",
			}),
			NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
				Name:  "special",
				Usage: "comma-separated special tags; a move must carry all of them",
			}),
		},
		Action: movesCommandAction,
		Meta:   meta,
	}).Build()
}
