// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/filters"
	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/meta"
)

func rolesSelect(_ context.Context, cmd *cli.Command, ds *loader.Dataset) (*dataset.Table, error) {
	return filters.FilterByRaces(ds.Roles, filters.SplitTags(cmd.String("races")))
}

func rolesCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner("roles", loader.Roles, nil, rolesSelect).Run(ctx, cmd)
}

// rolesCommandBuilder constructs the cli.Command for "roles". With --races
// only the roles open to one of those races, or to any race, are listed.
func rolesCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "roles", meta.Config.Source
	return (&QueryCommandBuilder{
		Name:      ns,
		Usage:     "roles, optionally limited to races",
		UsageText: "rpgdex roles [--races x,y] [options]",
		Flags: []cli.Flag{
			NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
				Name:  "races",
				Usage: "comma-separated race ids",
			}),
		},
		Action: rolesCommandAction,
		Meta:   meta,
	}).Build()
}
