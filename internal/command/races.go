// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/meta"
)

func racesCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner("races", loader.Races, nil, nil).Run(ctx, cmd)
}

func racesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "races",
		Usage:     "races",
		UsageText: "rpgdex races [options]",
		Action:    racesCommandAction,
		Meta:      meta,
	}).Build()
}
