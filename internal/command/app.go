// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/config"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/meta"
)

// InitApp builds the root command. args[1], when it is not a flag, names the
// subcommand and is also the namespace for config lookups.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	m := meta.Meta{
		Args:        args,
		Context:     ctx,
		StartingDir: sd,
	}

	// A missing config file is fine; a broken one is not.
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Namespace = m.Command()
	config.Config.Namespace = cfg.Namespace
	m.Config = cfg
	log.Debugf("config: source=%s, namespace=%s", cfg.Source, cfg.Namespace)

	app := &cli.Command{
		Name:  "rpgdex",
		Usage: "browse races, roles and their moves",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "rpgdex version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		movesCommandBuilder(m),
		rolesCommandBuilder(m),
		racesCommandBuilder(m),
		browseCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
