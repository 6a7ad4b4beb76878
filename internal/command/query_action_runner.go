// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/output"
)

// SelectFunc picks the rows a command shows from the loaded dataset.
type SelectFunc func(context.Context, *cli.Command, *loader.Dataset) (*dataset.Table, error)

// QueryActionRunner encapsulates the common action of the table commands:
// load the dataset, select rows and emit them.
type QueryActionRunner struct {
	CommandName  string
	Table        string
	DefaultAttrs []string
	SelectFn     SelectFunc
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action for %v", m.Args)

	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	ds, err := LoadDataset(ctx, cmd)
	if err != nil {
		return err
	}

	source := ds.Table(qar.Table)
	if DumpSchemaIfRequested(cmd, source) {
		return nil
	}

	result := source
	if qar.SelectFn != nil {
		if result, err = qar.SelectFn(ctx, cmd, ds); err != nil {
			return err
		}
	}

	if cmd.Metadata == nil {
		cmd.Metadata = map[string]any{}
	}
	cmd.Metadata["total"] = source.Len()

	return output.Spit(result, attrs, cmd, Writer(cmd))
}

// NewQueryActionRunner creates a QueryActionRunner for table. A nil selectFn
// shows every row.
func NewQueryActionRunner(
	commandName string,
	table string,
	defaultAttrs []string,
	selectFn SelectFunc,
) *QueryActionRunner {
	return &QueryActionRunner{
		CommandName:  commandName,
		Table:        table,
		DefaultAttrs: defaultAttrs,
		SelectFn:     selectFn,
	}
}
