// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/attrs"
	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/loader"
	"github.com/tfctl/rpgdex/internal/log"
	"github.com/tfctl/rpgdex/internal/meta"
)

// EnvEndpoint overrides the S3 endpoint, for S3-compatible stores.
const EnvEndpoint = "RPGDEX_S3_ENDPOINT"

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs. Invalid specs were rejected by GlobalFlagsValidator.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
	}
	return
}

// DumpSchemaIfRequested writes the columns of t, one per line, when --schema
// is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t *dataset.Table) bool {
	if !cmd.Bool("schema") {
		return false
	}
	w := Writer(cmd)
	for _, c := range t.Columns {
		fmt.Fprintln(w, c)
	}
	return true
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// LoadDataset loads the races, roles and moves tables from --data.
func LoadDataset(ctx context.Context, cmd *cli.Command) (*loader.Dataset, error) {
	location := cmd.String("data")

	opts := []loader.Option{loader.WithRegion(cmd.String("region"))}
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		opts = append(opts, loader.WithEndpoint(endpoint))
	}

	ds, err := loader.Load(ctx, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", location, err)
	}
	log.Debugf("dataset %s: %s %s %s", location, ds.Races, ds.Roles, ds.Moves)

	return ds, nil
}

// Writer returns the root command's writer, os.Stdout by default.
func Writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
