// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tfctl/rpgdex/internal/aws"
	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/log"
)

// Dataset names, in load order.
const (
	Races = "races"
	Roles = "roles"
	Moves = "moves"
)

// Names lists the datasets every location must provide.
var Names = []string{Races, Roles, Moves}

// Extensions lists the file extensions searched for each dataset, in order.
var Extensions = []string{".yaml", ".yml", ".json", ".csv", ".hcl"}

// SQLiteExtensions mark a location as a single SQLite database file.
var SQLiteExtensions = []string{".db", ".sqlite", ".sqlite3"}

// ErrNotFound is returned when a dataset is missing from a location.
var ErrNotFound = errors.New("dataset not found")

// Dataset is the set of tables the filters run against.
type Dataset struct {
	Location string
	Races    *dataset.Table
	Roles    *dataset.Table
	Moves    *dataset.Table
}

// Table returns the named table, or nil.
func (d *Dataset) Table(name string) *dataset.Table {
	switch name {
	case Races:
		return d.Races
	case Roles:
		return d.Roles
	case Moves:
		return d.Moves
	default:
		return nil
	}
}

// options holds the optional load settings.
type options struct {
	region   string
	endpoint string
	s3       aws.ObjectAPI
}

// Option customizes Load.
type Option func(*options)

// WithRegion sets the AWS region for s3:// locations.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points s3:// locations at an S3-compatible endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithObjectAPI supplies the S3 client used for s3:// locations.
func WithObjectAPI(api aws.ObjectAPI) Option {
	return func(o *options) { o.s3 = api }
}

// source yields the raw tables of one location.
type source interface {
	// read returns the header and records of the named dataset and the file
	// it came from.
	read(ctx context.Context, name string) (columns []string, records [][]string, file string, err error)
	close() error
}

// Load reads the races, roles and moves datasets from location: a directory,
// a SQLite database file or an s3://bucket/prefix URI. Roles are normalized
// and the moves table is guaranteed to carry the roles, races and special
// columns.
func Load(ctx context.Context, location string, opts ...Option) (*Dataset, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src, err := open(ctx, location, &o)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.close(); err != nil {
			log.WithError(err).Warnf("closing %s", location)
		}
	}()

	ds := &Dataset{Location: location}
	for _, name := range Names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		columns, records, file, err := src.read(ctx, name)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded %s from %s: columns=%d, rows=%d", name, file, len(columns), len(records))

		switch name {
		case Races:
			ds.Races = dataset.New(name, columns, records)
		case Roles:
			ds.Roles = dataset.NormalizeRoles(dataset.New(name, columns, records))
		case Moves:
			ds.Moves = prepareMoves(dataset.New(name, columns, records), file)
		}
	}

	return ds, nil
}

// prepareMoves adds any missing tag column and indexes the tag columns.
func prepareMoves(t *dataset.Table, file string) *dataset.Table {
	t, added := dataset.EnsureColumns(t, dataset.ColumnRoles, dataset.ColumnRaces, dataset.ColumnSpecial)
	if len(added) > 0 {
		log.Warnf("%s: missing columns %v added empty", file, added)
	}
	return dataset.Reindex(t, dataset.ColumnRoles, dataset.ColumnRaces, dataset.ColumnSpecial)
}

// open resolves location into a source.
func open(ctx context.Context, location string, o *options) (source, error) {
	if location == "" {
		return nil, errors.New("no data location given")
	}

	if aws.IsURI(location) {
		return openS3(ctx, location, o)
	}

	path := expandHome(location)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("data location %s: %w", location, err)
	}

	if info.IsDir() {
		return &dirSource{dir: path}, nil
	}
	if isSQLite(path) {
		return openSQLite(ctx, path)
	}
	return nil, fmt.Errorf("data location %s: not a directory or SQLite file", location)
}

func isSQLite(path string) bool {
	return slices.Contains(SQLiteExtensions, strings.ToLower(filepath.Ext(path)))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// candidates lists the file names searched for a dataset.
func candidates(name string) []string {
	files := make([]string, 0, len(Extensions))
	for _, ext := range Extensions {
		files = append(files, name+ext)
	}
	return files
}

// dirSource reads dataset files from a local directory.
type dirSource struct {
	dir string
}

func (s *dirSource) read(_ context.Context, name string) ([]string, [][]string, string, error) {
	tried := candidates(name)
	for _, file := range tried {
		path := filepath.Join(s.dir, file)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, nil, path, fmt.Errorf("reading %s: %w", path, err)
		}
		columns, records, err := decode(path, data)
		return columns, records, path, err
	}
	return nil, nil, "", fmt.Errorf("%w: %s in %s (tried %s)", ErrNotFound, name, s.dir, strings.Join(tried, ", "))
}

func (s *dirSource) close() error { return nil }
