// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package loader

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/rpgdex/internal/cacheutil"
	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/filters"
)

var (
	wantRaces = [][]string{{"1", "Human"}, {"2", "Elf"}, {"3", "Dwarf"}}
	wantRoles = [][]string{{"1", "Knight", "1,2"}, {"2", "Druid", "any"}, {"3", "Smith", "3"}}
	wantMoves = [][]string{
		{"1", "Slash", "1,2", "", ""},
		{"2", "Bolt", "", "2", "Rare"},
		{"3", "Blaze", "3", "3,2", "Rare,Fire"},
	}
)

func assertFixture(t *testing.T, ds *Dataset) {
	t.Helper()

	assert.Equal(t, []string{"id", "name"}, ds.Races.Columns)
	assert.Equal(t, wantRaces, ds.Races.Records())

	assert.Equal(t, []string{"ID", "name", "races"}, ds.Roles.Columns)
	assert.Equal(t, wantRoles, ds.Roles.Records())

	assert.Equal(t, []string{"id", "name", "roles", "races", "special"}, ds.Moves.Columns)
	assert.Equal(t, wantMoves, ds.Moves.Records())

	// Loaded tables feed the filters directly.
	got, err := filters.Filter(ds.Moves, []string{"3"}, []string{"2"}, "Rare")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bolt", "Blaze"}, got.Column("name"))

	roles, err := filters.FilterByRaces(ds.Roles, []string{"2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Knight", "Druid"}, roles.Column("name"))
}

func TestLoad_Directory(t *testing.T) {
	for _, format := range []string{"yaml", "json", "csv", "hcl"} {
		t.Run(format, func(t *testing.T) {
			ds, err := Load(context.Background(), filepath.Join("testdata", format))
			require.NoError(t, err)
			assertFixture(t, ds)
		})
	}
}

func TestLoad_ExtensionOrderAndMissingColumns(t *testing.T) {
	ds, err := Load(context.Background(), filepath.Join("testdata", "mixed"))
	require.NoError(t, err)

	// races.yaml wins over races.csv.
	assert.Equal(t, wantRaces, ds.Races.Records())
	assert.Equal(t, wantRoles, ds.Roles.Records())

	assert.Equal(t, []string{"id", "name", "roles", "races", "special"}, ds.Moves.Columns)
	assert.Equal(t, [][]string{{"1", "Slash", "1,2", "", ""}, {"2", "Bolt", "", "", ""}}, ds.Moves.Records())
	assert.Equal(t, dataset.TagList{"1", "2"}, ds.Moves.Rows[0].Tags("roles"))
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, filepath.Join("testdata", "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "roles")
	assert.Contains(t, err.Error(), "roles.yaml, roles.yml, roles.json, roles.csv, roles.hcl")

	_, err = Load(ctx, filepath.Join("testdata", "bad"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roles.yaml")
	assert.Contains(t, err.Error(), "expected a list of rows")

	_, err = Load(ctx, filepath.Join("testdata", "nope"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(ctx, filepath.Join("testdata", "csv", "races.csv"))
	assert.ErrorContains(t, err, "not a directory or SQLite file")

	_, err = Load(ctx, "")
	assert.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Load(canceled, filepath.Join("testdata", "csv"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		data        string
		wantColumns []string
		wantRecords [][]string
		wantErr     string
	}{
		{
			name:        "yaml keys in first-seen order",
			file:        "x.yaml",
			data:        "- {b: 1}\n- {a: 2, b: 3}\n",
			wantColumns: []string{"b", "a"},
			wantRecords: [][]string{{"1", ""}, {"3", "2"}},
		},
		{
			name:        "yaml anchors",
			file:        "x.yaml",
			data:        "- &k {name: Knight, tags: [a, b]}\n- *k\n",
			wantColumns: []string{"name", "tags"},
			wantRecords: [][]string{{"Knight", "a,b"}, {"Knight", "a,b"}},
		},
		{name: "yaml empty", file: "x.yaml", data: ""},
		{name: "yaml nested mapping", file: "x.yaml", data: "- {a: {b: 1}}\n", wantErr: "nested mappings"},
		{name: "yaml row not mapping", file: "x.yml", data: "- 1\n", wantErr: "not a mapping"},
		{
			name:        "json booleans and nested objects",
			file:        "x.json",
			data:        `[{"a": true, "b": {"c": 1}}]`,
			wantColumns: []string{"a", "b"},
			wantRecords: [][]string{{"true", `{"c": 1}`}},
		},
		{name: "json invalid", file: "x.json", data: `[{`, wantErr: "invalid json"},
		{name: "json not array", file: "x.json", data: `{"a": 1}`, wantErr: "array of rows"},
		{name: "json row not object", file: "x.json", data: `[1]`, wantErr: "row 1 is not an object"},
		{
			name:        "csv bom and ragged rows",
			file:        "x.csv",
			data:        "\ufeffid,name,races\n1,Knight\n",
			wantColumns: []string{"id", "name", "races"},
			wantRecords: [][]string{{"1", "Knight"}},
		},
		{name: "csv empty", file: "x.csv", data: ""},
		{
			name:        "hcl unlabeled rows",
			file:        "x.hcl",
			data:        "row {\n  id = 7\n  ok = true\n}\n",
			wantColumns: []string{"id", "ok"},
			wantRecords: [][]string{{"7", "true"}},
		},
		{
			name:        "hcl attribute order follows source",
			file:        "x.hcl",
			data:        "row \"1\" {\n  zeta = \"z\"\n  alpha = \"a\"\n}\n",
			wantColumns: []string{"id", "zeta", "alpha"},
			wantRecords: [][]string{{"1", "z", "a"}},
		},
		{name: "hcl wrong block", file: "x.hcl", data: "move \"1\" {}\n", wantErr: `unexpected block "move"`},
		{name: "hcl top-level attribute", file: "x.hcl", data: "a = 1\n", wantErr: "top-level attributes"},
		{name: "hcl variables", file: "x.hcl", data: "row \"1\" {\n  a = var.x\n}\n", wantErr: "x.hcl"},
		{name: "hcl object value", file: "x.hcl", data: "row \"1\" {\n  a = {b = 1}\n}\n", wantErr: "unsupported type"},
		{name: "unknown extension", file: "x.toml", data: "", wantErr: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, records, err := decode(tt.file, []byte(tt.data))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, columns)
			assert.Equal(t, tt.wantRecords, records)
		})
	}
}

// writeSQLite creates a database holding the fixture datasets.
func writeSQLite(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE races (id INTEGER, name TEXT)`,
		`INSERT INTO races VALUES (1, 'Human'), (2, 'Elf'), (3, 'Dwarf')`,
		`CREATE TABLE roles (ID INTEGER, name TEXT, "group" TEXT)`,
		`INSERT INTO roles VALUES (1, 'Knight', '1 | 2'), (2, 'Druid', 'any'), (3, 'Smith', '3')`,
		`CREATE TABLE moves (id INTEGER, name TEXT, roles TEXT, races TEXT, special TEXT)`,
		`INSERT INTO moves VALUES (1, 'Slash', '1,2', NULL, NULL), (2, 'Bolt', '', '2', 'Rare'), (3, 'Blaze', '3', '3,2', 'Rare,Fire')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dex.sqlite")
	writeSQLite(t, path)

	ds, err := Load(context.Background(), path)
	require.NoError(t, err)
	assertFixture(t, ds)
}

func TestLoad_SQLiteMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dex.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE races (id INTEGER, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Load(context.Background(), path)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorContains(t, err, `no table "roles"`)
}

// fakeS3 serves objects from memory and counts downloads.
type fakeS3 struct {
	objects map[string][]byte
	gets    int
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3v2.HeadObjectInput, _ ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3v2.HeadObjectOutput{ETag: awsv2.String(fmt.Sprintf(`"%x"`, len(body)))}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	f.gets++
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func readFixture(t *testing.T, format, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", format, name))
	require.NoError(t, err)
	return b
}

func TestLoad_S3Prefix(t *testing.T) {
	t.Setenv(cacheutil.EnvDir, t.TempDir())
	t.Setenv(cacheutil.EnvEnabled, "1")

	api := &fakeS3{objects: map[string][]byte{
		"dex/fantasy/races.json": readFixture(t, "json", "races.json"),
		"dex/fantasy/roles.csv":  readFixture(t, "csv", "roles.csv"),
		"dex/fantasy/moves.yaml": readFixture(t, "yaml", "moves.yaml"),
	}}

	ds, err := Load(context.Background(), "s3://dex/fantasy/", WithObjectAPI(api))
	require.NoError(t, err)
	assertFixture(t, ds)
	assert.Equal(t, 3, api.gets)

	// Unchanged ETags are served from the cache.
	_, err = Load(context.Background(), "s3://dex/fantasy", WithObjectAPI(api))
	require.NoError(t, err)
	assert.Equal(t, 3, api.gets)

	_, err = Load(context.Background(), "s3://dex/other", WithObjectAPI(api))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorContains(t, err, "s3://dex/other")
}

func TestLoad_S3SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dex.sqlite")
	writeSQLite(t, path)
	body, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, enabled := range []string{"1", "0"} {
		t.Run("cache="+enabled, func(t *testing.T) {
			t.Setenv(cacheutil.EnvDir, t.TempDir())
			t.Setenv(cacheutil.EnvEnabled, enabled)

			api := &fakeS3{objects: map[string][]byte{"dex/game/dex.sqlite": body}}
			ds, err := Load(context.Background(), "s3://dex/game/dex.sqlite", WithObjectAPI(api))
			require.NoError(t, err)
			assertFixture(t, ds)
			assert.Equal(t, 1, api.gets)
		})
	}
}

func TestDataset_Table(t *testing.T) {
	ds, err := Load(context.Background(), filepath.Join("testdata", "csv"))
	require.NoError(t, err)

	assert.Same(t, ds.Moves, ds.Table(Moves))
	assert.Same(t, ds.Roles, ds.Table(Roles))
	assert.Same(t, ds.Races, ds.Table(Races))
	assert.Nil(t, ds.Table("spells"))
}
