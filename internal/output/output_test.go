// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/rpgdex/internal/attrs"
	"github.com/tfctl/rpgdex/internal/dataset"
)

func movesTable() *dataset.Table {
	return dataset.New("moves",
		[]string{"ID", "name", "power"},
		[][]string{
			{"1", "Slash", "1200"},
			{"2", "Bolt", "80"},
			{"3", "Blaze", "15000"},
		})
}

func newCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.BoolFlag{Name: "titles"},
			&cli.BoolFlag{Name: "color"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: action,
	}
}

// runSpit parses args into a command and renders the table through Spit.
func runSpit(t *testing.T, tbl *dataset.Table, attrSpec string, args ...string) (string, error) {
	t.Helper()

	var (
		buf     bytes.Buffer
		spitErr error
	)
	cmd := newCommand(func(_ context.Context, cmd *cli.Command) error {
		var list attrs.AttrList
		require.NoError(t, list.Set(attrSpec))
		spitErr = Spit(tbl, list, cmd, &buf)
		return nil
	})
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))

	return buf.String(), spitErr
}

func TestSpit_Formats(t *testing.T) {
	tests := []struct {
		name  string
		attrs string
		args  []string
		want  string
	}{
		{
			name:  "json keeps attr order and output keys",
			attrs: "ID,name:Name:u",
			args:  []string{"--output", "json", "--filter", "name^B"},
			want:  `[{"ID":"2","Name":"BOLT"},{"ID":"3","Name":"BLAZE"}]` + "\n",
		},
		{
			name:  "json with no rows",
			attrs: "ID",
			args:  []string{"--output", "json", "--filter", "name=Nope"},
			want:  "[]\n",
		},
		{
			name:  "csv with titles sorted numerically",
			attrs: "ID,name",
			args:  []string{"--output", "csv", "--titles", "--sort", "-power"},
			want:  "ID,name\n3,Blaze\n1,Slash\n2,Bolt\n",
		},
		{
			name:  "csv quotes humanized numbers",
			attrs: "name,power::h",
			args:  []string{"--output", "csv", "--sort", "power"},
			want:  "Bolt,80\nSlash,\"1,200\"\nBlaze,\"15,000\"\n",
		},
		{
			name:  "hidden column with defaults",
			attrs: "!power",
			args:  []string{"--output", "csv", "--sort", "name"},
			want:  "3,Blaze\n2,Bolt\n1,Slash\n",
		},
		{
			name:  "global transform",
			attrs: "*::l",
			args:  []string{"--output", "csv", "--filter", "ID=1"},
			want:  "1,slash,1200\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runSpit(t, movesTable(), tt.attrs, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpit_YAML(t *testing.T) {
	got, err := runSpit(t, movesTable(), "name:Move,power", "--output", "yaml", "--sort", "-power")
	require.NoError(t, err)

	var rows []yaml.MapSlice
	require.NoError(t, yaml.Unmarshal([]byte(got), &rows))
	require.Len(t, rows, 3)

	assert.Equal(t, yaml.MapSlice{
		{Key: "Move", Value: "Blaze"},
		{Key: "power", Value: "15000"},
	}, rows[0])
	assert.Equal(t, "Bolt", rows[2][0].Value)
}

func TestSpit_Text(t *testing.T) {
	got, err := runSpit(t, movesTable(), "", "--titles", "--filter", "power>100", "--sort", "name")
	require.NoError(t, err)

	for _, title := range []string{"ID", "name", "power"} {
		assert.Contains(t, got, title)
	}
	assert.NotContains(t, got, "Bolt")
	assert.Contains(t, got, "2 of 3 rows")
	assert.Less(t, strings.Index(got, "Blaze"), strings.Index(got, "Slash"))
}

func TestSpit_TextWithoutTitles(t *testing.T) {
	got, err := runSpit(t, movesTable(), "name")
	require.NoError(t, err)

	assert.Contains(t, got, "Slash")
	assert.NotContains(t, got, "rows")
	assert.NotContains(t, got, "power")
}

func TestSpit_UnknownFormat(t *testing.T) {
	_, err := runSpit(t, movesTable(), "", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestSpit_DoesNotMutateAttrs(t *testing.T) {
	list := attrs.AttrList{}
	require.NoError(t, list.Set("name,*::u"))
	before := list.String()

	cmd := newCommand(func(_ context.Context, cmd *cli.Command) error {
		return Spit(movesTable(), list, cmd, &bytes.Buffer{})
	})
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--output", "csv"}))

	assert.Equal(t, before, list.String())
}

func TestWithDefaults(t *testing.T) {
	columns := []string{"ID", "name", "power"}

	t.Run("visible attrs are kept", func(t *testing.T) {
		list := attrs.AttrList{{Key: "name", Include: true, OutputKey: "Name"}}
		assert.Equal(t, list, withDefaults(list, columns))
	})

	t.Run("empty list shows every column", func(t *testing.T) {
		assert.Equal(t, attrs.FromColumns(columns), withDefaults(nil, columns))
	})

	t.Run("hidden and global attrs are merged", func(t *testing.T) {
		list := attrs.AttrList{
			{Key: "ID", Include: false, OutputKey: "ID"},
			{Key: "*", Include: false, OutputKey: "*", TransformSpec: "u"},
		}
		got := withDefaults(list, columns)

		require.Len(t, got, 4)
		assert.False(t, got[0].Include)
		assert.Equal(t, "*", got[3].Key)
		assert.Len(t, got.Visible(), 2)
	})
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": "10", "type": "Beta"},
		{"name": "alpha", "count": "9", "type": "alpha"},
		{"name": "Beta", "count": "10", "type": "gamma"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name",
			spec:      "name",
			wantOrder: []string{"alpha", "Beta", "zebra"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"zebra", "Beta", "alpha"},
		},
		{
			name:      "numeric not lexical",
			spec:      "count",
			wantOrder: []string{"alpha", "zebra", "Beta"},
		},
		{
			name:      "case sensitive",
			spec:      "!name",
			wantOrder: []string{"Beta", "alpha", "zebra"},
		},
		{
			name:      "multiple fields",
			spec:      "-count,name",
			wantOrder: []string{"Beta", "zebra", "alpha"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"zebra", "alpha", "Beta"},
		},
		{
			name:      "blank entries ignored",
			spec:      " , type",
			wantOrder: []string{"alpha", "zebra", "Beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{
			name:  "string",
			value: "hello",
			want:  "hello",
		},
		{
			name:  "int",
			value: 42,
			want:  "42",
		},
		{
			name:  "float64 rounds",
			value: 42.7,
			want:  "43",
		},
		{
			name:  "bool true",
			value: true,
			want:  "true",
		},
		{
			name:     "nil custom",
			value:    nil,
			emptyVal: "-",
			want:     "-",
		},
		{
			name:     "empty string with custom empty",
			value:    "",
			emptyVal: "-",
			want:     "-",
		},
		{
			name:  "slice",
			value: []string{"a", "b"},
			want:  `["a","b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "0 of 0 rows", Footer(0, 0))
	assert.Equal(t, "1,234 of 56,789 rows", Footer(1234, 56789))
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func TestTableWriter(t *testing.T) {
	resultSet := []map[string]interface{}{
		{"name": "Slash", "power": ""},
	}
	list := attrs.AttrList{
		{Key: "name", Include: true, OutputKey: "Move"},
		{Key: "power", Include: true, OutputKey: "power"},
		{Key: "ID", Include: false, OutputKey: "ID"},
	}

	buf := new(bytes.Buffer)
	cmd := newCommand(func(_ context.Context, cmd *cli.Command) error {
		cmd.Metadata = map[string]interface{}{"header": "Moves", "footer": "done"}
		TableWriter(resultSet, list, cmd, buf)
		return nil
	})
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--titles"}))

	got := buf.String()
	assert.Contains(t, got, "Moves")
	assert.Contains(t, got, "Move")
	assert.Contains(t, got, "Slash")
	// Empty cells render as a dash.
	assert.Contains(t, got, "-")
	assert.Contains(t, got, "done")
	assert.NotContains(t, got, "ID")
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": "3"},
		{"name": "alpha", "count": "1"},
		{"name": "beta", "count": "2"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "name")
	}
}
