// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/rpgdex/internal/attrs"
	"github.com/tfctl/rpgdex/internal/config"
	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/filters"
	"github.com/tfctl/rpgdex/internal/log"
)

// Formats lists the accepted --output values.
var Formats = []string{"text", "json", "yaml", "csv"}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', 0, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit filters, sorts, transforms and renders t according to the command's
// --filter, --sort and --output flags and the attrs list. An attrs list
// without visible entries shows every column. The text footer counts against
// the "total" metadata when set, else the rows of t. Output is written to w,
// or os.Stdout when w is nil.
func Spit(t *dataset.Table, list attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	filtered := filters.ApplyExprs(t, cmd.String("filter"))
	log.Debugf("spit %s: rows=%d/%d", t.Name, filtered.Len(), t.Len())

	list = withDefaults(list, t.Columns)
	list.SetGlobalTransformSpec()

	for _, a := range list {
		if a.Include && a.Key != "*" && !t.HasColumn(a.Key) {
			log.Warnf("attr %s is not a column of %s", a.Key, t.Name)
		}
	}

	resultSet := filtered.Maps()
	SortDataset(resultSet, cmd.String("sort"))

	for _, row := range resultSet {
		for _, a := range list {
			if a.TransformSpec != "" && a.Key != "*" {
				row[a.Key] = a.Transform(InterfaceToString(row[a.Key]))
			}
		}
	}

	switch output := cmd.String("output"); output {
	case "json":
		return writeJSON(w, resultSet, list)
	case "yaml":
		return writeYAML(w, resultSet, list)
	case "csv":
		return writeCSV(w, resultSet, list, cmd.Bool("titles"))
	case "", "text":
		if cmd.Bool("titles") {
			total := t.Len()
			if n, ok := cmd.Metadata["total"].(int); ok {
				total = n
			}
			setMetadata(cmd, "footer", Footer(len(resultSet), total))
		}
		TableWriter(resultSet, list, cmd, w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

// withDefaults returns list unchanged when it shows at least one column.
// Otherwise every column is shown, minus the hidden ones, and any '*'
// transform is carried over.
func withDefaults(list attrs.AttrList, columns []string) attrs.AttrList {
	if len(list.Visible()) > 0 {
		return slices.Clone(list)
	}

	out := attrs.FromColumns(columns)
	for _, a := range list {
		if a.Key == "*" {
			out = append(out, a)
			continue
		}
		for i := range out {
			if out[i].Key == a.Key {
				out[i].Include = false
			}
		}
	}
	return out
}

// Footer summarizes how many rows survived filtering.
func Footer(shown, total int) string {
	return fmt.Sprintf("%s of %s rows", humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
}

func setMetadata(cmd *cli.Command, key string, value interface{}) {
	if cmd.Metadata == nil {
		cmd.Metadata = map[string]interface{}{}
	}
	if _, ok := cmd.Metadata[key]; !ok {
		cmd.Metadata[key] = value
	}
}

// orderedRows keeps the visible attrs of each row in attr order, keyed by
// output key.
func orderedRows(resultSet []map[string]interface{}, list attrs.AttrList) []yaml.MapSlice {
	visible := list.Visible()
	rows := make([]yaml.MapSlice, 0, len(resultSet))
	for _, result := range resultSet {
		row := make(yaml.MapSlice, 0, len(visible))
		for _, a := range visible {
			row = append(row, yaml.MapItem{Key: a.OutputKey, Value: InterfaceToString(result[a.Key])})
		}
		rows = append(rows, row)
	}
	return rows
}

func writeYAML(w io.Writer, resultSet []map[string]interface{}, list attrs.AttrList) error {
	out, err := yaml.Marshal(orderedRows(resultSet, list))
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// writeJSON emits an array of objects whose keys follow the attr order.
func writeJSON(w io.Writer, resultSet []map[string]interface{}, list attrs.AttrList) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range orderedRows(resultSet, list) {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, item := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(item.Key)
			v, _ := json.Marshal(item.Value)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeCSV(w io.Writer, resultSet []map[string]interface{}, list attrs.AttrList, titles bool) error {
	visible := list.Visible()
	cw := csv.NewWriter(w)

	if titles {
		header := make([]string, 0, len(visible))
		for _, a := range visible {
			header = append(header, a.OutputKey)
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for _, result := range resultSet {
		rec := make([]string, 0, len(visible))
		for _, a := range visible {
			rec = append(rec, InterfaceToString(result[a.Key]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	list attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if header, ok := cmd.Metadata["header"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(header))
	}

	visible := list.Visible()
	if len(resultSet) > 0 && len(visible) > 0 {
		rows := make([][]string, 0, len(resultSet))
		for _, result := range resultSet {
			row := make([]string, 0, len(visible))
			for _, a := range visible {
				row = append(row, InterfaceToString(result[a.Key], "-"))
			}
			rows = append(rows, row)
		}

		pad := cmd.Int("padding")
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case row%2 == 0:
					style = evenRowStyle
				default:
					style = oddRowStyle
				}

				if col > 0 {
					style = style.PaddingLeft(pad)
				}

				return style
			}).
			Headers().
			Rows(rows...)

		if cmd.Bool("titles") {
			headers := make([]string, 0, len(visible))
			for _, a := range visible {
				headers = append(headers, a.OutputKey)
			}

			// https://github.com/charmbracelet/lipgloss/issues/261
			t = t.Headers(headers...).BorderHeader(false)
		}
		fmt.Fprintln(w, t)
	}

	if footer, ok := cmd.Metadata["footer"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(footer))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// An explicit config color wins; otherwise pick a default for the
	// terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#8a3b12", "#e8a33d")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#2f6b3a", "#7fd18b")

	return
}
