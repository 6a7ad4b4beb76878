// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/rpgdex/internal/dataset"
)

// decoder turns a file body into a header and records. file is only used in
// diagnostics.
type decoder func(file string, data []byte) ([]string, [][]string, error)

// decoders maps file extensions to decoders.
var decoders = map[string]decoder{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
	".csv":  decodeCSV,
	".hcl":  decodeHCL,
}

// decode picks the decoder for file by extension.
func decode(file string, data []byte) ([]string, [][]string, error) {
	ext := strings.ToLower(filepath.Ext(file))
	dec, ok := decoders[ext]
	if !ok {
		return nil, nil, fmt.Errorf("decoding %s: unsupported format %q", file, ext)
	}
	columns, records, err := dec(file, data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	return columns, records, nil
}

// rowBuilder collects keyed rows whose keys may vary, producing a header in
// first-seen key order.
type rowBuilder struct {
	columns []string
	rows    []map[string]string
}

func (b *rowBuilder) add(row map[string]string, keys []string) {
	for _, k := range keys {
		if !slices.Contains(b.columns, k) {
			b.columns = append(b.columns, k)
		}
	}
	b.rows = append(b.rows, row)
}

func (b *rowBuilder) records() ([]string, [][]string) {
	records := make([][]string, 0, len(b.rows))
	for _, row := range b.rows {
		rec := make([]string, len(b.columns))
		for i, c := range b.columns {
			rec[i] = row[c]
		}
		records = append(records, rec)
	}
	return b.columns, records
}

// decodeYAML reads a sequence of mappings.
func decodeYAML(_ string, data []byte) ([]string, [][]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, nil, fmt.Errorf("line %d: expected a list of rows", root.Line)
	}

	var b rowBuilder
	for _, item := range root.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return nil, nil, fmt.Errorf("line %d: row is not a mapping", item.Line)
		}

		row := make(map[string]string, len(item.Content)/2)
		keys := make([]string, 0, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			key := item.Content[i].Value
			value, err := yamlCell(item.Content[i+1])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %s: %w", item.Content[i].Line, key, err)
			}
			row[key] = value
			keys = append(keys, key)
		}
		b.add(row, keys)
	}

	columns, records := b.records()
	return columns, records, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// yamlCell renders a value node as a cell. Lists become tag lists.
func yamlCell(n *yaml.Node) (string, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		tags := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlCell(c)
			if err != nil {
				return "", err
			}
			if v != "" {
				tags = append(tags, v)
			}
		}
		return strings.Join(tags, dataset.Delimiter), nil
	default:
		return "", errors.New("nested mappings are not supported")
	}
}

// decodeJSON reads an array of objects.
func decodeJSON(_ string, data []byte) ([]string, [][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, nil, errors.New("invalid json")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, nil, errors.New("expected an array of rows")
	}

	var (
		b      rowBuilder
		rowErr error
	)
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			rowErr = fmt.Errorf("row %d is not an object", len(b.rows)+1)
			return false
		}
		row := map[string]string{}
		var keys []string
		item.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = jsonCell(value)
			keys = append(keys, key.String())
			return true
		})
		b.add(row, keys)
		return true
	})
	if rowErr != nil {
		return nil, nil, rowErr
	}

	columns, records := b.records()
	return columns, records, nil
}

// jsonCell renders a value as a cell. Arrays become tag lists.
func jsonCell(v gjson.Result) string {
	switch {
	case v.Type == gjson.Null:
		return ""
	case v.IsArray():
		tags := []string{}
		for _, item := range v.Array() {
			if s := jsonCell(item); s != "" {
				tags = append(tags, s)
			}
		}
		return strings.Join(tags, dataset.Delimiter)
	case v.Type == gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

// decodeCSV reads a header row followed by records.
func decodeCSV(_ string, data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return header, records, nil
}
