// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/tfctl/rpgdex/internal/dataset"
)

// hclRowBlock is the block type holding one row:
//
//	row "12" {
//	  name    = "Fireball"
//	  roles   = ["Mage", "Sorcerer"]
//	  special = "Fire"
//	}
//
// The optional label is the row id.
const hclRowBlock = "row"

// decodeHCL reads row blocks. Attributes keep their source order and
// expressions are evaluated without variables or functions.
func decodeHCL(file string, data []byte) ([]string, [][]string, error) {
	f, diags := hclsyntax.ParseConfig(data, file, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, nil, diags
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil, errors.New("unexpected hcl body")
	}
	if len(body.Attributes) > 0 {
		return nil, nil, fmt.Errorf("%s: top-level attributes are not allowed", firstAttr(body).NameRange)
	}

	var b rowBuilder
	for _, block := range body.Blocks {
		if block.Type != hclRowBlock {
			return nil, nil, fmt.Errorf("%s: unexpected block %q, want %q", block.TypeRange, block.Type, hclRowBlock)
		}
		if len(block.Labels) > 1 {
			return nil, nil, fmt.Errorf("%s: row takes at most one label", block.TypeRange)
		}

		row := map[string]string{}
		var keys []string
		if len(block.Labels) == 1 {
			row["id"] = block.Labels[0]
			keys = append(keys, "id")
		}

		for _, attr := range sortedAttrs(block.Body) {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, nil, diags
			}
			cell, err := ctyCell(v)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %s: %w", attr.SrcRange, attr.Name, err)
			}
			row[attr.Name] = cell
			if attr.Name != "id" || len(block.Labels) == 0 {
				keys = append(keys, attr.Name)
			}
		}
		b.add(row, keys)
	}

	columns, records := b.records()
	return columns, records, nil
}

func sortedAttrs(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

func firstAttr(body *hclsyntax.Body) *hclsyntax.Attribute {
	return sortedAttrs(body)[0]
}

// ctyCell renders a value as a cell. Lists, tuples and sets become tag lists.
func ctyCell(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsKnown() {
		return "", errors.New("value is not known")
	}

	ty := v.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		tags := []string{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			s, err := ctyCell(ev)
			if err != nil {
				return "", err
			}
			if s != "" {
				tags = append(tags, s)
			}
		}
		return strings.Join(tags, dataset.Delimiter), nil
	}

	if !ty.IsPrimitiveType() {
		return "", fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}
