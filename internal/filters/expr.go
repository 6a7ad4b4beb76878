// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tfctl/rpgdex/internal/dataset"
	"github.com/tfctl/rpgdex/internal/log"
)

// exprRegex splits a --filter entry into key, operator and target. Operators
// are one of = ^ ~ < > @ / #, optionally prefixed with '!'. Examples: "name"
// (key only), "name=Bolt", "name^Fi", "special#Rare".
var exprRegex = regexp.MustCompile(`^([^!=^~<>@/#]*)(!?[=^~<>@/#])?(.*)$`)

// Expr is a single parsed --filter expression.
type Expr struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildExprs parses a filter specification string into a slice of Expr.
// Entries without a key or operator are skipped.
func BuildExprs(spec string) []Expr {
	//nolint:prealloc
	var exprs []Expr

	if spec == "" {
		return exprs
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("RPGDEX_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, entry := range strings.Split(spec, delim) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := exprRegex.FindStringSubmatch(entry)
		if parts == nil {
			log.Errorf("invalid filter: %s", entry)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		if key == "" || operand == "" {
			log.Errorf("invalid filter: %s", entry)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		exprs = append(exprs, Expr{
			Key:     key,
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		})
	}

	return exprs
}

// ApplyExprs returns the rows of t matching every expression in spec. Keys
// that are not columns of t are reported and ignored.
func ApplyExprs(t *dataset.Table, spec string) *dataset.Table {
	exprs := BuildExprs(spec)
	if len(exprs) == 0 {
		return t
	}

	// Resolve keys once, dropping the ones the table doesn't have.
	valid := exprs[:0:0]
	for _, e := range exprs {
		if !t.HasColumn(e.Key) {
			msg := fmt.Sprintf("filter key not found: %s", e.Key)
			log.Warnf("%s", msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}
		valid = append(valid, e)
	}

	m := make(Mask, t.Len())
	for i, row := range t.Rows {
		m[i] = matchesAll(row, valid)
	}
	return m.Apply(t)
}

func matchesAll(row dataset.Row, exprs []Expr) bool {
	for _, e := range exprs {
		if !checkExpr(row, e) {
			return false
		}
	}
	return true
}

// checkExpr evaluates one expression against a row's cell.
func checkExpr(row dataset.Row, e Expr) bool {
	value := row.Cell(e.Key)

	switch e.Operand {
	case "#":
		return row.Tags(e.Key).Contains(strings.TrimSpace(e.Value)) == !e.Negate
	case "<", ">", "=":
		if a, b, ok := bothNumeric(value, e.Value); ok {
			return checkNumericOperand(a, b, e)
		}
	}
	return checkStringOperand(value, e)
}

// checkNumericOperand compares two numbers using the expression operand.
func checkNumericOperand(value, target float64, e Expr) bool {
	switch e.Operand {
	case "=":
		return (value == target) == !e.Negate
	case ">":
		return (value > target) == !e.Negate
	case "<":
		return (value < target) == !e.Negate
	default:
		log.Errorf("unsupported numeric operand: %s", e.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison using the operand
// semantics.
func checkStringOperand(value string, e Expr) bool {
	switch e.Operand {
	case "=":
		return value == e.Value == !e.Negate
	case "~":
		return strings.EqualFold(value, e.Value) == !e.Negate
	case "^":
		return strings.HasPrefix(value, e.Value) == !e.Negate
	case ">":
		return value > e.Value == !e.Negate
	case "<":
		return value < e.Value == !e.Negate
	case "@":
		return strings.Contains(value, e.Value) == !e.Negate
	case "/":
		matched, err := regexp.MatchString(e.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", e.Value)
			return false
		}
		return matched == !e.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", e.Operand)
		return false
	}
}

func bothNumeric(a, b string) (float64, float64, bool) {
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}
