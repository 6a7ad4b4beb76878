// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strconv"
	"strings"
)

// sortField is one parsed entry of a --sort spec.
type sortField struct {
	key           string
	ascending     bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortField {
	var fields []sortField
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		sf := sortField{ascending: true}
		if strings.HasPrefix(f, "-") {
			f = strings.TrimPrefix(f, "-")
			sf.ascending = false
		}
		if strings.HasPrefix(f, "!") {
			f = strings.TrimPrefix(f, "!")
			sf.caseSensitive = true
		}
		if f == "" {
			continue
		}
		sf.key = f
		fields = append(fields, sf)
	}
	return fields
}

// SortDataset stably sorts the result set by a comma-separated list of
// columns. A leading '-' sorts descending and '!' compares case-sensitively.
// Values that both parse as numbers compare numerically.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := parseSortSpec(spec)
	if len(fields) == 0 {
		return
	}

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, f := range fields {
			oneStr := InterfaceToString(resultSet[one][f.key])
			twoStr := InterfaceToString(resultSet[two][f.key])

			if oneNum, twoNum, ok := numbers(oneStr, twoStr); ok {
				if oneNum != twoNum {
					return (oneNum < twoNum) == f.ascending
				}
				continue
			}

			if !f.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				return (oneStr < twoStr) == f.ascending
			}
		}
		return false
	})
}

func numbers(a, b string) (float64, float64, bool) {
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
