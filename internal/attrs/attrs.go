// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/rpgdex/internal/log"
)

// lengthRegex finds length transforms ("12", "-20") in a transform spec.
var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column: the table column it reads, whether it is shown
// and how its value is rendered.
type Attr struct {
	// Key is the dataset column name.
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns that are only used for filtering or
	// sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey is the key used in json/yaml output and the column title for
	// text output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is a comma-joined list of value transforms.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a cell value.
//
// Transforms:
//   - u, l: upper or lower case. The last one in the spec wins.
//   - h: humanize numbers with thousands separators.
//   - N: truncate to N characters.
//   - -N: elide the middle to fit N characters.
func (a *Attr) Transform(value string) string {
	result := value
	if a.TransformSpec == "" {
		return result
	}

	if strings.ContainsAny(a.TransformSpec, "hH") {
		result = humanizeNumber(result)
	}

	// A global spec is prepended to the attr's own, so the attr's later case
	// transform takes precedence: --attrs '*::u,name::l' lower-cases name.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
		log.Tracef("case lower: result=%s", result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
		log.Tracef("case upper: result=%s", result)
	}

	// Same precedence rule for lengths: the last one wins.
	match := lengthRegex.FindAllString(a.TransformSpec, -1)
	if len(match) == 0 {
		return result
	}

	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	runes := []rune(result)
	if len(runes) <= abs {
		return result
	}

	if l < 0 {
		lr := max(abs/2-1, 0)
		result = string(runes[:lr]) + ".." + string(runes[len(runes)-lr:])
		log.Tracef("length middle: result=%s", result)
	} else {
		result = string(runes[:l])
		log.Tracef("length trunc: result=%s", result)
	}

	return result
}

func humanizeNumber(value string) string {
	s := strings.TrimSpace(value)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return humanize.Comma(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return humanize.Commaf(f)
	}
	return value
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// FromColumns builds a list that includes every column, titled by name.
func FromColumns(columns []string) AttrList {
	list := make(AttrList, 0, len(columns))
	for _, c := range columns {
		list = append(list, Attr{Key: c, Include: true, OutputKey: c})
	}
	return list
}

// Set parses an --attrs value and merges it into the list.
//
// Each comma-separated spec has up to three ':' separated fields: the column
// name, the output key and the transform spec. A leading '!' hides the
// column. The key '*' carries a transform applied to every column. Specs for
// a column already in the list update that entry in place; new columns are
// appended.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			continue
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("attr parsed: key=%s, include=%v, output=%s, spec=%s",
			attr.Key, attr.Include, attr.OutputKey, attr.TransformSpec)

		for i := range *a {
			if (*a)[i].Key == attr.Key {
				(*a)[i].Include = attr.Include
				if len(fields) > outputIdx {
					(*a)[i].OutputKey = attr.OutputKey
				}
				if len(fields) > transformIdx {
					(*a)[i].TransformSpec = attr.TransformSpec
				}
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the '*' transform spec, if any, to every
// attr in the list.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return
	}
	log.Debugf("global spec: spec=%s", spec)

	for i := range *a {
		if (*a)[i].Key == "*" {
			continue
		}
		if (*a)[i].TransformSpec == "" {
			(*a)[i].TransformSpec = spec
		} else {
			(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
		}
	}
}

// Visible returns the attrs that are shown in output.
func (a AttrList) Visible() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String returns the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != "*" {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}
