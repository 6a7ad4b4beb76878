// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/aws"
)

const (
	// EnvData names the dataset location.
	EnvData = "RPGDEX_DATA"
	// EnvRegion is the AWS region used for s3:// locations.
	EnvRegion = "RPGDEX_AWS_REGION"
)

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the columns of the table and exit",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the flags shared by every table command. ns is the
// command name; path is the config file the flag defaults may be read from.
func NewGlobalFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of columns to include in results",
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		}),
		NewDataFlag(ns, path),
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.IntFlag{
			Name:    "padding",
			Aliases: []string{"p"},
			Usage:   "space between text output columns",
			Value:   2,
		}),
		NewRegionFlag(path),
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		}),
	}

	return
}

// NewDataFlag constructs the --data flag. The location is taken from the
// flag, RPGDEX_DATA, the <ns>.data or data config keys, and finally the
// current directory.
func NewDataFlag(ns string, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "dataset directory, SQLite file or " + aws.Scheme + "://bucket/prefix",
		Sources: cli.EnvVars(EnvData),
		Value:   ".",
	})
}

// NewRegionFlag constructs the --region flag used for s3:// locations. The
// aws.region config key is consulted after RPGDEX_AWS_REGION.
func NewRegionFlag(path string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "region",
		Usage:   "AWS region for " + aws.Scheme + ":// data",
		Sources: cli.EnvVars(EnvRegion),
	}
	if path != "" {
		flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML("aws.region", altsrc.StringSourcer(path)))
	}
	return flag
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. Sources already on the flag, such
// as env vars, keep precedence.
func NameSpacedValueChainFlagFromConfigFile[T any, C any, VC cli.ValueCreator[T, C]](
	ns string,
	path string,
	flag *cli.FlagBase[T, C, VC],
) *cli.FlagBase[T, C, VC] {
	if path == "" {
		return flag
	}

	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
