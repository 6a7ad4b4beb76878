// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/attrs"
	"github.com/tfctl/rpgdex/internal/output"
)

// Shells lists the completion scripts that can be generated.
var Shells = []string{"bash", "zsh"}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations that a single flag validator
// cannot see.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	var al attrs.AttrList
	if err := al.Set(c.String("attrs")); err != nil {
		return fmt.Errorf("--attrs: %w", err)
	}
	if c.Int("padding") < 0 {
		return fmt.Errorf("--padding: must not be negative")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, output.Formats)
}

func ShellValidator(value any) error {
	return oneOf(value, Shells)
}

func oneOf(value any, valid []string) error {
	s, ok := value.(string)
	if !ok || !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
