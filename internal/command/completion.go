// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rpgdex/internal/meta"
)

const bashCompletionScript = `# bash completion for rpgdex
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_rpgdex()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "moves roles races browse completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --data -d --filter -f --output -o --padding -p --region --schema --sort -s --titles -t"

    case "$cmd" in
        moves)
            local opts="$common --roles --races --all-races --special"
            ;;
        roles)
            local opts="$common --races"
            ;;
        races)
            local opts="$common"
            ;;
        browse)
            local opts="--data -d --region"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml csv" -- "$cur") )
            return 0
            ;;
        --data|-d)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _rpgdex rpgdex
`

const zshCompletionScript = `#compdef rpgdex

_rpgdex() {
  local -a cmds
  cmds=(
    'moves:moves available to roles and races'
    'roles:roles, optionally limited to races'
    'races:races'
    'browse:interactive browser'
    'completion:generate shell completion script'
  )

  local -a data
  data=(
  '(-d --data)'{-d,--data}'[dataset location]:location:_files'
  '--region[AWS region for s3 data]:region'
  )

  local -a common
  common=(
  $data
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml csv)'
  '(-p --padding)'{-p,--padding}'[column padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort columns]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[list columns]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'rpgdex commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    moves)
      _arguments -C \
        $common \
        '--roles[role ids]:roles' \
        '--races[race ids]:races' \
        '--all-races[match any race]' \
        '--special[special tags]:special'
      ;;
    roles)
      _arguments -C \
        $common \
        '--races[race ids]:races'
      ;;
    races)
      _arguments -C $common
      ;;
    browse)
      _arguments -C $data
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _rpgdex rpgdex
`

// completionScript returns the script for shell, falling back to $SHELL.
func completionScript(shell string) (string, bool) {
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		return bashCompletionScript, true
	case "zsh":
		return zshCompletionScript, true
	}
	return "", false
}

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell != "" {
		if err := FlagValidators(shell, ShellValidator); err != nil {
			return fmt.Errorf("completion %s: %w", shell, err)
		}
	}

	script, ok := completionScript(shell)
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: rpgdex completion [bash|zsh]")
		return nil
	}
	fmt.Fprint(Writer(cmd), script)
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "rpgdex completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
