// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes a markdown page per rpgdex subcommand. Flags and usage
// come from the live command tree; examples come from docs/examples.yaml.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/rpgdex/internal/command"
	"github.com/tfctl/rpgdex/internal/version"
)

type Subcommand struct {
	ID       string
	Short    string
	Usage    string
	Flags    []Flag
	Examples []Example
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

const pageTemplate = `# rpgdex {{ .ID }}

{{ .Short }}

## Usage

` + "```" + `
{{ .Usage }}
` + "```" + `
{{- if .Flags }}

## Flags

| Flag | Description | Default |
|------|-------------|---------|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}
{{- end }}
{{- if .Examples }}

## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}
{{- end }}

_Generated {{ .Date }} for rpgdex {{ .Version }}._
`

var page = template.Must(template.New("page").Parse(pageTemplate))

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(docs string) error {
	examples, err := loadExamples(filepath.Join(docs, "examples.yaml"))
	if err != nil {
		return err
	}

	app, err := command.InitApp(context.Background(), []string{"rpgdex"})
	if err != nil {
		return err
	}

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	for _, sub := range collect(app, examples) {
		name := filepath.Join(folder, sub.ID+".md")
		fmt.Println("Generating", name)
		if err := writePage(name, sub); err != nil {
			return err
		}
	}
	return nil
}

func writePage(name string, sub Subcommand) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()

	return render(file, sub, time.Now())
}

// loadExamples reads examples keyed by subcommand. A missing file yields none.
func loadExamples(path string) (map[string][]Example, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var examples map[string][]Example
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return examples, nil
}

// collect describes each subcommand of app with its flags sorted by name.
func collect(app *cli.Command, examples map[string][]Example) []Subcommand {
	subs := make([]Subcommand, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		usage := cmd.UsageText
		if usage == "" {
			usage = "rpgdex " + cmd.Name + " [flags]"
		}

		sub := Subcommand{
			ID:       cmd.Name,
			Short:    cmd.Usage,
			Usage:    usage,
			Examples: examples[cmd.Name],
		}
		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describeFlag(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})
		subs = append(subs, sub)
	}
	return subs
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	syntax := make([]string, len(names))
	for i, n := range names {
		if len(n) == 1 {
			syntax[i] = "-" + n
		} else {
			syntax[i] = "--" + n
		}
	}

	flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if d, ok := f.(interface{ GetUsage() string }); ok {
		flag.Description = d.GetUsage()
	}
	if d, ok := f.(interface{ GetDefaultText() string }); ok {
		flag.Default = d.GetDefaultText()
	}
	return flag
}

func render(w io.Writer, sub Subcommand, now time.Time) error {
	return page.Execute(w, TemplateData{
		Subcommand: sub,
		Date:       now.Format("January 2, 2006"),
		Version:    version.Version,
	})
}
