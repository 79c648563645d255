// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/choria-io/fisk"
	"github.com/choria-io/todogen"
	"github.com/choria-io/todogen/forms"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

//go:embed project_form.yaml
var projectForm []byte

var version = "1.3.0"

type initCommand struct {
	framework   string
	language    string
	template    string
	name        string
	config      string
	dryRun      bool
	skipInstall bool
	strict      bool
	debug       bool
}

func main() {
	cmd := &initCommand{}

	app := fisk.New("todogen", "Generates starter todo applications")
	app.Version(version)

	app.Help = `
Creates a new todo application using an external scaffolder and adds the
todo sources, dependencies and supporting files for the chosen template.

Without flags every choice is asked interactively.
`
	app.Flag("debug", "Enables debug logging").BoolVar(&cmd.debug)
	app.Flag("strict", "Fail when the chosen combination is not implemented yet").BoolVar(&cmd.strict)

	initCmd := app.Command("init", "Creates a new todo project").Default().Action(cmd.initAction)
	initCmd.Flag("framework", fmt.Sprintf("The framework to use (%s)", todogen.JoinValues(todogen.Frameworks))).PlaceHolder("NAME").StringVar(&cmd.framework)
	initCmd.Flag("language", fmt.Sprintf("The language to use (%s)", todogen.JoinValues(todogen.Languages))).PlaceHolder("NAME").StringVar(&cmd.language)
	initCmd.Flag("template", fmt.Sprintf("The template to generate (%s)", todogen.JoinValues(todogen.TemplateKinds))).PlaceHolder("KIND").StringVar(&cmd.template)
	initCmd.Flag("name", "The project name").PlaceHolder("NAME").StringVar(&cmd.name)
	initCmd.Flag("config", "Loads configuration from a YAML file").PlaceHolder("FILE").ExistingFileVar(&cmd.config)
	initCmd.Flag("dry-run", "Shows what would be done without changing anything").BoolVar(&cmd.dryRun)
	initCmd.Flag("skip-install", "Do not install template dependencies").BoolVar(&cmd.skipInstall)

	app.Command("templates", "Lists the available templates").Action(templatesAction)

	_, err := app.Parse(os.Args[1:])
	if err != nil {
		var ns *todogen.NotSupportedError
		if errors.As(err, &ns) && !cmd.strict {
			fmt.Println(text.FgYellow.Sprintf("%v, nothing was generated", err))
		} else {
			fmt.Fprintf(os.Stderr, "todogen: error: %v\n", err)
		}

		os.Exit(todogen.ExitCode(err, cmd.strict))
	}
}

func newLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: debug,
	})
}

func (c *initCommand) initAction(_ *fisk.ParseContext) error {
	cfg := todogen.Config{}
	if c.config != "" {
		loaded, err := todogen.LoadConfig(c.config)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	if c.skipInstall {
		cfg.SkipInstall = true
	}

	answers := map[string]string{
		"framework": c.framework,
		"language":  c.language,
		"template":  c.template,
		"name":      c.name,
	}

	if forms.IsTerminal() {
		var err error
		answers, err = forms.ProcessBytes(projectForm, nil, forms.WithAnswers(answers))
		if err != nil {
			return err
		}
	}

	req := requestFromAnswers(answers)

	gen, err := todogen.New(cfg)
	if err != nil {
		return err
	}
	gen.Logger(newLogger(c.debug))

	return c.generate(gen, req, os.Stdout)
}

// generate plans req and performs it, or shows it when doing a dry run. Nothing is
// written to out unless the request resolves.
func (c *initCommand) generate(gen *todogen.Generator, req todogen.Request, out io.Writer) error {
	plan, err := gen.Plan(req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Generating %s todo in %s with %s\n", text.Bold.Sprint(req.TemplateKind), text.Bold.Sprint(req.ProjectName), text.Bold.Sprint(req.Language))
	fmt.Fprintln(out)

	if c.dryRun {
		return showPlan(gen, plan, out)
	}

	err = gen.Execute(plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, text.FgGreen.Sprintf("Todo project created in %s", plan.ProjectPath))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "   cd %s\n", req.ProjectName)
	if plan.Install == nil {
		fmt.Fprintln(out, "   npm install")
	}
	fmt.Fprintln(out, "   npm run dev")

	return nil
}

// requestFromAnswers builds a request from form answers or flags, only the name has a default
func requestFromAnswers(answers map[string]string) todogen.Request {
	name := answers["name"]
	if name == "" {
		name = todogen.DefaultProjectName
	}

	return todogen.Request{
		Framework:    todogen.Framework(answers["framework"]),
		Language:     todogen.Language(answers["language"]),
		TemplateKind: todogen.TemplateKind(answers["template"]),
		ProjectName:  name,
	}
}

func showPlan(gen *todogen.Generator, plan *todogen.Plan, out io.Writer) error {
	planned, err := gen.Noop(plan)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)
	tbl.SetTitle(fmt.Sprintf("%s: %s", plan.Request, plan.ProjectPath))
	tbl.AppendHeader(table.Row{"Action", "File"})
	for _, f := range planned {
		tbl.AppendRow(table.Row{f.Action, f.Path})
	}
	fmt.Fprintln(out, tbl.Render())

	if plan.Scaffold != nil {
		fmt.Fprintf(out, "Scaffold: %s\n", plan.Scaffold)
	}
	if plan.Install != nil {
		fmt.Fprintf(out, " Install: %s\n", plan.Install)
	}

	return nil
}

func templatesAction(_ *fisk.ParseContext) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)
	tbl.AppendHeader(table.Row{"Framework", "Template", "Description"})
	for _, d := range todogen.DefaultRegistry.Descriptors() {
		tbl.AppendRow(table.Row{d.Framework, d.TemplateKind, d.Description})
	}
	fmt.Println(tbl.Render())

	return nil
}
