// Copyright (c) 2023-2024, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package todogen generates starter todo applications.
//
// A Request naming a framework, language, template kind and project name is resolved
// against a Registry into a Descriptor whose generator produces a Plan. Plans are pure data:
// the files to write, the packages to install and the command bootstrapping the project.
// A Generator performs plans in a fixed order: scaffold, install, write files, post-process.
package todogen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the logging interface used by the generator, no logging is done without one
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
}

// Generator creates projects from requests
type Generator struct {
	cfg          *Config
	log          Logger
	materializer *Materializer
}

// New creates a new generator
func New(cfg Config) (*Generator, error) {
	err := validateConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return &Generator{cfg: &cfg, materializer: NewMaterializer(nil)}, nil
}

// Logger configures a logger to use, no logging is done without this
func (g *Generator) Logger(log Logger) {
	g.log = log
	g.materializer.log = log
}

// Plan resolves req and builds its plan without touching the filesystem or running commands
func (g *Generator) Plan(req Request) (*Plan, error) {
	d, err := g.cfg.Registry.Resolve(req)
	if err != nil {
		return nil, err
	}

	plan, err := d.Generate(req)
	if err != nil {
		return nil, err
	}

	// payloads are JavaScript only, the scaffold template matches them whatever the language
	if req.Language == LanguageTypeScript {
		g.infof("TypeScript payloads are not available for %s, generating JavaScript", req)
	}

	plan.ProjectPath = filepath.Join(g.cfg.WorkingDirectory, req.ProjectName)

	if !g.cfg.SkipScaffold {
		plan.Scaffold, err = scaffoldCommand(g.cfg.ScaffoldCommand, plan.ScaffoldTemplate, req.ProjectName, g.cfg.WorkingDirectory)
		if err != nil {
			return nil, err
		}
	}

	if !g.cfg.SkipInstall && len(plan.Dependencies) > 0 {
		plan.Install, err = installCommand(g.cfg.InstallCommand, plan.Dependencies, plan.ProjectPath)
		if err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// Execute performs plan: runs the scaffolder, installs dependencies, writes the files and
// post-processes them. The first failure aborts the run, nothing is cleaned up.
func (g *Generator) Execute(plan *Plan) error {
	if plan.Scaffold != nil {
		g.infof("Creating %s project using: %s", plan.ScaffoldTemplate, plan.Scaffold)

		err := g.cfg.Runner.Run(*plan.Scaffold)
		if err != nil {
			return err
		}
	} else {
		// nothing created the project, the installer runs inside it
		err := os.MkdirAll(plan.ProjectPath, 0755)
		if err != nil {
			return &IOError{Path: plan.ProjectPath, Err: err}
		}
	}

	if plan.Install != nil {
		g.infof("Installing %s", strings.Join(plan.Dependencies, ", "))

		err := g.cfg.Runner.Run(*plan.Install)
		if err != nil {
			return err
		}
	}

	err := g.materializer.Materialize(plan.ProjectPath, plan.Files)
	if err != nil {
		return err
	}

	for _, f := range g.materializer.ChangedFiles() {
		err = g.postFile(plan.ProjectPath, f)
		if err != nil {
			return err
		}
	}

	return nil
}

// Generate resolves req, builds its plan and performs it
func (g *Generator) Generate(req Request) (*Plan, error) {
	plan, err := g.Plan(req)
	if err != nil {
		return nil, err
	}

	return plan, g.Execute(plan)
}

// Noop reports the action every file of plan would see, without writing files or running commands
func (g *Generator) Noop(plan *Plan) ([]PlannedFile, error) {
	return g.materializer.Plan(plan.ProjectPath, plan.Files)
}

// ChangedFiles returns the files written by the most recent Execute, relative to the
// project and always using forward slashes as separators
func (g *Generator) ChangedFiles() []string {
	return g.materializer.ChangedFiles()
}

func (g *Generator) postFile(root string, rel string) error {
	f := filepath.Join(root, filepath.FromSlash(rel))

	for _, p := range g.cfg.Post {
		for glob, line := range p {
			matched, err := filepath.Match(glob, filepath.Base(f))
			if err != nil {
				return err
			}

			if !matched {
				continue
			}

			cmd, err := postCommand(line, f, root)
			if err != nil {
				return err
			}

			g.infof("Post processing using: %s", cmd)

			err = g.cfg.Runner.Run(*cmd)
			if err != nil {
				return fmt.Errorf("failed to post process %s: %w", rel, err)
			}
		}
	}

	return nil
}

func (g *Generator) infof(format string, v ...any) {
	if g.log != nil {
		g.log.Infof(format, v...)
	}
}
