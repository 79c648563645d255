// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultScaffoldCommand bootstraps a Vite project, {} is the project name and {template} the scaffold template
	DefaultScaffoldCommand = "npm create vite@latest {} -- --template {template}"
	// DefaultInstallCommand installs dependencies, package names are appended
	DefaultInstallCommand = "npm install"
)

// Config configures a Generator
type Config struct {
	// WorkingDirectory is where projects are created, defaults to the current directory
	WorkingDirectory string `yaml:"working_directory"`
	// ScaffoldCommand bootstraps the project directory
	ScaffoldCommand string `yaml:"scaffold_command"`
	// InstallCommand installs extra dependencies into the project
	InstallCommand string `yaml:"install_command"`
	// SkipScaffold does not run the scaffold command, the project directory is created when missing
	SkipScaffold bool `yaml:"skip_scaffold"`
	// SkipInstall does not install dependencies declared by templates
	SkipInstall bool `yaml:"skip_install"`
	// Post configures post-processing of written files using filepath globs
	Post []map[string]string `yaml:"post"`

	// Registry resolves requests, defaults to DefaultRegistry
	Registry *Registry `yaml:"-"`
	// Runner runs external commands, defaults to an ExecRunner
	Runner Runner `yaml:"-"`
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	cb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}

	cfg := &Config{}
	err = yaml.Unmarshal(cb, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var err error

	if cfg.WorkingDirectory == "" {
		cfg.WorkingDirectory, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	cfg.WorkingDirectory, err = filepath.Abs(cfg.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("invalid working directory %s: %v", cfg.WorkingDirectory, err)
	}

	if cfg.ScaffoldCommand == "" {
		cfg.ScaffoldCommand = DefaultScaffoldCommand
	}

	if cfg.InstallCommand == "" {
		cfg.InstallCommand = DefaultInstallCommand
	}

	for _, line := range []string{cfg.ScaffoldCommand, cfg.InstallCommand} {
		_, _, err = splitCommand(line, nil)
		if err != nil {
			return err
		}
	}

	for _, p := range cfg.Post {
		for g, v := range p {
			_, err = filepath.Match(g, "")
			if err != nil {
				return fmt.Errorf("invalid post processing pattern %q: %w", g, err)
			}

			_, _, err = splitCommand(v, nil)
			if err != nil {
				return err
			}
		}
	}

	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry
	}

	if cfg.Runner == nil {
		cfg.Runner = &ExecRunner{}
	}

	return nil
}
