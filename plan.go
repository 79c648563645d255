// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"sort"

	"github.com/kballard/go-shellquote"
)

// File is a single entry in a FileSet
type File struct {
	Content string
	// Placeholder files are only written when nothing exists at their path yet
	Placeholder bool
}

// FileSet maps slash separated paths, relative to the project, to their content
type FileSet map[string]File

// Paths returns the paths in the set in sorted order
func (f FileSet) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// Command is an external command invocation, arguments are never passed through a shell
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the command
	Dir string
}

// String renders the command as a shell quoted line, for display only
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Plan describes everything a generation run does. Generators produce plans as pure data,
// the Generator decides when and whether to perform them.
type Plan struct {
	Request     Request
	Description string
	// ScaffoldTemplate is the template name the external scaffolder is asked for
	ScaffoldTemplate string
	// Files are written into ProjectPath after scaffolding and installation
	Files FileSet
	// Dependencies are packages to install into the project, in order
	Dependencies []string

	// ProjectPath is the absolute directory the project is created in
	ProjectPath string
	// Scaffold bootstraps the project directory, nil when scaffolding is skipped
	Scaffold *Command
	// Install installs Dependencies, nil when there is nothing to install or installation is skipped
	Install *Command
}
