// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Runner runs external commands synchronously
type Runner interface {
	Run(cmd Command) error
}

// ExecRunner runs commands as child processes with their output streamed live
type ExecRunner struct {
	// Stdout, Stderr and Stdin default to those of the current process when nil
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Run starts c and waits for it to finish, any failure is a *ProcessError
func (r *ExecRunner) Run(c Command) error {
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return &ProcessError{Command: c, ExitCode: -1, Err: err}
	}

	cmd := exec.Command(bin, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin

	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{Command: c, ExitCode: exitErr.ExitCode(), Err: err}
		}

		return &ProcessError{Command: c, ExitCode: -1, Err: err}
	}

	return nil
}

// splitCommand splits a configured command line, replacing placeholders inside individual
// arguments. The second return reports whether {} was present.
func splitCommand(line string, replacements map[string]string) ([]string, bool, error) {
	parts, err := shellquote.Split(line)
	if err != nil {
		return nil, false, fmt.Errorf("invalid command %q: %w", line, err)
	}

	if len(parts) == 0 {
		return nil, false, fmt.Errorf("invalid command %q: no command given", line)
	}

	hasPlaceholder := false
	for i, p := range parts {
		if strings.Contains(p, "{}") {
			hasPlaceholder = true
		}

		for k, v := range replacements {
			p = strings.ReplaceAll(p, k, v)
		}
		parts[i] = p
	}

	return parts, hasPlaceholder, nil
}

// scaffoldCommand builds the scaffolder invocation, the project name is substituted for {}
// or appended as the last argument
func scaffoldCommand(line string, scaffoldTemplate string, name string, dir string) (*Command, error) {
	parts, hasPlaceholder, err := splitCommand(line, map[string]string{"{}": name, "{template}": scaffoldTemplate})
	if err != nil {
		return nil, err
	}

	if !hasPlaceholder {
		parts = append(parts, name)
	}

	return &Command{Name: parts[0], Args: parts[1:], Dir: dir}, nil
}

// installCommand builds the installer invocation with every dependency as its own argument
func installCommand(line string, deps []string, dir string) (*Command, error) {
	parts, _, err := splitCommand(line, nil)
	if err != nil {
		return nil, err
	}

	return &Command{Name: parts[0], Args: append(parts[1:], deps...), Dir: dir}, nil
}

// postCommand builds a post processing invocation for file f, substituted for {} or appended
func postCommand(line string, f string, dir string) (*Command, error) {
	parts, hasPlaceholder, err := splitCommand(line, map[string]string{"{}": f})
	if err != nil {
		return nil, err
	}

	if !hasPlaceholder {
		parts = append(parts, f)
	}

	return &Command{Name: parts[0], Args: parts[1:], Dir: dir}, nil
}
