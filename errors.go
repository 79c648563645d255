// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"errors"
	"fmt"
)

// Exit codes reported by the CLI per error kind
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitValidation   = 2
	ExitNotSupported = 3
	ExitProcess      = 4
	ExitIO           = 5
)

// ValidationError reports an invalid project name or selection, found before any I/O
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NotSupportedError reports a valid combination that has no template implementation
type NotSupportedError struct {
	Framework    Framework
	Language     Language
	TemplateKind TemplateKind
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s (%s) %s templates are not implemented yet", e.Framework, e.Language, e.TemplateKind)
}

// ProcessError reports an external command that could not be started or exited non-zero
type ProcessError struct {
	Command  Command
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s failed with exit code %d", e.Command, e.ExitCode)
	}

	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IOError reports a failed file or directory write, earlier writes are not rolled back
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %s failed: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to the process exit status. Unsupported combinations are a
// soft no-op unless strict is set.
func ExitCode(err error, strict bool) int {
	var (
		validationErr   *ValidationError
		notSupportedErr *NotSupportedError
		processErr      *ProcessError
		ioErr           *IOError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &validationErr):
		return ExitValidation
	case errors.As(err, &notSupportedErr):
		if strict {
			return ExitNotSupported
		}
		return ExitOK
	case errors.As(err, &processErr):
		return ExitProcess
	case errors.As(err, &ioErr):
		return ExitIO
	default:
		return ExitFailure
	}
}
