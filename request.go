// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"fmt"
	"regexp"
	"strings"
)

// Framework is the front-end library family of a generated project
type Framework string

// Language is the source language of a generated project
type Language string

// TemplateKind selects the starter application logic to generate
type TemplateKind string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkVanilla Framework = "vanilla"

	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"

	// KindSimple keeps todos in local component state
	KindSimple TemplateKind = "simple"
	// KindRedux keeps todos and auth in a Redux Toolkit store
	KindRedux TemplateKind = "redux"
	// KindHooks wraps todo state in a custom hook
	KindHooks TemplateKind = "hooks"
)

// DefaultProjectName is offered when the user does not pick a name
const DefaultProjectName = "my-todo"

const maxProjectNameLength = 214

var (
	// Frameworks lists every known framework in prompt order
	Frameworks = []Framework{FrameworkReact, FrameworkVue, FrameworkVanilla}
	// Languages lists every known language in prompt order
	Languages = []Language{LanguageJavaScript, LanguageTypeScript}
	// TemplateKinds lists every known template kind in prompt order
	TemplateKinds = []TemplateKind{KindSimple, KindRedux, KindHooks}

	projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Request is the set of choices made for one generation run
type Request struct {
	Framework    Framework    `json:"framework" yaml:"framework"`
	Language     Language     `json:"language" yaml:"language"`
	TemplateKind TemplateKind `json:"template" yaml:"template"`
	ProjectName  string       `json:"name" yaml:"name"`
}

// String identifies the requested combination, for example react/javascript/redux
func (r Request) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Framework, r.Language, r.TemplateKind)
}

// Validate checks the project name and enum members. Whether the template kind is
// supported by the framework is decided by the Registry, not here.
func (r Request) Validate() error {
	err := ValidateProjectName(r.ProjectName)
	if err != nil {
		return err
	}

	if !isOneOf(r.Framework, Frameworks...) {
		return &ValidationError{Field: "framework", Value: string(r.Framework), Reason: fmt.Sprintf("must be one of %s", JoinValues(Frameworks))}
	}

	if !isOneOf(r.Language, Languages...) {
		return &ValidationError{Field: "language", Value: string(r.Language), Reason: fmt.Sprintf("must be one of %s", JoinValues(Languages))}
	}

	if strings.TrimSpace(string(r.TemplateKind)) == "" {
		return &ValidationError{Field: "template", Value: string(r.TemplateKind), Reason: "is required"}
	}

	return nil
}

// ValidateProjectName checks that name can be used as a directory below the working
// directory and as a package name passed to the scaffolder
func ValidateProjectName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: "name", Value: name, Reason: "is required"}

	case len(name) > maxProjectNameLength:
		return &ValidationError{Field: "name", Value: name, Reason: fmt.Sprintf("must be at most %d characters", maxProjectNameLength)}

	case !projectNamePattern.MatchString(name):
		return &ValidationError{Field: "name", Value: name, Reason: "must start with a letter or digit and contain only letters, digits, '.', '_' and '-'"}
	}

	return nil
}

func isOneOf[T comparable](val T, valid ...T) bool {
	for _, v := range valid {
		if val == v {
			return true
		}
	}

	return false
}

// JoinValues joins enum values into a comma separated list
func JoinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}

	return strings.Join(parts, ", ")
}
