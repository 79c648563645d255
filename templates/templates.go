// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package templates holds the payloads of the built-in project templates.
//
// Every template is a directory named <framework>/<kind> holding a template.yaml manifest and
// a files/ tree that mirrors the layout written into a generated project. Payloads are parsed
// as Go templates using [[ and ]] as delimiters so that JSX braces pass through untouched.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

//go:embed all:react
var assets embed.FS

const (
	// ManifestFile is the name of the manifest found in every template directory
	ManifestFile = "template.yaml"
	// FilesDirectory is the directory holding the payload tree of a template
	FilesDirectory = "files"

	leftDelimiter  = "[["
	rightDelimiter = "]]"
)

// Manifest describes a template beyond the files it writes
type Manifest struct {
	// Description is a short human readable summary
	Description string `yaml:"description"`
	// ScaffoldTemplate is the template name passed to the external scaffolder
	ScaffoldTemplate string `yaml:"scaffold_template"`
	// Dependencies are packages to install into the generated project, in order
	Dependencies []string `yaml:"dependencies"`
	// Placeholders are stub files written only when the scaffolder did not create them
	Placeholders []string `yaml:"placeholders"`
}

// Template is a loaded template directory
type Template struct {
	Manifest

	Name  string
	files fs.FS
}

// Assets is the embedded tree of built-in templates
func Assets() fs.FS {
	return assets
}

// Load loads a built-in template by framework and kind
func Load(framework string, kind string) (*Template, error) {
	return Open(assets, path.Join(framework, kind))
}

// Open loads the template found in dir of fsys
func Open(fsys fs.FS, dir string) (*Template, error) {
	mb, err := fs.ReadFile(fsys, path.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("cannot read template %s: %w", dir, err)
	}

	t := &Template{Name: dir}
	err = yaml.Unmarshal(mb, &t.Manifest)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest in template %s: %w", dir, err)
	}

	t.files, err = fs.Sub(fsys, path.Join(dir, FilesDirectory))
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Files lists the payload files of the template as sorted slash separated paths
func (t *Template) Files() ([]string, error) {
	var files []string

	err := fs.WalkDir(t.files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type().IsRegular() {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list files of template %s: %w", t.Name, err)
	}

	sort.Strings(files)

	return files, nil
}

// Render renders every payload file against data, returning content keyed by relative path
func (t *Template) Render(data any) (map[string]string, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("template %s has no files", t.Name)
	}

	result := make(map[string]string, len(files))
	for _, f := range files {
		body, err := fs.ReadFile(t.files, f)
		if err != nil {
			return nil, err
		}

		res, err := RenderString(f, string(body), data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s/%s failed: %w", t.Name, f, err)
		}

		result[f] = res
	}

	return result, nil
}

// RenderString renders a single payload using the template delimiters and sprig functions
func RenderString(name string, body string, data any) (string, error) {
	templ, err := template.New(name).
		Delims(leftDelimiter, rightDelimiter).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(body)
	if err != nil {
		return "", fmt.Errorf("parsing template %v failed: %w", name, err)
	}

	buf := bytes.NewBuffer([]byte{})
	err = templ.Execute(buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
