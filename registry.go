// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"fmt"
	"path"
	"sort"

	"github.com/choria-io/todogen/templates"
)

// GenerateFunc builds the plan for a request without side effects
type GenerateFunc func(req Request) (*Plan, error)

// Descriptor is a registry entry for one framework and template kind
type Descriptor struct {
	Framework    Framework
	TemplateKind TemplateKind
	Description  string
	Generate     GenerateFunc
}

// Registry maps frameworks and template kinds to their generators
type Registry struct {
	entries map[Framework]map[TemplateKind]*Descriptor
}

// DefaultRegistry holds the built-in templates
var DefaultRegistry = newDefaultRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: map[Framework]map[TemplateKind]*Descriptor{}}
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, kind := range []TemplateKind{KindSimple, KindRedux, KindHooks} {
		r.Register(MustTemplateDescriptor(FrameworkReact, kind))
	}

	return r
}

// Register adds d to the registry, registering the same framework and kind twice panics
func (r *Registry) Register(d *Descriptor) {
	if d == nil || d.Generate == nil {
		panic("descriptor without a generator")
	}

	kinds, ok := r.entries[d.Framework]
	if !ok {
		kinds = map[TemplateKind]*Descriptor{}
		r.entries[d.Framework] = kinds
	}

	if _, ok := kinds[d.TemplateKind]; ok {
		panic(fmt.Sprintf("duplicate template %s/%s", d.Framework, d.TemplateKind))
	}

	kinds[d.TemplateKind] = d
}

// Resolve validates req and finds its descriptor. Valid combinations without an
// implementation return a *NotSupportedError.
func (r *Registry) Resolve(req Request) (*Descriptor, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	notSupported := &NotSupportedError{Framework: req.Framework, Language: req.Language, TemplateKind: req.TemplateKind}

	kinds, ok := r.entries[req.Framework]
	if !ok {
		return nil, notSupported
	}

	d, ok := kinds[req.TemplateKind]
	if !ok {
		return nil, notSupported
	}

	return d, nil
}

// Kinds lists the template kinds implemented for framework in prompt order
func (r *Registry) Kinds(framework Framework) []TemplateKind {
	var kinds []TemplateKind
	for _, k := range TemplateKinds {
		if _, ok := r.entries[framework][k]; ok {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Descriptors lists every registered descriptor sorted by framework and kind
func (r *Registry) Descriptors() []*Descriptor {
	var result []*Descriptor
	for _, kinds := range r.entries {
		for _, d := range kinds {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Framework == result[j].Framework {
			return result[i].TemplateKind < result[j].TemplateKind
		}
		return result[i].Framework < result[j].Framework
	})

	return result
}

// Resolve resolves req against the DefaultRegistry
func Resolve(req Request) (*Descriptor, error) {
	return DefaultRegistry.Resolve(req)
}

// MustTemplateDescriptor creates a descriptor for a built-in template, panics when the embedded template is broken
func MustTemplateDescriptor(framework Framework, kind TemplateKind) *Descriptor {
	t, err := templates.Load(string(framework), string(kind))
	if err != nil {
		panic(err)
	}

	return TemplateDescriptor(framework, kind, t)
}

// TemplateDescriptor creates a descriptor whose generator renders t
func TemplateDescriptor(framework Framework, kind TemplateKind, t *templates.Template) *Descriptor {
	return &Descriptor{
		Framework:    framework,
		TemplateKind: kind,
		Description:  t.Description,
		Generate: func(req Request) (*Plan, error) {
			rendered, err := t.Render(req)
			if err != nil {
				return nil, err
			}

			files := FileSet{}
			for p, content := range rendered {
				files[p] = File{Content: content}
			}

			for _, p := range t.Placeholders {
				if _, ok := files[p]; ok {
					return nil, fmt.Errorf("placeholder %s in template %s is also a payload file", p, t.Name)
				}

				files[p] = File{Content: fmt.Sprintf("// %s\n", path.Base(p)), Placeholder: true}
			}

			return &Plan{
				Request:          req,
				Description:      t.Description,
				ScaffoldTemplate: t.ScaffoldTemplate,
				Files:            files,
				Dependencies:     append([]string(nil), t.Dependencies...),
			}, nil
		},
	}
}
