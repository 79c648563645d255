// Copyright (c) 2023-2024, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package forms implements interactive terminal forms that collect user input.
// Forms are defined as YAML documents containing string properties that are
// presented to the user one by one. Properties support conditionals, validation
// expressions, enums and defaults.
//
// Answers are collected into a flat map keyed by property name. Conditionals are
// evaluated against the answers gathered so far, available as input, so later
// properties can depend on earlier choices. Answers known in advance, for example
// from command line flags, can be preset and are not asked again.
package forms

//go:generate mockgen -source forms.go -destination mock_test.go -package forms -typed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/Masterminds/sprig/v3"
	"github.com/choria-io/todogen/internal/validator"
	"gopkg.in/yaml.v3"
)

// surveyor abstracts the survey library for testability.
type surveyor interface {
	AskOne(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error
}

type defaultSurveyor struct{}

func (d *defaultSurveyor) AskOne(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return survey.AskOne(p, response, opts...)
}

// ProcessOption configures form processing
type ProcessOption func(*processor)

// WithAnswers presets answers, matching properties are not asked
func WithAnswers(answers map[string]string) ProcessOption {
	return func(p *processor) {
		for k, v := range answers {
			if v != "" {
				p.preset[k] = v
			}
		}
	}
}

// WithOutput sets where descriptions are written, defaults to os.Stdout
func WithOutput(w io.Writer) ProcessOption {
	return func(p *processor) {
		p.output = w
	}
}

func withSurveyor(s surveyor) ProcessOption {
	return func(p *processor) {
		p.surveyor = s
	}
}

func withIsTerminal(f func() bool) ProcessOption {
	return func(p *processor) {
		p.isTerminal = f
	}
}

// StringType is the only supported property type, an empty type means string
const StringType = "string"

// Form defines an interactive form with a name, description, and a list of properties
// to present to the user. The Description supports Go template syntax with Sprig functions
// and color markup tags like {red}text{/red}.
type Form struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Properties  []Property `json:"properties" yaml:"properties"`
}

// Property defines a single form field. Properties with Enum values are asked using a
// select prompt, EnumDescriptions optionally annotates those choices. ConditionalExpression
// is evaluated against the environment and the answers so far to decide whether to present
// this property.
type Property struct {
	Name                  string            `json:"name" yaml:"name"`
	Description           string            `json:"description" yaml:"description"`
	Help                  string            `json:"help" yaml:"help"`
	Type                  string            `json:"type" yaml:"type"`
	ConditionalExpression string            `json:"conditional" yaml:"conditional"`
	ValidationExpression  string            `json:"validation" yaml:"validation"`
	Required              bool              `json:"required" yaml:"required"`
	Default               string            `json:"default" yaml:"default"`
	Enum                  []string          `json:"enum" yaml:"enum"`
	EnumDescriptions      map[string]string `json:"enum_descriptions" yaml:"enum_descriptions"`
}

// RenderedDescription executes the property's Description as a Go template with Sprig
// functions against env, then applies color markup to the result.
func (p *Property) RenderedDescription(env map[string]any) (string, error) {
	t, err := template.New("property").Funcs(sprig.FuncMap()).Parse(p.Description)
	if err != nil {
		return "", err
	}

	buffer := bytes.NewBuffer([]byte{})
	err = t.Execute(buffer, env)
	if err != nil {
		return "", err
	}

	return colorMarkup(buffer.String()), nil
}

type processor struct {
	env        map[string]any
	preset     map[string]string
	surveyor   surveyor
	isTerminal func() bool
	output     io.Writer
}

// ProcessReader reads YAML form data from r and processes it interactively.
func ProcessReader(r io.Reader, env map[string]any, opts ...ProcessOption) (map[string]string, error) {
	fb, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return ProcessBytes(fb, env, opts...)
}

// ProcessFile reads YAML form data from the file at path f and processes it interactively.
func ProcessFile(f string, env map[string]any, opts ...ProcessOption) (map[string]string, error) {
	fb, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}

	return ProcessBytes(fb, env, opts...)
}

// ProcessBytes unmarshals f as a YAML form definition and processes it interactively.
func ProcessBytes(f []byte, env map[string]any, opts ...ProcessOption) (map[string]string, error) {
	var form Form
	err := yaml.Unmarshal(f, &form)
	if err != nil {
		return nil, err
	}

	return ProcessForm(form, env, opts...)
}

// ProcessForm presents the form interactively on a terminal and returns the collected
// answers keyed by property name. Properties skipped by their conditional are absent from
// the result. It requires a valid terminal (stdin and stdout). The env map provides
// template variables for descriptions and conditional expressions.
func ProcessForm(f Form, env map[string]any, opts ...ProcessOption) (map[string]string, error) {
	proc := &processor{
		env:        env,
		preset:     map[string]string{},
		surveyor:   &defaultSurveyor{},
		isTerminal: IsTerminal,
		output:     os.Stdout,
	}

	for _, o := range opts {
		o(proc)
	}

	if !proc.isTerminal() {
		return nil, fmt.Errorf("can only process forms on a valid terminal")
	}

	if len(f.Properties) == 0 {
		return nil, fmt.Errorf("no properties defined")
	}

	for _, prop := range f.Properties {
		if !isOneOf(prop.Type, StringType, "") {
			return nil, fmt.Errorf("unsupported property type %q for %s", prop.Type, prop.Name)
		}
	}

	if f.Description != "" {
		d, err := renderTemplate(f.Description, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(proc.output, d)
	}

	answers := map[string]string{}

	for _, prop := range f.Properties {
		should, err := proc.shouldProcess(prop, answers)
		if err != nil {
			return nil, err
		}
		if !should {
			continue
		}

		if v, ok := proc.preset[prop.Name]; ok {
			answers[prop.Name] = v
			continue
		}

		ans, err := proc.askStringValue(prop)
		if err != nil {
			return nil, err
		}

		answers[prop.Name] = ans
	}

	return answers, nil
}

// askStringEnum presents a select prompt with the property's Enum choices.
func (p *processor) askStringEnum(prop Property) (string, error) {
	var ans string

	deflt := prop.Default
	if prop.Default == "" {
		deflt = prop.Enum[0]
	}

	sel := &survey.Select{
		Message: prop.Name,
		Help:    prop.Help,
		Default: deflt,
		Options: prop.Enum,
	}

	if len(prop.EnumDescriptions) > 0 {
		sel.Description = func(value string, _ int) string {
			return prop.EnumDescriptions[value]
		}
	}

	err := p.surveyor.AskOne(sel, &ans)
	if err != nil {
		return "", err
	}

	return ans, nil
}

// askStringValue displays the property description, then prompts for a string value.
// Delegates to askStringEnum when the property has Enum values.
func (p *processor) askStringValue(prop Property) (string, error) {
	d, err := prop.RenderedDescription(p.env)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.output)
	fmt.Fprintln(p.output, d)
	fmt.Fprintln(p.output)

	if len(prop.Enum) > 0 {
		return p.askStringEnum(prop)
	}

	var ans string
	var opts []survey.AskOpt

	switch {
	case prop.ValidationExpression != "":
		opts = append(opts, survey.WithValidator(validator.SurveyValidator(prop.ValidationExpression, prop.Required)))
	case prop.Required:
		opts = append(opts, survey.WithValidator(survey.MinLength(1)))
	}

	err = p.surveyor.AskOne(&survey.Input{
		Message: prop.Name,
		Help:    prop.Help,
		Default: prop.Default,
	}, &ans, opts...)
	if err != nil {
		return "", err
	}

	return ans, nil
}

// shouldProcess evaluates the property's ConditionalExpression against the current
// environment merged with the answers collected so far (available as "input"/"Input").
// Returns true when there is no conditional or when the expression evaluates to true.
func (p *processor) shouldProcess(prop Property, answers map[string]string) (bool, error) {
	if prop.ConditionalExpression == "" {
		return true, nil
	}

	env := make(map[string]any)
	for k, v := range p.env {
		env[k] = v
	}

	input := make(map[string]any, len(answers)+len(p.preset))
	for k, v := range p.preset {
		input[k] = v
	}
	for k, v := range answers {
		input[k] = v
	}

	env["input"] = input
	env["Input"] = input

	return validator.Validate(env, prop.ConditionalExpression)
}
