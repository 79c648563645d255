// Copyright (c) 2023-2024, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package validator evaluates boolean expr-lang expressions used by forms to decide
// whether a property applies and whether an answer is acceptable.
package validator

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/expr-lang/expr"
)

// Validate evaluates expression against env, the expression must produce a boolean
func Validate(env map[string]any, expression string) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	res, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("expression %q failed: %w", expression, err)
	}

	ok, isBool := res.(bool)
	if !isBool {
		return false, fmt.Errorf("expression %q did not return a boolean", expression)
	}

	return ok, nil
}

// SurveyValidator creates a survey validator evaluating expression with the answer available
// as value. Empty answers pass when not required.
func SurveyValidator(expression string, required bool) survey.Validator {
	return func(val any) error {
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("cannot validate %T values", val)
		}

		if str == "" {
			if required {
				return fmt.Errorf("a value is required")
			}
			return nil
		}

		env := map[string]any{"value": str, "Value": str}

		ok, err := Validate(env, expression)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("validation using %q did not pass", expression)
		}

		return nil
	}
}
