// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package checker implements the semantic checker (spec §4.1), grounded on
// epan/dfilter/semcheck.c: given the parser's AST root, it either succeeds
// (possibly rewriting nodes in place and collecting deprecation notices) or
// fails with a [TypeError].
package checker

import (
	"fmt"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/debug"
)

// TypeError is returned when a filter expression is syntactically well
// formed but semantically invalid, mirroring semcheck.c's single
// error-message-slot propagation (spec §5, §7).
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

func typeErrorf(format string, args ...any) error {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of a successful check: the (possibly rewritten) AST
// root plus any non-fatal deprecation warnings accumulated along the way.
// Per spec §7, warnings are only exposed when the overall check succeeds.
type Result struct {
	Root     ast.Node
	Warnings []string
}

// Check runs the semantic checker over root and returns the rewritten tree
// plus deprecation warnings, or a [TypeError].
func Check(root ast.Node) (*Result, error) {
	c := &checkerState{}
	test, ok := root.(*ast.Test)
	if !ok {
		return nil, typeErrorf("a filter expression must be a test, not a bare value")
	}
	if err := c.checkTest(test); err != nil {
		return nil, err
	}
	return &Result{Root: test, Warnings: c.warnings}, nil
}

type checkerState struct {
	warnings []string
}

func (c *checkerState) warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// checkTest dispatches on t.Op, per semcheck's top-level `semcheck` switch.
func (c *checkerState) checkTest(t *ast.Test) error {
	debug.Log(nil, "checker.checkTest", "op=%s", t.Op)

	switch t.Op {
	case ast.Exists:
		if _, ok := t.LHS.(*ast.Field); !ok {
			return typeErrorf("%s is not a field and cannot be tested for existence", describe(t.LHS))
		}
		return nil

	case ast.Not:
		return c.checkOperand(t.LHS)

	case ast.And, ast.Or:
		if err := c.checkOperand(t.LHS); err != nil {
			return err
		}
		if err := c.checkOperand(t.RHS); err != nil {
			return err
		}
		c.checkPrecedence(t)
		return nil

	default:
		return c.checkRelation(t)
	}
}

// checkOperand recurses into a logical operand, which must itself be a Test.
func (c *checkerState) checkOperand(n ast.Node) error {
	test, ok := n.(*ast.Test)
	if !ok {
		return typeErrorf("%s cannot be used as a boolean expression", describe(n))
	}
	return c.checkTest(test)
}

// checkPrecedence implements the "suggest parentheses around '&&' within
// '||'" deprecation (spec §4.1.1): if a child is a Test of the *other*
// logical operator and was not parenthesized in source, warn.
func (c *checkerState) checkPrecedence(t *ast.Test) {
	other := ast.Or
	if t.Op == ast.Or {
		other = ast.And
	}
	symbol := map[ast.TestOp]string{ast.And: "&&", ast.Or: "||"}
	for _, child := range []ast.Node{t.LHS, t.RHS} {
		if ct, ok := child.(*ast.Test); ok && ct.Op == other && !ct.Parenthesized() {
			c.warn("suggest parentheses around '%s' within '%s'", symbol[other], symbol[t.Op])
		}
	}
}

func describe(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Field:
		return fmt.Sprintf("%q", v.HField.DottedName)
	case *ast.String:
		return fmt.Sprintf("the string literal %q", v.Text)
	case *ast.Unparsed:
		return fmt.Sprintf("the literal %q", v.Text)
	case *ast.CharConst:
		return fmt.Sprintf("the character literal %q", v.Text)
	case *ast.FValue:
		return "a value"
	case *ast.Range:
		return "a byte-range expression"
	case *ast.Function:
		return fmt.Sprintf("the function %q", v.Def.Name)
	case *ast.Set:
		return "a set"
	case *ast.Pcre:
		return "a regular expression"
	case *ast.Test:
		return fmt.Sprintf("a %q expression", v.Op)
	default:
		return "an expression"
	}
}

