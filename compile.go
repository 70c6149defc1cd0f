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

package dfilter

import (
	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/checker"
	"github.com/bufbuild/dfilter/internal/codegen"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/dfparse"
	"github.com/bufbuild/dfilter/internal/dfunc"
	"github.com/bufbuild/dfilter/internal/program"
)

// compileOptions collects the settings a [CompileOption] may adjust.
type compileOptions struct {
	funcs map[string]*ast.FunctionDef
}

// CompileOption is a configuration setting for [Compile].
type CompileOption func(*compileOptions)

// WithFunctions adds (or overrides) entries in the function table available
// to calls in the filter text, on top of the built-in table ([dfunc.Registry]).
func WithFunctions(fns map[string]*ast.FunctionDef) CompileOption {
	return func(c *compileOptions) {
		for name, def := range fns {
			c.funcs[name] = def
		}
	}
}

// Program is a compiled filter expression, ready to be evaluated repeatedly
// against field trees via [Apply]. It is safe for concurrent use.
type Program struct {
	reg     *dfield.Registry
	program *program.Program
}

// Compile parses, checks, and lowers text into a [Program], resolving field
// names against reg. text must type-check against reg and the function
// table (the built-ins from [dfunc.Registry], plus anything added with
// [WithFunctions]) or Compile returns an error — a [*dfparse.ParseError] for
// grammar-level failures, or a [*checker.TypeError] for semantic ones.
func Compile(text string, reg *dfield.Registry, options ...CompileOption) (*Program, error) {
	opts := compileOptions{funcs: make(map[string]*ast.FunctionDef)}
	for name, def := range dfunc.Registry() {
		opts.funcs[name] = def
	}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	root, err := dfparse.Parse(text, reg, opts.funcs)
	if err != nil {
		return nil, err
	}
	checked, err := checker.Check(root)
	if err != nil {
		return nil, err
	}
	compiled, err := codegen.Generate(checked)
	if err != nil {
		return nil, err
	}
	return &Program{reg: reg, program: compiled}, nil
}

// InterestingFields returns the dotted names of every field this program's
// evaluation may read, in no particular order (spec §6's interesting_fields
// surface). A field registered under an alias chain is reported once per
// distinct HField the codegen emitted a READ_TREE or CHECK_EXISTS for.
func (p *Program) InterestingFields() []string {
	names := make([]string, 0, len(p.program.InterestingFields))
	for _, id := range p.program.InterestingFields {
		if hf := p.reg.ByID(id); hf != nil {
			names = append(names, hf.DottedName)
		}
	}
	return names
}

// DeprecatedTokens returns the human-readable deprecation warnings the
// checker collected while compiling text (spec §6's deprecated_tokens
// surface), such as a suggestion to parenthesize a mixed `&&`/`||`
// expression. An empty slice means the filter had none.
func (p *Program) DeprecatedTokens() []string {
	return p.program.Deprecated
}

// ID returns a string uniquely identifying this compiled program, stable
// for the lifetime of the process, suitable for correlating logs or caches
// across repeated [Apply] calls against the same Program.
func (p *Program) ID() string {
	return p.program.ID.String()
}
