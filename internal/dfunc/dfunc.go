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

// Package dfunc provides the small built-in function table (upper, lower,
// string, len) that exercises Function/CALL_FUNCTION end-to-end (spec
// §3.4, §3.5). The source excerpt the spec is built from does not include
// dfilter's function table (epan/dfilter/dfunctions.c was not part of the
// retrieved sources), so this table is a minimal, self-contained stand-in
// rather than a port of any specific file.
package dfunc

import (
	"strings"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// Registry returns the built-in function table, keyed by name, ready to
// hand to [github.com/bufbuild/dfilter/internal/dfparse.Parse].
func Registry() map[string]*ast.FunctionDef {
	return map[string]*ast.FunctionDef{
		"upper":  upperDef(),
		"lower":  lowerDef(),
		"string": stringDef(),
		"len":    lenDef(),
	}
}

func requireStringyParam(index int, arg ast.Node) error {
	fv, ok := arg.(*ast.FValue)
	if !ok {
		return nil
	}
	if !fvalue.IsStringy(fv.Value.Type()) && !fvalue.IsBytesLike(fv.Value.Type()) {
		return errNotStringLike
	}
	return nil
}

var errNotStringLike = fmtErr("argument must be a string-like value")

type fmtErrType string

func (e fmtErrType) Error() string { return string(e) }

func fmtErr(s string) error { return fmtErrType(s) }

func upperDef() *ast.FunctionDef {
	return &ast.FunctionDef{
		Name: "upper", MinArgs: 1, MaxArgs: 1, ReturnType: fvalue.String,
		CheckParam: requireStringyParam,
		Impl: func(p1, _ []fvalue.Value) ([]fvalue.Value, bool) {
			out := make([]fvalue.Value, len(p1))
			for i, v := range p1 {
				out[i] = fvalue.New(fvalue.String, strings.ToUpper(v.String()))
			}
			return out, len(out) > 0
		},
	}
}

func lowerDef() *ast.FunctionDef {
	return &ast.FunctionDef{
		Name: "lower", MinArgs: 1, MaxArgs: 1, ReturnType: fvalue.String,
		CheckParam: requireStringyParam,
		Impl: func(p1, _ []fvalue.Value) ([]fvalue.Value, bool) {
			out := make([]fvalue.Value, len(p1))
			for i, v := range p1 {
				out[i] = fvalue.New(fvalue.String, strings.ToLower(v.String()))
			}
			return out, len(out) > 0
		},
	}
}

func stringDef() *ast.FunctionDef {
	return &ast.FunctionDef{
		Name: "string", MinArgs: 1, MaxArgs: 1, ReturnType: fvalue.String,
		Impl: func(p1, _ []fvalue.Value) ([]fvalue.Value, bool) {
			out := make([]fvalue.Value, len(p1))
			for i, v := range p1 {
				out[i] = fvalue.New(fvalue.String, v.String())
			}
			return out, len(out) > 0
		},
	}
}

func lenDef() *ast.FunctionDef {
	return &ast.FunctionDef{
		Name: "len", MinArgs: 1, MaxArgs: 1, ReturnType: fvalue.UInt32,
		Impl: func(p1, _ []fvalue.Value) ([]fvalue.Value, bool) {
			out := make([]fvalue.Value, len(p1))
			for i, v := range p1 {
				out[i] = fvalue.New(fvalue.UInt32, uint64(len(v.ToBytes())))
			}
			return out, len(out) > 0
		},
	}
}
