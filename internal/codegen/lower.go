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

package codegen

import (
	"fmt"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/debug"
	"github.com/bufbuild/dfilter/internal/program"
)

var relOpcode = map[ast.TestOp]program.Opcode{
	ast.Eq:         program.AnyEq,
	ast.Ne:         program.AnyNe,
	ast.AllNe:      program.AllNe,
	ast.Gt:         program.AnyGt,
	ast.Ge:         program.AnyGe,
	ast.Lt:         program.AnyLt,
	ast.Le:         program.AnyLe,
	ast.BitwiseAnd: program.AnyBitwiseAnd,
	ast.Contains:   program.AnyContains,
	ast.Matches:    program.AnyMatches,
}

// genTest lowers one Test node, emitting code that ends with the
// accumulator holding the test's boolean result (spec §4.2's lowering
// rules).
func (g *generator) genTest(t *ast.Test) {
	debug.Log(nil, "codegen.genTest", "op=%s", t.Op)

	switch t.Op {
	case ast.Exists:
		field := t.LHS.(*ast.Field)
		g.interesting.Store(field.HField.ID)
		g.emit(program.Insn{Op: program.CheckExists, Field: field.HField})

	case ast.Not:
		g.genTest(t.LHS.(*ast.Test))
		g.emit(program.Insn{Op: program.Not})

	case ast.And:
		g.genTest(t.LHS.(*ast.Test))
		patchIdx := g.emit(program.Insn{Op: program.IfFalseGoto})
		g.genTest(t.RHS.(*ast.Test))
		g.instructions[patchIdx].Target = len(g.instructions)

	case ast.Or:
		g.genTest(t.LHS.(*ast.Test))
		patchIdx := g.emit(program.Insn{Op: program.IfTrueGoto})
		g.genTest(t.RHS.(*ast.Test))
		g.instructions[patchIdx].Target = len(g.instructions)

	case ast.In:
		g.genIn(t)

	default:
		opcode, ok := relOpcode[t.Op]
		if !ok {
			panic(fmt.Sprintf("codegen: unhandled test operator %s", t.Op))
		}
		r1 := g.genNode(t.LHS)
		r2 := g.genNode(t.RHS)
		g.emit(program.Insn{Op: opcode, Src1: r1, Src2: r2})
	}
}

// genIn lowers `lhs in {elem, elem, low..high, ...}` to a chain of
// equality/range checks combined with Or short-circuit (spec §4.2).
func (g *generator) genIn(t *ast.Test) {
	set := t.RHS.(*ast.Set)
	lhsReg := g.genNode(t.LHS)

	var patches []int
	for i, elem := range set.Elems {
		if elem.High != nil {
			lowReg := g.genNode(elem.Low)
			highReg := g.genNode(elem.High)
			g.emit(program.Insn{Op: program.AnyInRange, Src1: lhsReg, Src2: lowReg, Src3: highReg})
		} else {
			valReg := g.genNode(elem.Low)
			g.emit(program.Insn{Op: program.AnyEq, Src1: lhsReg, Src2: valReg})
		}
		if i < len(set.Elems)-1 {
			patches = append(patches, g.emit(program.Insn{Op: program.IfTrueGoto}))
		}
	}
	end := len(g.instructions)
	for _, idx := range patches {
		g.instructions[idx].Target = end
	}
}

// genNode materializes n's value(s) into a register and returns its index,
// memoizing field reads so READ_TREE is emitted at most once per field
// (spec §4.2's register allocation strategy).
func (g *generator) genNode(n ast.Node) int {
	switch v := n.(type) {
	case *ast.Field:
		return g.genField(v)
	case *ast.FValue:
		return g.genFValue(v)
	case *ast.Pcre:
		return g.genPcre(v)
	case *ast.Range:
		return g.genRange(v)
	case *ast.Function:
		return g.genFunction(v)
	default:
		panic(fmt.Sprintf("codegen: %T cannot be materialized into a register", n))
	}
}

func (g *generator) genField(f *ast.Field) int {
	g.interesting.Store(f.HField.ID)
	if r, ok := g.fieldReg[f.HField.ID]; ok {
		return r
	}
	r := g.allocReg()
	g.fieldReg[f.HField.ID] = r
	g.emit(program.Insn{Op: program.ReadTree, Field: f.HField, Dst: r})
	return r
}

func (g *generator) genFValue(v *ast.FValue) int {
	idx := len(g.constants)
	r := g.allocConstReg(idx)
	g.constants = append(g.constants, program.Insn{Op: program.PutFValue, Value: v.Value, Dst: r})
	return r
}

func (g *generator) genPcre(p *ast.Pcre) int {
	idx := len(g.constants)
	r := g.allocConstReg(idx)
	g.constants = append(g.constants, program.Insn{Op: program.PutPcre, Regex: p.Regex, Dst: r})
	return r
}

func (g *generator) genRange(r *ast.Range) int {
	src := g.genNode(r.Child)
	dst := g.allocReg()
	g.emit(program.Insn{Op: program.MkRange, Src1: src, Range: r.DR, Dst: dst})
	return dst
}

// genFunction lowers a call to at most two parameter registers, matching
// CALL_FUNCTION's f, p1?, p2? -> r shape (spec §3.5); functions taking more
// parameters are outside this bytecode's expressiveness and must be
// rejected by the registered FunctionDef's MaxArgs.
func (g *generator) genFunction(fn *ast.Function) int {
	debug.Assert(len(fn.Params) <= 2, "codegen: function %q has %d params, CALL_FUNCTION supports at most 2", fn.Def.Name, len(fn.Params))
	params := make([]int, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, g.genNode(p))
	}
	dst := g.allocReg()
	g.emit(program.Insn{Op: program.CallFunction, Func: fn.Def, Params: params, Dst: dst})
	return dst
}
