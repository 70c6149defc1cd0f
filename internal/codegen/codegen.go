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

// Package codegen lowers a checked AST into a [program.Program] (spec
// §4.2). Nothing here is present in the original excerpt the spec quotes —
// it is "implied by the VM" — so this package's lowering rules are built
// directly from the spec's own sketch, cross-checked against
// epan/dfilter/dfvm.c's opcode semantics for what each instruction expects
// of its operands.
package codegen

import (
	"github.com/google/uuid"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/checker"
	"github.com/bufbuild/dfilter/internal/debug"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/program"
	"github.com/bufbuild/dfilter/internal/stats"
	"github.com/bufbuild/dfilter/internal/xsync"
)

// InstructionsPerProgram and RegistersPerProgram track aggregate codegen
// output size, the way the teacher's internal/stats counters track
// aggregate per-message decode cost.
var (
	InstructionsPerProgram stats.Mean
	RegistersPerProgram    stats.Mean
)

// generator lowers one checked AST. Constant registers (literal values,
// compiled regexes) are allocated from a separate, negative-encoded
// namespace during the main walk and remapped to the top of the register
// file in a final pass, once the non-constant register count is known —
// this is what lets constants "occupy indices [first_constant,
// num_registers)" (spec §3.7) without a two-pass AST walk.
type generator struct {
	fieldReg     map[dfield.ID]int
	constants    []program.Insn
	instructions []program.Insn
	nextReg      int
	interesting  xsync.Set[dfield.ID]
}

// Generate lowers a checked AST (the output of [checker.Check]) into a
// compiled [program.Program].
func Generate(result *checker.Result) (*program.Program, error) {
	g := &generator{fieldReg: make(map[dfield.ID]int)}

	root, ok := result.Root.(*ast.Test)
	if !ok {
		return nil, &checker.TypeError{Message: "checked root is not a test"}
	}

	debug.Log(nil, "codegen.Generate", "lowering root op=%s", root.Op)
	g.genTest(root)
	g.emit(program.Insn{Op: program.Return})

	base := g.nextReg
	for i := range g.constants {
		g.constants[i].Dst = base + i
	}
	remapAll(g.constants, base)
	remapAll(g.instructions, base)

	var fields []dfield.ID
	for id := range g.interesting.All() {
		fields = append(fields, id)
	}

	numRegisters := base + len(g.constants)
	InstructionsPerProgram.Record(float64(len(g.instructions)))
	RegistersPerProgram.Record(float64(numRegisters))

	prog := &program.Program{
		ID:                    uuid.New(),
		Constants:             g.constants,
		Instructions:          g.instructions,
		NumRegisters:          numRegisters,
		FirstConstantRegister: base,
		InterestingFields:     fields,
		Deprecated:            result.Warnings,
	}
	for _, insn := range prog.Constants {
		if insn.Op == program.PutPcre {
			prog.SetRegexForRegister(insn.Dst, insn.Regex)
		}
	}
	return prog, nil
}

// remapAll rewrites every constant-register placeholder (negative, encoding
// -(constIndex+1)) appearing in insns' register-valued fields to its final
// register number base+constIndex. Insn.Target is a jump index, not a
// register, and is left untouched.
func remapAll(insns []program.Insn, base int) {
	remap := func(r int) int {
		if r < 0 {
			return base + (-r - 1)
		}
		return r
	}
	for i := range insns {
		insn := &insns[i]
		insn.Dst = remap(insn.Dst)
		insn.Src1 = remap(insn.Src1)
		insn.Src2 = remap(insn.Src2)
		insn.Src3 = remap(insn.Src3)
		for j, p := range insn.Params {
			insn.Params[j] = remap(p)
		}
	}
}

func (g *generator) emit(insn program.Insn) int {
	g.instructions = append(g.instructions, insn)
	return len(g.instructions) - 1
}

func (g *generator) allocReg() int {
	r := g.nextReg
	g.nextReg++
	return r
}

// allocConstReg returns a negative placeholder register for the
// constIndex-th constant; see remapAll.
func (g *generator) allocConstReg(constIndex int) int {
	return -(constIndex + 1)
}
