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

package vm

import (
	"github.com/bufbuild/dfilter/internal/debug"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/fvalue"
	"github.com/bufbuild/dfilter/internal/program"
)

// Apply evaluates p against tree and returns the filter's boolean result
// (spec §4.3). It is safe to call concurrently for the same *Program, since
// each call acquires its own [Scratch] from a shared pool.
func Apply(p *program.Program, tree *dfield.Tree) bool {
	s, drop := acquireScratch(p)
	defer drop()

	loadConstants(p, s)

	e := &exec{p: p, s: s, tree: tree, acc: true}
	return e.run()
}

func loadConstants(p *program.Program, s *Scratch) {
	if s.constLoaded {
		return
	}
	for _, insn := range p.Constants {
		switch insn.Op {
		case program.PutFValue:
			s.registers[insn.Dst] = []fvalue.Value{insn.Value}
		case program.PutPcre:
			// Regexes are looked up with p.RegexForRegister at ANY_MATCHES
			// time, so the constants register itself holds no values; it is
			// only marked as loaded below.
			s.registers[insn.Dst] = nil
		default:
			debug.Assert(false, "program: unreachable opcode %s in constants section", insn.Op)
		}
		s.attemptedLoad[insn.Dst] = true
	}
	s.constLoaded = true
}

type exec struct {
	p    *program.Program
	s    *Scratch
	tree *dfield.Tree
	ip   int
	acc  bool
}

func (e *exec) run() bool {
	insns := e.p.Instructions
	for {
		debug.Assert(e.ip >= 0 && e.ip < len(insns), "vm: instruction pointer %d out of range (program has %d instructions)", e.ip, len(insns))
		insn := insns[e.ip]
		debug.Log(nil, "vm.run", "ip=%d op=%s acc=%v", e.ip, insn.Op, e.acc)

		if insn.Op == program.Return {
			e.reset()
			return e.acc
		}

		jumped := e.step(insn)
		if !jumped {
			e.ip++
		}
	}
}

// step executes one instruction and reports whether it altered e.ip itself
// (only the conditional jumps do).
func (e *exec) step(insn program.Insn) (jumped bool) {
	switch insn.Op {
	case program.CheckExists:
		e.acc = e.tree.Exists(insn.Field)

	case program.ReadTree:
		e.acc = e.readTree(insn)

	case program.CallFunction:
		e.acc = e.callFunction(insn)

	case program.MkRange:
		e.mkRange(insn)

	case program.AnyEq:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], fvalue.Eq)
	case program.AnyNe:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return !fvalue.Eq(a, b) })
	case program.AllNe:
		e.acc = quantifyAll(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return !fvalue.Eq(a, b) })
	case program.AnyGt:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return fvalue.Order(a, b) > 0 })
	case program.AnyGe:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return fvalue.Order(a, b) >= 0 })
	case program.AnyLt:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return fvalue.Order(a, b) < 0 })
	case program.AnyLe:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], func(a, b fvalue.Value) bool { return fvalue.Order(a, b) <= 0 })
	case program.AnyBitwiseAnd:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], bitwiseAndTruthy)
	case program.AnyContains:
		e.acc = quantifyAny(e.s.registers[insn.Src1], e.s.registers[insn.Src2], fvalue.Contains)
	case program.AnyMatches:
		e.acc = e.anyMatches(insn)
	case program.AnyInRange:
		e.acc = e.anyInRange(insn)

	case program.Not:
		e.acc = !e.acc

	case program.IfTrueGoto:
		if e.acc {
			e.ip = insn.Target
			return true
		}
	case program.IfFalseGoto:
		if !e.acc {
			e.ip = insn.Target
			return true
		}

	default:
		debug.Assert(false, "vm: unreachable opcode %s in instruction section", insn.Op)
	}
	return false
}

// readTree implements READ_TREE's idempotent-per-run semantics (spec
// §4.3.2): a second visit to the same destination register within one
// evaluation is a no-op lookup of the already-loaded state.
func (e *exec) readTree(insn program.Insn) bool {
	if e.s.attemptedLoad[insn.Dst] {
		return len(e.s.registers[insn.Dst]) > 0
	}
	e.s.attemptedLoad[insn.Dst] = true
	values := e.tree.ReadAll(insn.Field)
	e.s.registers[insn.Dst] = values
	e.s.ownsMemory[insn.Dst] = false
	return len(values) > 0
}

func (e *exec) mkRange(insn program.Insn) {
	src := e.s.registers[insn.Src1]
	out := make([]fvalue.Value, len(src))
	for i, v := range src {
		out[i] = v.Slice(insn.Range)
	}
	e.s.registers[insn.Dst] = out
	e.s.attemptedLoad[insn.Dst] = true
	e.s.ownsMemory[insn.Dst] = true
	if len(out) > 0 {
		e.acc = true
	}
}

func (e *exec) anyMatches(insn program.Insn) bool {
	lhs := e.s.registers[insn.Src1]
	// The compiled regex lives on the PUT_PCRE instruction that populated
	// insn.Src2's constant register; codegen always pairs ANY_MATCHES with a
	// constant PCRE register, so look it up from the program's constants.
	re := e.p.RegexForRegister(insn.Src2)
	for _, v := range lhs {
		if re.Matches(v) {
			return true
		}
	}
	return false
}

func (e *exec) anyInRange(insn program.Insn) bool {
	lhs := e.s.registers[insn.Src1]
	low := e.s.registers[insn.Src2]
	high := e.s.registers[insn.Src3]
	debug.Assert(len(low) == 1 && len(high) == 1, "vm: ANY_IN_RANGE bounds must be singletons, got %d and %d", len(low), len(high))
	if len(low) != 1 || len(high) != 1 {
		return false
	}
	for _, v := range lhs {
		if fvalue.Order(low[0], v) <= 0 && fvalue.Order(v, high[0]) <= 0 {
			return true
		}
	}
	return false
}

func (e *exec) callFunction(insn program.Insn) bool {
	var p1, p2 []fvalue.Value
	if len(insn.Params) > 0 {
		p1 = e.s.registers[insn.Params[0]]
	}
	if len(insn.Params) > 1 {
		p2 = e.s.registers[insn.Params[1]]
	}
	result, ok := insn.Func.Impl(p1, p2)
	e.s.registers[insn.Dst] = result
	e.s.attemptedLoad[insn.Dst] = true
	e.s.ownsMemory[insn.Dst] = true
	return ok
}

// bitwiseAndTruthy reports whether a&b is non-zero, the way dfvm.c's
// ANY_BITWISE_AND treats the masked result as a boolean test.
func bitwiseAndTruthy(a, b fvalue.Value) bool {
	r := fvalue.BitwiseAnd(a, b)
	for _, bb := range r.ToBytes() {
		if bb != 0 {
			return true
		}
	}
	return false
}

// reset implements RETURN's per-run cleanup (spec §4.3.2): non-constant
// registers are cleared, constants survive.
func (e *exec) reset() {
	for i := 0; i < e.p.FirstConstantRegister; i++ {
		e.s.registers[i] = nil
		e.s.attemptedLoad[i] = false
		e.s.ownsMemory[i] = false
	}
}
