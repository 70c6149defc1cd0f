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

// Package vm implements the bytecode VM that evaluates a compiled
// [program.Program] against a [dfield.Tree] (spec §4.3), grounded on
// epan/dfilter/dfvm.c's cmp_test/read_tree/put_fvalue dispatch.
package vm

import (
	"github.com/google/uuid"

	"github.com/bufbuild/dfilter/internal/fvalue"
	"github.com/bufbuild/dfilter/internal/program"
	"github.com/bufbuild/dfilter/internal/sync2"
)

// Scratch holds one evaluation's mutable register state, externalized from
// [program.Program] per spec §5's recommendation so that one compiled
// program can be evaluated concurrently from multiple goroutines, each with
// its own Scratch.
//
// A Scratch remembers which Program it last evaluated (programID) so that
// repeated [Apply] calls against the same program reusing the same Scratch
// can skip re-loading constants (spec §3.7: constants are "populated once
// at program-start and never cleared across runs"), while a Scratch handed
// to a different program correctly reloads them.
type Scratch struct {
	programID     uuid.UUID
	firstConstReg int
	registers     [][]fvalue.Value
	attemptedLoad []bool
	ownsMemory    []bool
	constLoaded   bool
}

// scratchPool recycles Scratch buffers across evaluations, the way the
// teacher pools decode-time scratch allocations. Reset only clears the
// non-constant register range: slots at or beyond firstConstReg are the
// constants range, which spec §3.7 says must survive across runs — so a
// Scratch that happens to be reused for the *same* Program sees its
// constants stay resident, skipping PUT_FVALUE/PUT_PCRE re-execution.
var scratchPool = sync2.Pool[Scratch]{
	Reset: func(s *Scratch) {
		for i := 0; i < s.firstConstReg && i < len(s.registers); i++ {
			s.registers[i] = nil
			s.attemptedLoad[i] = false
			s.ownsMemory[i] = false
		}
	},
}

// acquireScratch returns a Scratch sized for p, reloading constants iff s
// was not already bound to this exact program.
func acquireScratch(p *program.Program) (*Scratch, func()) {
	s, drop := scratchPool.Get()
	if s.programID != p.ID || len(s.registers) != p.NumRegisters {
		s.registers = make([][]fvalue.Value, p.NumRegisters)
		s.attemptedLoad = make([]bool, p.NumRegisters)
		s.ownsMemory = make([]bool, p.NumRegisters)
		s.constLoaded = false
		s.programID = p.ID
		s.firstConstReg = p.FirstConstantRegister
	}
	return s, drop
}
