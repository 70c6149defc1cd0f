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

package program

import (
	"github.com/google/uuid"

	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// Program is the compiled, read-only artifact produced by internal/codegen
// and evaluated by internal/vm (spec §3.6). It carries no per-run mutable
// state itself; per spec §5's recommendation for the rewrite, register
// scratch is externalized into a [github.com/bufbuild/dfilter/internal/vm.Scratch]
// obtained per call, not embedded here.
type Program struct {
	// ID uniquely tags this compiled program, for correlating debug.Log
	// lines emitted during codegen with the ones emitted during later VM
	// runs of the same program.
	ID uuid.UUID

	Constants    []Insn
	Instructions []Insn

	// NumRegisters is the total register count, including the constants
	// range at the top of the index space (see FirstConstantRegister).
	NumRegisters int
	// FirstConstantRegister is the first index of the constants range;
	// registers in [FirstConstantRegister, NumRegisters) are populated once
	// at program start and never reset between runs (spec §3.7).
	FirstConstantRegister int

	InterestingFields []dfield.ID
	Deprecated        []string

	// regexByReg maps a PUT_PCRE instruction's destination register to its
	// compiled regex, so ANY_MATCHES can find the pattern without scanning
	// the constants section at evaluation time.
	regexByReg map[int]*fvalue.Regex
}

// IsConstantRegister reports whether reg lies in the program's
// never-reset constants range.
func (p *Program) IsConstantRegister(reg int) bool {
	return reg >= p.FirstConstantRegister
}

// RegexForRegister returns the compiled regex loaded into reg by a
// PUT_PCRE constant instruction, or nil if reg does not hold one.
func (p *Program) RegexForRegister(reg int) *fvalue.Regex {
	return p.regexByReg[reg]
}

// SetRegexForRegister records reg as holding re, called by codegen while
// building the constants section.
func (p *Program) SetRegexForRegister(reg int, re *fvalue.Regex) {
	if p.regexByReg == nil {
		p.regexByReg = make(map[int]*fvalue.Regex)
	}
	p.regexByReg[reg] = re
}
