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
	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/drange"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// Insn is one bytecode instruction. Unlike dfvm_insn_t's four void*
// arg-slots, each field here is named for the opcodes that use it; a given
// Insn only populates the fields its Op actually reads (see the comment on
// each field below, and dump.go for the authoritative mapping).
type Insn struct {
	Op Opcode

	Field *dfield.HField // CheckExists, ReadTree

	Value fvalue.Value  // PutFValue
	Regex *fvalue.Regex // PutPcre

	Func   *ast.FunctionDef // CallFunction
	Params []int            // CallFunction: 0-2 source register indices

	Range drange.Range // MkRange

	Dst  int // destination register: PutFValue, PutPcre, ReadTree, CallFunction, MkRange
	Src1 int // AnyEq.../MkRange source register, AnyInRange's tested register
	Src2 int // AnyEq.../AnyInRange's low-bound register
	Src3 int // AnyInRange's high-bound register

	Target int // IfTrueGoto, IfFalseGoto
}
