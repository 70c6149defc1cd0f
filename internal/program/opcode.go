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

// Package program defines Insn, Opcode, and Program: the compiled bytecode
// representation lowered to by internal/codegen and executed by internal/vm
// (spec §3.5, §3.6). The disassembler in dump.go is grounded on
// epan/dfilter/dfvm.c's dfvm_dump.
package program

// Opcode identifies one bytecode instruction kind (spec §3.5).
type Opcode int

const (
	PutFValue Opcode = iota
	PutPcre
	CheckExists
	ReadTree
	CallFunction
	MkRange
	AnyEq
	AllNe
	AnyNe
	AnyGt
	AnyGe
	AnyLt
	AnyLe
	AnyBitwiseAnd
	AnyContains
	AnyMatches
	AnyInRange
	Not
	IfTrueGoto
	IfFalseGoto
	Return
)

var opcodeNames = map[Opcode]string{
	PutFValue:     "PUT_FVALUE",
	PutPcre:       "PUT_PCRE",
	CheckExists:   "CHECK_EXISTS",
	ReadTree:      "READ_TREE",
	CallFunction:  "CALL_FUNCTION",
	MkRange:       "MK_RANGE",
	AnyEq:         "ANY_EQ",
	AllNe:         "ALL_NE",
	AnyNe:         "ANY_NE",
	AnyGt:         "ANY_GT",
	AnyGe:         "ANY_GE",
	AnyLt:         "ANY_LT",
	AnyLe:         "ANY_LE",
	AnyBitwiseAnd: "ANY_BITWISE_AND",
	AnyContains:   "ANY_CONTAINS",
	AnyMatches:    "ANY_MATCHES",
	AnyInRange:    "ANY_IN_RANGE",
	Not:           "NOT",
	IfTrueGoto:    "IF-TRUE-GOTO",
	IfFalseGoto:   "IF-FALSE-GOTO",
	Return:        "RETURN",
}

// String implements [fmt.Stringer].
func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "?"
}
