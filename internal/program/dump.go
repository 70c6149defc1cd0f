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
	"fmt"
	"io"
)

// Dump writes a two-section textual disassembly of p to w, in the bit-exact
// format dfvm_dump produces (spec §4.4, §6): a Constants section, a blank
// line, then an Instructions section. Instruction indices are zero-padded
// to 5 digits and are local to each section, matching the original.
func Dump(p *Program, w io.Writer) error {
	bw := &errWriter{w: w}

	bw.printf("Constants:\n")
	for i, insn := range p.Constants {
		bw.printf("%s\n", dumpConstant(i, insn))
	}

	bw.printf("\nInstructions:\n")
	for i, insn := range p.Instructions {
		bw.printf("%s\n", dumpInsn(i, insn))
	}

	return bw.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func dumpConstant(id int, insn Insn) string {
	switch insn.Op {
	case PutFValue:
		return fmt.Sprintf("%05d PUT_FVALUE\t%s <%s> -> reg#%d", id, insn.Value.String(), insn.Value.Type(), insn.Dst)
	case PutPcre:
		return fmt.Sprintf("%05d PUT_PCRE  \t%s <GRegex> -> reg#%d", id, insn.Regex.Pattern(), insn.Dst)
	default:
		panic(fmt.Sprintf("program: unreachable opcode %s in constants section", insn.Op))
	}
}

func dumpInsn(id int, insn Insn) string {
	switch insn.Op {
	case CheckExists:
		return fmt.Sprintf("%05d CHECK_EXISTS\t%s", id, insn.Field.DottedName)
	case ReadTree:
		return fmt.Sprintf("%05d READ_TREE\t\t%s -> reg#%d", id, insn.Field.DottedName, insn.Dst)
	case CallFunction:
		return fmt.Sprintf("%05d CALL_FUNCTION\t%s (%s) --> reg#%d", id, insn.Func.Name, dumpParams(insn.Params), insn.Dst)
	case MkRange:
		return fmt.Sprintf("%05d MK_RANGE\t\treg#%d[%s] -> reg#%d", id, insn.Src1, insn.Range.String(), insn.Dst)
	case AnyEq:
		return fmt.Sprintf("%05d ANY_EQ\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AllNe:
		return fmt.Sprintf("%05d ALL_NE\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyNe:
		return fmt.Sprintf("%05d ANY_NE\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyGt:
		return fmt.Sprintf("%05d ANY_GT\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyGe:
		return fmt.Sprintf("%05d ANY_GE\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyLt:
		return fmt.Sprintf("%05d ANY_LT\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyLe:
		return fmt.Sprintf("%05d ANY_LE\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyBitwiseAnd:
		return fmt.Sprintf("%05d ANY_BITWISE_AND\t\treg#%d == reg#%d", id, insn.Src1, insn.Src2)
	case AnyContains:
		return fmt.Sprintf("%05d ANY_CONTAINS\treg#%d contains reg#%d", id, insn.Src1, insn.Src2)
	case AnyMatches:
		return fmt.Sprintf("%05d ANY_MATCHES\treg#%d matches reg#%d", id, insn.Src1, insn.Src2)
	case AnyInRange:
		return fmt.Sprintf("%05d ANY_IN_RANGE\treg#%d in range reg#%d,reg#%d", id, insn.Src1, insn.Src2, insn.Src3)
	case Not:
		return fmt.Sprintf("%05d NOT", id)
	case Return:
		return fmt.Sprintf("%05d RETURN", id)
	case IfTrueGoto:
		return fmt.Sprintf("%05d IF-TRUE-GOTO\t%d", id, insn.Target)
	case IfFalseGoto:
		return fmt.Sprintf("%05d IF-FALSE-GOTO\t%d", id, insn.Target)
	default:
		panic(fmt.Sprintf("program: unreachable opcode %s in instruction section", insn.Op))
	}
}

func dumpParams(params []int) string {
	s := ""
	for i, r := range params {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("reg#%d", r)
	}
	return s
}
