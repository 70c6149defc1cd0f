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

package program_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/fvalue"
	"github.com/bufbuild/dfilter/internal/program"
)

func TestDumpMatchesDfvmDumpFormat(t *testing.T) {
	t.Parallel()

	hf := &dfield.HField{ID: 0, DottedName: "tcp.port", Type: fvalue.UInt16}
	p := &program.Program{
		Constants: []program.Insn{
			{Op: program.PutFValue, Value: fvalue.New(fvalue.UInt16, uint64(80)), Dst: 1},
		},
		Instructions: []program.Insn{
			{Op: program.ReadTree, Field: hf, Dst: 0},
			{Op: program.AnyEq, Src1: 0, Src2: 1},
			{Op: program.Return},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, program.Dump(p, &buf))

	want := "Constants:\n" +
		"00000 PUT_FVALUE\t80 <uint16> -> reg#1\n" +
		"\n" +
		"Instructions:\n" +
		"00000 READ_TREE\t\ttcp.port -> reg#0\n" +
		"00001 ANY_EQ\t\treg#0 == reg#1\n" +
		"00002 RETURN\n"
	require.Equal(t, want, buf.String())
}
