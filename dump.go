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

package dfilter

import (
	"io"

	"github.com/bufbuild/dfilter/internal/program"
)

// Dump writes p's disassembled bytecode to w, in the same format as
// dfvm_dump (spec §6's "dump" surface): one line per constant, then one
// line per instruction, each prefixed with its zero-padded index.
func Dump(p *Program, w io.Writer) error {
	return program.Dump(p.program, w)
}
