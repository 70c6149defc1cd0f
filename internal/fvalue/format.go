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

package fvalue

import (
	"fmt"
	"strconv"

	"github.com/bufbuild/dfilter/internal/dbg"
)

func itoa(n int64) string    { return strconv.FormatInt(n, 10) }
func uitoa(n uint64) string  { return strconv.FormatUint(n, 10) }
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Format implements [fmt.Formatter] using the teacher's dbg.Dict pattern, so
// that Value prints the same way as other internal structs when used with
// %v inside debug traces.
func (v Value) Format(s fmt.State, verb rune) {
	dbg.Dict("Value", "type", v.typ, "repr", v.String()).Format(s, verb)
}
