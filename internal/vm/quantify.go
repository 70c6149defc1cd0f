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

import "github.com/bufbuild/dfilter/internal/fvalue"

// quantifyAny reports whether there exists some a in lhs and b in rhs for
// which rel holds, matching dfvm.c's ANY_* comparison opcodes: a field with
// multiple occurrences (e.g. repeated headers) tests true if any pairing of
// its values against the RHS satisfies the relation. An empty side makes
// the existential vacuously false.
func quantifyAny(lhs, rhs []fvalue.Value, rel func(a, b fvalue.Value) bool) bool {
	for _, a := range lhs {
		for _, b := range rhs {
			if rel(a, b) {
				return true
			}
		}
	}
	return false
}

// quantifyAll reports whether rel holds for every pairing of lhs and rhs,
// used only by ALL_NE, the one relation with for-all-pairs semantics
// instead of exists-a-pair: it rejects a packet where *any* occurrence
// equals the excluded value. Plain "!=" lowers to ANY_NE, not ALL_NE. An
// empty side makes the universal vacuously true.
func quantifyAll(lhs, rhs []fvalue.Value, rel func(a, b fvalue.Value) bool) bool {
	for _, a := range lhs {
		for _, b := range rhs {
			if !rel(a, b) {
				return false
			}
		}
	}
	return true
}
