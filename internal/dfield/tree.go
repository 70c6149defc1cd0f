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

package dfield

import "github.com/bufbuild/dfilter/internal/fvalue"

// Tree is a minimal in-memory field tree, standing in for the dissector's
// per-packet output (SPEC_FULL §3). It records, for each field id, every
// occurrence's value within one packet — the multi-value semantics the VM
// quantifies over (spec §2(b)).
//
// Tree is read by [github.com/bufbuild/dfilter/internal/vm] once per
// evaluation; it is never mutated by the VM. The caller is expected to
// build a fresh Tree per packet.
type Tree struct {
	occurrences map[ID][]fvalue.Value
}

// NewTree returns an empty field tree.
func NewTree() *Tree {
	return &Tree{occurrences: make(map[ID][]fvalue.Value)}
}

// Add records one occurrence of the field id in the tree, in dissection
// (encounter) order.
func (t *Tree) Add(id ID, v fvalue.Value) {
	t.occurrences[id] = append(t.occurrences[id], v)
}

// Occurrences returns every occurrence of id recorded in t, in encounter
// order, or nil if the field did not appear.
func (t *Tree) Occurrences(id ID) []fvalue.Value { return t.occurrences[id] }

// Exists reports whether any alias in f's chain has at least one occurrence
// in t, per the CHECK_EXISTS opcode's semantics.
func (t *Tree) Exists(f *HField) bool {
	for _, alias := range f.Chain() {
		if len(t.occurrences[alias.ID]) > 0 {
			return true
		}
	}
	return false
}

// ReadAll walks f's alias chain and collects every occurrence's value from
// every alias, in *reverse* encounter order (design notes: "Order of values
// after ReadTree" — the original prepends, so this module preserves that
// observable ordering rather than "fixing" it).
func (t *Tree) ReadAll(f *HField) []fvalue.Value {
	var out []fvalue.Value
	for _, alias := range f.Chain() {
		occ := t.occurrences[alias.ID]
		for i := len(occ) - 1; i >= 0; i-- {
			out = append(out, occ[i])
		}
	}
	return out
}
