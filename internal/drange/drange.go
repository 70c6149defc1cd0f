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

// Package drange implements DRange, the ordered list of byte-range nodes
// used by Range AST nodes and the MK_RANGE instruction (spec §3.3).
package drange

import "fmt"

// Kind identifies which of the four node shapes a [Node] has.
type Kind int

const (
	// Uninitialized is the zero Kind: a node with no bound information yet.
	Uninitialized Kind = iota
	// Length is "start:length".
	Length
	// Offset is "start-end" (inclusive end offset).
	Offset
	// ToEnd is "start:", meaning from start to the end of the value.
	ToEnd
)

// Node is a single range element, one of [offset:length], [start-end],
// [start:], or uninitialized.
type Node struct {
	Kind   Kind
	Start  int
	End    int // valid when Kind == Offset
	Length int // valid when Kind == Length
}

// NewLength constructs a "start:length" node.
func NewLength(start, length int) Node { return Node{Kind: Length, Start: start, Length: length} }

// NewOffset constructs a "start-end" node.
func NewOffset(start, end int) Node { return Node{Kind: Offset, Start: start, End: end} }

// NewToEnd constructs a "start:" node.
func NewToEnd(start int) Node { return Node{Kind: ToEnd, Start: start} }

// Bounds resolves the node against a concrete byte length, returning the
// half-open [lo,hi) slice bounds to apply. Out-of-range bounds are clamped,
// matching the "behaviour defined by slice operator" boundary case in spec
// §8.4 rather than erroring post-semcheck (runtime evaluation never fails).
func (n Node) Bounds(length int) (lo, hi int) {
	clamp := func(x int) int {
		if x < 0 {
			x = 0
		}
		if x > length {
			x = length
		}
		return x
	}
	switch n.Kind {
	case Length:
		lo = clamp(n.Start)
		hi = clamp(n.Start + n.Length)
	case Offset:
		lo = clamp(n.Start)
		hi = clamp(n.End + 1)
	case ToEnd:
		lo = clamp(n.Start)
		hi = length
	default:
		lo, hi = 0, length
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// String renders n the way dfvm_dump does: "start:length", "start-end",
// "start:", or "?" for an uninitialized node.
func (n Node) String() string {
	switch n.Kind {
	case Length:
		return fmt.Sprintf("%d:%d", n.Start, n.Length)
	case Offset:
		return fmt.Sprintf("%d-%d", n.Start, n.End)
	case ToEnd:
		return fmt.Sprintf("%d:", n.Start)
	default:
		return "?"
	}
}

// Range is an ordered list of [Node]s; a Range AST node may carry more than
// one when the source specifies a comma-separated list of sub-ranges.
type Range []Node

// Slice applies r to src, concatenating the bytes selected by each node in
// order.
func (r Range) Slice(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for _, n := range r {
		lo, hi := n.Bounds(len(src))
		out = append(out, src[lo:hi]...)
	}
	return out
}

// String renders the whole range as a comma-separated list, matching
// dfvm_dump's MK_RANGE formatting.
func (r Range) String() string {
	s := ""
	for i, n := range r {
		if i > 0 {
			s += ","
		}
		s += n.String()
	}
	return s
}
