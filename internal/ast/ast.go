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

// Package ast defines STNode, the tagged tree produced by the (external)
// parser and consumed/rewritten by the checker (spec §3.4). Per the design
// notes ("Tagged unions via opcode + void* args -> algebraic data types"),
// each node kind is its own Go type implementing the [Node] interface,
// rather than one struct with a kind tag and untyped payload.
package ast

import (
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/drange"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// Node is implemented by every AST node kind.
type Node interface {
	// Parenthesized reports whether this node was written inside explicit
	// parentheses in the source text; the checker consults this when
	// deciding whether to emit the "suggest parentheses" deprecation.
	Parenthesized() bool
	isNode()
}

// base is embedded by every concrete node to carry the parenthesization bit
// and satisfy isNode().
type base struct {
	paren bool
}

func (b base) Parenthesized() bool { return b.paren }
func (base) isNode()               {}

// Paren is implemented by nodes that can be marked as parenthesized in
// source after construction. Every constructor also takes a paren flag;
// only [Test] implements Paren.
type Paren interface {
	SetParenthesized()
}

// Field references a registered field descriptor.
type Field struct {
	base
	HField *dfield.HField
}

func NewField(hf *dfield.HField, paren bool) *Field { return &Field{base{paren}, hf} }

// String is a quoted string literal from the source text.
type String struct {
	base
	Text string
}

func NewString(text string, paren bool) *String { return &String{base{paren}, text} }

// Unparsed is a bare (unquoted) literal token whose type is not yet known;
// the checker coerces it based on context.
type Unparsed struct {
	base
	Text string
}

func NewUnparsed(text string, paren bool) *Unparsed { return &Unparsed{base{paren}, text} }

// CharConst is a single-character literal, e.g. 'a'.
type CharConst struct {
	base
	Text string
}

func NewCharConst(text string, paren bool) *CharConst { return &CharConst{base{paren}, text} }

// FValue wraps an already-typed constant value (the result of coercing a
// literal, or produced directly by a parser that understands typed
// literals).
type FValue struct {
	base
	Value fvalue.Value
}

func NewFValue(v fvalue.Value, paren bool) *FValue { return &FValue{base{paren}, v} }

// Range wraps Child in a byte-range adapter.
type Range struct {
	base
	Child Node
	DR    drange.Range
}

func NewRange(child Node, dr drange.Range, paren bool) *Range {
	return &Range{base{paren}, child, dr}
}

// FunctionDef describes a callable function available to Function nodes.
type FunctionDef struct {
	Name       string
	MinArgs    int
	MaxArgs    int
	ReturnType fvalue.FieldType
	// CheckParam is an optional per-parameter semantic callback, called
	// with the zero-based parameter index and its (already entity-checked)
	// node; it may reject the call with a non-nil error.
	CheckParam func(index int, arg Node) error

	// Impl is the runtime implementation invoked by CALL_FUNCTION: given
	// the materialized value lists for up to two parameters, it returns
	// the function's own result list and the VM accumulator value the
	// call should set (spec §4.3.2).
	Impl func(p1, p2 []fvalue.Value) (result []fvalue.Value, acc bool)
}

// Function is a call to a [FunctionDef] with Params as arguments.
type Function struct {
	base
	Def    *FunctionDef
	Params []Node
}

func NewFunction(def *FunctionDef, params []Node, paren bool) *Function {
	return &Function{base{paren}, def, params}
}

// SetElem is one element of a Set node: either a single value (Low only) or
// an inclusive (Low, High) range.
type SetElem struct {
	Low  Node
	High Node // nil for a singleton element
}

// Set is the right-hand side of an `in {...}` test.
type Set struct {
	base
	Elems []SetElem
}

func NewSet(elems []SetElem, paren bool) *Set { return &Set{base{paren}, elems} }

// Pcre wraps a compiled regular expression, valid only as the RHS of
// "matches".
type Pcre struct {
	base
	Pattern string
	Regex   *fvalue.Regex
}

func NewPcre(pattern string, re *fvalue.Regex, paren bool) *Pcre {
	return &Pcre{base{paren}, pattern, re}
}

// TestOp is one of the relational/logical test operators (spec §3.4).
type TestOp int

const (
	Exists TestOp = iota
	Not
	And
	Or
	Eq
	Ne
	AllNe
	Gt
	Ge
	Lt
	Le
	BitwiseAnd
	Contains
	Matches
	In
)

var testOpNames = map[TestOp]string{
	Exists: "exists", Not: "not", And: "and", Or: "or",
	Eq: "==", Ne: "!=", AllNe: "all_ne",
	Gt: ">", Ge: ">=", Lt: "<", Le: "<=",
	BitwiseAnd: "&", Contains: "contains", Matches: "matches", In: "in",
}

// String implements [fmt.Stringer].
func (op TestOp) String() string {
	if s, ok := testOpNames[op]; ok {
		return s
	}
	return "?"
}

// IsLogical reports whether op is And or Or, the two operators with
// short-circuit lowering and the "suggest parentheses" deprecation.
func (op TestOp) IsLogical() bool { return op == And || op == Or }

// Test is the universal relational/logical node: every filter expression's
// root, and every internal relational/logical node, is a Test.
type Test struct {
	base
	Op  TestOp
	LHS Node
	RHS Node // nil for Exists and Not
}

func NewTest(op TestOp, lhs, rhs Node, paren bool) *Test {
	return &Test{base{paren}, op, lhs, rhs}
}

// SetParenthesized implements [Paren] for Test nodes, used by the parser
// when it discovers a node was source-parenthesized only after
// constructing it (e.g. `(a and b)`).
func (t *Test) SetParenthesized() { t.paren = true }

var (
	_ Node = (*Field)(nil)
	_ Node = (*String)(nil)
	_ Node = (*Unparsed)(nil)
	_ Node = (*CharConst)(nil)
	_ Node = (*FValue)(nil)
	_ Node = (*Range)(nil)
	_ Node = (*Function)(nil)
	_ Node = (*Set)(nil)
	_ Node = (*Pcre)(nil)
	_ Node = (*Test)(nil)
)
