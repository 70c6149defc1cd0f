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

// capSet records the per-type capability bits described in spec §3.1.
type capSet struct {
	eq, order, bitwiseAnd, contains, matches, slice bool
}

var caps = map[FieldType]capSet{
	None:     {},
	Protocol: {eq: true, contains: true, matches: true, slice: true},

	Int8: ord(), Int16: ord(), Int24: ord(), Int32: ord(),
	Int40: ord(), Int48: ord(), Int56: ord(), Int64: ord(),
	UInt8: ordBW(), UInt16: ordBW(), UInt24: ordBW(), UInt32: ordBW(),
	UInt40: ordBW(), UInt48: ordBW(), UInt56: ordBW(), UInt64: ordBW(),

	Char:    ordBW(),
	Boolean: {eq: true, bitwiseAnd: true},

	Float:           {eq: true, order: true},
	Double:          {eq: true, order: true},
	IEEE11073Float:  {eq: true, order: true},
	IEEE11073SFloat: {eq: true, order: true},

	AbsoluteTime: {eq: true, order: true},
	RelativeTime: {eq: true, order: true},

	IPv4:   {eq: true, order: true, bitwiseAnd: true, slice: true},
	IPv6:   {eq: true, order: true, slice: true},
	IPXNet: {eq: true, order: true},

	Ether: bytesCaps(), Bytes: bytesCaps(), UintBytes: bytesCaps(),
	Guid: {eq: true, slice: true, contains: true, matches: true},
	Oid:  {eq: true, slice: true},
	RelOid: {eq: true, slice: true},
	AX25:     bytesCaps(), Vines: bytesCaps(), FCWWN: bytesCaps(),
	SystemId: bytesCaps(),
	Eui64:    {eq: true, order: true, slice: true},

	FrameNum: ordBW(),

	String:       strCaps(),
	Stringz:      strCaps(),
	UintString:   strCaps(),
	StringzPad:   strCaps(),
	StringzTrunc: strCaps(),
}

func ord() capSet   { return capSet{eq: true, order: true, slice: true} }
func ordBW() capSet { return capSet{eq: true, order: true, bitwiseAnd: true, slice: true} }
func bytesCaps() capSet {
	return capSet{eq: true, order: true, slice: true, contains: true, matches: true}
}
func strCaps() capSet {
	return capSet{eq: true, order: true, slice: true, contains: true, matches: true}
}

func capOf(t FieldType) capSet {
	if c, ok := caps[t]; ok {
		return c
	}
	return capSet{}
}

// CanEq reports whether t supports == and !=.
func CanEq(t FieldType) bool { return capOf(t).eq }

// CanNe is an alias for [CanEq]: != and == share the same comparability bit.
func CanNe(t FieldType) bool { return CanEq(t) }

// CanOrder reports whether t supports <, <=, >, >=.
func CanOrder(t FieldType) bool { return capOf(t).order }

// CanBitwiseAnd reports whether t supports the & operator.
func CanBitwiseAnd(t FieldType) bool { return capOf(t).bitwiseAnd }

// CanContains reports whether t supports the "contains" operator.
func CanContains(t FieldType) bool { return capOf(t).contains }

// CanMatches reports whether t supports the "matches" (regex) operator.
func CanMatches(t FieldType) bool { return capOf(t).matches }

// CanSlice reports whether t may be wrapped in a byte-range adapter.
func CanSlice(t FieldType) bool { return capOf(t).slice }

// CapabilityFor returns the capability predicate for a named relational
// operator, and whether that operator permits comparing against a
// partially-specified value (for contains/matches the checker falls back to
// a plain string RHS when the literal does not parse as the field's type;
// see the checker's coerceLiteralRHS).
func CapabilityFor(op string) (can func(FieldType) bool, allowPartialValue bool) {
	switch op {
	case "==", "!=", "all_ne", "any_eq", "any_ne", "in":
		return CanEq, false
	case "<", "<=", ">", ">=":
		return CanOrder, false
	case "&":
		return CanBitwiseAnd, false
	case "contains":
		return CanContains, true
	case "matches":
		return CanMatches, true
	default:
		return func(FieldType) bool { return false }, false
	}
}
