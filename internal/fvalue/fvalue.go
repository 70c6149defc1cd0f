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

// Package fvalue implements the typed scalar value system consumed by the
// checker, code generator, and VM: a closed enumeration of field-types, each
// with its own comparability/slicing/matching capabilities, and a [Value]
// that carries one concrete instance of one of those types.
package fvalue

import "net/netip"

// FieldType is a member of the closed enumeration of scalar field-types a
// [Value] may hold.
type FieldType int

const (
	None FieldType = iota
	Protocol

	Int8
	Int16
	Int24
	Int32
	Int40
	Int48
	Int56
	Int64

	UInt8
	UInt16
	UInt24
	UInt32
	UInt40
	UInt48
	UInt56
	UInt64

	Char
	Boolean

	Float
	Double
	IEEE11073Float
	IEEE11073SFloat

	AbsoluteTime
	RelativeTime

	IPv4
	IPv6
	IPXNet

	Ether
	Bytes
	UintBytes
	Guid
	Oid
	RelOid
	AX25
	Vines
	FCWWN
	SystemId
	Eui64

	FrameNum

	String
	Stringz
	UintString
	StringzPad
	StringzTrunc
)

var typeNames = map[FieldType]string{
	None: "none", Protocol: "protocol",
	Int8: "int8", Int16: "int16", Int24: "int24", Int32: "int32",
	Int40: "int40", Int48: "int48", Int56: "int56", Int64: "int64",
	UInt8: "uint8", UInt16: "uint16", UInt24: "uint24", UInt32: "uint32",
	UInt40: "uint40", UInt48: "uint48", UInt56: "uint56", UInt64: "uint64",
	Char: "char", Boolean: "boolean",
	Float: "float", Double: "double",
	IEEE11073Float: "ieee-11073-float", IEEE11073SFloat: "ieee-11073-sfloat",
	AbsoluteTime: "absolute_time", RelativeTime: "relative_time",
	IPv4: "ipv4", IPv6: "ipv6", IPXNet: "ipxnet",
	Ether: "ether", Bytes: "bytes", UintBytes: "uint_bytes", Guid: "guid",
	Oid: "oid", RelOid: "rel_oid", AX25: "ax25", Vines: "vines",
	FCWWN: "fcwwn", SystemId: "system_id", Eui64: "eui64",
	FrameNum: "framenum",
	String:   "string", Stringz: "stringz", UintString: "uint_string",
	StringzPad: "stringzpad", StringzTrunc: "stringztrunc",
}

// String implements [fmt.Stringer].
func (t FieldType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// family classifies a FieldType into one of the "compatible with each other"
// groups used by the checker (semcheck.c's compatible_ftypes), or itself if
// it is only compatible with its own type.
type family int

const (
	familySelf family = iota
	familyInt
	familyString
	familyBytes
)

var families = map[FieldType]family{
	Boolean: familyInt, FrameNum: familyInt, Char: familyInt,
	Int8: familyInt, Int16: familyInt, Int24: familyInt, Int32: familyInt,
	UInt8: familyInt, UInt16: familyInt, UInt24: familyInt, UInt32: familyInt,

	String: familyString, Stringz: familyString, UintString: familyString,
	StringzPad: familyString, StringzTrunc: familyString,

	Ether: familyBytes, Bytes: familyBytes, UintBytes: familyBytes,
	Guid: familyBytes, Oid: familyBytes, RelOid: familyBytes,
	AX25: familyBytes, Vines: familyBytes, FCWWN: familyBytes,
	SystemId: familyBytes,
}

func familyOf(t FieldType) family {
	if f, ok := families[t]; ok {
		return f
	}
	return familySelf
}

// Compatible reports whether values of type a and b may be compared against
// one another at all (modulo each side's own capability for the chosen
// operator), per semcheck.c's compatible_ftypes.
func Compatible(a, b FieldType) bool {
	if a == b {
		return true
	}
	fa, fb := familyOf(a), familyOf(b)
	if fa == familySelf || fb == familySelf {
		return false
	}
	return fa == fb
}

// IsStringy reports whether t belongs to the string family, used by the
// checker when deciding how to coerce a bare literal.
func IsStringy(t FieldType) bool { return familyOf(t) == familyString }

// IsBytesLike reports whether t belongs to the bytes family.
func IsBytesLike(t FieldType) bool { return familyOf(t) == familyBytes }

// Value is a single typed scalar, tagged with its [FieldType].
//
// The concrete Go representation stored in data depends on typ:
//
//	None                                   -> nil
//	Protocol, String family                -> string
//	Int family (signed)                    -> int64
//	UInt family, Eui64, FrameNum           -> uint64
//	Char                                   -> byte
//	Boolean                                -> bool
//	Float, Double, IEEE11073 families      -> float64
//	AbsoluteTime                           -> time.Time
//	RelativeTime                           -> time.Duration
//	IPv4, IPv6                             -> netip.Addr
//	IPXNet                                 -> uint32
//	Bytes family (Ether, Bytes, Guid, ...) -> []byte
type Value struct {
	typ  FieldType
	data any
}

// Type returns the field-type tag of v.
func (v Value) Type() FieldType { return v.typ }

// IsZero reports whether v is the zero Value (no type, no data).
func (v Value) IsZero() bool { return v.typ == None && v.data == nil }

// New constructs a Value from a raw Go representation matching typ's
// expected representation (see the [Value] doc comment). It does not
// validate the representation; call sites in this package are expected to
// pass the right shape.
func New(typ FieldType, data any) Value { return Value{typ: typ, data: data} }

func (v Value) int64() int64 {
	switch x := v.data.(type) {
	case int64:
		return x
	case byte:
		return int64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case uint64:
		return int64(x)
	case uint32:
		return int64(x)
	}
	return 0
}

func (v Value) uint64() uint64 {
	switch x := v.data.(type) {
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case int64:
		return uint64(x)
	case byte:
		return uint64(x)
	}
	return 0
}

func (v Value) float64() float64 {
	if f, ok := v.data.(float64); ok {
		return f
	}
	return 0
}

func (v Value) str() string {
	if s, ok := v.data.(string); ok {
		return s
	}
	return ""
}

func (v Value) bytes() []byte {
	if b, ok := v.data.([]byte); ok {
		return b
	}
	return nil
}

func (v Value) addr() netip.Addr {
	if a, ok := v.data.(netip.Addr); ok {
		return a
	}
	return netip.Addr{}
}
