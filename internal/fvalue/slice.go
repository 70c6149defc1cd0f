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
	"encoding/binary"
	"strings"

	"github.com/bufbuild/dfilter/internal/drange"
)

// ToBytes renders v as the flat byte sequence a range adapter slices over.
// Per §4.1.3, a non-bytes-like-but-sliceable field is implicitly wrapped by
// Range(0:-), which converts the whole field to bytes first; this is that
// conversion.
func (v Value) ToBytes() []byte {
	switch v.typ {
	case Bytes, UintBytes, Ether, Guid, Oid, RelOid, AX25, Vines, FCWWN, SystemId:
		return v.bytes()
	case String, Stringz, UintString, StringzPad, StringzTrunc, Protocol:
		return []byte(v.str())
	case IPv4:
		a := v.addr()
		if a.Is4() {
			b := a.As4()
			return b[:]
		}
		return nil
	case IPv6:
		a := v.addr()
		if a.Is6() {
			b := a.As16()
			return b[:]
		}
		return nil
	case Eui64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.uint64())
		return b[:]
	default:
		if isSigned(v.typ) {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(v.int64()))
			return b[:]
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.uint64())
		return b[:]
	}
}

// Slice applies r to v's byte representation, returning a new [Bytes]
// value. Never fails: out-of-range bounds are clamped by [drange.Node.Bounds].
func (v Value) Slice(r drange.Range) Value {
	return New(Bytes, r.Slice(v.ToBytes()))
}

// String renders v for disassembly and error messages, in the same spirit
// as fvalue_to_string_repr(FTREPR_DFILTER).
func (v Value) String() string {
	switch v.typ {
	case None:
		return "<none>"
	case Boolean:
		if v.int64() != 0 {
			return "True"
		}
		return "False"
	case String, Stringz, UintString, StringzPad, StringzTrunc, Protocol:
		return v.str()
	case IPv4, IPv6:
		return v.addr().String()
	case Bytes, UintBytes, Ether, Guid, Oid, RelOid, AX25, Vines, FCWWN, SystemId:
		return hexJoin(v.bytes())
	case Float, Double, IEEE11073Float, IEEE11073SFloat:
		return trimFloat(v.float64())
	default:
		if isSigned(v.typ) {
			return itoa(v.int64())
		}
		return uitoa(v.uint64())
	}
}

func hexJoin(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		const hexdig = "0123456789abcdef"
		sb.WriteByte(hexdig[c>>4])
		sb.WriteByte(hexdig[c&0xf])
	}
	return sb.String()
}
