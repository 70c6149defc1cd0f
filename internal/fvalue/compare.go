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
	"bytes"
	"strings"
	"time"
)

// Order returns -1, 0, or 1 as a is less than, equal to, or greater than b.
// Callers are expected to have already checked type compatibility and
// capability; this never fails.
func Order(a, b Value) int {
	switch a.typ {
	case String, Stringz, UintString, StringzPad, StringzTrunc, Protocol:
		return strings.Compare(a.str(), b.str())
	case Float, Double, IEEE11073Float, IEEE11073SFloat:
		switch af, bf := a.float64(), b.float64(); {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case AbsoluteTime:
		at, _ := a.data.(time.Time)
		bt, _ := b.data.(time.Time)
		return at.Compare(bt)
	case RelativeTime:
		ad, _ := a.data.(time.Duration)
		bd, _ := b.data.(time.Duration)
		switch {
		case ad < bd:
			return -1
		case ad > bd:
			return 1
		default:
			return 0
		}
	case IPv4, IPv6:
		return a.addr().Compare(b.addr())
	case Ether, Bytes, UintBytes, Guid, Oid, RelOid, AX25, Vines, FCWWN, SystemId:
		return bytes.Compare(a.bytes(), b.bytes())
	default:
		if familyOf(a.typ) == familyInt || a.typ == Eui64 || a.typ == FrameNum || a.typ == IPXNet {
			switch isSigned(a.typ) {
			case true:
				ai, bi := a.int64(), b.int64()
				switch {
				case ai < bi:
					return -1
				case ai > bi:
					return 1
				default:
					return 0
				}
			default:
				au, bu := a.uint64(), b.uint64()
				switch {
				case au < bu:
					return -1
				case au > bu:
					return 1
				default:
					return 0
				}
			}
		}
	}
	return 0
}

func isSigned(t FieldType) bool {
	switch t {
	case Int8, Int16, Int24, Int32, Int40, Int48, Int56, Int64:
		return true
	default:
		return false
	}
}

// Eq reports value equality under t's own equality rule.
func Eq(a, b Value) bool {
	if a.typ == Boolean || b.typ == Boolean {
		return a.int64() != 0 == (b.int64() != 0)
	}
	return Order(a, b) == 0
}

// BitwiseAnd computes a & b for integer-family and IPv4 values, returning a
// value of a's type.
func BitwiseAnd(a, b Value) Value {
	switch a.typ {
	case IPv4:
		aa, ba := a.addr(), b.addr()
		if !aa.Is4() || !ba.Is4() {
			return a
		}
		ab, bb := aa.As4(), ba.As4()
		var out [4]byte
		for i := range out {
			out[i] = ab[i] & bb[i]
		}
		return New(IPv4, netipFrom4(out))
	case Boolean:
		return New(Boolean, (a.int64() != 0) && (b.int64() != 0))
	default:
		if isSigned(a.typ) {
			return New(a.typ, a.int64()&b.int64())
		}
		return New(a.typ, a.uint64()&b.uint64())
	}
}

// Contains reports whether a contains b as a substring/subsequence.
func Contains(a, b Value) bool {
	switch {
	case IsStringy(a.typ):
		return strings.Contains(a.str(), b.str())
	default:
		return bytes.Contains(a.bytes(), b.bytes())
	}
}
