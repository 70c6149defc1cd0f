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
	"encoding/hex"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// ParseString parses text as a value of the given field-type, per that
// type's own textual syntax. It does not consult any value-string table;
// callers needing the fallback described in spec §4.1.3/design notes should
// catch the error and consult [dfield]'s value-string lookup instead.
func ParseString(typ FieldType, text string) (Value, error) {
	switch typ {
	case Protocol, String, Stringz, UintString, StringzPad, StringzTrunc:
		return New(typ, text), nil

	case Boolean:
		switch strings.ToLower(text) {
		case "true", "1", "yes":
			return New(Boolean, true), nil
		case "false", "0", "no":
			return New(Boolean, false), nil
		}
		return Value{}, fmt.Errorf("%q is not a valid boolean", text)

	case Char:
		if len(text) == 1 {
			return New(Char, byte(text[0])), nil
		}
		n, err := strconv.ParseUint(stripRadix(text), radixOf(text), 8)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid char value: %w", text, err)
		}
		return New(Char, byte(n)), nil

	case Int8, Int16, Int24, Int32, Int40, Int48, Int56, Int64:
		n, err := strconv.ParseInt(stripRadix(text), radixOf(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s value: %w", text, typ, err)
		}
		return New(typ, n), nil

	case UInt8, UInt16, UInt24, UInt32, UInt40, UInt48, UInt56, UInt64, Eui64, FrameNum:
		n, err := strconv.ParseUint(stripRadix(text), radixOf(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s value: %w", text, typ, err)
		}
		return New(typ, n), nil

	case IPXNet:
		n, err := strconv.ParseUint(stripRadix(text), radixOf(text), 32)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid ipxnet value: %w", text, err)
		}
		return New(IPXNet, uint32(n)), nil

	case Float, Double, IEEE11073Float, IEEE11073SFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s value: %w", text, typ, err)
		}
		return New(typ, f), nil

	case AbsoluteTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, text); err == nil {
				return New(AbsoluteTime, t), nil
			}
		}
		return Value{}, fmt.Errorf("%q is not a valid absolute time", text)

	case RelativeTime:
		d, err := time.ParseDuration(text)
		if err != nil {
			if secs, ferr := strconv.ParseFloat(text, 64); ferr == nil {
				return New(RelativeTime, time.Duration(secs*float64(time.Second))), nil
			}
			return Value{}, fmt.Errorf("%q is not a valid relative time: %w", text, err)
		}
		return New(RelativeTime, d), nil

	case IPv4:
		a, err := netip.ParseAddr(text)
		if err != nil || !a.Is4() {
			p, perr := netip.ParsePrefix(text)
			if perr == nil && p.Addr().Is4() {
				return New(IPv4, p.Addr()), nil
			}
			return Value{}, fmt.Errorf("%q is not a valid IPv4 address: %w", text, err)
		}
		return New(IPv4, a), nil

	case IPv6:
		a, err := netip.ParseAddr(text)
		if err != nil || !a.Is6() {
			return Value{}, fmt.Errorf("%q is not a valid IPv6 address: %w", text, err)
		}
		return New(IPv6, a), nil

	case Ether, Guid, AX25, Vines, FCWWN, SystemId:
		b, err := parseHexBytes(text)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s value: %w", text, typ, err)
		}
		return New(typ, b), nil

	case Bytes, UintBytes:
		b, err := parseHexBytes(text)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid byte string: %w", text, err)
		}
		return New(typ, b), nil

	case Oid, RelOid:
		b, err := parseOID(text)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid OID: %w", text, err)
		}
		return New(typ, b), nil

	default:
		return Value{}, fmt.Errorf("cannot parse %q as %s", text, typ)
	}
}

func radixOf(text string) int {
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return 0
	case strings.HasPrefix(text, "0o"):
		return 0
	default:
		return 10
	}
}

func stripRadix(text string) string { return text }

// parseHexBytes parses colon- or dot-separated hex bytes, e.g. "0a:00:01" or
// "0a.00.01", or a bare hex string "0a0001".
func parseHexBytes(text string) ([]byte, error) {
	clean := strings.NewReplacer(":", "", ".", "", "-", "").Replace(text)
	return hex.DecodeString(clean)
}

// parseOID parses a dotted-decimal OID ("1.3.6.1") into one byte per arc,
// keeping only the low 8 bits of each arc; this is not a BER encoding. Only
// used for rendering/comparison purposes here, not to interoperate with any
// particular wire encoder.
func parseOID(text string) ([]byte, error) {
	parts := strings.Split(text, ".")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(n))
	}
	return out, nil
}
