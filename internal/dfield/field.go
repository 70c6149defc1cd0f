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

// Package dfield provides the field-registry and field-tree collaborators
// that spec.md treats as external black boxes (§1): the dotted-name to
// field-descriptor registry, its same-name alias chains, the per-field
// value-string fallback tables, and an in-memory field tree standing in for
// the dissector's per-packet output (SPEC_FULL §3).
package dfield

import "github.com/bufbuild/dfilter/internal/fvalue"

// ID uniquely identifies one [HField] within a [Registry].
type ID int

// DisplayHint selects which value-string lookup strategy a field uses when
// a literal fails to parse against its native type (design notes:
// "Value-string fallback").
type DisplayHint int

const (
	// HintNone means the field has no value-string table.
	HintNone DisplayHint = iota
	// HintValueString is a plain string enumerator -> integer lookup.
	HintValueString
	// HintTrueFalseString is a boolean-specific two-entry table.
	HintTrueFalseString
	// HintVal64String is a value-string table keyed by a 64-bit integer.
	HintVal64String
	// HintRangeString maps a range of integers to a single string.
	HintRangeString
	// HintExtString is a value-string table backed by a large external
	// (e.g. generated) lookup structure (BASE_EXT_STRING).
	HintExtString
	// HintCustom defers to a user-supplied lookup function.
	HintCustom
)

// HField is a field descriptor, as supplied by the registry (spec §3.2).
// Multiple descriptors may share a DottedName but differ in Type; they are
// linked into an alias chain via SameNameNext/SameNamePrevID.
type HField struct {
	ID             ID
	DottedName     string
	Type           fvalue.FieldType
	SameNameNext   *HField
	SameNamePrevID ID // -1 if this is the first descriptor for the name

	Hint         DisplayHint
	ValueStrings map[int64]string  // HintValueString, HintVal64String
	TrueString   string            // HintTrueFalseString
	FalseString  string            // HintTrueFalseString
	RangeStrings []RangeString     // HintRangeString
	CustomLookup func(int64) (string, bool) // HintCustom
}

// RangeString maps an inclusive integer range to a display string, backing
// HintRangeString (BASE_RANGE_STRING).
type RangeString struct {
	Low, High int64
	Text      string
}

// Lookup resolves v against f's value-string table, implementing the
// per-display-hint strategies from the design notes. ok is false if f has
// no table or v is not present in it.
func (f *HField) Lookup(v int64) (string, bool) {
	switch f.Hint {
	case HintValueString, HintVal64String, HintExtString:
		s, ok := f.ValueStrings[v]
		return s, ok
	case HintTrueFalseString:
		if v != 0 {
			return f.TrueString, f.TrueString != ""
		}
		return f.FalseString, f.FalseString != ""
	case HintRangeString:
		for _, rs := range f.RangeStrings {
			if v >= rs.Low && v <= rs.High {
				return rs.Text, true
			}
		}
		return "", false
	case HintCustom:
		if f.CustomLookup != nil {
			return f.CustomLookup(v)
		}
		return "", false
	default:
		return "", false
	}
}

// ReverseLookup scans f's value-string table for an entry whose display
// text equals s, returning the integer value it names. This backs the
// checker's literal-to-enumerator coercion ('"%s" cannot be found among the
// possible values for %s' in spec §7).
func (f *HField) ReverseLookup(s string) (int64, bool) {
	switch f.Hint {
	case HintValueString, HintVal64String, HintExtString:
		for k, v := range f.ValueStrings {
			if v == s {
				return k, true
			}
		}
	case HintTrueFalseString:
		switch s {
		case f.TrueString:
			return 1, true
		case f.FalseString:
			return 0, true
		}
	case HintRangeString:
		for _, rs := range f.RangeStrings {
			if rs.Text == s {
				return rs.Low, true
			}
		}
	}
	return 0, false
}

// Chain returns an iterator-friendly slice over this descriptor and every
// descriptor reachable via SameNameNext, in declaration order. Both the
// checker (picking the best-matching alias for a literal) and the VM
// (existence/read-all) walk this chain.
func (f *HField) Chain() []*HField {
	var out []*HField
	for cur := f; cur != nil; cur = cur.SameNameNext {
		out = append(out, cur)
	}
	return out
}

// IsStringAlias reports whether f's type belongs to the string family, used
// when the checker is hunting for the alias whose "string-ness" matches an
// unparsed literal's flavour (§4.1.3).
func (f *HField) IsStringAlias() bool { return fvalue.IsStringy(f.Type) }
