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

import "regexp"

// Regex is a compiled pattern usable with the "matches" operator. It wraps
// the standard library's RE2 engine: the retrieved example pack contains no
// vendored PCRE binding, and `regexp` is the idiomatic stand-in (see
// DESIGN.md for the stdlib justification).
type Regex struct {
	pattern string
	re      *regexp.Regexp
}

// CompileRegex compiles pattern once, when the parser reads the right-hand
// side of "matches", for reuse across every evaluation of the resulting
// program.
func CompileRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: pattern, re: re}, nil
}

// Pattern returns the source pattern text, used by the disassembler.
func (r *Regex) Pattern() string { return r.pattern }

// Matches reports whether v's rendered form matches r. Legal for any
// field-type with CanMatches(t) == true.
func (r *Regex) Matches(v Value) bool {
	switch {
	case IsStringy(v.typ):
		return r.re.MatchString(v.str())
	case IsBytesLike(v.typ):
		return r.re.Match(v.bytes())
	default:
		return r.re.MatchString(v.String())
	}
}
