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

//go:build !debug

// Package debug includes debugging helpers used by the checker, code
// generator, and VM to trace compilation and evaluation without paying for
// it in normal builds.
package debug

// Enabled is true if the package is being built with the debug tag, which
// enables tracing of the checker, code generator, and VM.
const Enabled = false

// Log is a no-op outside of debug builds.
func Log(context []any, operation string, format string, args ...any) {}

// Assert is a no-op outside of debug builds.
func Assert(cond bool, format string, args ...any) {}

// Value is a value of any type that only exists when the debug tag is
// enabled. When disabled, this struct carries no payload.
type Value[T any] struct{}

// Get returns a pointer to a newly allocated zero value. Only meant to be
// called in debug builds; this is here purely so debug-gated call sites
// compile either way without needing a matching build tag on every caller.
func (v *Value[T]) Get() *T {
	var z T
	return &z
}
