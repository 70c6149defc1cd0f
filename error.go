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

package dfilter

import (
	"github.com/bufbuild/dfilter/internal/checker"
	"github.com/bufbuild/dfilter/internal/dfparse"
)

// ParseError is returned by [Compile] for syntax-level failures: an
// unexpected token, an unterminated string, an unbalanced paren.
type ParseError = dfparse.ParseError

// TypeError is returned by [Compile] when text parses but does not type
// check: an unknown relation between a field and a literal, a malformed
// set, an arity mismatch on a function call.
type TypeError = checker.TypeError
