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
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/vm"
)

// Apply evaluates p against tree and reports whether the filter matches
// (spec §4.3, §6's "apply" surface). It is safe to call concurrently, for
// the same Program and for different ones, and with different trees.
func Apply(p *Program, tree *dfield.Tree) bool {
	return vm.Apply(p.program, tree)
}
