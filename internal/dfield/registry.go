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

package dfield

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/bufbuild/dfilter/internal/fvalue"
	"github.com/bufbuild/dfilter/internal/xsync"
)

// Registry maps dotted field names (e.g. "tcp.port") to the head of an
// alias chain of [HField] descriptors. It stands in for the production
// dissector's compiled-in field table (spec §1: "out of scope").
//
// Once built, Registry is safe for concurrent use: compiling many filters
// against one shared registry is the expected usage (§5 "Concurrency &
// resource model").
type Registry struct {
	byName map[string]*HField
	byID   map[ID]*HField
	nextID ID

	cache xsync.Map[string, *HField]
	group singleflight.Group
}

// NewRegistry returns an empty registry; use [Registry.Define] to populate
// it, typically once at program start-up.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*HField),
		byID:   make(map[ID]*HField),
	}
}

// Define registers a new field descriptor under name with the given type.
// If another descriptor already exists under name, the new one is appended
// to the tail of its alias chain (SameNameNext/SameNamePrevID), matching
// header_field_info's same-name linking.
//
// Define is not safe to call concurrently with [Registry.Resolve]; populate
// the registry fully before handing it to [dfilter.Compile].
func (r *Registry) Define(name string, typ fvalue.FieldType) *HField {
	f := &HField{ID: r.nextID, DottedName: name, Type: typ, SameNamePrevID: -1}
	r.nextID++
	r.byID[f.ID] = f

	if head, ok := r.byName[name]; ok {
		tail := head
		for tail.SameNameNext != nil {
			tail = tail.SameNameNext
		}
		f.SameNamePrevID = tail.ID
		tail.SameNameNext = f
	} else {
		r.byName[name] = f
	}
	return f
}

// WithValueStrings attaches a plain value-string table to f and returns f,
// for fluent registry construction.
func (f *HField) WithValueStrings(hint DisplayHint, table map[int64]string) *HField {
	f.Hint = hint
	f.ValueStrings = table
	return f
}

// WithTrueFalseStrings attaches a boolean true/false display table.
func (f *HField) WithTrueFalseStrings(trueText, falseText string) *HField {
	f.Hint = HintTrueFalseString
	f.TrueString, f.FalseString = trueText, falseText
	return f
}

// ByID returns the descriptor registered under id, or nil.
func (r *Registry) ByID(id ID) *HField { return r.byID[id] }

// Resolve looks up the head of the alias chain registered under name,
// de-duplicating concurrent first-lookups of the same name across
// goroutines compiling different filters against this registry via
// singleflight, then caching the result for subsequent lookups.
func (r *Registry) Resolve(name string) (*HField, error) {
	if f, ok := r.cache.Load(name); ok {
		return f, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		head, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%q is not a valid field name", name)
		}
		r.cache.Store(name, head)
		return head, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*HField), nil
}
