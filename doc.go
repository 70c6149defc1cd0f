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

// Package dfilter implements a Wireshark-style display-filter engine: filter
// text is compiled once into a [Program] (parse, semantic check, codegen)
// and that Program is then evaluated, as many times as needed, against a
// [github.com/bufbuild/dfilter/internal/dfield.Tree] of the fields a packet
// or message exposed.
//
// # Pipeline
//
// [Compile] runs the three compilation stages in order:
//
//   - internal/dfparse turns filter text into an AST, resolving field names
//     against a caller-supplied [github.com/bufbuild/dfilter/internal/dfield.Registry]
//     and function calls against a caller-supplied function table.
//   - internal/checker type-checks the AST, rewriting nodes where the
//     grammar is ambiguous (e.g. a bare protocol name used as an unparsed
//     literal) and collecting non-fatal deprecation warnings.
//   - internal/codegen lowers the checked AST into a flat register-machine
//     [Program], the way epan/dfilter lowers its syntax tree into dfvm
//     bytecode.
//
// [Apply] then runs the compiled Program against a tree of field values
// using a small register VM (internal/vm), pooling per-run scratch state so
// that repeated evaluation of the same Program does not allocate a fresh
// register file every time.
//
// # Support status
//
// This package does not implement a live packet dissector: field
// definitions and their values must be supplied by the caller through
// [github.com/bufbuild/dfilter/internal/dfield.Registry] and
// [github.com/bufbuild/dfilter/internal/dfield.Tree]. Building those from an
// actual packet-capture or protobuf source is out of scope.
package dfilter
