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

package checker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/checker"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

func portField() *dfield.HField {
	return &dfield.HField{ID: 0, DottedName: "tcp.port", Type: fvalue.UInt16}
}

func TestCheckRejectsEmptySet(t *testing.T) {
	t.Parallel()
	test := ast.NewTest(ast.In, ast.NewField(portField(), false), ast.NewSet(nil, false), false)

	_, err := checker.Check(test)
	require.Error(t, err)
	var typeErr *checker.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestCheckAcceptsSingletonSet(t *testing.T) {
	t.Parallel()
	lit := ast.NewUnparsed("80", false)
	test := ast.NewTest(ast.In, ast.NewField(portField(), false), ast.NewSet([]ast.SetElem{{Low: lit}}, false), false)

	result, err := checker.Check(test)
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestCheckRejectsExistsOnNonField(t *testing.T) {
	t.Parallel()
	test := ast.NewTest(ast.Exists, ast.NewString("nope", false), nil, false)

	_, err := checker.Check(test)
	require.Error(t, err)
}

func TestCheckWarnsOnMixedPrecedence(t *testing.T) {
	t.Parallel()
	field := ast.NewField(portField(), false)
	lit := ast.NewUnparsed("80", false)

	inner := ast.NewTest(ast.And, ast.NewTest(ast.Eq, field, lit, false), ast.NewTest(ast.Eq, field, lit, false), false)
	outer := ast.NewTest(ast.Or, inner, ast.NewTest(ast.Eq, field, lit, false), false)

	result, err := checker.Check(outer)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
}
