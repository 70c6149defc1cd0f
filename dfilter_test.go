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

package dfilter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/dfilter"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

func testRegistry(t *testing.T) *dfield.Registry {
	t.Helper()
	reg := dfield.NewRegistry()
	reg.Define("tcp.port", fvalue.UInt16)
	reg.Define("ip.addr", fvalue.IPv4)
	reg.Define("http.host", fvalue.String)
	return reg
}

func TestCompileAndApply(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	p, err := dfilter.Compile(`tcp.port == 80 or tcp.port == 443`, reg)
	require.NoError(t, err)
	require.NotNil(t, p)

	tree := dfield.NewTree()
	port, err := reg.Resolve("tcp.port")
	require.NoError(t, err)
	tree.Add(port.ID, fvalue.New(fvalue.UInt16, uint64(443)))

	require.True(t, dfilter.Apply(p, tree))

	other := dfield.NewTree()
	other.Add(port.ID, fvalue.New(fvalue.UInt16, uint64(22)))
	require.False(t, dfilter.Apply(p, other))
}

func TestCompileReportsInterestingFields(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	p, err := dfilter.Compile(`http.host contains "example"`, reg)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"http.host"}, p.InterestingFields())
}

func TestCompileSuggestsParentheses(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	p, err := dfilter.Compile(`tcp.port == 80 and tcp.port == 443 or ip.addr == 127.0.0.1`, reg)
	require.NoError(t, err)
	require.NotEmpty(t, p.DeprecatedTokens())
}

func TestCompileSyntaxError(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	_, err := dfilter.Compile(`tcp.port ==`, reg)
	require.Error(t, err)
	var parseErr *dfilter.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestCompileTypeError(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	_, err := dfilter.Compile(`tcp.port in {}`, reg)
	require.Error(t, err)
	var typeErr *dfilter.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestDump(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	p, err := dfilter.Compile(`tcp.port == 80`, reg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dfilter.Dump(p, &buf))
	require.Contains(t, buf.String(), "RETURN")
}
