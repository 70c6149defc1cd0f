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

package drange_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/dfilter/internal/drange"
)

func TestNodeString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "0:4", drange.NewLength(0, 4).String())
	require.Equal(t, "2-5", drange.NewOffset(2, 5).String())
	require.Equal(t, "3:", drange.NewToEnd(3).String())
	require.Equal(t, "?", drange.Node{}.String())
}

func TestSliceClampsOutOfRangeBounds(t *testing.T) {
	t.Parallel()
	src := []byte("hello")

	r := drange.Range{drange.NewLength(2, 10)}
	require.Equal(t, []byte("llo"), r.Slice(src))

	r = drange.Range{drange.NewOffset(-3, 2)}
	require.Equal(t, []byte("hel"), r.Slice(src))

	r = drange.Range{drange.NewToEnd(3)}
	require.Equal(t, []byte("lo"), r.Slice(src))
}

func TestRangeListConcatenatesInOrder(t *testing.T) {
	t.Parallel()
	src := []byte("hello world")
	r := drange.Range{drange.NewLength(0, 5), drange.NewLength(6, 5)}
	require.Equal(t, []byte("helloworld"), r.Slice(src))
	require.Equal(t, "0:5,6:5", r.String())
}
