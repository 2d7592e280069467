// Copyright 2022 Corvus DB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesHashDeterministic(t *testing.T) {
	// every length class of the hash has its own code path
	for n := 0; n <= 128; n++ {
		data := make([]byte, n)
		rand.Read(data)
		h0 := BytesHash(data)
		h1 := BytesHash(data)
		require.Equal(t, h0, h1, "length %d", n)
	}
}

func TestBytesHashSpread(t *testing.T) {
	seen := make(map[uint64]struct{})
	buf := make([]byte, 9)
	for i := 0; i < 10000; i++ {
		rand.Read(buf)
		seen[BytesHash(buf)] = struct{}{}
	}
	// collisions over 10k random keys should be essentially absent
	require.Greater(t, len(seen), 9990)
}

func TestInt64Hash(t *testing.T) {
	require.Equal(t, Int64Hash(42), Int64Hash(42))
	require.NotEqual(t, Int64Hash(42), Int64Hash(43))
}
