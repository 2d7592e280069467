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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvusdb/corvus/pkg/common/qerr"
)

// int64Ops keys build ordinals through a backing slice; probe rows are
// bare int64 keys.
type int64Ops struct {
	keys []uint64
}

func (o *int64Ops) resolve(src Source[uint64]) uint64 {
	if src.IsProbe() {
		return src.ProbeRow()
	}
	return o.keys[src.BuildOrd()]
}

func (o *int64Ops) Hash(src Source[uint64]) (uint64, error) {
	return Int64Hash(o.resolve(src)), nil
}

func (o *int64Ops) Equals(a, b Source[uint64]) (bool, error) {
	return o.resolve(a) == o.resolve(b), nil
}

type failingOps struct {
	int64Ops
	failAt uint64
}

func (o *failingOps) Hash(src Source[uint64]) (uint64, error) {
	if !src.IsProbe() && o.keys[src.BuildOrd()] == o.failAt {
		return 0, qerr.NewInternal("hash failure injected")
	}
	return o.int64Ops.Hash(src)
}

func TestRowSetInsertFind(t *testing.T) {
	ops := &int64Ops{keys: []uint64{5, 5, 7, 9, 5}}
	var rs RowSet[uint64]
	require.NoError(t, rs.Init(ops, 0, 0, 0))

	for ord := range ops.keys {
		require.NoError(t, rs.Insert(uint64(ord)))
	}
	require.Equal(t, uint64(5), rs.ElemCount())
	require.Equal(t, uint64(3), rs.GroupCount())

	sels, err := rs.Find(Probe[uint64](5))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 4}, sels)

	sels, err = rs.Find(Probe[uint64](7))
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, sels)

	sels, err = rs.Find(Probe[uint64](8))
	require.NoError(t, err)
	require.Nil(t, sels)
}

func TestRowSetResize(t *testing.T) {
	const n = 10000
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(i) * 3
	}
	ops := &int64Ops{keys: keys}
	var rs RowSet[uint64]
	require.NoError(t, rs.Init(ops, 64, 0, 0))

	for ord := range keys {
		require.NoError(t, rs.Insert(uint64(ord)))
	}
	require.Equal(t, uint64(n), rs.ElemCount())
	require.Equal(t, uint64(n), rs.GroupCount())
	require.Greater(t, rs.CellCount(), uint64(n))

	// every key must still be reachable after growth
	for ord, key := range keys {
		sels, err := rs.Find(Probe[uint64](key))
		require.NoError(t, err)
		require.Equal(t, []uint64{uint64(ord)}, sels)
	}
}

func TestRowSetInitValidation(t *testing.T) {
	ops := &int64Ops{}
	var rs RowSet[uint64]
	err := rs.Init(ops, 100, 0, 0)
	require.True(t, qerr.IsErrCode(err, qerr.ErrBadConfig))
	err = rs.Init(ops, 64, 2, 2)
	require.True(t, qerr.IsErrCode(err, qerr.ErrBadConfig))
	require.NoError(t, rs.Init(ops, 64, 3, 4))
}

func TestRowSetHashFailure(t *testing.T) {
	ops := &failingOps{int64Ops: int64Ops{keys: []uint64{1, 99}}, failAt: 99}
	var rs RowSet[uint64]
	require.NoError(t, rs.Init(ops, 0, 0, 0))

	require.NoError(t, rs.Insert(0))
	err := rs.Insert(1)
	require.True(t, qerr.IsErrCode(err, qerr.ErrInternal))
	// the failed insert must not have stored anything
	require.Equal(t, uint64(1), rs.ElemCount())
	require.Equal(t, uint64(1), rs.GroupCount())
}

func TestRowSetGroupAt(t *testing.T) {
	ops := &int64Ops{keys: []uint64{4, 2, 4}}
	var rs RowSet[uint64]
	require.NoError(t, rs.Init(ops, 0, 0, 0))
	for ord := range ops.keys {
		require.NoError(t, rs.Insert(uint64(ord)))
	}
	require.Equal(t, []uint64{0, 2}, rs.GroupAt(0))
	require.Equal(t, []uint64{1}, rs.GroupAt(1))
}
