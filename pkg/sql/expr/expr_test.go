// Copyright 2022 Corvus DB
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

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
)

func testDesc() *tuple.Descriptor {
	return tuple.NewDescriptor(
		tuple.Attribute{Name: "a", Typ: types.T_int64},
		tuple.Attribute{Name: "b", Typ: types.T_varchar},
	)
}

func TestColEval(t *testing.T) {
	r := tuple.Tuple{types.NewInt64(3), types.NewString("x")}

	v, err := NewCol(0, types.T_int64).Eval(r)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.Iv)

	_, err = NewCol(5, types.T_int64).Eval(r)
	require.True(t, qerr.IsErrCode(err, qerr.ErrColumnOutOfRange))
}

func TestBind(t *testing.T) {
	desc := testDesc()
	require.NoError(t, Bind(NewCol(0, types.T_int64), desc))
	require.Error(t, Bind(NewCol(2, types.T_int64), desc))

	err := Bind(NewCol(1, types.T_int64), desc)
	require.True(t, qerr.IsErrCode(err, qerr.ErrTypeMismatch))

	sum := NewBinary(Add, NewCol(0, types.T_int64), NewConst(types.NewInt64(1)))
	require.NoError(t, Bind(sum, desc))
}

func TestBinaryEval(t *testing.T) {
	r := tuple.Tuple{types.NewInt64(10)}
	col := NewCol(0, types.T_int64)

	v, err := NewBinary(Add, col, NewConst(types.NewInt64(5))).Eval(r)
	require.NoError(t, err)
	require.Equal(t, int64(15), v.Iv)

	v, err = NewBinary(Div, col, NewConst(types.NewInt64(2))).Eval(r)
	require.NoError(t, err)
	require.Equal(t, int64(5), v.Iv)

	_, err = NewBinary(Div, col, NewConst(types.NewInt64(0))).Eval(r)
	require.True(t, qerr.IsErrCode(err, qerr.ErrDivByZero))

	_, err = NewBinary(Add, col, NewConst(types.NewString("x"))).Eval(r)
	require.True(t, qerr.IsErrCode(err, qerr.ErrTypeMismatch))
}

func TestBinaryNullPropagation(t *testing.T) {
	r := tuple.Tuple{types.NewNull(types.T_int64)}
	v, err := NewBinary(Mul, NewCol(0, types.T_int64), NewConst(types.NewInt64(2))).Eval(r)
	require.NoError(t, err)
	require.True(t, v.IsNull)
	require.Equal(t, types.T_int64, v.Typ)
}

func TestKeySpecCompatibility(t *testing.T) {
	a := KeySpec{NewCol(0, types.T_int64), NewCol(1, types.T_varchar)}
	b := KeySpec{NewCol(0, types.T_int64), NewCol(1, types.T_varchar)}
	c := KeySpec{NewCol(0, types.T_int64)}
	d := KeySpec{NewCol(0, types.T_int64), NewCol(1, types.T_int64)}

	require.NoError(t, a.CheckCompatible(b))
	require.True(t, qerr.IsErrCode(a.CheckCompatible(c), qerr.ErrInvalidInput))
	require.True(t, qerr.IsErrCode(a.CheckCompatible(d), qerr.ErrInvalidInput))

	require.NoError(t, a.Bind(testDesc()))
	require.Equal(t, "#0, #1", a.String())
}
