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

package qerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err := NewInvalidInput("key spec arity %d does not match %d", 2, 3)
	require.Equal(t, ErrInvalidInput, err.ErrorCode())
	require.Equal(t, "invalid input: key spec arity 2 does not match 3", err.Error())
}

func TestIsErrCode(t *testing.T) {
	require.True(t, IsErrCode(NewDivByZero(), ErrDivByZero))
	require.False(t, IsErrCode(NewDivByZero(), ErrInternal))
	require.False(t, IsErrCode(errors.New("plain"), ErrInternal))
	require.True(t, IsErrCode(nil, Ok))
}

func TestErrorIs(t *testing.T) {
	err := NewBadConfig("negative cell count")
	require.True(t, errors.Is(NewBadConfig("other"), err))
	require.False(t, errors.Is(NewInternal("x"), err))
}

func TestColumnOutOfRange(t *testing.T) {
	err := NewColumnOutOfRange(5, 3)
	require.Equal(t, "column index 5 out of range [0, 3)", err.Error())
}
