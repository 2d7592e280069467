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
	"fmt"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
)

type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return "?"
}

// Binary is an arithmetic expression over two operands of the same
// numeric type. A NULL operand yields a NULL result.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func NewBinary(op BinaryOp, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func (e *Binary) Eval(r tuple.Tuple) (types.Value, error) {
	lv, err := e.Left.Eval(r)
	if err != nil {
		return types.Value{}, err
	}
	rv, err := e.Right.Eval(r)
	if err != nil {
		return types.Value{}, err
	}
	if lv.Typ != rv.Typ {
		return types.Value{}, qerr.NewTypeMismatch("%s %s %s", lv.Typ, e.Op, rv.Typ)
	}
	if lv.IsNull || rv.IsNull {
		return types.NewNull(lv.Typ), nil
	}
	switch lv.Typ {
	case types.T_int64:
		return evalInt64(e.Op, lv.Iv, rv.Iv)
	case types.T_float64:
		return evalFloat64(e.Op, lv.Fv, rv.Fv)
	}
	return types.Value{}, qerr.NewTypeMismatch("arithmetic over %s", lv.Typ)
}

func evalInt64(op BinaryOp, l, r int64) (types.Value, error) {
	switch op {
	case Add:
		return types.NewInt64(l + r), nil
	case Sub:
		return types.NewInt64(l - r), nil
	case Mul:
		return types.NewInt64(l * r), nil
	case Div:
		if r == 0 {
			return types.Value{}, qerr.NewDivByZero()
		}
		return types.NewInt64(l / r), nil
	}
	return types.Value{}, qerr.NewNYI(fmt.Sprintf("int64 operator %s", op))
}

func evalFloat64(op BinaryOp, l, r float64) (types.Value, error) {
	switch op {
	case Add:
		return types.NewFloat64(l + r), nil
	case Sub:
		return types.NewFloat64(l - r), nil
	case Mul:
		return types.NewFloat64(l * r), nil
	case Div:
		if r == 0 {
			return types.Value{}, qerr.NewDivByZero()
		}
		return types.NewFloat64(l / r), nil
	}
	return types.Value{}, qerr.NewNYI(fmt.Sprintf("float64 operator %s", op))
}

func (e *Binary) ReturnType() types.T {
	return e.Left.ReturnType()
}

func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}
