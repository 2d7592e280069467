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

// Package expr is the scalar expression surface consumed by the row
// execution operators. Evaluation is deterministic and side-effect-free
// for a given (expression, tuple) pair; operators rely on that when they
// evaluate the same key more than once.
package expr

import (
	"fmt"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
)

type Expr interface {
	// Eval produces the expression's value over one tuple. A NULL result
	// is a value, not an error; failures (bad column, div by zero, type
	// mismatch) are errors and never silently collapse to NULL.
	Eval(r tuple.Tuple) (types.Value, error)
	ReturnType() types.T
	String() string
}

// Col references one column of the input tuple.
type Col struct {
	Idx int
	Typ types.T
}

func NewCol(idx int, typ types.T) *Col {
	return &Col{Idx: idx, Typ: typ}
}

func (e *Col) Eval(r tuple.Tuple) (types.Value, error) {
	if e.Idx < 0 || e.Idx >= len(r) {
		return types.Value{}, qerr.NewColumnOutOfRange(e.Idx, len(r))
	}
	return r[e.Idx], nil
}

func (e *Col) ReturnType() types.T {
	return e.Typ
}

func (e *Col) String() string {
	return fmt.Sprintf("#%d", e.Idx)
}

// Const is a literal value.
type Const struct {
	Val types.Value
}

func NewConst(v types.Value) *Const {
	return &Const{Val: v}
}

func (e *Const) Eval(_ tuple.Tuple) (types.Value, error) {
	return e.Val, nil
}

func (e *Const) ReturnType() types.T {
	return e.Val.Typ
}

func (e *Const) String() string {
	return e.Val.String()
}

// Bind checks that every column reference inside e is valid for desc and
// carries the descriptor's type. It must be called before the expression
// is evaluated against tuples of that shape.
func Bind(e Expr, desc *tuple.Descriptor) error {
	switch t := e.(type) {
	case *Col:
		if t.Idx < 0 || t.Idx >= desc.Width() {
			return qerr.NewColumnOutOfRange(t.Idx, desc.Width())
		}
		if want := desc.Attrs[t.Idx].Typ; t.Typ != want {
			return qerr.NewTypeMismatch("column %d is %s, expression expects %s",
				t.Idx, want, t.Typ)
		}
	case *Const:
	case *Binary:
		if err := Bind(t.Left, desc); err != nil {
			return err
		}
		return Bind(t.Right, desc)
	default:
		return qerr.NewNYI(fmt.Sprintf("binding %T", e))
	}
	return nil
}
