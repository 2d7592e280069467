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

package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Value is one typed scalar produced by expression evaluation. NULL is
// first-class: a null value keeps its type tag.
type Value struct {
	Typ    T
	IsNull bool

	Bv bool
	Iv int64
	Fv float64
	Sv []byte
}

func NewBool(v bool) Value {
	return Value{Typ: T_bool, Bv: v}
}

func NewInt64(v int64) Value {
	return Value{Typ: T_int64, Iv: v}
}

func NewFloat64(v float64) Value {
	return Value{Typ: T_float64, Fv: v}
}

func NewVarchar(v []byte) Value {
	return Value{Typ: T_varchar, Sv: v}
}

func NewString(v string) Value {
	return Value{Typ: T_varchar, Sv: []byte(v)}
}

func NewNull(typ T) Value {
	return Value{Typ: typ, IsNull: true}
}

// Equal reports value equality between two non-null values of the same
// type. Null handling and type compatibility are the caller's problem.
func (v Value) Equal(o Value) bool {
	if v.Typ != o.Typ {
		return false
	}
	switch v.Typ {
	case T_bool:
		return v.Bv == o.Bv
	case T_int64:
		return v.Iv == o.Iv
	case T_float64:
		return v.Fv == o.Fv
	case T_varchar:
		return string(v.Sv) == string(o.Sv)
	}
	return false
}

// EncodeKey appends the canonical key bytes of the value to buf. Two
// non-null values that Equal considers equal encode identically, which
// makes the encoding usable as hash input. Negative zero collapses to
// positive zero for that reason. NaN never equals itself, so a NaN key
// hashes somewhere but matches nothing.
func (v Value) EncodeKey(buf []byte) []byte {
	var scratch [8]byte
	switch v.Typ {
	case T_bool:
		if v.Bv {
			return append(buf, 1)
		}
		return append(buf, 0)
	case T_int64:
		binary.LittleEndian.PutUint64(scratch[:], uint64(v.Iv))
		return append(buf, scratch[:]...)
	case T_float64:
		f := v.Fv
		if f == 0 {
			// -0.0 compares equal to 0.0 but carries a different bit
			// pattern.
			f = 0
		}
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		return append(buf, scratch[:]...)
	case T_varchar:
		return append(buf, v.Sv...)
	}
	return buf
}

func (v Value) String() string {
	if v.IsNull {
		return "null"
	}
	switch v.Typ {
	case T_bool:
		return fmt.Sprintf("%v", v.Bv)
	case T_int64:
		return fmt.Sprintf("%d", v.Iv)
	case T_float64:
		return fmt.Sprintf("%v", v.Fv)
	case T_varchar:
		return string(v.Sv)
	}
	return "-"
}
