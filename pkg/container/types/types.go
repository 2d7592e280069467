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
	"fmt"
)

type T uint8

const (
	T_any T = iota
	T_bool
	T_int64
	T_float64
	T_varchar
)

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int64:
		return "BIGINT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected type tag %d", t)
}

// FixedSize returns the canonical encoded size of the type, or -1 for
// variable-length types.
func (t T) FixedSize() int {
	switch t {
	case T_bool:
		return 1
	case T_int64, T_float64:
		return 8
	}
	return -1
}
