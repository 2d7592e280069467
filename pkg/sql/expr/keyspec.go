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
	"bytes"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/container/tuple"
)

// KeySpec is an ordered list of expressions defining the key of a row.
// The order is significant: key hashing and comparison are both
// column-order sensitive.
type KeySpec []Expr

// Bind validates every expression of the spec against desc.
func (ks KeySpec) Bind(desc *tuple.Descriptor) error {
	for _, e := range ks {
		if err := Bind(e, desc); err != nil {
			return err
		}
	}
	return nil
}

// CheckCompatible verifies that two key specs agree in arity and in the
// type of every column, which is what makes their keys comparable. Specs
// are never silently truncated or padded.
func (ks KeySpec) CheckCompatible(other KeySpec) error {
	if len(ks) != len(other) {
		return qerr.NewInvalidInput("key spec arity %d does not match %d", len(ks), len(other))
	}
	for i := range ks {
		lt, rt := ks[i].ReturnType(), other[i].ReturnType()
		if lt != rt {
			return qerr.NewInvalidInput("key column %d type %s does not match %s", i, lt, rt)
		}
	}
	return nil
}

func (ks KeySpec) String() string {
	var buf bytes.Buffer
	for i, e := range ks {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	return buf.String()
}
