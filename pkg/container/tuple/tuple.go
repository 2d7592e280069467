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

// Package tuple holds the row abstraction of the execution core. A Tuple
// is owned by whoever produced it; operators reference tuples but never
// copy or free them.
package tuple

import (
	"bytes"

	"github.com/corvusdb/corvus/pkg/container/types"
)

// Tuple is one fixed-shape row of values.
type Tuple []types.Value

func (tp Tuple) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range tp {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(v.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// Attribute describes one column of a tuple.
type Attribute struct {
	Name string
	Typ  types.T
}

// Descriptor describes the shape of the tuples flowing through an
// operator. The execution core forwards it to expression binding and
// never interprets it beyond the column count and types.
type Descriptor struct {
	Attrs []Attribute
}

func NewDescriptor(attrs ...Attribute) *Descriptor {
	return &Descriptor{Attrs: attrs}
}

func (d *Descriptor) Width() int {
	return len(d.Attrs)
}
