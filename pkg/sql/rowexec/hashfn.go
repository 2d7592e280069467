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

package rowexec

import (
	"github.com/corvusdb/corvus/pkg/container/hashtable"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
	"github.com/corvusdb/corvus/pkg/sql/expr"
)

const (
	// hashCombinePrime makes the per-column fold order sensitive.
	hashCombinePrime = 31
	// nullKeyHash is the fixed contribution of a NULL key column, so a
	// NULL hashes the same on the build and probe sides.
	nullKeyHash = 0x9e3779b97f4a7c15
)

// evalKey evaluates a key spec over one tuple, reusing out as scratch.
// hasNull reports whether any key column came out NULL. Evaluation
// failures propagate; they are never folded into NULL.
func evalKey(spec expr.KeySpec, r tuple.Tuple, out []types.Value) ([]types.Value, bool, error) {
	out = out[:0]
	hasNull := false
	for _, e := range spec {
		v, err := e.Eval(r)
		if err != nil {
			return nil, false, err
		}
		if v.IsNull {
			hasNull = true
		}
		out = append(out, v)
	}
	return out, hasNull, nil
}

// keyOps is the hash/equality policy of a HashTable. A build source
// resolves through the table's stored rows with a build key spec; a
// probe source carries its own row and resolves with the probe spec.
// Both sides share one combiner, so equal key values always hash
// identically across sides.
type keyOps struct {
	ht *HashTable

	keyBuf []byte
	aVals  []types.Value
	bVals  []types.Value
}

func (o *keyOps) specAndRow(src hashtable.Source[tuple.Tuple], buildSpec expr.KeySpec) (expr.KeySpec, tuple.Tuple) {
	if src.IsProbe() {
		return o.ht.probeSpec, src.ProbeRow()
	}
	return buildSpec, o.ht.rows[src.BuildOrd()]
}

func (o *keyOps) Hash(src hashtable.Source[tuple.Tuple]) (uint64, error) {
	spec, row := o.specAndRow(src, o.ht.buildSpec1)
	var hash uint64
	for _, e := range spec {
		v, err := e.Eval(row)
		if err != nil {
			return 0, err
		}
		var colHash uint64
		if v.IsNull {
			colHash = nullKeyHash
		} else {
			o.keyBuf = v.EncodeKey(o.keyBuf[:0])
			colHash = hashtable.BytesHash(o.keyBuf)
		}
		hash = hash*hashCombinePrime ^ colHash
	}
	return hash, nil
}

// Equals compares the keys of two sources column-wise. Side a uses the
// probe spec when it is a probe source and the first build spec
// otherwise; side b uses the second build spec (build-vs-build
// comparisons arise from the set's own collision handling). With
// storesNulls, NULL equals NULL -- null-safe equality, a deliberate
// deviation from SQL's three-valued logic. Without storesNulls a stored
// key never contains NULL, so a NULL on either side simply never
// matches.
func (o *keyOps) Equals(a, b hashtable.Source[tuple.Tuple]) (bool, error) {
	aSpec, aRow := o.specAndRow(a, o.ht.buildSpec1)
	bSpec, bRow := o.specAndRow(b, o.ht.buildSpec2)

	var err error
	if o.aVals, _, err = evalKey(aSpec, aRow, o.aVals); err != nil {
		return false, err
	}
	if o.bVals, _, err = evalKey(bSpec, bRow, o.bVals); err != nil {
		return false, err
	}
	for i := range o.aVals {
		av, bv := o.aVals[i], o.bVals[i]
		if av.IsNull || bv.IsNull {
			if o.ht.storesNulls && av.IsNull && bv.IsNull {
				continue
			}
			return false, nil
		}
		if !av.Equal(bv) {
			return false, nil
		}
	}
	return true, nil
}
