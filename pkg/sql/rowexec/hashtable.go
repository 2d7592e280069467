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

// Package rowexec holds the row-at-a-time execution operators of the
// engine. Its central piece is HashTable, the expression-keyed multi-set
// behind hash joins and hash grouping: rows are inserted during a build
// phase by evaluating build key expressions, then probed by evaluating
// probe key expressions against incoming rows.
package rowexec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/config"
	"github.com/corvusdb/corvus/pkg/container/hashtable"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/logutil"
	"github.com/corvusdb/corvus/pkg/sql/expr"
)

// Options tune the underlying storage of a HashTable.
type Options struct {
	InitCellCnt   uint64
	LoadFactorNum uint64
	LoadFactorDen uint64
}

// OptionsFromConfig derives table options from the engine parameters.
func OptionsFromConfig(ep *config.ExecParameters) Options {
	return Options{
		InitCellCnt:   ep.HashTableInitCellCnt,
		LoadFactorNum: ep.HashTableLoadFactorNum,
		LoadFactorDen: ep.HashTableLoadFactorDen,
	}
}

// HashTable indexes build rows by the values of their key expressions.
// It is a multi-set: rows with equal keys are all retained and are
// retrieved together by Scan. The table references rows, it never owns
// them.
//
// Two build key specs exist for historical planner reasons: spec 1 keys
// insertions, spec 2 re-evaluates the stored side of build-vs-build
// comparisons. The constructor enforces that both stay column-count and
// type compatible with each other and with the probe spec.
//
// A HashTable is not safe for concurrent use; see Scan and Iterator for
// the staleness rules.
type HashTable struct {
	buildSpec1 expr.KeySpec
	buildSpec2 expr.KeySpec
	probeSpec  expr.KeySpec
	desc       *tuple.Descriptor

	storesNulls bool

	rows    []tuple.Tuple
	set     hashtable.RowSet[tuple.Tuple]
	ops     *keyOps
	matched *roaring.Bitmap

	rejected uint64
}

// NewHashTable constructs a table with default storage options. The
// descriptor describes the build rows and is used only to bind the build
// key specs. With storesNulls, rows whose key contains NULL are stored
// and NULL keys match each other; without it such rows are silently
// rejected by Insert.
func NewHashTable(buildSpec1, buildSpec2, probeSpec expr.KeySpec, desc *tuple.Descriptor, storesNulls bool) (*HashTable, error) {
	return NewHashTableWithOptions(buildSpec1, buildSpec2, probeSpec, desc, storesNulls, Options{})
}

func NewHashTableWithOptions(buildSpec1, buildSpec2, probeSpec expr.KeySpec, desc *tuple.Descriptor, storesNulls bool, opts Options) (*HashTable, error) {
	if len(buildSpec1) == 0 {
		return nil, qerr.NewInvalidInput("empty build key spec")
	}
	if err := buildSpec1.CheckCompatible(buildSpec2); err != nil {
		return nil, err
	}
	if err := buildSpec1.CheckCompatible(probeSpec); err != nil {
		return nil, err
	}
	if desc != nil {
		if err := buildSpec1.Bind(desc); err != nil {
			return nil, err
		}
		if err := buildSpec2.Bind(desc); err != nil {
			return nil, err
		}
	}

	ht := &HashTable{
		buildSpec1:  buildSpec1,
		buildSpec2:  buildSpec2,
		probeSpec:   probeSpec,
		desc:        desc,
		storesNulls: storesNulls,
		matched:     roaring.New(),
	}
	ht.ops = &keyOps{ht: ht}
	if err := ht.set.Init(ht.ops, opts.InitCellCnt, opts.LoadFactorNum, opts.LoadFactorDen); err != nil {
		return nil, err
	}
	logutil.Debug("hash table created",
		zap.String("buildKey", buildSpec1.String()),
		zap.String("probeKey", probeSpec.String()),
		zap.Bool("storesNulls", storesNulls))
	return ht, nil
}

// Insert adds one build row. When the row's build key contains a NULL
// column and the table does not store nulls, the row is silently
// dropped; that is an outcome, not an error. Insertion is atomic: an
// expression failure leaves the table unchanged.
func (ht *HashTable) Insert(r tuple.Tuple) error {
	vals, hasNull, err := evalKey(ht.buildSpec1, r, ht.ops.aVals)
	ht.ops.aVals = vals
	if err != nil {
		return err
	}
	if hasNull && !ht.storesNulls {
		ht.rejected++
		return nil
	}

	ord := uint64(len(ht.rows))
	ht.rows = append(ht.rows, r)
	if err := ht.set.Insert(ord); err != nil {
		ht.rows = ht.rows[:ord]
		return err
	}
	return nil
}

// Scan binds it to the rows matching the probe row's key, or to the
// whole collection when r is nil (the unmatched-build sweep of a full
// outer join enumerates that way). The iterator is bound to the state of
// the table at this moment; inserting rows or issuing another Scan
// before it is exhausted leaves it stale with no defined behavior.
func (ht *HashTable) Scan(r tuple.Tuple, it *Iterator) error {
	if r == nil {
		it.reset(ht, nil, len(ht.rows))
		return nil
	}
	sels, err := ht.set.Find(hashtable.Probe(r))
	if err != nil {
		return err
	}
	it.reset(ht, sels, len(sels))
	return nil
}

// Unmatched binds it to every stored row that was never marked through
// Iterator.Mark. Used by full outer joins after the probe phase.
func (ht *HashTable) Unmatched(it *Iterator) {
	sels := make([]uint64, 0, len(ht.rows)-int(ht.matched.GetCardinality()))
	for ord := range ht.rows {
		if !ht.matched.Contains(uint32(ord)) {
			sels = append(sels, uint64(ord))
		}
	}
	it.reset(ht, sels, len(sels))
}

// ProbeKeyHash computes the combined probe-side key hash of r. It is the
// same value the table uses internally to locate r's bucket, exposed for
// sketches and runtime filters.
func (ht *HashTable) ProbeKeyHash(r tuple.Tuple) (uint64, error) {
	return ht.ops.Hash(hashtable.Probe(r))
}

// Size returns the number of stored rows, duplicate keys included.
func (ht *HashTable) Size() int {
	return len(ht.rows)
}

// RejectedCount returns how many rows Insert dropped for NULL keys.
func (ht *HashTable) RejectedCount() uint64 {
	return ht.rejected
}

// StoresNulls reports the table's NULL key policy.
func (ht *HashTable) StoresNulls() bool {
	return ht.storesNulls
}

// DebugString renders the stored rows grouped by key for diagnostics.
func (ht *HashTable) DebugString(indent int) string {
	pad := strings.Repeat("  ", indent)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%shash table: rows=%d keys=%d rejected=%d storesNulls=%v\n",
		pad, len(ht.rows), ht.set.GroupCount(), ht.rejected, ht.storesNulls)
	fmt.Fprintf(&buf, "%sbuild key: %s\n", pad, ht.buildSpec1.String())
	fmt.Fprintf(&buf, "%sprobe key: %s\n", pad, ht.probeSpec.String())
	for i := 0; i < int(ht.set.GroupCount()); i++ {
		fmt.Fprintf(&buf, "%s  group %d:", pad, i)
		for _, ord := range ht.set.GroupAt(i) {
			fmt.Fprintf(&buf, " %s", ht.rows[ord].String())
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Iterator walks the rows bound by one Scan or Unmatched call. It is
// single-use and not stable under mutation: any Insert or further Scan
// on the owning table invalidates it.
type Iterator struct {
	ht   *HashTable
	sels []uint64
	n    int
	pos  int
	last int64
}

func (it *Iterator) reset(ht *HashTable, sels []uint64, n int) {
	it.ht = ht
	it.sels = sels
	it.n = n
	it.pos = 0
	it.last = -1
}

func (it *Iterator) HasNext() bool {
	return it.pos < it.n
}

// GetNext returns the next matching row, or nil when the range is
// exhausted.
func (it *Iterator) GetNext() tuple.Tuple {
	if !it.HasNext() {
		return nil
	}
	ord := uint64(it.pos)
	if it.sels != nil {
		ord = it.sels[it.pos]
	}
	it.pos++
	it.last = int64(ord)
	return it.ht.rows[ord]
}

// Mark flags the row last returned by GetNext as matched, feeding the
// table's unmatched-row sweep. The bitmap holds 32-bit ordinals, which
// caps a table at 1<<32 rows; an in-memory build side never gets there.
func (it *Iterator) Mark() {
	if it.last >= 0 {
		it.ht.matched.Add(uint32(it.last))
	}
}

func (it *Iterator) SkipToEnd() {
	it.pos = it.n
}
