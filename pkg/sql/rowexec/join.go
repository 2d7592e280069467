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
	hll "github.com/axiomhq/hyperloglog"
	"go.uber.org/zap"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
	"github.com/corvusdb/corvus/pkg/logutil"
	"github.com/corvusdb/corvus/pkg/sql/expr"
)

type JoinType uint8

const (
	InnerJoin JoinType = iota
	LeftJoin
	SemiJoin
	AntiJoin
	FullJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case SemiJoin:
		return "semi"
	case AntiJoin:
		return "anti"
	case FullJoin:
		return "full"
	}
	return "unknown"
}

// JoinStats accumulates counters over one build/probe cycle.
type JoinStats struct {
	BuildRows    uint64
	RejectedRows uint64
	ProbeRows    uint64
	OutputRows   uint64
	// DistinctProbeKeys is a hyperloglog estimate, not an exact count.
	DistinctProbeKeys uint64
}

// HashJoiner joins a probed stream of rows against a built collection,
// one probe row at a time. Build must complete before the first Probe;
// for full joins EndProbe emits the never-matched build rows. Output
// rows concatenate the probe row with the build row; half-matched outer
// rows pad the missing side with NULLs.
type HashJoiner struct {
	typ JoinType
	ht  *HashTable

	buildDesc *tuple.Descriptor
	// probeWidth pads the probe side of unmatched build rows and is
	// learned from the first probe row.
	probeWidth int

	sketch *hll.Sketch
	stats  JoinStats

	it      Iterator
	built   bool
	probing bool
}

// NewHashJoiner wires a joiner over a fresh hash table. Semi and anti
// joins never need NULL build keys; left and inner joins reject them
// too, since a NULL key cannot match. Full joins store them so the
// unmatched sweep still reports those build rows.
func NewHashJoiner(typ JoinType, buildSpec1, buildSpec2, probeSpec expr.KeySpec, buildDesc *tuple.Descriptor) (*HashJoiner, error) {
	storesNulls := typ == FullJoin
	ht, err := NewHashTable(buildSpec1, buildSpec2, probeSpec, buildDesc, storesNulls)
	if err != nil {
		return nil, err
	}
	return &HashJoiner{
		typ:       typ,
		ht:        ht,
		buildDesc: buildDesc,
		sketch:    hll.New(),
	}, nil
}

// Build inserts one batch of build rows. May be called repeatedly until
// the first Probe.
func (j *HashJoiner) Build(rows []tuple.Tuple) error {
	if j.probing {
		return qerr.NewInvalidState("Build after Probe")
	}
	for _, r := range rows {
		if err := j.ht.Insert(r); err != nil {
			return err
		}
	}
	j.built = true
	j.stats.BuildRows = uint64(j.ht.Size())
	j.stats.RejectedRows = j.ht.RejectedCount()
	return nil
}

// Probe joins one probe row, passing each output row to emit. Emitted
// tuples are only valid for the duration of the callback.
func (j *HashJoiner) Probe(r tuple.Tuple, emit func(tuple.Tuple) error) error {
	if !j.built {
		return qerr.NewInvalidState("Probe before Build")
	}
	j.probing = true
	j.probeWidth = len(r)
	j.stats.ProbeRows++

	hash, err := j.ht.ProbeKeyHash(r)
	if err != nil {
		return err
	}
	j.sketch.InsertHash(hash)

	if err := j.ht.Scan(r, &j.it); err != nil {
		return err
	}

	switch j.typ {
	case InnerJoin, LeftJoin, FullJoin:
		matched := false
		for j.it.HasNext() {
			b := j.it.GetNext()
			j.it.Mark()
			matched = true
			if err := j.emit(emit, concat(r, b)); err != nil {
				return err
			}
		}
		if !matched && j.typ != InnerJoin {
			if err := j.emit(emit, padBuild(r, j.buildDesc.Width())); err != nil {
				return err
			}
		}
	case SemiJoin:
		if j.it.HasNext() {
			j.it.SkipToEnd()
			return j.emit(emit, r)
		}
	case AntiJoin:
		if !j.it.HasNext() {
			return j.emit(emit, r)
		}
		j.it.SkipToEnd()
	}
	return nil
}

// EndProbe finishes the probe phase. For full joins it emits every
// build row that no probe row matched, padded with a NULL probe side.
func (j *HashJoiner) EndProbe(emit func(tuple.Tuple) error) error {
	if !j.built {
		return qerr.NewInvalidState("EndProbe before Build")
	}
	if j.typ == FullJoin {
		j.ht.Unmatched(&j.it)
		for j.it.HasNext() {
			b := j.it.GetNext()
			if err := j.emit(emit, padProbe(b, j.probeWidth)); err != nil {
				return err
			}
		}
	}
	j.stats.DistinctProbeKeys = j.sketch.Estimate()
	logutil.Info("hash join finished",
		zap.String("type", j.typ.String()),
		zap.Uint64("buildRows", j.stats.BuildRows),
		zap.Uint64("probeRows", j.stats.ProbeRows),
		zap.Uint64("outputRows", j.stats.OutputRows),
		zap.Uint64("distinctProbeKeys", j.stats.DistinctProbeKeys))
	return nil
}

// Stats returns the counters accumulated so far. DistinctProbeKeys is
// only final after EndProbe.
func (j *HashJoiner) Stats() JoinStats {
	return j.stats
}

func (j *HashJoiner) emit(emit func(tuple.Tuple) error, out tuple.Tuple) error {
	j.stats.OutputRows++
	return emit(out)
}

func concat(probe, build tuple.Tuple) tuple.Tuple {
	out := make(tuple.Tuple, 0, len(probe)+len(build))
	out = append(out, probe...)
	return append(out, build...)
}

func padBuild(probe tuple.Tuple, buildWidth int) tuple.Tuple {
	out := make(tuple.Tuple, 0, len(probe)+buildWidth)
	out = append(out, probe...)
	for i := 0; i < buildWidth; i++ {
		out = append(out, types.NewNull(types.T_any))
	}
	return out
}

func padProbe(build tuple.Tuple, probeWidth int) tuple.Tuple {
	out := make(tuple.Tuple, 0, probeWidth+len(build))
	for i := 0; i < probeWidth; i++ {
		out = append(out, types.NewNull(types.T_any))
	}
	return append(out, build...)
}
