// Copyright 2022 Corvus DB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"github.com/corvusdb/corvus/pkg/common/qerr"
)

const (
	kInitialCellCnt        = 64
	kLoadFactorNumerator   = 1
	kLoadFactorDenominator = 2
)

// Source names the key context of one side of a hash or equality call.
// A build source is a stored row ordinal; a probe source carries the
// probe row itself. Passing the probe row here, per call, is what keeps
// Ops implementations free of shared mutable probe state.
type Source[P any] struct {
	probe    bool
	probeRow P
	buildOrd uint64
}

func Build[P any](ord uint64) Source[P] {
	return Source[P]{buildOrd: ord}
}

func Probe[P any](row P) Source[P] {
	return Source[P]{probe: true, probeRow: row}
}

func (s Source[P]) IsProbe() bool {
	return s.probe
}

func (s Source[P]) BuildOrd() uint64 {
	return s.buildOrd
}

func (s Source[P]) ProbeRow() P {
	return s.probeRow
}

// Ops is the hash/equality policy of a RowSet. Implementations must keep
// the two sides consistent: a build source and a probe source with equal
// key values hash identically and compare equal. The policy is injected
// so a specialized, generated implementation can replace the generic one
// without touching the table.
type Ops[P any] interface {
	Hash(src Source[P]) (uint64, error)
	Equals(a, b Source[P]) (bool, error)
}

type rowSetCell struct {
	hash uint64
	// groupID is 1 + the index of the equal-key group, 0 when empty.
	groupID uint64
}

// RowSet is an open-addressing multi-set of row ordinals keyed through an
// injected Ops policy. Rows with equal keys collapse into one cell whose
// group holds every ordinal in insertion order, which is what gives the
// equal-range lookup its contiguity.
//
// A RowSet is not safe for concurrent use.
type RowSet[P any] struct {
	ops Ops[P]

	cellCnt     uint64
	cellCntMask uint64
	elemCnt     uint64
	maxGroupCnt uint64

	lfNum uint64
	lfDen uint64

	cells  []rowSetCell
	groups [][]uint64
}

// Init prepares the set. initCellCnt must be a power of two; zero picks
// the default. lfNum/lfDen bound the distinct-key fill of the cell array
// before doubling; zeroes pick the defaults.
func (rs *RowSet[P]) Init(ops Ops[P], initCellCnt, lfNum, lfDen uint64) error {
	if initCellCnt == 0 {
		initCellCnt = kInitialCellCnt
	}
	if initCellCnt&(initCellCnt-1) != 0 {
		return qerr.NewBadConfig("cell count %d is not a power of two", initCellCnt)
	}
	if lfNum == 0 || lfDen == 0 {
		lfNum, lfDen = kLoadFactorNumerator, kLoadFactorDenominator
	}
	if lfNum >= lfDen {
		return qerr.NewBadConfig("load factor %d/%d is not below 1", lfNum, lfDen)
	}
	rs.ops = ops
	rs.cellCnt = initCellCnt
	rs.cellCntMask = initCellCnt - 1
	rs.elemCnt = 0
	rs.lfNum, rs.lfDen = lfNum, lfDen
	rs.maxGroupCnt = initCellCnt * lfNum / lfDen
	rs.cells = make([]rowSetCell, initCellCnt)
	rs.groups = rs.groups[:0]
	return nil
}

// Insert adds the build row ordinal to the set. Equal-key duplicates are
// all retained. Nothing is stored if hashing or comparing fails.
func (rs *RowSet[P]) Insert(ord uint64) error {
	rs.resizeOnDemand(1)

	src := Build[P](ord)
	hash, err := rs.ops.Hash(src)
	if err != nil {
		return err
	}
	cell, err := rs.findCell(hash, src)
	if err != nil {
		return err
	}
	if cell.groupID == 0 {
		rs.groups = append(rs.groups, []uint64{ord})
		cell.hash = hash
		cell.groupID = uint64(len(rs.groups))
	} else {
		gid := cell.groupID - 1
		rs.groups[gid] = append(rs.groups[gid], ord)
	}
	rs.elemCnt++
	return nil
}

// Find returns the ordinals of every stored row whose key equals the
// key of src, in insertion order, or nil when there is no match. The
// returned slice aliases internal storage and is invalidated by Insert.
func (rs *RowSet[P]) Find(src Source[P]) ([]uint64, error) {
	hash, err := rs.ops.Hash(src)
	if err != nil {
		return nil, err
	}
	cell, err := rs.findCell(hash, src)
	if err != nil {
		return nil, err
	}
	if cell.groupID == 0 {
		return nil, nil
	}
	return rs.groups[cell.groupID-1], nil
}

func (rs *RowSet[P]) findCell(hash uint64, src Source[P]) (*rowSetCell, error) {
	for idx := hash & rs.cellCntMask; true; idx = (idx + 1) & rs.cellCntMask {
		cell := &rs.cells[idx]
		if cell.groupID == 0 {
			return cell, nil
		}
		if cell.hash == hash {
			repr := rs.groups[cell.groupID-1][0]
			eq, err := rs.ops.Equals(src, Build[P](repr))
			if err != nil {
				return nil, err
			}
			if eq {
				return cell, nil
			}
		}
	}
	return nil, nil
}

func (rs *RowSet[P]) resizeOnDemand(n uint64) {
	targetCnt := uint64(len(rs.groups)) + n
	if targetCnt <= rs.maxGroupCnt {
		return
	}

	newCellCnt := rs.cellCnt << 2
	newMaxGroupCnt := newCellCnt * rs.lfNum / rs.lfDen
	for newMaxGroupCnt < targetCnt {
		newCellCnt <<= 1
		newMaxGroupCnt = newCellCnt * rs.lfNum / rs.lfDen
	}

	oldCells := rs.cells
	rs.cellCnt = newCellCnt
	rs.cellCntMask = newCellCnt - 1
	rs.maxGroupCnt = newMaxGroupCnt
	rs.cells = make([]rowSetCell, newCellCnt)

	// Rehash by the stored hash; no key re-evaluation happens here, so
	// growth can never fail mid-way.
	for i := range oldCells {
		cell := &oldCells[i]
		if cell.groupID == 0 {
			continue
		}
		idx := cell.hash & rs.cellCntMask
		for rs.cells[idx].groupID != 0 {
			idx = (idx + 1) & rs.cellCntMask
		}
		rs.cells[idx] = *cell
	}
}

// ElemCount returns the number of stored rows, duplicates included.
func (rs *RowSet[P]) ElemCount() uint64 {
	return rs.elemCnt
}

// GroupCount returns the number of distinct keys.
func (rs *RowSet[P]) GroupCount() uint64 {
	return uint64(len(rs.groups))
}

// GroupAt returns the ordinals of the i-th distinct key, in insertion
// order of the keys.
func (rs *RowSet[P]) GroupAt(i int) []uint64 {
	return rs.groups[i]
}

// CellCount returns the current size of the cell array.
func (rs *RowSet[P]) CellCount() uint64 {
	return rs.cellCnt
}
