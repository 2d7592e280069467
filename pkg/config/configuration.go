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

package config

import (
	"math/bits"

	"github.com/BurntSushi/toml"

	"github.com/corvusdb/corvus/pkg/common/qerr"
	"github.com/corvusdb/corvus/pkg/logutil"
)

// ExecParameters of the execution core
type ExecParameters struct {
	//version string reported by DebugString and the bench harness
	Version string `toml:"version"`

	//initial cell count of a hash table, must be a power of two. default: 64
	HashTableInitCellCnt uint64 `toml:"hashTableInitCellCnt"`

	//numerator of the hash table load factor threshold. default: 1
	HashTableLoadFactorNum uint64 `toml:"hashTableLoadFactorNum"`

	//denominator of the hash table load factor threshold. default: 2
	HashTableLoadFactorDen uint64 `toml:"hashTableLoadFactorDen"`

	//log configuration
	Log logutil.LogConfig `toml:"log"`
}

// SetDefaultValues fills unset fields
func (ep *ExecParameters) SetDefaultValues() {
	if ep.Version == "" {
		ep.Version = "corvus-0.1.0"
	}
	if ep.HashTableInitCellCnt == 0 {
		ep.HashTableInitCellCnt = 64
	}
	if ep.HashTableLoadFactorNum == 0 {
		ep.HashTableLoadFactorNum = 1
	}
	if ep.HashTableLoadFactorDen == 0 {
		ep.HashTableLoadFactorDen = 2
	}
	ep.Log.Adjust()
}

// Validate checks the parameter combination makes sense.
func (ep *ExecParameters) Validate() error {
	if bits.OnesCount64(ep.HashTableInitCellCnt) != 1 {
		return qerr.NewBadConfig("hashTableInitCellCnt %d is not a power of two", ep.HashTableInitCellCnt)
	}
	if ep.HashTableLoadFactorNum >= ep.HashTableLoadFactorDen {
		return qerr.NewBadConfig("load factor %d/%d is not below 1",
			ep.HashTableLoadFactorNum, ep.HashTableLoadFactorDen)
	}
	return nil
}

// LoadExecParameters loads the toml file and applies defaults.
func LoadExecParameters(file string) (*ExecParameters, error) {
	var ep ExecParameters
	if _, err := toml.DecodeFile(file, &ep); err != nil {
		return nil, qerr.NewBadConfig("parse %s: %v", file, err)
	}
	ep.SetDefaultValues()
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	return &ep, nil
}
