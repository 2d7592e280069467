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

// corvusbench builds a hash table from generated rows and drives a hash
// join against it, reporting throughput and join statistics. It is the
// quickest way to sanity-check the executor after a change.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/corvusdb/corvus/pkg/config"
	"github.com/corvusdb/corvus/pkg/container/tuple"
	"github.com/corvusdb/corvus/pkg/container/types"
	"github.com/corvusdb/corvus/pkg/logutil"
	"github.com/corvusdb/corvus/pkg/sql/expr"
	"github.com/corvusdb/corvus/pkg/sql/rowexec"
)

var (
	configFile = flag.String("config", "", "toml config file")
	buildRows  = flag.Int("build", 1_000_000, "number of build rows")
	probeRows  = flag.Int("probe", 1_000_000, "number of probe rows")
	keyCard    = flag.Int("keys", 100_000, "distinct key cardinality")
	joinType   = flag.String("join", "inner", "join type: inner|left|semi|anti|full")
	seed       = flag.Int64("seed", 1, "rng seed")
)

func parseJoinType(s string) (rowexec.JoinType, error) {
	switch s {
	case "inner":
		return rowexec.InnerJoin, nil
	case "left":
		return rowexec.LeftJoin, nil
	case "semi":
		return rowexec.SemiJoin, nil
	case "anti":
		return rowexec.AntiJoin, nil
	case "full":
		return rowexec.FullJoin, nil
	}
	return 0, fmt.Errorf("unknown join type %q", s)
}

func genRows(rng *rand.Rand, n, card int, tag string) []tuple.Tuple {
	rows := make([]tuple.Tuple, n)
	for i := range rows {
		rows[i] = tuple.Tuple{
			types.NewInt64(int64(rng.Intn(card))),
			types.NewString(fmt.Sprintf("%s%d", tag, i)),
		}
	}
	return rows
}

func main() {
	flag.Parse()

	params := config.ExecParameters{}
	if *configFile != "" {
		p, err := config.LoadExecParameters(*configFile)
		if err != nil {
			fmt.Printf("load config failed: %v\n", err)
			os.Exit(-1)
		}
		params = *p
	} else {
		params.SetDefaultValues()
	}
	logutil.SetupLogger(&params.Log)

	jt, err := parseJoinType(*joinType)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(-1)
	}

	desc := tuple.NewDescriptor(
		tuple.Attribute{Name: "k", Typ: types.T_int64},
		tuple.Attribute{Name: "payload", Typ: types.T_varchar},
	)
	keySpec := func() expr.KeySpec {
		return expr.KeySpec{expr.NewCol(0, types.T_int64)}
	}

	j, err := rowexec.NewHashJoiner(jt, keySpec(), keySpec(), keySpec(), desc)
	if err != nil {
		fmt.Printf("create joiner failed: %v\n", err)
		os.Exit(-1)
	}

	rng := rand.New(rand.NewSource(*seed))
	build := genRows(rng, *buildRows, *keyCard, "b")
	probe := genRows(rng, *probeRows, *keyCard, "p")

	start := time.Now()
	if err := j.Build(build); err != nil {
		fmt.Printf("build failed: %v\n", err)
		os.Exit(-1)
	}
	buildDur := time.Since(start)

	emit := func(tuple.Tuple) error { return nil }
	start = time.Now()
	for _, r := range probe {
		if err := j.Probe(r, emit); err != nil {
			fmt.Printf("probe failed: %v\n", err)
			os.Exit(-1)
		}
	}
	if err := j.EndProbe(emit); err != nil {
		fmt.Printf("end probe failed: %v\n", err)
		os.Exit(-1)
	}
	probeDur := time.Since(start)

	st := j.Stats()
	fmt.Printf("%s join: build %d rows in %v (%.0f rows/s)\n",
		jt, st.BuildRows, buildDur, float64(st.BuildRows)/buildDur.Seconds())
	fmt.Printf("probe %d rows in %v (%.0f rows/s)\n",
		st.ProbeRows, probeDur, float64(st.ProbeRows)/probeDur.Seconds())
	fmt.Printf("output %d rows, ~%d distinct probe keys\n",
		st.OutputRows, st.DistinctProbeKeys)
}
