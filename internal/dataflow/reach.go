// Copyright (c) 2024 The PhysFix Authors.
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

package dataflow

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/model"
)

// ReachDef names a single reaching-definition fact: variable Variable is
// possibly-live having last been assigned at DefNode.
type ReachDef struct {
	DefNode  cfg.Node
	Variable *model.Variable
}

// factKey identifies a ReachDef fact for deduplication: the same node can
// only ever generate one fact per variable it defines.
type factKey struct {
	node     cfg.Node
	variable *model.Variable
}

// ReachIn runs the classical iterative worklist reaching-definitions
// dataflow (Dragon Book §9.2, the same algorithm and the same bitset
// representation the reference refactoring tool's own reaching-definitions
// pass uses) and returns, for every node, the set of facts reaching that
// node's entry (its IN set).
func ReachIn(f *cfg.FunctionCFG, defUse map[cfg.Node]*DefUsePair) map[cfg.Node][]*ReachDef {
	facts, factIndex := enumerateFacts(f, defUse)

	gen := make(map[cfg.Node]*bitset.BitSet, len(f.Nodes))
	kill := make(map[cfg.Node]*bitset.BitSet, len(f.Nodes))
	killByVar := make(map[*model.Variable]*bitset.BitSet)

	for _, n := range f.Nodes {
		gen[n] = new(bitset.BitSet)
		kill[n] = new(bitset.BitSet)
	}

	for _, n := range f.Nodes {
		for _, v := range defUse[n].Define {
			idx := factIndex[factKey{n, v}]
			gen[n].Set(idx)
			if killByVar[v] == nil {
				killByVar[v] = new(bitset.BitSet)
			}
			killByVar[v].Set(idx)
		}
	}
	for _, n := range f.Nodes {
		for _, v := range defUse[n].Define {
			kill[n] = kill[n].Union(killByVar[v]).Difference(gen[n])
		}
	}

	in := make(map[cfg.Node]*bitset.BitSet, len(f.Nodes))
	out := make(map[cfg.Node]*bitset.BitSet, len(f.Nodes))
	for _, n := range f.Nodes {
		in[n] = new(bitset.BitSet)
		out[n] = new(bitset.BitSet)
	}

	queue := append([]cfg.Node(nil), f.Nodes...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		reachIn := new(bitset.BitSet)
		for _, p := range cur.Predecessors() {
			reachIn = reachIn.Union(out[p])
		}
		in[cur] = reachIn

		var newOut *bitset.BitSet
		if len(defUse[cur].Define) > 0 {
			newOut = gen[cur].Union(reachIn.Difference(kill[cur]))
		} else {
			newOut = reachIn
		}

		if !newOut.Equal(out[cur]) {
			out[cur] = newOut
			queue = append(queue, cur.Successors()...)
		}
	}

	result := make(map[cfg.Node][]*ReachDef, len(f.Nodes))
	for _, n := range f.Nodes {
		var reaching []*ReachDef
		for i, e := in[n].NextSet(0); e; i, e = in[n].NextSet(i + 1) {
			reaching = append(reaching, facts[i])
		}
		result[n] = reaching
	}
	return result
}

// enumerateFacts assigns a dense index to every (node, defined-variable)
// pair across the whole function, giving the bitsets a fixed universe to
// range over.
func enumerateFacts(f *cfg.FunctionCFG, defUse map[cfg.Node]*DefUsePair) ([]*ReachDef, map[factKey]uint) {
	var facts []*ReachDef
	index := make(map[factKey]uint)
	for _, n := range f.Nodes {
		for _, v := range defUse[n].Define {
			k := factKey{n, v}
			if _, ok := index[k]; ok {
				continue
			}
			index[k] = uint(len(facts))
			facts = append(facts, &ReachDef{DefNode: n, Variable: v})
		}
	}
	return facts, index
}
