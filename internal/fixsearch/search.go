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

// Package fixsearch implements the bounded breadth-first search for a unit
// fix: given a token whose current unit is wrong, find a short sequence of
// in-scope variables to multiply and/or divide it by so its unit matches
// what the statement requires.
package fixsearch

import (
	"github.com/squaresLab/physfix/internal/dataflow"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/units"
)

// DefaultDepth is the search's default depth bound.
const DefaultDepth = 5

// DefaultMaxFixes is the default cap on candidates returned per Change.
const DefaultMaxFixes = 5

type searchState struct {
	mult []*model.Variable
	div  []*model.Variable
	unit units.Map
}

// candidate is one (mult, div) pair whose resulting unit matched the
// target somewhere within the depth bound.
type candidate struct {
	mult []*model.Variable
	div  []*model.Variable
}

// ApplyUnitMultiplication searches for ways to make token have targetUnit
// by multiplying and/or dividing it by variables reaching its CFG node, and
// returns one synthesized replacement subtree per candidate found, in the
// order discovered. reachDefs is the reach-in set at token's CFG node; vars
// is the per-variable top-ranked unit map.
func ApplyUnitMultiplication(token *model.Token, curUnit, targetUnit units.Map, vars map[string]*report.Variable, reachDefs []*dataflow.ReachDef, depth int) []*model.Token {
	if depth <= 0 {
		depth = DefaultDepth
	}

	var found []candidate
	queue := []searchState{{unit: curUnit}}

	for i := 0; i < depth; i++ {
		var next []searchState
		for _, s := range queue {
			if units.Equal(s.unit, targetUnit) {
				found = append(found, candidate{mult: s.mult, div: s.div})
			}

			for _, r := range reachDefs {
				v := r.Variable
				pv, ok := vars[v.ID]
				if !ok || len(pv.Units) == 0 {
					continue
				}
				reachUnit := pv.Units[0]
				if len(reachUnit) == 0 {
					continue
				}

				if !containsVar(s.div, v) {
					next = append(next, searchState{
						mult: append(append([]*model.Variable{}, s.mult...), v),
						div:  s.div,
						unit: units.Multiply(s.unit, reachUnit),
					})
				}
				if !containsVar(s.mult, v) {
					next = append(next, searchState{
						mult: s.mult,
						div:  append(append([]*model.Variable{}, s.div...), v),
						unit: units.Divide(s.unit, reachUnit),
					})
				}
			}
		}
		queue = next
	}

	trees := make([]*model.Token, 0, len(found))
	for _, c := range found {
		trees = append(trees, buildChangeTree(token, c.mult, c.div))
	}
	return trees
}

func containsVar(vars []*model.Variable, v *model.Variable) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}
