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

package fixsearch

import (
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/orderedmap"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/units"
)

// Change is one proposed source patch: replace TokenToFix's expression with
// one of Candidates. Candidates are in the order the search discovered
// them; callers wanting a bounded number of suggestions should
// truncate rather than rely on this already being short, since a caller may
// request a tighter max_fixes than the search was run with.
type Change struct {
	TokenToFix *model.Token
	Candidates []*model.Token
}

// Params bundles the inputs every fix strategy needs beyond the bound error
// itself.
type Params struct {
	Variables  map[string]*report.Variable
	TokenUnits *orderedmap.OrderedMap[string, units.Map]
	Depth      int
	MaxFixes   int
}

func (p Params) depth() int {
	if p.Depth > 0 {
		return p.Depth
	}
	return DefaultDepth
}

func (p Params) maxFixes() int {
	if p.MaxFixes > 0 {
		return p.MaxFixes
	}
	return DefaultMaxFixes
}

func unitOfToken(t *model.Token, p Params) units.Map {
	if t.IsVariable() {
		if v, ok := p.Variables[t.Variable.ID]; ok && len(v.Units) > 0 {
			return v.Units[0]
		}
		return nil
	}
	u, _ := p.TokenUnits.Load(t.ID)
	return u
}

func truncate(trees []*model.Token, n int) []*model.Token {
	if n <= 0 || len(trees) <= n {
		return trees
	}
	return trees[:n]
}
