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
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/orderedmap"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/units"
)

func exp(n int64) apd.Decimal {
	var d apd.Decimal
	d.SetInt64(n)
	return d
}

func TestBuildChangeTreeTrivialIsABareCopy(t *testing.T) {
	t.Parallel()

	token := &model.Token{ID: "tok", Str: "v"}
	tree := buildChangeTree(token, nil, nil)

	require.Equal(t, "v", tree.Str)
	require.Equal(t, "tok", tree.ID)
	require.NotSame(t, token, tree)
	require.Nil(t, tree.AstParent)
}

func TestBuildChangeTreeSingleMultiplication(t *testing.T) {
	t.Parallel()

	token := &model.Token{ID: "tok", Str: "v"}
	v1 := &model.Variable{ID: "v1", NameToken: &model.Token{Str: "v1"}}

	tree := buildChangeTree(token, []*model.Variable{v1}, nil)
	require.Equal(t, "*", tree.Str)
	require.Same(t, v1, tree.AstOperand1.Variable)
	require.Equal(t, "tok", tree.AstOperand2.ID)
	require.NotSame(t, token, tree.AstOperand2)
	require.Same(t, tree, tree.AstOperand1.AstParent)
	require.Same(t, tree, tree.AstOperand2.AstParent)
}

func TestBuildChangeTreeSingleDivision(t *testing.T) {
	t.Parallel()

	token := &model.Token{ID: "tok", Str: "v"}
	v1 := &model.Variable{ID: "v1", NameToken: &model.Token{Str: "v1"}}

	tree := buildChangeTree(token, nil, []*model.Variable{v1})
	require.Equal(t, "/", tree.Str)
	require.Equal(t, "tok", tree.AstOperand1.ID)
	require.NotSame(t, token, tree.AstOperand1)
	require.Same(t, v1, tree.AstOperand2.Variable)
}

func TestBuildChangeTreeChainedDivisionRightNests(t *testing.T) {
	t.Parallel()

	// token / v1 / v2 synthesizes as token / (v1 / v2) — right-nested, even
	// though this isn't the associative reading a reader might expect.
	token := &model.Token{ID: "tok", Str: "v"}
	v1 := &model.Variable{ID: "v1", NameToken: &model.Token{Str: "v1"}}
	v2 := &model.Variable{ID: "v2", NameToken: &model.Token{Str: "v2"}}

	tree := buildChangeTree(token, nil, []*model.Variable{v1, v2})
	require.Equal(t, "/", tree.Str)
	require.Equal(t, "tok", tree.AstOperand1.ID)

	inner := tree.AstOperand2
	require.Equal(t, "/", inner.Str)
	require.Same(t, v1, inner.AstOperand1.Variable)
	require.Same(t, v2, inner.AstOperand2.Variable)
}

func TestBuildChangeTreeMultiplicationThenDivision(t *testing.T) {
	t.Parallel()

	token := &model.Token{ID: "tok", Str: "v"}
	v1 := &model.Variable{ID: "v1", NameToken: &model.Token{Str: "v1"}}
	v2 := &model.Variable{ID: "v2", NameToken: &model.Token{Str: "v2"}}

	tree := buildChangeTree(token, []*model.Variable{v1}, []*model.Variable{v2})
	require.Equal(t, "*", tree.Str)
	require.Same(t, v1, tree.AstOperand1.Variable)

	divTok := tree.AstOperand2
	require.Equal(t, "/", divTok.Str)
	require.Equal(t, "tok", divTok.AstOperand1.ID)
	require.Same(t, v2, divTok.AstOperand2.Variable)
}

func TestParamsDepthAndMaxFixesFallBackToDefaults(t *testing.T) {
	t.Parallel()

	var zero Params
	require.Equal(t, DefaultDepth, zero.depth())
	require.Equal(t, DefaultMaxFixes, zero.maxFixes())

	custom := Params{Depth: 2, MaxFixes: 1}
	require.Equal(t, 2, custom.depth())
	require.Equal(t, 1, custom.maxFixes())
}

func TestUnitOfTokenPrefersVariableUnitOverTokenUnits(t *testing.T) {
	t.Parallel()

	v := &model.Variable{ID: "a"}
	tok := &model.Token{ID: "tok", Variable: v}

	tu := orderedmap.New[string, units.Map]()
	tu.Store("tok", units.Map{"kg": exp(1)})

	p := Params{
		Variables:  map[string]*report.Variable{"a": {Units: []units.Map{{"m": exp(1)}}}},
		TokenUnits: tu,
	}

	got := unitOfToken(tok, p)
	require.True(t, units.Equal(got, units.Map{"m": exp(1)}))
}

func TestUnitOfTokenFallsBackToTokenUnitsForNonVariable(t *testing.T) {
	t.Parallel()

	tok := &model.Token{ID: "tok", Str: "+"}
	tu := orderedmap.New[string, units.Map]()
	tu.Store("tok", units.Map{"kg": exp(1)})

	p := Params{TokenUnits: tu}
	got := unitOfToken(tok, p)
	require.True(t, units.Equal(got, units.Map{"kg": exp(1)}))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	trees := []*model.Token{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	require.Len(t, truncate(trees, 2), 2)
	require.Equal(t, trees, truncate(trees, 0))
	require.Equal(t, trees, truncate(trees, 10))
}
