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

package fixsearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/depgraph"
	"github.com/squaresLab/physfix/internal/errorlink"
	"github.com/squaresLab/physfix/internal/fixsearch"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/units"
)

// buildAdditionError constructs "result = a + b;" where b's unit doesn't
// match result's, and an Error bound to the "+" token as its ErrorToken.
func buildAdditionError() (*errorlink.Error, *model.Variable) {
	varResult := &model.Variable{ID: "result", NameToken: &model.Token{Str: "result"}}
	varA := &model.Variable{ID: "a", NameToken: &model.Token{Str: "a"}}
	varB := &model.Variable{ID: "b", NameToken: &model.Token{Str: "b"}}

	lhsTok := &model.Token{ID: "lhs", Variable: varResult}
	aTok := &model.Token{ID: "a_use", Variable: varA}
	bTok := &model.Token{ID: "b_use", Variable: varB}
	plusTok := &model.Token{ID: "plus", Str: "+", AstOperand1: aTok, AstOperand2: bTok}
	aTok.AstParent = plusTok
	bTok.AstParent = plusTok
	rootTok := &model.Token{ID: "root", Str: "=", AstOperand1: lhsTok, AstOperand2: plusTok}
	plusTok.AstParent = rootTok

	e := &errorlink.Error{
		RootTokenID:  "root",
		ErrorTokenID: "plus",
		ErrorType:    fixsearch.AdditionOfIncompatibleUnits,
		RootToken:    rootTok,
		ErrorToken:   plusTok,
		Graph:        &depgraph.Graph{},
	}
	return e, varB
}

func TestFixAdditionSubtractionTargetsTheMismatchedOperand(t *testing.T) {
	t.Parallel()

	e, varB := buildAdditionError()
	p := fixsearch.Params{
		Variables: map[string]*report.Variable{
			"result": {Units: []units.Map{{"m": exp(1)}}},
			"a":      {Units: []units.Map{{"m": exp(1)}}},
			"b":      {Units: []units.Map{{"s": exp(1)}}},
		},
	}

	change, err := fixsearch.FixAdditionSubtraction(e, p)
	require.NoError(t, err)
	require.Same(t, varB, change.TokenToFix.Variable, "the operand whose unit doesn't match the LHS is the one targeted for a fix")
}

func TestFixAdditionSubtractionRejectsNonAssignmentRoot(t *testing.T) {
	t.Parallel()

	plusTok := &model.Token{ID: "plus", Str: "+", AstOperand1: &model.Token{ID: "a"}, AstOperand2: &model.Token{ID: "b"}}
	e := &errorlink.Error{RootTokenID: "plus", RootToken: plusTok, ErrorToken: plusTok, Graph: &depgraph.Graph{}}

	_, err := fixsearch.FixAdditionSubtraction(e, fixsearch.Params{})
	require.Error(t, err)
}

func TestFixComparisonProposesBothDirections(t *testing.T) {
	t.Parallel()

	varA := &model.Variable{ID: "a", NameToken: &model.Token{Str: "a"}}
	varB := &model.Variable{ID: "b", NameToken: &model.Token{Str: "b"}}
	lhs := &model.Token{ID: "lhs", Variable: varA}
	rhs := &model.Token{ID: "rhs", Variable: varB}
	cmpTok := &model.Token{ID: "cmp", Str: "==", AstOperand1: lhs, AstOperand2: rhs}

	e := &errorlink.Error{
		RootTokenID:  "cmp",
		ErrorTokenID: "cmp",
		ErrorType:    fixsearch.ComparisonIncompatibleUnits,
		RootToken:    cmpTok,
		ErrorToken:   cmpTok,
		Graph:        &depgraph.Graph{},
	}
	p := fixsearch.Params{
		Variables: map[string]*report.Variable{
			"a": {Units: []units.Map{{"m": exp(1)}}},
			"b": {Units: []units.Map{{"s": exp(1)}}},
		},
	}

	changes, err := fixsearch.FixComparison(e, p)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	require.Same(t, lhs, changes[0].TokenToFix)
	require.Same(t, rhs, changes[1].TokenToFix)
}

func TestFixComparisonRejectsMissingOperand(t *testing.T) {
	t.Parallel()

	cmpTok := &model.Token{ID: "cmp", Str: "==", AstOperand1: &model.Token{ID: "lhs"}}
	e := &errorlink.Error{RootTokenID: "cmp", ErrorToken: cmpTok, Graph: &depgraph.Graph{}}

	_, err := fixsearch.FixComparison(e, fixsearch.Params{})
	require.Error(t, err)
}

func TestResolveDispatchesByErrorTypeAndSkipsUnknown(t *testing.T) {
	t.Parallel()

	addErr, _ := buildAdditionError()
	unknown := &errorlink.Error{RootTokenID: "x", ErrorType: "SOME_UNRECOGNIZED_ERROR"}

	p := fixsearch.Params{
		Variables: map[string]*report.Variable{
			"result": {Units: []units.Map{{"m": exp(1)}}},
			"a":      {Units: []units.Map{{"m": exp(1)}}},
			"b":      {Units: []units.Map{{"s": exp(1)}}},
		},
	}

	changes, skipped := fixsearch.Resolve([]*errorlink.Error{addErr, unknown}, p)
	require.Len(t, changes, 1)
	require.Len(t, skipped, 1)
	require.Same(t, unknown, skipped[0].Error)
}
