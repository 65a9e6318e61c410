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
	"fmt"

	"github.com/squaresLab/physfix/internal/errorlink"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/units"
)

// FixAdditionSubtraction proposes a fix for an error reported at a +/-
// operator: it assumes the statement's LHS has a single variable whose unit
// is authoritative, walks from the error operator back up to that LHS unit
// (internal/units.InverseUnit) to learn what unit the error operator's
// operands must each have, identifies which of the two operands has the
// wrong unit, descends through any enclosing chain of +/- operators on that
// side to the nearest variable, parenthesized, or * / token, and searches
// for a multiply/divide fix at that token.
func FixAdditionSubtraction(e *errorlink.Error, p Params) (*Change, error) {
	stmtTokens := model.StatementTokenPtrs(e.RootToken)
	lhs, _, ok := model.SplitAssignment(stmtTokens)
	if !ok {
		return nil, fmt.Errorf("fixsearch: addition/subtraction error at root token %s is not in an assignment statement", e.RootTokenID)
	}
	lhsVars := model.VarsInStatement(lhs)
	if len(lhsVars) == 0 {
		return nil, fmt.Errorf("fixsearch: assignment at root token %s has no LHS variable", e.RootTokenID)
	}
	lhsVar := lhsVars[0]
	lhsUnit, ok := unitOfVariable(lhsVar, p)
	if !ok {
		return nil, fmt.Errorf("fixsearch: no unit known for LHS variable %s", lhsVar.ID)
	}

	lookup := reportLookup{p}
	correctUnit := units.InverseUnit(lhsUnit, e.ErrorToken, lookup)

	left := e.ErrorToken.AstOperand1
	right := e.ErrorToken.AstOperand2
	leftUnit := unitOfToken(left, p)
	rightUnit := unitOfToken(right, p)

	var cur *model.Token
	var curUnit units.Map
	var direction string // which operand to keep descending into through a +/- chain
	if !units.Equal(rightUnit, correctUnit) {
		cur, curUnit, direction = right, rightUnit, "left"
	} else {
		cur, curUnit, direction = left, leftUnit, "right"
	}

	tokenToFix := descendToFixTarget(cur, direction)

	reachDefs := e.Graph.ReachIn[e.CFGNode]
	candidates := ApplyUnitMultiplication(tokenToFix, curUnit, correctUnit, p.Variables, reachDefs, p.depth())

	return &Change{TokenToFix: tokenToFix, Candidates: truncate(candidates, p.maxFixes())}, nil
}

// descendToFixTarget walks down a chain of +/- operators on the side named
// by direction ("left" descends into AstOperand1, "right" into
// AstOperand2), stopping at the first variable occurrence, parenthesized
// subexpression, or * / operator — the token the search should try to fix
// directly, rather than the whole +/- subexpression above it.
func descendToFixTarget(cur *model.Token, direction string) *model.Token {
	for {
		switch {
		case cur.IsVariable():
			return cur
		case cur.Str == "(", cur.Str == "*", cur.Str == "/":
			return cur
		case cur.Str == "+", cur.Str == "-":
			if direction == "left" {
				cur = cur.AstOperand1
			} else {
				cur = cur.AstOperand2
			}
		default:
			return cur
		}
	}
}

// FixComparison proposes fixes for an error reported at a comparison
// operator (==, <, >, etc.): since neither side is more authoritative than
// the other, it searches both directions — making the LHS match the RHS's
// unit, and making the RHS match the LHS's — and returns both as candidate
// Changes, leaving the choice between them to the caller.
func FixComparison(e *errorlink.Error, p Params) ([]*Change, error) {
	lhs := e.ErrorToken.AstOperand1
	rhs := e.ErrorToken.AstOperand2
	if lhs == nil || rhs == nil {
		return nil, fmt.Errorf("fixsearch: comparison error at root token %s is missing an operand", e.RootTokenID)
	}

	lhsUnit := unitOfToken(lhs, p)
	rhsUnit := unitOfToken(rhs, p)
	reachDefs := e.Graph.ReachIn[e.CFGNode]

	lhsCandidates := ApplyUnitMultiplication(lhs, lhsUnit, rhsUnit, p.Variables, reachDefs, p.depth())
	rhsCandidates := ApplyUnitMultiplication(rhs, rhsUnit, lhsUnit, p.Variables, reachDefs, p.depth())

	return []*Change{
		{TokenToFix: lhs, Candidates: truncate(lhsCandidates, p.maxFixes())},
		{TokenToFix: rhs, Candidates: truncate(rhsCandidates, p.maxFixes())},
	}, nil
}

func unitOfVariable(v *model.Variable, p Params) (units.Map, bool) {
	rv, ok := p.Variables[v.ID]
	if !ok || len(rv.Units) == 0 {
		return nil, false
	}
	return rv.Units[0], true
}

// reportLookup adapts Params to units.Lookup.
type reportLookup struct{ p Params }

func (l reportLookup) VariableUnit(varID string) (units.Map, bool) {
	v, ok := l.p.Variables[varID]
	if !ok || len(v.Units) == 0 {
		return nil, false
	}
	return v.Units[0], true
}

func (l reportLookup) TokenUnit(tokenID string) (units.Map, bool) {
	return l.p.TokenUnits.Load(tokenID)
}
