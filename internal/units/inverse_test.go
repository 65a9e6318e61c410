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

package units_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/units"
)

type fakeLookup map[string]units.Map

func (l fakeLookup) VariableUnit(varID string) (units.Map, bool) { u, ok := l[varID]; return u, ok }
func (l fakeLookup) TokenUnit(tokenID string) (units.Map, bool)  { u, ok := l[tokenID]; return u, ok }

// buildMul builds "a = x * y" as a token tree and returns the x token.
func buildMul() *model.Token {
	varX := &model.Variable{ID: "x", NameToken: &model.Token{Str: "x"}}
	varY := &model.Variable{ID: "y", NameToken: &model.Token{Str: "y"}}

	eq := &model.Token{Str: "="}
	lhs := &model.Token{Str: "a"}
	mul := &model.Token{Str: "*"}
	xTok := &model.Token{Str: "x", Variable: varX}
	yTok := &model.Token{Str: "y", Variable: varY}

	eq.AstOperand1, lhs.AstParent = lhs, eq
	eq.AstOperand2, mul.AstParent = mul, eq
	mul.AstOperand1, xTok.AstParent = xTok, mul
	mul.AstOperand2, yTok.AstParent = yTok, mul

	return xTok
}

func TestInverseUnitMultiply(t *testing.T) {
	t.Parallel()

	xTok := buildMul()
	lookup := fakeLookup{"y": units.Map{"s": exp(1)}}

	got := units.InverseUnit(units.Map{"m": exp(1)}, xTok, lookup)
	require.True(t, units.Equal(got, units.Map{"m": exp(1), "s": exp(1)}))
}

// buildDiv builds "a = x / y" and returns (xTok, yTok).
func buildDiv() (x, y *model.Token) {
	varX := &model.Variable{ID: "x", NameToken: &model.Token{Str: "x"}}
	varY := &model.Variable{ID: "y", NameToken: &model.Token{Str: "y"}}

	eq := &model.Token{Str: "="}
	lhs := &model.Token{Str: "a"}
	div := &model.Token{Str: "/"}
	xTok := &model.Token{Str: "x", Variable: varX}
	yTok := &model.Token{Str: "y", Variable: varY}

	eq.AstOperand1, lhs.AstParent = lhs, eq
	eq.AstOperand2, div.AstParent = div, eq
	div.AstOperand1, xTok.AstParent = xTok, div
	div.AstOperand2, yTok.AstParent = yTok, div

	return xTok, yTok
}

func TestInverseUnitDivide_Numerator(t *testing.T) {
	t.Parallel()

	xTok, _ := buildDiv()
	lookup := fakeLookup{"y": units.Map{"s": exp(1)}}

	// x is the numerator of x / y: the lhs unit is divided by y's unit.
	got := units.InverseUnit(units.Map{"m": exp(1)}, xTok, lookup)
	require.True(t, units.Equal(got, units.Map{"m": exp(1), "s": exp(-1)}))
}

func TestInverseUnitDivide_Denominator(t *testing.T) {
	t.Parallel()

	_, yTok := buildDiv()
	lookup := fakeLookup{"x": units.Map{"m": exp(1)}}

	// y is the denominator of x / y: the lhs unit is multiplied by x's unit.
	got := units.InverseUnit(units.Map{"s": exp(1)}, yTok, lookup)
	require.True(t, units.Equal(got, units.Map{"m": exp(1), "s": exp(1)}))
}

func TestInverseUnitSqrt(t *testing.T) {
	t.Parallel()

	sqrtName := &model.Token{Str: "sqrt"}
	paren := &model.Token{Str: "(", AstOperand1: sqrtName}
	sqrtName.AstParent = paren
	arg := &model.Token{Str: "x"}
	paren.AstOperand2 = arg
	arg.AstParent = paren

	got := units.InverseUnit(units.Map{"m": exp(2)}, arg, fakeLookup{})
	require.True(t, units.Equal(got, units.Map{"m": exp(4)}))
}
