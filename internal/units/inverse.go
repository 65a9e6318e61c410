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

package units

import "github.com/squaresLab/physfix/internal/model"

// Lookup resolves the unit of an operand token: VariableUnit for a
// variable occurrence, TokenUnit for anything else (an intermediate
// expression or a literal, whose unit was already computed by the external
// unit checker and handed back in its token_units map).
type Lookup interface {
	VariableUnit(varID string) (Map, bool)
	TokenUnit(tokenID string) (Map, bool)
}

// InverseUnit walks from token t up through its AstParent chain to the
// statement root, transforming lhsUnit (the unit the statement's LHS
// requires) into the unit t itself must have for the statement to balance.
//
// The `/` case divides when t is the left (numerator) operand and
// multiplies when t is the right (denominator) operand, by the sibling's
// unit in both cases; the two operands are not interchangeable here.
func InverseUnit(lhsUnit Map, t *model.Token, lookup Lookup) Map {
	result := lhsUnit
	cur := t

	for cur.AstParent != nil {
		parent := cur.AstParent

		switch parent.Str {
		case "*":
			if u, ok := unitOf(otherOperand(parent, cur), lookup); ok {
				result = Multiply(result, u)
			}
		case "/":
			other := otherOperand(parent, cur)
			u, ok := unitOf(other, lookup)
			if ok {
				if cur == parent.AstOperand1 {
					result = Divide(result, u)
				} else {
					result = Multiply(result, u)
				}
			}
		case "(":
			if parent.AstOperand1 != nil && parent.AstOperand1.Str == "sqrt" {
				result = PowerInt(result, 2)
			}
		}

		cur = parent
	}

	return result
}

// otherOperand returns whichever of parent's two operands is not cur.
func otherOperand(parent, cur *model.Token) *model.Token {
	if parent.AstOperand1 == cur {
		return parent.AstOperand2
	}
	return parent.AstOperand1
}

func unitOf(t *model.Token, lookup Lookup) (Map, bool) {
	if t == nil {
		return nil, false
	}
	if t.IsVariable() {
		return lookup.VariableUnit(t.Variable.ID)
	}
	return lookup.TokenUnit(t.ID)
}
