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
	"github.com/google/uuid"

	"github.com/squaresLab/physfix/internal/model"
)

// newArithmeticToken returns a fresh, unparented "*" or "/" operator token.
func newArithmeticToken(op string) *model.Token {
	return &model.Token{ID: uuid.NewString(), Str: op}
}

// newVariableToken returns a fresh token occurrence of v, suitable for
// splicing into a synthesized expression tree.
func newVariableToken(v *model.Variable) *model.Token {
	return &model.Token{ID: uuid.NewString(), Str: v.Name(), Variable: v}
}

// copyToken returns a shallow copy of t — same identity fields and operand
// subtree, AstParent left for the caller to set — for relocating t itself
// into a synthesized tree without disturbing the original.
func copyToken(t *model.Token) *model.Token {
	cp := *t
	cp.AstParent = nil
	return &cp
}

// buildChangeTree synthesizes the replacement expression for token: token
// multiplied by each variable in mult, then divided by each variable in
// div, in that order, right-nesting chained divisions/multiplications
// (v1 * (v2 * (... * token)), token / (v1 / (v2 / ...))) — harmless for
// multiplication, where the unit algebra is associative, but worth calling
// out for division, where it is not; the shape is preserved rather than
// "corrected".
func buildChangeTree(token *model.Token, mult, div []*model.Variable) *model.Token {
	head := &model.Token{}
	cur := head

	for _, v := range mult {
		multTok := newArithmeticToken("*")
		multTok.AstParent = cur
		varTok := newVariableToken(v)
		varTok.AstParent = multTok
		multTok.AstOperand1 = varTok
		cur.AstOperand2 = multTok
		cur = multTok
	}

	if len(div) == 0 {
		leaf := copyToken(token)
		leaf.AstParent = cur
		cur.AstOperand2 = leaf
		root := head.AstOperand2
		root.AstParent = nil
		return root
	}

	n := len(div) + 1 // [token] + div
	get := func(idx int) *model.Token {
		if idx == 0 {
			return copyToken(token)
		}
		return newVariableToken(div[idx-1])
	}

	for idx := 0; idx < n; idx++ {
		divTok := newArithmeticToken("/")
		divTok.AstParent = cur

		v1 := get(idx)
		v1.AstParent = divTok
		divTok.AstOperand1 = v1

		if idx == n-2 {
			v2 := newVariableToken(div[idx])
			v2.AstParent = divTok
			divTok.AstOperand2 = v2
			cur.AstOperand2 = divTok
			break
		}

		cur.AstOperand2 = divTok
		cur = divTok
	}

	root := head.AstOperand2
	root.AstParent = nil
	return root
}
