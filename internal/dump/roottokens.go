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

package dump

import "github.com/squaresLab/physfix/internal/model"

// RootTokens returns, in source order, the root token of every statement
// lying between start and end: walking the lexical stream from start to
// end, each token's outermost AstParent (or the token itself, if it has
// none) is a statement root, deduplicated by first occurrence. This carves
// a function's body into the flat list of statement roots internal/cparse
// consumes.
func RootTokens(start, end *model.Token) []*model.Token {
	var roots []*model.Token
	seen := make(map[*model.Token]bool)

	for cur := start; cur != nil && cur != end; cur = cur.Next {
		root := cur
		for root.AstParent != nil {
			root = root.AstParent
		}
		if seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
	}

	return roots
}
