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

// Package scopetree builds and manipulates the tree of lexical scopes
// nested within a function.
package scopetree

import (
	"errors"

	"github.com/squaresLab/physfix/internal/model"
)

// ErrNotFound is returned by operations that look up a scope ID which is not
// present in the tree.
var ErrNotFound = errors.New("scopetree: scope not found")

// Node is one node of the scope tree. Unlike the dump format PhysFix reads
// (where an `Else` scope is reported as an ordinary sibling scope nested in
// the same parent as its `If`), Node folds a following Else scope directly
// into the If node's Else field during construction: scopes are never
// mutated, and the If/Else relationship is explicit instead of encoded via
// shared identity.
type Node struct {
	Scope    *model.Scope
	Children []*Node
	// Else holds the else-branch scope node when Scope.Type == ScopeIf and an
	// Else scope immediately follows it in the same parent. Nil otherwise.
	Else *Node
}

// Build constructs the scope tree rooted at the scope named rootID, out of
// the flat list of all scopes reported for the translation unit.
func Build(scopes []*model.Scope, rootID string) *Node {
	byParent := make(map[string][]*model.Scope)
	byID := make(map[string]*model.Scope, len(scopes))
	for _, s := range scopes {
		byID[s.ID] = s
		byParent[s.NestedInID] = append(byParent[s.NestedInID], s)
	}

	root, ok := byID[rootID]
	if !ok {
		return nil
	}
	return build(root, byParent)
}

func build(s *model.Scope, byParent map[string][]*model.Scope) *Node {
	node := &Node{Scope: s}

	children := byParent[s.ID]
	for i := 0; i < len(children); i++ {
		c := children[i]
		if c.Type == model.ScopeElse {
			// An Else scope is only ever consumed as part of its preceding
			// If; if none precedes it (malformed input) it is dropped.
			continue
		}

		childNode := build(c, byParent)
		if c.Type == model.ScopeIf && i+1 < len(children) && children[i+1].Type == model.ScopeElse {
			childNode.Else = build(children[i+1], byParent)
		}
		node.Children = append(node.Children, childNode)
	}

	return node
}

// FindByID returns the subtree rooted at the node with the given scope ID.
func (n *Node) FindByID(id string) (*Node, error) {
	if n == nil {
		return nil, ErrNotFound
	}
	if n.Scope.ID == id {
		return n, nil
	}
	for _, c := range n.Children {
		if found, err := c.FindByID(id); err == nil {
			return found, nil
		}
	}
	return nil, ErrNotFound
}

// RemoveByID removes the subtree rooted at the node with the given scope ID
// from n's children (recursively). It reports whether a node was removed.
func (n *Node) RemoveByID(id string) bool {
	if n == nil {
		return false
	}
	for i, c := range n.Children {
		if c.Scope.ID == id {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
		if c.RemoveByID(id) {
			return true
		}
	}
	return false
}

// Copy returns a structural deep copy of the subtree rooted at n. Each
// function must parse its own copy of the scope tree: parsing consumes
// children via pop-like traversal, so two functions must never share
// mutable tree state.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Scope: n.Scope}
	if n.Else != nil {
		cp.Else = n.Else.Copy()
	}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, c.Copy())
	}
	return cp
}

// PopFirst removes and returns the first child of n, or nil if n has no
// children. This is the primitive the AST builder (C3) uses to consume one
// scope per if/while/for/switch statement it encounters, in source order.
func (n *Node) PopFirst() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	first := n.Children[0]
	n.Children = n.Children[1:]
	return first
}
