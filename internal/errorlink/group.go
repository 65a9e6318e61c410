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

package errorlink

import "github.com/squaresLab/physfix/internal/depgraph"

// byDependencyNode indexes errs by the dependency node they are bound to.
// *depgraph.Node pointers are already unique per graph, so the node
// pointer alone is a sufficient key.
func byDependencyNode(errs []*Error) map[*depgraph.Node][]*Error {
	out := make(map[*depgraph.Node][]*Error)
	for _, e := range errs {
		if e.DependencyNode == nil {
			continue
		}
		out[e.DependencyNode] = append(out[e.DependencyNode], e)
	}
	return out
}

// ConnectedErrors groups errs into maximal sets connected through the
// dependency graph (following both Next and Previous edges), so that a fix
// to one error in a group can be evaluated against the others it shares a
// data dependency with.
func ConnectedErrors(errs []*Error) [][]*Error {
	byNode := byDependencyNode(errs)
	seen := make(map[*depgraph.Node]bool, len(byNode))

	var groups [][]*Error
	for _, e := range errs {
		if e.DependencyNode == nil || seen[e.DependencyNode] {
			continue
		}

		var group []*Error
		stack := []*depgraph.Node{e.DependencyNode}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				continue
			}
			seen[cur] = true
			group = append(group, byNode[cur]...)
			stack = append(stack, cur.Next()...)
			stack = append(stack, cur.Previous()...)
		}
		groups = append(groups, group)
	}
	return groups
}

// RootOf elects the representative "root" error of a connected group of
// errors, by walking backward (toward defining predecessors) from the
// first error's dependency node. A node with more than one bound error
// prefers any error whose type is not VARIABLE_MULTIPLE_UNITS over one
// that is; a cycle in the backward walk falls back to the group's first
// error arbitrarily.
func RootOf(group []*Error) *Error {
	if len(group) == 0 {
		return nil
	}
	byNode := byDependencyNode(group)
	seen := make(map[*depgraph.Node]bool)

	var root *Error
	stack := []*depgraph.Node{group[0].DependencyNode}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[cur] {
			root = group[0]
			break
		}

		if atNode, ok := byNode[cur]; ok {
			root = electAt(atNode)
		}

		seen[cur] = true
		stack = append(stack, cur.Previous()...)
	}
	return root
}

// electAt picks the representative error among those bound to a single
// dependency node.
func electAt(errs []*Error) *Error {
	var winner *Error
	for _, e := range errs {
		switch {
		case winner == nil:
			winner = e
		case e.ErrorType != "VARIABLE_MULTIPLE_UNITS":
			winner = e
		}
	}
	return winner
}
