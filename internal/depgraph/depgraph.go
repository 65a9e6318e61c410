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

// Package depgraph builds the pointwise variable-definition dependency
// graph: an edge from definition A to definition B means B's value depends
// on A's, because A's reaching definition of some variable is both used
// and not re-killed at B.
package depgraph

import (
	"sort"

	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/dataflow"
	"github.com/squaresLab/physfix/internal/model"
)

// Node is one vertex of the dependency graph: one variable, as defined at
// one CFG node.
type Node struct {
	CFGNode  cfg.Node
	Variable *model.Variable
	next     []*Node
	prev     []*Node
}

// Next returns the dependency nodes that depend on n.
func (n *Node) Next() []*Node { return n.next }

// Previous returns the dependency nodes n depends on.
func (n *Node) Previous() []*Node { return n.prev }

func link(from, to *Node) {
	from.next = append(from.next, to)
	to.prev = append(to.prev, from)
}

// Graph is the complete dependency graph for one function.
type Graph struct {
	CFG     *cfg.FunctionCFG
	Nodes   []*Node
	ReachIn map[cfg.Node][]*dataflow.ReachDef
	DefUse  map[cfg.Node]*dataflow.DefUsePair
}

type factKey struct {
	node     cfg.Node
	variable *model.Variable
}

// Build runs reaching-definitions dataflow over f (via the dataflow
// package) and constructs the resulting dependency graph.
func Build(f *cfg.FunctionCFG) *Graph {
	defUse := dataflow.DefUse(f)
	reachIn := dataflow.ReachIn(f, defUse)
	return BuildFromDataflow(f, defUse, reachIn)
}

// BuildFromDataflow constructs the dependency graph from already-computed
// def/use and reaching-definitions tables, letting callers reuse dataflow
// results across multiple consumers without recomputing them.
func BuildFromDataflow(f *cfg.FunctionCFG, defUse map[cfg.Node]*dataflow.DefUsePair, reachIn map[cfg.Node][]*dataflow.ReachDef) *Graph {
	relevant := make(map[cfg.Node][]*dataflow.ReachDef, len(f.Nodes))
	for _, n := range f.Nodes {
		pair := defUse[n]
		if len(pair.Define) == 0 {
			continue
		}
		var kept []*dataflow.ReachDef
		for _, r := range reachIn[n] {
			if containsVar(pair.Define, r.Variable) {
				continue // killed by this node's own definition
			}
			if !containsVar(pair.Use, r.Variable) {
				continue // reaches here but isn't read here
			}
			kept = append(kept, r)
		}
		relevant[n] = kept
	}

	var nodes []*Node
	byFact := make(map[factKey]*Node)
	for _, n := range f.Nodes {
		if _, ok := relevant[n]; !ok {
			continue
		}
		for _, v := range defUse[n].Define {
			dn := &Node{CFGNode: n, Variable: v}
			nodes = append(nodes, dn)
			byFact[factKey{n, v}] = dn
		}
	}

	for _, d := range nodes {
		for _, r := range relevant[d.CFGNode] {
			if prev, ok := byFact[factKey{r.DefNode, r.Variable}]; ok {
				link(prev, d)
			}
		}
	}

	return &Graph{CFG: f, Nodes: nodes, ReachIn: reachIn, DefUse: defUse}
}

func containsVar(vars []*model.Variable, v *model.Variable) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}

// NodeIndex assigns each dependency node a dense integer ID, grouped by its
// owning CFG node's own index and then sorted alphabetically by variable
// name within the group, favoring a deterministic diff over an arbitrary
// one.
func (g *Graph) NodeIndex() map[*Node]int {
	cfgIndex := g.CFG.NodeIndex()

	groups := make(map[int][]*Node)
	for _, n := range g.Nodes {
		id := cfgIndex[n.CFGNode]
		groups[id] = append(groups[id], n)
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Variable.Name() < group[j].Variable.Name()
		})
	}

	var ids []int
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make(map[*Node]int, len(g.Nodes))
	next := 0
	for _, id := range ids {
		for _, n := range groups[id] {
			out[n] = next
			next++
		}
	}
	return out
}

// ConnectedComponents partitions the graph's nodes into maximal sets
// connected via either Next or Previous edges (i.e. treating the graph as
// undirected for this purpose).
func (g *Graph) ConnectedComponents() [][]*Node {
	seen := make(map[*Node]bool, len(g.Nodes))
	var components [][]*Node

	for _, root := range g.Nodes {
		if seen[root] {
			continue
		}
		component := g.componentOf(root, seen)
		components = append(components, component)
	}
	return components
}

// componentOf returns the connected component containing n, marking every
// node visited in seen.
func (g *Graph) componentOf(n *Node, seen map[*Node]bool) []*Node {
	var component []*Node
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		component = append(component, cur)
		queue = append(queue, cur.next...)
		queue = append(queue, cur.prev...)
	}
	return component
}

// ComponentOf returns the connected component containing n, without
// mutating any shared visitation state (unlike ConnectedComponents, which
// partitions the whole graph in one pass).
func (g *Graph) ComponentOf(n *Node) []*Node {
	return g.componentOf(n, make(map[*Node]bool))
}
