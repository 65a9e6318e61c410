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

// Package snapshot projects a run's per-function CFGs and dependency graphs
// into a plain, gob-encodable form for the CLI's --dump-state debugging
// flag. The live types (cfg.Node, depgraph.Node) are pointer-linked
// interface values wired into cyclic graphs, which gob cannot encode
// directly; Snapshot instead records each node by its dense integer index
// (cfg.FunctionCFG.NodeIndex / depgraph.Graph.NodeIndex) and represents
// edges as index pairs, the same flattening trick an inter-procedural
// analysis keeps for its otherwise-unencodable inference state.
package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/depgraph"
)

// Node is one CFG node, flattened to its index and edge indices.
type Node struct {
	Index        int
	Kind         string
	TokenID      string // set for Basic
	ConditionID  string // set for Conditional
	Successors   []int
	Predecessors []int
}

// DependencyNode is one dependency-graph node, flattened the same way.
type DependencyNode struct {
	Index        int
	CFGNodeIndex int
	VariableID   string
	VariableName string
	Next         []int
	Previous     []int
}

// Function is the flattened snapshot of one function's CFG and dependency
// graph.
type Function struct {
	Name            string
	Nodes           []Node
	DependencyNodes []DependencyNode
}

// Snapshot is the full debug dump for one pipeline run.
type Snapshot struct {
	Functions []Function
}

// BuildFunction flattens f and (if non-nil) its dependency graph g into a
// Function snapshot.
func BuildFunction(name string, f *cfg.FunctionCFG, g *depgraph.Graph) Function {
	index := f.NodeIndex()
	nodes := make([]Node, len(f.Nodes))
	for _, n := range f.Nodes {
		i := index[n]
		snap := Node{Index: i, Kind: n.Kind()}
		switch t := n.(type) {
		case *cfg.Basic:
			snap.TokenID = t.Token.ID
		case *cfg.Conditional:
			snap.ConditionID = t.Condition.ID
		}
		for _, s := range n.Successors() {
			snap.Successors = append(snap.Successors, index[s])
		}
		for _, p := range n.Predecessors() {
			snap.Predecessors = append(snap.Predecessors, index[p])
		}
		nodes[i] = snap
	}

	fn := Function{Name: name, Nodes: nodes}
	if g == nil {
		return fn
	}

	depIndex := g.NodeIndex()
	depNodes := make([]DependencyNode, len(g.Nodes))
	for _, d := range g.Nodes {
		i := depIndex[d]
		snap := DependencyNode{
			Index:        i,
			CFGNodeIndex: index[d.CFGNode],
			VariableID:   d.Variable.ID,
			VariableName: d.Variable.Name(),
		}
		for _, n := range d.Next() {
			snap.Next = append(snap.Next, depIndex[n])
		}
		for _, p := range d.Previous() {
			snap.Previous = append(snap.Previous, depIndex[p])
		}
		depNodes[i] = snap
	}
	fn.DependencyNodes = depNodes
	return fn
}

// Encode gob-encodes s, compressed with S2.
func Encode(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close s2 writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	r := s2.NewReader(bytes.NewReader(data))
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &s, nil
}
