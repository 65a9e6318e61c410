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

package cfg

import (
	"fmt"

	"github.com/squaresLab/physfix/internal/cparse"
	"github.com/squaresLab/physfix/internal/model"
)

// frame is one entry of the call-tree stack threaded through Build: it
// records what kind of construct ("function" or "while") control is
// currently nested inside, and where a break/continue/return inside it
// should jump to. If frames are pushed too (so nested ifs show up on the
// stack), but break/continue specifically only ever target the nearest
// enclosing "while" frame, never an "if" — matching C's own scoping rules
// for those keywords.
type frame struct {
	kind  string // "function", "while", or "if"
	start Node
	exit  Node
}

// Build lowers fn's desugared statement body into a FunctionCFG.
func Build(fn *cparse.FunctionDecl) (*FunctionCFG, error) {
	entry := &Entry{Function: fn}
	exit := &Exit{Function: fn}
	f := &FunctionCFG{Function: fn, Entry: entry, Exit: exit}
	f.Nodes = append(f.Nodes, entry)

	bodyStart, err := convertStatements(fn.Body, []frame{{kind: "function", start: entry, exit: exit}}, f)
	if err != nil {
		return nil, fmt.Errorf("cfg: function %s: %w", fn.Name, err)
	}
	connect(entry, bodyStart)

	f.Nodes = append(f.Nodes, exit)
	return f, nil
}

// convertStatements lowers one statement list into a CFG fragment and
// returns the fragment's entry node. callTree is the stack of enclosing
// function/while (and if, pushed but never targeted by break/continue)
// frames, used to resolve break/continue/return targets.
//
// Rather than thread "the first node created" through every branch of the
// statement loop by hand, a throwaway Empty sentinel node is wired as the
// predecessor of whatever node is created first, and whenever a
// break/continue/return forces an early return, the sentinel's one
// successor (freshly detached from it) is what gets handed back up.
func convertStatements(statements []cparse.Statement, callTree []frame, f *FunctionCFG) (Node, error) {
	sentinel := &Empty{}
	var cur Node = sentinel

	for _, stmt := range statements {
		switch s := stmt.(type) {
		case cparse.Block:
			basic := &Basic{Token: s.Root}
			f.Nodes = append(f.Nodes, basic)
			connect(cur, basic)
			cur = basic

			if kind, ok := model.ContainsJump(s.Root); ok {
				switch kind {
				case "break":
					target := lastFrame(callTree, "while")
					if target == nil {
						panic("cfg: break with no enclosing loop")
					}
					connect(cur, target.exit)
					return detachSentinel(sentinel), nil
				case "continue":
					target := lastFrame(callTree, "while")
					if target == nil {
						panic("cfg: continue with no enclosing loop")
					}
					connect(cur, target.start)
					return detachSentinel(sentinel), nil
				case "return":
					if len(callTree) == 0 || callTree[0].kind != "function" {
						panic("cfg: return outside a function")
					}
					connect(cur, callTree[0].exit)
					return detachSentinel(sentinel), nil
				}
			}

		case cparse.If:
			cond := &Conditional{Condition: s.Cond}
			f.Nodes = append(f.Nodes, cond)
			connect(cur, cond)
			join := &Join{}

			branchFrame := frame{kind: "if", start: cond, exit: join}
			trueStart, err := convertStatements(s.True, append(callTree, branchFrame), f)
			if err != nil {
				return nil, err
			}
			falseStart, err := convertStatements(s.False, append(callTree, branchFrame), f)
			if err != nil {
				return nil, err
			}

			cond.True = trueStart
			connect(cond, trueStart)
			cond.False = falseStart
			connect(cond, falseStart)

			trueEnd := lastReachable(trueStart)
			if trueEnd != nil {
				connect(trueEnd, join)
			}
			falseEnd := lastReachable(falseStart)
			if falseEnd != nil {
				connect(falseEnd, join)
			}
			if trueEnd != nil || falseEnd != nil {
				f.Nodes = append(f.Nodes, join)
			}
			cur = join

		case cparse.While:
			cond := &Conditional{Condition: s.Cond}
			f.Nodes = append(f.Nodes, cond)
			connect(cur, cond)
			join := &Join{}

			loopFrame := frame{kind: "while", start: cond, exit: join}
			bodyStart, err := convertStatements(s.Body, append(callTree, loopFrame), f)
			if err != nil {
				return nil, err
			}
			falseBranch := &Empty{}
			f.Nodes = append(f.Nodes, falseBranch)

			cond.True = bodyStart
			connect(cond, bodyStart)
			cond.False = falseBranch
			connect(cond, falseBranch)

			if bodyEnd := lastReachable(bodyStart); bodyEnd != nil {
				connect(bodyEnd, cond)
			}
			connect(falseBranch, join)
			f.Nodes = append(f.Nodes, join)
			cur = join

		default:
			panic(fmt.Sprintf("cfg: unsupported statement kind %T", stmt))
		}
	}

	if len(callTree) == 1 && callTree[0].kind == "function" {
		if len(cur.Predecessors()) > 0 {
			connect(cur, callTree[0].exit)
		}
	}

	if len(sentinel.Successors()) > 0 {
		return detachSentinel(sentinel), nil
	}

	empty := &Empty{}
	f.Nodes = append(f.Nodes, empty)
	return empty, nil
}

// lastFrame returns the innermost enclosing frame of the given kind, or nil
// if none is on the stack.
func lastFrame(callTree []frame, kind string) *frame {
	for i := len(callTree) - 1; i >= 0; i-- {
		if callTree[i].kind == kind {
			return &callTree[i]
		}
	}
	return nil
}

// detachSentinel removes the sentinel's single successor's back-reference
// to the sentinel and returns that successor. Called once convertStatements
// has decided its fragment's real entry node is already determined (either
// by an early break/continue/return, or by falling through the whole
// statement list).
func detachSentinel(sentinel *Empty) Node {
	start := sentinel.Successors()[0]
	start.removePredecessor(sentinel)
	return start
}

// lastReachable finds the node a branch's straight-line execution ends at,
// so the caller can wire it into a join block. It returns nil when every
// path through the branch already terminates elsewhere (a break, continue,
// return, or the function exit block), since such a branch must not flow
// into the join at all.
func lastReachable(start Node) Node {
	visited := make(map[Node]bool)
	var walk func(n Node) Node
	walk = func(n Node) Node {
		if visited[n] {
			return nil
		}
		visited[n] = true

		if b, ok := n.(*Basic); ok {
			if _, jump := model.ContainsJump(b.Token); jump {
				return nil
			}
		}
		if _, ok := n.(*Exit); ok {
			return nil
		}

		succ := n.Successors()
		if len(succ) == 0 {
			return n
		}
		for _, next := range succ {
			if res := walk(next); res != nil {
				return res
			}
		}
		return nil
	}
	return walk(start)
}
