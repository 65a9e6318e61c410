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

package scopetree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/scopetree"
)

func TestBuildFoldsElseIntoIf(t *testing.T) {
	t.Parallel()

	scopes := []*model.Scope{
		{ID: "global", Type: "Global", NestedInID: ""},
		{ID: "fn", Type: model.ScopeFunction, NestedInID: "global"},
		{ID: "if1", Type: model.ScopeIf, NestedInID: "fn"},
		{ID: "else1", Type: model.ScopeElse, NestedInID: "fn"},
		{ID: "while1", Type: model.ScopeWhile, NestedInID: "fn"},
	}

	tree := scopetree.Build(scopes, "global")
	require.NotNil(t, tree)

	fn, err := tree.FindByID("fn")
	require.NoError(t, err)
	require.Len(t, fn.Children, 2, "else1 must be folded into if1, not left as a sibling child")
	require.Equal(t, "if1", fn.Children[0].Scope.ID)
	require.NotNil(t, fn.Children[0].Else)
	require.Equal(t, "else1", fn.Children[0].Else.Scope.ID)
	require.Equal(t, "while1", fn.Children[1].Scope.ID)
}

func TestBuildDropsOrphanElse(t *testing.T) {
	t.Parallel()

	scopes := []*model.Scope{
		{ID: "global", NestedInID: ""},
		{ID: "fn", Type: model.ScopeFunction, NestedInID: "global"},
		{ID: "else1", Type: model.ScopeElse, NestedInID: "fn"},
	}

	tree := scopetree.Build(scopes, "global")
	fn, err := tree.FindByID("fn")
	require.NoError(t, err)
	require.Empty(t, fn.Children)
}

func TestFindByIDNotFound(t *testing.T) {
	t.Parallel()

	scopes := []*model.Scope{{ID: "global", NestedInID: ""}}
	tree := scopetree.Build(scopes, "global")

	_, err := tree.FindByID("nope")
	require.ErrorIs(t, err, scopetree.ErrNotFound)
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	scopes := []*model.Scope{
		{ID: "global", NestedInID: ""},
		{ID: "a", NestedInID: "global"},
		{ID: "b", NestedInID: "global"},
	}
	tree := scopetree.Build(scopes, "global")

	cp := tree.Copy()
	cp.PopFirst()
	require.Len(t, cp.Children, 1, "popping from the copy must not affect the original")
	require.Len(t, tree.Children, 2)
}

func TestPopFirstEmpty(t *testing.T) {
	t.Parallel()

	n := &scopetree.Node{Scope: &model.Scope{ID: "leaf"}}
	require.Nil(t, n.PopFirst())
}

func TestRemoveByID(t *testing.T) {
	t.Parallel()

	scopes := []*model.Scope{
		{ID: "global", NestedInID: ""},
		{ID: "a", NestedInID: "global"},
		{ID: "b", NestedInID: "a"},
	}
	tree := scopetree.Build(scopes, "global")

	require.True(t, tree.RemoveByID("b"))
	a, err := tree.FindByID("a")
	require.NoError(t, err)
	require.Empty(t, a.Children)

	require.False(t, tree.RemoveByID("nonexistent"))
}
