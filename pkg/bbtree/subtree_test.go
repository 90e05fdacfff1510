package bbtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
)

func leafFor(obj any, bb geom.BB) *node {
	return &node{obj: obj, bb: bb}
}

func TestSubtreeInsertAndQuery(t *testing.T) {
	pool := NewPool[node](8)

	var root *node
	a := leafFor("a", geom.New(0, 0, 1, 1))
	b := leafFor("b", geom.New(5, 5, 6, 6))
	c := leafFor("c", geom.New(0.5, 0.5, 1.5, 1.5))

	root = subtreeInsert(root, a, pool)
	root = subtreeInsert(root, b, pool)
	root = subtreeInsert(root, c, pool)

	require.False(t, root.isLeaf())
	require.Equal(t, 3, countLeaves(root))

	var hits []any
	subtreeQuery(root, nil, geom.New(0.2, 0.2, 0.8, 0.8), func(_, obj any, _ any) {
		hits = append(hits, obj)
	}, nil)
	require.ElementsMatch(t, []any{"a", "c"}, hits)
}

func TestSubtreeRemoveCollapsesParent(t *testing.T) {
	pool := NewPool[node](8)

	var root *node
	a := leafFor("a", geom.New(0, 0, 1, 1))
	b := leafFor("b", geom.New(5, 5, 6, 6))

	root = subtreeInsert(root, a, pool)
	root = subtreeInsert(root, b, pool)
	require.False(t, root.isLeaf())

	root = subtreeRemove(root, a, pool)
	require.True(t, root.isLeaf())
	require.Equal(t, "b", root.obj)
}

func TestSubtreeRemoveRootLeaf(t *testing.T) {
	pool := NewPool[node](8)
	a := leafFor("a", geom.New(0, 0, 1, 1))

	root := subtreeInsert(nil, a, pool)
	root = subtreeRemove(root, a, pool)
	require.Nil(t, root)
}

func TestSubtreeSegmentQuery(t *testing.T) {
	pool := NewPool[node](8)

	var root *node
	a := leafFor("a", geom.New(0, 0, 1, 1))
	b := leafFor("b", geom.New(10, 10, 11, 11))
	root = subtreeInsert(root, a, pool)
	root = subtreeInsert(root, b, pool)

	var hits []any
	subtreeSegmentQuery(root, nil, geom.Vector{X: -5, Y: 0.5}, geom.Vector{X: 5, Y: 0.5}, func(_, hit any, _ any) {
		hits = append(hits, hit)
	}, nil)
	require.Equal(t, []any{"a"}, hits)
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return 1
	}
	return countLeaves(n.a) + countLeaves(n.b)
}
