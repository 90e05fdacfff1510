package bbtree

import (
	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
	"github.com/meiyunyang/chipmunk-physics/pkg/spatial"
)

// subtreeInsert walks down from subtree towards the cheapest leaf to
// split, following the surface-area-heuristic: at each internal node,
// grow whichever child's box would expand least to also contain leaf.
func subtreeInsert(subtree, leaf *node, pool *Pool[node]) *node {
	if subtree == nil {
		return leaf
	}
	if subtree.isLeaf() {
		return newInternal(pool, leaf, subtree)
	}

	costA := subtree.b.bb.Area() + geom.MergedArea(subtree.a.bb, leaf.bb)
	costB := subtree.a.bb.Area() + geom.MergedArea(subtree.b.bb, leaf.bb)

	if costB < costA {
		subtree.setB(subtreeInsert(subtree.b, leaf, pool))
	} else {
		subtree.setA(subtreeInsert(subtree.a, leaf, pool))
	}

	subtree.bb = geom.Merge(subtree.bb, leaf.bb)
	return subtree
}

// subtreeRemove detaches leaf from subtree, recycling the internal node
// that held it (or, when leaf's removal doesn't collapse a node at this
// level, repairing the grandparent link instead) and returns the new
// subtree root.
func subtreeRemove(subtree, leaf *node, pool *Pool[node]) *node {
	if leaf == subtree {
		return nil
	}

	parent := leaf.parent
	if parent == subtree {
		other := subtree.other(leaf)
		other.parent = subtree.parent
		pool.Recycle(subtree)
		return other
	}

	replaceChild(parent.parent, parent, parent.other(leaf), pool)
	return subtree
}

// subtreeRecycle returns every internal node (not leaves — those belong
// to the caller) under subtree back to pool.
func subtreeRecycle(subtree *node, pool *Pool[node]) {
	if !subtree.isLeaf() {
		subtreeRecycle(subtree.a, pool)
		subtreeRecycle(subtree.b, pool)
		pool.Recycle(subtree)
	}
}

// subtreeQuery reports every leaf under subtree whose box overlaps bb.
func subtreeQuery(subtree *node, obj any, bb geom.BB, fn spatial.QueryFunc, data any) {
	if !geom.Intersects(subtree.bb, bb) {
		return
	}

	if subtree.isLeaf() {
		fn(obj, subtree.obj, data)
	} else {
		subtreeQuery(subtree.a, obj, bb, fn, data)
		subtreeQuery(subtree.b, obj, bb, fn, data)
	}
}

// subtreeSegmentQuery reports every leaf under subtree whose box the
// segment a->b crosses. There is no early-exit on the ray parameter —
// every matching leaf under an intersected box is visited, matching the
// known limitation of the traversal this is ported from.
func subtreeSegmentQuery(subtree *node, obj any, a, b geom.Vector, fn spatial.SegmentQueryFunc, data any) {
	if !subtree.bb.IntersectsSegment(a, b) {
		return
	}

	if subtree.isLeaf() {
		fn(obj, subtree.obj, data)
	} else {
		subtreeSegmentQuery(subtree.a, obj, a, b, fn, data)
		subtreeSegmentQuery(subtree.b, obj, a, b, fn, data)
	}
}
