package bbtree

import (
	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
	"github.com/meiyunyang/chipmunk-physics/pkg/spatial"
)

// markContext carries the state a marking pass threads through its
// recursion: the pool pairs get allocated from, an optional static
// partner's root to cross-check against, and the caller's callback.
type markContext struct {
	pairPool   *Pool[pair]
	staticRoot *node
	fn         spatial.QueryFunc
	data       any
}

// markLeafQuery finds every leaf under subtree overlapping leaf. When
// left is true, each overlap is only cached, with leaf on the pair's a
// side, and not reported: the other leaf reports it, either when it
// replays its cached pairs or during its own walk. When left is false
// (a static partner's root, or a sibling subtree to leaf's left during
// markLeaf's upward walk), each overlap is reported to ctx.fn, and
// cached only if the other leaf's stamp is older than leaf's, so a pair
// whose two leaves both moved this pass is not recorded twice.
func markLeafQuery(subtree, leaf *node, left bool, ctx *markContext) {
	if !geom.Intersects(leaf.bb, subtree.bb) {
		return
	}

	if subtree.isLeaf() {
		if left {
			pairInsert(leaf, subtree, ctx.pairPool)
		} else {
			if subtree.stamp < leaf.stamp {
				pairInsert(subtree, leaf, ctx.pairPool)
			}
			ctx.fn(leaf.obj, subtree.obj, ctx.data)
		}
		return
	}

	markLeafQuery(subtree.a, leaf, left, ctx)
	markLeafQuery(subtree.b, leaf, left, ctx)
}

// markLeaf either (a) re-derives leaf's pairs from scratch, if its stamp
// shows it moved this pass, by querying its static partner (if any) and
// walking back up the dynamic tree comparing against every sibling
// subtree it wasn't already compared against, or (b) replays its
// already-cached pairs, reporting each one to ctx.fn without touching
// the tree.
func markLeaf(leaf *node, stamp uint32, ctx *markContext) {
	if leaf.stamp == stamp {
		if ctx.staticRoot != nil {
			markLeafQuery(ctx.staticRoot, leaf, false, ctx)
		}

		for n := leaf; n.parent != nil; n = n.parent {
			if n == n.parent.a {
				markLeafQuery(n.parent.b, leaf, true, ctx)
			} else {
				markLeafQuery(n.parent.a, leaf, false, ctx)
			}
		}
		return
	}

	for p := leaf.pairs; p != nil; {
		if leaf == p.b.leaf {
			ctx.fn(p.a.leaf.obj, leaf.obj, ctx.data)
			p = p.b.next
		} else {
			p = p.a.next
		}
	}
}

// markSubtree walks every leaf under subtree through markLeaf.
func markSubtree(subtree *node, stamp uint32, ctx *markContext) {
	if subtree.isLeaf() {
		markLeaf(subtree, stamp, ctx)
	} else {
		markSubtree(subtree.a, stamp, ctx)
		markSubtree(subtree.b, stamp, ctx)
	}
}
