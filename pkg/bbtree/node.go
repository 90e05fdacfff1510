package bbtree

import (
	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
	"github.com/meiyunyang/chipmunk-physics/pkg/spatial"
)

// node is both the internal and the leaf node of the tree. A node with a
// non-nil obj is a leaf: its stamp/hash/pairs fields are meaningful and
// a/b are unused. A node with a nil obj is internal: a/b are its two
// children and stamp/hash/pairs are unused. This mirrors the tagged
// union in the C source rather than splitting into two Go types behind
// an interface — see the design notes for why.
type node struct {
	obj any
	bb  geom.BB

	parent *node

	// internal-node fields
	a, b *node

	// leaf-node fields
	stamp uint32
	hash  spatial.HashValue
	pairs *pair
}

func (n *node) isLeaf() bool {
	return n.obj != nil
}

// other returns n's sibling, given one of its children.
func (n *node) other(child *node) *node {
	if n.a == child {
		return n.b
	}
	return n.a
}

func (n *node) setA(child *node) {
	n.a = child
	child.parent = n
}

func (n *node) setB(child *node) {
	n.b = child
	child.parent = n
}

// newInternal builds a fresh internal node over a and b, taken from
// pool, with bb the merge of its children's boxes.
func newInternal(pool *Pool[node], a, b *node) *node {
	n := pool.Obtain()
	n.obj = nil
	n.bb = geom.Merge(a.bb, b.bb)
	n.parent = nil
	n.setA(a)
	n.setB(b)
	return n
}

// replaceChild swaps child out of parent for value, recycling child, and
// propagates the merged bounding box up to the root.
func replaceChild(parent, child, value *node, pool *Pool[node]) {
	if parent.a == child {
		pool.Recycle(parent.a)
		parent.setA(value)
	} else {
		pool.Recycle(parent.b)
		parent.setB(value)
	}

	for n := parent; n != nil; n = n.parent {
		n.bb = geom.Merge(n.a.bb, n.b.bb)
	}
}
