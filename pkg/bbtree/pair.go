package bbtree

// thread is one leaf's link in a pair's doubly-linked list. Each leaf
// keeps a doubly-linked list of the pairs it participates in (leaf.pairs
// -> pair.a or pair.b, whichever side names that leaf); thread.prev/next
// let a pair be unlinked from both its leaves' lists in O(1) without
// walking either list.
type thread struct {
	prev, next *pair
	leaf       *node
}

// pair cross-references two leaves whose bounding boxes last overlapped.
// Pairs are what let ReindexQuery skip re-deriving overlap from scratch
// for leaves that haven't moved: MarkLeaf just replays the cached list.
type pair struct {
	a, b thread
}

// threadUnlink removes t's pair from the list threaded through t.leaf,
// patching up whichever neighboring pair(s) pointed at it.
func threadUnlink(t thread) {
	next := t.next
	prev := t.prev

	if next != nil {
		if next.a.leaf == t.leaf {
			next.a.prev = prev
		} else {
			next.b.prev = prev
		}
	}

	if prev != nil {
		if prev.a.leaf == t.leaf {
			prev.a.next = next
		} else {
			prev.b.next = next
		}
	} else {
		t.leaf.pairs = next
	}
}

// pairsClear drops every pair referencing leaf, recycling each back to
// pool and unlinking it from the other leaf's list too.
func pairsClear(leaf *node, pool *Pool[pair]) {
	p := leaf.pairs
	leaf.pairs = nil

	for p != nil {
		if p.a.leaf == leaf {
			next := p.a.next
			threadUnlink(p.b)
			pool.Recycle(p)
			p = next
		} else {
			next := p.b.next
			threadUnlink(p.a)
			pool.Recycle(p)
			p = next
		}
	}
}

// pairInsert records that a and b overlapped this pass, prepending a
// fresh pair to both leaves' lists.
func pairInsert(a, b *node, pool *Pool[pair]) {
	nextA, nextB := a.pairs, b.pairs

	p := pool.Obtain()
	p.a = thread{prev: nil, leaf: a, next: nextA}
	p.b = thread{prev: nil, leaf: b, next: nextB}
	a.pairs = p
	b.pairs = p

	if nextA != nil {
		if nextA.a.leaf == a {
			nextA.a.prev = p
		} else {
			nextA.b.prev = p
		}
	}

	if nextB != nil {
		if nextB.a.leaf == b {
			nextB.a.prev = p
		} else {
			nextB.b.prev = p
		}
	}
}
