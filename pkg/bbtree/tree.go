// Package bbtree implements a dynamic bounding-volume hierarchy over
// axis-aligned boxes: a self-balancing binary tree whose leaves track
// moving objects and whose internal nodes cache the merged box of their
// children, used to cheaply narrow an O(n^2) collision check down to
// the pairs whose boxes actually overlap.
package bbtree

import (
	"golang.org/x/exp/slices"

	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
	"github.com/meiyunyang/chipmunk-physics/pkg/spatial"
)

// Tree is a dynamic AABB tree satisfying spatial.Index. It is not safe
// for concurrent use: Insert, Remove, the Reindex methods, Optimize and
// Destroy mutate pool state, pair caches, the tree shape or the stamp
// counter, and callers needing concurrent access must serialize their
// own calls.
type Tree struct {
	bbFunc       spatial.BBFunc
	velocityFunc spatial.VelocityFunc
	staticIndex  spatial.Index
	dynamicIndex spatial.Index

	leaves   *leafIndex
	nodePool *Pool[node]
	pairPool *Pool[pair]

	root  *node
	stamp uint32

	metrics *Metrics
}

// TreeOption configures a Tree at construction time.
type TreeOption func(*Tree)

// WithVelocityFunc attaches the velocity estimator used to pad cached
// leaf boxes, amortizing reinsertion cost for slowly-moving objects. A
// Tree built without one treats every object as stationary — each
// Reindex compares the exact current box against the exact cached box.
func WithVelocityFunc(fn spatial.VelocityFunc) TreeOption {
	return func(t *Tree) { t.velocityFunc = fn }
}

// WithStaticPartner pairs this tree with a seldom-changing index (often
// another *Tree built over level geometry) that every dynamic leaf is
// also checked against during Insert, ReindexObject, and ReindexQuery.
func WithStaticPartner(idx spatial.Index) TreeOption {
	return func(t *Tree) { t.staticIndex = idx }
}

// WithDynamicPartner marks this tree as the *static* side of a pairing:
// idx is the dynamic tree this one is checked against. Pair this with a
// call to WithStaticPartner on idx itself; the two options are not
// reciprocal automatically, mirroring the source's separate staticIndex/
// dynamicIndex fields. A tree with a dynamic partner set skips its own
// static-partner check in leafAddPairs (the dynamic side owns discovery)
// and defers its stamp clock to the partner's (see getStamp/incrementStamp).
func WithDynamicPartner(idx spatial.Index) TreeOption {
	return func(t *Tree) { t.dynamicIndex = idx }
}

// WithMetrics attaches a Metrics recorder. Without one, the tree incurs
// no instrumentation overhead at all.
func WithMetrics(m *Metrics) TreeOption {
	return func(t *Tree) { t.metrics = m }
}

// WithSlabSize overrides the node/pair pool's slab size, in records per
// slab. Mostly useful for tests that want to exercise slab rollover
// without allocating thousands of objects.
func WithSlabSize(n int) TreeOption {
	return func(t *Tree) {
		t.nodePool = NewPool[node](n)
		t.pairPool = NewPool[pair](n)
	}
}

// New builds an empty Tree. bbFunc must return an object's exact,
// un-padded bounding box.
func New(bbFunc spatial.BBFunc, opts ...TreeOption) *Tree {
	t := &Tree{
		bbFunc:   bbFunc,
		leaves:   newLeafIndex(),
		nodePool: NewPool[node](0),
		pairPool: NewPool[pair](0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetVelocityFunc attaches or replaces the velocity estimator after
// construction.
func (t *Tree) SetVelocityFunc(fn spatial.VelocityFunc) {
	t.velocityFunc = fn
}

func (t *Tree) getBB(obj any) geom.BB {
	tight := t.bbFunc(obj)
	if t.velocityFunc != nil {
		return geom.Expand(tight, t.velocityFunc(obj))
	}
	return tight
}

func voidQueryFunc(any, any, any) {}

// getStamp returns the clock this tree's leaves are stamped against. A
// tree acting as someone's static partner (dynamicIndex set) has no
// clock of its own: its leaves are stamped, and replay-vs-fresh
// decisions made, against the dynamic partner's stamp instead, matching
// GetStamp in the source.
func (t *Tree) getStamp() uint32 {
	if dTree, ok := t.dynamicIndex.(*Tree); ok {
		return dTree.stamp
	}
	return t.stamp
}

// incrementStamp advances the clock getStamp reads, wherever that
// actually lives.
func (t *Tree) incrementStamp() {
	if dTree, ok := t.dynamicIndex.(*Tree); ok {
		dTree.stamp++
		return
	}
	t.stamp++
}

// leafAddPairs seeds leaf's pair cache immediately after insertion, so
// the next ReindexQuery doesn't have to discover a first-frame overlap
// the hard way. It has two mutually exclusive branches, matching
// LeafAddPairs in the source:
//
//   - If this tree is itself the static side of a pairing (dynamicIndex
//     set), register leaf against the dynamic partner's current leaves
//     unconditionally — the dynamic side owns emitting the pair later.
//     Nothing is registered when the partner is empty or is not a *Tree.
//   - Otherwise, run the full mark pass for leaf: against this tree's own
//     static partner (if any) and against the sibling subtrees on leaf's
//     path to the root, so overlaps within this tree are cached too.
func (t *Tree) leafAddPairs(leaf *node) {
	if t.dynamicIndex != nil {
		if dTree, ok := t.dynamicIndex.(*Tree); ok && dTree.root != nil {
			ctx := &markContext{pairPool: dTree.pairPool, fn: voidQueryFunc}
			markLeafQuery(dTree.root, leaf, true, ctx)
		}
		return
	}

	var staticRoot *node
	if sTree, ok := t.staticIndex.(*Tree); ok {
		staticRoot = sTree.root
	}
	ctx := &markContext{pairPool: t.pairPool, staticRoot: staticRoot, fn: voidQueryFunc}
	markLeaf(leaf, t.getStamp(), ctx)
}

func (t *Tree) leafUpdate(leaf *node) bool {
	bb := t.bbFunc(leaf.obj)
	if leaf.bb.Contains(bb) {
		return false
	}

	leaf.bb = t.getBB(leaf.obj)
	t.root = subtreeRemove(t.root, leaf, t.nodePool)
	t.root = subtreeInsert(t.root, leaf, t.nodePool)
	pairsClear(leaf, t.pairPool)
	leaf.stamp = t.getStamp()

	return true
}

// Insert adds obj under hash, updating the tree shape and seeding any
// overlaps obj already has against a static or dynamic partner. If
// (hash, obj) is already indexed, Insert is a no-op that leaves the
// existing leaf untouched — re-running the rest of this method against
// an already-parented leaf would insert it into the tree a second time.
func (t *Tree) Insert(obj any, hash spatial.HashValue) {
	minted := false
	leaf := t.leaves.insert(obj, hash, func() *node {
		minted = true
		n := t.nodePool.Obtain()
		n.obj = obj
		n.hash = hash
		n.bb = t.getBB(obj)
		n.parent = nil
		n.stamp = 0
		n.pairs = nil
		return n
	})
	if !minted {
		return
	}

	t.root = subtreeInsert(t.root, leaf, t.nodePool)

	leaf.stamp = t.getStamp()
	t.leafAddPairs(leaf)
	t.incrementStamp()

	if t.metrics != nil {
		t.metrics.ObserveInsert(t.leaves.count())
	}
}

// Remove drops obj, previously inserted under hash, from the tree. Only
// call this after confirming Contains(obj, hash); removing an object
// that isn't present is a caller error and is not guarded against.
func (t *Tree) Remove(obj any, hash spatial.HashValue) {
	leaf := t.leaves.find(obj, hash)

	t.leaves.remove(obj, hash)
	t.root = subtreeRemove(t.root, leaf, t.nodePool)
	pairsClear(leaf, t.pairPool)
	t.nodePool.Recycle(leaf)

	if t.metrics != nil {
		t.metrics.ObserveRemove(t.leaves.count())
	}
}

// Contains reports whether obj is indexed under hash.
func (t *Tree) Contains(obj any, hash spatial.HashValue) bool {
	return t.leaves.find(obj, hash) != nil
}

// Reindex recomputes every leaf's box and re-derives pairs silently,
// discarding overlap notifications. Equivalent to ReindexQuery with a
// no-op callback.
func (t *Tree) Reindex() {
	t.ReindexQuery(voidQueryFunc, nil)
}

// ReindexObject recomputes a single leaf's box. If it moved enough to
// leave its cached (padded) box, its pairs are re-derived against the
// rest of the tree and its static partner.
func (t *Tree) ReindexObject(obj any, hash spatial.HashValue) {
	leaf := t.leaves.find(obj, hash)
	if leaf == nil {
		return
	}

	if t.leafUpdate(leaf) {
		t.leafAddPairs(leaf)
	}
	t.incrementStamp()
}

// ReindexQuery recomputes every leaf's box, then reports every
// currently-overlapping pair to fn — either freshly discovered (for
// leaves that moved) or replayed from cache (for leaves that didn't).
func (t *Tree) ReindexQuery(fn spatial.QueryFunc, data any) {
	if t.root == nil {
		return
	}

	pairsSeen := 0
	if t.metrics != nil {
		countingFn := fn
		fn = func(a, b any, data any) {
			pairsSeen++
			countingFn(a, b, data)
		}
		defer t.metrics.timeReindex(&pairsSeen)()
	}

	// leafUpdate may replace t.root via subtreeInsert/subtreeRemove, so
	// every leaf is updated before any pair is derived against it.
	t.leaves.each(func(n *node) { t.leafUpdate(n) })

	var staticRoot *node
	staticIsTree := false
	if sTree, ok := t.staticIndex.(*Tree); ok {
		staticRoot = sTree.root
		staticIsTree = true
	}

	ctx := &markContext{pairPool: t.pairPool, staticRoot: staticRoot, fn: fn, data: data}
	markSubtree(t.root, t.getStamp(), ctx)

	if t.staticIndex != nil && !staticIsTree {
		spatial.CollideStatic(t, t.staticIndex, fn, data)
	}

	t.incrementStamp()
}

// PointQuery reports every object whose box contains point.
func (t *Tree) PointQuery(point geom.Vector, fn spatial.QueryFunc, data any) {
	if t.root == nil {
		return
	}
	subtreeQuery(t.root, point, geom.FromPoint(point), fn, data)
}

// SegmentQuery reports every object whose box the segment a->b crosses.
// tExit is accepted for interface parity but unused: the traversal
// visits every intersected box regardless of how far along the ray it
// is, matching the non-optimized behavior this is ported from.
func (t *Tree) SegmentQuery(obj any, a, b geom.Vector, tExit float64, fn spatial.SegmentQueryFunc, data any) {
	_ = tExit
	if t.root == nil {
		return
	}
	subtreeSegmentQuery(t.root, obj, a, b, fn, data)
}

// Query reports every indexed object whose box overlaps bb.
func (t *Tree) Query(obj any, bb geom.BB, fn spatial.QueryFunc, data any) {
	if t.root == nil {
		return
	}
	subtreeQuery(t.root, obj, bb, fn, data)
}

// Each calls iter once per indexed object, in hash-map order.
func (t *Tree) Each(iter spatial.IteratorFunc, data any) {
	t.leaves.each(func(n *node) { iter(n.obj, data) })
}

// Count returns the number of indexed objects.
func (t *Tree) Count() int {
	return t.leaves.count()
}

// Destroy releases every node and pair this tree ever allocated.
func (t *Tree) Destroy() {
	t.leaves.clear()
	t.nodePool.Destroy()
	t.pairPool.Destroy()
	t.root = nil
}

// BBOf returns obj's current cached box. It satisfies the optional
// boxer interface spatial.CollideStatic uses as a fallback when two
// unrelated Index implementations are paired; the lookup is O(n) in the
// number of indexed objects, which is acceptable only because that path
// is not exercised when both sides of a pairing are *Tree.
func (t *Tree) BBOf(obj any) geom.BB {
	var found geom.BB
	t.leaves.each(func(n *node) {
		if n.obj == obj {
			found = n.bb
		}
	})
	return found
}

// Optimize discards the tree's current shape and rebuilds it from
// scratch via repeated median-of-bounds partitioning, producing a more
// balanced tree than the one incremental Insert calls would have built.
// It does not change which objects are indexed or their boxes.
func (t *Tree) Optimize() {
	root := t.root
	if root == nil {
		return
	}
	if t.metrics != nil {
		t.metrics.ObserveOptimize()
	}

	count := t.leaves.count()
	nodes := make([]*node, 0, count)
	t.leaves.each(func(n *node) { nodes = append(nodes, n) })

	subtreeRecycle(root, t.nodePool)
	t.root = partitionNodes(nodes, t.nodePool)
}

// partitionNodes recursively splits nodes on the longest axis of their
// combined box, using the median of their per-axis bounds as the split
// point, and rebuilds a balanced subtree from the two halves.
func partitionNodes(nodes []*node, pool *Pool[node]) *node {
	count := len(nodes)
	if count == 1 {
		return nodes[0]
	}
	if count == 2 {
		return newInternal(pool, nodes[0], nodes[1])
	}

	bb := nodes[0].bb
	for _, n := range nodes[1:] {
		bb = geom.Merge(bb, n.bb)
	}

	splitWidth := bb.Width() > bb.Height()

	bounds := make([]float64, 2*count)
	for i, n := range nodes {
		if splitWidth {
			bounds[2*i], bounds[2*i+1] = n.bb.L, n.bb.R
		} else {
			bounds[2*i], bounds[2*i+1] = n.bb.B, n.bb.T
		}
	}
	slices.Sort(bounds)
	split := (bounds[count-1] + bounds[count]) * 0.5

	a, b := bb, bb
	if splitWidth {
		a.R, b.L = split, split
	} else {
		a.T, b.B = split, split
	}

	right := count
	for left := 0; left < right; {
		n := nodes[left]
		if geom.MergedArea(n.bb, b) < geom.MergedArea(n.bb, a) {
			right--
			nodes[left], nodes[right] = nodes[right], nodes[left]
		} else {
			left++
		}
	}

	if right == count {
		// Every node fell on the same side of the split: stop
		// recursing and fold them into a single chain instead of
		// looping forever.
		var built *node
		for _, n := range nodes {
			built = subtreeInsert(built, n, pool)
		}
		return built
	}

	return newInternal(pool,
		partitionNodes(nodes[:right], pool),
		partitionNodes(nodes[right:], pool),
	)
}
