// Package spatial defines the external interface a broadphase index must
// satisfy, independent of its internal tree representation. It exists so
// that a static (rarely-changing) index and a dynamic index can be paired
// without either side knowing the other's concrete type.
package spatial

import "github.com/meiyunyang/chipmunk-physics/pkg/geom"

// HashValue is the identity tag associated with an object at insertion
// time. Callers typically derive it from an object's own id or pointer
// address; the index never interprets it beyond using it as part of a
// leaf's lookup key.
type HashValue uint32

// BBFunc computes the tight bounding box of obj. When a VelocityFunc is
// set, the index pads this box with it to produce the box actually
// stored on a leaf; without one, the tight box is stored as is.
type BBFunc func(obj any) geom.BB

// VelocityFunc estimates obj's current velocity, used to pad a leaf's
// cached bounding box so that small motions don't force a reinsertion.
// An index built without one treats every object as stationary.
type VelocityFunc func(obj any) geom.Vector

// QueryFunc is called once per candidate pair or point-query hit. data is
// the opaque value passed through from the originating call.
type QueryFunc func(a, b any, data any)

// SegmentQueryFunc is called once per object whose bounding box the
// segment crosses. obj is the querying object (nil for a bare point/ray
// query) and hit is the object whose box the segment entered.
//
// The traversal does not use tExit to prune the search — the original
// implementation this is ported from leaves that as a known TODO, and
// narrowing the search per-hit is out of scope here too. tExit is kept
// in the SegmentQuery signature only because the index still needs some
// way to accept a caller-supplied search distance at the API boundary.
type SegmentQueryFunc func(obj, hit any, data any)

// IteratorFunc is called once per object stored in the index, in
// unspecified order.
type IteratorFunc func(obj any, data any)

// Index is the behavior a broadphase spatial structure exposes to the
// rest of a physics pipeline. A dynamic tree (bbtree.Tree) and a
// seldom-changing static counterpart both implement it, so collision
// code can pair the two without a type switch.
type Index interface {
	// Destroy releases every node and pair the index has allocated and
	// drops its object references.
	Destroy()

	// Count returns the number of objects currently indexed.
	Count() int

	// Each calls iter once per indexed object.
	Each(iter IteratorFunc, data any)

	// Contains reports whether obj is present under hash.
	Contains(obj any, hash HashValue) bool

	// Insert adds obj under hash. Inserting an (obj, hash) pair that is
	// already present leaves the index unchanged.
	Insert(obj any, hash HashValue)

	// Remove drops obj (previously inserted under hash) from the index.
	Remove(obj any, hash HashValue)

	// Reindex recomputes every leaf's cached bounding box and, for
	// leaves that moved, re-derives their overlap pairs without
	// reporting them.
	Reindex()

	// ReindexObject recomputes a single leaf's cached bounding box and
	// re-derives its pairs, without touching the rest of the tree.
	ReindexObject(obj any, hash HashValue)

	// ReindexQuery recomputes every leaf as Reindex does, and also
	// reports every currently overlapping pair to fn: freshly found for
	// leaves that moved, replayed from the pair cache for leaves that
	// did not. Freshly found pairs are cached for later passes.
	ReindexQuery(fn QueryFunc, data any)

	// PointQuery reports every object whose bounding box contains point.
	PointQuery(point geom.Vector, fn QueryFunc, data any)

	// SegmentQuery reports every object whose bounding box the segment
	// a->b crosses, in traversal order. tExit does not limit the search.
	SegmentQuery(obj any, a, b geom.Vector, tExit float64, fn SegmentQueryFunc, data any)

	// Query reports every indexed object whose bounding box overlaps bb.
	Query(obj any, bb geom.BB, fn QueryFunc, data any)
}

// CollideStatic runs a query for every object in dyn against static,
// reporting overlapping pairs to fn. It is the fallback used when a
// dynamic index's static partner is some Index implementation other
// than a *bbtree.Tree — the tree's own ReindexQuery path short-circuits
// this by collaborating with a same-type partner directly, but an
// arbitrary Index pairing has to fall back to a query per object.
func CollideStatic(dyn, static Index, fn QueryFunc, data any) {
	if static.Count() == 0 {
		return
	}

	dyn.Each(func(obj any, _ any) {
		static.Query(obj, bbOf(dyn, obj), fn, data)
	}, nil)
}

// bbOf recovers the bounding box of obj as last indexed in dyn. Indexes
// that can report it implement boxer; for any other index the zero BB
// is returned.
func bbOf(dyn Index, obj any) geom.BB {
	if b, ok := dyn.(boxer); ok {
		return b.BBOf(obj)
	}
	return geom.BB{}
}

// boxer is implemented by indexes that can report an already-indexed
// object's current bounding box, such as bbtree.Tree (whose lookup scans
// every leaf).
type boxer interface {
	BBOf(obj any) geom.BB
}
