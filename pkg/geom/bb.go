// Package geom provides the axis-aligned bounding box and vector
// arithmetic shared by the broadphase tree.
package geom

import "math"

// Vector is a 2D vector.
type Vector struct {
	X, Y float64
}

// Add returns the component-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

// BB is an axis-aligned bounding box: l <= r, b <= t.
type BB struct {
	L, B, R, T float64
}

// New builds a BB from its four edges.
func New(l, b, r, t float64) BB {
	return BB{L: l, B: b, R: r, T: t}
}

// FromPoint builds a degenerate BB containing exactly one point.
func FromPoint(p Vector) BB {
	return BB{L: p.X, B: p.Y, R: p.X, T: p.Y}
}

// Width returns r - l.
func (bb BB) Width() float64 { return bb.R - bb.L }

// Height returns t - b.
func (bb BB) Height() float64 { return bb.T - bb.B }

// Area returns the area of bb. Degenerate (point or line) boxes have
// area zero.
func (bb BB) Area() float64 {
	return bb.Width() * bb.Height()
}

// Merge returns the smallest BB containing both a and b.
func Merge(a, b BB) BB {
	return BB{
		L: math.Min(a.L, b.L),
		B: math.Min(a.B, b.B),
		R: math.Max(a.R, b.R),
		T: math.Max(a.T, b.T),
	}
}

// MergedArea returns Merge(a, b).Area() without constructing the
// intermediate BB — the hot path used by the insertion cost heuristic.
func MergedArea(a, b BB) float64 {
	return (math.Max(a.R, b.R) - math.Min(a.L, b.L)) * (math.Max(a.T, b.T) - math.Min(a.B, b.B))
}

// Contains reports whether bb fully contains other.
func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.B <= other.B && bb.T >= other.T
}

// Intersects reports whether a and b overlap (touching counts as
// overlap, matching cpBBIntersects).
func Intersects(a, b BB) bool {
	return a.L <= b.R && b.L <= a.R && a.B <= b.T && b.B <= a.T
}

// IntersectsSegment reports whether the segment a->b crosses bb.
//
// Ported directly from cpBBIntersectsSegment: no early-exit on a ray
// parameter is implemented, matching the upstream TODO (see
// subtreeSegmentQuery in pkg/bbtree/subtree.go).
func (bb BB) IntersectsSegment(a, b Vector) bool {
	return bbSegmentQuery(bb, a, b) <= 1.0
}

// bbSegmentQuery returns the segment parameter t in [0, 1] at which the
// segment a->b first enters bb, or infinity if it never does. This is
// the slab method used by the original cpBBTree.c.
func bbSegmentQuery(bb BB, a, b Vector) float64 {
	delta := Vector{b.X - a.X, b.Y - a.Y}
	tMin, tMax := 0.0, 1.0

	if !clipSegment(delta.X, a.X, bb.L, bb.R, &tMin, &tMax) {
		return math.Inf(1)
	}
	if !clipSegment(delta.Y, a.Y, bb.B, bb.T, &tMin, &tMax) {
		return math.Inf(1)
	}

	return tMin
}

func clipSegment(d, origin, lo, hi float64, tMin, tMax *float64) bool {
	if d == 0 {
		return origin >= lo && origin <= hi
	}

	t1 := (lo - origin) / d
	t2 := (hi - origin) / d
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	if t1 > *tMin {
		*tMin = t1
	}
	if t2 < *tMax {
		*tMax = t2
	}
	return *tMin <= *tMax
}
