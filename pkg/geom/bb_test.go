package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeAndArea(t *testing.T) {
	a := New(0, 0, 10, 10)
	b := New(5, 5, 15, 15)

	m := Merge(a, b)
	require.Equal(t, New(0, 0, 15, 15), m)
	require.Equal(t, 225.0, m.Area())
	require.Equal(t, MergedArea(a, b), m.Area())
}

func TestContains(t *testing.T) {
	outer := New(0, 0, 10, 10)
	inner := New(1, 1, 9, 9)

	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))
	require.True(t, outer.Contains(outer))
}

func TestIntersects(t *testing.T) {
	a := New(0, 0, 10, 10)
	b := New(5, 5, 15, 15)
	c := New(20, 20, 30, 30)

	require.True(t, Intersects(a, b))
	require.False(t, Intersects(a, c))
	// touching edges count as intersecting
	require.True(t, Intersects(a, New(10, 0, 20, 10)))
}

func TestIntersectsSegment(t *testing.T) {
	bb := New(0, 0, 10, 10)

	require.True(t, bb.IntersectsSegment(Vector{-5, 5}, Vector{5, 5}))
	require.False(t, bb.IntersectsSegment(Vector{-5, 20}, Vector{20, 20}))
	require.True(t, bb.IntersectsSegment(Vector{5, 5}, Vector{5, 5}))
}

func TestExpandNoVelocity(t *testing.T) {
	tight := New(0, 0, 10, 10)
	// x = y = 1 from the size padding alone
	require.Equal(t, New(-1, -1, 11, 11), Expand(tight, Vector{}))
}

func TestExpandWithVelocity(t *testing.T) {
	tight := New(0, 0, 10, 10)
	expanded := Expand(tight, Vector{10, 0})

	// x coef = width*0.1 = 1; v' = (1, 0)
	require.Equal(t, -1.0, expanded.L)
	require.Equal(t, 11.0, expanded.R)
	require.Equal(t, -1.0, expanded.B)
	require.Equal(t, 11.0, expanded.T)
}

func TestExpandNegativeVelocity(t *testing.T) {
	tight := New(0, 0, 10, 10)
	expanded := Expand(tight, Vector{-10, 0})

	require.Equal(t, -1.0, expanded.L)
	require.Equal(t, 11.0, expanded.R)
}

func TestBBSegmentQueryParallel(t *testing.T) {
	bb := New(0, 0, 10, 10)
	// vertical segment fully inside the x-slab but outside y-slab
	require.False(t, bb.IntersectsSegment(Vector{5, 20}, Vector{5, 30}))
	require.Equal(t, math.Inf(1), bbSegmentQuery(bb, Vector{5, 20}, Vector{5, 30}))
}
