// Package bench drives synthetic broadphase workloads against
// pkg/bbtree for benchmarking and manual exercise, outside of any real
// physics integrator.
package bench

import (
	"github.com/segmentio/ksuid"

	"github.com/meiyunyang/chipmunk-physics/pkg/config"
	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
)

// Body is a single simulated object: a square of side 2*HalfExtent,
// moving in a straight line until it bounces off the world bounds.
type Body struct {
	ID         ksuid.KSUID
	Pos        geom.Vector
	Vel        geom.Vector
	HalfExtent float64
	Static     bool
}

// NewBody creates a Body with a freshly-generated identity.
func NewBody(pos, vel geom.Vector, halfExtent float64) *Body {
	return &Body{
		ID:         ksuid.New(),
		Pos:        pos,
		Vel:        vel,
		HalfExtent: halfExtent,
	}
}

// BB returns b's current tight bounding box, suitable as a
// spatial.BBFunc once bound to a *Body receiver.
func (b *Body) BB() geom.BB {
	return geom.New(
		b.Pos.X-b.HalfExtent, b.Pos.Y-b.HalfExtent,
		b.Pos.X+b.HalfExtent, b.Pos.Y+b.HalfExtent,
	)
}

// Velocity returns b's current velocity, suitable as a
// spatial.VelocityFunc once bound to a *Body receiver.
func (b *Body) Velocity() geom.Vector {
	return b.Vel
}

// Integrate advances b's position by one unit of simulated time, then
// reverses its velocity on each axis where its box now crosses an edge
// of bounds. Static bodies never move.
func (b *Body) Integrate(bounds config.Bounds) {
	if b.Static {
		return
	}

	b.Pos = b.Pos.Add(b.Vel)

	if b.Pos.X-b.HalfExtent < bounds.MinX || b.Pos.X+b.HalfExtent > bounds.MaxX {
		b.Vel.X = -b.Vel.X
	}
	if b.Pos.Y-b.HalfExtent < bounds.MinY || b.Pos.Y+b.HalfExtent > bounds.MaxY {
		b.Vel.Y = -b.Vel.Y
	}
}
