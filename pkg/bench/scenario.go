package bench

import (
	"math/rand"
	"time"

	"github.com/meiyunyang/chipmunk-physics/pkg/bbtree"
	"github.com/meiyunyang/chipmunk-physics/pkg/config"
	"github.com/meiyunyang/chipmunk-physics/pkg/geom"
	"github.com/meiyunyang/chipmunk-physics/pkg/spatial"
)

// Scenario wires a config.BenchConfig into a running pair of trees: a
// dynamic tree holding moving bodies and, when configured, a static
// partner tree holding fixed obstacles.
type Scenario struct {
	cfg *config.BenchConfig

	Bodies    []*Body
	Obstacles []*Body

	Dynamic *bbtree.Tree
	Static  *bbtree.Tree

	frame int
}

// NewScenario builds a Scenario, placing cfg.Bodies moving bodies and
// cfg.StaticObstacles fixed obstacles at random positions within
// cfg.World, and indexing all of them.
func NewScenario(cfg *config.BenchConfig, metrics *bbtree.Metrics, rng *rand.Rand) *Scenario {
	s := &Scenario{cfg: cfg}

	bbFunc := func(obj any) geom.BB { return obj.(*Body).BB() }
	velFunc := func(obj any) geom.Vector { return obj.(*Body).Velocity() }

	if cfg.StaticObstacles > 0 {
		s.Static = bbtree.New(bbFunc)
		s.Obstacles = make([]*Body, cfg.StaticObstacles)
		for i := range s.Obstacles {
			b := NewBody(randomPoint(rng, cfg.World), geom.Vector{}, cfg.HalfExtent)
			b.Static = true
			s.Obstacles[i] = b
			s.Static.Insert(b, hashOf(b))
		}
	}

	opts := []bbtree.TreeOption{bbtree.WithVelocityFunc(velFunc)}
	if metrics != nil {
		opts = append(opts, bbtree.WithMetrics(metrics))
	}
	if s.Static != nil {
		opts = append(opts, bbtree.WithStaticPartner(s.Static))
	}
	s.Dynamic = bbtree.New(bbFunc, opts...)

	s.Bodies = make([]*Body, cfg.Bodies)
	for i := range s.Bodies {
		pos := randomPoint(rng, cfg.World)
		vel := geom.Vector{
			X: (rng.Float64()*2 - 1) * cfg.VelocityJitter,
			Y: (rng.Float64()*2 - 1) * cfg.VelocityJitter,
		}
		b := NewBody(pos, vel, cfg.HalfExtent)
		s.Bodies[i] = b
		s.Dynamic.Insert(b, hashOf(b))
	}

	return s
}

func randomPoint(rng *rand.Rand, b config.Bounds) geom.Vector {
	return geom.Vector{
		X: b.MinX + rng.Float64()*(b.MaxX-b.MinX),
		Y: b.MinY + rng.Float64()*(b.MaxY-b.MinY),
	}
}

// hashOf derives a spatial.HashValue from a body's ksuid, truncated to
// 32 bits — the index only uses it to disambiguate same-object
// double-inserts, so collisions here are harmless.
func hashOf(b *Body) spatial.HashValue {
	id := b.ID.Bytes()
	var h uint32
	for _, c := range id {
		h = h*31 + uint32(c)
	}
	return spatial.HashValue(h)
}

// FrameStats summarizes one Step call.
type FrameStats struct {
	Frame    int
	Leaves   int
	Pairs    int
	Duration time.Duration
}

// Step integrates every body forward, reindexes the dynamic tree, and
// returns the frame's pair count and wall-clock duration. bounce at the
// world edge is handled by Body.Integrate.
func (s *Scenario) Step() FrameStats {
	for _, b := range s.Bodies {
		b.Integrate(s.cfg.World)
	}

	start := time.Now()
	pairs := 0
	s.Dynamic.ReindexQuery(func(any, any, any) { pairs++ }, nil)
	elapsed := time.Since(start)

	s.frame++
	return FrameStats{
		Frame:    s.frame,
		Leaves:   s.Dynamic.Count(),
		Pairs:    pairs,
		Duration: elapsed,
	}
}

// Run drives Frames steps (per the Scenario's config) and returns their
// stats in order.
func (s *Scenario) Run() []FrameStats {
	stats := make([]FrameStats, 0, s.cfg.Frames)
	for i := 0; i < s.cfg.Frames; i++ {
		stats = append(stats, s.Step())
	}
	return stats
}
