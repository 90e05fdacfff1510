package geom

import "math"

// velocityCoef is the fraction of an object's own width/height, and of
// its estimated per-step displacement, folded into the cached leaf bbox
// so that small motions don't force a reinsertion. Matches the 0.1
// constant in the original cpBBTree.c GetBB.
const velocityCoef = 0.1

// Expand inflates the tight bbox tight by a fraction of its own size and
// by a scaled velocity estimate, producing the bbox a leaf caches
// between reindex passes. A zero velocity still pads each side by a
// tenth of the box's own width/height.
func Expand(tight BB, velocity Vector) BB {
	x := tight.Width() * velocityCoef
	y := tight.Height() * velocityCoef
	v := velocity.Scale(velocityCoef)

	return BB{
		L: tight.L + math.Min(-x, v.X),
		B: tight.B + math.Min(-y, v.Y),
		R: tight.R + math.Max(x, v.X),
		T: tight.T + math.Max(y, v.Y),
	}
}
