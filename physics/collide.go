package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// collide returns the contact normal pointing from a to b and the
// penetration depth. A negative depth is the gap between the shapes.
// ok is false for shape combinations the simulator does not handle.
func collide(a, b *body) (n mgl64.Vec2, pen float64, ok bool) {
	switch {
	case a.def.Shape == Circle && b.def.Shape == Circle:
		return circleCircle(a.pos, a.def.Radius, b.pos, b.def.Radius)
	case a.def.Shape == Circle && b.def.Shape == Rectangle:
		n, pen = rectCircle(b, a.pos, a.def.Radius)
		return n.Mul(-1), pen, true
	case a.def.Shape == Rectangle && b.def.Shape == Circle:
		n, pen = rectCircle(a, b.pos, b.def.Radius)
		return n, pen, true
	default:
		return mgl64.Vec2{}, 0, false
	}
}

func circleCircle(pa mgl64.Vec2, ra float64, pb mgl64.Vec2, rb float64) (mgl64.Vec2, float64, bool) {
	d := pb.Sub(pa)
	dist := d.Len()
	if dist < 1e-9 {
		// Coincident centers: separate sideways.
		return mgl64.Vec2{1, 0}, ra + rb, true
	}
	return d.Mul(1 / dist), ra + rb - dist, true
}

// rectCircle returns the normal from the rectangle toward the circle.
func rectCircle(rect *body, center mgl64.Vec2, radius float64) (mgl64.Vec2, float64) {
	hw, hh := rect.def.Width/2, rect.def.Height/2
	minX, maxX := rect.pos.X()-hw, rect.pos.X()+hw
	minY, maxY := rect.pos.Y()-hh, rect.pos.Y()+hh

	closest := mgl64.Vec2{
		math.Max(minX, math.Min(center.X(), maxX)),
		math.Max(minY, math.Min(center.Y(), maxY)),
	}

	d := center.Sub(closest)
	dist := d.Len()
	if dist > 1e-9 {
		return d.Mul(1 / dist), radius - dist
	}

	// Center inside the rectangle: push out through the nearest face.
	faces := []struct {
		n     mgl64.Vec2
		depth float64
	}{
		{mgl64.Vec2{-1, 0}, center.X() - minX},
		{mgl64.Vec2{1, 0}, maxX - center.X()},
		{mgl64.Vec2{0, -1}, center.Y() - minY},
		{mgl64.Vec2{0, 1}, maxY - center.Y()},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.depth < best.depth {
			best = f
		}
	}
	return best.n, radius + best.depth
}
