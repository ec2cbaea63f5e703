package geometry

import (
	"math"
	"slices"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/pkg/errors"
)

// Doubled areas at or below this count as a straight line.
const areaEpsilon = 1e-9

func left(a, b, c common.Vec2) bool {
	return common.Area2(a, b, c) > areaEpsilon
}

func leftOn(a, b, c common.Vec2) bool {
	return common.Area2(a, b, c) >= -areaEpsilon
}

func collinear(a, b, c common.Vec2) bool {
	return math.Abs(common.Area2(a, b, c)) <= areaEpsilon
}

// between reports whether c lies on the closed segment ab.
func between(a, b, c common.Vec2) bool {
	if !collinear(a, b, c) {
		return false
	}
	if math.Abs(b.X()-a.X()) >= math.Abs(b.Y()-a.Y()) {
		return (a.X() <= c.X() && c.X() <= b.X()) || (a.X() >= c.X() && c.X() >= b.X())
	}
	return (a.Y() <= c.Y() && c.Y() <= b.Y()) || (a.Y() >= c.Y() && c.Y() >= b.Y())
}

// intersectProp reports whether ab and cd cross at a point interior to both.
func intersectProp(a, b, c, d common.Vec2) bool {
	if collinear(a, b, c) || collinear(a, b, d) || collinear(c, d, a) || collinear(c, d, b) {
		return false
	}
	return left(a, b, c) != left(a, b, d) && left(c, d, a) != left(c, d, b)
}

// intersect reports whether ab and cd share any point.
func intersect(a, b, c, d common.Vec2) bool {
	if intersectProp(a, b, c, d) {
		return true
	}
	return between(a, b, c) || between(a, b, d) || between(c, d, a) || between(c, d, b)
}

// overlapsFrom reports whether segments s-a and s-b leave s along the same
// line in the same direction.
func overlapsFrom(s, a, b common.Vec2) bool {
	return collinear(s, a, b) && a.Sub(s).Dot(b.Sub(s)) > 0
}

// earClipper triangulates one simple, counterclockwise polygon.
type earClipper struct {
	l    *Level
	ring []VertexID
	ear  []bool
}

// EarClip triangulates a simple counterclockwise polygon into len(verts)-2
// triangles. Bridged polygons, which repeat vertices, are accepted.
func EarClip(l *Level, verts []VertexID) ([]Triangle, error) {
	if len(verts) < 3 {
		return nil, errors.Wrapf(TriangulationInvalidArgs, "cannot triangulate %d vertices", len(verts))
	}
	c := &earClipper{l: l, ring: slices.Clone(verts), ear: make([]bool, len(verts))}
	return c.run()
}

func (c *earClipper) pos(i int) common.Vec2 {
	return c.l.Pos(c.ring[i])
}

// turn is the doubled signed area of the corner at i: positive when convex.
func (c *earClipper) turn(i int) float64 {
	n := len(c.ring)
	return common.Area2(c.pos(common.Prev(i, n)), c.pos(i), c.pos(common.Next(i, n)))
}

// inCone reports whether the segment from i to j leaves i on the inside of
// the polygon. The loose form lets the segment run along i's sides.
func (c *earClipper) inCone(i, j int, loose bool) bool {
	n := len(c.ring)
	pi, pj := c.pos(i), c.pos(j)
	prev, next := c.pos(common.Prev(i, n)), c.pos(common.Next(i, n))
	if leftOn(pi, next, prev) {
		if loose {
			return leftOn(pi, pj, prev) && leftOn(pj, pi, next)
		}
		return left(pi, pj, prev) && left(pj, pi, next)
	}
	return !(leftOn(pi, pj, next) && leftOn(pj, pi, prev))
}

// diagonalie reports whether the segment from i to j meets no side of the
// ring other than the sides at i and j. Sides that start at the same place as
// the segment (bridge duplicates) only block it when they run along it. The
// loose form only rejects proper crossings.
func (c *earClipper) diagonalie(i, j int, loose bool) bool {
	n := len(c.ring)
	d0, d1 := c.pos(i), c.pos(j)
	for k := 0; k < n; k++ {
		k1 := common.Next(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0, p1 := c.pos(k), c.pos(k1)
		if loose {
			if p0 == d0 || p0 == d1 || p1 == d0 || p1 == d1 {
				continue
			}
			if intersectProp(d0, d1, p0, p1) {
				return false
			}
			continue
		}
		switch {
		case (p0 == d0 || p0 == d1) && (p1 == d0 || p1 == d1):
		case p0 == d0:
			if overlapsFrom(d0, d1, p1) {
				return false
			}
		case p0 == d1:
			if overlapsFrom(d1, d0, p1) {
				return false
			}
		case p1 == d0:
			if overlapsFrom(d0, d1, p0) {
				return false
			}
		case p1 == d1:
			if overlapsFrom(d1, d0, p0) {
				return false
			}
		default:
			if intersect(d0, d1, p0, p1) {
				return false
			}
		}
	}
	return true
}

// isEar reports whether the corner at i is convex and its closing diagonal
// runs inside the ring without touching anything else.
func (c *earClipper) isEar(i int, loose bool) bool {
	if c.turn(i) <= areaEpsilon {
		return false
	}
	n := len(c.ring)
	ip, in := common.Prev(i, n), common.Next(i, n)
	if !c.inCone(ip, in, loose) || !c.inCone(in, ip, loose) || !c.diagonalie(ip, in, loose) {
		return false
	}
	if loose {
		return true
	}
	a, b, d := c.pos(ip), c.pos(i), c.pos(in)
	for j := 0; j < n; j++ {
		p := c.pos(j)
		if j == i || j == ip || j == in || p == a || p == b || p == d {
			continue
		}
		if common.PointStrictlyInTriangle(p, a, b, d, areaEpsilon) {
			return false
		}
	}
	return true
}

func (c *earClipper) refresh() {
	for i := range c.ring {
		c.ear[i] = c.isEar(i, false)
	}
}

// pick returns the ear with the shortest closing diagonal, or -1. Flags left
// over from earlier clips are checked again before being trusted.
func (c *earClipper) pick() int {
	for {
		best := c.shortest(func(i int) bool { return c.ear[i] })
		if best < 0 || c.isEar(best, false) {
			return best
		}
		c.ear[best] = false
	}
}

func (c *earClipper) shortest(ok func(i int) bool) int {
	n := len(c.ring)
	best := -1
	bestLen := 0.0
	for i := 0; i < n; i++ {
		if !ok(i) {
			continue
		}
		d := common.VdistSqr(c.pos(common.Prev(i, n)), c.pos(common.Next(i, n)))
		if best < 0 || d < bestLen {
			best, bestLen = i, d
		}
	}
	return best
}

// degenerate returns a corner with no area to clip, or -1.
func (c *earClipper) degenerate() int {
	for i := range c.ring {
		if t := c.turn(i); t <= areaEpsilon && t >= -areaEpsilon {
			return i
		}
	}
	return -1
}

func (c *earClipper) run() ([]Triangle, error) {
	tris := make([]Triangle, 0, len(c.ring)-2)
	c.refresh()
	for len(c.ring) > 3 {
		n := len(c.ring)
		i := c.pick()
		if i < 0 {
			c.refresh()
			i = c.pick()
		}
		if i < 0 {
			// Overlapping sides can hide every strict ear; accept diagonals
			// that graze them.
			i = c.shortest(func(i int) bool { return c.isEar(i, true) })
		}
		if i < 0 {
			// Straight corners clip to zero-area triangles; the count of
			// triangles stays at n-2.
			i = c.degenerate()
		}
		if i < 0 {
			return nil, errors.Wrapf(TriangulationNoEars, "no ears left with %d vertices remaining", n)
		}

		tris = append(tris, Triangle{c.ring[common.Prev(i, n)], c.ring[i], c.ring[common.Next(i, n)]})
		c.ring = slices.Delete(c.ring, i, i+1)
		c.ear = slices.Delete(c.ear, i, i+1)

		n--
		if i >= n {
			i = 0
		}
		ip := common.Prev(i, n)
		c.ear[ip] = c.isEar(ip, false)
		c.ear[i] = c.isEar(i, false)
	}
	if common.Area2(c.pos(0), c.pos(1), c.pos(2)) < -areaEpsilon {
		return nil, errors.Wrap(TriangulationNoEars, "last triangle is turned inside out")
	}
	tris = append(tris, Triangle{c.ring[0], c.ring[1], c.ring[2]})
	return tris, nil
}
