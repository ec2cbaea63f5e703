package geometry

import (
	"github.com/Espyo/Pikifen-sub020/common"
)

// Polygon is one closed loop of vertices. Children are the loops nested
// directly inside it: holes of an outer polygon, islands of a hole. A polygon
// without vertices is the root of a tree.
type Polygon struct {
	Verts    []VertexID
	Children []*Polygon
}

func (p *Polygon) IsRoot() bool {
	return len(p.Verts) == 0
}

func (p *Polygon) Points(l *Level) []common.Vec2 {
	pts := make([]common.Vec2, len(p.Verts))
	for i, v := range p.Verts {
		pts[i] = l.Pos(v)
	}
	return pts
}

// SignedArea is positive for counterclockwise loops.
func (p *Polygon) SignedArea(l *Level) float64 {
	return common.SignedArea(p.Points(l))
}

func (p *Polygon) IsClockwise(l *Level) bool {
	return p.SignedArea(l) < 0
}

func (p *Polygon) ContainsPoint(l *Level, pt common.Vec2) bool {
	return common.PointInPoly(p.Points(l), pt)
}

// Rightmost returns the index of the rightmost vertex, the topmost among
// equals, then the lowest handle.
func (p *Polygon) Rightmost(l *Level) int {
	return rightmostIndex(l, p.Verts)
}

func rightmostIndex(l *Level, verts []VertexID) int {
	best := -1
	for i, v := range verts {
		if best < 0 || isFurtherRight(l, v, verts[best]) {
			best = i
		}
	}
	return best
}

func isFurtherRight(l *Level, a, b VertexID) bool {
	pa, pb := l.Pos(a), l.Pos(b)
	if pa.X() != pb.X() {
		return pa.X() > pb.X()
	}
	if pa.Y() != pb.Y() {
		return pa.Y() > pb.Y()
	}
	return a < b
}

// samplePoint picks a point of p suited to test whether p lies inside other:
// a vertex other does not use, or failing that the middle of p's first side.
func (p *Polygon) samplePoint(l *Level, other *Polygon) common.Vec2 {
	used := make(map[VertexID]bool, len(other.Verts))
	for _, v := range other.Verts {
		used[v] = true
	}
	for _, v := range p.Verts {
		if !used[v] {
			return l.Pos(v)
		}
	}
	a, b := l.Pos(p.Verts[0]), l.Pos(p.Verts[1%len(p.Verts)])
	return a.Add(b).Mul(0.5)
}

// InsertChild places child in the tree: inside the first child that contains
// it, recursively, or directly under p.
func (p *Polygon) InsertChild(l *Level, child *Polygon) {
	for _, c := range p.Children {
		if c.ContainsPoint(l, child.samplePoint(l, c)) {
			c.InsertChild(l, child)
			return
		}
	}
	p.Children = append(p.Children, child)
}

// Depth-first visit of every polygon below p, with its depth (children of
// the root are at depth 0).
func (p *Polygon) Walk(fn func(poly *Polygon, depth int)) {
	var walk func(q *Polygon, depth int)
	walk = func(q *Polygon, depth int) {
		for _, c := range q.Children {
			fn(c, depth)
			walk(c, depth+1)
		}
	}
	walk(p, 0)
}
