package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/Espyo/Pikifen-sub020/common"
)

func assertTrue(t *testing.T, value bool, msg string) {
	if !value {
		t.Errorf(msg)
	}
}

func pt(x, y float64) common.Vec2 {
	return common.Vec2{x, y}
}

// vert returns the vertex at p, creating it if needed.
func vert(l *Level, p common.Vec2) VertexID {
	for i := range l.Vertices {
		if l.IsVertexValid(VertexID(i)) && l.Vertices[i].Pos == p {
			return VertexID(i)
		}
	}
	return l.AddVertex(p.X(), p.Y())
}

// side puts s on the left of a->b, creating the edge if no edge joins a and b.
func side(l *Level, a, b common.Vec2, s SectorID) EdgeID {
	va, vb := vert(l, a), vert(l, b)
	for _, e := range l.Vertices[va].Edges {
		ev := l.Edges[e].Vertices
		if ev[0] == va && ev[1] == vb {
			l.SetEdgeSector(e, 0, s)
			return e
		}
		if ev[0] == vb && ev[1] == va {
			l.SetEdgeSector(e, 1, s)
			return e
		}
	}
	e := l.AddEdge(va, vb)
	l.SetEdgeSector(e, 0, s)
	return e
}

// loop adds a closed loop with s on its left: counterclockwise points for an
// outer boundary, clockwise for a hole.
func loop(l *Level, s SectorID, pts ...common.Vec2) []EdgeID {
	var res []EdgeID
	for i := range pts {
		res = append(res, side(l, pts[i], pts[(i+1)%len(pts)], s))
	}
	return res
}

func square(l *Level, s SectorID, x0, y0, x1, y1 float64) []EdgeID {
	return loop(l, s, pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1))
}

func squareHole(l *Level, s SectorID, x0, y0, x1, y1 float64) []EdgeID {
	return loop(l, s, pt(x0, y0), pt(x0, y1), pt(x1, y1), pt(x1, y0))
}

func trianglesArea(l *Level, tris []Triangle) float64 {
	sum := 0.0
	for _, t := range tris {
		sum += common.Area2(l.Pos(t[0]), l.Pos(t[1]), l.Pos(t[2])) / 2
	}
	return sum
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newTestTriangulator() *Triangulator {
	return NewTriangulator(DefaultOptions(), nil)
}

func describe(tris []Triangle) string {
	return fmt.Sprintf("%v", tris)
}
