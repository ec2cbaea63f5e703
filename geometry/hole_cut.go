package geometry

import (
	"math"
	"slices"
	"sort"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/pkg/errors"
)

// CutHoles turns the polygon tree under root into simple polygons, one per
// outer shape, with every hole joined to its outer loop by a zero-width
// bridge. Islands inside holes are queued and cut as outer shapes of their
// own.
func CutHoles(l *Level, root *Polygon, eps float64) ([]*Polygon, error) {
	work := common.NewStack[*Polygon]()
	for i := len(root.Children) - 1; i >= 0; i-- {
		work.Push(root.Children[i])
	}

	var res []*Polygon
	for !work.Empty() {
		outer := work.Pop()
		verts := slices.Clone(outer.Verts)

		holes := slices.Clone(outer.Children)
		sort.SliceStable(holes, func(i, j int) bool {
			a := holes[i].Verts[holes[i].Rightmost(l)]
			b := holes[j].Verts[holes[j].Rightmost(l)]
			return isFurtherRight(l, a, b)
		})

		var islands []*Polygon
		for _, hole := range holes {
			var err error
			verts, err = bridgeHole(l, verts, hole.Verts, eps)
			if err != nil {
				return nil, err
			}
			islands = append(islands, hole.Children...)
		}
		for i := len(islands) - 1; i >= 0; i-- {
			work.Push(islands[i])
		}
		res = append(res, &Polygon{Verts: verts})
	}
	return res, nil
}

// Angles from the bridge anchor closer than this are a tie.
const angleTie = 1e-12

// bridgeHole splices hole into outer and returns the new outer sequence.
//
// A ray is cast right from the hole's rightmost vertex M. The closest thing
// it meets is either an outer vertex level with M, which is used directly,
// or an outer edge at I. In the latter case the bridge goes to P, the
// rightmost end of that edge, unless outer vertices sit inside triangle M-I-P
// or on its sides; then the one at the smallest angle from the ray is used,
// the nearest on a tie, so the bridge never runs through another vertex.
func bridgeHole(l *Level, outer, hole []VertexID, eps float64) ([]VertexID, error) {
	hi := rightmostIndex(l, hole)
	m := hole[hi]
	mp := l.Pos(m)

	maxX := math.Inf(-1)
	for _, v := range outer {
		maxX = max(maxX, l.Pos(v).X())
	}

	const (
		hitNone = iota
		hitVertex
		hitEdge
	)
	kind := hitNone
	bestDist := math.Inf(1)
	hitIdx := -1
	var edgeA, edgeB int
	var ix float64

	n := len(outer)
	for i := 0; i < n; i++ {
		p := l.Pos(outer[i])
		if math.Abs(p.Y()-mp.Y()) <= eps {
			if d := p.X() - mp.X(); d >= -eps && d < bestDist {
				kind, bestDist, hitIdx = hitVertex, d, i
			}
		}

		j := common.Next(i, n)
		q := l.Pos(outer[j])
		// Only edges going up can be met first from inside the sector.
		if !(p.Y() < mp.Y()-eps && q.Y() > mp.Y()+eps) {
			continue
		}
		x := p.X() + (mp.Y()-p.Y())*(q.X()-p.X())/(q.Y()-p.Y())
		if x < mp.X()-eps || x > maxX+eps {
			continue
		}
		if d := x - mp.X(); d < bestDist {
			kind, bestDist = hitEdge, d
			edgeA, edgeB, ix = i, j, x
		}
	}

	var target VertexID
	switch kind {
	case hitNone:
		return nil, errors.Wrapf(TriangulationNoEars,
			"hole at vertex %d does not lie inside its outer polygon", m)
	case hitVertex:
		target = outer[hitIdx]
	case hitEdge:
		pi := edgeA
		if l.Pos(outer[edgeB]).X() > l.Pos(outer[edgeA]).X() {
			pi = edgeB
		}
		target = outer[pi]
		ip := common.Vec2{ix, mp.Y()}
		pp := l.Pos(target)

		bestAngle := math.Inf(1)
		bestD := math.Inf(1)
		for _, v := range outer {
			if v == target || v == m {
				continue
			}
			vp := l.Pos(v)
			if !common.PointOnOrInTriangle(vp, mp, ip, pp, areaEpsilon) {
				continue
			}
			a := math.Abs(math.Atan2(vp.Y()-mp.Y(), vp.X()-mp.X()))
			d := common.VdistSqr(mp, vp)
			if a < bestAngle-angleTie || (a <= bestAngle+angleTie && d < bestD) {
				target, bestAngle, bestD = v, a, d
			}
		}
	}

	at := bridgeOccurrence(l, outer, target, mp)

	rot := make([]VertexID, 0, len(hole)+2)
	rot = append(rot, hole[hi:]...)
	rot = append(rot, hole[:hi]...)
	var splice []VertexID
	if target == m {
		splice = append(rot[1:], m)
	} else {
		splice = append(rot, m, target)
	}
	return slices.Insert(outer, at+1, splice...), nil
}

// bridgeOccurrence picks, among the places v appears in the sequence, the one
// whose interior wedge contains pt. A vertex appears several times once other
// holes were bridged to it; choosing the right wedge keeps bridges in angular
// order so none of them cross.
func bridgeOccurrence(l *Level, verts []VertexID, v VertexID, pt common.Vec2) int {
	n := len(verts)
	first := -1
	vp := l.Pos(v)
	dir := common.Angle(vp, pt)
	for i, u := range verts {
		if u != v {
			continue
		}
		if first < 0 {
			first = i
		}
		from := common.Angle(vp, l.Pos(verts[common.Next(i, n)]))
		to := common.Angle(vp, l.Pos(verts[common.Prev(i, n)]))
		wedge := common.CcwDiff(from, to)
		if wedge == 0 {
			wedge = common.TwoPi
		}
		if d := common.CcwDiff(from, dir); d > 0 && d < wedge {
			return i
		}
	}
	return first
}
