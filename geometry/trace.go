package geometry

import (
	"math"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/pkg/errors"
)

// sectorEdges is the tracing view of one sector: the edges that bound it, in
// the sector's own order, and which of them loops have already claimed.
type sectorEdges struct {
	l        *Level
	sector   SectorID
	order    []EdgeID
	boundary map[EdgeID]bool
	consumed map[EdgeID]bool
}

func newSectorEdges(l *Level, sector SectorID) *sectorEdges {
	return &sectorEdges{
		l:        l,
		sector:   sector,
		boundary: map[EdgeID]bool{},
		consumed: map[EdgeID]bool{},
	}
}

func (se *sectorEdges) add(e EdgeID) {
	if se.boundary[e] {
		return
	}
	se.boundary[e] = true
	se.order = append(se.order, e)
}

func (se *sectorEdges) remaining() int {
	return len(se.order) - len(se.consumed)
}

func (se *sectorEdges) consume(edges []EdgeID) {
	for _, e := range edges {
		se.consumed[e] = true
	}
}

func (se *sectorEdges) usable(e EdgeID) bool {
	return se.boundary[e] && !se.consumed[e]
}

// usableAt is usable for an edge that really ends on v; a stale adjacency
// entry does not count.
func (se *sectorEdges) usableAt(e EdgeID, v VertexID) bool {
	if !se.usable(e) {
		return false
	}
	ev := se.l.Edges[e].Vertices
	return ev[0] == v || ev[1] == v
}

// rightmostVertex returns the rightmost (then topmost) vertex among the edges
// not consumed yet.
func (se *sectorEdges) rightmostVertex() VertexID {
	best := NoVertex
	for _, e := range se.order {
		if se.consumed[e] {
			continue
		}
		for _, v := range se.l.Edges[e].Vertices {
			if best == NoVertex || isFurtherRight(se.l, v, best) {
				best = v
			}
		}
	}
	return best
}

// edgesAt lists the unconsumed edges ending on v, found through the edges
// themselves rather than v's adjacency.
func (se *sectorEdges) edgesAt(v VertexID) []EdgeID {
	var res []EdgeID
	for _, e := range se.order {
		if se.consumed[e] {
			continue
		}
		if ev := se.l.Edges[e].Vertices; ev[0] == v || ev[1] == v {
			res = append(res, e)
		}
	}
	return res
}

// closestEdge returns the usable edge at v whose direction is the nearest to
// angle base, rotating clockwise or counterclockwise from it, or NoEdge when
// v's adjacency holds none.
func (se *sectorEdges) closestEdge(v VertexID, base float64, clockwise bool) EdgeID {
	best := NoEdge
	bestDiff := math.Inf(1)
	pv := se.l.Pos(v)
	for _, e := range se.l.Vertices[v].Edges {
		if !se.usableAt(e, v) {
			continue
		}
		a := common.Angle(pv, se.l.Pos(se.l.EdgeOtherVertex(e, v)))
		var diff float64
		if clockwise {
			diff = common.CwDiff(base, a)
		} else {
			diff = common.CcwDiff(base, a)
		}
		if diff < bestDiff || (diff == bestDiff && e < best) {
			best, bestDiff = e, diff
		}
	}
	return best
}

// sectorOnLeft reports whether the traced sector lies on the left of e when
// walking it away from v.
func (se *sectorEdges) sectorOnLeft(e EdgeID, v VertexID) bool {
	left, _ := se.l.EdgeSidesFrom(e, v)
	return left == se.sector
}

// trace walks one loop starting at start along first, always taking the
// tightest turn: the candidate with the smallest clockwise angle from the
// reverse of the incoming direction. That keeps the sector on the left, so
// outer loops come out counterclockwise and holes clockwise. It returns the
// loop's vertices and the edges it used, including on failure.
func (se *sectorEdges) trace(start VertexID, first EdgeID) ([]VertexID, []EdgeID, error) {
	l := se.l
	verts := []VertexID{start}
	used := []EdgeID{first}
	inLoop := map[EdgeID]bool{first: true}

	prev := start
	cur := l.EdgeOtherVertex(first, start)
	for {
		back := common.Angle(l.Pos(cur), l.Pos(prev))
		best := NoEdge
		bestDiff := math.Inf(1)
		for _, e := range l.Vertices[cur].Edges {
			if !se.usableAt(e, cur) {
				continue
			}
			if inLoop[e] && !(e == first && cur == start) {
				continue
			}
			next := l.EdgeOtherVertex(e, cur)
			if next == prev {
				continue
			}
			diff := common.CwDiff(back, common.Angle(l.Pos(cur), l.Pos(next)))
			if diff == 0 {
				diff = common.TwoPi
			}
			if diff < bestDiff || (diff == bestDiff && e < best) {
				best, bestDiff = e, diff
			}
		}

		if best == NoEdge {
			return verts, used, errors.Wrapf(TriangulationNotClosed,
				"sector %d: no edge continues the loop at vertex %d", se.sector, cur)
		}
		if best == first {
			return verts, used, nil
		}
		verts = append(verts, cur)
		used = append(used, best)
		inLoop[best] = true
		prev, cur = cur, l.EdgeOtherVertex(best, cur)
	}
}
