package geometry

import (
	"github.com/pkg/errors"
)

// polygonSet is what the polygon builder learns about one sector.
type polygonSet struct {
	root *Polygon
	// Edges that ended up in closed loops.
	traced []EdgeID
	// Edges no loop could be made of.
	failed []EdgeID
}

// BuildPolygons traces every loop of the sector and arranges them in a tree
// under an empty root: outer shapes at the first level, their holes below
// them, islands inside holes below those. The error is the first problem met;
// tracing carries on past it so the set of failed edges is complete.
func BuildPolygons(l *Level, sector SectorID, opts Options) (*Polygon, error) {
	set, err := buildPolygons(l, sector, opts)
	return set.root, err
}

func buildPolygons(l *Level, sector SectorID, opts Options) (*polygonSet, error) {
	set := &polygonSet{root: &Polygon{}}
	sec := l.Sector(sector)
	if len(sec.Edges) == 0 {
		return set, errors.Wrapf(TriangulationInvalidArgs, "sector %d has no edges", sector)
	}

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	se := newSectorEdges(l, sector)
	for _, e := range sec.Edges {
		if !l.IsEdgeValid(e) {
			keep(errors.Wrapf(TriangulationLoneEdges, "sector %d lists dead edge %d", sector, e))
			continue
		}
		edge := &l.Edges[e]
		if !l.IsVertexValid(edge.Vertices[0]) || !l.IsVertexValid(edge.Vertices[1]) ||
			edge.Vertices[0] == edge.Vertices[1] {
			set.failed = append(set.failed, e)
			keep(errors.Wrapf(TriangulationLoneEdges, "sector %d: edge %d has unresolved vertices", sector, e))
			continue
		}
		side := l.EdgeSideOf(e, sector)
		if side < 0 {
			set.failed = append(set.failed, e)
			keep(errors.Wrapf(TriangulationLoneEdges, "sector %d: edge %d does not border it", sector, e))
			continue
		}
		if edge.Sectors[0] == edge.Sectors[1] {
			// Same sector on both sides: not a boundary.
			continue
		}
		se.add(e)
	}

	first := true
	for se.remaining() > 0 {
		v := se.rightmostVertex()

		// Nothing lies right of v, so the wedge just clockwise of due right is
		// outside the loop through v. If the sector fills that wedge the loop
		// is a hole and is walked clockwise along the edge bounding it.
		start := se.closestEdge(v, 0, false)
		if start == NoEdge {
			// v does not list the edges that end on it.
			dangling := se.edgesAt(v)
			se.consume(dangling)
			set.failed = append(set.failed, dangling...)
			keep(errors.Wrapf(TriangulationNotClosed,
				"sector %d: vertex %d does not list its edges %v", sector, v, dangling))
			continue
		}
		if !first {
			if cw := se.closestEdge(v, 0, true); se.sectorOnLeft(cw, v) {
				start = cw
			}
		}
		first = false

		verts, used, err := se.trace(v, start)
		se.consume(used)
		if err != nil {
			set.failed = append(set.failed, used...)
			keep(err)
			continue
		}
		set.traced = append(set.traced, used...)

		verts = CleanLoop(l, verts, opts.PositionEpsilon, opts.AngleEpsilon)
		if len(verts) < 3 {
			continue
		}
		set.root.InsertChild(l, &Polygon{Verts: verts})
	}
	return set, firstErr
}
