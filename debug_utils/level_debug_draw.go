package debug_utils

import (
	"github.com/Espyo/Pikifen-sub020/geometry"
)

var (
	colFailedEdge = DuRGBA(220, 32, 32, 255)
	colLoneEdge   = DuRGBA(255, 140, 0, 255)
	colWall       = DuRGBA(0, 48, 64, 220)
	colInterior   = DuLerpCol(colWall, DuRGBA(255, 255, 255, 64), 160)
	colVertex     = DuDarkenCol(colWall)
)

func SectorCol(id geometry.SectorID) Colorb {
	return DuIntToCol(int(id)+1, 160)
}

// DuDebugDrawLevel draws every triangulated sector filled with its own color,
// the edges of the level, and the vertices. Edges of failed sectors and lone
// edges are highlighted when problems is given.
func DuDebugDrawLevel(dd DuDebugDraw, l *geometry.Level, problems *geometry.GeometryProblems) {
	if dd == nil {
		return
	}

	dd.Begin(DU_DRAW_TRIS)
	for _, id := range l.SectorIDs() {
		col := SectorCol(id)
		for _, t := range l.Sector(id).Triangles {
			for _, v := range t {
				dd.Vertex(l.Pos(v), col)
			}
		}
	}
	dd.End()

	failed := map[geometry.SectorID]bool{}
	if problems != nil {
		for s := range problems.NonSimpleSectors {
			failed[s] = true
		}
	}

	dd.Begin(DU_DRAW_LINES, 1.5)
	for i := range l.Edges {
		e := geometry.EdgeID(i)
		if !l.IsEdgeValid(e) || !edgeDrawable(l, e) {
			continue
		}
		col := colWall
		if l.IsInterior(e) {
			col = colInterior
		}
		for _, s := range l.Edges[e].Sectors {
			if failed[s] {
				col = colFailedEdge
			}
		}
		for _, v := range l.Edges[e].Vertices {
			dd.Vertex(l.Pos(v), col)
		}
	}
	dd.End()

	if problems != nil && len(problems.LoneEdges) > 0 {
		dd.Begin(DU_DRAW_LINES, 3)
		for _, e := range problems.SortedLoneEdges() {
			if !l.IsEdgeValid(e) || !edgeDrawable(l, e) {
				continue
			}
			for _, v := range l.Edges[e].Vertices {
				dd.Vertex(l.Pos(v), colLoneEdge)
			}
		}
		dd.End()
	}

	dd.Begin(DU_DRAW_POINTS, 3)
	for i := range l.Vertices {
		v := geometry.VertexID(i)
		if l.IsVertexValid(v) {
			dd.Vertex(l.Pos(v), colVertex)
		}
	}
	dd.End()
}

func edgeDrawable(l *geometry.Level, e geometry.EdgeID) bool {
	for _, v := range l.Edges[e].Vertices {
		if !l.IsVertexValid(v) {
			return false
		}
	}
	return true
}
