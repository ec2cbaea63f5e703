package geometry

import (
	"image/color"
	"slices"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

type VertexID int32
type EdgeID int32
type SectorID int32

const (
	NoVertex VertexID = -1
	NoEdge   EdgeID   = -1
	NoSector SectorID = -1
)

// Vertex is a point of the floor plan. Edges is the adjacency set of the
// edges that end on it.
type Vertex struct {
	Pos   common.Vec2
	Edges []EdgeID

	free bool
}

// Edge joins two vertices. Sectors[0] lies on the left when walking from
// Vertices[0] to Vertices[1], Sectors[1] on the right. NoSector on a side
// means the void.
type Edge struct {
	Vertices [2]VertexID
	Sectors  [2]SectorID

	// Render-only attributes, carried untouched through triangulation.
	WallShadowLength     float64
	WallShadowColor      color.NRGBA
	LedgeSmoothingLength float64
	LedgeSmoothingColor  color.NRGBA

	free bool
}

// Triangle holds three vertices in counterclockwise order.
type Triangle [3]VertexID

type Sector struct {
	Edges      []EdgeID
	Z          float64
	Brightness uint8
	Texture    string

	// Triangulation output.
	Triangles   []Triangle
	BBox        r2.Rect
	SurfaceArea float64

	free bool
}

// Level owns every vertex, edge and sector of a floor plan. Everything else
// refers to them by handle.
type Level struct {
	Vertices []Vertex
	Edges    []Edge
	Sectors  []Sector
}

func NewLevel() *Level {
	return &Level{}
}

func (l *Level) IsVertexValid(id VertexID) bool {
	return id >= 0 && int(id) < len(l.Vertices) && !l.Vertices[id].free
}

func (l *Level) IsEdgeValid(id EdgeID) bool {
	return id >= 0 && int(id) < len(l.Edges) && !l.Edges[id].free
}

func (l *Level) IsSectorValid(id SectorID) bool {
	return id >= 0 && int(id) < len(l.Sectors) && !l.Sectors[id].free
}

func (l *Level) Vertex(id VertexID) *Vertex {
	common.AssertTrue(l.IsVertexValid(id), "invalid vertex ", id)
	return &l.Vertices[id]
}

func (l *Level) Edge(id EdgeID) *Edge {
	common.AssertTrue(l.IsEdgeValid(id), "invalid edge ", id)
	return &l.Edges[id]
}

func (l *Level) Sector(id SectorID) *Sector {
	common.AssertTrue(l.IsSectorValid(id), "invalid sector ", id)
	return &l.Sectors[id]
}

func (l *Level) Pos(id VertexID) common.Vec2 {
	return l.Vertices[id].Pos
}

func (l *Level) AddVertex(x, y float64) VertexID {
	l.Vertices = append(l.Vertices, Vertex{Pos: common.Vec2{x, y}})
	return VertexID(len(l.Vertices) - 1)
}

// AddEdge creates an edge between v0 and v1 with the void on both sides.
// Either vertex may be NoVertex and set later with SetEdgeVertex.
func (l *Level) AddEdge(v0, v1 VertexID) EdgeID {
	id := EdgeID(len(l.Edges))
	l.Edges = append(l.Edges, Edge{
		Vertices: [2]VertexID{NoVertex, NoVertex},
		Sectors:  [2]SectorID{NoSector, NoSector},
	})
	l.SetEdgeVertex(id, 0, v0)
	l.SetEdgeVertex(id, 1, v1)
	return id
}

func (l *Level) AddSector() SectorID {
	l.Sectors = append(l.Sectors, Sector{BBox: r2.EmptyRect()})
	return SectorID(len(l.Sectors) - 1)
}

// SetEdgeVertex points one end of an edge at v, keeping the adjacency sets of
// the old and new vertex in sync.
func (l *Level) SetEdgeVertex(e EdgeID, end int, v VertexID) {
	edge := l.Edge(e)
	old := edge.Vertices[end]
	if old == v {
		return
	}
	edge.Vertices[end] = v
	if old != NoVertex && edge.Vertices[1-end] != old {
		l.detachVertexEdge(old, e)
	}
	if v != NoVertex {
		vert := l.Vertex(v)
		if !slices.Contains(vert.Edges, e) {
			vert.Edges = append(vert.Edges, e)
		}
	}
}

// SetEdgeSector sets the sector on one side of an edge, keeping the edge lists
// of the old and new sector in sync.
func (l *Level) SetEdgeSector(e EdgeID, side int, s SectorID) {
	edge := l.Edge(e)
	old := edge.Sectors[side]
	if old == s {
		return
	}
	edge.Sectors[side] = s
	if old != NoSector && edge.Sectors[1-side] != old {
		l.detachSectorEdge(old, e)
	}
	if s != NoSector {
		sec := l.Sector(s)
		if !slices.Contains(sec.Edges, e) {
			sec.Edges = append(sec.Edges, e)
		}
	}
}

func (l *Level) detachVertexEdge(v VertexID, e EdgeID) {
	if !l.IsVertexValid(v) {
		return
	}
	vert := &l.Vertices[v]
	if i := slices.Index(vert.Edges, e); i >= 0 {
		vert.Edges = slices.Delete(vert.Edges, i, i+1)
	}
}

func (l *Level) detachSectorEdge(s SectorID, e EdgeID) {
	if !l.IsSectorValid(s) {
		return
	}
	sec := &l.Sectors[s]
	if i := slices.Index(sec.Edges, e); i >= 0 {
		sec.Edges = slices.Delete(sec.Edges, i, i+1)
	}
}

// RemoveEdge unlinks the edge from its vertices and sectors and frees its slot.
func (l *Level) RemoveEdge(e EdgeID) {
	edge := l.Edge(e)
	for end := 0; end < 2; end++ {
		l.detachVertexEdge(edge.Vertices[end], e)
		edge.Vertices[end] = NoVertex
	}
	for side := 0; side < 2; side++ {
		l.detachSectorEdge(edge.Sectors[side], e)
		edge.Sectors[side] = NoSector
	}
	edge.free = true
}

// RemoveVertex frees an orphaned vertex. Vertices still used by edges stay.
func (l *Level) RemoveVertex(v VertexID) error {
	vert := l.Vertex(v)
	if len(vert.Edges) > 0 {
		return errors.Errorf("vertex %d is still used by %d edge(s)", v, len(vert.Edges))
	}
	vert.free = true
	return nil
}

// RemoveSector frees a sector; every edge side that referenced it becomes void.
func (l *Level) RemoveSector(s SectorID) {
	sec := l.Sector(s)
	for _, e := range slices.Clone(sec.Edges) {
		if !l.IsEdgeValid(e) {
			continue
		}
		edge := &l.Edges[e]
		for side := 0; side < 2; side++ {
			if edge.Sectors[side] == s {
				edge.Sectors[side] = NoSector
			}
		}
	}
	*sec = Sector{free: true}
}

// EdgeOtherVertex returns the end of e that is not v.
func (l *Level) EdgeOtherVertex(e EdgeID, v VertexID) VertexID {
	edge := &l.Edges[e]
	if edge.Vertices[0] == v {
		return edge.Vertices[1]
	}
	return edge.Vertices[0]
}

// EdgeSideOf returns which side of e holds s, or -1.
func (l *Level) EdgeSideOf(e EdgeID, s SectorID) int {
	edge := &l.Edges[e]
	if edge.Sectors[0] == s {
		return 0
	}
	if edge.Sectors[1] == s {
		return 1
	}
	return -1
}

// EdgeSidesFrom returns the sectors to the left and right of e when walking it
// away from v.
func (l *Level) EdgeSidesFrom(e EdgeID, v VertexID) (left, right SectorID) {
	edge := &l.Edges[e]
	if edge.Vertices[0] == v {
		return edge.Sectors[0], edge.Sectors[1]
	}
	return edge.Sectors[1], edge.Sectors[0]
}

// IsInterior reports whether the edge separates two different sectors.
func (l *Level) IsInterior(e EdgeID) bool {
	s := l.Edges[e].Sectors
	return s[0] != NoSector && s[1] != NoSector && s[0] != s[1]
}

// IsLone reports whether no sector references the edge at all.
func (l *Level) IsLone(e EdgeID) bool {
	s := l.Edges[e].Sectors
	return s[0] == NoSector && s[1] == NoSector
}

// LoneEdges lists live edges that belong to no sector.
func (l *Level) LoneEdges() []EdgeID {
	var res []EdgeID
	for i := range l.Edges {
		id := EdgeID(i)
		if l.IsEdgeValid(id) && l.IsLone(id) {
			res = append(res, id)
		}
	}
	return res
}

func (l *Level) SectorIDs() []SectorID {
	res := make([]SectorID, 0, len(l.Sectors))
	for i := range l.Sectors {
		if !l.Sectors[i].free {
			res = append(res, SectorID(i))
		}
	}
	return res
}

// SectorVertices lists the distinct vertices of the sector's edges, in edge
// order.
func (l *Level) SectorVertices(s SectorID) []VertexID {
	var res []VertexID
	seen := map[VertexID]bool{}
	for _, e := range l.Sector(s).Edges {
		if !l.IsEdgeValid(e) {
			continue
		}
		for _, v := range l.Edges[e].Vertices {
			if l.IsVertexValid(v) && !seen[v] {
				seen[v] = true
				res = append(res, v)
			}
		}
	}
	return res
}

// DissolveVertex removes a redundant vertex: one joining exactly two edges
// that run straight through it (within angleEps) and border the same sectors.
// The first edge is stretched over the second, which is removed.
func (l *Level) DissolveVertex(v VertexID, angleEps float64) error {
	vert := l.Vertex(v)
	if len(vert.Edges) != 2 {
		return errors.Errorf("vertex %d joins %d edges, not 2", v, len(vert.Edges))
	}
	e1, e2 := vert.Edges[0], vert.Edges[1]
	a := l.EdgeOtherVertex(e1, v)
	b := l.EdgeOtherVertex(e2, v)
	if a == b || a == NoVertex || b == NoVertex {
		return errors.Errorf("vertex %d: edges %d and %d do not form a path", v, e1, e2)
	}
	in := common.Angle(l.Pos(a), l.Pos(v))
	out := common.Angle(l.Pos(v), l.Pos(b))
	if common.AngleDelta(in, out) > angleEps {
		return errors.Errorf("vertex %d is a corner", v)
	}
	// Walking a -> v -> b, both edges must see the same sectors.
	left1, right1 := l.EdgeSidesFrom(e1, a)
	left2, right2 := l.EdgeSidesFrom(e2, v)
	if left1 != left2 || right1 != right2 {
		return errors.Errorf("vertex %d: edges %d and %d border different sectors", v, e1, e2)
	}
	end := 0
	if l.Edges[e1].Vertices[1] == v {
		end = 1
	}
	l.RemoveEdge(e2)
	l.SetEdgeVertex(e1, end, b)
	return l.RemoveVertex(v)
}

// Compact drops freed slots and renumbers everything that is left. The
// returned tables map old handles to new ones (-1 for dropped entries).
func (l *Level) Compact() (vmap []VertexID, emap []EdgeID, smap []SectorID) {
	vmap = make([]VertexID, len(l.Vertices))
	emap = make([]EdgeID, len(l.Edges))
	smap = make([]SectorID, len(l.Sectors))

	var verts []Vertex
	for i := range l.Vertices {
		vmap[i] = NoVertex
		if !l.Vertices[i].free {
			vmap[i] = VertexID(len(verts))
			verts = append(verts, l.Vertices[i])
		}
	}
	var edges []Edge
	for i := range l.Edges {
		emap[i] = NoEdge
		if !l.Edges[i].free {
			emap[i] = EdgeID(len(edges))
			edges = append(edges, l.Edges[i])
		}
	}
	var sectors []Sector
	for i := range l.Sectors {
		smap[i] = NoSector
		if !l.Sectors[i].free {
			smap[i] = SectorID(len(sectors))
			sectors = append(sectors, l.Sectors[i])
		}
	}

	remapV := func(v VertexID) VertexID {
		if v < 0 || int(v) >= len(vmap) {
			return NoVertex
		}
		return vmap[v]
	}
	remapS := func(s SectorID) SectorID {
		if s < 0 || int(s) >= len(smap) {
			return NoSector
		}
		return smap[s]
	}
	remapEdges := func(ids []EdgeID) []EdgeID {
		res := make([]EdgeID, 0, len(ids))
		for _, e := range ids {
			if e >= 0 && int(e) < len(emap) && emap[e] != NoEdge {
				res = append(res, emap[e])
			}
		}
		return res
	}

	for i := range verts {
		verts[i].Edges = remapEdges(verts[i].Edges)
	}
	for i := range edges {
		for k := 0; k < 2; k++ {
			edges[i].Vertices[k] = remapV(edges[i].Vertices[k])
			edges[i].Sectors[k] = remapS(edges[i].Sectors[k])
		}
	}
	for i := range sectors {
		sectors[i].Edges = remapEdges(sectors[i].Edges)
		for t := range sectors[i].Triangles {
			for k := 0; k < 3; k++ {
				sectors[i].Triangles[t][k] = remapV(sectors[i].Triangles[t][k])
			}
		}
	}
	l.Vertices, l.Edges, l.Sectors = verts, edges, sectors
	return vmap, emap, smap
}
