package geometry

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestTriangulateUnitSquare(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	square(l, s, 0, 0, 1, 1)

	problems := NewGeometryProblems()
	err := newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, err == nil, "unit square triangulates")
	sec := l.Sector(s)
	assertTrue(t, len(sec.Triangles) == 2, "unit square gives 2 triangles")
	assertTrue(t, near(trianglesArea(l, sec.Triangles), 1), "triangles cover the square")
	assertTrue(t, near(sec.SurfaceArea, 1), "surface area of the unit square")
	assertTrue(t, sec.BBox.Lo().X == 0 && sec.BBox.Lo().Y == 0, "bbox low corner")
	assertTrue(t, sec.BBox.Hi().X == 1 && sec.BBox.Hi().Y == 1, "bbox high corner")
	assertTrue(t, problems.Empty(), "no problems for a unit square")
}

func TestTriangulateConcave(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	// L shape
	loop(l, s, pt(0, 0), pt(4, 0), pt(4, 2), pt(2, 2), pt(2, 4), pt(0, 4))

	err := newTestTriangulator().TriangulateSector(l, s, NewGeometryProblems())
	assertTrue(t, err == nil, "L shape triangulates")
	tris := l.Sector(s).Triangles
	assertTrue(t, len(tris) == 4, "6 vertices give 4 triangles")
	assertTrue(t, near(trianglesArea(l, tris), 12), "triangles cover the L shape")

	used := map[VertexID]bool{}
	for _, v := range l.SectorVertices(s) {
		used[v] = true
	}
	for _, tri := range tris {
		for _, v := range tri {
			assertTrue(t, used[v], "triangles only use sector vertices")
		}
		assertTrue(t, trianglesArea(l, []Triangle{tri}) >= 0, "triangles wind counterclockwise")
	}
}

func TestTriangulateSquareWithHole(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	square(l, s, 0, 0, 10, 10)
	squareHole(l, s, 4, 4, 6, 6)

	root, err := BuildPolygons(l, s, DefaultOptions())
	assertTrue(t, err == nil, "polygons build")
	assertTrue(t, root.IsRoot() && !root.Children[0].IsRoot(), "tree root holds no loop")
	assertTrue(t, len(root.Children) == 1, "one outer polygon")
	assertTrue(t, len(root.Children[0].Children) == 1, "one hole")
	assertTrue(t, !root.Children[0].IsClockwise(l), "outer is counterclockwise")
	assertTrue(t, root.Children[0].Children[0].IsClockwise(l), "hole is clockwise")

	cut, err := CutHoles(l, root, DefaultOptions().PositionEpsilon)
	assertTrue(t, err == nil, "hole cuts")
	assertTrue(t, len(cut) == 1, "one cut polygon")
	assertTrue(t, len(cut[0].Verts) == 10, "4 + 4 + 2 bridge vertices")

	problems := NewGeometryProblems()
	err = newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, err == nil, "square with hole triangulates")
	tris := l.Sector(s).Triangles
	assertTrue(t, len(tris) == 8, "10 cut vertices give 8 triangles: "+describe(tris))
	assertTrue(t, near(trianglesArea(l, tris), 96), "triangles cover the ring")
	assertTrue(t, near(l.Sector(s).SurfaceArea, 96), "surface area excludes the hole")
	assertTrue(t, problems.Empty(), "no problems")
}

func TestTriangulateIslandInHole(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	square(l, s, 0, 0, 10, 10)
	squareHole(l, s, 2, 2, 8, 8)
	square(l, s, 4, 4, 6, 6)

	root, err := BuildPolygons(l, s, DefaultOptions())
	assertTrue(t, err == nil, "polygons build")
	depths := map[int]int{}
	root.Walk(func(p *Polygon, depth int) { depths[depth]++ })
	assertTrue(t, depths[0] == 1 && depths[1] == 1 && depths[2] == 1, "outer, hole and island nest")

	err = newTestTriangulator().TriangulateSector(l, s, NewGeometryProblems())
	assertTrue(t, err == nil, "island sector triangulates")
	tris := l.Sector(s).Triangles
	assertTrue(t, len(tris) == 10, "8 triangles for the ring plus 2 for the island")
	assertTrue(t, near(trianglesArea(l, tris), 68), "ring plus island area")
}

func TestTriangulateOpenSector(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	// C shape: the left side is missing.
	e0 := side(l, pt(0, 1), pt(0, 0), s)
	e1 := side(l, pt(0, 0), pt(1, 0), s)
	e2 := side(l, pt(1, 0), pt(1, 1), s)
	e3 := side(l, pt(1, 1), pt(0, 1), s)
	l.RemoveEdge(e0)

	problems := NewGeometryProblems()
	err := newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, errors.Is(err, TriangulationNotClosed), "open sector is not closed")
	assertTrue(t, Classify(err) == TriangulationNotClosed, "classification")
	assertTrue(t, len(l.Sector(s).Triangles) == 0, "no triangles for an open sector")
	assertTrue(t, problems.NonSimpleSectors[s] == TriangulationNotClosed, "sector recorded")
	for _, e := range []EdgeID{e1, e2, e3} {
		assertTrue(t, problems.IsLoneEdge(e), "open edges reported lone")
	}

	// Closing the loop clears the report.
	side(l, pt(0, 1), pt(0, 0), s)
	err = newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, err == nil, "closed sector triangulates")
	assertTrue(t, problems.Empty(), "problems cleared once closed")
	assertTrue(t, len(l.Sector(s).Triangles) == 2, "closed square gives 2 triangles")
}

func TestTriangulateInvalidInput(t *testing.T) {
	l := NewLevel()
	empty := l.AddSector()
	err := newTestTriangulator().TriangulateSector(l, empty, NewGeometryProblems())
	assertTrue(t, Classify(err) == TriangulationInvalidArgs, "sector without edges")

	s := l.AddSector()
	square(l, s, 0, 0, 1, 1)
	stray := l.AddEdge(vert(l, pt(5, 5)), vert(l, pt(6, 5)))
	l.Sectors[s].Edges = append(l.Sectors[s].Edges, stray)
	problems := NewGeometryProblems()
	err = newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, Classify(err) == TriangulationLoneEdges, "edge not pointing back at the sector")
	assertTrue(t, problems.IsLoneEdge(stray), "stray edge reported")
	assertTrue(t, len(l.Sector(s).Triangles) == 0, "failed sector has no triangles")
	assertTrue(t, l.Validate() != nil, "validation spots the broken reference")
}

func TestTriangulateAfterAttributeEdit(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	edges := loop(l, s, pt(0, 0), pt(4, 0), pt(4, 2), pt(2, 2), pt(2, 4), pt(0, 4))
	tr := newTestTriangulator()
	assertTrue(t, tr.TriangulateSector(l, s, NewGeometryProblems()) == nil, "first pass")
	before := append([]Triangle(nil), l.Sector(s).Triangles...)
	bbox := l.Sector(s).BBox

	l.Sector(s).Z = 128
	l.Sector(s).Brightness = 40
	l.Sector(s).Texture = "grass"
	l.Edge(edges[2]).WallShadowLength = 32

	assertTrue(t, tr.TriangulateSector(l, s, NewGeometryProblems()) == nil, "second pass")
	assertTrue(t, reflect.DeepEqual(before, l.Sector(s).Triangles), "same triangles after a render-only edit")
	assertTrue(t, bbox == l.Sector(s).BBox, "same bbox after a render-only edit")
}

func buildTown() *Level {
	l := NewLevel()
	a := l.AddSector()
	b := l.AddSector()
	c := l.AddSector()
	d := l.AddSector()
	square(l, a, 0, 0, 10, 10)
	squareHole(l, a, 2, 2, 4, 4)
	square(l, b, 10, 0, 20, 10)
	square(l, c, 2, 2, 4, 4)
	loop(l, d, pt(25, 0), pt(29, 0), pt(29, 6), pt(27, 3), pt(25, 6))
	open := l.AddSector()
	side(l, pt(30, 0), pt(31, 0), open)
	side(l, pt(31, 0), pt(31, 1), open)
	l.AddEdge(vert(l, pt(40, 40)), vert(l, pt(41, 41)))
	return l
}

func TestTriangulateLevel(t *testing.T) {
	l := buildTown()
	problems := NewGeometryProblems()
	newTestTriangulator().TriangulateLevel(l, problems)

	assertTrue(t, len(problems.NonSimpleSectors) == 1, "only the open sector fails")
	assertTrue(t, problems.NonSimpleSectors[4] == TriangulationNotClosed, "open sector not closed")
	assertTrue(t, len(problems.LoneEdges) == 3, "two open edges and one unowned edge")
	assertTrue(t, near(l.Sector(0).SurfaceArea, 96), "sector with hole")
	assertTrue(t, near(l.Sector(2).SurfaceArea, 4), "sector filling the hole")
	assertTrue(t, len(l.Sector(3).Triangles) == 3, "pentagon gives 3 triangles")
}

func TestTriangulateLevelParallel(t *testing.T) {
	seq := buildTown()
	seqProblems := NewGeometryProblems()
	newTestTriangulator().TriangulateLevel(seq, seqProblems)

	par := buildTown()
	parProblems := NewGeometryProblems()
	opts := DefaultOptions()
	opts.Workers = 4
	NewTriangulator(opts, nil).TriangulateLevel(par, parProblems)

	assertTrue(t, reflect.DeepEqual(seqProblems, parProblems), "same problems in parallel")
	for i := range seq.Sectors {
		assertTrue(t, reflect.DeepEqual(seq.Sectors[i].Triangles, par.Sectors[i].Triangles), "same triangles in parallel")
		assertTrue(t, seq.Sectors[i].BBox == par.Sectors[i].BBox, "same bbox in parallel")
	}
}

func TestTriangulationErrorIs(t *testing.T) {
	err := errors.Wrapf(TriangulationNoEars, "sector %d", 3)
	assertTrue(t, errors.Is(err, TriangulationNoEars), "wrapped classification matches")
	assertTrue(t, !errors.Is(err, TriangulationNotClosed), "other classification does not match")
	assertTrue(t, Classify(nil) == TriangulationNoError, "nil means no error")
	assertTrue(t, Classify(errors.New("x")) == TriangulationInvalidArgs, "unclassified error")
}

func TestTriangulateVertexMissingAdjacency(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	edges := square(l, s, 0, 0, 1, 1)
	l.Vertices[vert(l, pt(1, 1))].Edges = nil

	problems := NewGeometryProblems()
	err := newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, Classify(err) == TriangulationNotClosed, "loop cannot close through the vertex")
	assertTrue(t, len(l.Sector(s).Triangles) == 0, "no triangles")
	for _, e := range edges {
		assertTrue(t, problems.IsLoneEdge(e), "every edge of the broken loop is reported")
	}
	assertTrue(t, l.Validate() != nil, "validation spots the missing adjacency")
}

func TestTriangulateCrossingSector(t *testing.T) {
	l := NewLevel()
	s := l.AddSector()
	side(l, pt(0, 0), pt(2, 2), s)
	side(l, pt(2, 2), pt(2, 0), s)
	side(l, pt(2, 0), pt(0, 2), s)
	side(l, pt(0, 2), pt(0, 0), s)

	problems := NewGeometryProblems()
	err := newTestTriangulator().TriangulateSector(l, s, problems)
	assertTrue(t, Classify(err) == TriangulationNoEars, "self-crossing sector has no ears")
	assertTrue(t, problems.NonSimpleSectors[s] == TriangulationNoEars, "sector recorded")
	assertTrue(t, len(l.Sector(s).Triangles) == 0, "no triangles")
}
