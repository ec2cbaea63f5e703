package spatial

import (
	"testing"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addPolygon adds a sector bounded by a counterclockwise loop of new vertices.
func addPolygon(l *geometry.Level, pts ...common.Vec2) geometry.SectorID {
	s := l.AddSector()
	verts := make([]geometry.VertexID, len(pts))
	for i, p := range pts {
		verts[i] = l.AddVertex(p.X(), p.Y())
	}
	for i := range verts {
		e := l.AddEdge(verts[i], verts[(i+1)%len(verts)])
		l.SetEdgeSector(e, 0, s)
	}
	return s
}

func testLevel(t *testing.T) *geometry.Level {
	l := geometry.NewLevel()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			x0, y0 := float64(x)*100, float64(y)*100
			addPolygon(l,
				common.Vec2{x0, y0}, common.Vec2{x0 + 100, y0},
				common.Vec2{x0 + 100, y0 + 100}, common.Vec2{x0, y0 + 100})
		}
	}
	// A triangle far away whose box is mostly empty.
	addPolygon(l, common.Vec2{1000, 1000}, common.Vec2{1300, 1000}, common.Vec2{1000, 1300})

	problems := geometry.NewGeometryProblems()
	geometry.NewTriangulator(geometry.DefaultOptions(), nil).TriangulateLevel(l, problems)
	require.True(t, problems.Empty())
	return l
}

func TestLocatorsAgree(t *testing.T) {
	l := testLevel(t)
	linear := NewLinearLocator(l)
	grid := NewGridLocator(l, GridCellSize)
	tree := NewRTreeLocator(l)

	for x := -50.0; x <= 1400; x += 37 {
		for y := -50.0; y <= 1400; y += 41 {
			p := common.Vec2{x, y}
			want := FindSector(l, linear, p)
			assert.Equal(t, want, FindSector(l, grid, p), "grid at %v", p)
			assert.Equal(t, want, FindSector(l, tree, p), "rtree at %v", p)
		}
	}
}

func TestFindSector(t *testing.T) {
	l := testLevel(t)
	loc, err := NewLocator(KindGrid, l, 64)
	require.NoError(t, err)

	assert.Equal(t, geometry.SectorID(0), FindSector(l, loc, common.Vec2{50, 50}))
	assert.Equal(t, geometry.SectorID(5), FindSector(l, loc, common.Vec2{150, 150}))
	// Shared corner of sectors 0, 1, 4 and 5.
	assert.Equal(t, geometry.SectorID(0), FindSector(l, loc, common.Vec2{100, 100}))
	assert.Equal(t, geometry.SectorID(16), FindSector(l, loc, common.Vec2{1050, 1050}))
	// Inside the triangle's box but outside the triangle.
	assert.Equal(t, geometry.NoSector, FindSector(l, loc, common.Vec2{1250, 1250}))
	assert.Equal(t, geometry.NoSector, FindSector(l, loc, common.Vec2{-10, 50}))
}

func TestGridLocator(t *testing.T) {
	l := testLevel(t)
	g := NewGridLocator(l, GridCellSize)
	assert.Equal(t, float64(GridCellSize), g.GetCellSize())
	assert.Equal(t, [4]int{0, 0, 10, 10}, g.GetBounds())
	// Cell 0,0 spans 0..128 and touches sectors 0, 1, 4 and 5.
	assert.Equal(t, 4, g.GetItemCountAt(0, 0))
	assert.ElementsMatch(t, []geometry.SectorID{0, 1, 4, 5}, g.Candidates(common.Vec2{10, 10}))
	assert.Empty(t, g.Candidates(common.Vec2{600, 600}))
}

func TestRTreeLocator(t *testing.T) {
	l := testLevel(t)
	tree := NewRTreeLocator(l)
	ext, ok := tree.Extent()
	require.True(t, ok)
	assert.Equal(t, 0.0, ext.X.Lo)
	assert.Equal(t, 1300.0, ext.X.Hi)
	assert.ElementsMatch(t, []geometry.SectorID{16}, tree.Candidates(common.Vec2{1250, 1250}))

	_, err := NewLocator("quadtree", l, 0)
	assert.Error(t, err)
}

// everyLocator hands out every sector, leaving all the work to FindSector.
type everyLocator struct {
	l *geometry.Level
}

func (e everyLocator) Candidates(common.Vec2) []geometry.SectorID {
	return e.l.SectorIDs()
}

func TestFindSectorChecksBoxFirst(t *testing.T) {
	l := testLevel(t)
	loc := everyLocator{l: l}
	p := common.Vec2{50, 50}
	require.Equal(t, geometry.SectorID(0), FindSector(l, loc, p))

	// Triangles still cover p, but the box no longer does.
	l.Sector(0).BBox = r2.RectFromPoints(r2.Point{X: 200, Y: 200}, r2.Point{X: 300, Y: 300})
	assert.True(t, l.SectorContains(0, p))
	assert.Equal(t, geometry.NoSector, FindSector(l, loc, p))
}
