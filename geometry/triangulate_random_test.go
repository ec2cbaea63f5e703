package geometry

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/Espyo/Pikifen-sub020/common"
)

// starLoop returns n points around (cx,cy), one per angular slot of 2π/n,
// with radii in [minR*r, r]. Such a loop is always simple.
func starLoop(rng *rand.Rand, cx, cy, r, minR float64, n int, clockwise bool) []common.Vec2 {
	pts := make([]common.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * (float64(i) + 0.5*rng.Float64()) / float64(n)
		rr := r * (minR + (1-minR)*rng.Float64())
		pts[i] = pt(cx+rr*math.Cos(a), cy+rr*math.Sin(a))
	}
	if clockwise {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts
}

// randomSector fills a sector with a star-shaped outer loop of radius about
// 100 and a k by k grid of star-shaped holes inside the square |x|,|y| <= 35,
// which the outer loop always encloses. It returns the expected area.
func randomSector(rng *rand.Rand, l *Level, s SectorID, k int) float64 {
	outer := starLoop(rng, 0, 0, 100, 0.9, 6+rng.Intn(15), false)
	loop(l, s, outer...)
	area := common.SignedArea(outer)
	if k == 0 {
		return area
	}
	cell := 70 / float64(k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			cx, cy := -35+cell*(float64(i)+0.5), -35+cell*(float64(j)+0.5)
			hole := starLoop(rng, cx, cy, 0.45*cell, 0.3, 3+rng.Intn(6), true)
			loop(l, s, hole...)
			area += common.SignedArea(hole)
		}
	}
	return area
}

func TestTriangulateRandomSectors(t *testing.T) {
	for seed := int64(0); seed < 300; seed++ {
		rng := rand.New(rand.NewSource(seed))
		k := int(seed % 4)
		l := NewLevel()
		s := l.AddSector()
		want := randomSector(rng, l, s, k)
		name := fmt.Sprintf("seed %d, %dx%d holes", seed, k, k)

		root, err := BuildPolygons(l, s, DefaultOptions())
		assertTrue(t, err == nil, name+": polygons build")
		assertTrue(t, len(root.Children) == 1 && len(root.Children[0].Children) == k*k, name+": holes nest")
		cut, err := CutHoles(l, root, DefaultOptions().PositionEpsilon)
		if err != nil || len(cut) != 1 {
			t.Errorf("%s: holes cut: %v", name, err)
			continue
		}

		problems := NewGeometryProblems()
		err = newTestTriangulator().TriangulateSector(l, s, problems)
		assertTrue(t, err == nil, fmt.Sprintf("%s: triangulates: %v", name, err))
		assertTrue(t, problems.Empty(), name+": no problems")

		tris := l.Sector(s).Triangles
		assertTrue(t, len(tris) == len(cut[0].Verts)-2, name+": n-2 triangles")
		got := trianglesArea(l, tris)
		assertTrue(t, math.Abs(got-l.Sector(s).SurfaceArea) < 1e-6, name+": triangles cover the cut polygon")
		assertTrue(t, math.Abs(got-want) < 1e-4*want, fmt.Sprintf("%s: area %v, want %v", name, got, want))
		for _, tri := range tris {
			assertTrue(t, trianglesArea(l, []Triangle{tri}) >= -1e-9, name+": no triangle is inverted")
		}
	}
}
