package debug_utils

import (
	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"
)

// LevelFromWKT builds a level from a WKT POLYGON or MULTIPOLYGON: one sector
// per polygon, in order. Equal coordinates share a vertex and a boundary
// walked by two polygons becomes a single interior edge. Ring orientation in
// the text does not matter.
func LevelFromWKT(wkt string) (*geometry.Level, error) {
	g, err := geom.UnmarshalWKT(wkt, geom.DisableAllValidations)
	if err != nil {
		return nil, errors.Wrap(err, "parse wkt")
	}

	var polys []geom.Polygon
	switch g.Type() {
	case geom.TypePolygon:
		polys = append(polys, g.MustAsPolygon())
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			polys = append(polys, mp.PolygonN(i))
		}
	default:
		return nil, errors.Errorf("wkt holds a %s, want a polygon or multipolygon", g.Type())
	}

	b := &wktBuilder{l: geometry.NewLevel(), verts: map[geom.XY]geometry.VertexID{}}
	for _, p := range polys {
		s := b.l.AddSector()
		if err := b.ring(s, p.ExteriorRing().Coordinates(), true); err != nil {
			return nil, errors.Wrapf(err, "sector %d", s)
		}
		for i := 0; i < p.NumInteriorRings(); i++ {
			if err := b.ring(s, p.InteriorRingN(i).Coordinates(), false); err != nil {
				return nil, errors.Wrapf(err, "sector %d hole %d", s, i)
			}
		}
	}
	return b.l, nil
}

type wktBuilder struct {
	l     *geometry.Level
	verts map[geom.XY]geometry.VertexID
}

func (b *wktBuilder) vertex(xy geom.XY) geometry.VertexID {
	if v, ok := b.verts[xy]; ok {
		return v
	}
	v := b.l.AddVertex(xy.X, xy.Y)
	b.verts[xy] = v
	return v
}

// ring adds one closed ring with s on its left: counterclockwise for the
// outer ring, clockwise for holes.
func (b *wktBuilder) ring(s geometry.SectorID, seq geom.Sequence, outer bool) error {
	n := seq.Length()
	if n > 1 && seq.GetXY(0) == seq.GetXY(n-1) {
		n--
	}
	if n < 3 {
		return errors.Errorf("ring has %d distinct points", n)
	}
	pts := make([]common.Vec2, n)
	for i := range pts {
		xy := seq.GetXY(i)
		pts[i] = common.Vec2{xy.X, xy.Y}
	}
	if (common.SignedArea(pts) > 0) != outer {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	for i := range pts {
		a := b.vertex(geom.XY{X: pts[i].X(), Y: pts[i].Y()})
		c := b.vertex(geom.XY{X: pts[(i+1)%n].X(), Y: pts[(i+1)%n].Y()})
		if a == c {
			continue
		}
		b.side(a, c, s)
	}
	return nil
}

// side puts s on the left of a->c, reusing an existing edge between them.
func (b *wktBuilder) side(a, c geometry.VertexID, s geometry.SectorID) {
	for _, e := range b.l.Vertex(a).Edges {
		ev := b.l.Edge(e).Vertices
		if ev[0] == a && ev[1] == c {
			b.l.SetEdgeSector(e, 0, s)
			return
		}
		if ev[0] == c && ev[1] == a {
			b.l.SetEdgeSector(e, 1, s)
			return
		}
	}
	e := b.l.AddEdge(a, c)
	b.l.SetEdgeSector(e, 0, s)
}
