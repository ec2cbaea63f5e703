package debug_utils

import (
	"image/color"
	"io"
	"slices"

	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlLevel struct {
	Vertices [][]float64 `yaml:"vertices"`
	Edges    []yamlEdge  `yaml:"edges"`
	Sectors  []yamlSec   `yaml:"sectors"`
}

type yamlEdge struct {
	Vertices             []int32 `yaml:"vertices,flow"`
	Sectors              []int32 `yaml:"sectors,flow"`
	WallShadowLength     float64 `yaml:"wall_shadow_length,omitempty"`
	WallShadowColor      []uint8 `yaml:"wall_shadow_color,flow,omitempty"`
	LedgeSmoothingLength float64 `yaml:"ledge_smoothing_length,omitempty"`
	LedgeSmoothingColor  []uint8 `yaml:"ledge_smoothing_color,flow,omitempty"`
}

type yamlSec struct {
	Z          float64 `yaml:"z"`
	Brightness uint8   `yaml:"brightness"`
	Texture    string  `yaml:"texture,omitempty"`
	// Edges the sector lists without the edge naming the sector back.
	Edges []int32 `yaml:"edges,flow,omitempty"`
}

func colorFromYAML(c []uint8) (color.NRGBA, error) {
	switch len(c) {
	case 0:
		return color.NRGBA{}, nil
	case 4:
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	}
	return color.NRGBA{}, errors.Errorf("color needs 4 components, got %d", len(c))
}

func colorToYAML(c color.NRGBA) []uint8 {
	if c == (color.NRGBA{}) {
		return nil
	}
	return []uint8{c.R, c.G, c.B, c.A}
}

// LoadLevelYAML reads a level dump. Sector sides of edges are resolved through
// the level, so back references are rebuilt; a sector's own edges list only
// adds entries the edges do not account for.
func LoadLevelYAML(r io.Reader) (*geometry.Level, error) {
	var doc yamlLevel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse level")
	}

	l := geometry.NewLevel()
	for i, v := range doc.Vertices {
		if len(v) != 2 {
			return nil, errors.Errorf("vertex %d: need 2 coordinates, got %d", i, len(v))
		}
		l.AddVertex(v[0], v[1])
	}
	for _, s := range doc.Sectors {
		id := l.AddSector()
		sec := l.Sector(id)
		sec.Z, sec.Brightness, sec.Texture = s.Z, s.Brightness, s.Texture
	}
	for i, e := range doc.Edges {
		if len(e.Vertices) != 2 || len(e.Sectors) != 2 {
			return nil, errors.Errorf("edge %d: need 2 vertices and 2 sectors", i)
		}
		var vs [2]geometry.VertexID
		for k, v := range e.Vertices {
			vs[k] = geometry.VertexID(v)
			if vs[k] != geometry.NoVertex && !l.IsVertexValid(vs[k]) {
				return nil, errors.Errorf("edge %d: no vertex %d", i, v)
			}
		}
		id := l.AddEdge(vs[0], vs[1])
		for side, s := range e.Sectors {
			sid := geometry.SectorID(s)
			if sid != geometry.NoSector && !l.IsSectorValid(sid) {
				return nil, errors.Errorf("edge %d: no sector %d", i, s)
			}
			l.SetEdgeSector(id, side, sid)
		}
		edge := l.Edge(id)
		var err error
		edge.WallShadowLength = e.WallShadowLength
		edge.LedgeSmoothingLength = e.LedgeSmoothingLength
		if edge.WallShadowColor, err = colorFromYAML(e.WallShadowColor); err != nil {
			return nil, errors.Wrapf(err, "edge %d wall shadow", i)
		}
		if edge.LedgeSmoothingColor, err = colorFromYAML(e.LedgeSmoothingColor); err != nil {
			return nil, errors.Wrapf(err, "edge %d ledge smoothing", i)
		}
	}
	for i, s := range doc.Sectors {
		sec := l.Sector(geometry.SectorID(i))
		for _, e := range s.Edges {
			if !l.IsEdgeValid(geometry.EdgeID(e)) {
				return nil, errors.Errorf("sector %d: no edge %d", i, e)
			}
			if !slices.Contains(sec.Edges, geometry.EdgeID(e)) {
				sec.Edges = append(sec.Edges, geometry.EdgeID(e))
			}
		}
	}
	return l, nil
}

// SaveLevelYAML writes the live part of the level, renumbered densely.
func SaveLevelYAML(l *geometry.Level, w io.Writer) error {
	vmap := map[geometry.VertexID]int32{geometry.NoVertex: -1}
	emap := map[geometry.EdgeID]int32{}
	smap := map[geometry.SectorID]int32{geometry.NoSector: -1}

	var doc yamlLevel
	for i := range l.Vertices {
		v := geometry.VertexID(i)
		if l.IsVertexValid(v) {
			vmap[v] = int32(len(doc.Vertices))
			p := l.Pos(v)
			doc.Vertices = append(doc.Vertices, []float64{p.X(), p.Y()})
		}
	}
	for _, id := range l.SectorIDs() {
		smap[id] = int32(len(doc.Sectors))
		sec := l.Sector(id)
		doc.Sectors = append(doc.Sectors, yamlSec{Z: sec.Z, Brightness: sec.Brightness, Texture: sec.Texture})
	}
	for i := range l.Edges {
		id := geometry.EdgeID(i)
		if !l.IsEdgeValid(id) {
			continue
		}
		emap[id] = int32(len(doc.Edges))
		edge := l.Edge(id)
		ye := yamlEdge{
			WallShadowLength:     edge.WallShadowLength,
			WallShadowColor:      colorToYAML(edge.WallShadowColor),
			LedgeSmoothingLength: edge.LedgeSmoothingLength,
			LedgeSmoothingColor:  colorToYAML(edge.LedgeSmoothingColor),
		}
		for k := 0; k < 2; k++ {
			v, ok := vmap[edge.Vertices[k]]
			if !ok {
				return errors.Errorf("edge %d: vertex %d is not live", id, edge.Vertices[k])
			}
			s, ok := smap[edge.Sectors[k]]
			if !ok {
				return errors.Errorf("edge %d: sector %d is not live", id, edge.Sectors[k])
			}
			ye.Vertices = append(ye.Vertices, v)
			ye.Sectors = append(ye.Sectors, s)
		}
		doc.Edges = append(doc.Edges, ye)
	}
	for _, id := range l.SectorIDs() {
		ys := &doc.Sectors[smap[id]]
		for _, e := range l.Sector(id).Edges {
			if l.IsEdgeValid(e) && l.EdgeSideOf(e, id) < 0 {
				ys.Edges = append(ys.Edges, emap[e])
			}
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "write level")
	}
	return errors.Wrap(enc.Close(), "write level")
}
