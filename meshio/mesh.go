package meshio

import (
	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/common/rw"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// SectorMesh is the triangulation output of one sector, with the opaque
// render descriptor carried along for consumers.
type SectorMesh struct {
	ID          geometry.SectorID
	Z           float64
	Brightness  uint8
	Texture     string
	Triangles   []geometry.Triangle
	BBox        r2.Rect
	SurfaceArea float64
	Error       geometry.TriangulationError
}

// MeshData is a triangulated level ready to ship to a renderer or a game
// runtime. Vertices are indexed by handle; freed slots are kept so handles
// stay valid.
type MeshData struct {
	Vertices  []common.Vec2
	Sectors   []*SectorMesh
	LoneEdges []geometry.EdgeID
}

const (
	fieldVertices  = 1
	fieldSector    = 2
	fieldLoneEdges = 3
)

const (
	sectorID = iota + 1
	sectorZ
	sectorBrightness
	sectorTexture
	sectorTriangles
	sectorBBox
	sectorArea
	sectorError
)

func FromLevel(l *geometry.Level, problems *geometry.GeometryProblems) *MeshData {
	d := &MeshData{}
	for i := range l.Vertices {
		d.Vertices = append(d.Vertices, l.Vertices[i].Pos)
	}
	for _, id := range l.SectorIDs() {
		sec := l.Sector(id)
		sm := &SectorMesh{
			ID:          id,
			Z:           sec.Z,
			Brightness:  sec.Brightness,
			Texture:     sec.Texture,
			Triangles:   append([]geometry.Triangle(nil), sec.Triangles...),
			BBox:        sec.BBox,
			SurfaceArea: sec.SurfaceArea,
		}
		if problems != nil {
			sm.Error = problems.NonSimpleSectors[id]
		}
		d.Sectors = append(d.Sectors, sm)
	}
	if problems != nil && len(problems.LoneEdges) > 0 {
		d.LoneEdges = problems.SortedLoneEdges()
	}
	return d
}

func (d *MeshData) ToBin() []byte {
	w := rw.NewWriter()
	verts := make([]float64, 0, 2*len(d.Vertices))
	for _, v := range d.Vertices {
		verts = append(verts, v.X(), v.Y())
	}
	w.WriteFloat64s(fieldVertices, verts)
	for _, s := range d.Sectors {
		w.WriteMessage(fieldSector, s.toBin)
	}
	lone := make([]int32, len(d.LoneEdges))
	for i, e := range d.LoneEdges {
		lone[i] = int32(e)
	}
	w.WriteInt32s(fieldLoneEdges, lone)
	return w.GetWriteBytes()
}

func (s *SectorMesh) toBin(w *rw.ReaderWriter) {
	w.WriteInt32(sectorID, int32(s.ID))
	w.WriteFloat64(sectorZ, s.Z)
	w.WriteUint64(sectorBrightness, uint64(s.Brightness))
	w.WriteString(sectorTexture, s.Texture)
	tris := make([]int32, 0, 3*len(s.Triangles))
	for _, t := range s.Triangles {
		tris = append(tris, int32(t[0]), int32(t[1]), int32(t[2]))
	}
	w.WriteInt32s(sectorTriangles, tris)
	if !s.BBox.IsEmpty() {
		w.WriteFloat64s(sectorBBox, []float64{s.BBox.X.Lo, s.BBox.Y.Lo, s.BBox.X.Hi, s.BBox.Y.Hi})
	}
	w.WriteFloat64(sectorArea, s.SurfaceArea)
	w.WriteUint64(sectorError, uint64(s.Error))
}

func (d *MeshData) FromBin(data []byte) error {
	*d = MeshData{}
	r := rw.NewReader(data)
	for {
		num, ok := r.Next()
		if !ok {
			break
		}
		switch num {
		case fieldVertices:
			verts := r.ReadFloat64s()
			if len(verts)%2 != 0 {
				return errors.Errorf("odd vertex coordinate count %d", len(verts))
			}
			for i := 0; i < len(verts); i += 2 {
				d.Vertices = append(d.Vertices, common.Vec2{verts[i], verts[i+1]})
			}
		case fieldSector:
			s := &SectorMesh{}
			if err := s.fromBin(r.ReadMessage()); err != nil {
				return errors.Wrapf(err, "sector %d", len(d.Sectors))
			}
			d.Sectors = append(d.Sectors, s)
		case fieldLoneEdges:
			for _, e := range r.ReadInt32s() {
				d.LoneEdges = append(d.LoneEdges, geometry.EdgeID(e))
			}
		default:
			r.Skip(num)
		}
	}
	return errors.Wrap(r.Err(), "decode mesh")
}

func (s *SectorMesh) fromBin(r *rw.ReaderWriter) error {
	s.BBox = r2.EmptyRect()
	for {
		num, ok := r.Next()
		if !ok {
			break
		}
		switch num {
		case sectorID:
			s.ID = geometry.SectorID(r.ReadInt32())
		case sectorZ:
			s.Z = r.ReadFloat64()
		case sectorBrightness:
			s.Brightness = uint8(r.ReadUint64())
		case sectorTexture:
			s.Texture = r.ReadString()
		case sectorTriangles:
			tris := r.ReadInt32s()
			if len(tris)%3 != 0 {
				return errors.Errorf("triangle index count %d is not a multiple of 3", len(tris))
			}
			for i := 0; i < len(tris); i += 3 {
				s.Triangles = append(s.Triangles, geometry.Triangle{
					geometry.VertexID(tris[i]), geometry.VertexID(tris[i+1]), geometry.VertexID(tris[i+2]),
				})
			}
		case sectorBBox:
			b := r.ReadFloat64s()
			if len(b) != 4 {
				return errors.Errorf("bbox has %d values", len(b))
			}
			s.BBox = r2.Rect{X: r1.Interval{Lo: b[0], Hi: b[2]}, Y: r1.Interval{Lo: b[1], Hi: b[3]}}
		case sectorArea:
			s.SurfaceArea = r.ReadFloat64()
		case sectorError:
			s.Error = geometry.TriangulationError(r.ReadUint64())
		default:
			r.Skip(num)
		}
	}
	return r.Err()
}

// Apply writes the stored triangulation back into l, which must hold the same
// vertices and sectors the mesh was made from. Every mismatch is reported.
func (d *MeshData) Apply(l *geometry.Level) error {
	if len(d.Vertices) != len(l.Vertices) {
		return errors.Errorf("mesh has %d vertices, level has %d", len(d.Vertices), len(l.Vertices))
	}
	var err error
	for _, s := range d.Sectors {
		if !l.IsSectorValid(s.ID) {
			err = multierr.Append(err, errors.Errorf("sector %d is not in the level", s.ID))
			continue
		}
		bad := false
		for _, t := range s.Triangles {
			for _, v := range t {
				if !l.IsVertexValid(v) {
					err = multierr.Append(err, errors.Errorf("sector %d: triangle vertex %d is not in the level", s.ID, v))
					bad = true
				}
			}
		}
		if bad {
			continue
		}
		sec := l.Sector(s.ID)
		sec.Triangles = append([]geometry.Triangle(nil), s.Triangles...)
		sec.BBox = s.BBox
		sec.SurfaceArea = s.SurfaceArea
	}
	return err
}
