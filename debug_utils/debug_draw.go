package debug_utils

import (
	"github.com/Espyo/Pikifen-sub020/common"
)

type DuDebugDrawPrimitives int

const (
	DU_DRAW_POINTS DuDebugDrawPrimitives = iota
	DU_DRAW_LINES
	DU_DRAW_TRIS
)

// DuDebugDraw receives primitives in level coordinates: points, line
// segments (two vertices each) or triangles (three vertices each).
type DuDebugDraw interface {
	/// Begin drawing primitives.
	///  @param prim [in] primitive type to draw.
	///  @param size [in] point size or line width, in pixels. Defaults to 1.
	Begin(prim DuDebugDrawPrimitives, size ...float32)

	/// Submit a vertex.
	Vertex(pos common.Vec2, color Colorb)

	/// End drawing primitives.
	End()
}

type duVertex struct {
	pos   common.Vec2
	color Colorb
}

type duBatch struct {
	prim  DuDebugDrawPrimitives
	size  float32
	verts []duVertex
}

// DuDisplayList records primitives so they can be replayed into another
// DuDebugDraw later.
type DuDisplayList struct {
	batches []duBatch
	cur     *duBatch
}

func NewDuDisplayList() *DuDisplayList {
	return &DuDisplayList{}
}

func (d *DuDisplayList) Begin(prim DuDebugDrawPrimitives, size ...float32) {
	s := float32(1)
	if len(size) > 0 {
		s = size[0]
	}
	d.batches = append(d.batches, duBatch{prim: prim, size: s})
	d.cur = &d.batches[len(d.batches)-1]
}

func (d *DuDisplayList) Vertex(pos common.Vec2, color Colorb) {
	common.AssertTrue(d.cur != nil, "Vertex outside Begin/End")
	d.cur.verts = append(d.cur.verts, duVertex{pos: pos, color: color})
}

func (d *DuDisplayList) End() {
	d.cur = nil
}

func (d *DuDisplayList) Clear() {
	d.batches = nil
	d.cur = nil
}

// Count returns how many vertices were submitted for prim.
func (d *DuDisplayList) Count(prim DuDebugDrawPrimitives) int {
	n := 0
	for _, b := range d.batches {
		if b.prim == prim {
			n += len(b.verts)
		}
	}
	return n
}

func (d *DuDisplayList) Draw(dd DuDebugDraw) {
	if dd == nil {
		return
	}
	for _, b := range d.batches {
		dd.Begin(b.prim, b.size)
		for _, v := range b.verts {
			dd.Vertex(v.pos, v.color)
		}
		dd.End()
	}
}
