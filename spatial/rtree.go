package spatial

import (
	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/golang/geo/r2"
	"github.com/peterstace/simplefeatures/rtree"
)

// RTreeLocator keeps sector bounding boxes in an R-tree.
type RTreeLocator struct {
	tree rtree.RTree
}

func NewRTreeLocator(l *geometry.Level) *RTreeLocator {
	rl := &RTreeLocator{}
	for _, id := range l.SectorIDs() {
		box := l.Sector(id).BBox
		if box.IsEmpty() {
			continue
		}
		rl.tree.Insert(toBox(box), int(id))
	}
	return rl
}

func toBox(r r2.Rect) rtree.Box {
	return rtree.Box{MinX: r.X.Lo, MinY: r.Y.Lo, MaxX: r.X.Hi, MaxY: r.Y.Hi}
}

func (rl *RTreeLocator) Candidates(p common.Vec2) []geometry.SectorID {
	var res []geometry.SectorID
	box := rtree.Box{MinX: p.X(), MinY: p.Y(), MaxX: p.X(), MaxY: p.Y()}
	_ = rl.tree.RangeSearch(box, func(recordID int) error {
		res = append(res, geometry.SectorID(recordID))
		return nil
	})
	return res
}

// Extent is the box around every indexed sector.
func (rl *RTreeLocator) Extent() (r2.Rect, bool) {
	box, ok := rl.tree.Extent()
	if !ok {
		return r2.EmptyRect(), false
	}
	return r2.RectFromPoints(r2.Point{X: box.MinX, Y: box.MinY}, r2.Point{X: box.MaxX, Y: box.MaxY}), true
}
