package geometry

import (
	"github.com/Espyo/Pikifen-sub020/common"
)

// TriangleContains is edge inclusive, so a point on the border shared by two
// sectors is inside both and never inside neither.
func (l *Level) TriangleContains(t Triangle, p common.Vec2) bool {
	return common.PointInTriangle(p, l.Pos(t[0]), l.Pos(t[1]), l.Pos(t[2]))
}

// SectorContains reports whether p lies in any of the sector's triangles.
func (l *Level) SectorContains(sector SectorID, p common.Vec2) bool {
	for _, t := range l.Sector(sector).Triangles {
		if l.TriangleContains(t, p) {
			return true
		}
	}
	return false
}

// SectorContainsFast rejects points outside the sector's bounding box before
// looking at any triangle.
func (l *Level) SectorContainsFast(sector SectorID, p common.Vec2) bool {
	if !l.Sector(sector).BBox.ContainsPoint(common.ToR2(p)) {
		return false
	}
	return l.SectorContains(sector, p)
}
