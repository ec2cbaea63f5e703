package spatial

import (
	"slices"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/pkg/errors"
)

const (
	KindLinear = "linear"
	KindGrid   = "grid"
	KindRTree  = "rtree"
)

// Locator narrows "which sector is at this point" down to a few candidates,
// judged by bounding box only. Locators are built from a triangulated level
// and must be rebuilt when sector boxes change.
type Locator interface {
	Candidates(p common.Vec2) []geometry.SectorID
}

// NewLocator builds the locator named by kind over l.
func NewLocator(kind string, l *geometry.Level, cellSize float64) (Locator, error) {
	switch kind {
	case KindLinear:
		return NewLinearLocator(l), nil
	case KindGrid:
		return NewGridLocator(l, cellSize), nil
	case KindRTree:
		return NewRTreeLocator(l), nil
	}
	return nil, errors.Errorf("unknown locator kind %q", kind)
}

// FindSector returns the sector whose triangles hold p, or NoSector. Each
// candidate is rejected by its bounding box before its triangles are scanned.
// Points on a border shared by several sectors resolve to the lowest handle.
func FindSector(l *geometry.Level, loc Locator, p common.Vec2) geometry.SectorID {
	ids := loc.Candidates(p)
	slices.Sort(ids)
	for _, id := range ids {
		if l.SectorContainsFast(id, p) {
			return id
		}
	}
	return geometry.NoSector
}

// LinearLocator checks every sector's bounding box.
type LinearLocator struct {
	l *geometry.Level
}

func NewLinearLocator(l *geometry.Level) *LinearLocator {
	return &LinearLocator{l: l}
}

func (ll *LinearLocator) Candidates(p common.Vec2) []geometry.SectorID {
	var res []geometry.SectorID
	for _, id := range ll.l.SectorIDs() {
		if ll.l.Sector(id).BBox.ContainsPoint(common.ToR2(p)) {
			res = append(res, id)
		}
	}
	return res
}
