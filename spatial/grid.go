package spatial

import (
	"math"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
)

// GridCellSize is the default edge length of a grid cell, in level units.
const GridCellSize = 128

const noItem = -1

type gridItem struct {
	id   geometry.SectorID
	x, y int
	next int
}

// GridLocator files every sector under each grid cell its bounding box
// touches. Cells are hashed into a fixed number of buckets, each a linked
// list of items in a shared pool.
type GridLocator struct {
	cellSize    float64
	invCellSize float64
	pool        []gridItem
	buckets     []int
	bounds      [4]int
}

func hashPos2(x, y, n int) int {
	return ((x * 73856093) ^ (y * 19349663)) & (n - 1)
}

func NewGridLocator(l *geometry.Level, cellSize float64) *GridLocator {
	if cellSize <= 0 {
		cellSize = GridCellSize
	}
	g := &GridLocator{cellSize: cellSize, invCellSize: 1 / cellSize}

	ids := l.SectorIDs()
	cells := 0
	for _, id := range ids {
		minx, miny, maxx, maxy, ok := g.cellRange(l, id)
		if ok {
			cells += (maxx - minx + 1) * (maxy - miny + 1)
		}
	}
	g.buckets = make([]int, common.NextPow2(uint32(max(cells, 1))))
	g.pool = make([]gridItem, 0, cells)
	g.Clear()

	for _, id := range ids {
		g.addItem(l, id)
	}
	return g
}

func (g *GridLocator) GetCellSize() float64 { return g.cellSize }

// GetBounds returns the covered cell range as min x, min y, max x, max y.
func (g *GridLocator) GetBounds() [4]int { return g.bounds }

func (g *GridLocator) Clear() {
	for i := range g.buckets {
		g.buckets[i] = noItem
	}
	g.pool = g.pool[:0]
	g.bounds = [4]int{math.MaxInt32, math.MaxInt32, math.MinInt32, math.MinInt32}
}

func (g *GridLocator) cell(v float64) int {
	return int(math.Floor(v * g.invCellSize))
}

func (g *GridLocator) cellRange(l *geometry.Level, id geometry.SectorID) (minx, miny, maxx, maxy int, ok bool) {
	box := l.Sector(id).BBox
	if box.IsEmpty() {
		return 0, 0, 0, 0, false
	}
	return g.cell(box.X.Lo), g.cell(box.Y.Lo), g.cell(box.X.Hi), g.cell(box.Y.Hi), true
}

func (g *GridLocator) addItem(l *geometry.Level, id geometry.SectorID) {
	iminx, iminy, imaxx, imaxy, ok := g.cellRange(l, id)
	if !ok {
		return
	}
	g.bounds[0] = min(g.bounds[0], iminx)
	g.bounds[1] = min(g.bounds[1], iminy)
	g.bounds[2] = max(g.bounds[2], imaxx)
	g.bounds[3] = max(g.bounds[3], imaxy)

	for y := iminy; y <= imaxy; y++ {
		for x := iminx; x <= imaxx; x++ {
			h := hashPos2(x, y, len(g.buckets))
			g.pool = append(g.pool, gridItem{id: id, x: x, y: y, next: g.buckets[h]})
			g.buckets[h] = len(g.pool) - 1
		}
	}
}

// Candidates lists the sectors filed under p's cell.
func (g *GridLocator) Candidates(p common.Vec2) []geometry.SectorID {
	x, y := g.cell(p.X()), g.cell(p.Y())
	var res []geometry.SectorID
	for idx := g.buckets[hashPos2(x, y, len(g.buckets))]; idx != noItem; {
		item := &g.pool[idx]
		if item.x == x && item.y == y {
			res = append(res, item.id)
		}
		idx = item.next
	}
	return res
}

func (g *GridLocator) GetItemCountAt(x, y int) int {
	n := 0
	for idx := g.buckets[hashPos2(x, y, len(g.buckets))]; idx != noItem; {
		item := &g.pool[idx]
		if item.x == x && item.y == y {
			n++
		}
		idx = item.next
	}
	return n
}
