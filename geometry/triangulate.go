package geometry

import (
	"sync"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

type Options struct {
	// Vertices closer than this are merged by cleaning.
	PositionEpsilon float64
	// Corners straighter than this (radians) are dropped by cleaning.
	AngleEpsilon float64
	// Sectors triangulated at once by TriangulateLevel. 0 or 1 runs inline.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		PositionEpsilon: 0.001,
		AngleEpsilon:    0.0001,
	}
}

// Triangulator runs the sector pipeline: polygon building, hole cutting and
// ear clipping.
type Triangulator struct {
	opts Options
	log  *zap.Logger
}

func NewTriangulator(opts Options, log *zap.Logger) *Triangulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Triangulator{opts: opts, log: log}
}

func (t *Triangulator) Options() Options {
	return t.opts
}

// sectorResult is everything one sector's triangulation produced. Computing
// it only reads the level.
type sectorResult struct {
	sector    SectorID
	triangles []Triangle
	bbox      r2.Rect
	area      float64
	traced    []EdgeID
	failed    []EdgeID
	err       error
}

func (t *Triangulator) triangulate(l *Level, sector SectorID) *sectorResult {
	res := &sectorResult{sector: sector, bbox: r2.EmptyRect()}
	for _, v := range l.SectorVertices(sector) {
		res.bbox = res.bbox.AddPoint(common.ToR2(l.Pos(v)))
	}

	set, err := buildPolygons(l, sector, t.opts)
	res.traced, res.failed = set.traced, set.failed
	if err != nil {
		res.err = err
		return res
	}

	polys, err := CutHoles(l, set.root, t.opts.PositionEpsilon)
	if err != nil {
		res.err = err
		return res
	}

	var tris []Triangle
	area := 0.0
	for _, p := range polys {
		area += p.SignedArea(l)
		pt, err := EarClip(l, p.Verts)
		if err != nil {
			res.err = err
			return res
		}
		tris = append(tris, pt...)
	}
	res.triangles = tris
	res.area = area
	return res
}

// store writes a result into its sector and logs it.
func (t *Triangulator) store(l *Level, res *sectorResult) {
	sec := &l.Sectors[res.sector]
	sec.Triangles = res.triangles
	sec.BBox = res.bbox
	sec.SurfaceArea = res.area
	if res.err != nil {
		sec.Triangles = nil
		t.log.Warn("sector triangulation failed",
			zap.Int32("sector", int32(res.sector)),
			zap.Stringer("class", Classify(res.err)),
			zap.Error(res.err),
			zap.Int("failed_edges", len(res.failed)))
		return
	}
	t.log.Debug("sector triangulated",
		zap.Int32("sector", int32(res.sector)),
		zap.Int("triangles", len(res.triangles)),
		zap.Float64("area", res.area))
}

// TriangulateSector rebuilds one sector's triangles and bounding box and
// updates problems with the outcome: the sector's classification is replaced,
// edges its loops used are cleared from the lone set and edges that could not
// be traced are added. On failure the triangle list is left empty.
func (t *Triangulator) TriangulateSector(l *Level, sector SectorID, problems *GeometryProblems) error {
	common.AssertTrue(l != nil && problems != nil, "nil level or problems")
	common.AssertTrue(l.IsSectorValid(sector), "invalid sector ", sector)

	res := t.triangulate(l, sector)
	t.store(l, res)

	delete(problems.NonSimpleSectors, sector)
	for _, e := range res.traced {
		delete(problems.LoneEdges, e)
	}
	for _, e := range res.failed {
		problems.LoneEdges[e] = struct{}{}
	}
	if res.err != nil {
		problems.NonSimpleSectors[sector] = Classify(res.err)
	}
	return res.err
}

// TriangulateLevel triangulates every sector and rebuilds problems from
// scratch. An edge is reported lone when it belongs to no sector, or when some
// sector failed to trace it and no sector traced it. With Options.Workers above
// one, sectors are processed concurrently; the outcome is the same.
func (t *Triangulator) TriangulateLevel(l *Level, problems *GeometryProblems) {
	common.AssertTrue(l != nil && problems != nil, "nil level or problems")
	problems.Reset()

	ids := l.SectorIDs()
	results := make([]*sectorResult, len(ids))
	if t.opts.Workers <= 1 {
		for i, id := range ids {
			results[i] = t.triangulate(l, id)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < t.opts.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = t.triangulate(l, ids[i])
				}
			}()
		}
		for i := range ids {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	traced := map[EdgeID]bool{}
	for _, res := range results {
		t.store(l, res)
		if res.err != nil {
			problems.NonSimpleSectors[res.sector] = Classify(res.err)
		}
		for _, e := range res.traced {
			traced[e] = true
		}
	}
	for _, res := range results {
		for _, e := range res.failed {
			if !traced[e] {
				problems.LoneEdges[e] = struct{}{}
			}
		}
	}
	for _, e := range l.LoneEdges() {
		problems.LoneEdges[e] = struct{}{}
	}

	t.log.Info("level triangulated",
		zap.Int("sectors", len(ids)),
		zap.Int("failed_sectors", len(problems.NonSimpleSectors)),
		zap.Int("lone_edges", len(problems.LoneEdges)))
}
