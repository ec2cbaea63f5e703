package geometry

import (
	"sort"

	"github.com/pkg/errors"
)

// TriangulationError classifies why a sector could not be triangulated.
type TriangulationError int

const (
	TriangulationNoError TriangulationError = iota
	// The sector handle is bad or the sector has no edges.
	TriangulationInvalidArgs
	// Some loop of the sector's edges does not close.
	TriangulationNotClosed
	// The sector lists edges that cannot be part of any of its loops.
	TriangulationLoneEdges
	// Ear clipping ran out of ears: the sector is not a simple polygon.
	TriangulationNoEars
)

func (e TriangulationError) String() string {
	switch e {
	case TriangulationNoError:
		return "no error"
	case TriangulationInvalidArgs:
		return "invalid arguments"
	case TriangulationNotClosed:
		return "sector is not closed"
	case TriangulationLoneEdges:
		return "sector has lone edges"
	case TriangulationNoEars:
		return "sector is not simple (no ears)"
	}
	return "unknown triangulation error"
}

func (e TriangulationError) Error() string {
	return e.String()
}

// Classify extracts the classification carried by err.
func Classify(err error) TriangulationError {
	if err == nil {
		return TriangulationNoError
	}
	var te TriangulationError
	if errors.As(err, &te) {
		return te
	}
	return TriangulationInvalidArgs
}

// GeometryProblems is the diagnostic report of a triangulation pass.
type GeometryProblems struct {
	NonSimpleSectors map[SectorID]TriangulationError
	LoneEdges        map[EdgeID]struct{}
}

func NewGeometryProblems() *GeometryProblems {
	return &GeometryProblems{
		NonSimpleSectors: map[SectorID]TriangulationError{},
		LoneEdges:        map[EdgeID]struct{}{},
	}
}

func (p *GeometryProblems) Reset() {
	p.NonSimpleSectors = map[SectorID]TriangulationError{}
	p.LoneEdges = map[EdgeID]struct{}{}
}

func (p *GeometryProblems) Empty() bool {
	return len(p.NonSimpleSectors) == 0 && len(p.LoneEdges) == 0
}

func (p *GeometryProblems) SortedSectors() []SectorID {
	res := make([]SectorID, 0, len(p.NonSimpleSectors))
	for s := range p.NonSimpleSectors {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (p *GeometryProblems) SortedLoneEdges() []EdgeID {
	res := make([]EdgeID, 0, len(p.LoneEdges))
	for e := range p.LoneEdges {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (p *GeometryProblems) IsLoneEdge(e EdgeID) bool {
	_, ok := p.LoneEdges[e]
	return ok
}
