package geometry

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate checks the cross references between vertices, edges and sectors
// and returns every violation found, combined.
func (l *Level) Validate() error {
	var err error
	for i := range l.Edges {
		e := EdgeID(i)
		if !l.IsEdgeValid(e) {
			continue
		}
		edge := &l.Edges[i]
		for end, v := range edge.Vertices {
			if v == NoVertex {
				err = multierr.Append(err, errors.Errorf("edge %d: vertex %d is unset", e, end))
				continue
			}
			if !l.IsVertexValid(v) {
				err = multierr.Append(err, errors.Errorf("edge %d: vertex %d is not a live vertex", e, v))
				continue
			}
			if !slices.Contains(l.Vertices[v].Edges, e) {
				err = multierr.Append(err, errors.Errorf("edge %d: vertex %d does not list it", e, v))
			}
		}
		if edge.Vertices[0] != NoVertex && edge.Vertices[0] == edge.Vertices[1] {
			err = multierr.Append(err, errors.Errorf("edge %d: both ends are vertex %d", e, edge.Vertices[0]))
		}
		for _, s := range edge.Sectors {
			if s == NoSector {
				continue
			}
			if !l.IsSectorValid(s) {
				err = multierr.Append(err, errors.Errorf("edge %d: sector %d is not a live sector", e, s))
				continue
			}
			if !slices.Contains(l.Sectors[s].Edges, e) {
				err = multierr.Append(err, errors.Errorf("edge %d: sector %d does not list it", e, s))
			}
		}
	}

	for i := range l.Vertices {
		v := VertexID(i)
		if !l.IsVertexValid(v) {
			continue
		}
		seen := map[EdgeID]bool{}
		for _, e := range l.Vertices[i].Edges {
			if seen[e] {
				err = multierr.Append(err, errors.Errorf("vertex %d: edge %d listed twice", v, e))
				continue
			}
			seen[e] = true
			if !l.IsEdgeValid(e) {
				err = multierr.Append(err, errors.Errorf("vertex %d: edge %d is not a live edge", v, e))
				continue
			}
			if l.Edges[e].Vertices[0] != v && l.Edges[e].Vertices[1] != v {
				err = multierr.Append(err, errors.Errorf("vertex %d: edge %d does not end on it", v, e))
			}
		}
	}

	for i := range l.Sectors {
		s := SectorID(i)
		if !l.IsSectorValid(s) {
			continue
		}
		seen := map[EdgeID]bool{}
		for _, e := range l.Sectors[i].Edges {
			if seen[e] {
				err = multierr.Append(err, errors.Errorf("sector %d: edge %d listed twice", s, e))
				continue
			}
			seen[e] = true
			if !l.IsEdgeValid(e) {
				err = multierr.Append(err, errors.Errorf("sector %d: edge %d is not a live edge", s, e))
				continue
			}
			if l.EdgeSideOf(e, s) < 0 {
				err = multierr.Append(err, errors.Errorf("sector %d: edge %d does not border it", s, e))
			}
		}
	}
	return err
}
