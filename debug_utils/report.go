package debug_utils

import (
	"github.com/Espyo/Pikifen-sub020/common/message"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProblemsReport summarizes a triangulation pass: counts, every failed sector
// with its classification and every lone edge with its end points.
func ProblemsReport(l *geometry.Level, problems *geometry.GeometryProblems) (*structpb.Struct, error) {
	ids := l.SectorIDs()
	triangles := 0
	area := 0.0
	for _, id := range ids {
		triangles += len(l.Sector(id).Triangles)
		area += l.Sector(id).SurfaceArea
	}

	failed := []any{}
	for _, s := range problems.SortedSectors() {
		failed = append(failed, map[string]any{
			"sector": int(s),
			"error":  problems.NonSimpleSectors[s].String(),
		})
	}

	lone := []any{}
	for _, e := range problems.SortedLoneEdges() {
		entry := map[string]any{"edge": int(e)}
		if l.IsEdgeValid(e) {
			var ends []any
			for _, v := range l.Edge(e).Vertices {
				if l.IsVertexValid(v) {
					p := l.Pos(v)
					ends = append(ends, []any{p.X(), p.Y()})
				}
			}
			entry["ends"] = ends
		}
		lone = append(lone, entry)
	}

	st, err := structpb.NewStruct(map[string]any{
		"sectors":        len(ids),
		"failed_sectors": failed,
		"lone_edges":     lone,
		"triangles":      triangles,
		"surface_area":   area,
	})
	return st, errors.Wrap(err, "build problems report")
}

func ProblemsReportJSON(l *geometry.Level, problems *geometry.GeometryProblems) ([]byte, error) {
	st, err := ProblemsReport(l, problems)
	if err != nil {
		return nil, err
	}
	return message.EncodeJSON(st, true)
}
