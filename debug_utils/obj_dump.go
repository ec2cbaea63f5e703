package debug_utils

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/pkg/errors"
)

// DuDumpLevelToObj writes the triangulated sectors as a Wavefront OBJ, one
// group per sector. The floor plan lies in the x/z plane with each sector's
// vertices raised to its height, so a sector's vertices are written again for
// every sector using them.
func DuDumpLevelToObj(l *geometry.Level, w io.Writer) error {
	if w == nil {
		return errors.New("DuDumpLevelToObj: output is nil")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Sector geometry\n")
	fmt.Fprintf(bw, "o Level\n")

	base := 1
	for _, id := range l.SectorIDs() {
		sec := l.Sector(id)
		if len(sec.Triangles) == 0 {
			continue
		}
		fmt.Fprintf(bw, "\ng sector_%d\n", id)
		local := map[geometry.VertexID]int{}
		var order []geometry.VertexID
		for _, t := range sec.Triangles {
			for _, v := range t {
				if _, ok := local[v]; !ok {
					local[v] = base + len(order)
					order = append(order, v)
				}
			}
		}
		for _, v := range order {
			p := l.Pos(v)
			fmt.Fprintf(bw, "v %f %f %f\n", p.X(), sec.Z, -p.Y())
		}
		for _, t := range sec.Triangles {
			fmt.Fprintf(bw, "f %d %d %d\n", local[t[0]], local[t[1]], local[t[2]])
		}
		base += len(order)
	}
	return errors.Wrap(bw.Flush(), "write obj")
}
