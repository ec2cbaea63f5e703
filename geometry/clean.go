package geometry

import (
	"slices"

	"github.com/Espyo/Pikifen-sub020/common"
)

// CleanLoop removes degenerate vertices from a closed loop until none are
// left: vertices within posEps of the next one, and vertices where the loop
// runs straight on (incoming and outgoing directions within angleEps).
// Running it on its own output changes nothing. The result may have fewer
// than three vertices, in which case the loop has no area.
func CleanLoop(l *Level, verts []VertexID, posEps, angleEps float64) []VertexID {
	out := slices.Clone(verts)
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; {
			n := len(out)
			pp := l.Pos(out[common.Prev(i, n)])
			pc := l.Pos(out[i])
			pn := l.Pos(out[common.Next(i, n)])

			remove := false
			if common.Vequal(pc, pn, posEps) {
				remove = true
			} else if !common.Vequal(pp, pc, posEps) {
				in := common.Angle(pp, pc)
				leave := common.Angle(pc, pn)
				remove = common.AngleDelta(in, leave) < angleEps
			}

			if remove {
				out = slices.Delete(out, i, i+1)
				changed = true
				continue
			}
			i++
		}
		if len(out) < 3 {
			break
		}
	}
	return out
}
