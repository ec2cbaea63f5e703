package common

// Last time I checked the if version got compiled using cmov, which was a lot faster than module (with idiv).
func Prev[T IT](i, n T) T {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func Next[T IT](i, n T) T {
	if i+1 < n {
		return i + 1
	}
	return 0
}

// Area2 is twice the signed area of triangle abc. Positive when abc turns
// counterclockwise.
func Area2(a, b, c Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

// SignedArea is the shoelace area of the ring; positive for counterclockwise.
func SignedArea(verts []Vec2) float64 {
	area := 0.0
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		area += verts[j][0]*verts[i][1] - verts[i][0]*verts[j][1]
	}
	return area / 2
}

// / @par
// /
// / All points are projected onto the xy-plane.
// /
// / @param[in]	verts		The polygon vertices
// / @param[in]	point		The point to check
// / @returns true if the point lies within the polygon, false otherwise.
func PointInPoly(verts []Vec2, point Vec2) bool {
	inPoly := false
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi := verts[i]
		vj := verts[j]
		if (vi[1] > point[1]) == (vj[1] > point[1]) {
			continue
		}
		if point[0] >= (vj[0]-vi[0])*(point[1]-vi[1])/(vj[1]-vi[1])+vi[0] {
			continue
		}
		inPoly = !inPoly
	}
	return inPoly
}

// PointInTriangle reports whether p is inside abc or on its border. The
// winding of abc does not matter.
func PointInTriangle(p, a, b, c Vec2) bool {
	d1 := Area2(a, b, p)
	d2 := Area2(b, c, p)
	d3 := Area2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// PointStrictlyInTriangle reports whether p lies inside abc and farther than
// eps (in doubled-area units) from every side. Winding does not matter.
func PointStrictlyInTriangle(p, a, b, c Vec2, eps float64) bool {
	if Area2(a, b, c) < 0 {
		b, c = c, b
	}
	return Area2(a, b, p) > eps && Area2(b, c, p) > eps && Area2(c, a, p) > eps
}

// PointOnOrInTriangle is PointInTriangle with the sides widened by eps
// (in doubled-area units). Winding does not matter.
func PointOnOrInTriangle(p, a, b, c Vec2, eps float64) bool {
	if Area2(a, b, c) < 0 {
		b, c = c, b
	}
	return Area2(a, b, p) >= -eps && Area2(b, c, p) >= -eps && Area2(c, a, p) >= -eps
}
