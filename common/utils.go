package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
)

type Vec2 = mgl64.Vec2

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// AssertTrue panics when ok is false. It guards against programmer errors,
// never against bad level data.
func AssertTrue(ok bool, msg ...any) {
	if !ok {
		if len(msg) == 0 {
			panic("assertion failed")
		}
		panic(fmt.Sprint(msg...))
	}
}

func ToR2(v Vec2) r2.Point {
	return r2.Point{X: v.X(), Y: v.Y()}
}

func FromR2(p r2.Point) Vec2 {
	return Vec2{p.X, p.Y}
}
