package debug_utils

import "image/color"

type Colorb [4]uint8

func (c Colorb) R() uint8 {
	return c[0]
}

func (c Colorb) G() uint8 {
	return c[1]
}

func (c Colorb) B() uint8 {
	return c[2]
}

func (c Colorb) A() uint8 {
	return c[3]
}

func (c Colorb) Int() uint32 {
	return uint32(c.R()) | (uint32(c.G()) << 8) | (uint32(c.B()) << 16) | (uint32(c.A()) << 24)
}

func (c *Colorb) FromInt(col uint32) {
	c[0] = uint8(col & 0xff)
	c[1] = uint8((col >> 8) & 0xff)
	c[2] = uint8((col >> 16) & 0xff)
	c[3] = uint8((col >> 24) & 0xff)
}

func (c Colorb) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

func FromNRGBA(c color.NRGBA) Colorb {
	return Colorb{c.R, c.G, c.B, c.A}
}

func DuRGBA[T int | int32 | uint8](r, g, b, a T) Colorb {
	return Colorb{uint8(r), uint8(g), uint8(b), uint8(a)}
}

func Bit(a, b int) int {
	return (a & (1 << b)) >> b
}

// DuIntToCol gives every small integer its own color.
func DuIntToCol(i, a int) Colorb {
	r := Bit(i, 1) + Bit(i, 3)*2 + 1
	g := Bit(i, 2) + Bit(i, 4)*2 + 1
	b := Bit(i, 0) + Bit(i, 5)*2 + 1
	return DuRGBA(r*63, g*63, b*63, a)
}

func DuDarkenCol(col Colorb) (res Colorb) {
	i := col.Int()
	res.FromInt(((i >> 1) & 0x007f7f7f) | (i & 0xff000000))
	return res
}

func DuLerpCol(ca, cb Colorb, u uint8) Colorb {
	mix := func(a, b uint8) int {
		return (int(a)*(255-int(u)) + int(b)*int(u)) / 255
	}
	return DuRGBA(mix(ca.R(), cb.R()), mix(ca.G(), cb.G()), mix(ca.B(), cb.B()), mix(ca.A(), cb.A()))
}
