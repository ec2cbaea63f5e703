package debug_utils

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/vector"
)

type RenderOptions struct {
	Width, Height int
	// Empty border around the level, in pixels.
	Margin int
	// Sector handles, and the failure of failed sectors, drawn at the center
	// of each sector's box.
	Labels   bool
	FontSize float64
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 1024, Height: 1024, Margin: 16, Labels: true, FontSize: 12}
}

// RasterDraw draws primitives into an RGBA image. Level coordinates are
// mapped so the given bounds fill the image; y grows upwards.
type RasterDraw struct {
	img    *image.RGBA
	z      *vector.Rasterizer
	bounds r2.Rect
	scale  float64
	margin float64

	prim  DuDebugDrawPrimitives
	size  float32
	verts []duVertex
}

func NewRasterDraw(img *image.RGBA, bounds r2.Rect, margin int) *RasterDraw {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	inner := r2.Point{X: float64(w - 2*margin), Y: float64(h - 2*margin)}
	size := bounds.Size()
	scale := 1.0
	if size.X > 0 && size.Y > 0 {
		scale = math.Min(inner.X/size.X, inner.Y/size.Y)
	}
	return &RasterDraw{
		img:    img,
		z:      vector.NewRasterizer(w, h),
		bounds: bounds,
		scale:  scale,
		margin: float64(margin),
	}
}

// ToPixel maps a level position to image coordinates.
func (d *RasterDraw) ToPixel(p common.Vec2) (float32, float32) {
	x := d.margin + (p.X()-d.bounds.X.Lo)*d.scale
	y := float64(d.img.Bounds().Dy()) - d.margin - (p.Y()-d.bounds.Y.Lo)*d.scale
	return float32(x), float32(y)
}

func (d *RasterDraw) Begin(prim DuDebugDrawPrimitives, size ...float32) {
	d.prim = prim
	d.size = 1
	if len(size) > 0 {
		d.size = size[0]
	}
	d.verts = d.verts[:0]
}

func (d *RasterDraw) Vertex(pos common.Vec2, color Colorb) {
	d.verts = append(d.verts, duVertex{pos: pos, color: color})
	switch {
	case d.prim == DU_DRAW_POINTS:
		d.point(d.verts[0])
	case d.prim == DU_DRAW_LINES && len(d.verts) == 2:
		d.line(d.verts[0], d.verts[1])
	case d.prim == DU_DRAW_TRIS && len(d.verts) == 3:
		d.tri(d.verts[0], d.verts[1], d.verts[2])
	default:
		return
	}
	d.verts = d.verts[:0]
}

func (d *RasterDraw) End() {
	d.verts = d.verts[:0]
}

func (d *RasterDraw) fill(col Colorb, pts ...[2]float32) {
	d.z.Reset(d.img.Bounds().Dx(), d.img.Bounds().Dy())
	d.z.DrawOp = draw.Over
	d.z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		d.z.LineTo(p[0], p[1])
	}
	d.z.ClosePath()
	d.z.Draw(d.img, d.img.Bounds(), image.NewUniform(col.NRGBA()), image.Point{})
}

func (d *RasterDraw) point(v duVertex) {
	x, y := d.ToPixel(v.pos)
	r := d.size / 2
	d.fill(v.color, [2]float32{x - r, y - r}, [2]float32{x + r, y - r}, [2]float32{x + r, y + r}, [2]float32{x - r, y + r})
}

func (d *RasterDraw) line(a, b duVertex) {
	ax, ay := d.ToPixel(a.pos)
	bx, by := d.ToPixel(b.pos)
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*d.size/2, dx/l*d.size/2
	d.fill(a.color, [2]float32{ax + nx, ay + ny}, [2]float32{bx + nx, by + ny}, [2]float32{bx - nx, by - ny}, [2]float32{ax - nx, ay - ny})
}

func (d *RasterDraw) tri(a, b, c duVertex) {
	ax, ay := d.ToPixel(a.pos)
	bx, by := d.ToPixel(b.pos)
	cx, cy := d.ToPixel(c.pos)
	d.fill(a.color, [2]float32{ax, ay}, [2]float32{bx, by}, [2]float32{cx, cy})
}

// Label writes text with its baseline starting at pos.
func (d *RasterDraw) Label(pos common.Vec2, text string, col Colorb, fontSize float64) error {
	f, err := labelFont()
	if err != nil {
		return errors.Wrap(err, "parse label font")
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetClip(d.img.Bounds())
	c.SetDst(d.img)
	c.SetSrc(image.NewUniform(col.NRGBA()))
	x, y := d.ToPixel(pos)
	_, err = c.DrawString(text, freetype.Pt(int(x), int(y)))
	return errors.Wrap(err, "draw label")
}

var labelFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func levelBounds(l *geometry.Level) r2.Rect {
	r := r2.EmptyRect()
	for i := range l.Vertices {
		if l.IsVertexValid(geometry.VertexID(i)) {
			r = r.AddPoint(common.ToR2(l.Vertices[i].Pos))
		}
	}
	return r
}

// RenderLevel paints the level as DuDebugDrawLevel describes it onto a white
// image, with optional sector labels.
func RenderLevel(l *geometry.Level, problems *geometry.GeometryProblems, opts RenderOptions) (*image.RGBA, error) {
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return nil, errors.Errorf("image %dx%d too small for margin %d", opts.Width, opts.Height, opts.Margin)
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	bounds := levelBounds(l)
	if bounds.IsEmpty() {
		return img, nil
	}
	dd := NewRasterDraw(img, bounds, opts.Margin)
	DuDebugDrawLevel(dd, l, problems)

	if !opts.Labels {
		return img, nil
	}
	for _, id := range l.SectorIDs() {
		sec := l.Sector(id)
		if sec.BBox.IsEmpty() {
			continue
		}
		text := fmt.Sprintf("S%d", id)
		col := DuRGBA(0, 0, 0, 255)
		if problems != nil {
			if e, ok := problems.NonSimpleSectors[id]; ok {
				text += ": " + e.String()
				col = colFailedEdge
			}
		}
		if err := dd.Label(common.FromR2(sec.BBox.Center()), text, col, opts.FontSize); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}
