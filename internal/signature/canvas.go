// Package signature rasterises hand drawn signatures into PNG images.
//
// A Canvas only keeps the rendered raster. Strokes are painted as they arrive
// and are not recoverable from the exported image.
package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
)

const (
	DefaultWidth  = 500
	DefaultHeight = 200
	DefaultPen    = 2
)

var ink = color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}

type Point struct {
	X float64
	Y float64
}

type Stroke []Point

type Canvas struct {
	img    *image.NRGBA
	pen    int
	marked bool
}

func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	return &Canvas{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
		pen: DefaultPen,
	}
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Stroke paints a polyline through points. A single point paints a dot.
func (c *Canvas) Stroke(points Stroke) {
	switch len(points) {
	case 0:
		return
	case 1:
		c.dot(points[0].X, points[0].Y)
		return
	}

	for i := 1; i < len(points); i++ {
		c.segment(points[i-1], points[i])
	}
}

// Clear erases everything drawn so far. Calling it on an empty canvas is a no-op.
func (c *Canvas) Clear() {
	if !c.marked {
		return
	}
	clear(c.img.Pix)
	c.marked = false
}

func (c *Canvas) IsEmpty() bool {
	return !c.marked
}

// ExportImage returns the canvas as a PNG data URL, or "" when nothing was drawn.
func (c *Canvas) ExportImage() (string, error) {
	if c.IsEmpty() {
		return "", nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return "", fmt.Errorf("encode signature png: %w", err)
	}

	return EncodeDataURL(buf.Bytes()), nil
}

func (c *Canvas) segment(from, to Point) {
	from, to, ok := c.clip(from, to)
	if !ok {
		return
	}

	dx := to.X - from.X
	dy := to.Y - from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		c.dot(from.X, from.Y)
		return
	}

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		c.dot(from.X+dx*t, from.Y+dy*t)
	}
}

// clip trims the segment to the canvas grown by the pen radius
// (Liang-Barsky), so the interpolation never walks more than the canvas
// diagonal. ok is false when no part of the segment can leave ink.
func (c *Canvas) clip(from, to Point) (Point, Point, bool) {
	b := c.img.Bounds()
	pen := float64(c.pen)
	minX, minY := float64(b.Min.X)-pen, float64(b.Min.Y)-pen
	maxX, maxY := float64(b.Max.X)+pen, float64(b.Max.Y)+pen

	dx := to.X - from.X
	dy := to.Y - from.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, from.X - minX},
		{dx, maxX - from.X},
		{-dy, from.Y - minY},
		{dy, maxY - from.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return from, to, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return from, to, false
		}
	}

	clipped := Point{X: from.X + dx*t1, Y: from.Y + dy*t1}
	from = Point{X: from.X + dx*t0, Y: from.Y + dy*t0}
	return from, clipped, true
}

func (c *Canvas) dot(x, y float64) {
	cx := int(math.Round(x))
	cy := int(math.Round(y))
	r := c.pen
	bounds := c.img.Bounds()

	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			if ox*ox+oy*oy > r*r {
				continue
			}
			p := image.Pt(cx+ox, cy+oy)
			if !p.In(bounds) {
				continue
			}
			c.img.SetNRGBA(p.X, p.Y, ink)
			c.marked = true
		}
	}
}
