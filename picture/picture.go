// Package picture holds vector payloads: small command lists that the
// renderer rasterizes and the measurer sizes.
package picture

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
)

// Point is a vertex in picture space
type Point struct {
	X, Y float64
}

// Command is one drawing instruction
type Command interface {
	// extent returns the furthest x and y the command paints
	extent() (float64, float64)
}

// SetColor changes the fill color of the commands that follow
type SetColor struct {
	Color color.RGBA
}

func (SetColor) extent() (float64, float64) { return 0, 0 }

// FillRect paints a rectangle
type FillRect struct {
	X, Y, W, H float64
}

func (r FillRect) extent() (float64, float64) {
	return r.X + r.W, r.Y + r.H
}

// FillPolygon paints a polygon. The first ring is the outline and the
// remaining rings are holes.
type FillPolygon struct {
	Rings [][]Point
}

func (p FillPolygon) extent() (float64, float64) {
	var mx, my float64
	for _, ring := range p.Rings {
		for _, pt := range ring {
			mx = math.Max(mx, pt.X)
			my = math.Max(my, pt.Y)
		}
	}
	return mx, my
}

// Picture is an ordered command list. The zero value is an empty picture
// and the builder methods return extended copies.
type Picture struct {
	Commands []Command
}

func (p Picture) with(c Command) Picture {
	cmds := make([]Command, len(p.Commands), len(p.Commands)+1)
	copy(cmds, p.Commands)
	return Picture{Commands: append(cmds, c)}
}

// SetColor returns p followed by a color change
func (p Picture) SetColor(c color.Color) Picture {
	return p.with(SetColor{Color: color.RGBAModel.Convert(c).(color.RGBA)})
}

// FillRect returns p followed by a rectangle fill
func (p Picture) FillRect(x, y, w, h float64) Picture {
	return p.with(FillRect{X: x, Y: y, W: w, H: h})
}

// FillPolygon returns p followed by a polygon fill
func (p Picture) FillPolygon(outline []Point, holes ...[]Point) Picture {
	rings := make([][]Point, 0, 1+len(holes))
	rings = append(rings, outline)
	rings = append(rings, holes...)
	return p.with(FillPolygon{Rings: rings})
}

// Empty reports whether p paints nothing
func (p Picture) Empty() bool {
	for _, c := range p.Commands {
		if _, ok := c.(SetColor); !ok {
			return false
		}
	}
	return true
}

// Size returns the extent of p measured from the origin, rounded up
func (p Picture) Size() (w, h uint32) {
	var mx, my float64
	for _, c := range p.Commands {
		x, y := c.extent()
		mx = math.Max(mx, x)
		my = math.Max(my, y)
	}
	return uint32(math.Ceil(mx)), uint32(math.Ceil(my))
}

// Key identifies p's content for caching rasterized images
func (p Picture) Key() uint64 {
	h := fnv.New64a()
	for _, c := range p.Commands {
		fmt.Fprintf(h, "%T%v;", c, c)
	}
	return h.Sum64()
}
