package proj

import "math"

// Bounds is an axis-aligned rectangle in world space
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns bounds that any point will extend
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Empty reports whether b holds no point
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend grows b to include (x, y)
func (b *Bounds) Extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Transform scales and offsets world coordinates into pixels
type Transform struct {
	Scale      float64
	OffX, OffY float64
}

// Apply maps a world point to pixels
func (t Transform) Apply(x, y float64) (px, py float64) {
	return x*t.Scale + t.OffX, y*t.Scale + t.OffY
}

// Fit returns the transform that places b inside a width x height pixel
// area, keeping its aspect ratio and centering it on the shorter side
func Fit(b Bounds, width, height float64) Transform {
	if b.Empty() || width <= 0 || height <= 0 {
		return Transform{Scale: 1}
	}
	bw, bh := b.Width(), b.Height()
	var scale float64
	switch {
	case bw <= 0 && bh <= 0:
		scale = 1
	case bw <= 0:
		scale = height / bh
	case bh <= 0:
		scale = width / bw
	default:
		scale = math.Min(width/bw, height/bh)
	}
	return Transform{
		Scale: scale,
		OffX:  (width-bw*scale)/2 - b.MinX*scale,
		OffY:  (height-bh*scale)/2 - b.MinY*scale,
	}
}
