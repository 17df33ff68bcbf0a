package layout

import "math"

// Box is an entity's solved geometry. Only the layout engines write it.
type Box struct {
	X, Y, Z       int32
	Width, Height uint32
}

func (b Box) Left() int32   { return b.X }
func (b Box) Top() int32    { return b.Y }
func (b Box) Right() int32  { return b.X + int32(b.Width) }
func (b Box) Bottom() int32 { return b.Y + int32(b.Height) }

// Contains reports whether (x, y) lies in b, edges included
func (b Box) Contains(x, y int32) bool {
	return b.Left() <= x && x <= b.Right() && b.Top() <= y && y <= b.Bottom()
}

// ContentSize is the measured footprint of an entity's payload this frame
type ContentSize struct {
	Width, Height uint32
}

// Grow widens c to cover w x h
func (c *ContentSize) Grow(w, h uint32) {
	if w > c.Width {
		c.Width = w
	}
	if h > c.Height {
		c.Height = h
	}
}

// Shrinkwrap marks an entity whose box should follow its ContentSize
type Shrinkwrap struct{}

// Viewport is the window size sampled for one frame
type Viewport struct {
	Width, Height uint32
}

// snap removes solver noise such as 49.9999999 before truncation
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-6 {
		return r
	}
	return math.Trunc(v)
}

func toInt32(v float64) int32 {
	v = snap(v)
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

func toUint32(v float64) uint32 {
	v = snap(v)
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}
