// Package fonts hands out sized font faces and measures text with them
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is used for a zero or negative size
const DefaultSize = 13

type measureKey struct {
	text string
	size float64
}

type measurement struct {
	w, h uint32
}

// Cache creates one face per size and remembers every measurement
type Cache struct {
	font     *opentype.Font
	faces    map[float64]font.Face
	measured map[measureKey]measurement
}

// New parses the bundled Go Regular font
func New() (*Cache, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font failed: %w", err)
	}
	return NewWithFont(f), nil
}

// NewWithFont creates a cache for f. A nil font falls back to the fixed
// 7x13 face at every size.
func NewWithFont(f *opentype.Font) *Cache {
	return &Cache{
		font:     f,
		faces:    make(map[float64]font.Face),
		measured: make(map[measureKey]measurement),
	}
}

// Face returns the face for size, creating it on first use
func (c *Cache) Face(size float64) font.Face {
	if size <= 0 {
		size = DefaultSize
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	var face font.Face = basicfont.Face7x13
	if c.font != nil {
		f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			face = f
		}
	}
	c.faces[size] = face
	return face
}

// LineHeight returns the distance between baselines at size
func (c *Cache) LineHeight(size float64) int {
	return c.Face(size).Metrics().Height.Ceil()
}

// Measure returns the pixel size of s at size. Lines are split on '\n';
// the width is the widest line and the height is one line height per
// line. The empty string measures 0x0.
func (c *Cache) Measure(s string, size float64) (w, h uint32) {
	if s == "" {
		return 0, 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	key := measureKey{s, size}
	if m, ok := c.measured[key]; ok {
		return m.w, m.h
	}

	face := c.Face(size)
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > int(w) {
			w = uint32(lw)
		}
	}
	h = uint32(len(lines) * c.LineHeight(size))

	c.measured[key] = measurement{w, h}
	return w, h
}

// Len returns the number of cached measurements
func (c *Cache) Len() int {
	return len(c.measured)
}

// Close releases every face
func (c *Cache) Close() error {
	for size, f := range c.faces {
		if f == basicfont.Face7x13 {
			continue
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close face %v failed: %w", size, err)
		}
	}
	clear(c.faces)
	return nil
}
