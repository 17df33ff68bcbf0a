package picture

import (
	"errors"
	"fmt"
	"math"

	earcut "github.com/flywave/go-earcut"
)

// ErrTooManyVertices is returned for polygons that do not fit 16-bit
// vertex indices
var ErrTooManyVertices = errors.New("picture: polygon has too many vertices")

// Mesh is a triangulated polygon ready for indexed drawing
type Mesh struct {
	Vertices []Point
	Indices  []uint16
}

// Triangulate splits poly into triangles. Holes are cut out of the first
// ring.
func Triangulate(poly FillPolygon) (Mesh, error) {
	var mesh Mesh
	if len(poly.Rings) == 0 {
		return mesh, nil
	}

	var data []float64
	var holes []int
	for i, ring := range poly.Rings {
		ring = openRing(ring)
		if len(ring) < 3 {
			if i == 0 {
				return mesh, nil
			}
			continue
		}
		if i > 0 {
			holes = append(holes, len(mesh.Vertices))
		}
		for _, pt := range ring {
			data = append(data, pt.X, pt.Y)
			mesh.Vertices = append(mesh.Vertices, pt)
		}
	}
	if len(mesh.Vertices) > math.MaxUint16 {
		return Mesh{}, ErrTooManyVertices
	}

	tris, err := earcut.Earcut(data, holes, 2)
	if err != nil {
		return Mesh{}, fmt.Errorf("triangulate polygon failed: %w", err)
	}
	mesh.Indices = make([]uint16, len(tris))
	for i, idx := range tris {
		mesh.Indices[i] = uint16(idx)
	}
	return mesh, nil
}

// openRing drops a closing vertex that repeats the first one
func openRing(ring []Point) []Point {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}
