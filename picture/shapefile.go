package picture

import (
	"fmt"
	"image/color"

	"github.com/OpticalFlyer/berry/proj"
	"github.com/jonas-p/go-shp"
)

// ShapefileOptions controls how LoadShapefile turns features into a picture
type ShapefileOptions struct {
	// Projection maps file coordinates to world space. Nil means
	// proj.LatLonToWorld.
	Projection proj.Projection
	// Width and Height are the pixel area the features are fitted into
	Width, Height float64
	Fill          color.Color
	// Background, when set, is painted behind the features
	Background color.Color
}

// LoadShapefile reads the polygon features of a .shp file and fits them
// into a picture of the requested size. Features of other shape types are
// skipped.
func LoadShapefile(path string, opts ShapefileOptions) (Picture, error) {
	r, err := shp.Open(path)
	if err != nil {
		return Picture{}, fmt.Errorf("open shapefile %s failed: %w", path, err)
	}
	defer r.Close()

	project := opts.Projection
	if project == nil {
		project = proj.LatLonToWorld
	}

	var polys []FillPolygon
	bounds := proj.EmptyBounds()
	for r.Next() {
		_, shape := r.Shape()
		p, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		for _, poly := range groupRings(splitParts(p.Parts, p.Points)) {
			for i, ring := range poly.Rings {
				out := make([]Point, len(ring))
				for j, pt := range ring {
					x, y := project(pt.X, pt.Y)
					bounds.Extend(x, y)
					out[j] = Point{X: x, Y: y}
				}
				poly.Rings[i] = out
			}
			polys = append(polys, poly)
		}
	}
	if err := r.Err(); err != nil {
		return Picture{}, fmt.Errorf("read shapefile %s failed: %w", path, err)
	}

	tr := proj.Fit(bounds, opts.Width, opts.Height)
	var pic Picture
	if opts.Background != nil {
		pic = pic.SetColor(opts.Background).FillRect(0, 0, opts.Width, opts.Height)
	}
	fill := opts.Fill
	if fill == nil {
		fill = color.White
	}
	pic = pic.SetColor(fill)
	for _, poly := range polys {
		for _, ring := range poly.Rings {
			for j, pt := range ring {
				x, y := tr.Apply(pt.X, pt.Y)
				ring[j] = Point{X: x, Y: y}
			}
		}
		pic = pic.with(poly)
	}
	return pic, nil
}

func splitParts(parts []int32, points []shp.Point) [][]Point {
	rings := make([][]Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(points) {
			continue
		}
		ring := make([]Point, 0, end-start)
		for _, pt := range points[start:end] {
			ring = append(ring, Point{X: pt.X, Y: pt.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// groupRings attaches each hole to the outline before it. Shapefiles wind
// outlines clockwise and holes counter-clockwise.
func groupRings(rings [][]Point) []FillPolygon {
	var out []FillPolygon
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		if signedArea(ring) > 0 && len(out) > 0 {
			last := &out[len(out)-1]
			last.Rings = append(last.Rings, ring)
			continue
		}
		out = append(out, FillPolygon{Rings: [][]Point{ring}})
	}
	return out
}

// signedArea is positive for counter-clockwise rings in y-up coordinates
func signedArea(ring []Point) float64 {
	var a float64
	for i := range ring {
		j := (i + 1) % len(ring)
		a += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return a / 2
}
