package picture

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/OpticalFlyer/berry/proj"
	"github.com/jonas-p/go-shp"
)

func TestPictureSize(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	tests := []struct {
		name  string
		pic   Picture
		wantW uint32
		wantH uint32
	}{
		{"empty", Picture{}, 0, 0},
		{"color only", Picture{}.SetColor(red), 0, 0},
		{"single rect", Picture{}.SetColor(red).FillRect(0, 0, 40, 12), 40, 12},
		{"offset rects", Picture{}.FillRect(5, 5, 10, 10).FillRect(0, 20, 3, 3.5), 15, 24},
		{"polygon", Picture{}.FillPolygon([]Point{{0, 0}, {30.2, 0}, {10, 8}}), 31, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.pic.Size()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPictureBuilderCopies(t *testing.T) {
	base := Picture{}.FillRect(0, 0, 1, 1)
	a := base.FillRect(0, 0, 5, 5)
	b := base.FillRect(0, 0, 9, 9)
	if len(base.Commands) != 1 {
		t.Fatalf("base grew to %d commands", len(base.Commands))
	}
	if a.Key() == b.Key() {
		t.Errorf("different pictures share a key")
	}
	if base.Key() != (Picture{}.FillRect(0, 0, 1, 1)).Key() {
		t.Errorf("equal pictures have different keys")
	}
	if !(Picture{}.SetColor(color.Black)).Empty() || a.Empty() {
		t.Errorf("Empty() misreports")
	}
}

func TestTriangulate(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		name      string
		poly      FillPolygon
		wantTris  int
		wantVerts int
	}{
		{"square", FillPolygon{Rings: [][]Point{square}}, 2, 4},
		{"closed square", FillPolygon{Rings: [][]Point{append(square, square[0])}}, 2, 4},
		{"square with hole", FillPolygon{Rings: [][]Point{square, {{3, 3}, {3, 7}, {7, 7}, {7, 3}}}}, 8, 8},
		{"degenerate", FillPolygon{Rings: [][]Point{{{0, 0}, {1, 1}}}}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Triangulate(tt.poly)
			if err != nil {
				t.Fatalf("Triangulate() error = %v", err)
			}
			if got := len(mesh.Indices) / 3; got != tt.wantTris {
				t.Errorf("triangles = %d, want %d", got, tt.wantTris)
			}
			if got := len(mesh.Vertices); got != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", got, tt.wantVerts)
			}
			for _, idx := range mesh.Indices {
				if int(idx) >= len(mesh.Vertices) {
					t.Fatalf("index %d out of range", idx)
				}
			}
		})
	}
}

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// Clockwise outline with a counter-clockwise hole, then a second
	// feature beside it.
	outer := []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	hole := []shp.Point{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 8}, {X: 2, Y: 2}}
	first := shp.Polygon(*shp.NewPolyLine([][]shp.Point{outer, hole}))
	second := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{{X: 20, Y: 0}, {X: 20, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 0}, {X: 20, Y: 0}}}))
	w.Write(&first)
	w.Write(&second)
	w.Close()

	pic, err := LoadShapefile(path, ShapefileOptions{
		Projection: proj.Planar,
		Width:      300,
		Height:     100,
		Fill:       color.RGBA{G: 200, A: 255},
	})
	if err != nil {
		t.Fatalf("LoadShapefile() error = %v", err)
	}

	var polys []FillPolygon
	for _, c := range pic.Commands {
		if p, ok := c.(FillPolygon); ok {
			polys = append(polys, p)
		}
	}
	if len(polys) != 2 {
		t.Fatalf("polygons = %d, want 2", len(polys))
	}
	if got := len(polys[0].Rings); got != 2 {
		t.Errorf("first polygon rings = %d, want outline and hole", got)
	}
	if w, h := pic.Size(); w != 300 || h != 100 {
		t.Errorf("Size() = %dx%d, want 300x100", w, h)
	}
}

func TestLoadShapefileMissing(t *testing.T) {
	if _, err := LoadShapefile(filepath.Join(t.TempDir(), "nope.shp"), ShapefileOptions{}); err == nil {
		t.Fatalf("LoadShapefile() error = nil for missing file")
	}
}
