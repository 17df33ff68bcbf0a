// Package snapshot exports a laid-out ui.World as a single page PDF
package snapshot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/ui"
)

const fontFamily = "goregular"

// Options controls the page a snapshot is drawn on
type Options struct {
	// Page is the page size in points. Zero means one point per pixel of
	// the viewport.
	Page layout.Viewport
	// FontSize replaces a zero text size
	FontSize float64
}

// Write draws every visible entity of w, back to front, onto one page the
// size of vp and writes the PDF to out.
func Write(out io.Writer, w *ui.World, vp layout.Viewport, opts Options) error {
	if vp.Width == 0 || vp.Height == 0 {
		return fmt.Errorf("snapshot of an empty %dx%d viewport", vp.Width, vp.Height)
	}
	page := opts.Page
	if page.Width == 0 || page.Height == 0 {
		page = vp
	}
	size := opts.FontSize
	if size <= 0 {
		size = 13
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: float64(page.Width), H: float64(page.Height)},
	})
	pdf.AddPage()
	if err := pdf.AddTTFFontData(fontFamily, goregular.TTF); err != nil {
		return fmt.Errorf("load pdf font failed: %w", err)
	}

	sx := float64(page.Width) / float64(vp.Width)
	sy := float64(page.Height) / float64(vp.Height)
	p := &painter{pdf: pdf, sx: sx, sy: sy, fontSize: size}

	for _, e := range w.PaintOrder() {
		b, _ := w.Boxes().Get(e)
		if f, ok := w.Fills().Get(e); ok {
			p.fill(b, f.Color)
		}
		if pic, ok := w.Pictures().Get(e); ok {
			if err := p.picture(b, pic); err != nil {
				return fmt.Errorf("snapshot %v failed: %w", e, err)
			}
		}
		if t, ok := w.Texts().Get(e); ok {
			if err := p.text(b, t); err != nil {
				return fmt.Errorf("snapshot %v failed: %w", e, err)
			}
		}
	}

	if err := pdf.Write(out); err != nil {
		return fmt.Errorf("write pdf failed: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot of w to path
func WriteFile(path string, w *ui.World, vp layout.Viewport, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s failed: %w", path, err)
	}
	if err := Write(f, w, vp, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type painter struct {
	pdf      *gopdf.GoPdf
	sx, sy   float64
	fontSize float64
}

func (p *painter) fill(b layout.Box, c color.RGBA) {
	if c.A == 0 || b.Width == 0 || b.Height == 0 {
		return
	}
	p.pdf.SetFillColor(c.R, c.G, c.B)
	p.pdf.RectFromUpperLeftWithStyle(
		float64(b.X)*p.sx, float64(b.Y)*p.sy,
		float64(b.Width)*p.sx, float64(b.Height)*p.sy,
		"F",
	)
}

func (p *painter) text(b layout.Box, t ui.Text) error {
	if t.Text == "" {
		return nil
	}
	size := t.FontSize
	if size <= 0 {
		size = p.fontSize
	}
	if err := p.pdf.SetFont(fontFamily, "", size*p.sy); err != nil {
		return fmt.Errorf("set font failed: %w", err)
	}
	p.pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
	y := float64(b.Y) * p.sy
	for _, line := range strings.Split(t.Text, "\n") {
		p.pdf.SetXY(float64(b.X)*p.sx, y)
		if err := p.pdf.Cell(nil, line); err != nil {
			return fmt.Errorf("draw text %q failed: %w", line, err)
		}
		y += size * p.sy * 1.2
	}
	return nil
}

// picture replays the command list; polygons are drawn as their triangles
// so holes stay open
func (p *painter) picture(b layout.Box, pic picture.Picture) error {
	ox, oy := float64(b.X), float64(b.Y)
	pt := func(x, y float64) gopdf.Point {
		return gopdf.Point{X: (ox + x) * p.sx, Y: (oy + y) * p.sy}
	}

	p.pdf.SetFillColor(0, 0, 0)
	for _, c := range pic.Commands {
		switch c := c.(type) {
		case picture.SetColor:
			p.pdf.SetFillColor(c.Color.R, c.Color.G, c.Color.B)
		case picture.FillRect:
			p.pdf.RectFromUpperLeftWithStyle((ox+c.X)*p.sx, (oy+c.Y)*p.sy, c.W*p.sx, c.H*p.sy, "F")
		case picture.FillPolygon:
			mesh, err := picture.Triangulate(c)
			if err != nil {
				return fmt.Errorf("triangulate polygon failed: %w", err)
			}
			for i := 0; i+2 < len(mesh.Indices); i += 3 {
				v0 := mesh.Vertices[mesh.Indices[i]]
				v1 := mesh.Vertices[mesh.Indices[i+1]]
				v2 := mesh.Vertices[mesh.Indices[i+2]]
				p.pdf.Polygon([]gopdf.Point{pt(v0.X, v0.Y), pt(v1.X, v1.Y), pt(v2.X, v2.Y)}, "F")
			}
		}
	}
	return nil
}
