// Package render draws a laid-out ui.World onto an ebiten screen
package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/fonts"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/ui"
)

var _ ui.Measurer = (*Renderer)(nil)

var debugColor = color.RGBA{255, 0, 255, 255}

// Renderer measures and paints text, fills and pictures. Rasterized
// pictures and text faces are cached.
type Renderer struct {
	fonts    *fonts.Cache
	fontSize float64
	faces    map[float64]*text.GoXFace
	pictures map[uint64]*ebiten.Image
	white    *ebiten.Image
	logger   *log.Logger

	// Debug outlines every box
	Debug bool
}

// New creates a renderer. fontSize replaces a zero text size.
func New(fc *fonts.Cache, fontSize float64, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{
		fonts:    fc,
		fontSize: fontSize,
		faces:    make(map[float64]*text.GoXFace),
		pictures: make(map[uint64]*ebiten.Image),
		white:    white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		logger:   logger,
	}
}

func (r *Renderer) size(s float64) float64 {
	if s <= 0 {
		return r.fontSize
	}
	return s
}

// MeasureText returns the pixel size t is drawn at
func (r *Renderer) MeasureText(t ui.Text) (w, h uint32) {
	return r.fonts.Measure(t.Text, r.size(t.FontSize))
}

// MeasurePicture returns the pixel size p is drawn at
func (r *Renderer) MeasurePicture(p picture.Picture) (w, h uint32) {
	return p.Size()
}

func (r *Renderer) face(size float64) *text.GoXFace {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := text.NewGoXFace(r.fonts.Face(size))
	r.faces[size] = f
	return f
}

// Draw paints every visible entity back to front
func (r *Renderer) Draw(screen *ebiten.Image, w *ui.World) {
	for _, e := range w.PaintOrder() {
		b, _ := w.Boxes().Get(e)
		if f, ok := w.Fills().Get(e); ok {
			vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), f.Color, false)
		}
		if p, ok := w.Pictures().Get(e); ok {
			r.drawPicture(screen, p, b)
		}
		if t, ok := w.Texts().Get(e); ok {
			r.drawText(screen, t, b)
		}
		if r.Debug {
			vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, debugColor, false)
		}
	}
}

func (r *Renderer) drawText(screen *ebiten.Image, t ui.Text, b layout.Box) {
	if t.Text == "" {
		return
	}
	size := r.size(t.FontSize)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(b.X), float64(b.Y))
	op.ColorScale.ScaleWithColor(t.Color)
	op.LineSpacing = float64(r.fonts.LineHeight(size))
	text.Draw(screen, t.Text, r.face(size), op)
}

func (r *Renderer) drawPicture(screen *ebiten.Image, p picture.Picture, b layout.Box) {
	img, err := r.raster(p)
	if err != nil {
		r.logger.Printf("draw picture failed: %v", err)
		return
	}
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(b.X), float64(b.Y))
	screen.DrawImage(img, op)
}

// raster returns p rendered to an image of its own size
func (r *Renderer) raster(p picture.Picture) (*ebiten.Image, error) {
	key := p.Key()
	if img, ok := r.pictures[key]; ok {
		return img, nil
	}
	w, h := p.Size()
	if w == 0 || h == 0 {
		r.pictures[key] = nil
		return nil, nil
	}

	img := ebiten.NewImage(int(w), int(h))
	cur := color.RGBA{0, 0, 0, 255}
	for _, c := range p.Commands {
		switch c := c.(type) {
		case picture.SetColor:
			cur = c.Color
		case picture.FillRect:
			vector.DrawFilledRect(img, float32(c.X), float32(c.Y), float32(c.W), float32(c.H), cur, true)
		case picture.FillPolygon:
			mesh, err := picture.Triangulate(c)
			if err != nil {
				img.Deallocate()
				return nil, fmt.Errorf("triangulate polygon failed: %w", err)
			}
			r.fillMesh(img, mesh, cur)
		}
	}
	r.pictures[key] = img
	return img, nil
}

func (r *Renderer) fillMesh(dst *ebiten.Image, mesh picture.Mesh, c color.RGBA) {
	if len(mesh.Indices) == 0 {
		return
	}
	cr, cg, cb, ca := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	vs := make([]ebiten.Vertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vs[i] = ebiten.Vertex{
			DstX:   float32(v.X),
			DstY:   float32(v.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs, mesh.Indices, r.white, op)
}

// Forget drops cached picture rasters that are no longer in w
func (r *Renderer) Forget(w *ui.World) {
	live := make(map[uint64]bool)
	w.Pictures().Each(func(_ ecs.Entity, p picture.Picture) {
		live[p.Key()] = true
	})
	for key, img := range r.pictures {
		if live[key] {
			continue
		}
		if img != nil {
			img.Deallocate()
		}
		delete(r.pictures, key)
	}
}

// DebugOverlay prints frame timing and the entity count
func DebugOverlay(screen *ebiten.Image, w *ui.World) {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f TPS: %.2f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "Entities: %d", w.Len())
	ebitenutil.DebugPrint(screen, b.String())
}
