package ui

import (
	"fmt"
	"math"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/pointer"
	"github.com/OpticalFlyer/berry/solver"
)

var _ Widget = (*MapView)(nil)

// PanDirection represents a direction to pan the map
type PanDirection int

const (
	PanLeft PanDirection = iota
	PanRight
	PanUp
	PanDown
)

// PanSpeed in pixels per pan step
const PanSpeed = 50

// MaxZoomLevel bounds ZoomIn; each level doubles the picture size
const MaxZoomLevel = 6

// PictureLoader renders the map at a pixel size
type PictureLoader func(width, height float64) (picture.Picture, error)

// MapView is a picture entity that can be dragged, panned and zoomed. The
// picture is reloaded at every zoom level and sized to its contents.
type MapView struct {
	Entity ecs.Entity
	Zoom   int

	load          PictureLoader
	width, height float64
	offX, offY    float64

	dragging     bool
	lastX, lastY int32
}

// NewMapView loads the map at width x height and places its top-left
// corner at x, y
func NewMapView(u *UI, load PictureLoader, width, height, x, y, z float64) (*MapView, error) {
	pic, err := load(width, height)
	if err != nil {
		return nil, fmt.Errorf("load map failed: %w", err)
	}
	m := &MapView{
		load:   load,
		width:  width,
		height: height,
		offX:   x,
		offY:   y,
	}
	m.Entity = NewElement().
		Name("map").
		Picture(pic).
		ShrinkToContents().
		ZIndex(Const(z)).
		Build(u)
	m.place(u)
	u.controller.Add(m)
	return m, nil
}

// Offset returns the screen position of the picture's top-left corner
func (m *MapView) Offset() (x, y float64) {
	return m.offX, m.offY
}

// Scale returns the picture size relative to zoom level 0
func (m *MapView) Scale() float64 {
	return math.Pow(2, float64(m.Zoom))
}

// Interacting reports whether the map is being dragged
func (m *MapView) Interacting() bool { return m.dragging }

func (m *MapView) Owns(e ecs.Entity) bool { return e == m.Entity }

func (m *MapView) Update(u *UI) error {
	ptr := u.Frame().Pointer
	switch {
	case m.dragging && !ptr.Left:
		m.dragging = false
	case m.dragging:
		m.PanBy(u, float64(ptr.X-m.lastX), float64(ptr.Y-m.lastY))
		m.lastX, m.lastY = ptr.X, ptr.Y
	case u.HasEvent(m.Entity, pointer.Press):
		m.dragging = true
		m.lastX, m.lastY = ptr.X, ptr.Y
	}
	return nil
}

// Pan moves the map one step in the specified direction
func (m *MapView) Pan(u *UI, dir PanDirection) {
	switch dir {
	case PanLeft:
		m.PanBy(u, PanSpeed, 0)
	case PanRight:
		m.PanBy(u, -PanSpeed, 0)
	case PanUp:
		m.PanBy(u, 0, PanSpeed)
	case PanDown:
		m.PanBy(u, 0, -PanSpeed)
	}
}

// PanBy moves the map by pixel offsets
func (m *MapView) PanBy(u *UI, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	m.offX += dx
	m.offY += dy
	m.place(u)
}

// ZoomIn zooms around the picture's top-left corner
func (m *MapView) ZoomIn(u *UI) error {
	return m.ZoomAtPoint(u, true, m.offX, m.offY)
}

// ZoomOut zooms around the picture's top-left corner
func (m *MapView) ZoomOut(u *UI) error {
	return m.ZoomAtPoint(u, false, m.offX, m.offY)
}

// ZoomAtPoint changes the zoom level while keeping the map point under
// screenX, screenY at the same screen location. Zooming past the limits
// is a no-op.
func (m *MapView) ZoomAtPoint(u *UI, zoomIn bool, screenX, screenY float64) error {
	if (zoomIn && m.Zoom >= MaxZoomLevel) || (!zoomIn && m.Zoom <= 0) {
		return nil
	}
	zoom := m.Zoom - 1
	factor := 0.5
	if zoomIn {
		zoom = m.Zoom + 1
		factor = 2
	}

	scale := math.Pow(2, float64(zoom))
	pic, err := m.load(m.width*scale, m.height*scale)
	if err != nil {
		return fmt.Errorf("load map at zoom %d failed: %w", zoom, err)
	}
	m.Zoom = zoom
	m.offX = screenX - (screenX-m.offX)*factor
	m.offY = screenY - (screenY-m.offY)*factor
	u.world.pictures.Insert(m.Entity, pic)
	m.place(u)
	return nil
}

func (m *MapView) place(u *UI) {
	e := m.Entity
	u.Reposition(layout.X, e, layout.Constraints{
		layout.SpanX(e),
		Left(e).Eq(Const(m.offX)).WithStrength(solver.Strong),
	})
	u.Reposition(layout.Y, e, layout.Constraints{
		layout.SpanY(e),
		Top(e).Eq(Const(m.offY)).WithStrength(solver.Strong),
	})
}
