package ui

import (
	"image/color"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/pointer"
	"github.com/OpticalFlyer/berry/solver"
)

var _ Widget = (*Panel)(nil)

type DockState int

const (
	DockNone DockState = iota
	DockLeft
	DockRight
	DockTop
	DockBottom
)

func (d DockState) String() string {
	switch d {
	case DockLeft:
		return "left"
	case DockRight:
		return "right"
	case DockTop:
		return "top"
	case DockBottom:
		return "bottom"
	default:
		return "none"
	}
}

const (
	titleBarHeight = 20.0
	titleInset     = 4.0
	gripSize       = 8.0
	dockThreshold  = 20
	dockSize       = 200.0
	minPanelWidth  = 100.0
	minPanelHeight = 50.0
	previewAlpha   = 84
	panelAlpha     = 200
)

var (
	panelColor   = color.RGBA{100, 100, 100, panelAlpha}
	titleColor   = color.RGBA{60, 60, 60, panelAlpha}
	gripColor    = color.RGBA{40, 40, 40, panelAlpha}
	previewColor = color.RGBA{33, 150, 243, previewAlpha}
	titleText    = color.RGBA{230, 230, 230, 255}
)

// Panel is a draggable window made of a body, a title bar, a title label
// and a resize grip. Dropping it near a viewport edge docks it there;
// grabbing the title bar of a docked panel undocks it.
type Panel struct {
	Title string

	body, bar, label, grip ecs.Entity

	// Undocked geometry
	x, y, width, height float64
	// Docked extent across the docked edge
	docked float64

	dock    DockState
	preview DockState

	dragging       bool
	resizing       bool
	offX, offY     float64
	startX, startY int32
	startW, startH float64
	startDock      float64
}

// NewPanel builds a panel at x, y above everything with a lower z
func NewPanel(u *UI, x, y, width, height float64, z float64, title string) *Panel {
	p := &Panel{
		Title:  title,
		x:      x,
		y:      y,
		width:  width,
		height: height,
		docked: dockSize,
	}

	p.body = NewElement().Name(title).Fill(Fill{Color: panelColor}).Build(u)
	body := p.body

	p.bar = NewElement().
		Name(title + " title").
		Fill(Fill{Color: titleColor}).
		Left(Left(body)).Width(Width(body)).
		Top(Top(body)).Height(Const(titleBarHeight)).
		ZIndex(ZIndex(body).Plus(1)).
		Build(u)

	p.label = NewElement().
		Text(Text{FontSize: 13, Color: titleText, Text: title}).
		ShrinkToContents().
		Left(Left(body).Plus(titleInset)).
		Top(Top(body).Plus(titleInset)).
		ZIndex(ZIndex(body).Plus(2)).
		Build(u)

	p.grip = NewElement().
		Fill(Fill{Color: gripColor}).
		Right(Right(body)).Width(Const(gripSize)).
		Bottom(Bottom(body)).Height(Const(gripSize)).
		ZIndex(ZIndex(body).Plus(2)).
		Build(u)

	u.SetConstraints(layout.Z, body, layout.Constraints{ZIndex(body).Eq(Const(z))})
	p.place(u)
	u.controller.Add(p)
	return p
}

// Body returns the entity children should be placed relative to
func (p *Panel) Body() ecs.Entity { return p.body }

// Dock returns the edge the panel is docked to
func (p *Panel) Dock() DockState { return p.dock }

// Preview returns the edge the panel would dock to if dropped now
func (p *Panel) Preview() DockState { return p.preview }

// Interacting reports whether the panel is being dragged or resized
func (p *Panel) Interacting() bool { return p.dragging || p.resizing }

func (p *Panel) Owns(e ecs.Entity) bool {
	return e == p.body || e == p.bar || e == p.label || e == p.grip
}

func (p *Panel) Update(u *UI) error {
	ptr := u.Frame().Pointer
	vp := u.Frame().Viewport
	fx, fy := float64(ptr.X), float64(ptr.Y)

	switch {
	case p.dragging:
		if !ptr.Left {
			p.dragging = false
			if p.preview != DockNone {
				p.dock = p.preview
				p.preview = DockNone
			}
			break
		}
		p.x = fx - p.offX
		p.y = fy - p.offY
		p.preview = dockAt(ptr, vp)

	case p.resizing:
		if !ptr.Left {
			p.resizing = false
			break
		}
		p.resize(float64(ptr.X-p.startX), float64(ptr.Y-p.startY))

	case u.HasEvent(p.grip, pointer.Press):
		p.resizing = true
		p.startX, p.startY = ptr.X, ptr.Y
		p.startW, p.startH = p.width, p.height
		p.startDock = p.docked

	case u.HasEvent(p.bar, pointer.Press), u.HasEvent(p.label, pointer.Press):
		if p.dock != DockNone {
			relativeX := 0.0
			if b, ok := u.Box(p.body); ok && b.Width > 0 {
				relativeX = (fx - float64(b.X)) / float64(b.Width)
			}
			p.dock = DockNone
			p.x = fx - p.width*relativeX
			p.y = fy - titleBarHeight/2
		}
		p.dragging = true
		p.offX = fx - p.x
		p.offY = fy - p.y

	default:
		return nil
	}

	p.place(u)
	return nil
}

func (p *Panel) resize(dx, dy float64) {
	switch p.dock {
	case DockLeft:
		p.docked = max(minPanelWidth, p.startDock+dx)
	case DockRight:
		p.docked = max(minPanelWidth, p.startDock-dx)
	case DockTop:
		p.docked = max(minPanelHeight, p.startDock+dy)
	case DockBottom:
		p.docked = max(minPanelHeight, p.startDock-dy)
	default:
		p.width = max(minPanelWidth, p.startW+dx)
		p.height = max(minPanelHeight, p.startH+dy)
	}
}

// dockAt returns the edge within the dock threshold of the pointer
func dockAt(ptr pointer.State, vp layout.Viewport) DockState {
	w, h := int64(vp.Width), int64(vp.Height)
	x, y := int64(ptr.X), int64(ptr.Y)
	switch {
	case x < dockThreshold:
		return DockLeft
	case w-x < dockThreshold:
		return DockRight
	case y < dockThreshold:
		return DockTop
	case h-y < dockThreshold:
		return DockBottom
	default:
		return DockNone
	}
}

// place replaces the body's X and Y sets with the ones for the current
// state. A dock preview is placed as if docked.
func (p *Panel) place(u *UI) {
	body := p.body
	d := p.dock
	if p.preview != DockNone {
		d = p.preview
	}

	var xs, ys layout.Constraints
	switch d {
	case DockLeft, DockRight:
		edge := Left(body).Eq(Left(ecs.None))
		if d == DockRight {
			edge = Right(body).Eq(Right(ecs.None))
		}
		xs = layout.Constraints{edge, Width(body).Eq(Const(p.docked))}
		ys = layout.Constraints{Top(body).Eq(Top(ecs.None)), Height(body).Eq(Height(ecs.None))}
	case DockTop, DockBottom:
		edge := Top(body).Eq(Top(ecs.None))
		if d == DockBottom {
			edge = Bottom(body).Eq(Bottom(ecs.None))
		}
		xs = layout.Constraints{Left(body).Eq(Left(ecs.None)), Width(body).Eq(Width(ecs.None))}
		ys = layout.Constraints{edge, Height(body).Eq(Const(p.docked))}
	default:
		xs = layout.Constraints{
			Left(body).Eq(Const(p.x)).WithStrength(solver.Strong),
			Width(body).Eq(Const(p.width)).WithStrength(solver.Strong),
		}
		ys = layout.Constraints{
			Top(body).Eq(Const(p.y)).WithStrength(solver.Strong),
			Height(body).Eq(Const(p.height)).WithStrength(solver.Strong),
		}
	}
	xs = append(layout.Constraints{
		layout.SpanX(body),
		Width(body).Ge(Const(minPanelWidth)).WithStrength(solver.Strong),
	}, xs...)
	ys = append(layout.Constraints{
		layout.SpanY(body),
		Height(body).Ge(Const(minPanelHeight)).WithStrength(solver.Strong),
	}, ys...)
	u.SetConstraints(layout.X, body, xs)
	u.SetConstraints(layout.Y, body, ys)

	fill, bar := panelColor, titleColor
	if p.preview != DockNone {
		fill = previewColor
		bar.A = previewAlpha
	}
	u.SetFill(body, Fill{Color: fill})
	u.SetFill(p.bar, Fill{Color: bar})
}
