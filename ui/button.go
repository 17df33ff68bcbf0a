package ui

import (
	"image/color"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/pointer"
	"github.com/OpticalFlyer/berry/solver"
)

var _ Widget = (*Button)(nil)

type buttonState int

const (
	buttonUp buttonState = iota
	buttonOver
	buttonDown
)

// ButtonStyle holds a button's colors and label inset
type ButtonStyle struct {
	Up, Over, Down color.RGBA
	Label          color.RGBA
	FontSize       float64
	// Padding separates the label from the button edge
	Padding float64
	// PressShift moves the label while the button is held
	PressShift float64
}

// DefaultButtonStyle is the grey button style
var DefaultButtonStyle = ButtonStyle{
	Up:         color.RGBA{150, 150, 150, 255},
	Over:       color.RGBA{180, 180, 180, 255},
	Down:       color.RGBA{100, 100, 100, 255},
	Label:      color.RGBA{0, 0, 0, 255},
	FontSize:   13,
	Padding:    6,
	PressShift: 1,
}

// Button is a filled background entity with a label entity on top. It
// clicks when the pointer is pressed and released over the background.
type Button struct {
	Background ecs.Entity
	Label      ecs.Entity
	OnClick    func()

	style ButtonStyle
	state buttonState
}

// NewButton builds a button. place positions the background; its size
// defaults to the label plus padding when place leaves it open.
func NewButton(u *UI, place *ElementBuilder, label string, style ButtonStyle, onClick func()) *Button {
	if place == nil {
		place = NewElement()
	}
	b := &Button{OnClick: onClick, style: style}
	b.Background = place.Fill(Fill{Color: style.Up}).Build(u)
	b.Label = NewElement().
		Text(Text{FontSize: style.FontSize, Color: style.Label, Text: label}).
		ShrinkToContents().
		Build(u)
	b.placeLabel(u, 0)

	// Background hugs the label unless placed more strongly.
	bg, lbl := b.Background, b.Label
	pad := 2 * style.Padding
	u.AddConstraints(layout.X, bg, Width(bg).Eq(Width(lbl).Plus(pad)).WithStrength(solver.Medium))
	u.AddConstraints(layout.Y, bg, Height(bg).Eq(Height(lbl).Plus(pad)).WithStrength(solver.Medium))
	u.AddConstraints(layout.Z, bg, ZIndex(bg).Eq(Const(0)).WithStrength(solver.Weak))

	u.controller.Add(b)
	return b
}

// placeLabel replaces the label's position sets, shifted by shift pixels
func (b *Button) placeLabel(u *UI, shift float64) {
	bg, lbl := b.Background, b.Label
	inset := b.style.Padding + shift
	u.Reposition(layout.X, lbl, layout.Constraints{
		layout.SpanX(lbl),
		Left(lbl).Eq(Left(bg).Plus(inset)),
	})
	u.Reposition(layout.Y, lbl, layout.Constraints{
		layout.SpanY(lbl),
		Top(lbl).Eq(Top(bg).Plus(inset)),
	})
	u.SetConstraints(layout.Z, lbl, layout.Constraints{
		ZIndex(lbl).Eq(ZIndex(bg).Plus(1)),
	})
}

// Pressed reports whether the button is held down
func (b *Button) Pressed() bool {
	return b.state == buttonDown
}

// Hovered reports whether the pointer is over the button
func (b *Button) Hovered() bool {
	return b.state != buttonUp
}

func (b *Button) Owns(e ecs.Entity) bool {
	return e == b.Background || e == b.Label
}

func (b *Button) Update(u *UI) error {
	ev := u.Events(b.Background)
	switch {
	case ev.Has(pointer.Release):
		wasDown := b.state == buttonDown
		b.setState(u, buttonOver)
		if wasDown && b.OnClick != nil {
			b.OnClick()
		}
	case ev.Has(pointer.Press):
		b.setState(u, buttonDown)
	}
	switch {
	case ev.Has(pointer.Leave):
		b.setState(u, buttonUp)
	case ev.Has(pointer.Enter) && b.state == buttonUp:
		b.setState(u, buttonOver)
	}
	return nil
}

func (b *Button) setState(u *UI, s buttonState) {
	if s == b.state {
		return
	}
	if b.state == buttonDown {
		b.placeLabel(u, 0)
	}
	if s == buttonDown {
		b.placeLabel(u, b.style.PressShift)
	}
	b.state = s

	fill := b.style.Up
	switch s {
	case buttonOver:
		fill = b.style.Over
	case buttonDown:
		fill = b.style.Down
	}
	u.SetFill(b.Background, Fill{Color: fill})
}
