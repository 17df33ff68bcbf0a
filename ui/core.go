package ui

import (
	"image/color"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/solver"
)

// Widget reacts to interaction events once per frame. Widgets only poll
// the UI; the event engine never calls into them.
type Widget interface {
	Update(u *UI) error
	// Owns reports whether e is one of the widget's entities
	Owns(e ecs.Entity) bool
}

// Name labels an entity in diagnostics
type Name string

// Text is a text payload drawn at the entity's box origin
type Text struct {
	FontSize float64
	Color    color.RGBA
	Text     string
}

// Fill paints the whole box of an entity with a color
type Fill struct {
	Color color.RGBA
}

// Invisible hides an entity from the renderer. It is still laid out and
// hit tested.
type Invisible struct{}

// Expr is a linear expression over layout variables
type Expr = solver.Expression[layout.Var]

// Const returns the constant expression v
func Const(v float64) Expr {
	return solver.Const[layout.Var](v)
}

// Stage stands for the viewport in expressions
var Stage = ecs.None

// Left returns e's left edge. ecs.None is the stage.
func Left(e ecs.Entity) Expr { return layout.Of(layout.Left, e).Expr() }

// Width returns e's width
func Width(e ecs.Entity) Expr { return layout.Of(layout.Width, e).Expr() }

// Right returns e's right edge
func Right(e ecs.Entity) Expr { return layout.Of(layout.Right, e).Expr() }

// Top returns e's top edge
func Top(e ecs.Entity) Expr { return layout.Of(layout.Top, e).Expr() }

// Height returns e's height
func Height(e ecs.Entity) Expr { return layout.Of(layout.Height, e).Expr() }

// Bottom returns e's bottom edge
func Bottom(e ecs.Entity) Expr { return layout.Of(layout.Bottom, e).Expr() }

// ZIndex returns e's paint order
func ZIndex(e ecs.Entity) Expr { return layout.Of(layout.ZIndex, e).Expr() }
