// Package layout keeps each entity's Box in step with the constraint sets
// attached to it. One Engine runs per axis and feeds a persistent solver
// with only the constraint sets that changed since the previous frame.
package layout

import (
	"fmt"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/solver"
)

// Attr names the quantity a Var stands for
type Attr uint8

const (
	Left Attr = iota
	Width
	Right
	Top
	Height
	Bottom
	ZIndex
)

func (a Attr) String() string {
	switch a {
	case Left:
		return "left"
	case Width:
		return "width"
	case Right:
		return "right"
	case Top:
		return "top"
	case Height:
		return "height"
	case Bottom:
		return "bottom"
	case ZIndex:
		return "z"
	default:
		return fmt.Sprintf("attr(%d)", uint8(a))
	}
}

// Var is a solver variable: one attribute of one entity. The zero Entity
// stands for the stage, the viewport every layout hangs from.
type Var struct {
	Attr   Attr
	Entity ecs.Entity
}

// Of returns the variable for attribute a of e
func Of(a Attr, e ecs.Entity) Var {
	return Var{Attr: a, Entity: e}
}

// Stage returns the stage's variable for attribute a
func Stage(a Attr) Var {
	return Var{Attr: a}
}

// IsStage reports whether v belongs to the stage
func (v Var) IsStage() bool {
	return v.Entity.IsNone()
}

// Expr returns v as a solver expression
func (v Var) Expr() solver.Expression[Var] {
	return solver.Var(v)
}

func (v Var) String() string {
	if v.IsStage() {
		return "stage." + v.Attr.String()
	}
	return v.Entity.String() + "." + v.Attr.String()
}

// Describe renders v using the entity's diagnostic name when names knows it
func (v Var) Describe(names func(ecs.Entity) (string, bool)) string {
	if v.IsStage() || names == nil {
		return v.String()
	}
	if n, ok := names(v.Entity); ok && n != "" {
		return n + "." + v.Attr.String()
	}
	return v.String()
}

// Constraints is the constraint set one entity carries on one axis. A set
// is always replaced wholesale.
type Constraints []solver.Constraint[Var]

// Clone returns a copy of c that shares no backing array with it
func (c Constraints) Clone() Constraints {
	if c == nil {
		return nil
	}
	out := make(Constraints, len(c))
	copy(out, c)
	return out
}

// Span returns the required relation end == start + size
func Span(start, size, end Var) solver.Constraint[Var] {
	return end.Expr().Eq(start.Expr().Add(size.Expr()))
}

// SpanX returns Right == Left + Width for e
func SpanX(e ecs.Entity) solver.Constraint[Var] {
	return Span(Of(Left, e), Of(Width, e), Of(Right, e))
}

// SpanY returns Bottom == Top + Height for e
func SpanY(e ecs.Entity) solver.Constraint[Var] {
	return Span(Of(Top, e), Of(Height, e), Of(Bottom, e))
}
