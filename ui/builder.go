package ui

import (
	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/solver"
)

type pin struct {
	attr     layout.Attr
	op       solver.Op
	expr     Expr
	strength solver.Strength
}

// ElementBuilder describes an entity before it exists. Pins relate one of
// the element's own attributes to an expression; the constraint sets are
// compiled when the element is built, so pins may not mention the
// element itself.
type ElementBuilder struct {
	strength  solver.Strength
	pins      []pin
	extra     [3][]func(self ecs.Entity) layout.Constraints
	name      string
	text      *Text
	fill      *Fill
	pic       *picture.Picture
	shrink    bool
	invisible bool
}

// NewElement starts an element whose pins default to Required strength
func NewElement() *ElementBuilder {
	return &ElementBuilder{strength: solver.Required}
}

// Strength sets the strength of the pins added after it
func (b *ElementBuilder) Strength(s solver.Strength) *ElementBuilder {
	b.strength = s
	return b
}

func (b *ElementBuilder) add(a layout.Attr, op solver.Op, e Expr) *ElementBuilder {
	b.pins = append(b.pins, pin{attr: a, op: op, expr: e, strength: b.strength})
	return b
}

func (b *ElementBuilder) Left(e Expr) *ElementBuilder   { return b.add(layout.Left, solver.EQ, e) }
func (b *ElementBuilder) Width(e Expr) *ElementBuilder  { return b.add(layout.Width, solver.EQ, e) }
func (b *ElementBuilder) Right(e Expr) *ElementBuilder  { return b.add(layout.Right, solver.EQ, e) }
func (b *ElementBuilder) Top(e Expr) *ElementBuilder    { return b.add(layout.Top, solver.EQ, e) }
func (b *ElementBuilder) Height(e Expr) *ElementBuilder { return b.add(layout.Height, solver.EQ, e) }
func (b *ElementBuilder) Bottom(e Expr) *ElementBuilder { return b.add(layout.Bottom, solver.EQ, e) }
func (b *ElementBuilder) ZIndex(e Expr) *ElementBuilder { return b.add(layout.ZIndex, solver.EQ, e) }

// MinWidth keeps the width at or above e
func (b *ElementBuilder) MinWidth(e Expr) *ElementBuilder { return b.add(layout.Width, solver.GE, e) }

// MaxWidth keeps the width at or below e
func (b *ElementBuilder) MaxWidth(e Expr) *ElementBuilder { return b.add(layout.Width, solver.LE, e) }

// MinHeight keeps the height at or above e
func (b *ElementBuilder) MinHeight(e Expr) *ElementBuilder { return b.add(layout.Height, solver.GE, e) }

// MaxHeight keeps the height at or below e
func (b *ElementBuilder) MaxHeight(e Expr) *ElementBuilder { return b.add(layout.Height, solver.LE, e) }

// XConstraints adds constraints computed from the element's own entity
func (b *ElementBuilder) XConstraints(fn func(self ecs.Entity) layout.Constraints) *ElementBuilder {
	b.extra[layout.X] = append(b.extra[layout.X], fn)
	return b
}

// YConstraints adds constraints computed from the element's own entity
func (b *ElementBuilder) YConstraints(fn func(self ecs.Entity) layout.Constraints) *ElementBuilder {
	b.extra[layout.Y] = append(b.extra[layout.Y], fn)
	return b
}

// ZConstraints adds constraints computed from the element's own entity
func (b *ElementBuilder) ZConstraints(fn func(self ecs.Entity) layout.Constraints) *ElementBuilder {
	b.extra[layout.Z] = append(b.extra[layout.Z], fn)
	return b
}

func (b *ElementBuilder) Name(n string) *ElementBuilder {
	b.name = n
	return b
}

func (b *ElementBuilder) Text(t Text) *ElementBuilder {
	b.text = &t
	return b
}

func (b *ElementBuilder) Fill(f Fill) *ElementBuilder {
	b.fill = &f
	return b
}

func (b *ElementBuilder) Picture(p picture.Picture) *ElementBuilder {
	b.pic = &p
	return b
}

// ShrinkToContents sizes the element to its measured payload at Weak
// strength
func (b *ElementBuilder) ShrinkToContents() *ElementBuilder {
	b.shrink = true
	return b
}

// Invisible keeps the element out of the renderer
func (b *ElementBuilder) Invisible() *ElementBuilder {
	b.invisible = true
	return b
}

// Build creates the element's entity and attaches its components
func (b *ElementBuilder) Build(u *UI) ecs.Entity {
	e := u.world.Create()
	b.attach(u, e)
	return e
}

// Update replaces e's constraint sets and payloads with the builder's.
// Sets the builder has nothing for are removed.
func (b *ElementBuilder) Update(u *UI, e ecs.Entity) {
	b.attach(u, e)
}

func (b *ElementBuilder) attach(u *UI, e ecs.Entity) {
	w := u.world
	for id, set := range b.Constraints(e) {
		if len(set) == 0 {
			w.constraints[id].Remove(e)
			continue
		}
		w.constraints[id].Insert(e, set)
	}

	if b.name != "" {
		w.names.Insert(e, Name(b.name))
	}
	if b.text != nil {
		w.texts.Insert(e, *b.text)
	}
	if b.fill != nil {
		w.fills.Insert(e, *b.fill)
	}
	if b.pic != nil {
		w.pictures.Insert(e, *b.pic)
	}
	if b.shrink {
		w.shrinkwraps.Insert(e, layout.Shrinkwrap{})
	} else {
		w.shrinkwraps.Remove(e)
	}
	if b.invisible {
		w.invisible.Insert(e, Invisible{})
	} else {
		w.invisible.Remove(e)
	}
}

// Constraints compiles the builder's pins for entity e, indexed by axis.
// Any X constraint brings Right == Left + Width with it, and any Y
// constraint brings Bottom == Top + Height.
func (b *ElementBuilder) Constraints(e ecs.Entity) [3]layout.Constraints {
	var sets [3]layout.Constraints
	for _, p := range b.pins {
		id := axisOf(p.attr)
		self := layout.Of(p.attr, e).Expr()
		var c solver.Constraint[layout.Var]
		switch p.op {
		case solver.LE:
			c = self.Le(p.expr)
		case solver.GE:
			c = self.Ge(p.expr)
		default:
			c = self.Eq(p.expr)
		}
		sets[id] = append(sets[id], c.WithStrength(p.strength))
	}
	for id, fns := range b.extra {
		for _, fn := range fns {
			sets[id] = append(sets[id], fn(e)...)
		}
	}
	if len(sets[layout.X]) > 0 || b.shrink {
		sets[layout.X] = append(layout.Constraints{layout.SpanX(e)}, sets[layout.X]...)
	}
	if len(sets[layout.Y]) > 0 || b.shrink {
		sets[layout.Y] = append(layout.Constraints{layout.SpanY(e)}, sets[layout.Y]...)
	}
	return sets
}

func axisOf(a layout.Attr) layout.AxisID {
	switch a {
	case layout.Left, layout.Width, layout.Right:
		return layout.X
	case layout.Top, layout.Height, layout.Bottom:
		return layout.Y
	default:
		return layout.Z
	}
}
