// Package ui is a retained-mode UI whose widgets are entities. Each frame
// the UI measures content, lays out every entity with the constraint
// engines, derives pointer events and lets widgets react to them.
package ui

import (
	"log"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/pointer"
	"github.com/OpticalFlyer/berry/solver"
)

// Frame is everything sampled from the platform for one frame
type Frame struct {
	Viewport layout.Viewport
	Pointer  pointer.State
}

// Measurer sizes payloads. Implementations are expected to cache by
// payload value.
type Measurer interface {
	MeasureText(t Text) (w, h uint32)
	MeasurePicture(p picture.Picture) (w, h uint32)
}

// Option configures a UI
type Option func(*UI)

// WithLogger sends diagnostics to l instead of log.Default()
func WithLogger(l *log.Logger) Option {
	return func(u *UI) { u.logger = l }
}

// WithMeasurer sets the content measurer. Without one, shrinkwrapped
// entities never get a content size.
func WithMeasurer(m Measurer) Option {
	return func(u *UI) { u.measurer = m }
}

// WithHitTester replaces the linear hit test scan
func WithHitTester(h pointer.HitTester) Option {
	return func(u *UI) { u.hit = h }
}

// WithShrinkwrapOnce applies content sizes once per marker instead of
// following them every frame
func WithShrinkwrapOnce() Option {
	return func(u *UI) { u.shrinkOnce = true }
}

// UI runs the per-frame pipeline over a World
type UI struct {
	world      *World
	engines    [3]*layout.Engine
	events     *pointer.Engine
	controller *Controller

	measurer   Measurer
	hit        pointer.HitTester
	logger     *log.Logger
	shrinkOnce bool

	frame Frame
}

// New creates a UI with an empty world
func New(opts ...Option) *UI {
	u := &UI{world: NewWorld()}
	for _, opt := range opts {
		opt(u)
	}
	if u.logger == nil {
		u.logger = log.Default()
	}
	for i, axis := range layout.Axes() {
		u.engines[i] = layout.NewEngine(axis, u.logger)
	}
	u.events = pointer.NewEngine(u.hit)
	u.controller = NewController()
	return u
}

// World returns the UI's entity world
func (u *UI) World() *World { return u.world }

// Controller returns the widget controller
func (u *UI) Controller() *Controller { return u.controller }

// Logger returns the diagnostics logger
func (u *UI) Logger() *log.Logger { return u.logger }

// Engine returns the layout engine of one axis
func (u *UI) Engine(id layout.AxisID) *layout.Engine { return u.engines[id] }

// Pointer returns the interaction event engine
func (u *UI) Pointer() *pointer.Engine { return u.events }

// Frame returns the frame passed to the last Maintain
func (u *UI) Frame() Frame { return u.frame }

// Stage returns the entity that stands for the viewport in expressions
func (u *UI) Stage() ecs.Entity { return ecs.None }

// Maintain runs one frame: measure, shrinkwrap, lay out X, Y and Z,
// derive pointer events, then update widgets. A failing stage does not
// stop the later ones; the first error is returned.
func (u *UI) Maintain(f Frame) error {
	u.frame = f
	u.measure()
	if u.shrinkOnce {
		layout.ShrinkwrapOnce(u.world)
	} else {
		layout.ShrinkwrapStage(u.world)
	}

	var first error
	for _, eng := range u.engines {
		if err := eng.Run(u.world, f.Viewport); err != nil {
			u.logger.Printf("layout failed: %v", err)
			if first == nil {
				first = err
			}
		}
	}

	u.events.Run(f.Pointer, u.world, u.world)

	if err := u.controller.Update(u); err != nil && first == nil {
		first = err
	}
	return first
}

// measure replaces every content size with the max over the entity's
// text and picture payloads
func (u *UI) measure() {
	if u.measurer == nil {
		return
	}
	sizes := make(map[ecs.Entity]layout.ContentSize)
	u.world.texts.Each(func(e ecs.Entity, t Text) {
		cs := sizes[e]
		cs.Grow(u.measurer.MeasureText(t))
		sizes[e] = cs
	})
	u.world.pictures.Each(func(e ecs.Entity, p picture.Picture) {
		cs := sizes[e]
		cs.Grow(u.measurer.MeasurePicture(p))
		sizes[e] = cs
	})

	store := u.world.contentSizes
	for _, e := range store.Entities() {
		if _, ok := sizes[e]; !ok {
			store.Remove(e)
		}
	}
	for e, cs := range sizes {
		if old, ok := store.Get(e); ok && old == cs {
			continue
		}
		store.Insert(e, cs)
	}
}

// Destroy removes e from the world and drops widgets built on it
func (u *UI) Destroy(e ecs.Entity) bool {
	u.controller.forget(e)
	return u.world.Destroy(e)
}

// HasEvent reports whether e received k this frame
func (u *UI) HasEvent(e ecs.Entity, k pointer.Kind) bool {
	ev, _ := u.world.events.Get(e)
	return ev.Has(k)
}

// Events returns the events e received this frame
func (u *UI) Events(e ecs.Entity) pointer.Events {
	ev, _ := u.world.events.Get(e)
	return ev
}

// Box returns e's solved geometry
func (u *UI) Box(e ecs.Entity) (layout.Box, bool) {
	return u.world.boxes.Get(e)
}

// Position returns e's top-left corner
func (u *UI) Position(e ecs.Entity) (x, y int32, ok bool) {
	b, ok := u.world.boxes.Get(e)
	return b.X, b.Y, ok
}

// Size returns e's solved size
func (u *UI) Size(e ecs.Entity) (w, h uint32, ok bool) {
	b, ok := u.world.boxes.Get(e)
	return b.Width, b.Height, ok
}

// SetConstraints replaces e's constraint set on one axis
func (u *UI) SetConstraints(id layout.AxisID, e ecs.Entity, set layout.Constraints) {
	u.world.constraints[id].Insert(e, set)
}

// Reposition replaces e's set on one axis like SetConstraints, carrying
// over any content size constraint the old set held
func (u *UI) Reposition(id layout.AxisID, e ecs.Entity, set layout.Constraints) {
	store := u.world.constraints[id]
	old, _ := store.Get(e)
	if size, ok := sizeVar(id, e); ok {
		for _, c := range old {
			if layout.IsShrinkwrap(c, size) {
				set = append(set, c)
			}
		}
	}
	store.Insert(e, set)
}

func sizeVar(id layout.AxisID, e ecs.Entity) (layout.Var, bool) {
	switch id {
	case layout.X:
		return layout.Of(layout.Width, e), true
	case layout.Y:
		return layout.Of(layout.Height, e), true
	default:
		return layout.Var{}, false
	}
}

// AddConstraints appends cs to e's set on one axis. A missing X or Y set
// starts with the entity's span.
func (u *UI) AddConstraints(id layout.AxisID, e ecs.Entity, cs ...solver.Constraint[layout.Var]) {
	store := u.world.constraints[id]
	if store.Update(e, func(set *layout.Constraints) { *set = append(set.Clone(), cs...) }) {
		return
	}
	var set layout.Constraints
	switch id {
	case layout.X:
		set = append(set, layout.SpanX(e))
	case layout.Y:
		set = append(set, layout.SpanY(e))
	}
	store.Insert(e, append(set, cs...))
}

// SetText replaces e's text payload
func (u *UI) SetText(e ecs.Entity, t Text) {
	u.world.texts.Insert(e, t)
}

// SetFill replaces e's fill color
func (u *UI) SetFill(e ecs.Entity, f Fill) {
	u.world.fills.Insert(e, f)
}

// SetVisible shows or hides e
func (u *UI) SetVisible(e ecs.Entity, visible bool) {
	if visible {
		u.world.invisible.Remove(e)
		return
	}
	u.world.invisible.Insert(e, Invisible{})
}
