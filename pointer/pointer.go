// Package pointer turns per-frame pointer samples into edge-triggered
// interaction events on the entities under the pointer.
package pointer

import (
	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
)

// State is one pointer sample
type State struct {
	X, Y                int32
	Left, Middle, Right bool
}

// Moved reports whether s and o are at different positions
func (s State) Moved(o State) bool {
	return s.X != o.X || s.Y != o.Y
}

// Kind is an interaction event tag
type Kind uint8

const (
	Enter Kind = iota
	Move
	Leave
	Press
	Release
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Move:
		return "move"
	case Leave:
		return "leave"
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Events is the ordered list of tags an entity received this frame
type Events []Kind

// Has reports whether k is in ev
func (ev Events) Has(k Kind) bool {
	for _, x := range ev {
		if x == k {
			return true
		}
	}
	return false
}

// BoxSource supplies the solved geometry to hit test
type BoxSource interface {
	Boxes() *ecs.Store[layout.Box]
}

// EventSink receives each frame's events
type EventSink interface {
	Events() *ecs.Store[Events]
}

// HitTester decides which boxes contain a point
type HitTester interface {
	// Test calls fn once for every entity with a box, in ascending entity
	// order, reporting whether (x, y) lies inside its box.
	Test(boxes *ecs.Store[layout.Box], x, y int32, fn func(e ecs.Entity, inside bool))
}

// LinearScan tests every box in turn
type LinearScan struct{}

func (LinearScan) Test(boxes *ecs.Store[layout.Box], x, y int32, fn func(ecs.Entity, bool)) {
	boxes.Each(func(e ecs.Entity, b layout.Box) {
		fn(e, b.Contains(x, y))
	})
}
