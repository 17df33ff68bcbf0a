package pointer

import "github.com/OpticalFlyer/berry/ecs"

// Engine derives interaction events from consecutive pointer samples. It
// remembers the previous sample and which entities are hovered.
type Engine struct {
	hit     HitTester
	prev    State
	hovered map[ecs.Entity]bool
}

// NewEngine creates an engine. A nil hit tester means LinearScan.
func NewEngine(hit HitTester) *Engine {
	if hit == nil {
		hit = LinearScan{}
	}
	return &Engine{hit: hit, hovered: make(map[ecs.Entity]bool)}
}

// Previous returns the sample of the last Run
func (en *Engine) Previous() State {
	return en.prev
}

// Hovered reports whether the pointer was inside e's box on the last Run
func (en *Engine) Hovered(e ecs.Entity) bool {
	return en.hovered[e]
}

// Reset forgets the previous sample and the hovered set
func (en *Engine) Reset() {
	en.prev = State{}
	en.hovered = make(map[ecs.Entity]bool)
}

// Run replaces last frame's events with the ones cur produces
func (en *Engine) Run(cur State, boxes BoxSource, sink EventSink) {
	events := sink.Events()
	events.Clear()

	pressed := cur.Left && !en.prev.Left
	released := !cur.Left && en.prev.Left
	moved := cur.Moved(en.prev)

	seen := make(map[ecs.Entity]bool, len(en.hovered))
	en.hit.Test(boxes.Boxes(), cur.X, cur.Y, func(e ecs.Entity, inside bool) {
		seen[e] = true
		hovered := en.hovered[e]

		var ev Events
		switch {
		case inside && released:
			ev = append(ev, Release)
		case inside && pressed:
			ev = append(ev, Press)
		}
		switch {
		case inside && hovered:
			if moved {
				ev = append(ev, Move)
			}
		case inside:
			ev = append(ev, Enter)
			en.hovered[e] = true
		case hovered:
			ev = append(ev, Leave)
			delete(en.hovered, e)
		}
		if len(ev) > 0 {
			events.Insert(e, ev)
		}
	})

	// Entities that lost their box are forgotten without a Leave.
	for e := range en.hovered {
		if !seen[e] {
			delete(en.hovered, e)
		}
	}
	en.prev = cur
}
