package ui

import (
	"fmt"

	"github.com/OpticalFlyer/berry/ecs"
)

// Controller manages all widgets
type Controller struct {
	widgets []Widget
}

// NewController creates a new widget controller
func NewController() *Controller {
	return &Controller{
		widgets: make([]Widget, 0),
	}
}

// Add registers a widget to be updated every frame
func (c *Controller) Add(w Widget) {
	c.widgets = append(c.widgets, w)
}

// Len returns the number of registered widgets
func (c *Controller) Len() int {
	return len(c.widgets)
}

// Update updates all widgets in the order they were added. Every widget
// is updated; the first error is returned.
func (c *Controller) Update(u *UI) error {
	var first error
	for i, w := range c.widgets {
		if err := w.Update(u); err != nil {
			u.logger.Printf("widget %d update failed: %v", i, err)
			if first == nil {
				first = fmt.Errorf("widget %d: %w", i, err)
			}
		}
	}
	return first
}

// forget drops every widget built on e
func (c *Controller) forget(e ecs.Entity) {
	kept := c.widgets[:0]
	for _, w := range c.widgets {
		if !w.Owns(e) {
			kept = append(kept, w)
		}
	}
	clear(c.widgets[len(kept):])
	c.widgets = kept
}

// interactor is a widget that can capture the pointer
type interactor interface {
	Interacting() bool
}

// IsInteractingWithUI returns true if any widget holds the pointer, e.g.
// a panel being dragged or resized
func (c *Controller) IsInteractingWithUI() bool {
	for _, w := range c.widgets {
		if i, ok := w.(interactor); ok && i.Interacting() {
			return true
		}
	}
	return false
}
