package ui

import (
	"sort"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/pointer"
)

// World owns the entity allocator and every component store
type World struct {
	entities     *ecs.Entities
	constraints  [3]*ecs.Store[layout.Constraints]
	boxes        *ecs.Store[layout.Box]
	contentSizes *ecs.Store[layout.ContentSize]
	shrinkwraps  *ecs.Store[layout.Shrinkwrap]
	names        *ecs.Store[Name]
	texts        *ecs.Store[Text]
	fills        *ecs.Store[Fill]
	pictures     *ecs.Store[picture.Picture]
	events       *ecs.Store[pointer.Events]
	invisible    *ecs.Store[Invisible]
}

// NewWorld creates an empty world
func NewWorld() *World {
	w := &World{
		entities:     ecs.NewEntities(),
		boxes:        ecs.NewStore[layout.Box](),
		contentSizes: ecs.NewStore[layout.ContentSize](),
		shrinkwraps:  ecs.NewStore[layout.Shrinkwrap](),
		names:        ecs.NewStore[Name](),
		texts:        ecs.NewStore[Text](),
		fills:        ecs.NewStore[Fill](),
		pictures:     ecs.NewStore[picture.Picture](),
		events:       ecs.NewStore[pointer.Events](),
		invisible:    ecs.NewStore[Invisible](),
	}
	for i := range w.constraints {
		w.constraints[i] = ecs.NewStore[layout.Constraints]()
	}
	return w
}

// Create mints a new entity
func (w *World) Create() ecs.Entity {
	return w.entities.Create()
}

// Destroy detaches every component of e and frees its index. The layout
// engines see the removal of its constraint sets on their next run.
func (w *World) Destroy(e ecs.Entity) bool {
	if !w.entities.Alive(e) {
		return false
	}
	for _, s := range w.constraints {
		s.Remove(e)
	}
	w.boxes.Remove(e)
	w.contentSizes.Remove(e)
	w.shrinkwraps.Remove(e)
	w.names.Remove(e)
	w.texts.Remove(e)
	w.fills.Remove(e)
	w.pictures.Remove(e)
	w.events.Remove(e)
	w.invisible.Remove(e)
	return w.entities.Destroy(e)
}

// Alive reports whether e has not been destroyed
func (w *World) Alive(e ecs.Entity) bool {
	return w.entities.Alive(e)
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.entities.Len()
}

// Name returns e's diagnostic name
func (w *World) Name(e ecs.Entity) (string, bool) {
	n, ok := w.names.Get(e)
	return string(n), ok
}

func (w *World) Constraints(id layout.AxisID) *ecs.Store[layout.Constraints] {
	return w.constraints[id]
}

func (w *World) Boxes() *ecs.Store[layout.Box]                { return w.boxes }
func (w *World) ContentSizes() *ecs.Store[layout.ContentSize] { return w.contentSizes }
func (w *World) Shrinkwraps() *ecs.Store[layout.Shrinkwrap]   { return w.shrinkwraps }
func (w *World) Names() *ecs.Store[Name]                      { return w.names }
func (w *World) Texts() *ecs.Store[Text]                      { return w.texts }
func (w *World) Fills() *ecs.Store[Fill]                      { return w.fills }
func (w *World) Pictures() *ecs.Store[picture.Picture]        { return w.pictures }
func (w *World) Events() *ecs.Store[pointer.Events]           { return w.events }
func (w *World) Invisible() *ecs.Store[Invisible]             { return w.invisible }

// PaintOrder returns the visible entities with a box, back to front: by
// ascending Z, then by entity index
func (w *World) PaintOrder() []ecs.Entity {
	type item struct {
		e ecs.Entity
		z int32
	}
	items := make([]item, 0, w.boxes.Len())
	w.boxes.Each(func(e ecs.Entity, b layout.Box) {
		if w.invisible.Has(e) {
			return
		}
		items = append(items, item{e, b.Z})
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].z != items[j].z {
			return items[i].z < items[j].z
		}
		return items[i].e.Index < items[j].e.Index
	})
	out := make([]ecs.Entity, len(items))
	for i, it := range items {
		out[i] = it.e
	}
	return out
}

var (
	_ layout.Source           = (*World)(nil)
	_ layout.ShrinkwrapSource = (*World)(nil)
	_ layout.Namer            = (*World)(nil)
	_ pointer.BoxSource       = (*World)(nil)
	_ pointer.EventSink       = (*World)(nil)
)
