package ecs

import "fmt"

// Entity identifies a row in the component stores. The generation detects
// stale references to a reused index.
type Entity struct {
	Index uint32
	Gen   uint32
}

// None is the zero Entity. It never refers to a live entity.
var None = Entity{}

// IsNone reports whether e is the zero Entity
func (e Entity) IsNone() bool {
	return e == None
}

func (e Entity) String() string {
	if e.IsNone() {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%d.%d)", e.Index, e.Gen)
}

// Entities mints and recycles entity identifiers
type Entities struct {
	gens  []uint32
	alive []bool
	free  []uint32
	count int
}

// NewEntities creates an empty entity allocator
func NewEntities() *Entities {
	return &Entities{}
}

// Create returns a fresh entity, reusing a destroyed index when one is free
func (es *Entities) Create() Entity {
	if n := len(es.free); n > 0 {
		idx := es.free[n-1]
		es.free = es.free[:n-1]
		es.gens[idx]++
		es.alive[idx] = true
		es.count++
		return Entity{Index: idx, Gen: es.gens[idx]}
	}
	idx := uint32(len(es.gens))
	// Generations start at 1 so that None is never alive.
	es.gens = append(es.gens, 1)
	es.alive = append(es.alive, true)
	es.count++
	return Entity{Index: idx, Gen: 1}
}

// Destroy frees e. It returns false if e was not alive.
func (es *Entities) Destroy(e Entity) bool {
	if !es.Alive(e) {
		return false
	}
	es.alive[e.Index] = false
	es.free = append(es.free, e.Index)
	es.count--
	return true
}

// Alive reports whether e refers to a live entity of the current generation
func (es *Entities) Alive(e Entity) bool {
	if e.IsNone() || int(e.Index) >= len(es.gens) {
		return false
	}
	return es.alive[e.Index] && es.gens[e.Index] == e.Gen
}

// Len returns the number of live entities
func (es *Entities) Len() int {
	return es.count
}
