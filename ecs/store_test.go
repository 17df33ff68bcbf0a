package ecs

import (
	"reflect"
	"testing"
)

func TestEntitiesReuseBumpsGeneration(t *testing.T) {
	es := NewEntities()
	a := es.Create()
	b := es.Create()
	if a == b {
		t.Fatalf("Create returned the same entity twice: %v", a)
	}
	if !es.Destroy(a) {
		t.Fatalf("Destroy(%v) = false, want true", a)
	}
	if es.Destroy(a) {
		t.Fatalf("second Destroy(%v) = true, want false", a)
	}
	c := es.Create()
	if c.Index != a.Index {
		t.Errorf("Create reused index %d, want %d", c.Index, a.Index)
	}
	if c.Gen == a.Gen {
		t.Errorf("reused entity kept generation %d", c.Gen)
	}
	if es.Alive(a) {
		t.Errorf("stale entity %v reported alive", a)
	}
	if !es.Alive(c) || !es.Alive(b) {
		t.Errorf("live entities reported dead")
	}
	if es.Alive(None) {
		t.Errorf("None reported alive")
	}
	if got := es.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestStoreChangeLog(t *testing.T) {
	es := NewEntities()
	s := NewStore[int]()
	r := s.Register()

	a := es.Create()
	b := es.Create()
	s.Insert(a, 1)
	s.Insert(b, 2)
	s.Insert(a, 3)
	s.Update(b, func(v *int) { *v++ })
	s.Remove(a)

	want := []Change{
		{Inserted, a},
		{Inserted, b},
		{Modified, a},
		{Modified, b},
		{Removed, a},
	}
	if got := s.Read(r); !reflect.DeepEqual(got, want) {
		t.Fatalf("Read() = %v, want %v", got, want)
	}
	if got := s.Read(r); len(got) != 0 {
		t.Errorf("second Read() = %v, want nothing", got)
	}
	if v, ok := s.Get(b); !ok || v != 3 {
		t.Errorf("Get(b) = %d, %v; want 3, true", v, ok)
	}
	if s.Has(a) {
		t.Errorf("Has(a) after Remove")
	}
}

func TestStoreIndependentReaders(t *testing.T) {
	es := NewEntities()
	s := NewStore[string]()
	r1 := s.Register()
	e := es.Create()
	s.Insert(e, "x")
	r2 := s.Register()
	s.Insert(e, "y")

	if got := s.Pending(r1); got != 2 {
		t.Errorf("Pending(r1) = %d, want 2", got)
	}
	if got := s.Read(r2); len(got) != 1 || got[0].Kind != Modified {
		t.Errorf("Read(r2) = %v, want one Modified", got)
	}
	// r1 has not read yet, so the log must still hold its entries.
	if got := s.Read(r1); len(got) != 2 {
		t.Errorf("Read(r1) = %v, want 2 entries", got)
	}
	if len(s.changes) != 0 {
		t.Errorf("log not compacted: %v", s.changes)
	}
}

func TestStoreStaleGeneration(t *testing.T) {
	es := NewEntities()
	s := NewStore[int]()
	r := s.Register()
	a := es.Create()
	s.Insert(a, 1)
	es.Destroy(a)
	a2 := es.Create()

	if s.Has(a2) {
		t.Fatalf("new generation sees the old value")
	}
	s.Insert(a2, 2)
	got := s.Read(r)
	want := []Change{{Inserted, a}, {Removed, a}, {Inserted, a2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %v, want %v", got, want)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreEntitiesOrdered(t *testing.T) {
	es := NewEntities()
	s := NewStore[int]()
	var ents []Entity
	for i := 0; i < 5; i++ {
		ents = append(ents, es.Create())
	}
	for i := len(ents) - 1; i >= 0; i-- {
		s.Insert(ents[i], i)
	}
	if got := s.Entities(); !reflect.DeepEqual(got, ents) {
		t.Errorf("Entities() = %v, want %v", got, ents)
	}
	var sum int
	s.Each(func(_ Entity, v int) { sum += v })
	if sum != 10 {
		t.Errorf("Each visited sum %d, want 10", sum)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
}

func TestStoreWithoutReadersKeepsNoLog(t *testing.T) {
	es := NewEntities()
	s := NewStore[int]()
	s.Insert(es.Create(), 1)
	if len(s.changes) != 0 {
		t.Errorf("store without readers logged %v", s.changes)
	}
}

func TestStoreUnregister(t *testing.T) {
	es := NewEntities()
	s := NewStore[int]()
	a := s.Register()
	b := s.Register()
	e := es.Create()

	s.Insert(e, 1)
	s.Unregister(b)
	if got := s.Pending(b); got != 0 {
		t.Errorf("Pending(unregistered) = %d, want 0", got)
	}
	if got := s.Read(b); got != nil {
		t.Errorf("Read(unregistered) = %v, want nil", got)
	}
	if got := s.Read(a); len(got) != 1 {
		t.Fatalf("Read(a) = %v, want 1 change", got)
	}
	if len(s.changes) != 0 {
		t.Errorf("log holds %d entries after every live reader caught up", len(s.changes))
	}

	s.Unregister(a)
	s.Insert(e, 2)
	if len(s.changes) != 0 {
		t.Errorf("log grew with no live readers")
	}
}
