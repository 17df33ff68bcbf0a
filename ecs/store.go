package ecs

// ChangeKind tags an entry of a store's change log
type ChangeKind uint8

const (
	Inserted ChangeKind = iota
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one entry of a store's change log
type Change struct {
	Kind   ChangeKind
	Entity Entity
}

// ReaderID is a consumer's cursor into a store's change log
type ReaderID int

type slot[T any] struct {
	ent Entity
	val T
	ok  bool
}

// Store holds at most one T per entity and records every mutation in an
// ordered change log. Each registered reader consumes the log at its own
// pace; entries are only kept while some reader has not seen them.
type Store[T any] struct {
	slots []slot[T]
	count int

	changes []Change
	base    int // absolute position of changes[0]
	readers []int
}

// NewStore creates an empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

// Insert attaches v to e, replacing any previous value wholesale.
// It logs Inserted for a new attachment and Modified for a replacement.
func (s *Store[T]) Insert(e Entity, v T) {
	if e.IsNone() {
		return
	}
	s.grow(e.Index)
	sl := &s.slots[e.Index]
	kind := Inserted
	if sl.ok && sl.ent == e {
		kind = Modified
	} else {
		if sl.ok {
			// A stale generation still occupies the slot.
			s.record(Removed, sl.ent)
		} else {
			s.count++
		}
	}
	sl.ent = e
	sl.val = v
	sl.ok = true
	s.record(kind, e)
}

// Update mutates e's value in place and logs Modified. It returns false
// when e has no value.
func (s *Store[T]) Update(e Entity, fn func(*T)) bool {
	if !s.Has(e) {
		return false
	}
	fn(&s.slots[e.Index].val)
	s.record(Modified, e)
	return true
}

// Get returns e's value
func (s *Store[T]) Get(e Entity) (T, bool) {
	if !s.Has(e) {
		var zero T
		return zero, false
	}
	return s.slots[e.Index].val, true
}

// Has reports whether e has a value
func (s *Store[T]) Has(e Entity) bool {
	if e.IsNone() || int(e.Index) >= len(s.slots) {
		return false
	}
	sl := &s.slots[e.Index]
	return sl.ok && sl.ent == e
}

// Remove detaches e's value and logs Removed. It returns false when there
// was nothing to remove.
func (s *Store[T]) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	var zero T
	s.slots[e.Index] = slot[T]{val: zero}
	s.count--
	s.record(Removed, e)
	return true
}

// Len returns the number of entities with a value
func (s *Store[T]) Len() int {
	return s.count
}

// Entities returns the entities with a value, in ascending index order
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, 0, s.count)
	for i := range s.slots {
		if s.slots[i].ok {
			out = append(out, s.slots[i].ent)
		}
	}
	return out
}

// Each calls fn for every entity with a value, in ascending index order.
// fn must not insert into or remove from s.
func (s *Store[T]) Each(fn func(Entity, T)) {
	for i := range s.slots {
		if s.slots[i].ok {
			fn(s.slots[i].ent, s.slots[i].val)
		}
	}
}

// Clear removes every value, logging Removed for each
func (s *Store[T]) Clear() {
	for _, e := range s.Entities() {
		s.Remove(e)
	}
}

// Register returns a reader that will see every change made from now on
func (s *Store[T]) Register() ReaderID {
	s.readers = append(s.readers, s.base+len(s.changes))
	return ReaderID(len(s.readers) - 1)
}

// Unregister drops reader r. Its cursor no longer holds back compaction.
func (s *Store[T]) Unregister(r ReaderID) {
	if int(r) < 0 || int(r) >= len(s.readers) {
		return
	}
	s.readers[r] = -1
	s.compact()
}

// Read returns the changes r has not seen yet and advances its cursor
func (s *Store[T]) Read(r ReaderID) []Change {
	if int(r) < 0 || int(r) >= len(s.readers) || s.readers[r] < 0 {
		return nil
	}
	from := s.readers[r] - s.base
	out := make([]Change, len(s.changes)-from)
	copy(out, s.changes[from:])
	s.readers[r] = s.base + len(s.changes)
	s.compact()
	return out
}

// Pending returns how many changes r has not read yet
func (s *Store[T]) Pending(r ReaderID) int {
	if int(r) < 0 || int(r) >= len(s.readers) || s.readers[r] < 0 {
		return 0
	}
	return s.base + len(s.changes) - s.readers[r]
}

func (s *Store[T]) record(kind ChangeKind, e Entity) {
	if !s.tracked() {
		return
	}
	s.changes = append(s.changes, Change{Kind: kind, Entity: e})
}

func (s *Store[T]) compact() {
	low := s.base + len(s.changes)
	for _, pos := range s.readers {
		if pos >= 0 && pos < low {
			low = pos
		}
	}
	drop := low - s.base
	if drop <= 0 {
		return
	}
	n := copy(s.changes, s.changes[drop:])
	s.changes = s.changes[:n]
	s.base = low
}

func (s *Store[T]) grow(idx uint32) {
	if int(idx) < len(s.slots) {
		return
	}
	n := int(idx) + 1
	if c := 2 * len(s.slots); c > n {
		n = c
	}
	grown := make([]slot[T], n)
	copy(grown, s.slots)
	s.slots = grown
}

func (s *Store[T]) tracked() bool {
	for _, pos := range s.readers {
		if pos >= 0 {
			return true
		}
	}
	return false
}
