package layout

import (
	"errors"
	"fmt"
	"log"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/solver"
)

// Source is the world an Engine lays out
type Source interface {
	Constraints(id AxisID) *ecs.Store[Constraints]
	Boxes() *ecs.Store[Box]
	Alive(e ecs.Entity) bool
}

// Namer is implemented by sources that can name entities for diagnostics
type Namer interface {
	Name(e ecs.Entity) (string, bool)
}

// Engine solves one axis. It owns a solver that persists across frames
// and is fed only the constraint sets that changed.
type Engine struct {
	axis   Axis
	logger *log.Logger

	solver *solver.Solver[Var]
	store  *ecs.Store[Constraints]
	reader ecs.ReaderID
	cache  map[ecs.Entity]Constraints
}

// NewEngine creates an engine for axis. A nil logger means log.Default().
func NewEngine(axis Axis, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{axis: axis, logger: logger}
}

// Axis returns the axis this engine solves
func (e *Engine) Axis() AxisID {
	return e.axis.ID
}

// Ready reports whether the solver has been built
func (e *Engine) Ready() bool {
	return e.solver != nil
}

// Reset drops the solver and the constraint cache. The next Run rebuilds
// both from the current contents of the constraint store.
func (e *Engine) Reset() {
	if e.store != nil {
		e.store.Unregister(e.reader)
	}
	e.solver = nil
	e.store = nil
	e.cache = nil
}

// Value returns v's solved value, or 0 before the first Run
func (e *Engine) Value(v Var) float64 {
	if e.solver == nil {
		return 0
	}
	return e.solver.Value(v)
}

// Cached returns how many of ent's constraints are live in the solver
func (e *Engine) Cached(ent ecs.Entity) int {
	return len(e.cache[ent])
}

// Run brings the Box store in line with the axis constraint store. An
// unsatisfiable set does not stop the run: the remaining changes are
// applied and the values solved so far are written before the first such
// error is returned.
func (e *Engine) Run(src Source, vp Viewport) error {
	var first error
	store := src.Constraints(e.axis.ID)
	if e.solver == nil || e.store != store {
		if err := e.init(store); err != nil {
			return err
		}
		// Sets attached before the reader existed count as inserted.
		store.Each(func(ent ecs.Entity, set Constraints) {
			if err := e.insert(src, ent, set); err != nil && first == nil {
				first = err
			}
		})
	}

	for _, ed := range e.axis.Edits {
		if err := e.solver.SuggestValue(ed.Var, ed.Value(vp)); err != nil {
			return fmt.Errorf("layout %v: suggest %v failed: %w", e.axis.ID, ed.Var, err)
		}
	}

	for _, ch := range store.Read(e.reader) {
		if err := e.apply(src, store, ch); err != nil && first == nil {
			first = err
		}
	}

	e.publish(src)
	return first
}

func (e *Engine) init(store *ecs.Store[Constraints]) error {
	e.Reset()
	s := solver.New[Var]()
	if err := s.AddConstraints(e.axis.Root...); err != nil {
		return fmt.Errorf("layout %v: root constraints failed: %w", e.axis.ID, err)
	}
	for _, ed := range e.axis.Edits {
		if err := s.AddEditVariable(ed.Var, solver.Strong); err != nil {
			return fmt.Errorf("layout %v: edit variable %v failed: %w", e.axis.ID, ed.Var, err)
		}
	}
	e.solver = s
	e.store = store
	e.reader = store.Register()
	e.cache = make(map[ecs.Entity]Constraints)
	return nil
}

func (e *Engine) apply(src Source, store *ecs.Store[Constraints], ch ecs.Change) error {
	e.remove(ch.Entity)
	if ch.Kind == ecs.Removed {
		return nil
	}
	set, ok := store.Get(ch.Entity)
	if !ok {
		// Gone by the time the log was drained.
		return nil
	}
	return e.insert(src, ch.Entity, set)
}

// insert adds set to the solver and caches the constraints that went in.
// A rejected constraint is reported and left out of the cache.
func (e *Engine) insert(src Source, ent ecs.Entity, set Constraints) error {
	added := make(Constraints, 0, len(set))
	var first error
	for _, c := range set {
		err := e.solver.AddConstraint(c)
		if err == nil {
			added = append(added, c)
			continue
		}
		if first != nil {
			continue
		}
		if errors.Is(err, solver.ErrUnsatisfiable) {
			ue := &UnsatisfiableError{Axis: e.axis.ID, Entity: ent, Constraint: c, Err: err}
			if n, ok := src.(Namer); ok {
				ue.Name, _ = n.Name(ent)
			}
			first = ue
		} else {
			first = fmt.Errorf("layout %v: add %v for %v failed: %w", e.axis.ID, c, ent, err)
		}
	}
	if len(added) > 0 {
		e.cache[ent] = added
	}
	return first
}

func (e *Engine) remove(ent ecs.Entity) {
	for _, c := range e.cache[ent] {
		if err := e.solver.RemoveConstraint(c); err != nil {
			e.logger.Printf("layout %v: remove %v for %v failed: %v", e.axis.ID, c, ent, err)
		}
	}
	delete(e.cache, ent)
}

func (e *Engine) publish(src Source) {
	boxes := src.Boxes()
	for _, ch := range e.solver.FetchChanges() {
		v := ch.Var
		if v.IsStage() {
			continue
		}
		if !src.Alive(v.Entity) {
			e.logger.Printf("%v", &DanglingReferenceError{Axis: e.axis.ID, Var: v})
			continue
		}
		b, ok := boxes.Get(v.Entity)
		if !e.axis.Write(&b, v.Attr, ch.Value) && ok {
			continue
		}
		boxes.Insert(v.Entity, b)
	}
}
