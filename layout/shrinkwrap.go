package layout

import (
	"errors"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/solver"
)

// ShrinkwrapSource is the part of the world the shrinkwrap stage touches
type ShrinkwrapSource interface {
	Constraints(id AxisID) *ecs.Store[Constraints]
	ContentSizes() *ecs.Store[ContentSize]
	Shrinkwraps() *ecs.Store[Shrinkwrap]
}

// ShrinkwrapStage keeps one weak size == content constraint on both axes
// of every marked entity. Sets are only replaced when the content size
// moved, so an unchanged frame leaves the constraint stores untouched.
// Entities that have not been measured yet are skipped.
func ShrinkwrapStage(src ShrinkwrapSource) {
	for _, e := range src.Shrinkwraps().Entities() {
		// ErrMissingMeasurement heals itself once the entity is measured.
		_ = ShrinkwrapEntity(src, e)
	}
}

// ShrinkwrapOnce applies the content size of every marked, measured entity
// and then clears its marker. Later content changes are not followed.
func ShrinkwrapOnce(src ShrinkwrapSource) {
	for _, e := range src.Shrinkwraps().Entities() {
		if err := ShrinkwrapEntity(src, e); errors.Is(err, ErrMissingMeasurement) {
			continue
		}
		src.Shrinkwraps().Remove(e)
	}
}

// ShrinkwrapEntity pins e's width and height to its ContentSize at Weak
// strength
func ShrinkwrapEntity(src ShrinkwrapSource, e ecs.Entity) error {
	size, ok := src.ContentSizes().Get(e)
	if !ok {
		return ErrMissingMeasurement
	}
	wrap(src.Constraints(X), e, Of(Left, e), Of(Width, e), Of(Right, e), float64(size.Width))
	wrap(src.Constraints(Y), e, Of(Top, e), Of(Height, e), Of(Bottom, e), float64(size.Height))
	return nil
}

// ShrinkwrapConstraint returns the weak size == value constraint
func ShrinkwrapConstraint(size Var, value float64) solver.Constraint[Var] {
	return size.Expr().EqConst(value).WithStrength(solver.Weak)
}

func wrap(store *ecs.Store[Constraints], e ecs.Entity, start, size, end Var, value float64) {
	want := ShrinkwrapConstraint(size, value)
	set, ok := store.Get(e)
	if !ok {
		store.Insert(e, Constraints{Span(start, size, end), want})
		return
	}

	next := make(Constraints, 0, len(set)+1)
	found, changed := false, false
	for _, c := range set {
		if !IsShrinkwrap(c, size) {
			next = append(next, c)
			continue
		}
		if !found && c.Equal(want) {
			found = true
			next = append(next, c)
			continue
		}
		// stale value or a duplicate
		changed = true
	}
	if !found {
		next = append(next, want)
		changed = true
	}
	if changed {
		store.Insert(e, next)
	}
}

// IsShrinkwrap reports whether c is a weak equality on size alone, the
// form ShrinkwrapConstraint produces
func IsShrinkwrap(c solver.Constraint[Var], size Var) bool {
	if c.Op != solver.EQ || c.Strength != solver.Weak {
		return false
	}
	coeffs := c.Expr.Coeffs()
	if len(coeffs) != 1 {
		return false
	}
	k, ok := coeffs[size]
	return ok && k == 1
}
