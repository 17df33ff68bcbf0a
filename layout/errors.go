package layout

import (
	"errors"
	"fmt"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/solver"
)

// ErrMissingMeasurement means a shrinkwrapped entity has no ContentSize yet.
// The shrinkwrap stage skips such entities and tries again next frame.
var ErrMissingMeasurement = errors.New("layout: content size not measured")

// UnsatisfiableError reports a required constraint that contradicts the
// other required constraints on its axis
type UnsatisfiableError struct {
	Axis       AxisID
	Entity     ecs.Entity
	Name       string
	Constraint solver.Constraint[Var]
	Err        error
}

func (e *UnsatisfiableError) Error() string {
	who := e.Entity.String()
	if e.Name != "" {
		who = fmt.Sprintf("%s (%s)", e.Name, who)
	}
	return fmt.Sprintf("layout %v: constraint %v of %s: %v", e.Axis, e.Constraint, who, e.Err)
}

func (e *UnsatisfiableError) Unwrap() error {
	return e.Err
}

// DanglingReferenceError reports a solved variable whose entity has been
// destroyed. The value is not written.
type DanglingReferenceError struct {
	Axis AxisID
	Var  Var
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("layout %v: %v refers to destroyed %v", e.Axis, e.Var, e.Var.Entity)
}
