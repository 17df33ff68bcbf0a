package solver

import "errors"

var (
	// ErrUnsatisfiable is returned when a required constraint contradicts
	// the required constraints already in the solver. The solver is left
	// as it was before the call.
	ErrUnsatisfiable = errors.New("solver: unsatisfiable required constraint")
	// ErrUnknownConstraint is returned when removing a constraint the
	// solver does not hold.
	ErrUnknownConstraint = errors.New("solver: unknown constraint")
	// ErrDuplicateEditVariable is returned when a variable is registered
	// as an edit variable twice.
	ErrDuplicateEditVariable = errors.New("solver: duplicate edit variable")
	// ErrUnknownEditVariable is returned when suggesting a value for, or
	// removing, a variable that is not an edit variable.
	ErrUnknownEditVariable = errors.New("solver: unknown edit variable")
	// ErrBadRequiredStrength is returned when an edit variable is
	// registered at required strength.
	ErrBadRequiredStrength = errors.New("solver: edit variable cannot be required")

	errUnbounded    = errors.New("solver: internal error: objective is unbounded")
	errDualOptimize = errors.New("solver: internal error: dual optimize failed")
)
