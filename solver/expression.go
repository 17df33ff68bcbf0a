package solver

import (
	"fmt"
	"strings"
)

// Term is a variable scaled by a coefficient
type Term[V comparable] struct {
	Var   V
	Coeff float64
}

// Expression is a linear combination of variables plus a constant
type Expression[V comparable] struct {
	Terms    []Term[V]
	Constant float64
}

// Var returns the expression 1*v
func Var[V comparable](v V) Expression[V] {
	return Expression[V]{Terms: []Term[V]{{Var: v, Coeff: 1}}}
}

// Const returns the constant expression c
func Const[V comparable](c float64) Expression[V] {
	return Expression[V]{Constant: c}
}

// Add returns e + o
func (e Expression[V]) Add(o Expression[V]) Expression[V] {
	terms := make([]Term[V], 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expression[V]{Terms: terms, Constant: e.Constant + o.Constant}
}

// Sub returns e - o
func (e Expression[V]) Sub(o Expression[V]) Expression[V] {
	return e.Add(o.Mul(-1))
}

// Plus returns e + c
func (e Expression[V]) Plus(c float64) Expression[V] {
	return Expression[V]{Terms: e.Terms, Constant: e.Constant + c}
}

// Minus returns e - c
func (e Expression[V]) Minus(c float64) Expression[V] {
	return e.Plus(-c)
}

// Mul returns k * e
func (e Expression[V]) Mul(k float64) Expression[V] {
	terms := make([]Term[V], len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term[V]{Var: t.Var, Coeff: t.Coeff * k}
	}
	return Expression[V]{Terms: terms, Constant: e.Constant * k}
}

// Eq returns the required constraint e == o
func (e Expression[V]) Eq(o Expression[V]) Constraint[V] {
	return newConstraint(e.Sub(o), EQ)
}

// Le returns the required constraint e <= o
func (e Expression[V]) Le(o Expression[V]) Constraint[V] {
	return newConstraint(e.Sub(o), LE)
}

// Ge returns the required constraint e >= o
func (e Expression[V]) Ge(o Expression[V]) Constraint[V] {
	return newConstraint(e.Sub(o), GE)
}

// EqConst returns the required constraint e == c
func (e Expression[V]) EqConst(c float64) Constraint[V] {
	return e.Eq(Const[V](c))
}

// Vars returns the distinct variables of e in first-seen order
func (e Expression[V]) Vars() []V {
	seen := make(map[V]bool, len(e.Terms))
	out := make([]V, 0, len(e.Terms))
	for _, t := range e.Terms {
		if !seen[t.Var] {
			seen[t.Var] = true
			out = append(out, t.Var)
		}
	}
	return out
}

// Coeffs folds repeated variables together and drops cancelled ones
func (e Expression[V]) Coeffs() map[V]float64 {
	m := make(map[V]float64, len(e.Terms))
	for _, t := range e.Terms {
		m[t.Var] += t.Coeff
	}
	for v, c := range m {
		if nearZero(c) {
			delete(m, v)
		}
	}
	return m
}

func (e Expression[V]) String() string {
	var sb strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			sb.WriteString(" + ")
		}
		if t.Coeff == 1 {
			fmt.Fprintf(&sb, "%v", t.Var)
		} else {
			fmt.Fprintf(&sb, "%g*%v", t.Coeff, t.Var)
		}
	}
	if e.Constant != 0 || len(e.Terms) == 0 {
		if len(e.Terms) > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%g", e.Constant)
	}
	return sb.String()
}

// Op is the relation of a constraint to zero
type Op uint8

const (
	EQ Op = iota
	LE
	GE
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "=="
	}
}

// Constraint is the relation Expr Op 0 at a given Strength. Constraints are
// values: two constraints with the same normalised expression, relation and
// strength are the same constraint.
type Constraint[V comparable] struct {
	Expr     Expression[V]
	Op       Op
	Strength Strength
}

func newConstraint[V comparable](expr Expression[V], op Op) Constraint[V] {
	return Constraint[V]{Expr: expr, Op: op, Strength: Required}
}

// WithStrength returns a copy of c at strength s
func (c Constraint[V]) WithStrength(s Strength) Constraint[V] {
	c.Strength = s
	return c
}

// Equal reports whether c and o constrain the same variables in the same
// way at the same strength
func (c Constraint[V]) Equal(o Constraint[V]) bool {
	if c.Op != o.Op || c.Strength != o.Strength || !nearZero(c.Expr.Constant-o.Expr.Constant) {
		return false
	}
	a, b := c.Expr.Coeffs(), o.Expr.Coeffs()
	if len(a) != len(b) {
		return false
	}
	for v, ca := range a {
		cb, ok := b[v]
		if !ok || !nearZero(ca-cb) {
			return false
		}
	}
	return true
}

func (c Constraint[V]) String() string {
	return fmt.Sprintf("%v %v 0 [%v]", c.Expr, c.Op, c.Strength)
}
