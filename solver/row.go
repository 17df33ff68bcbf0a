package solver

import "math"

const epsilon = 1.0e-8

func nearZero(v float64) bool {
	return math.Abs(v) < epsilon
}

type symbolKind uint8

const (
	invalidSymbol symbolKind = iota
	externalSymbol
	slackSymbol
	errorSymbol
	dummySymbol
)

type symbol struct {
	id   uint64
	kind symbolKind
}

func (s symbol) valid() bool {
	return s.kind != invalidSymbol
}

// pivotable symbols may enter the basis
func (s symbol) pivotable() bool {
	return s.kind == slackSymbol || s.kind == errorSymbol
}

// row is one tableau row: basic = constant + sum(cells)
type row struct {
	constant float64
	cells    map[symbol]float64
}

func newRow(constant float64) *row {
	return &row{constant: constant, cells: make(map[symbol]float64)}
}

func (r *row) clone() *row {
	c := newRow(r.constant)
	for s, v := range r.cells {
		c.cells[s] = v
	}
	return c
}

func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

func (r *row) insertSymbol(s symbol, coeff float64) {
	v := r.cells[s] + coeff
	if nearZero(v) {
		delete(r.cells, s)
		return
	}
	r.cells[s] = v
}

func (r *row) insertRow(o *row, coeff float64) {
	r.constant += o.constant * coeff
	for s, v := range o.cells {
		r.insertSymbol(s, v*coeff)
	}
}

func (r *row) remove(s symbol) {
	delete(r.cells, s)
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for s, v := range r.cells {
		r.cells[s] = -v
	}
}

// solveFor rewrites r so that s is its basic variable and drops s from the cells
func (r *row) solveFor(s symbol) {
	coeff := -1.0 / r.cells[s]
	delete(r.cells, s)
	r.constant *= coeff
	for k, v := range r.cells {
		r.cells[k] = v * coeff
	}
}

// solveForPair swaps lhs out of the basis in favour of rhs
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

func (r *row) coeff(s symbol) float64 {
	return r.cells[s]
}

func (r *row) substitute(s symbol, o *row) {
	if c, ok := r.cells[s]; ok {
		delete(r.cells, s)
		r.insertRow(o, c)
	}
}

// lowest returns the symbol with the smallest id accepted by keep, so that
// pivot choices do not depend on map iteration order
func (r *row) lowest(keep func(symbol, float64) bool) symbol {
	var best symbol
	for s, v := range r.cells {
		if !keep(s, v) {
			continue
		}
		if !best.valid() || s.id < best.id {
			best = s
		}
	}
	return best
}
