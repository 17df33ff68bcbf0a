// Package solver implements an incremental Cassowary linear constraint
// solver. Variables are plain comparable keys chosen by the caller, so a
// layout engine can constrain its own identifiers directly.
//
// The algorithm follows the Kiwi formulation of Cassowary: constraints are
// kept in a simplex tableau that is updated in place as constraints are
// added and removed, and edit variables can be re-suggested every frame
// with a dual simplex pass.
package solver

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Change reports a variable whose value moved since the last FetchChanges
type Change[V comparable] struct {
	Var   V
	Value float64
}

type tag struct {
	marker symbol
	other  symbol
}

type record[V comparable] struct {
	constraint Constraint[V]
	tag        tag
	uses       int
}

type edit[V comparable] struct {
	tag        tag
	constraint Constraint[V]
	constant   float64
}

type variable struct {
	sym       symbol
	refs      int
	value     float64
	published bool
}

// Solver is an incremental constraint solver over variables of type V.
// A Solver is not safe for concurrent use.
type Solver[V comparable] struct {
	cns        map[string]*record[V]
	vars       map[V]*variable
	rows       map[symbol]*row
	edits      map[V]*edit[V]
	infeasible []symbol
	objective  *row
	artificial *row
	nextID     uint64
}

// New creates an empty solver
func New[V comparable]() *Solver[V] {
	s := &Solver[V]{}
	s.Reset()
	return s
}

// Reset drops every constraint and edit variable
func (s *Solver[V]) Reset() {
	s.cns = make(map[string]*record[V])
	s.vars = make(map[V]*variable)
	s.rows = make(map[symbol]*row)
	s.edits = make(map[V]*edit[V])
	s.infeasible = nil
	s.objective = newRow(0)
	s.artificial = nil
	s.nextID = 0
}

// AddConstraint adds c to the solver. Adding a constraint equal to one the
// solver already holds only bumps its use count.
func (s *Solver[V]) AddConstraint(c Constraint[V]) error {
	c.Strength = c.Strength.Clip()
	if key, ok := s.key(c); ok {
		if rec, ok := s.cns[key]; ok {
			rec.uses++
			return nil
		}
	}
	t, err := s.add(c)
	if err != nil {
		return err
	}
	key, _ := s.key(c)
	s.cns[key] = &record[V]{constraint: c, tag: t, uses: 1}
	return nil
}

// AddConstraints adds each constraint in turn and stops at the first error
func (s *Solver[V]) AddConstraints(cs ...Constraint[V]) error {
	for _, c := range cs {
		if err := s.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// RemoveConstraint drops one use of c. The constraint leaves the tableau
// when its last use is removed.
func (s *Solver[V]) RemoveConstraint(c Constraint[V]) error {
	c.Strength = c.Strength.Clip()
	key, ok := s.key(c)
	if !ok {
		return ErrUnknownConstraint
	}
	rec, ok := s.cns[key]
	if !ok {
		return ErrUnknownConstraint
	}
	rec.uses--
	if rec.uses > 0 {
		return nil
	}
	delete(s.cns, key)
	s.dropTag(rec.tag, rec.constraint.Strength)
	s.release(rec.constraint)
	return s.optimize(s.objective)
}

// HasConstraint reports whether the solver holds c
func (s *Solver[V]) HasConstraint(c Constraint[V]) bool {
	return s.Uses(c) > 0
}

// Uses returns how many times c has been added and not yet removed
func (s *Solver[V]) Uses(c Constraint[V]) int {
	c.Strength = c.Strength.Clip()
	key, ok := s.key(c)
	if !ok {
		return 0
	}
	if rec, ok := s.cns[key]; ok {
		return rec.uses
	}
	return 0
}

// AddEditVariable makes v suggestible at the given non-required strength
func (s *Solver[V]) AddEditVariable(v V, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return ErrDuplicateEditVariable
	}
	strength = strength.Clip()
	if strength.IsRequired() {
		return ErrBadRequiredStrength
	}
	c := Var(v).EqConst(0).WithStrength(strength)
	t, err := s.add(c)
	if err != nil {
		return err
	}
	s.edits[v] = &edit[V]{tag: t, constraint: c}
	return nil
}

// RemoveEditVariable drops v's edit constraint
func (s *Solver[V]) RemoveEditVariable(v V) error {
	e, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delete(s.edits, v)
	s.dropTag(e.tag, e.constraint.Strength)
	s.release(e.constraint)
	return s.optimize(s.objective)
}

// HasEditVariable reports whether v is an edit variable
func (s *Solver[V]) HasEditVariable(v V) bool {
	_, ok := s.edits[v]
	return ok
}

// SuggestValue asks the solver to move edit variable v towards value
func (s *Solver[V]) SuggestValue(v V, value float64) error {
	e, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delta := value - e.constant
	e.constant = value

	if r, ok := s.rows[e.tag.marker]; ok {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, e.tag.marker)
		}
		return s.dualOptimize()
	}
	if r, ok := s.rows[e.tag.other]; ok {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, e.tag.other)
		}
		return s.dualOptimize()
	}
	for sym, r := range s.rows {
		c := r.coeff(e.tag.marker)
		if c != 0 && r.add(delta*c) < 0 && sym.kind != externalSymbol {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	return s.dualOptimize()
}

// Value returns v's current solved value. Unknown variables are 0.
func (s *Solver[V]) Value(v V) float64 {
	vr, ok := s.vars[v]
	if !ok {
		return 0
	}
	return s.valueOf(vr.sym)
}

// FetchChanges returns the variables whose value moved since the previous
// call, in the order the solver first saw them. A variable is always
// reported the first time it is fetched.
func (s *Solver[V]) FetchChanges() []Change[V] {
	type pending struct {
		id uint64
		ch Change[V]
	}
	var list []pending
	for v, vr := range s.vars {
		val := s.valueOf(vr.sym)
		if vr.published && val == vr.value {
			continue
		}
		vr.value = val
		vr.published = true
		list = append(list, pending{id: vr.sym.id, ch: Change[V]{Var: v, Value: val}})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	out := make([]Change[V], len(list))
	for i, p := range list {
		out[i] = p.ch
	}
	return out
}

func (s *Solver[V]) valueOf(sym symbol) float64 {
	if r, ok := s.rows[sym]; ok {
		return r.constant
	}
	return 0
}

func (s *Solver[V]) newSymbol(kind symbolKind) symbol {
	s.nextID++
	return symbol{id: s.nextID, kind: kind}
}

// key renders c in terms of symbol ids. It fails when c mentions a
// variable the solver has never seen, in which case c cannot be held.
func (s *Solver[V]) key(c Constraint[V]) (string, bool) {
	coeffs := make(map[uint64]float64, len(c.Expr.Terms))
	for _, t := range c.Expr.Terms {
		vr, ok := s.vars[t.Var]
		if !ok {
			return "", false
		}
		coeffs[vr.sym.id] += t.Coeff
	}
	ids := make([]uint64, 0, len(coeffs))
	for id, coeff := range coeffs {
		if !nearZero(coeff) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.FormatUint(id, 10))
		sb.WriteByte('*')
		sb.WriteString(strconv.FormatFloat(coeffs[id], 'g', -1, 64))
		sb.WriteByte(' ')
	}
	sb.WriteString(strconv.FormatFloat(c.Expr.Constant, 'g', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(c.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(float64(c.Strength), 'g', -1, 64))
	return sb.String(), true
}

func (s *Solver[V]) retain(c Constraint[V]) {
	for _, v := range c.Expr.Vars() {
		vr, ok := s.vars[v]
		if !ok {
			vr = &variable{sym: s.newSymbol(externalSymbol)}
			s.vars[v] = vr
		}
		vr.refs++
	}
}

// release forgets variables no remaining constraint mentions
func (s *Solver[V]) release(c Constraint[V]) {
	for _, v := range c.Expr.Vars() {
		vr, ok := s.vars[v]
		if !ok {
			continue
		}
		vr.refs--
		if vr.refs > 0 {
			continue
		}
		delete(s.vars, v)
		delete(s.rows, vr.sym)
		for _, r := range s.rows {
			r.remove(vr.sym)
		}
		s.objective.remove(vr.sym)
	}
}

func (s *Solver[V]) add(c Constraint[V]) (tag, error) {
	s.retain(c)
	r, t := s.createRow(c)
	subject := s.chooseSubject(r, t)
	if !subject.valid() && allDummies(r) {
		if !nearZero(r.constant) {
			s.release(c)
			return tag{}, ErrUnsatisfiable
		}
		subject = t.marker
	}

	if !subject.valid() {
		if !s.addWithArtificialVariable(r) {
			s.dropTag(t, c.Strength)
			s.release(c)
			if err := s.optimize(s.objective); err != nil {
				return tag{}, err
			}
			return tag{}, ErrUnsatisfiable
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	if err := s.optimize(s.objective); err != nil {
		return tag{}, err
	}
	return t, nil
}

func (s *Solver[V]) createRow(c Constraint[V]) (*row, tag) {
	r := newRow(c.Expr.Constant)
	for _, term := range c.Expr.Terms {
		if nearZero(term.Coeff) {
			continue
		}
		sym := s.vars[term.Var].sym
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coeff)
		} else {
			r.insertSymbol(sym, term.Coeff)
		}
	}

	var t tag
	strength := float64(c.Strength)
	switch c.Op {
	case LE, GE:
		coeff := 1.0
		if c.Op == GE {
			coeff = -1.0
		}
		t.marker = s.newSymbol(slackSymbol)
		r.insertSymbol(t.marker, coeff)
		if !c.Strength.IsRequired() {
			t.other = s.newSymbol(errorSymbol)
			r.insertSymbol(t.other, -coeff)
			s.objective.insertSymbol(t.other, strength)
		}
	default:
		if c.Strength.IsRequired() {
			t.marker = s.newSymbol(dummySymbol)
			r.insertSymbol(t.marker, 1)
		} else {
			t.marker = s.newSymbol(errorSymbol)
			t.other = s.newSymbol(errorSymbol)
			r.insertSymbol(t.marker, -1)
			r.insertSymbol(t.other, 1)
			s.objective.insertSymbol(t.marker, strength)
			s.objective.insertSymbol(t.other, strength)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r, t
}

func (s *Solver[V]) chooseSubject(r *row, t tag) symbol {
	ext := r.lowest(func(sym symbol, _ float64) bool { return sym.kind == externalSymbol })
	if ext.valid() {
		return ext
	}
	if t.marker.pivotable() && r.coeff(t.marker) < 0 {
		return t.marker
	}
	if t.other.pivotable() && r.coeff(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

func allDummies(r *row) bool {
	for sym := range r.cells {
		if sym.kind != dummySymbol {
			return false
		}
	}
	return true
}

func (s *Solver[V]) addWithArtificialVariable(r *row) bool {
	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	success := s.optimize(s.artificial) == nil && nearZero(s.artificial.constant)
	s.artificial = nil

	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(basic.cells) > 0 {
			entering := basic.lowest(func(sym symbol, _ float64) bool { return sym.pivotable() })
			if entering.valid() {
				basic.solveForPair(art, entering)
				s.substitute(entering, basic)
				s.rows[entering] = basic
			} else {
				success = false
			}
		}
	}

	for _, other := range s.rows {
		other.remove(art)
	}
	s.objective.remove(art)
	return success
}

// dropTag takes a constraint's marker out of the tableau
func (s *Solver[V]) dropTag(t tag, strength Strength) {
	if t.marker.kind == errorSymbol {
		s.removeMarkerEffects(t.marker, strength)
	}
	if t.other.kind == errorSymbol {
		s.removeMarkerEffects(t.other, strength)
	}

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
		return
	}
	leaving := s.markerLeavingRow(t.marker)
	if !leaving.valid() {
		// The marker never reached the tableau, e.g. a redundant constraint.
		return
	}
	r := s.rows[leaving]
	delete(s.rows, leaving)
	r.solveForPair(leaving, t.marker)
	s.substitute(t.marker, r)
}

func (s *Solver[V]) removeMarkerEffects(marker symbol, strength Strength) {
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -float64(strength))
		return
	}
	s.objective.insertSymbol(marker, -float64(strength))
}

func (s *Solver[V]) markerLeavingRow(marker symbol) symbol {
	r1, r2 := math.MaxFloat64, math.MaxFloat64
	var first, second, third symbol
	for sym, r := range s.rows {
		c := r.coeff(marker)
		if c == 0 {
			continue
		}
		if sym.kind == externalSymbol {
			if !third.valid() || sym.id < third.id {
				third = sym
			}
			continue
		}
		if c < 0 {
			ratio := -r.constant / c
			if ratio < r1 || (ratio == r1 && sym.id < first.id) {
				r1, first = ratio, sym
			}
		} else {
			ratio := r.constant / c
			if ratio < r2 || (ratio == r2 && sym.id < second.id) {
				r2, second = ratio, sym
			}
		}
	}
	switch {
	case first.valid():
		return first
	case second.valid():
		return second
	default:
		return third
	}
}

func (s *Solver[V]) substitute(sym symbol, r *row) {
	for basic, other := range s.rows {
		other.substitute(sym, r)
		if basic.kind != externalSymbol && other.constant < 0 {
			s.infeasible = append(s.infeasible, basic)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

func (s *Solver[V]) optimize(objective *row) error {
	for {
		entering := objective.lowest(func(sym symbol, c float64) bool {
			return sym.kind != dummySymbol && c < 0
		})
		if !entering.valid() {
			return nil
		}
		leaving := s.leavingRow(entering)
		if !leaving.valid() {
			return errUnbounded
		}
		r := s.rows[leaving]
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
}

func (s *Solver[V]) leavingRow(entering symbol) symbol {
	ratio := math.MaxFloat64
	var found symbol
	for sym, r := range s.rows {
		if sym.kind == externalSymbol {
			continue
		}
		c := r.coeff(entering)
		if c >= 0 {
			continue
		}
		tr := -r.constant / c
		if tr < ratio || (tr == ratio && found.valid() && sym.id < found.id) {
			ratio, found = tr, sym
		}
	}
	return found
}

func (s *Solver[V]) dualOptimize() error {
	for len(s.infeasible) > 0 {
		// Take the lowest id first so the pivot sequence is stable.
		low := 0
		for i, sym := range s.infeasible {
			if sym.id < s.infeasible[low].id {
				low = i
			}
		}
		leaving := s.infeasible[low]
		s.infeasible = append(s.infeasible[:low], s.infeasible[low+1:]...)

		r, ok := s.rows[leaving]
		if !ok || nearZero(r.constant) || r.constant >= 0 {
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if !entering.valid() {
			return errDualOptimize
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

func (s *Solver[V]) dualEnteringSymbol(r *row) symbol {
	ratio := math.MaxFloat64
	var entering symbol
	for sym, c := range r.cells {
		if c <= 0 || sym.kind == dummySymbol {
			continue
		}
		rr := s.objective.coeff(sym) / c
		if rr < ratio || (rr == ratio && entering.valid() && sym.id < entering.id) {
			ratio, entering = rr, sym
		}
	}
	return entering
}
