package layout

import (
	"errors"
	"testing"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/solver"
)

func countShrinkwraps(set Constraints, size Var) int {
	n := 0
	for _, c := range set {
		if IsShrinkwrap(c, size) {
			n++
		}
	}
	return n
}

func TestShrinkwrapIdempotent(t *testing.T) {
	w := newTestWorld()
	e := w.ents.Create()
	w.wraps.Insert(e, Shrinkwrap{})
	w.sizes.Insert(e, ContentSize{Width: 120, Height: 18})
	w.axes[X].Insert(e, Constraints{SpanX(e), Of(Left, e).Expr().EqConst(4)})

	probe := w.axes[X].Register()
	ShrinkwrapStage(w)
	if got := w.axes[X].Pending(probe); got != 1 {
		t.Fatalf("first pass logged %d changes, want 1", got)
	}
	w.axes[X].Read(probe)
	w.mustFrame(t, vp800)
	before := w.box(t, e)

	ShrinkwrapStage(w)
	ShrinkwrapStage(w)
	if got := w.axes[X].Pending(probe); got != 0 {
		t.Errorf("repeated passes logged %d changes, want 0", got)
	}
	set, _ := w.axes[X].Get(e)
	if got := countShrinkwraps(set, Of(Width, e)); got != 1 {
		t.Errorf("x set holds %d shrinkwrap constraints, want 1", got)
	}
	w.mustFrame(t, vp800)
	if after := w.box(t, e); after != before {
		t.Errorf("box moved from %+v to %+v", before, after)
	}
	if before.Width != 120 || before.Height != 18 || before.X != 4 {
		t.Errorf("box = %+v, want x 4 and 120x18", before)
	}
}

func TestShrinkwrapFollowsContent(t *testing.T) {
	w := newTestWorld()
	e := w.ents.Create()
	w.wraps.Insert(e, Shrinkwrap{})
	w.sizes.Insert(e, ContentSize{Width: 50, Height: 10})
	ShrinkwrapStage(w)
	w.mustFrame(t, vp800)

	probe := w.axes[Y].Register()
	w.sizes.Insert(e, ContentSize{Width: 50, Height: 24})
	ShrinkwrapStage(w)

	changes := w.axes[Y].Read(probe)
	if len(changes) != 1 || changes[0].Kind != ecs.Modified {
		t.Fatalf("y changes = %v, want one modified", changes)
	}
	set, _ := w.axes[Y].Get(e)
	if got := countShrinkwraps(set, Of(Height, e)); got != 1 {
		t.Fatalf("y set holds %d shrinkwrap constraints, want 1", got)
	}
	w.mustFrame(t, vp800)
	if got := w.box(t, e).Height; got != 24 {
		t.Errorf("height = %d, want 24", got)
	}
}

func TestShrinkwrapYieldsToStrongerSize(t *testing.T) {
	w := newTestWorld()
	e := w.ents.Create()
	w.axes[X].Insert(e, Constraints{
		SpanX(e),
		Of(Width, e).Expr().EqConst(300).WithStrength(solver.Medium),
	})
	w.wraps.Insert(e, Shrinkwrap{})
	w.sizes.Insert(e, ContentSize{Width: 80, Height: 8})
	ShrinkwrapStage(w)
	w.mustFrame(t, vp800)

	if got := w.box(t, e).Width; got != 300 {
		t.Errorf("width = %d, want 300", got)
	}
	if got := w.box(t, e).Height; got != 8 {
		t.Errorf("height = %d, want 8", got)
	}
}

func TestShrinkwrapMissingMeasurement(t *testing.T) {
	w := newTestWorld()
	e := w.ents.Create()
	w.wraps.Insert(e, Shrinkwrap{})

	if err := ShrinkwrapEntity(w, e); !errors.Is(err, ErrMissingMeasurement) {
		t.Fatalf("ShrinkwrapEntity() error = %v, want %v", err, ErrMissingMeasurement)
	}
	ShrinkwrapStage(w)
	if w.axes[X].Has(e) || w.axes[Y].Has(e) {
		t.Fatalf("unmeasured entity received constraints")
	}

	w.sizes.Insert(e, ContentSize{Width: 9, Height: 9})
	ShrinkwrapStage(w)
	if !w.axes[X].Has(e) || !w.axes[Y].Has(e) {
		t.Fatalf("measured entity has no constraints")
	}
}

func TestShrinkwrapOnce(t *testing.T) {
	w := newTestWorld()
	measured := w.ents.Create()
	pending := w.ents.Create()
	w.wraps.Insert(measured, Shrinkwrap{})
	w.wraps.Insert(pending, Shrinkwrap{})
	w.sizes.Insert(measured, ContentSize{Width: 33, Height: 11})

	ShrinkwrapOnce(w)
	if w.wraps.Has(measured) {
		t.Errorf("marker kept after one-shot shrinkwrap")
	}
	if !w.wraps.Has(pending) {
		t.Errorf("marker of unmeasured entity dropped")
	}

	w.sizes.Insert(measured, ContentSize{Width: 90, Height: 11})
	ShrinkwrapOnce(w)
	w.mustFrame(t, vp800)
	if got := w.box(t, measured).Width; got != 33 {
		t.Errorf("width = %d, want 33", got)
	}
}
