package ui

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/pointer"
)

// fixedMeasurer sizes text at 7x13 pixels per rune on a single line
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(t Text) (uint32, uint32) {
	return uint32(7 * len([]rune(t.Text))), 13
}

func (fixedMeasurer) MeasurePicture(p picture.Picture) (uint32, uint32) {
	return p.Size()
}

var screen = layout.Viewport{Width: 800, Height: 600}

func newTestUI(t *testing.T) (*UI, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	u := New(WithMeasurer(fixedMeasurer{}), WithLogger(log.New(&buf, "", 0)))
	return u, &buf
}

func at(x, y int32, left bool) Frame {
	return Frame{Viewport: screen, Pointer: pointer.State{X: x, Y: y, Left: left}}
}

func mustMaintain(t *testing.T, u *UI, f Frame) {
	t.Helper()
	if err := u.Maintain(f); err != nil {
		t.Fatalf("Maintain failed: %v", err)
	}
}

func mustBox(t *testing.T, u *UI, e ecs.Entity) layout.Box {
	t.Helper()
	b, ok := u.Box(e)
	if !ok {
		t.Fatalf("%v has no box", e)
	}
	return b
}

func TestMaintainShrinkwrapsText(t *testing.T) {
	u, _ := newTestUI(t)
	e := NewElement().
		Text(Text{Text: "hello"}).
		ShrinkToContents().
		Left(Const(10)).
		Top(Const(20)).
		Build(u)

	mustMaintain(t, u, at(0, 0, false))
	want := layout.Box{X: 10, Y: 20, Width: 35, Height: 13}
	if got := mustBox(t, u, e); got != want {
		t.Errorf("box = %+v, want %+v", got, want)
	}

	u.SetText(e, Text{Text: "hi"})
	mustMaintain(t, u, at(0, 0, false))
	if w, _, _ := u.Size(e); w != 14 {
		t.Errorf("width after text change = %d, want 14", w)
	}
}

func TestMaintainPicture(t *testing.T) {
	u, _ := newTestUI(t)
	pic := picture.Picture{}.FillRect(0, 0, 40, 30)
	e := NewElement().Picture(pic).ShrinkToContents().Build(u)

	mustMaintain(t, u, at(0, 0, false))
	if w, h, _ := u.Size(e); w != 40 || h != 30 {
		t.Errorf("size = %dx%d, want 40x30", w, h)
	}
}

func TestBuilderConstraints(t *testing.T) {
	e := ecs.Entity{Index: 3, Gen: 1}

	tests := []struct {
		name  string
		b     *ElementBuilder
		sizes [3]int
	}{
		{"empty", NewElement(), [3]int{0, 0, 0}},
		{"left only", NewElement().Left(Const(5)), [3]int{2, 0, 0}},
		{"both axes", NewElement().Left(Const(5)).Height(Const(8)), [3]int{2, 2, 0}},
		{"z only", NewElement().ZIndex(Const(2)), [3]int{0, 0, 1}},
		{"shrink", NewElement().ShrinkToContents(), [3]int{1, 1, 0}},
		{"min and max", NewElement().MinWidth(Const(5)).MaxWidth(Const(9)), [3]int{3, 0, 0}},
		{"custom", NewElement().XConstraints(func(self ecs.Entity) layout.Constraints {
			return layout.Constraints{Width(self).Eq(Height(self))}
		}), [3]int{2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets := tt.b.Constraints(e)
			for id, set := range sets {
				if len(set) != tt.sizes[id] {
					t.Errorf("axis %v has %d constraints, want %d", layout.AxisID(id), len(set), tt.sizes[id])
				}
			}
			if len(sets[layout.X]) > 0 && !sets[layout.X][0].Equal(layout.SpanX(e)) {
				t.Errorf("X set does not start with the span: %v", sets[layout.X][0])
			}
		})
	}
}

func TestBuilderUpdate(t *testing.T) {
	u, _ := newTestUI(t)
	e := NewElement().Left(Const(5)).Width(Const(10)).Top(Const(5)).Height(Const(10)).Build(u)
	mustMaintain(t, u, at(0, 0, false))

	NewElement().Left(Const(50)).Width(Const(10)).Update(u, e)
	mustMaintain(t, u, at(0, 0, false))

	if u.World().Constraints(layout.Y).Has(e) {
		t.Error("Y set survived an update that has none")
	}
	if x, _, _ := u.Position(e); x != 50 {
		t.Errorf("x = %d, want 50", x)
	}
}

func TestMaintainUnsatisfiable(t *testing.T) {
	u, logs := newTestUI(t)
	e := NewElement().Name("bad").Width(Const(10)).Width(Const(20)).Build(u)

	err := u.Maintain(at(0, 0, false))
	var ue *layout.UnsatisfiableError
	if !errors.As(err, &ue) {
		t.Fatalf("Maintain error = %v, want UnsatisfiableError", err)
	}
	if ue.Name != "bad" || ue.Entity != e {
		t.Errorf("error names %q %v, want bad %v", ue.Name, ue.Entity, e)
	}
	if w, _, _ := u.Size(e); w != 10 {
		t.Errorf("width = %d, want the accepted 10", w)
	}
	if !strings.Contains(logs.String(), "layout failed") {
		t.Errorf("failure not logged: %q", logs.String())
	}
}

func TestButton(t *testing.T) {
	u, _ := newTestUI(t)
	clicks := 0
	b := NewButton(u, NewElement().Left(Const(10)).Top(Const(10)), "ok", DefaultButtonStyle, func() { clicks++ })

	fill := func() Fill {
		f, _ := u.World().Fills().Get(b.Background)
		return f
	}

	// hover
	mustMaintain(t, u, at(15, 15, false))
	if got, want := mustBox(t, u, b.Background), (layout.Box{X: 10, Y: 10, Width: 26, Height: 25}); got != want {
		t.Fatalf("background = %+v, want %+v", got, want)
	}
	if got, want := mustBox(t, u, b.Label), (layout.Box{X: 16, Y: 16, Z: 1, Width: 14, Height: 13}); got != want {
		t.Fatalf("label = %+v, want %+v", got, want)
	}
	if !b.Hovered() || fill().Color != DefaultButtonStyle.Over {
		t.Errorf("not hovered after Enter")
	}

	// press and hold
	mustMaintain(t, u, at(15, 15, true))
	if !b.Pressed() || fill().Color != DefaultButtonStyle.Down {
		t.Errorf("not pressed after Press")
	}
	mustMaintain(t, u, at(15, 15, true))
	if x, y, _ := u.Position(b.Label); x != 17 || y != 17 {
		t.Errorf("held label at %d,%d, want 17,17", x, y)
	}
	if clicks != 0 {
		t.Errorf("clicked %d times before release", clicks)
	}

	// release
	mustMaintain(t, u, at(15, 15, false))
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if b.Pressed() || fill().Color != DefaultButtonStyle.Over {
		t.Errorf("still pressed after Release")
	}

	// leave
	mustMaintain(t, u, at(500, 500, false))
	if b.Hovered() || fill().Color != DefaultButtonStyle.Up {
		t.Errorf("still hovered after Leave")
	}
	if x, _, _ := u.Position(b.Label); x != 16 {
		t.Errorf("label x = %d after release, want 16", x)
	}
}

func TestButtonReleaseWithoutPress(t *testing.T) {
	u, _ := newTestUI(t)
	clicks := 0
	b := NewButton(u, NewElement().Left(Const(10)).Top(Const(10)), "ok", DefaultButtonStyle, func() { clicks++ })

	// pressed outside, dragged in, released
	mustMaintain(t, u, at(500, 500, true))
	mustMaintain(t, u, at(15, 15, true))
	mustMaintain(t, u, at(15, 15, false))
	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}
	if !b.Hovered() {
		t.Error("not hovered")
	}
}

func TestPanelDragAndDock(t *testing.T) {
	u, _ := newTestUI(t)
	p := NewPanel(u, 100, 100, 300, 200, 10, "Tools")
	body := p.Body()

	mustMaintain(t, u, at(150, 105, false))
	if got, want := mustBox(t, u, body), (layout.Box{X: 100, Y: 100, Z: 10, Width: 300, Height: 200}); got != want {
		t.Fatalf("body = %+v, want %+v", got, want)
	}

	steps := []struct {
		name    string
		frame   Frame
		box     layout.Box
		dock    DockState
		preview DockState
	}{
		{"grab title", at(150, 105, true), layout.Box{X: 100, Y: 100, Z: 10, Width: 300, Height: 200}, DockNone, DockNone},
		{"drag", at(250, 205, true), layout.Box{X: 100, Y: 100, Z: 10, Width: 300, Height: 200}, DockNone, DockNone},
		{"dragged", at(250, 205, true), layout.Box{X: 200, Y: 200, Z: 10, Width: 300, Height: 200}, DockNone, DockNone},
		{"near left edge", at(5, 300, true), layout.Box{X: 200, Y: 200, Z: 10, Width: 300, Height: 200}, DockNone, DockLeft},
		{"preview", at(5, 300, true), layout.Box{X: 0, Y: 0, Z: 10, Width: 200, Height: 600}, DockNone, DockLeft},
		{"drop", at(5, 300, false), layout.Box{X: 0, Y: 0, Z: 10, Width: 200, Height: 600}, DockLeft, DockNone},
		{"docked", at(5, 300, false), layout.Box{X: 0, Y: 0, Z: 10, Width: 200, Height: 600}, DockLeft, DockNone},
		{"undock", at(100, 20, true), layout.Box{X: 0, Y: 0, Z: 10, Width: 200, Height: 600}, DockNone, DockNone},
		{"undocked", at(100, 20, true), layout.Box{X: -50, Y: 10, Z: 10, Width: 300, Height: 200}, DockNone, DockNone},
	}

	for _, s := range steps {
		mustMaintain(t, u, s.frame)
		if got := mustBox(t, u, body); got != s.box {
			t.Errorf("%s: body = %+v, want %+v", s.name, got, s.box)
		}
		if p.Dock() != s.dock || p.Preview() != s.preview {
			t.Errorf("%s: dock %v preview %v, want %v %v", s.name, p.Dock(), p.Preview(), s.dock, s.preview)
		}
		if !u.Controller().IsInteractingWithUI() && s.frame.Pointer.Left {
			t.Errorf("%s: not interacting while dragging", s.name)
		}
	}

	f, _ := u.World().Fills().Get(body)
	if f.Color != panelColor {
		t.Errorf("body fill = %v, want %v", f.Color, panelColor)
	}
}

func TestPanelResize(t *testing.T) {
	u, _ := newTestUI(t)
	p := NewPanel(u, 100, 100, 300, 200, 0, "Layers")

	mustMaintain(t, u, at(395, 295, false))
	mustMaintain(t, u, at(395, 295, true))
	if !p.Interacting() {
		t.Fatal("grip press did not start a resize")
	}
	mustMaintain(t, u, at(445, 345, true))
	mustMaintain(t, u, at(445, 345, true))
	if w, h, _ := u.Size(p.Body()); w != 350 || h != 250 {
		t.Errorf("size = %dx%d, want 350x250", w, h)
	}

	mustMaintain(t, u, at(100, 100, true))
	mustMaintain(t, u, at(100, 100, false))
	if w, h, _ := u.Size(p.Body()); w != minPanelWidth || h != minPanelHeight {
		t.Errorf("size = %dx%d, want the minimum", w, h)
	}
	if p.Interacting() {
		t.Error("still resizing after release")
	}
}

func TestDestroyForgetsWidget(t *testing.T) {
	u, _ := newTestUI(t)
	b := NewButton(u, nil, "gone", DefaultButtonStyle, nil)
	mustMaintain(t, u, at(0, 0, false))

	if !u.Destroy(b.Background) {
		t.Fatal("Destroy returned false")
	}
	if u.Controller().Len() != 0 {
		t.Errorf("controller still holds %d widgets", u.Controller().Len())
	}
	if u.World().Alive(b.Background) {
		t.Error("background still alive")
	}
	if _, ok := u.Box(b.Background); ok {
		t.Error("background still has a box")
	}

	// the label still refers to the destroyed background
	mustMaintain(t, u, at(0, 0, false))
	if !u.World().Alive(b.Label) {
		t.Error("label destroyed with the background")
	}
	if u.Destroy(b.Background) {
		t.Error("second Destroy returned true")
	}
}

func TestSetVisible(t *testing.T) {
	u, _ := newTestUI(t)
	e := NewElement().Invisible().Build(u)
	if !u.World().Invisible().Has(e) {
		t.Fatal("Invisible not attached")
	}
	u.SetVisible(e, true)
	if u.World().Invisible().Has(e) {
		t.Error("still invisible")
	}
	u.SetVisible(e, false)
	if !u.World().Invisible().Has(e) {
		t.Error("not hidden")
	}
}

type failingWidget struct{ calls int }

func (w *failingWidget) Update(*UI) error {
	w.calls++
	return errors.New("boom")
}

func (w *failingWidget) Owns(ecs.Entity) bool { return false }

func TestControllerUpdateError(t *testing.T) {
	u, _ := newTestUI(t)
	a, b := &failingWidget{}, &failingWidget{}
	u.Controller().Add(a)
	u.Controller().Add(b)

	err := u.Maintain(at(0, 0, false))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Maintain error = %v, want boom", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d %d, want every widget updated once", a.calls, b.calls)
	}
}

func BenchmarkMaintain(b *testing.B) {
	u := New(WithMeasurer(fixedMeasurer{}), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	prev := ecs.None
	for i := 0; i < 200; i++ {
		el := NewElement().Text(Text{Text: "row"}).ShrinkToContents().Left(Const(0))
		if prev.IsNone() {
			el.Top(Const(0))
		} else {
			el.Top(Bottom(prev))
		}
		prev = el.Build(u)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := u.Maintain(Frame{Viewport: screen, Pointer: pointer.State{X: int32(i % 100), Y: 50}}); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRepositionKeepsContentSize(t *testing.T) {
	var buf bytes.Buffer
	u := New(WithMeasurer(fixedMeasurer{}), WithLogger(log.New(&buf, "", 0)), WithShrinkwrapOnce())
	e := NewElement().Text(Text{Text: "abc"}).ShrinkToContents().Left(Const(0)).Top(Const(0)).Build(u)
	mustMaintain(t, u, at(0, 0, false))
	if u.World().Shrinkwraps().Has(e) {
		t.Fatal("marker kept after a one-shot shrinkwrap")
	}

	u.Reposition(layout.X, e, layout.Constraints{layout.SpanX(e), Left(e).Eq(Const(40))})
	mustMaintain(t, u, at(0, 0, false))
	if got, want := mustBox(t, u, e), (layout.Box{X: 40, Width: 21, Height: 13}); got != want {
		t.Errorf("box = %+v, want %+v", got, want)
	}
}

func TestPaintOrder(t *testing.T) {
	u, _ := newTestUI(t)
	top := NewElement().Left(Const(0)).Width(Const(5)).ZIndex(Const(2)).Build(u)
	hidden := NewElement().Left(Const(0)).Width(Const(5)).Invisible().Build(u)
	first := NewElement().Left(Const(0)).Width(Const(5)).Build(u)
	second := NewElement().Left(Const(0)).Width(Const(5)).Build(u)
	mustMaintain(t, u, at(0, 0, false))

	got := u.World().PaintOrder()
	want := []ecs.Entity{first, second, top}
	if len(got) != len(want) {
		t.Fatalf("PaintOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PaintOrder[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	for _, e := range got {
		if e == hidden {
			t.Error("invisible entity painted")
		}
	}
}
