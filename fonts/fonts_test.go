package fonts

import (
	"testing"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMeasure(t *testing.T) {
	c := newCache(t)
	line := c.LineHeight(13)
	wideW, _ := c.Measure("wide line", 13)
	shortW, _ := c.Measure("ab", 13)

	tests := []struct {
		name  string
		text  string
		wantW uint32
		wantH uint32
	}{
		{"empty", "", 0, 0},
		{"one line", "wide line", wideW, uint32(line)},
		{"widest line wins", "ab\nwide line", wideW, uint32(2 * line)},
		{"trailing newline", "ab\n", shortW, uint32(2 * line)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := c.Measure(tt.text, 13)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Measure(%q) = %dx%d, want %dx%d", tt.text, w, h, tt.wantW, tt.wantH)
			}
		})
	}

	if wideW <= shortW {
		t.Errorf("wide %d not wider than short %d", wideW, shortW)
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	c := newCache(t)
	w1, h1 := c.Measure("hello", 10)
	w2, h2 := c.Measure("hello", 30)
	if w2 <= w1 || h2 <= h1 {
		t.Errorf("30pt %dx%d not larger than 10pt %dx%d", w2, h2, w1, h1)
	}
}

func TestMeasureCaches(t *testing.T) {
	c := newCache(t)
	c.Measure("a", 13)
	c.Measure("a", 13)
	c.Measure("a", 0)
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	c.Measure("a", 14)
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestFaceReused(t *testing.T) {
	c := newCache(t)
	if c.Face(12) != c.Face(12) {
		t.Error("Face(12) created twice")
	}
	if c.Face(0) != c.Face(DefaultSize) {
		t.Error("zero size is not the default size")
	}
}

func TestFallbackFace(t *testing.T) {
	c := NewWithFont(nil)
	w, h := c.Measure("abc", 20)
	if w != 21 || h != 13 {
		t.Errorf("fallback Measure = %dx%d, want 21x13", w, h)
	}
}
