package shape

import (
	"math"
	"strings"
	"testing"
)

func fixed(vs ...float64) func(int) float64 {
	return func(i int) float64 { return vs[i] }
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{1.23456, "1.235"},
		{-0.0001, "0"},
		{100, "100"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLinearArea(t *testing.T) {
	a := Area{X: fixed(0, 10), Y0: fixed(5, 5), Y1: fixed(0, 2)}
	want := "M0,0L10,2L10,5L0,5Z"
	if got := a.Path(2); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestCardinalAreaTwoPoints(t *testing.T) {
	// With two points the cardinal curve degenerates to straight segments.
	a := Area{X: fixed(0, 10), Y0: fixed(5, 5), Y1: fixed(0, 2), Curve: Cardinal{}}
	want := "M0,0L10,2L10,5L0,5Z"
	if got := a.Path(2); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestCardinalAreaSinglePoint(t *testing.T) {
	a := Area{X: fixed(3), Y0: fixed(5), Y1: fixed(1), Curve: Cardinal{}}
	want := "M3,1L3,5Z"
	if got := a.Path(1); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestCardinalLineThreePoints(t *testing.T) {
	var r Recorder
	Line{X: fixed(0, 6, 12), Y: fixed(0, 6, 0), Curve: Cardinal{}}.Draw(&r, 3)
	if len(r.Ops) != 3 {
		t.Fatalf("ops = %d, want 3 (M, C, C)", len(r.Ops))
	}
	if r.Ops[0].Kind != 'M' || r.Ops[1].Kind != 'C' || r.Ops[2].Kind != 'C' {
		t.Errorf("kinds = %c %c %c, want M C C", r.Ops[0].Kind, r.Ops[1].Kind, r.Ops[2].Kind)
	}
	// First segment ends at the middle point; its second control point uses
	// the tangent through the neighbours: 6 + (0-12)/6 = 4, 6 + (0-0)/6 = 6.
	c := r.Ops[1].Args
	if !near(c[2], 4) || !near(c[3], 6) || c[4] != 6 || c[5] != 6 {
		t.Errorf("first segment = %v", c)
	}
	// Last segment ends at the final point.
	last := r.Ops[2].Args
	if last[4] != 12 || last[5] != 0 {
		t.Errorf("last segment end = %v,%v, want 12,0", last[4], last[5])
	}
}

func TestCardinalTensionOneIsStraight(t *testing.T) {
	var r Recorder
	Line{X: fixed(0, 6, 12), Y: fixed(0, 6, 0), Curve: Cardinal{Tension: 1}}.Draw(&r, 3)
	c := r.Ops[1].Args
	if c[0] != 0 || c[1] != 0 || c[2] != 6 || c[3] != 6 {
		t.Errorf("control points = %v, want endpoints", c)
	}
}

func TestCardinalAreaIsClosed(t *testing.T) {
	a := Area{X: fixed(0, 1, 2, 3), Y0: fixed(4, 4, 4, 4), Y1: fixed(0, 1, 0, 1), Curve: Cardinal{}}
	d := a.Path(4)
	if !strings.HasPrefix(d, "M0,0C") {
		t.Errorf("path should start with a move then curve: %q", d)
	}
	if !strings.HasSuffix(d, "Z") || strings.Count(d, "Z") != 1 {
		t.Errorf("path should be closed exactly once: %q", d)
	}
	if strings.Count(d, "M") != 1 {
		t.Errorf("baseline should continue the topline, not move: %q", d)
	}
}

func TestNaNPropagates(t *testing.T) {
	a := Area{X: fixed(0, 1), Y0: fixed(0, 0), Y1: fixed(math.NaN(), 1)}
	if d := a.Path(2); !strings.Contains(d, "NaN") {
		t.Errorf("Path() = %q, want NaN coordinates", d)
	}
}

func TestRecorderReplay(t *testing.T) {
	var r Recorder
	a := Area{X: fixed(0, 10), Y0: fixed(5, 5), Y1: fixed(0, 2)}
	a.Draw(&r, 2)
	var b PathBuilder
	r.Replay(&b)
	if b.String() != a.Path(2) {
		t.Errorf("Replay() = %q, want %q", b.String(), a.Path(2))
	}
}

func TestEmptyArea(t *testing.T) {
	if d := (Area{}).Path(0); d != "" {
		t.Errorf("Path(0) = %q, want empty", d)
	}
}
