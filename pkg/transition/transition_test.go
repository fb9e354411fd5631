package transition

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

const eps = 1e-9

func rect(l, t, r, b float64) geom.Rect {
	return geom.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

func TestNew(t *testing.T) {
	valid := rect(0, 0, 100, 100)

	tests := []struct {
		name string
		src  geom.Rect
		dst  geom.Rect
		d    time.Duration
		code errors.Code
	}{
		{name: "valid", src: valid, dst: rect(10, 10, 60, 40), d: time.Second},
		{name: "zero duration", src: valid, dst: valid, d: 0, code: errors.ErrCodeInvalidDuration},
		{name: "negative duration", src: valid, dst: valid, d: -time.Second, code: errors.ErrCodeInvalidDuration},
		{name: "empty source", src: rect(5, 5, 5, 50), dst: valid, d: time.Second, code: errors.ErrCodeInvalidGeometry},
		{name: "inverted destination", src: valid, dst: rect(50, 50, 10, 10), d: time.Second, code: errors.ErrCodeInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.src, tt.dst, tt.d, nil)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if tr.Duration() != tt.d {
					t.Errorf("Duration() = %v, want %v", tr.Duration(), tt.d)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNewToleratesAspectMismatch(t *testing.T) {
	if _, err := New(rect(0, 0, 400, 300), rect(0, 0, 100, 100), time.Second, nil); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestInterpolatedRectEndpoints(t *testing.T) {
	src := rect(0, 0, 1200, 900)
	dst := rect(100, 10, 1210, 842.5)
	tr, err := New(src, dst, 10*time.Second, ease.AccelerateDecelerate)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    geom.Rect
	}{
		{"start", 0, src},
		{"before start", -time.Second, src},
		{"end", 10 * time.Second, dst},
		{"past end", time.Minute, dst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.InterpolatedRect(tt.elapsed)
			if !got.ApproxEqual(tt.want, eps) {
				t.Errorf("InterpolatedRect(%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestInterpolatedRectLinearMidpoint(t *testing.T) {
	tr, err := New(rect(0, 0, 100, 100), rect(100, 50, 300, 250), 2*time.Second, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	got := tr.InterpolatedRect(time.Second)
	want := rect(50, 25, 200, 175)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("InterpolatedRect(1s) = %v, want %v", got, want)
	}
}

func TestInterpolatedRectIdempotent(t *testing.T) {
	tr, err := New(rect(0, 0, 160, 90), rect(40, 20, 120, 65), 3*time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := tr.InterpolatedRect(1234 * time.Millisecond)
	b := tr.InterpolatedRect(1234 * time.Millisecond)
	if a != b {
		t.Errorf("repeated calls differ: %v vs %v", a, b)
	}
}

func TestInterpolatedRectUsesEasing(t *testing.T) {
	src, dst := rect(0, 0, 100, 100), rect(0, 0, 200, 200)
	half := func(float64) float64 { return 0.5 }
	tr, err := New(src, dst, time.Second, half)
	if err != nil {
		t.Fatal(err)
	}
	got := tr.InterpolatedRect(100 * time.Millisecond)
	if math.Abs(got.Width()-150) > eps || math.Abs(got.CenterX()-75) > eps {
		t.Errorf("InterpolatedRect = %v, want width 150 centered at 75", got)
	}
}

func TestProgressAndDone(t *testing.T) {
	tr, err := New(rect(0, 0, 10, 10), rect(0, 0, 20, 20), 4*time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		elapsed time.Duration
		want    float64
		done    bool
	}{
		{-time.Second, 0, false},
		{0, 0, false},
		{time.Second, 0.25, false},
		{4 * time.Second, 1, true},
		{5 * time.Second, 1, true},
	}
	for _, tt := range tests {
		if got := tr.Progress(tt.elapsed); math.Abs(got-tt.want) > eps {
			t.Errorf("Progress(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
		if got := tr.Done(tt.elapsed); got != tt.done {
			t.Errorf("Done(%v) = %v, want %v", tt.elapsed, got, tt.done)
		}
	}
}

func TestRecompute(t *testing.T) {
	tr, err := New(rect(0, 0, 100, 100), rect(0, 0, 200, 200), time.Second, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	newDst := rect(100, 100, 150, 150)
	if err := tr.SetDestination(newDst); err != nil {
		t.Fatal(err)
	}
	tr.Recompute()
	if got := tr.InterpolatedRect(time.Second); !got.ApproxEqual(newDst, eps) {
		t.Errorf("after Recompute end = %v, want %v", got, newDst)
	}

	newSrc := rect(10, 10, 20, 20)
	if err := tr.SetSource(newSrc); err != nil {
		t.Fatal(err)
	}
	tr.Recompute()
	if got := tr.InterpolatedRect(0); !got.ApproxEqual(newSrc, eps) {
		t.Errorf("after Recompute start = %v, want %v", got, newSrc)
	}

	if err := tr.SetSource(rect(0, 0, 0, 0)); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("SetSource(empty) error = %v, want INVALID_GEOMETRY", err)
	}
	if tr.Source() != newSrc {
		t.Errorf("rejected SetSource changed source to %v", tr.Source())
	}
}
