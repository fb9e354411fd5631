package geom

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{1.33333, 2, 1.33},
		{1.33333, 3, 1.333},
		{1.7777777, 3, 1.778},
		{0.995, 2, 1.0},
		{0.994, 2, 0.99},
		{2, 0, 2},
	}

	for _, tt := range tests {
		if got := Truncate(tt.v, tt.decimals); got != tt.want {
			t.Errorf("Truncate(%g, %d) = %g, want %g", tt.v, tt.decimals, got, tt.want)
		}
	}
}

func TestSameAspectRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"identical", FromSize(800, 600), FromSize(800, 600), true},
		{"scaled", FromSize(800, 600), FromSize(1200, 900), true},
		{"drift", FromSize(800, 600), FromSize(800.004, 600), true},
		{"within tolerance", FromSize(100, 100), FromSize(100.9, 100), true},
		{"outside tolerance", FromSize(100, 100), FromSize(102, 100), false},
		{"different", FromSize(1600, 900), FromSize(800, 600), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameAspectRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("SameAspectRatio(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameAspectRatioAtPrecision(t *testing.T) {
	// 1.4 truncates to 1 at zero decimals.
	a := FromSize(100, 100)
	b := FromSize(140, 100)
	if !SameAspectRatioAt(a, b, 0) {
		t.Error("expected match at 0 decimals")
	}
	if SameAspectRatioAt(a, b, DefaultRatioPrecision) {
		t.Error("expected mismatch at default precision")
	}
}
