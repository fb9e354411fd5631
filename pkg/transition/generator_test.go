package transition

import (
	"testing"
	"time"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// scriptedRand replays fixed draws and records IntN arguments.
type scriptedRand struct {
	t       *testing.T
	floats  []float64
	ints    []int
	intArgs []int
}

func (r *scriptedRand) Float64() float64 {
	r.t.Helper()
	if len(r.floats) == 0 {
		r.t.Fatal("unexpected Float64 call")
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	r.t.Helper()
	if n <= 0 {
		r.t.Fatalf("IntN called with n=%d", n)
	}
	if len(r.ints) == 0 {
		r.t.Fatalf("unexpected IntN(%d) call", n)
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	r.intArgs = append(r.intArgs, n)
	return v
}

var (
	viewport43 = geom.FromSize(800, 600)
	image169   = geom.FromSize(1600, 900)
)

func TestFullToRandomFirstTransition(t *testing.T) {
	rng := &scriptedRand{t: t, floats: []float64{0.5}, ints: []int{100, 10}}
	g, err := NewFullToRandom(WithRand(rng))
	if err != nil {
		t.Fatal(err)
	}

	tr, err := g.Next(viewport43, image169)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if want := rect(0, 0, 1200, 900); !tr.Source().ApproxEqual(want, eps) {
		t.Errorf("Source() = %v, want %v", tr.Source(), want)
	}
	if want := rect(100, 10, 1210, 842.5); !tr.Destination().ApproxEqual(want, eps) {
		t.Errorf("Destination() = %v, want %v", tr.Destination(), want)
	}
	if len(rng.intArgs) != 2 || rng.intArgs[0] != 490 || rng.intArgs[1] != 67 {
		t.Errorf("IntN args = %v, want [490 67]", rng.intArgs)
	}
	if tr.Duration() != DefaultDuration {
		t.Errorf("Duration() = %v, want %v", tr.Duration(), DefaultDuration)
	}
	if g.IsCroppingImage() {
		t.Error("FullToRandom must not crop")
	}
}

func TestFullToRandomFactorOneSkipsOffsets(t *testing.T) {
	// 0.999 truncates to 1.00, so the sample covers the whole image and no
	// offset is drawn.
	rng := &scriptedRand{t: t, floats: []float64{0.999}}
	g, err := NewFullToRandom(WithRand(rng))
	if err != nil {
		t.Fatal(err)
	}
	img := geom.FromSize(1600, 1200)

	tr, err := g.Next(viewport43, img)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Destination().ApproxEqual(img, eps) {
		t.Errorf("Destination() = %v, want %v", tr.Destination(), img)
	}
	if !tr.Source().ApproxEqual(img, eps) {
		t.Errorf("Source() = %v, want %v", tr.Source(), img)
	}
	if len(rng.intArgs) != 0 {
		t.Errorf("IntN called with %v, want no calls", rng.intArgs)
	}
}

func TestRandomSamplesBothEnds(t *testing.T) {
	rng := &scriptedRand{t: t, floats: []float64{0.5, 0.5}, ints: []int{40, 20, 600, 200}}
	g, err := NewRandom(WithRand(rng))
	if err != nil {
		t.Fatal(err)
	}

	tr, err := g.Next(viewport43, image169)
	if err != nil {
		t.Fatal(err)
	}
	if want := rect(40, 20, 940, 695); !tr.Source().ApproxEqual(want, eps) {
		t.Errorf("Source() = %v, want %v", tr.Source(), want)
	}
	if want := rect(600, 200, 1500, 875); !tr.Destination().ApproxEqual(want, eps) {
		t.Errorf("Destination() = %v, want %v", tr.Destination(), want)
	}
	want := []int{700, 225, 700, 225}
	for i, n := range want {
		if i >= len(rng.intArgs) || rng.intArgs[i] != n {
			t.Fatalf("IntN args = %v, want %v", rng.intArgs, want)
		}
	}
	if !g.IsCroppingImage() {
		t.Error("Random must crop")
	}
}

func TestSampleOffsetsRelativeToImageOrigin(t *testing.T) {
	rng := &scriptedRand{t: t, floats: []float64{0.5}, ints: []int{100, 10}}
	g, err := NewFullToRandom(WithRand(rng))
	if err != nil {
		t.Fatal(err)
	}
	img := image169.Offset(50, 20)

	tr, err := g.Next(viewport43, img)
	if err != nil {
		t.Fatal(err)
	}
	if want := rect(50, 20, 1250, 920); !tr.Source().ApproxEqual(want, eps) {
		t.Errorf("Source() = %v, want %v", tr.Source(), want)
	}
	if want := rect(150, 30, 1260, 862.5); !tr.Destination().ApproxEqual(want, eps) {
		t.Errorf("Destination() = %v, want %v", tr.Destination(), want)
	}
}

func TestGeneratorChaining(t *testing.T) {
	for _, v := range Variants {
		t.Run(v.String(), func(t *testing.T) {
			g, err := NewGenerator(v, WithSeed(42))
			if err != nil {
				t.Fatal(err)
			}
			prev, err := g.Next(viewport43, image169)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 20; i++ {
				next, err := g.Next(viewport43, image169)
				if err != nil {
					t.Fatal(err)
				}
				if next.Source() != prev.Destination() {
					t.Fatalf("transition %d: source %v != previous destination %v", i, next.Source(), prev.Destination())
				}
				prev = next
			}
		})
	}
}

func TestGeneratorRestartsOnBoundsChange(t *testing.T) {
	g, err := NewFullToRandom(WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Next(viewport43, image169); err != nil {
		t.Fatal(err)
	}

	t.Run("image changed", func(t *testing.T) {
		img := geom.FromSize(1000, 1000)
		tr, err := g.Next(viewport43, img)
		if err != nil {
			t.Fatal(err)
		}
		if want := geom.Inscribe(img, viewport43.Ratio()); !tr.Source().ApproxEqual(want, eps) {
			t.Errorf("Source() = %v, want fresh full rect %v", tr.Source(), want)
		}
	})

	t.Run("viewport ratio changed", func(t *testing.T) {
		vp := geom.FromSize(600, 800)
		tr, err := g.Next(vp, geom.FromSize(1000, 1000))
		if err != nil {
			t.Fatal(err)
		}
		if want := geom.Inscribe(geom.FromSize(1000, 1000), vp.Ratio()); !tr.Source().ApproxEqual(want, eps) {
			t.Errorf("Source() = %v, want fresh full rect %v", tr.Source(), want)
		}
	})

	t.Run("viewport resized same ratio", func(t *testing.T) {
		prev, err := g.Next(geom.FromSize(600, 800), geom.FromSize(1000, 1000))
		if err != nil {
			t.Fatal(err)
		}
		tr, err := g.Next(geom.FromSize(300, 400), geom.FromSize(1000, 1000))
		if err != nil {
			t.Fatal(err)
		}
		if tr.Source() != prev.Destination() {
			t.Errorf("Source() = %v, want chained %v", tr.Source(), prev.Destination())
		}
	})
}

func TestGeneratedRectsStayInsideImage(t *testing.T) {
	cases := []struct {
		viewport geom.Rect
		image    geom.Rect
	}{
		{viewport43, image169},
		{geom.FromSize(1920, 1080), geom.FromSize(3000, 2000)},
		{geom.FromSize(400, 800), geom.FromSize(640, 480).Offset(10, 10)},
		{geom.FromSize(100, 100), geom.FromSize(101, 5000)},
	}
	for _, v := range Variants {
		for _, c := range cases {
			g, err := NewGenerator(v, WithSeed(1))
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 50; i++ {
				tr, err := g.Next(c.viewport, c.image)
				if err != nil {
					t.Fatal(err)
				}
				for _, r := range []geom.Rect{tr.Source(), tr.Destination()} {
					if !c.image.Contains(r) {
						t.Fatalf("%s: %v escapes image %v", v, r, c.image)
					}
					if !geom.SameAspectRatio(r, c.viewport) {
						t.Fatalf("%s: %v does not match viewport ratio %.3f", v, r, c.viewport.Ratio())
					}
				}
			}
		}
	}
}

func TestGeneratorDeterministicForSeed(t *testing.T) {
	for _, v := range Variants {
		a, _ := NewGenerator(v, WithSeed(99))
		b, _ := NewGenerator(v, WithSeed(99))
		for i := 0; i < 10; i++ {
			ta, err := a.Next(viewport43, image169)
			if err != nil {
				t.Fatal(err)
			}
			tb, err := b.Next(viewport43, image169)
			if err != nil {
				t.Fatal(err)
			}
			if ta.Source() != tb.Source() || ta.Destination() != tb.Destination() {
				t.Fatalf("%s transition %d differs for the same seed", v, i)
			}
		}
	}
}

func TestSeededOutput(t *testing.T) {
	rect := func(l, t, r, b float64) geom.Rect { return geom.Rect{Left: l, Top: t, Right: r, Bottom: b} }

	tests := []struct {
		variant Variant
		want    [][2]geom.Rect
	}{
		{VariantFullToRandom, [][2]geom.Rect{
			{rect(0, 0, 1200, 900), rect(10, 9, 1078.6, 810.45)},
			{rect(10, 9, 1078.6, 810.45), rect(393, 36, 1504.8, 869.85)},
		}},
		{VariantRandom, [][2]geom.Rect{
			{rect(16, 30, 778, 601.5), rect(559, 120, 1465, 799.5)},
			{rect(559, 120, 1465, 799.5), rect(39, 191, 807, 767)},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			g, err := NewGenerator(tt.variant, WithSeed(42))
			if err != nil {
				t.Fatal(err)
			}
			for i, want := range tt.want {
				tr, err := g.Next(viewport43, image169)
				if err != nil {
					t.Fatal(err)
				}
				if !tr.Source().ApproxEqual(want[0], 1e-6) || !tr.Destination().ApproxEqual(want[1], 1e-6) {
					t.Errorf("transition %d = %v -> %v, want %v -> %v", i, tr.Source(), tr.Destination(), want[0], want[1])
				}
			}
		})
	}
}

func TestGeneratorInvalidBounds(t *testing.T) {
	g, err := NewRandom(WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		viewport geom.Rect
		image    geom.Rect
	}{
		{"empty viewport", geom.Rect{}, image169},
		{"empty image", viewport43, geom.FromSize(0, 100)},
		{"negative image", viewport43, rect(10, 10, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Next(tt.viewport, tt.image); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("Next() error = %v, want INVALID_GEOMETRY", err)
			}
		})
	}
}

func TestGeneratorOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		code errors.Code
	}{
		{name: "defaults"},
		{name: "custom duration", opts: []Option{WithDuration(3 * time.Second)}},
		{name: "zero duration", opts: []Option{WithDuration(0)}, code: errors.ErrCodeInvalidDuration},
		{name: "factor above one", opts: []Option{WithMinFactor(1.5)}, code: errors.ErrCodeInvalidConfig},
		{name: "zero factor", opts: []Option{WithMinFactor(0)}, code: errors.ErrCodeInvalidConfig},
		{name: "negative precision", opts: []Option{WithRatioPrecision(-1)}, code: errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFullToRandom(tt.opts...)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("NewFullToRandom() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("NewFullToRandom() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWithDurationApplies(t *testing.T) {
	g, err := NewRandom(WithSeed(3), WithDuration(1500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := g.Next(viewport43, image169)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", tr.Duration())
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantFullToRandom, false},
		{"full-to-random", VariantFullToRandom, false},
		{"RANDOM", VariantRandom, false},
		{" random ", VariantRandom, false},
		{"zoom", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVariant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVariant(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
	if _, err := NewGenerator("zoom"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewGenerator(zoom) error = %v, want INVALID_CONFIG", err)
	}
}

func TestReset(t *testing.T) {
	for _, v := range Variants {
		g, err := NewGenerator(v, WithSeed(11))
		if err != nil {
			t.Fatal(err)
		}
		r, ok := g.(Resetter)
		if !ok {
			t.Fatalf("%s does not implement Resetter", v)
		}
		if _, err := g.Next(viewport43, image169); err != nil {
			t.Fatal(err)
		}
		r.Reset()
		tr, err := g.Next(viewport43, image169)
		if err != nil {
			t.Fatal(err)
		}
		if v == VariantFullToRandom {
			if want := geom.Inscribe(image169, viewport43.Ratio()); tr.Source() != want {
				t.Errorf("source after Reset = %v, want %v", tr.Source(), want)
			}
		}
	}
}
