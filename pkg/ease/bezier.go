package ease

// CubicBezier returns an easing defined by a CSS-style cubic Bézier curve.
//
// The curve starts at (0,0) heading toward (x0,y0) and arrives at (1,1) coming
// from (x1,y1). x0 and x1 must lie in [0,1] for the curve to be a function of
// time.
func CubicBezier(x0, y0, x1, y1 float64) Func {
	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}

		// B(t) = 3(1-t)^2 t P0 + 3(1-t) t^2 P1 + t^3. Solve B_x(t) = x with a
		// few Newton steps, then evaluate B_y(t).
		t := x
		for range 8 {
			t2 := t * t
			d := 1 - t
			nx := 3*d*d*t*x0 + 3*d*t2*x1 + t2*t
			dxdt := 3*d*d*x0 + 6*d*t*(x1-x0) + 3*t2*(1-x1)
			if dxdt == 0 {
				break
			}
			t -= (nx - x) / dxdt
			if t <= 0 || t >= 1 {
				break
			}
		}
		t = max(0, min(t, 1))

		t2 := t * t
		d := 1 - t
		return 3*d*d*t*y0 + 3*d*t2*y1 + t2*t
	}
}
