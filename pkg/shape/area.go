package shape

// Area traces a filled band between a baseline and a topline.
//
// The topline (X, Y1) is drawn forward, then the baseline (X, Y0) backward,
// and the shape is closed. Both lines use the same curve.
type Area struct {
	X     func(i int) float64
	Y0    func(i int) float64
	Y1    func(i int) float64
	Curve Curve
}

// Draw writes the outline of n points to p. Nothing is drawn for n == 0.
func (a Area) Draw(p Path, n int) {
	if n == 0 {
		return
	}
	curve := a.Curve
	if curve == nil {
		curve = Linear{}
	}
	ctx := curve.New(p)

	xs := make([]float64, n)
	ctx.AreaStart()
	ctx.LineStart()
	for i := 0; i < n; i++ {
		xs[i] = a.X(i)
		ctx.Point(xs[i], a.Y1(i))
	}
	ctx.LineEnd()
	ctx.LineStart()
	for i := n - 1; i >= 0; i-- {
		ctx.Point(xs[i], a.Y0(i))
	}
	ctx.LineEnd()
	ctx.AreaEnd()
}

// Path returns the SVG path data of the area over n points.
func (a Area) Path(n int) string {
	var b PathBuilder
	a.Draw(&b, n)
	return b.String()
}

// Line traces an open polyline or curve through n points.
type Line struct {
	X, Y  func(i int) float64
	Curve Curve
}

// Draw writes the line to p.
func (l Line) Draw(p Path, n int) {
	if n == 0 {
		return
	}
	curve := l.Curve
	if curve == nil {
		curve = Linear{}
	}
	ctx := curve.New(p)
	ctx.LineStart()
	for i := 0; i < n; i++ {
		ctx.Point(l.X(i), l.Y(i))
	}
	ctx.LineEnd()
}
