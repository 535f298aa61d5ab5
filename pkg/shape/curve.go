package shape

import "math"

// Curve turns a sequence of points into path commands.
//
// A curve is driven as a small state machine: AreaStart/AreaEnd bracket an
// area (the second line of an area continues the first instead of moving),
// LineStart/LineEnd bracket a line, and Point feeds vertices.
type Curve interface {
	New(p Path) CurveContext
}

// CurveContext is a curve bound to a Path.
type CurveContext interface {
	AreaStart()
	AreaEnd()
	LineStart()
	LineEnd()
	Point(x, y float64)
}

// lineState tracks whether the current line continues an area (1), starts
// it (0), or is standalone (NaN).
type lineState float64

// Linear connects points with straight segments.
type Linear struct{}

func (Linear) New(p Path) CurveContext { return &linearCtx{p: p, line: lineState(math.NaN())} }

type linearCtx struct {
	p     Path
	line  lineState
	point int
}

func (c *linearCtx) AreaStart() { c.line = 0 }
func (c *linearCtx) AreaEnd()   { c.line = lineState(math.NaN()) }
func (c *linearCtx) LineStart() { c.point = 0 }

func (c *linearCtx) LineEnd() {
	if c.line != 0 && !math.IsNaN(float64(c.line)) || (c.line != 0 && c.point == 1) {
		c.p.ClosePath()
	}
	c.line = 1 - c.line
}

func (c *linearCtx) Point(x, y float64) {
	switch c.point {
	case 0:
		c.point = 1
		if c.line != 0 && !math.IsNaN(float64(c.line)) {
			c.p.LineTo(x, y)
		} else {
			c.p.MoveTo(x, y)
		}
	default:
		c.point = 2
		c.p.LineTo(x, y)
	}
}

// Cardinal is a cardinal spline through every point. Tension 0 gives the
// classic Catmull-Rom-like shape; tension 1 gives straight segments.
type Cardinal struct {
	Tension float64
}

func (c Cardinal) New(p Path) CurveContext {
	return &cardinalCtx{p: p, k: (1 - c.Tension) / 6, line: lineState(math.NaN())}
}

type cardinalCtx struct {
	p                      Path
	k                      float64
	line                   lineState
	point                  int
	x0, x1, x2, y0, y1, y2 float64
}

func (c *cardinalCtx) AreaStart() { c.line = 0 }
func (c *cardinalCtx) AreaEnd()   { c.line = lineState(math.NaN()) }

func (c *cardinalCtx) LineStart() {
	nan := math.NaN()
	c.x0, c.x1, c.x2 = nan, nan, nan
	c.y0, c.y1, c.y2 = nan, nan, nan
	c.point = 0
}

func (c *cardinalCtx) LineEnd() {
	switch c.point {
	case 2:
		c.p.LineTo(c.x2, c.y2)
	case 3:
		c.bezier(c.x1, c.y1)
	}
	if c.line != 0 && !math.IsNaN(float64(c.line)) || (c.line != 0 && c.point == 1) {
		c.p.ClosePath()
	}
	c.line = 1 - c.line
}

func (c *cardinalCtx) Point(x, y float64) {
	switch c.point {
	case 0:
		c.point = 1
		if c.line != 0 && !math.IsNaN(float64(c.line)) {
			c.p.LineTo(x, y)
		} else {
			c.p.MoveTo(x, y)
		}
	case 1:
		c.point = 2
		c.x1, c.y1 = x, y
	case 2:
		c.point = 3
		c.bezier(x, y)
	default:
		c.bezier(x, y)
	}
	c.x0, c.x1, c.x2 = c.x1, c.x2, x
	c.y0, c.y1, c.y2 = c.y1, c.y2, y
}

// bezier draws the segment from (x1,y1) to (x2,y2) with tangents taken from
// the neighbouring points (x0,y0) and (x,y).
func (c *cardinalCtx) bezier(x, y float64) {
	c.p.CubicTo(
		c.x1+c.k*(c.x2-c.x0),
		c.y1+c.k*(c.y2-c.y0),
		c.x2+c.k*(c.x1-x),
		c.y2+c.k*(c.y1-y),
		c.x2,
		c.y2,
	)
}
