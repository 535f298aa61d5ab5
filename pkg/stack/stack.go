// Package stack computes stacked layers for area charts.
//
// [Stack] turns a dataset and an ordered list of series keys into one
// [Series] per key. Each series holds one [Point] per record: the layer's
// baseline Y0 and top Y1. Before the offset runs every point is [0, value];
// the [Offset] then assigns baselines.
//
// The streamgraph layout uses [Wiggle], which shifts the whole stack at each
// record so that the weighted change in slope across layers is minimised:
//
//	layers := stack.Stack(data, []string{"GPT-4", "Claude"}, stack.Wiggle)
//	lo, hi := stack.Extent(layers)
//
// Stacking never reorders layers: layer i is always the i-th key.
package stack

import (
	"math"

	"github.com/matzehuels/llmstream/pkg/usage"
)

// Point is one layer's vertical span at one record.
type Point struct {
	Y0 float64 // baseline
	Y1 float64 // top
}

// Thickness returns Y1 - Y0.
func (p Point) Thickness() float64 { return p.Y1 - p.Y0 }

// Series is a stacked layer.
type Series struct {
	Key    string
	Index  int
	Points []Point
}

// Offset assigns baselines to freshly initialised series in place.
type Offset func(series []Series)

// Stack builds one layer per key over data and applies offset.
// A nil offset behaves like [None].
func Stack(data usage.Dataset, keys []string, offset Offset) []Series {
	series := make([]Series, len(keys))
	for i, k := range keys {
		pts := make([]Point, len(data))
		for j, r := range data {
			pts[j] = Point{Y0: 0, Y1: r.Value(k)}
		}
		series[i] = Series{Key: k, Index: i, Points: pts}
	}
	if offset == nil {
		offset = None
	}
	offset(series)
	return series
}

// None stacks each layer on the top of the previous one, starting at zero.
// When the previous top is NaN the previous baseline is used instead.
func None(series []Series) {
	if len(series) < 2 {
		return
	}
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Points, series[i].Points
		for j := range cur {
			base := prev[j].Y1
			if math.IsNaN(base) {
				base = prev[j].Y0
			}
			cur[j].Y0 = base
			cur[j].Y1 += base
		}
	}
}

// Wiggle is the streamgraph offset. It shifts the stack so that the
// weighted sum of the layers' slope changes is minimised between adjacent
// records; the first record's baseline is zero. NaN values count as zero
// when computing the shift.
func Wiggle(series []Series) {
	n := len(series)
	if n == 0 || len(series[0].Points) == 0 {
		return
	}
	s0 := series[0].Points
	m := len(s0)
	y := 0.0
	for j := 1; j < m; j++ {
		var s1, s2 float64
		for i := 0; i < n; i++ {
			cur, prev := orZero(series[i].Points[j].Y1), orZero(series[i].Points[j-1].Y1)
			s3 := (cur - prev) / 2
			for k := 0; k < i; k++ {
				s3 += orZero(series[k].Points[j].Y1) - orZero(series[k].Points[j-1].Y1)
			}
			s1 += cur
			s2 += s3 * cur
		}
		s0[j-1].Y0 = y
		s0[j-1].Y1 += y
		if s1 != 0 {
			y -= s2 / s1
		}
	}
	s0[m-1].Y0 = y
	s0[m-1].Y1 += y
	None(series)
}

// Silhouette centres the stack around zero.
func Silhouette(series []Series) {
	if len(series) == 0 {
		return
	}
	for j := range series[0].Points {
		var sum float64
		for _, s := range series {
			sum += orZero(s.Points[j].Y1)
		}
		series[0].Points[j].Y0 = -sum / 2
		series[0].Points[j].Y1 -= sum / 2
	}
	None(series)
}

// Expand normalises each record so the stack spans [0, 1].
func Expand(series []Series) {
	if len(series) == 0 {
		return
	}
	for j := range series[0].Points {
		var sum float64
		for _, s := range series {
			sum += orZero(s.Points[j].Y1)
		}
		if sum == 0 {
			continue
		}
		for _, s := range series {
			s.Points[j].Y1 /= sum
		}
	}
	None(series)
}

// ByName returns the offset registered under name, or nil.
func ByName(name string) Offset {
	switch name {
	case "wiggle":
		return Wiggle
	case "none", "zero":
		return None
	case "silhouette":
		return Silhouette
	case "expand":
		return Expand
	}
	return nil
}

// Names lists the accepted offset names.
var Names = []string{"wiggle", "none", "silhouette", "expand"}

// Extent returns the minimum baseline and maximum top across all points,
// ignoring NaN. Both are NaN when no finite point exists.
func Extent(series []Series) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for _, s := range series {
		for _, p := range s.Points {
			if !math.IsNaN(p.Y0) && (math.IsNaN(lo) || p.Y0 < lo) {
				lo = p.Y0
			}
			if !math.IsNaN(p.Y1) && (math.IsNaN(hi) || p.Y1 > hi) {
				hi = p.Y1
			}
		}
	}
	return lo, hi
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
