package scale

import (
	"math"
	"strconv"
	"strings"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear is a continuous numeric scale.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear returns a linear scale for the given domain and range.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Apply maps v from the domain to the range.
func (s Linear) Apply(v float64) float64 {
	return interpolate(s.Range, normalize(s.Domain, v))
}

// Invert maps a range value back to the domain.
func (s Linear) Invert(px float64) float64 {
	return interpolate(s.Domain, normalize(s.Range, px))
}

// Ticks returns roughly count evenly spaced, human-friendly values inside the
// domain. Steps are 1, 2 or 5 times a power of ten.
func (s Linear) Ticks(count int) []float64 {
	return ticks(s.Domain[0], s.Domain[1], count)
}

// TickFormat formats a tick value with as many decimals as the tick step
// requires and thousands separators.
func (s Linear) TickFormat(count int) func(float64) string {
	step := math.Abs(tickStep(s.Domain[0], s.Domain[1], count))
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Max(0, -math.Floor(math.Log10(step))))
	}
	return func(v float64) string {
		return groupThousands(strconv.FormatFloat(v, 'f', decimals, 64))
	}
}

func normalize(d [2]float64, v float64) float64 {
	span := d[1] - d[0]
	if span == 0 || math.IsNaN(span) {
		if math.IsNaN(span) {
			return math.NaN()
		}
		return 0.5
	}
	return (v - d[0]) / span
}

func interpolate(r [2]float64, t float64) float64 {
	return r[0]*(1-t) + r[1]*t
}

// tickSpec returns integer bounds i1..i2 and an increment. A negative
// increment means the tick value is i / -inc.
func tickSpec(start, stop float64, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	lo, hi := start, stop
	if reverse {
		lo, hi = stop, start
	}
	i1, i2, inc := tickSpec(lo, hi, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := range out {
		k := i1 + float64(i)
		if reverse {
			k = i2 - float64(i)
		}
		if inc < 0 {
			out[i] = k / -inc
		} else {
			out[i] = k * inc
		}
	}
	return out
}

// tickStep returns the signed distance between adjacent ticks.
func tickStep(start, stop float64, count int) float64 {
	if count <= 0 || start == stop {
		return 0
	}
	reverse := stop < start
	lo, hi := start, stop
	if reverse {
		lo, hi = stop, start
	}
	_, _, inc := tickSpec(lo, hi, float64(count))
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if hasFrac {
		intPart += "." + frac
	}
	if neg {
		return "−" + intPart
	}
	return intPart
}
