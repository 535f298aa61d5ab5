package scale

import (
	"math"
	"time"
)

// Time is a continuous scale over calendar dates. Dates are compared as
// instants; calendar arithmetic for ticks is done in UTC.
type Time struct {
	Domain [2]time.Time
	Range  [2]float64
}

// NewTime returns a time scale for the given domain and range.
func NewTime(d0, d1 time.Time, r0, r1 float64) Time {
	return Time{Domain: [2]time.Time{d0, d1}, Range: [2]float64{r0, r1}}
}

// Apply maps t to the range.
func (s Time) Apply(t time.Time) float64 {
	return s.linear().Apply(ms(t))
}

// Invert maps a range value back to a date.
func (s Time) Invert(px float64) time.Time {
	return time.UnixMilli(int64(math.Round(s.linear().Invert(px)))).UTC()
}

func (s Time) linear() Linear {
	return Linear{Domain: [2]float64{ms(s.Domain[0]), ms(s.Domain[1])}, Range: s.Range}
}

func ms(t time.Time) float64 { return float64(t.UnixMilli()) }

// interval is a calendar step: a unit and a multiple of it.
type interval struct {
	unit     unit
	step     int
	duration time.Duration
}

type unit int

const (
	unitDay unit = iota
	unitWeek
	unitMonth
	unitYear
)

const (
	durationDay   = 24 * time.Hour
	durationWeek  = 7 * durationDay
	durationMonth = 30 * durationDay
	durationYear  = 365 * durationDay
)

var tickIntervals = []interval{
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

// Ticks returns calendar-aligned dates within the domain, about count of
// them. The interval is the candidate whose spacing is closest to an even
// split of the domain.
func (s Time) Ticks(count int) []time.Time {
	lo, hi := s.Domain[0], s.Domain[1]
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if count <= 0 {
		return nil
	}
	if lo.Equal(hi) {
		return []time.Time{lo}
	}
	iv := chooseInterval(hi.Sub(lo), count)
	return iv.rangeOf(lo, hi)
}

func chooseInterval(span time.Duration, count int) interval {
	target := float64(span) / float64(count)
	i := 0
	for i < len(tickIntervals) && float64(tickIntervals[i].duration) <= target {
		i++
	}
	switch {
	case i == 0:
		return tickIntervals[0]
	case i == len(tickIntervals):
		years := tickStep(0, float64(span)/float64(durationYear), count)
		return interval{unitYear, max(1, int(years)), durationYear}
	}
	prev, next := tickIntervals[i-1], tickIntervals[i]
	if target/float64(prev.duration) < float64(next.duration)/target {
		return prev
	}
	return next
}

// rangeOf returns every interval boundary in [lo, hi].
func (iv interval) rangeOf(lo, hi time.Time) []time.Time {
	var out []time.Time
	for t := iv.ceil(lo); !t.After(hi); t = iv.next(t) {
		out = append(out, t)
	}
	return out
}

// ceil returns the first boundary at or after t.
func (iv interval) ceil(t time.Time) time.Time {
	t = t.UTC()
	var b time.Time
	switch iv.unit {
	case unitDay:
		b = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		for (b.Day()-1)%iv.step != 0 {
			b = b.AddDate(0, 0, 1)
		}
	case unitWeek:
		b = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		b = b.AddDate(0, 0, -int(b.Weekday()))
	case unitMonth:
		b = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		for (int(b.Month())-1)%iv.step != 0 {
			b = b.AddDate(0, -1, 0)
		}
	case unitYear:
		b = time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		for b.Year()%iv.step != 0 {
			b = b.AddDate(-1, 0, 0)
		}
	}
	for b.Before(t) {
		b = iv.next(b)
	}
	return b
}

func (iv interval) next(t time.Time) time.Time {
	switch iv.unit {
	case unitDay:
		n := t.AddDate(0, 0, iv.step)
		if n.Month() != t.Month() {
			// Day steps restart at the 1st of each month.
			n = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
		return n
	case unitWeek:
		return t.AddDate(0, 0, 7*iv.step)
	case unitMonth:
		return t.AddDate(0, iv.step, 0)
	default:
		return t.AddDate(iv.step, 0, 0)
	}
}
