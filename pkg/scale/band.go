package scale

// Band divides a continuous range into one evenly spaced band per domain
// entry. Bands are positional: duplicate labels get their own band.
type Band struct {
	Domain  []string
	Range   [2]float64
	Padding float64 // inner and outer padding, as a fraction of the step
}

// NewBand returns a band scale with the given labels, range and padding.
func NewBand(labels []string, r0, r1, padding float64) Band {
	return Band{Domain: labels, Range: [2]float64{r0, r1}, Padding: padding}
}

// layout returns the start of the first band from the low end of the range
// and the step between bands. Bands are centred (align 0.5).
func (b Band) layout() (start, step float64) {
	n := float64(len(b.Domain))
	lo, hi := b.Range[0], b.Range[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	step = (hi - lo) / max(1, n-b.Padding+b.Padding*2)
	start = lo + (hi-lo-step*(n-b.Padding))*0.5
	return start, step
}

// Position returns the start coordinate of band i.
func (b Band) Position(i int) float64 {
	start, step := b.layout()
	if b.Range[1] < b.Range[0] {
		i = len(b.Domain) - 1 - i
	}
	return start + step*float64(i)
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 {
	_, step := b.layout()
	return step * (1 - b.Padding)
}

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 {
	_, step := b.layout()
	return step
}

// Center returns the middle of band i.
func (b Band) Center(i int) float64 {
	return b.Position(i) + b.Bandwidth()/2
}
