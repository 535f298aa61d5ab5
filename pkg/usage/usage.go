package usage

import (
	"math"
	"slices"
	"time"
)

// DateField is the name of the date column in every input format.
const DateField = "Date"

// Record is a single dated row of per-series values.
type Record struct {
	Date   time.Time
	Values map[string]float64
}

// Value returns the value of the named series, or NaN if the record has no
// such field.
func (r Record) Value(series string) float64 {
	v, ok := r.Values[series]
	if !ok {
		return math.NaN()
	}
	return v
}

// Dataset is an ordered sequence of records.
type Dataset []Record

// Empty reports whether there is nothing to draw.
func (d Dataset) Empty() bool { return len(d) == 0 }

// Columns returns the value field names of the first record, sorted.
// The date field is not included.
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	cols := make([]string, 0, len(d[0].Values))
	for k := range d[0].Values {
		cols = append(cols, k)
	}
	slices.Sort(cols)
	return cols
}

// Missing returns the entries of series that are not columns of the first
// record, in series order.
func (d Dataset) Missing(series []string) []string {
	if len(d) == 0 {
		return nil
	}
	var missing []string
	for _, s := range series {
		if _, ok := d[0].Values[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// Values returns one value per record for the named series.
func (d Dataset) Values(series string) []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = r.Value(series)
	}
	return out
}

// DateExtent returns the earliest and latest record dates.
// Both are zero for an empty dataset.
func (d Dataset) DateExtent() (lo, hi time.Time) {
	for i, r := range d {
		if i == 0 || r.Date.Before(lo) {
			lo = r.Date
		}
		if i == 0 || r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi
}

// Totals returns, per record, the sum of the given series values.
// NaN values are skipped.
func (d Dataset) Totals(series []string) []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		for _, s := range series {
			if v := r.Value(s); !math.IsNaN(v) {
				out[i] += v
			}
		}
	}
	return out
}

// MonthLabel returns the abbreviated month name of t ("Jan".."Dec").
func MonthLabel(t time.Time) string {
	return t.Format("Jan")
}
