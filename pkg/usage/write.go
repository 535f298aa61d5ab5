package usage

import (
	"io"
	"math"
	"time"

	"github.com/bytedance/sonic"
)

// WriteJSON encodes data in the format read by [ReadJSON]. Keys are sorted
// and NaN values are written as null, so equal datasets encode to equal
// bytes.
func WriteJSON(w io.Writer, data Dataset) error {
	rows := make([]map[string]any, len(data))
	for i, rec := range data {
		row := make(map[string]any, len(rec.Values)+1)
		row[DateField] = formatDate(rec.Date)
		for k, v := range rec.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[k] = nil
			} else {
				row[k] = v
			}
		}
		rows[i] = row
	}
	out, err := sonic.ConfigStd.Marshal(rows)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
