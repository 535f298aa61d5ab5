package usage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/matzehuels/llmstream/pkg/errors"
)

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
}

// ParseDate parses a date cell. Dates without a zone are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidDataset, "unparseable date %q", s)
}

// ReadFile reads a dataset from path, choosing the decoder by extension
// (.csv or .json).
func ReadFile(path string) (Dataset, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .csv or .json)", filepath.Ext(path))
	}
}

// ReadCSV decodes a dataset whose header row starts with the Date column.
// Empty value cells become NaN.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read header")
	}
	dateCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if header[i] == DateField {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "missing %s column", DateField)
	}

	var ds Dataset
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "line %d", line)
		}
		rec := Record{Values: make(map[string]float64, len(header)-1)}
		if rec.Date, err = ParseDate(row[dateCol]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "line %d", line)
		}
		for i, cell := range row {
			if i == dateCol {
				continue
			}
			v, err := parseValue(cell)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "line %d, column %s", line, header[i])
			}
			rec.Values[header[i]] = v
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New(errors.ErrCodeInvalidDataset, "non-finite value %q", cell)
	}
	return v, nil
}

// ReadJSON decodes a dataset from a JSON array of objects. Each object must
// have a string Date field; every other field must be a number or null.
func ReadJSON(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode")
	}

	ds := make(Dataset, 0, len(rows))
	for i, row := range rows {
		raw, ok := row[DateField].(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "record %d: missing %s", i, DateField)
		}
		rec := Record{Values: make(map[string]float64, len(row)-1)}
		if rec.Date, err = ParseDate(raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "record %d", i)
		}
		for k, v := range row {
			if k == DateField {
				continue
			}
			switch v := v.(type) {
			case float64:
				rec.Values[k] = v
			case nil:
				rec.Values[k] = math.NaN()
			default:
				return nil, errors.New(errors.ErrCodeInvalidDataset, "record %d: field %s is not a number", i, k)
			}
		}
		ds = append(ds, rec)
	}
	return ds, nil
}
