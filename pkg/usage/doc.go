// Package usage defines the tabular model-usage dataset rendered by llmstream.
//
// A [Dataset] is an ordered sequence of [Record] values. Each record carries a
// calendar date and one numeric value per tracked series (for example
// "GPT-4" or "Claude"). Insertion order is the chronological order; the
// package never sorts.
//
// Missing series fields are not corrected: [Record.Value] returns NaN for an
// absent field and callers let it propagate, mirroring how an untyped table
// behaves when a column is absent.
//
// # Reading Data
//
//	ds, err := usage.ReadFile("usage.csv")   // or .json
//	ds, err := usage.ReadCSV(r)
//	ds, err := usage.ReadJSON(r)
//
// CSV input has a Date column followed by one numeric column per series. JSON
// input is an array of objects with a "Date" field.
package usage
