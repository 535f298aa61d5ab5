// Package scale maps data values to pixel positions and colors.
//
// The scales follow the conventions of declarative charting libraries so that
// a chart described in terms of domains and ranges renders the same way here:
//
//   - [Linear]: continuous numeric domain to a pixel range, with "nice" ticks
//   - [Time]: calendar dates to a pixel range, with calendar-aligned ticks
//   - [Band]: discrete positions to evenly spaced, padded bands
//   - [Ordinal]: category names to colors from a fixed palette
//
// A degenerate continuous domain (both ends equal) maps every input to the
// middle of the range. NaN inputs produce NaN outputs; nothing is clamped.
package scale
