// Package pipeline turns a usage dataset into rendered artifacts.
//
// The CLI and the live server share this package so that both produce the
// same bytes for the same dataset and options, and so that both go through
// the same cache.
//
// # Stages
//
//  1. Load: read a dataset from a [source.Source], cached for remote sources
//  2. Draw: stack the dataset and draw it on a [streamgraph.Renderer]
//  3. Export: serialise the drawing in each requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Run(ctx, source.NewFile("usage.csv"), pipeline.Options{
//	    Formats:  []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	    Tooltips: true,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// An empty dataset is not an error: the result has Empty set and no
// artifacts, mirroring the renderer's silent no-op.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatHTML = "html"
)

// DefaultScale is the PNG pixel density.
const DefaultScale = 2.0

// MaxScale bounds the PNG pixel density; the raster grows with its square.
const MaxScale = 8.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatHTML: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	Formats  []string
	Tooltips bool    // embed hover tooltips in SVG and HTML output
	Scale    float64 // PNG pixel density
	Title    string  // HTML page title
	Refresh  bool    // bypass cached artifacts and datasets

	// Chart and Tooltip default to config.DefaultChart and
	// config.DefaultTooltip when left zero.
	Chart   config.Chart
	Tooltip config.Tooltip

	Logger *log.Logger

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Empty is set when the dataset had no records and nothing was drawn.
	Empty bool

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Series     int
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	DatasetHit bool // dataset came from cache (set by Run)
	RenderHit  bool // every artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, html)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be at most %v, got %v", MaxScale, o.Scale)
	}
	if o.Chart.Width == 0 && len(o.Chart.Series) == 0 {
		o.Chart = config.DefaultChart()
	}
	if o.Tooltip.Width == 0 {
		o.Tooltip = config.DefaultTooltip()
	}
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	if err := o.Tooltip.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Series:  o.Chart.Series,
		Palette: o.Chart.Palette,
		Offset:  o.Chart.Offset,
		Tension: o.Chart.Tension,
		Layout:  o.layoutHash(),
	}
	switch format {
	case FormatSVG, FormatHTML:
		k.Tooltips = o.Tooltips
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) layoutHash() string {
	c := o.Chart
	s := fmt.Sprintf("%v %v %v %v %v %v %v %v %d %+v %q",
		c.Width, c.Height, c.XRange, c.YRange, c.AxisY, c.LegendX, c.LegendY, c.LegendStep, c.XTicks, o.Tooltip, o.Title)
	return cache.Hash([]byte(s))[:16]
}
