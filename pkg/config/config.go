// Package config holds llmstream's configuration and its TOML file format.
//
// Every value has a default (see [Default]); a config file only needs the
// keys it changes:
//
//	[chart]
//	series  = ["GPT-4", "Gemini", "PaLM-2", "Claude", "LLaMA-3.1"]
//	palette = ["#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00"]
//	offset  = "wiggle"
//
//	[tooltip]
//	y_ticks = 3
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//
// The tracked series list lives here rather than in rendering code: the
// renderer draws exactly the configured series, in order.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/llmstream/pkg/errors"
	"github.com/matzehuels/llmstream/pkg/stack"
)

// DefaultSeries are the five tracked language models.
var DefaultSeries = []string{"GPT-4", "Gemini", "PaLM-2", "Claude", "LLaMA-3.1"}

// DefaultPalette is the five-color categorical palette.
var DefaultPalette = []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00"}

// Source kinds.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Chart   Chart   `toml:"chart"`
	Tooltip Tooltip `toml:"tooltip"`
	Source  Source  `toml:"source"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
}

// Chart configures the main streamgraph.
type Chart struct {
	Series     []string   `toml:"series"`
	Palette    []string   `toml:"palette"`
	Width      float64    `toml:"width"`
	Height     float64    `toml:"height"`
	XRange     [2]float64 `toml:"x_range"`
	YRange     [2]float64 `toml:"y_range"`
	AxisY      float64    `toml:"axis_y"`
	LegendX    float64    `toml:"legend_x"`
	LegendY    float64    `toml:"legend_y"`
	LegendStep float64    `toml:"legend_step"`
	XTicks     int        `toml:"x_ticks"`
	Offset     string     `toml:"offset"`
	Tension    float64    `toml:"tension"`
}

// Margin is an inner-chart margin in pixels.
type Margin struct {
	Left   float64 `toml:"left"`
	Right  float64 `toml:"right"`
	Top    float64 `toml:"top"`
	Bottom float64 `toml:"bottom"`
}

// Tooltip configures the hover mini chart.
type Tooltip struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	Margin         Margin  `toml:"margin"`
	OffsetX        float64 `toml:"offset_x"`
	OffsetY        float64 `toml:"offset_y"`
	BarPadding     float64 `toml:"bar_padding"`
	YTicks         int     `toml:"y_ticks"`
	BarDurationMS  int     `toml:"bar_duration_ms"`
	FadeDurationMS int     `toml:"fade_duration_ms"`
}

// BarDuration is the bar entrance transition length.
func (t Tooltip) BarDuration() time.Duration {
	return time.Duration(t.BarDurationMS) * time.Millisecond
}

// FadeDuration is the overlay fade-in length.
func (t Tooltip) FadeDuration() time.Duration {
	return time.Duration(t.FadeDurationMS) * time.Millisecond
}

// InnerWidth is the plot width inside the margins.
func (t Tooltip) InnerWidth() float64 { return t.Width - t.Margin.Left - t.Margin.Right }

// InnerHeight is the plot height inside the margins.
func (t Tooltip) InnerHeight() float64 { return t.Height - t.Margin.Top - t.Margin.Bottom }

// Source configures where datasets are loaded from.
type Source struct {
	Kind            string `toml:"kind"`
	Path            string `toml:"path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
	MongoDateField  string `toml:"mongo_date_field"`
}

// Cache configures the render cache.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLHours      int    `toml:"ttl_hours"`
}

// TTL returns the artifact lifetime.
func (c Cache) TTL() time.Duration { return time.Duration(c.TTLHours) * time.Hour }

// Server configures the live server.
type Server struct {
	Addr            string `toml:"addr"`
	Watch           bool   `toml:"watch"`
	WatchDebounceMS int    `toml:"watch_debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chart:   DefaultChart(),
		Tooltip: DefaultTooltip(),
		Source: Source{
			Kind:            SourceFile,
			MongoDatabase:   "llmstream",
			MongoCollection: "usage",
			MongoDateField:  "date",
		},
		Cache: Cache{
			Backend:  CacheFile,
			TTLHours: 24,
		},
		Server: Server{
			Addr:            ":8080",
			Watch:           true,
			WatchDebounceMS: 200,
		},
	}
}

// DefaultChart returns the chart defaults: a 600×500 surface, the time axis
// spanning x 30..420, values plotted over y 410..0, the legend at (460,150).
func DefaultChart() Chart {
	return Chart{
		Series:     slices.Clone(DefaultSeries),
		Palette:    slices.Clone(DefaultPalette),
		Width:      600,
		Height:     500,
		XRange:     [2]float64{30, 420},
		YRange:     [2]float64{410, 0},
		AxisY:      420,
		LegendX:    460,
		LegendY:    150,
		LegendStep: 20,
		XTicks:     10,
		Offset:     "wiggle",
		Tension:    0,
	}
}

// DefaultTooltip returns the mini chart defaults: 270×170 with margins
// 30/10/10/30, placed 10px right of and below the pointer.
func DefaultTooltip() Tooltip {
	return Tooltip{
		Width:          270,
		Height:         170,
		Margin:         Margin{Left: 30, Right: 10, Top: 10, Bottom: 30},
		OffsetX:        10,
		OffsetY:        10,
		BarPadding:     0.2,
		YTicks:         3,
		BarDurationMS:  300,
		FadeDurationMS: 200,
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Encode writes cfg as TOML.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	if err := c.Tooltip.Validate(); err != nil {
		return err
	}
	switch c.Source.Kind {
	case SourceFile:
	case SourceMongo:
		if c.Source.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.mongo_uri is required for kind %q", SourceMongo)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "source.kind %q (must be %q or %q)", c.Source.Kind, SourceFile, SourceMongo)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for backend %q", CacheRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// Validate checks the chart section.
func (c Chart) Validate() error {
	if len(c.Series) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.series is empty")
	}
	seen := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if err := errors.ValidateSeriesName(s); err != nil {
			return err
		}
		if seen[s] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate series %q", s)
		}
		seen[s] = true
	}
	if len(c.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.palette is empty")
	}
	for _, col := range c.Palette {
		if err := errors.ValidateColor(col); err != nil {
			return err
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart size %gx%g must be positive", c.Width, c.Height)
	}
	if stack.ByName(c.Offset) == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.offset %q (must be one of %s)", c.Offset, strings.Join(stack.Names, ", "))
	}
	if c.Tension < 0 || c.Tension > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.tension %g must be within [0, 1]", c.Tension)
	}
	return nil
}

// Validate checks the tooltip section.
func (t Tooltip) Validate() error {
	if t.InnerWidth() <= 0 || t.InnerHeight() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tooltip %gx%g leaves no room inside its margins", t.Width, t.Height)
	}
	if t.BarPadding < 0 || t.BarPadding >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "tooltip.bar_padding %g must be within [0, 1)", t.BarPadding)
	}
	if t.YTicks < 0 || t.BarDurationMS < 0 || t.FadeDurationMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tooltip ticks and durations must not be negative")
	}
	return nil
}

// String summarises the chart section for logs.
func (c Chart) String() string {
	return fmt.Sprintf("%d series, %gx%g, offset=%s", len(c.Series), c.Width, c.Height, c.Offset)
}
