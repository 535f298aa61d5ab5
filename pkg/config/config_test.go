package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/llmstream/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "llmstream.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if len(cfg.Chart.Series) != 5 || cfg.Chart.Series[0] != "GPT-4" || cfg.Chart.Series[4] != "LLaMA-3.1" {
		t.Errorf("Series = %v", cfg.Chart.Series)
	}
	if cfg.Chart.Width != 600 || cfg.Chart.Height != 500 {
		t.Errorf("size = %vx%v, want 600x500", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Tooltip.InnerWidth() != 230 || cfg.Tooltip.InnerHeight() != 130 {
		t.Errorf("tooltip inner = %vx%v, want 230x130", cfg.Tooltip.InnerWidth(), cfg.Tooltip.InnerHeight())
	}
	if cfg.Tooltip.BarDuration().Milliseconds() != 300 || cfg.Tooltip.FadeDuration().Milliseconds() != 200 {
		t.Error("unexpected tooltip durations")
	}
}

func TestDefaultSeriesNotShared(t *testing.T) {
	cfg := Default()
	cfg.Chart.Series[0] = "changed"
	if DefaultSeries[0] != "GPT-4" {
		t.Error("Default() must copy DefaultSeries")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[chart]
series = ["A", "B"]
offset = "silhouette"

[tooltip]
y_ticks = 5

[cache]
backend = "none"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Chart.Series) != 2 || cfg.Chart.Offset != "silhouette" {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if cfg.Tooltip.YTicks != 5 {
		t.Errorf("YTicks = %d, want 5", cfg.Tooltip.YTicks)
	}
	if cfg.Chart.Width != 600 {
		t.Errorf("Width = %v, want default 600", cfg.Chart.Width)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[chart\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[chart]\ncolour = 1\n", errors.ErrCodeInvalidConfig},
		{"bad offset", "[chart]\noffset = \"sideways\"\n", errors.ErrCodeInvalidConfig},
		{"bad color", "[chart]\npalette = [\"red\"]\n", errors.ErrCodeInvalidConfig},
		{"duplicate series", "[chart]\nseries = [\"A\", \"A\"]\n", errors.ErrCodeInvalidConfig},
		{"bad series", "[chart]\nseries = [\"\"]\n", errors.ErrCodeInvalidSeries},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[source]\nkind = \"mongo\"\n", errors.ErrCodeInvalidConfig},
		{"tiny tooltip", "[tooltip]\nwidth = 20\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	text, err := Encode(Default())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	cfg, err := Load(writeConfig(t, text))
	if err != nil {
		t.Fatalf("Load(encoded) error: %v", err)
	}
	if cfg.Chart.LegendX != 460 || cfg.Tooltip.Margin.Left != 30 {
		t.Errorf("round trip lost values: %+v", cfg.Chart)
	}
}
