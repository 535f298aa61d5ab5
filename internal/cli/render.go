package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/errors"
	"github.com/matzehuels/llmstream/pkg/pipeline"
	"github.com/matzehuels/llmstream/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (single format) or base path
	formats  string  // comma-separated output formats
	tooltips bool    // embed hover tooltips
	noCache  bool    // bypass the render cache
	refresh  bool    // re-render even when cached
	offset   string  // stack offset override
	tension  float64 // curve tension override, negative keeps the config value
	scale    float64 // PNG pixel density
	title    string  // HTML page title
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{tooltips: true, tension: -1}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a usage dataset to SVG, PNG, JSON or HTML",
		Long: `Render a usage dataset (CSV or JSON) as a streamgraph.

Without a file argument the dataset comes from the [source] section of the
configuration, which may point at MongoDB. Rendered outputs are cached by
dataset content, so re-running on an unchanged file is instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, json, html (comma-separated)")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", opts.tooltips, "embed hover tooltips in SVG and HTML output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached result exists")
	cmd.Flags().StringVar(&opts.offset, "offset", "", "stack offset: wiggle, silhouette, expand, none")
	cmd.Flags().Float64Var(&opts.tension, "tension", opts.tension, "cardinal curve tension in [0, 1]")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, fmt.Sprintf("PNG pixel density (at most %v)", pipeline.MaxScale))
	cmd.Flags().StringVar(&opts.title, "title", "", "HTML page title")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyChartFlags(&cfg.Chart, opts.offset, opts.tension)

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	base := outputBase(opts.output, input, formats)
	if err := checkOverwrite(base, formats, input); err != nil {
		return err
	}

	src, err := source.Open(ctx, cfg.Source, input)
	if err != nil {
		return err
	}
	defer source.Close(context.Background(), src)

	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+src.Name()+"...")
	spinner.Start()

	result, err := runner.Run(ctx, src, pipeline.Options{
		Formats:  formats,
		Tooltips: opts.tooltips,
		Scale:    opts.scale,
		Title:    opts.title,
		Refresh:  opts.refresh,
		Chart:    cfg.Chart,
		Tooltip:  cfg.Tooltip,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if result.Empty {
		printWarning("Dataset %s has no records, nothing rendered", src.Name())
		return nil
	}

	paths, err := writeArtifacts(result.Artifacts, formats, base)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", src.Name())
	printStats(result.Stats.Records, result.Stats.Series, result.CacheInfo)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))
	return nil
}

// applyChartFlags overrides chart settings given on the command line.
func applyChartFlags(chart *config.Chart, offset string, tension float64) {
	if offset != "" {
		chart.Offset = offset
	}
	if tension >= 0 {
		chart.Tension = tension
	}
}

// outputBase derives the output path without extension. With a single
// format an explicit output path is used as is.
func outputBase(output, input string, formats []string) string {
	if output == "-" {
		return output
	}
	if output != "" {
		ext := strings.TrimPrefix(filepath.Ext(output), ".")
		if pipeline.ValidFormats[ext] {
			return strings.TrimSuffix(output, filepath.Ext(output))
		}
		return output
	}
	if input == "" {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// checkOverwrite rejects output paths that would replace the input dataset.
func checkOverwrite(base string, formats []string, input string) error {
	if input == "" || base == "-" {
		return nil
	}
	in, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	for _, f := range formats {
		path, err := filepath.Abs(base + "." + f)
		if err != nil {
			return err
		}
		if path == in {
			return errors.New(errors.ErrCodeInvalidInput, "%s output would overwrite the input %s (use -o to choose another path)", f, input)
		}
	}
	return nil
}

// writeArtifacts writes each artifact to base.<format>, or to stdout when
// base is "-". It returns the written paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if base == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("writing to stdout needs exactly one format, got %d", len(formats))
		}
		_, err := out.Write(artifacts[formats[0]])
		return nil, err
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
