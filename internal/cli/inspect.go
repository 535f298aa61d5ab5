package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/source"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarise a dataset and check it against the series list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := source.Open(ctx, cfg.Source, input)
			if err != nil {
				return err
			}
			defer source.Close(ctx, src)

			data, err := src.Load(ctx)
			if err != nil {
				return err
			}
			r := streamgraph.New(cfg.Chart, streamgraph.WithTooltip(cfg.Tooltip), streamgraph.WithLogger(c.Logger))
			r.RenderContext(ctx, data)
			printInspection(src.Name(), inspect(r, data))
			return nil
		},
	}
}

// inspection summarises a dataset as drawn by a renderer.
type inspection struct {
	Series   []string
	Records  usage.Dataset
	Totals   []float64
	Missing  []string
	Extra    []string // columns not in the series list
	MaxDrift float64  // largest |stacked thickness - total| over records
	Checked  bool     // false when the offset rescales thickness
}

func inspect(r *streamgraph.Renderer, data usage.Dataset) inspection {
	cfg := r.Config()
	in := inspection{
		Series:  cfg.Series,
		Records: data,
		Totals:  data.Totals(cfg.Series),
		Missing: data.Missing(cfg.Series),
	}
	for _, col := range data.Columns() {
		if !slices.Contains(cfg.Series, col) {
			in.Extra = append(in.Extra, col)
		}
	}

	layers := r.Stacked()
	if len(layers) == 0 || cfg.Offset == "expand" {
		return in
	}
	in.Checked = true
	for i, total := range in.Totals {
		thickness := 0.0
		for _, l := range layers {
			if p := l.Points[i]; !math.IsNaN(p.Y1 - p.Y0) {
				thickness += p.Y1 - p.Y0
			}
		}
		in.MaxDrift = math.Max(in.MaxDrift, math.Abs(thickness-total))
	}
	return in
}

func printInspection(name string, in inspection) {
	printKeyValue("Source", name)
	if len(in.Records) == 0 {
		printWarning("No records")
		return
	}
	lo, hi := in.Records.DateExtent()
	printKeyValue("Records", fmt.Sprintf("%d", len(in.Records)))
	printKeyValue("Range", lo.Format("2006-01-02")+" "+iconArrow+" "+hi.Format("2006-01-02"))
	fmt.Fprintln(out)

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	headers := append([]string{"Date"}, in.Series...)
	headers = append(headers, "Total")
	rows := make([][]string, len(in.Records))
	for i, rec := range in.Records {
		row := []string{rec.Date.Format("2006-01")}
		for _, s := range in.Series {
			v := rec.Value(s)
			if math.IsNaN(v) {
				row = append(row, "—")
			} else {
				row = append(row, formatValue(v))
			}
		}
		rows[i] = append(row, formatValue(in.Totals[i]))
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleDim
			case col == len(headers)-1:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out)

	if len(in.Missing) > 0 {
		printWarning("Missing series: %s", strings.Join(in.Missing, ", "))
	}
	if len(in.Extra) > 0 {
		printDetail("Ignored columns: %s", strings.Join(in.Extra, ", "))
	}
	switch {
	case !in.Checked:
		printDetail("Thickness check skipped for this offset")
	case in.MaxDrift < 1e-9:
		printSuccess("Stacked thickness matches totals")
	default:
		printError("Stacked thickness drifts from totals by up to %g", in.MaxDrift)
	}
}
