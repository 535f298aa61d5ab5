package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/source"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse monthly usage per model in the terminal",
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
			if !r.RenderContext(ctx, data) {
				printWarning("Dataset %s has no records", src.Name())
				return nil
			}
			_, err = tea.NewProgram(NewExploreModel(r), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// ExploreModel is the bubbletea model for browsing series. Moving the
// cursor hovers the series on the renderer, so the panel shows exactly the
// bars the tooltip would.
type ExploreModel struct {
	Renderer *streamgraph.Renderer
	Series   []string
	Cursor   int
	BarWidth int
}

// NewExploreModel creates an explore model over a rendered chart.
func NewExploreModel(r *streamgraph.Renderer) ExploreModel {
	m := ExploreModel{
		Renderer: r,
		Series:   r.Config().Series,
		BarWidth: 40,
	}
	m.hover()
	return m
}

func (m ExploreModel) hover() {
	if len(m.Series) > 0 {
		m.Renderer.Hover(m.Series[m.Cursor], streamgraph.Pointer{})
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Renderer.Leave()
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.hover()
			}
		case "down", "j":
			if m.Cursor < len(m.Series)-1 {
				m.Cursor++
				m.hover()
			}
		}
	case tea.WindowSizeMsg:
		m.BarWidth = msg.Width - 40
		if m.BarWidth < 10 {
			m.BarWidth = 10
		}
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("LLM usage"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	color := m.Renderer.Scales().Color
	var list strings.Builder
	for i, s := range m.Series {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Color(s))).Render("■")
		line := fmt.Sprintf("%s %s", swatch, s)
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(m.bars())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", panel))
	b.WriteString("\n")
	return b.String()
}

// bars draws the hovered series' mini chart as horizontal bars.
func (m ExploreModel) bars() string {
	chart := m.Renderer.Overlay().Chart()
	if chart == nil {
		return listDimStyle.Render("no data")
	}
	peak := 0.0
	for _, bar := range chart.Bars {
		if finite(bar.Value) {
			peak = math.Max(peak, bar.Value)
		}
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.Color))

	var b strings.Builder
	b.WriteString(StyleTitle.Render(chart.Series))
	b.WriteString("\n")
	for _, bar := range chart.Bars {
		n := 0
		value := "—"
		if finite(bar.Value) {
			value = formatValue(bar.Value)
			if peak > 0 && bar.Value > 0 {
				n = min(int(math.Round(bar.Value/peak*float64(m.BarWidth))), m.BarWidth)
			}
		}
		fmt.Fprintf(&b, "%-4s %s %s\n",
			bar.Label,
			fill.Render(strings.Repeat("█", n))+strings.Repeat(" ", m.BarWidth-n),
			StyleNumber.Render(value))
	}
	return strings.TrimRight(b.String(), "\n")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
