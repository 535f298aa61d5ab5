package cli

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/source"
	"github.com/matzehuels/llmstream/pkg/usage"
)

func loadSample(t *testing.T, body string) usage.Dataset {
	t.Helper()
	data, err := source.NewFile(writeDataset(t, body)).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestInspect(t *testing.T) {
	data := loadSample(t, sampleCSV)
	r := streamgraph.New(config.DefaultChart())
	r.Render(data)

	in := inspect(r, data)
	if !in.Checked {
		t.Fatal("thickness check skipped for wiggle")
	}
	if in.MaxDrift > 1e-9 {
		t.Errorf("MaxDrift = %g, want 0", in.MaxDrift)
	}
	if in.Totals[0] != 20 {
		t.Errorf("Totals[0] = %v, want 20", in.Totals[0])
	}
	if len(in.Missing) != 0 || len(in.Extra) != 0 {
		t.Errorf("Missing = %v, Extra = %v, want none", in.Missing, in.Extra)
	}
}

func TestInspectColumnMismatch(t *testing.T) {
	data := loadSample(t, "Date,GPT-4,Claude,Mistral\n2024-01-01,1,2,3\n")
	r := streamgraph.New(config.DefaultChart())
	r.Render(data)

	in := inspect(r, data)
	if strings.Join(in.Missing, ",") != "Gemini,PaLM-2,LLaMA-3.1" {
		t.Errorf("Missing = %v", in.Missing)
	}
	if strings.Join(in.Extra, ",") != "Mistral" {
		t.Errorf("Extra = %v, want [Mistral]", in.Extra)
	}
}

func TestInspectExpandSkipsCheck(t *testing.T) {
	data := loadSample(t, sampleCSV)
	chart := config.DefaultChart()
	chart.Offset = "expand"
	r := streamgraph.New(chart)
	r.Render(data)

	if inspect(r, data).Checked {
		t.Error("thickness check ran for expand offset")
	}
}

func TestPrintInspection(t *testing.T) {
	buf := quiet(t)
	data := loadSample(t, sampleCSV)
	r := streamgraph.New(config.DefaultChart())
	r.Render(data)

	printInspection("usage.csv", inspect(r, data))
	for _, want := range []string{"2024-01", "LLaMA-3.1", "matches totals"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestExploreModel(t *testing.T) {
	data := loadSample(t, sampleCSV)
	r := streamgraph.New(config.DefaultChart())
	r.Render(data)

	m := NewExploreModel(r)
	if got := r.Overlay().Series(); got != "GPT-4" {
		t.Errorf("initial hover = %q, want GPT-4", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ExploreModel)
	if m.Cursor != 1 || r.Overlay().Series() != "Gemini" {
		t.Errorf("after down: cursor %d, hover %q, want 1, Gemini", m.Cursor, r.Overlay().Series())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(ExploreModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}

	view := m.View()
	for _, want := range []string{"Jan", "Mar", "15"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q did not quit")
	}
	if r.Overlay().Visible() {
		t.Error("overlay still visible after quit")
	}
}

func TestExploreBarsNonFinite(t *testing.T) {
	data := usage.Dataset{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Values: map[string]float64{"GPT-4": math.Inf(1)}},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Values: map[string]float64{"GPT-4": 10}},
	}
	r := streamgraph.New(config.DefaultChart())
	r.Render(data)

	m := NewExploreModel(r)
	m.BarWidth = 20
	view := m.bars()
	if !strings.Contains(view, "Feb") || !strings.Contains(view, "10") {
		t.Errorf("bars() = %q, want the finite February bar", view)
	}
	if n := strings.Count(view, "█"); n != 20 {
		t.Errorf("filled cells = %d, want 20", n)
	}
}
