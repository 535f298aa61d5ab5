package server

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/usage"
)

func testData(n int) usage.Dataset {
	data := make(usage.Dataset, n)
	for i := range data {
		data[i] = usage.Record{
			Date: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Values: map[string]float64{
				"GPT-4": float64(10 + i), "Gemini": 4, "PaLM-2": 2, "Claude": float64(3 + i), "LLaMA-3.1": 1,
			},
		}
	}
	return data
}

func newTestServer(t *testing.T, n int) *Server {
	t.Helper()
	s := New(nil, nil, Options{Logger: log.New(io.Discard)})
	s.SetData(context.Background(), testData(n))
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, 3)
	rec := do(t, s.Handler(), http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"datastar.js",
		`data-on-load="@get(&#39;/events&#39;)"`,
		`id="tooltip"`,
		`class="streamgraph"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(body, `class="layer"`); n != 5 {
		t.Errorf("layers = %d, want 5", n)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Errorf("cookies = %d, want 1", len(rec.Result().Cookies()))
	}
	if s.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", s.Sessions())
	}
}

func TestSessionReusedByCookie(t *testing.T) {
	s := newTestServer(t, 2)
	first := do(t, s.Handler(), http.MethodGet, "/", "")
	cookie := first.Result().Cookies()[0]

	second := do(t, s.Handler(), http.MethodGet, "/", "", cookie)
	if len(second.Result().Cookies()) != 0 {
		t.Error("known client was issued a new cookie")
	}
	if s.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", s.Sessions())
	}
}

func TestSessionsBounded(t *testing.T) {
	s := New(nil, nil, Options{Logger: log.New(io.Discard), MaxSessions: 50})
	s.SetData(context.Background(), testData(2))

	for i := 0; i < 1000; i++ {
		do(t, s.Handler(), http.MethodGet, "/", "")
		do(t, s.Handler(), http.MethodPost, "/leave", "")
	}
	if n := s.Sessions(); n > 50 {
		t.Errorf("Sessions() = %d, want at most 50", n)
	}
}

func TestLeaveUnknownClient(t *testing.T) {
	s := newTestServer(t, 2)
	rec := do(t, s.Handler(), http.MethodPost, "/leave", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("leave issued a cookie")
	}
	if s.Sessions() != 0 {
		t.Errorf("Sessions() = %d, want 0", s.Sessions())
	}
}

func TestPruneIdleSessions(t *testing.T) {
	s := New(nil, nil, Options{Logger: log.New(io.Discard), SessionTTL: time.Minute})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	s.session(ctx, "11111111-idle")
	_, release := s.openStream(ctx, "22222222-streaming")

	clock = clock.Add(2 * time.Minute)
	if n := s.Prune(); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if s.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1 (the streaming client)", s.Sessions())
	}

	release()
	clock = clock.Add(2 * time.Minute)
	if n := s.Prune(); n != 1 {
		t.Errorf("Prune() after release = %d, want 1", n)
	}
	if s.Sessions() != 0 {
		t.Errorf("Sessions() = %d, want 0", s.Sessions())
	}
}

func TestHoverPatchesOverlay(t *testing.T) {
	s := newTestServer(t, 4)
	rec := do(t, s.Handler(), http.MethodPost, "/hover", `{"series":"Claude","px":100,"py":50}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "datastar-patch-elements") {
		t.Fatalf("no patch event in %q", body)
	}
	if n := strings.Count(body, `class="bar"`); n != 4 {
		t.Errorf("bars = %d, want 4", n)
	}
	for _, want := range []string{"Claude", "display: block", "left: 110px", "top: 60px"} {
		if !strings.Contains(body, want) {
			t.Errorf("patch missing %q", want)
		}
	}
}

func TestHoverUnknownSeriesHides(t *testing.T) {
	s := newTestServer(t, 2)
	rec := do(t, s.Handler(), http.MethodPost, "/hover", `{"series":"Mistral"}`)
	if !strings.Contains(rec.Body.String(), "display: none") {
		t.Errorf("overlay not hidden: %q", rec.Body.String())
	}
}

func TestHoverBadSignals(t *testing.T) {
	s := newTestServer(t, 2)
	rec := do(t, s.Handler(), http.MethodPost, "/hover", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLeaveHidesOverlay(t *testing.T) {
	s := newTestServer(t, 2)
	first := do(t, s.Handler(), http.MethodPost, "/hover", `{"series":"GPT-4"}`)
	cookie := first.Result().Cookies()[0]

	rec := do(t, s.Handler(), http.MethodPost, "/leave", "", cookie)
	body := rec.Body.String()
	if !strings.Contains(body, "display: none") {
		t.Errorf("overlay not hidden: %q", body)
	}
	if !strings.Contains(body, "GPT-4") {
		t.Error("leave discarded overlay content")
	}
}

func TestArtifacts(t *testing.T) {
	s := newTestServer(t, 3)
	tests := []struct {
		path   string
		status int
		ctype  string
	}{
		{"/chart.svg", http.StatusOK, "image/svg+xml"},
		{"/chart.json", http.StatusOK, "application/json"},
		{"/chart.png", http.StatusOK, "image/png"},
		{"/chart.gif", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.ctype != "" && rec.Header().Get("Content-Type") != tt.ctype {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.ctype)
			}
		})
	}
}

func TestArtifactEmptyDataset(t *testing.T) {
	s := New(nil, nil, Options{Logger: log.New(io.Discard)})
	rec := do(t, s.Handler(), http.MethodGet, "/chart.svg", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, 1)
	if rec := do(t, s.Handler(), http.MethodGet, "/healthz", ""); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestEventsPushRedraw(t *testing.T) {
	s := newTestServer(t, 2)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	lines := make(chan string, 256)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 1<<20), 1<<20)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	waitEvent := func(what string) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed waiting for %s", what)
				}
				if strings.Contains(line, "datastar-patch-elements") {
					return
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %s", what)
			}
		}
	}

	waitEvent("initial chart")
	deadline := time.Now().Add(5 * time.Second)
	for s.Hub().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.SetData(context.Background(), testData(6))
	waitEvent("redraw")
}

func TestHub(t *testing.T) {
	h := NewHub()
	a, unsubA := h.Subscribe("a")
	b, unsubB := h.Subscribe("b")

	h.Broadcast()
	h.Broadcast() // coalesced
	for name, ch := range map[string]<-chan struct{}{"a": a, "b": b} {
		select {
		case <-ch:
		default:
			t.Errorf("%s not notified", name)
		}
		select {
		case <-ch:
			t.Errorf("%s notified twice", name)
		default:
		}
	}

	unsubA()
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}

	// A replaced subscription must not remove its successor.
	_, unsubB2 := h.Subscribe("b")
	unsubB()
	if h.Len() != 1 {
		t.Errorf("Len() after stale unsubscribe = %d, want 1", h.Len())
	}
	unsubB2()
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}
