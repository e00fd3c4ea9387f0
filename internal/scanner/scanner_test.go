package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TipScan/internal/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestScanner 构造无限速、无页间停顿的Scanner，指向httptest服务
func newTestScanner(baseURL string) *Scanner {
	cfg := &config.ScannerConfig{BaseURL: baseURL, Timeout: 5}
	s := New(cfg, "", testLogger())
	s.client.limiter = rate.NewLimiter(rate.Inf, 1)
	s.sleep = func(context.Context, time.Duration) {}
	return s
}

const singlePage = `{
	"data": [{
		"htn": "A", "atn": "B", "ln": "League One",
		"ce": "2024-01-01T10:00:00Z", "v": 1000, "n": "1X2",
		"i": [["1", 700, null, 1.8], ["X", 200, null, 3.2], ["2", 100, null, 4.5]]
	}],
	"remaining": false
}`

func TestScanSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, singlePage)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("expected 1 tip, got %d", len(tips))
	}

	tip := tips[0]
	if tip.Pick != "A" {
		t.Errorf("pick = %q, want A", tip.Pick)
	}
	if tip.Percentage != 70.0 {
		t.Errorf("percentage = %v, want 70.0", tip.Percentage)
	}
	if tip.Odds == nil || *tip.Odds != 1.8 {
		t.Errorf("odds = %v, want 1.8", tip.Odds)
	}
	if tip.TotalMoney != 1000 || tip.DominantMoney != 700 {
		t.Errorf("money = %v/%v, want 700/1000", tip.DominantMoney, tip.TotalMoney)
	}
	if tip.IsHot {
		t.Errorf("is_hot = true, want false")
	}
	if tip.Match != "A vs B" {
		t.Errorf("match = %q, want %q", tip.Match, "A vs B")
	}
	if !tip.MatchKickoff.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("kickoff = %v", tip.MatchKickoff)
	}
	// 不变式：percentage == round(dominant/total*100, 2)
	if want := round2(tip.DominantMoney / tip.TotalMoney * 100); tip.Percentage != want {
		t.Errorf("percentage identity broken: %v != %v", tip.Percentage, want)
	}
}

func TestScanDedupAcrossPages(t *testing.T) {
	// 两页返回相同(league,home,away,market,dominant)组合，第一次出现的值保留
	pages := map[string]string{
		"1": `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":1000,"n":"1X2",
			"i":[["1",700,null,1.8],["2",300,null,4.0]]}],"remaining":true}`,
		"2": `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":2000,"n":"1X2",
			"i":[["1",1500,null,2.1],["2",500,null,3.0]]}],"remaining":false}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Query().Get("step")])
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("expected 1 tip after dedup, got %d", len(tips))
	}
	if tips[0].TotalMoney != 1000 {
		t.Errorf("first-seen values not retained: total = %v, want 1000", tips[0].TotalMoney)
	}
	if tips[0].Percentage != 70.0 {
		t.Errorf("percentage = %v, want 70.0", tips[0].Percentage)
	}
}

func TestScanRemainingThenEmptyTerminates(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("step") == "1" {
			fmt.Fprint(w, `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":100,"n":"1X2",
				"i":[["1",80,null,1.5],["2",20,null,5.0]]}],"remaining":true}`)
			return
		}
		fmt.Fprint(w, `{"data":[],"remaining":true}`)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("expected 1 tip, got %d", len(tips))
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (empty data must terminate)", requests)
	}
}

func TestScanZeroVolumeDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":0,"n":"1X2","i":[["1",0,null,1.5]]},
			{"htn":"C","atn":"D","ln":"L","ce":"2024-01-01T11:00:00Z","v":500,"n":"1X2","i":[["2",400,null,2.0],["1",100,null,3.0]]}
		],"remaining":false}`)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("expected zero-volume record dropped, got %d tips", len(tips))
	}
	if tips[0].Pick != "D" {
		t.Errorf("pick = %q, want D", tips[0].Pick)
	}
}

func TestScanUpstreamFailureReturnsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("step") == "1" {
			fmt.Fprint(w, `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":100,"n":"1X2",
				"i":[["1",90,null,1.2],["2",10,null,8.0]]}],"remaining":true}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("partial results must survive upstream failure, got %d tips", len(tips))
	}
	if !tips[0].IsHot {
		t.Errorf("90%% tip should be hot")
	}
}

func TestScanLimitTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := struct {
			Data      []map[string]interface{} `json:"data"`
			Remaining bool                     `json:"remaining"`
		}{}
		for i := 0; i < 5; i++ {
			page.Data = append(page.Data, map[string]interface{}{
				"htn": fmt.Sprintf("H%d", i), "atn": fmt.Sprintf("A%d", i), "ln": "L",
				"ce": "2024-01-01T10:00:00Z", "v": 100, "n": "1X2",
				"i": []interface{}{[]interface{}{"1", 80, nil, 1.5}, []interface{}{"2", 20, nil, 5.0}},
			})
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 69, 2)
	if len(tips) != 2 {
		t.Fatalf("limit=2 must truncate, got %d", len(tips))
	}
}

func TestScanCancelReturnsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":100,"n":"1X2",
			"i":[["1",80,null,1.5],["2",20,null,5.0]]}],"remaining":true}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestScanner(srv.URL)
	s.sleep = func(ctx context.Context, d time.Duration) { cancel() }

	tips := s.Scan(ctx, ResolveProfile("normal"), 69, 0)
	if len(tips) != 1 {
		t.Fatalf("cancel must return partial results, got %d", len(tips))
	}
}

func TestScanTieBreakFirstSeen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":1000,"n":"1X2",
			"i":[["X",500,null,3.0],["1",500,null,1.9]]}],"remaining":false}`)
	}))
	defer srv.Close()

	tips := newTestScanner(srv.URL).Scan(context.Background(), ResolveProfile("normal"), 50, 0)
	if len(tips) != 1 {
		t.Fatalf("expected 1 tip, got %d", len(tips))
	}
	if tips[0].Pick != "Draw" {
		t.Errorf("tie must keep first-seen outcome: pick = %q, want Draw", tips[0].Pick)
	}
}

func TestPickLabel(t *testing.T) {
	cases := []struct {
		code, home, away, want string
	}{
		{"1", "Arsenal", "Chelsea", "Arsenal"},
		{"2", "Arsenal", "Chelsea", "Chelsea"},
		{"X", "Arsenal", "Chelsea", "Draw"},
		{"Over_2.5", "A", "B", "Over 2.5"},
		{"Under_1.5", "A", "B", "Under 1.5"},
		{"AH_+0.25", "A", "B", "AH_+0.25"},
	}
	for _, c := range cases {
		if got := pickLabel(c.code, c.home, c.away); got != c.want {
			t.Errorf("pickLabel(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestParseKickoff(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2024-01-01T10:00:00Z", true, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00+02:00", true, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00", true, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"not-a-date", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, c := range cases {
		got, err := parseKickoff(c.in)
		if c.ok != (err == nil) {
			t.Errorf("parseKickoff(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if c.ok && !got.UTC().Equal(c.want) {
			t.Errorf("parseKickoff(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{70.0, 70.0},
		{33.333333, 33.33},
		{66.666666, 66.67},
		{84.999, 85.0},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Errorf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
