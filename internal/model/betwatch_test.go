package model

import (
	"encoding/json"
	"testing"
)

func TestRawOutcomeDecode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want RawOutcome
	}{
		{"full tuple", `["1", 700, null, 1.8]`, RawOutcome{Code: "1", Money: 700, Odds: f(1.8)}},
		{"no odds", `["X", 200, null]`, RawOutcome{Code: "X", Money: 200}},
		{"odds not numeric", `["2", 100, null, "n/a"]`, RawOutcome{Code: "2", Money: 100}},
		{"short tuple", `["1"]`, RawOutcome{}},
		{"empty tuple", `[]`, RawOutcome{}},
		{"not a tuple", `{"code":"1"}`, RawOutcome{}},
		{"code not string", `[1, 700]`, RawOutcome{}},
	}
	for _, c := range cases {
		var got RawOutcome
		// 元组畸形时不报错，整页解析不因单条失败
		if err := json.Unmarshal([]byte(c.in), &got); err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got.Code != c.want.Code || got.Money != c.want.Money {
			t.Errorf("%s: got %+v, want %+v", c.name, got, c.want)
		}
		if (got.Odds == nil) != (c.want.Odds == nil) {
			t.Errorf("%s: odds presence mismatch", c.name)
		} else if got.Odds != nil && *got.Odds != *c.want.Odds {
			t.Errorf("%s: odds = %v, want %v", c.name, *got.Odds, *c.want.Odds)
		}
	}
}

func TestRawMatchNames(t *testing.T) {
	m := RawMatch{HTN: "A", ATN: "B", LN: "L"}
	if m.HomeName() != "A" || m.AwayName() != "B" || m.LeagueName() != "L" {
		t.Errorf("short scheme: %q/%q/%q", m.HomeName(), m.AwayName(), m.LeagueName())
	}

	m = RawMatch{Home: "C", Away: "D", League: "M"}
	if m.HomeName() != "C" || m.AwayName() != "D" || m.LeagueName() != "M" {
		t.Errorf("long scheme fallback: %q/%q/%q", m.HomeName(), m.AwayName(), m.LeagueName())
	}

	// 同时出现时短命名优先
	m = RawMatch{HTN: "A", Home: "C", ATN: "B", Away: "D", LN: "L", League: "M"}
	if m.HomeName() != "A" || m.AwayName() != "B" || m.LeagueName() != "L" {
		t.Errorf("short scheme must win: %q/%q/%q", m.HomeName(), m.AwayName(), m.LeagueName())
	}

	m = RawMatch{HTN: "A", ATN: "B"}
	if m.LeagueName() != "Unknown" {
		t.Errorf("missing league = %q, want Unknown", m.LeagueName())
	}
}

func TestPageResponseDecode(t *testing.T) {
	raw := `{"data":[{"htn":"A","atn":"B","ln":"L","ce":"2024-01-01T10:00:00Z","v":1000,"n":"1X2",
		"i":[["1",700,null,1.8],["broken"],["2",300,null,3.5]]}],"remaining":true}`

	var page PageResponse
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !page.Remaining {
		t.Errorf("remaining = false")
	}
	if len(page.Data) != 1 {
		t.Fatalf("data len = %d", len(page.Data))
	}
	m := page.Data[0]
	if m.Volume != 1000 || m.Market != "1X2" {
		t.Errorf("match = %+v", m)
	}
	// 畸形元组留零值占位，不影响同页其它元组
	if len(m.Items) != 3 {
		t.Fatalf("items len = %d", len(m.Items))
	}
	if m.Items[0].Code != "1" || m.Items[1].Code != "" || m.Items[2].Code != "2" {
		t.Errorf("items = %+v", m.Items)
	}
}

func f(v float64) *float64 { return &v }
