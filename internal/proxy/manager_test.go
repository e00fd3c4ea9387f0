package proxy

import (
	"math"
	"testing"

	"TipScan/internal/model"
)

func TestNextSuccessRate(t *testing.T) {
	cases := []struct {
		old     float64
		success bool
		want    float64
	}{
		{50, true, 60},
		{50, false, 40},
		{100, true, 100},
		{100, false, 80},
		{0, true, 20},
		{0, false, 0},
	}
	for _, c := range cases {
		got := NextSuccessRate(c.old, c.success)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NextSuccessRate(%v, %v) = %v, want %v", c.old, c.success, got, c.want)
		}
	}
}

func TestNextSuccessRateBounded(t *testing.T) {
	// 反复更新后成功率始终落在[0,100]
	rate := 50.0
	for i := 0; i < 100; i++ {
		rate = NextSuccessRate(rate, i%3 == 0)
		if rate < 0 || rate > 100 {
			t.Fatalf("rate escaped [0,100]: %v", rate)
		}
	}
}

func TestBuildURL(t *testing.T) {
	user, pass := "u", "p"
	cases := []struct {
		p    model.Proxy
		want string
	}{
		{model.Proxy{Protocol: "http", Host: "1.2.3.4", Port: 8080}, "http://1.2.3.4:8080"},
		{model.Proxy{Protocol: "socks5", Host: "proxy.test", Port: 1080, Username: &user, Password: &pass}, "socks5://u:p@proxy.test:1080"},
	}
	for _, c := range cases {
		if got := buildURL(&c.p); got != c.want {
			t.Errorf("buildURL = %q, want %q", got, c.want)
		}
	}
}

func TestParseURL(t *testing.T) {
	protocol, host, port, err := parseURL("http://1.2.3.4:8080")
	if err != nil {
		t.Fatalf("parseURL: %v", err)
	}
	if protocol != "http" || host != "1.2.3.4" || port != 8080 {
		t.Errorf("parseURL = %s://%s:%d", protocol, host, port)
	}

	// 带认证信息也能还原host/port
	protocol, host, port, err = parseURL("socks5://u:p@proxy.test:1080")
	if err != nil {
		t.Fatalf("parseURL with auth: %v", err)
	}
	if protocol != "socks5" || host != "proxy.test" || port != 1080 {
		t.Errorf("parseURL = %s://%s:%d", protocol, host, port)
	}

	for _, bad := range []string{"", "not a url", "http://host"} {
		if _, _, _, err := parseURL(bad); err == nil {
			t.Errorf("parseURL(%q) expected error", bad)
		}
	}
}
