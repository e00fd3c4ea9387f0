package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"TipScan/internal/config"
	"TipScan/internal/model"
	"TipScan/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrUpstreamUnavailable 上游不可用：传输错误、非200状态或响应体不可解析。
// 抓取循环收到该错误后中止并返回已累计的部分结果
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// requestFloor 对同一上游目标的请求下限：每2秒至多1次
const requestFloor = 2 * time.Second

var (
	limiterMu sync.Mutex
	limiters  = make(map[string]*rate.Limiter)
)

// limiterFor 按上游地址取进程级共享限速器，同进程内并发扫描共用同一个下限
func limiterFor(target string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	if l, ok := limiters[target]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(requestFloor), 1)
	limiters[target] = l
	return l
}

// pageQuery 单页查询参数
type pageQuery struct {
	Step       int
	Date       string // YYYY-MM-DD（UTC当天）
	MinPercent int
	MaxPercent int
	Profile    Profile
}

// client 上游单页抓取客户端
type client struct {
	cfg     *config.ScannerConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func newClient(cfg *config.ScannerConfig, proxyURL string, logger *logrus.Logger) *client {
	return &client{
		cfg:     cfg,
		http:    httpclient.New(cfg, proxyURL, logger),
		limiter: limiterFor(cfg.BaseURL),
		logger:  logger,
	}
}

// buildURL 拼接单页查询URL，live/prematch/finished/favorite默认全量，由档位覆盖
func (c *client) buildURL(q pageQuery) string {
	params := url.Values{}
	params.Set("live_only", strconv.FormatBool(q.Profile.LiveOnly))
	params.Set("prematch_only", "false")
	params.Set("finished_only", "false")
	params.Set("favorite_only", "false")
	params.Set("utc", "1")
	params.Set("step", strconv.Itoa(q.Step))
	params.Set("date", q.Date)
	params.Set("order_by_time", strconv.FormatBool(q.Profile.TimeOrdered))
	params.Set("not_countries", strings.Join(q.Profile.NotCountries, ","))
	params.Set("not_leagues", strings.Join(q.Profile.EffectiveNotLeagues(), ","))
	params.Set("min_vol", strconv.Itoa(q.Profile.MinVol))
	params.Set("max_vol", strconv.Itoa(q.Profile.MaxVol))
	params.Set("min_percent", strconv.Itoa(q.MinPercent))
	params.Set("max_percent", strconv.Itoa(q.MaxPercent))
	params.Set("min_odd", "0")
	params.Set("max_odd", "349")
	params.Set("filtering", "true")
	return c.cfg.BaseURL + "?" + params.Encode()
}

// fetchPage 抓取并解析一页。在限速器上等待后发起请求，任何失败都归入ErrUpstreamUnavailable
func (c *client) fetchPage(ctx context.Context, q pageQuery) (*model.PageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
	if c.cfg.Referer != "" {
		req.Header.Set("Referer", c.cfg.Referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d (step %d)", ErrUpstreamUnavailable, resp.StatusCode, q.Step)
	}

	var page model.PageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrUpstreamUnavailable, err)
	}
	return &page, nil
}
