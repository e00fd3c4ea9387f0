package scanner

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"TipScan/internal/config"
	"TipScan/internal/metrics"
	"TipScan/internal/model"

	"github.com/sirupsen/logrus"
)

// 页间随机停顿区间，避免触发上游反爬
const (
	pageDelayMin = 300 * time.Millisecond
	pageDelayMax = 800 * time.Millisecond
)

// Scanner 分页抓取+主导结果聚合引擎。每次Scan都是全新状态（不可续扫），
// 代理在构造时确定，整个crawl共用一个HTTP客户端
type Scanner struct {
	client *client
	logger *logrus.Logger
	// sleep 页间停顿，测试可替换
	sleep func(ctx context.Context, d time.Duration)
}

// New 创建Scanner。proxyURL为空时直连
func New(cfg *config.ScannerConfig, proxyURL string, logger *logrus.Logger) *Scanner {
	return &Scanner{
		client: newClient(cfg, proxyURL, logger),
		logger: logger,
		sleep:  sleepCtx,
	}
}

// Scan 执行一次完整抓取：从step=1开始翻页直到上游不再返回数据。
// 上游中断不报错，返回已累计的部分结果；limit>0时截断。
// ctx带截止时间时提前中止翻页并返回部分结果
func (s *Scanner) Scan(ctx context.Context, p Profile, thresholdPercent, limit int) []model.Tip {
	date := time.Now().UTC().Format("2006-01-02")
	step := 1
	seen := make(map[string]struct{})
	var tips []model.Tip

	for {
		if ctx.Err() != nil {
			s.logger.WithField("step", step).Warn("扫描被截止时间中止，返回部分结果")
			break
		}

		page, err := s.client.fetchPage(ctx, pageQuery{
			Step:       step,
			Date:       date,
			MinPercent: thresholdPercent,
			MaxPercent: 100,
			Profile:    p,
		})
		if err != nil {
			// 部分结果仍然返回，失败留给运维观察
			s.logger.WithError(err).WithField("step", step).Warn("上游抓取中断")
			metrics.UpstreamFailures.Inc()
			break
		}
		metrics.PagesFetched.Inc()

		if len(page.Data) == 0 {
			break
		}

		tips = s.processPage(page.Data, seen, tips)

		if !page.Remaining {
			break
		}
		step++
		s.sleep(ctx, pageDelay())
	}

	s.logger.WithFields(logrus.Fields{
		"profile": p.Name,
		"pages":   step,
		"tips":    len(tips),
	}).Info("扫描完成")

	if limit > 0 && len(tips) > limit {
		tips = tips[:limit]
	}
	return tips
}

// processPage 处理一页比赛快照，跨页去重后追加到tips。
// 金额<=0、结果列表缺失、开赛时间不可解析的记录直接跳过（尽力聚合，不校验上游质量）
func (s *Scanner) processPage(data []model.RawMatch, seen map[string]struct{}, tips []model.Tip) []model.Tip {
	for i := range data {
		m := &data[i]
		home, away := m.HomeName(), m.AwayName()

		if m.Kickoff == "" {
			continue
		}
		kickoff, err := parseKickoff(m.Kickoff)
		if err != nil {
			continue
		}

		league := m.LeagueName()
		market := m.Market
		if market == "" {
			market = "Unknown Market"
		}
		if m.Volume <= 0 || len(m.Items) == 0 {
			continue
		}

		// 按上游顺序收集结果，顺序决定并列时的胜者
		money := make(map[string]float64)
		odds := make(map[string]*float64)
		var order []string
		for _, item := range m.Items {
			if item.Code == "" {
				continue
			}
			if _, ok := money[item.Code]; !ok {
				order = append(order, item.Code)
			}
			money[item.Code] = item.Money
			odds[item.Code] = item.Odds
		}
		if len(order) == 0 {
			continue
		}

		// 主导结果：占比最高者，严格大于才替换（保住首个出现的并列者）
		var dominant string
		var dominantPct float64
		for _, code := range order {
			pct := round2(money[code] / m.Volume * 100)
			if dominant == "" || pct > dominantPct {
				dominant, dominantPct = code, pct
			}
		}

		key := strings.Join([]string{league, home, away, market, dominant}, "|")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		tips = append(tips, model.Tip{
			League:        league,
			Match:         home + " vs " + away,
			MatchKickoff:  kickoff,
			Pick:          pickLabel(dominant, home, away),
			Odds:          odds[dominant],
			Percentage:    dominantPct,
			Market:        market,
			IsHot:         dominantPct >= 85,
			TotalMoney:    m.Volume,
			DominantMoney: money[dominant],
		})
	}
	return tips
}

// pickLabel 结果代码转可读标签
func pickLabel(code, home, away string) string {
	switch {
	case code == "1":
		return home
	case code == "2":
		return away
	case code == "X":
		return "Draw"
	case strings.Contains(code, "Over") || strings.Contains(code, "Under"):
		return strings.ReplaceAll(code, "_", " ")
	default:
		return code
	}
}

// parseKickoff 解析ISO-8601开赛时间，Z后缀按UTC处理；无时区后缀时也按UTC
func parseKickoff(ce string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, ce); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", ce)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// round2 四舍五入保留2位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pageDelay 随机页间停顿
func pageDelay() time.Duration {
	return pageDelayMin + time.Duration(rand.Int63n(int64(pageDelayMax-pageDelayMin)))
}

// sleepCtx 可被ctx打断的停顿
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
