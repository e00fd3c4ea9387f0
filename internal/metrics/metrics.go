package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 扫描与计费指标，main中通过promhttp暴露在 /metrics
var (
	// ScansTotal 扫描次数，按档位和结果分类
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipscan_scans_total",
		Help: "Total scan requests by tip type and result",
	}, []string{"tip_type", "result"})

	// PagesFetched 抓取的上游页数
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipscan_upstream_pages_fetched_total",
		Help: "Total upstream pages fetched",
	})

	// UpstreamFailures 上游中断次数（传输错误/非200/解析失败）
	UpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipscan_upstream_failures_total",
		Help: "Total upstream fetch failures that aborted a crawl",
	})

	// CreditsDebited 累计扣除积分
	CreditsDebited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipscan_credits_debited_total",
		Help: "Total credits debited for scans",
	})
)
