package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"TipScan/internal/config"
	"TipScan/internal/metrics"
	"TipScan/internal/model"
	"TipScan/internal/proxy"
	"TipScan/internal/repository"
	"TipScan/internal/scanner"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 扫描计费与置信阈值
const (
	CostWithProxy = 100 // 走代理的单次扫描费用
	CostDirect    = 200 // 直连的单次扫描费用

	thresholdNormal = 69 // normal模式资金占比下限
	thresholdSafe   = 75 // safe模式资金占比下限

	hotPercent = 85 // high置信分界

	// ScanEndpoint 审计记录中的端点标识
	ScanEndpoint = "/api/matches"
)

// ErrNoResults 上游一条结果都拿不到（计为上游不可用，不扣费）
var ErrNoResults = errors.New("no results obtainable from upstream")

// InsufficientCreditsError 余额不足，携带报价与当前余额供响应体使用
type InsufficientCreditsError struct {
	Required int
	Balance  int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, balance %d", e.Required, e.Balance)
}

// ScanRequest 一次扫描请求的全部参数
type ScanRequest struct {
	TipType      string // normal / underdog
	Mode         string // normal / safe
	LiveOnly     bool
	ExcludeMajor bool
	TimeOrder    bool
	Limit        int
	UseProxy     bool
}

// ScanResult 扫描成功的返回载荷
type ScanResult struct {
	Count            int         `json:"count"`
	CreditsUsed      int         `json:"credits_used"`
	CreditsRemaining int         `json:"credits_remaining"`
	UsedProxy        bool        `json:"used_proxy"`
	Matches          []model.Tip `json:"matches"`
}

// tipScanner 扫描引擎约定（测试注入假引擎用）
type tipScanner interface {
	Scan(ctx context.Context, p scanner.Profile, thresholdPercent, limit int) []model.Tip
}

// proxyPicker 代理选取约定
type proxyPicker interface {
	GetBestProxy(ctx context.Context) (string, error)
	ReportOutcome(ctx context.Context, proxyURL string, success bool)
}

// ScanService 扫描编排：余额预检→代理解析→执行抓取→扣费+审计→保存历史
type ScanService struct {
	cfg     *config.Config
	logger  *logrus.Logger
	users   repository.UserRepository
	tips    repository.TipRepository
	proxies proxyPicker
	// newScanner 引擎工厂，按本次代理构造；测试可替换
	newScanner func(cfg *config.ScannerConfig, proxyURL string, logger *logrus.Logger) tipScanner
}

// NewScanService 创建ScanService
func NewScanService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *ScanService {
	return &ScanService{
		cfg:     cfg,
		logger:  logger,
		users:   repository.NewUserRepository(db),
		tips:    repository.NewTipRepository(db),
		proxies: proxy.NewManager(db, logger),
		newScanner: func(sc *config.ScannerConfig, proxyURL string, logger *logrus.Logger) tipScanner {
			return scanner.New(sc, proxyURL, logger)
		},
	}
}

// CostFor 按是否走代理报价
func CostFor(useProxy bool) int {
	if useProxy {
		return CostWithProxy
	}
	return CostDirect
}

// ThresholdFor 置信模式转资金占比下限，未知模式按normal
func ThresholdFor(mode string) int {
	if mode == "safe" {
		return thresholdSafe
	}
	return thresholdNormal
}

// ClampLimit 结果条数钳位到[1,100]
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// RunScan 执行一次计费扫描。
// 余额预检在任何网络活动之前；代理解析失败静默降级直连（费用仍按请求档位收取）；
// 零结果不扣费；扣费与审计/流水在一个事务内落库
func (s *ScanService) RunScan(ctx context.Context, user *model.User, req ScanRequest) (*ScanResult, error) {
	cost := CostFor(req.UseProxy)
	if user.CreditBalance < cost {
		return nil, &InsufficientCreditsError{Required: cost, Balance: user.CreditBalance}
	}

	limit := ClampLimit(req.Limit)
	threshold := ThresholdFor(req.Mode)

	p := scanner.ResolveProfile(req.TipType)
	p.LiveOnly = p.LiveOnly || req.LiveOnly
	p.ExcludeMajorLeagues = p.ExcludeMajorLeagues || req.ExcludeMajor
	p.TimeOrdered = p.TimeOrdered || req.TimeOrder

	// 代理缺失不阻断扫描，直接降级直连
	proxyURL := ""
	if req.UseProxy {
		var err error
		proxyURL, err = s.proxies.GetBestProxy(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("代理选取失败，降级直连")
			proxyURL = ""
		}
	}
	usedProxy := proxyURL != ""

	sc := s.newScanner(&s.cfg.Scanner, proxyURL, s.logger)
	tips := sc.Scan(ctx, p, threshold, limit)

	if usedProxy {
		s.proxies.ReportOutcome(ctx, proxyURL, len(tips) > 0)
	}

	if len(tips) == 0 {
		metrics.ScansTotal.WithLabelValues(p.Name, "empty").Inc()
		return nil, ErrNoResults
	}

	params, _ := json.Marshal(map[string]interface{}{
		"tip_type":      req.TipType,
		"mode":          req.Mode,
		"live_only":     req.LiveOnly,
		"exclude_major": req.ExcludeMajor,
		"time_order":    req.TimeOrder,
		"limit":         limit,
		"use_proxy":     req.UseProxy,
	})
	logEntry := &model.APIRequestLog{
		UserID:        user.ID,
		Endpoint:      ScanEndpoint,
		Parameters:    params,
		CreditsUsed:   cost,
		ResponseCount: len(tips),
		UsedProxy:     usedProxy,
	}
	txn := &model.CreditTransaction{
		UserID:          user.ID,
		TransactionType: "api_call",
		Amount:          -cost,
		Description:     fmt.Sprintf("API call for %s tips (proxy: %t)", req.TipType, req.UseProxy),
	}

	newBalance, err := s.users.DebitWithAudit(ctx, user.ID, cost, logEntry, txn)
	if err != nil {
		// 预检后的扣费失败一律对外表现为服务端错误，余额与流水保持一致
		metrics.ScansTotal.WithLabelValues(p.Name, "debit_failed").Inc()
		return nil, fmt.Errorf("扣费失败: %w", err)
	}
	metrics.CreditsDebited.Add(float64(cost))
	metrics.ScansTotal.WithLabelValues(p.Name, "ok").Inc()

	// 历史提示落库为尽力而为，失败不影响本次响应
	if err := s.tips.SaveBatch(ctx, toMatchTips(req.TipType, p, tips)); err != nil {
		s.logger.WithError(err).Warn("保存历史提示失败")
	}

	return &ScanResult{
		Count:            len(tips),
		CreditsUsed:      cost,
		CreditsRemaining: newBalance,
		UsedProxy:        usedProxy,
		Matches:          tips,
	}, nil
}

// toMatchTips 聚合结果转历史记录
func toMatchTips(tipType string, p scanner.Profile, tips []model.Tip) []*model.MatchTip {
	out := make([]*model.MatchTip, 0, len(tips))
	for _, t := range tips {
		out = append(out, &model.MatchTip{
			MatchID:         t.League + "|" + t.Match + "|" + t.Market + "|" + t.Pick,
			TipType:         tipType,
			League:          t.League,
			HomeTeam:        splitMatch(t.Match, 0),
			AwayTeam:        splitMatch(t.Match, 1),
			MatchTime:       t.MatchKickoff,
			Pick:            t.Pick,
			Odds:            t.Odds,
			Percentage:      t.Percentage,
			Market:          t.Market,
			TotalMoney:      t.TotalMoney,
			DominantMoney:   t.DominantMoney,
			ConfidenceLevel: confidenceLevel(t.Percentage),
			IsLive:          p.LiveOnly,
		})
	}
	return out
}

// confidenceLevel 占比转置信级别
func confidenceLevel(pct float64) string {
	switch {
	case pct >= hotPercent:
		return "high"
	case pct >= thresholdNormal:
		return "medium"
	default:
		return "low"
	}
}

// splitMatch 从"主队 vs 客队"还原队名，idx 0为主队、1为客队
func splitMatch(match string, idx int) string {
	parts := strings.SplitN(match, " vs ", 2)
	if idx < len(parts) {
		return parts[idx]
	}
	return ""
}
