package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"TipScan/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cooldown 同一代理两次选取的最小间隔
const cooldown = time.Minute

// Manager 出口代理管理：按成功率选取、用后回写成功率EMA。
// 选取和标记使用在同一事务内完成（行锁test-and-set），并发调用不会拿到同一个空闲代理
type Manager struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewManager(db *gorm.DB, logger *logrus.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// GetBestProxy 选取最优可用代理并原子标记使用。
// 无可用代理时返回空串（调用方按直连处理，不是错误）
func (m *Manager) GetBestProxy(ctx context.Context) (string, error) {
	var selected model.Proxy
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_active = ?", true).
			Where("last_used IS NULL OR last_used <= ?", time.Now().Add(-cooldown)).
			Order("success_rate DESC").
			First(&selected).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&model.Proxy{}).Where("id = ?", selected.ID).
			Update("last_used", now).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return buildURL(&selected), nil
}

// ReportOutcome 回写一次使用结果：success_rate按EMA更新并刷新last_used。
// 代理串不可解析或找不到对应记录时静默忽略
func (m *Manager) ReportOutcome(ctx context.Context, proxyURL string, success bool) {
	protocol, host, port, err := parseURL(proxyURL)
	if err != nil {
		return
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Proxy
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("host = ? AND port = ? AND protocol = ?", host, port, protocol).
			First(&p).Error; err != nil {
			return err
		}
		return tx.Model(&model.Proxy{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"success_rate": NextSuccessRate(p.SuccessRate, success),
			"last_used":    time.Now(),
		}).Error
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.logger.WithError(err).WithField("proxy", host).Warn("回写代理成功率失败")
	}
}

// NextSuccessRate 成功率指数滑动平均：新样本权重0.2
func NextSuccessRate(old float64, success bool) float64 {
	sample := 0.0
	if success {
		sample = 100.0
	}
	return old*0.8 + sample*0.2
}

// buildURL 拼接代理URL：protocol://[user:pass@]host:port
func buildURL(p *model.Proxy) string {
	if p.Username != nil && p.Password != nil && *p.Username != "" {
		return fmt.Sprintf("%s://%s:%s@%s:%d", p.Protocol, *p.Username, *p.Password, p.Host, p.Port)
	}
	return fmt.Sprintf("%s://%s:%d", p.Protocol, p.Host, p.Port)
}

// parseURL 从代理URL中还原protocol/host/port
func parseURL(proxyURL string) (protocol, host string, port int, err error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return "", "", 0, err
	}
	if u.Scheme == "" || u.Hostname() == "" || u.Port() == "" {
		return "", "", 0, fmt.Errorf("代理地址不完整: %s", proxyURL)
	}
	port, err = strconv.Atoi(u.Port())
	if err != nil {
		return "", "", 0, err
	}
	return u.Scheme, u.Hostname(), port, nil
}
