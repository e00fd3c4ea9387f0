package repository

import (
	"context"

	"TipScan/internal/model"

	"gorm.io/gorm"
)

// AuditRepository 审计与流水查询接口（只读，写入在扣费事务内完成）
type AuditRepository interface {
	// ListRequestLogs 某用户的扫描审计记录，按时间倒序分页
	ListRequestLogs(ctx context.Context, userID uint64, page, pageSize int) ([]*model.APIRequestLog, int64, error)
	// ListTransactions 某用户的积分流水，按时间倒序分页
	ListTransactions(ctx context.Context, userID uint64, page, pageSize int) ([]*model.CreditTransaction, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建AuditRepository实例
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) ListRequestLogs(ctx context.Context, userID uint64, page, pageSize int) ([]*model.APIRequestLog, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	db := r.db.WithContext(ctx).Model(&model.APIRequestLog{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*model.APIRequestLog
	if err := db.
		Order("timestamp DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditRepository) ListTransactions(ctx context.Context, userID uint64, page, pageSize int) ([]*model.CreditTransaction, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	db := r.db.WithContext(ctx).Model(&model.CreditTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []*model.CreditTransaction
	if err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
