package service

import (
	"context"
	"errors"
	"fmt"

	"TipScan/internal/model"
	"TipScan/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidAmount 充值金额非法
var ErrInvalidAmount = errors.New("invalid amount")

// CreditService 积分充值与流水/审计查询。
// 充值是信任调用方金额的占位实现，不接支付网关
type CreditService struct {
	users  repository.UserRepository
	audit  repository.AuditRepository
	logger *logrus.Logger
}

// NewCreditService 创建CreditService
func NewCreditService(db *gorm.DB, logger *logrus.Logger) *CreditService {
	return &CreditService{
		users:  repository.NewUserRepository(db),
		audit:  repository.NewAuditRepository(db),
		logger: logger,
	}
}

// BuyCredits 充值：校验金额后加余额并写purchase流水
func (s *CreditService) BuyCredits(ctx context.Context, userID uint64, amount int, paymentMethod string) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	newBalance, err := s.users.AddCredits(ctx, userID, amount, "purchase",
		fmt.Sprintf("Credit purchase via %s", paymentMethod))
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
	}).Info("积分充值成功")
	return newBalance, nil
}

// Transactions 某用户的积分流水
func (s *CreditService) Transactions(ctx context.Context, userID uint64, page, pageSize int) ([]*model.CreditTransaction, int64, error) {
	return s.audit.ListTransactions(ctx, userID, page, pageSize)
}

// RequestLogs 某用户的扫描审计记录
func (s *CreditService) RequestLogs(ctx context.Context, userID uint64, page, pageSize int) ([]*model.APIRequestLog, int64, error) {
	return s.audit.ListRequestLogs(ctx, userID, page, pageSize)
}
