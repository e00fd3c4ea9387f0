package service

import (
	"context"

	"TipScan/internal/model"
	"TipScan/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TipListResult 历史提示分页结果
type TipListResult struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []*model.MatchTip `json:"items"`
}

// TipService 历史提示查询（MatchTip为既存落库数据，只读）
type TipService struct {
	tips   repository.TipRepository
	logger *logrus.Logger
}

// NewTipService 创建TipService
func NewTipService(db *gorm.DB, logger *logrus.Logger) *TipService {
	return &TipService{
		tips:   repository.NewTipRepository(db),
		logger: logger,
	}
}

// List 按条件分页查询
func (s *TipService) List(ctx context.Context, filter repository.TipFilter, page, pageSize int) (*TipListResult, error) {
	items, total, err := s.tips.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &TipListResult{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

// Today 今日开赛的提示
func (s *TipService) Today(ctx context.Context) ([]*model.MatchTip, error) {
	return s.tips.Today(ctx)
}

// Upcoming 未来开赛的提示
func (s *TipService) Upcoming(ctx context.Context) ([]*model.MatchTip, error) {
	return s.tips.Upcoming(ctx)
}
