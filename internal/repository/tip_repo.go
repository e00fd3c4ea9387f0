package repository

import (
	"context"
	"time"

	"TipScan/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TipFilter 历史提示列表筛选条件
type TipFilter struct {
	TipType         string     // normal / underdog
	ConfidenceLevel string     // high / medium / low
	League          string     // 联赛名模糊匹配
	IsLive          *bool      // 是否滚球
	IsMajorLeague   *bool      // 是否主流联赛
	StartDate       *time.Time // 开赛日期下限
	EndDate         *time.Time // 开赛日期上限
}

// TipRepository 历史提示仓储接口
type TipRepository interface {
	// List 按条件分页查询，按开赛时间升序
	List(ctx context.Context, filter TipFilter, page, pageSize int) ([]*model.MatchTip, int64, error)
	// Today 今日开赛的提示
	Today(ctx context.Context) ([]*model.MatchTip, error)
	// Upcoming 未来开赛的提示，按开赛时间升序
	Upcoming(ctx context.Context) ([]*model.MatchTip, error)
	// SaveBatch 批量保存扫描结果，(match_id, tip_type)冲突时忽略（首次保存的值保留）
	SaveBatch(ctx context.Context, tips []*model.MatchTip) error
}

type tipRepository struct {
	db *gorm.DB
}

// NewTipRepository 创建TipRepository实例
func NewTipRepository(db *gorm.DB) TipRepository {
	return &tipRepository{db: db}
}

// List 按过滤条件分页查询提示
func (r *tipRepository) List(ctx context.Context, filter TipFilter, page, pageSize int) ([]*model.MatchTip, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.MatchTip{})

	if filter.TipType != "" {
		db = db.Where("tip_type = ?", filter.TipType)
	}
	if filter.ConfidenceLevel != "" {
		db = db.Where("confidence_level = ?", filter.ConfidenceLevel)
	}
	if filter.League != "" {
		db = db.Where("league ILIKE ?", "%"+filter.League+"%")
	}
	if filter.IsLive != nil {
		db = db.Where("is_live = ?", *filter.IsLive)
	}
	if filter.IsMajorLeague != nil {
		db = db.Where("is_major_league = ?", *filter.IsMajorLeague)
	}
	if filter.StartDate != nil {
		db = db.Where("match_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("match_time < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tips []*model.MatchTip
	if err := db.
		Order("match_time ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tips).Error; err != nil {
		return nil, 0, err
	}

	return tips, total, nil
}

// Today 今日（UTC）开赛的提示
func (r *tipRepository) Today(ctx context.Context) ([]*model.MatchTip, error) {
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	var tips []*model.MatchTip
	if err := r.db.WithContext(ctx).Model(&model.MatchTip{}).
		Where("match_time >= ? AND match_time < ?", dayStart, dayStart.Add(24*time.Hour)).
		Order("match_time ASC").
		Find(&tips).Error; err != nil {
		return nil, err
	}
	return tips, nil
}

// Upcoming 未来开赛的提示
func (r *tipRepository) Upcoming(ctx context.Context) ([]*model.MatchTip, error) {
	var tips []*model.MatchTip
	if err := r.db.WithContext(ctx).Model(&model.MatchTip{}).
		Where("match_time >= ?", time.Now().UTC()).
		Order("match_time ASC").
		Find(&tips).Error; err != nil {
		return nil, err
	}
	return tips, nil
}

// SaveBatch 批量入库，冲突忽略
func (r *tipRepository) SaveBatch(ctx context.Context, tips []*model.MatchTip) error {
	if len(tips) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tips).Error
}
