package repository

import (
	"context"
	"errors"

	"TipScan/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientCredits 余额不足以完成扣费
var ErrInsufficientCredits = errors.New("insufficient credits")

// UserRepository 用户与积分仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *model.User) error
	// GetByID 按主键查用户
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	// GetByUsername 按用户名查用户
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByToken 按访问令牌查用户（认证中间件用）
	GetByToken(ctx context.Context, token string) (*model.User, error)
	// UpdateProfile 更新用户资料字段
	UpdateProfile(ctx context.Context, user *model.User) error
	// DebitWithAudit 原子扣费：行锁校验余额后扣减，并在同一事务内写入审计记录与积分流水。
	// 余额不足返回ErrInsufficientCredits，事务内任何失败都不会留下半套记录
	DebitWithAudit(ctx context.Context, userID uint64, cost int, logEntry *model.APIRequestLog, txn *model.CreditTransaction) (newBalance int, err error)
	// AddCredits 原子加credits并写流水（充值/退款/管理员调整）
	AddCredits(ctx context.Context, userID uint64, amount int, txType, description string) (newBalance int, err error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建UserRepository实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":          user.Email,
			"proxy_enabled":  user.ProxyEnabled,
			"proxy_host":     user.ProxyHost,
			"proxy_port":     user.ProxyPort,
			"proxy_username": user.ProxyUsername,
			"proxy_password": user.ProxyPassword,
		}).Error
}

// DebitWithAudit 行锁读余额→校验→扣减→写审计与流水，全部在一个事务内。
// 余额永远不会扣成负数
func (r *userRepository) DebitWithAudit(ctx context.Context, userID uint64, cost int, logEntry *model.APIRequestLog, txn *model.CreditTransaction) (int, error) {
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&u).Error; err != nil {
			return err
		}
		if u.CreditBalance < cost {
			return ErrInsufficientCredits
		}
		newBalance = u.CreditBalance - cost
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("credit_balance", newBalance).Error; err != nil {
			return err
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *userRepository) AddCredits(ctx context.Context, userID uint64, amount int, txType, description string) (int, error) {
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&u).Error; err != nil {
			return err
		}
		newBalance = u.CreditBalance + amount
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("credit_balance", newBalance).Error; err != nil {
			return err
		}
		return tx.Create(&model.CreditTransaction{
			UserID:          userID,
			TransactionType: txType,
			Amount:          amount,
			Description:     description,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}
