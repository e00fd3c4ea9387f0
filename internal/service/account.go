package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"TipScan/internal/model"
	"TipScan/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid username or password")

// RegisterRequest 注册参数
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AccountService 注册/登录/令牌认证/资料维护
type AccountService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

// NewAccountService 创建AccountService
func NewAccountService(db *gorm.DB, logger *logrus.Logger) *AccountService {
	return &AccountService{
		users:  repository.NewUserRepository(db),
		logger: logger,
	}
}

// Register 创建用户并签发访问令牌。初始余额由表默认值（1000）给定
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Token:        newToken(),
		APIKey:       uuid.NewString(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("username", user.Username).Info("用户注册成功")
	return user, nil
}

// Login 校验密码，成功返回用户（令牌随用户返回）
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Authenticate 按访问令牌取用户（认证中间件调用）
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	return s.users.GetByToken(ctx, token)
}

// GetProfile 取用户资料
func (s *AccountService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile 更新可编辑的资料字段
func (s *AccountService) UpdateProfile(ctx context.Context, user *model.User) error {
	return s.users.UpdateProfile(ctx, user)
}

// newToken DRF风格的40位hex令牌
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")[:40]
}
