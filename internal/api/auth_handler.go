package api

import (
	"errors"
	"net/http"
	"time"

	"TipScan/internal/model"
	"TipScan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler 注册/登录/资料接口
type AuthHandler struct {
	accounts *service.AccountService
	logger   *logrus.Logger
}

// NewAuthHandler 创建AuthHandler
func NewAuthHandler(db *gorm.DB, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: service.NewAccountService(db, logger),
		logger:   logger,
	}
}

// Accounts 暴露认证服务供中间件使用
func (h *AuthHandler) Accounts() *service.AccountService {
	return h.accounts
}

// userView 对外用户视图（不泄露密码哈希与令牌以外的凭证）
type userView struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	APIKey        string    `json:"api_key"`
	CreditBalance int       `json:"credit_balance"`
	IsPremium     bool      `json:"is_premium"`
	ProxyEnabled  bool      `json:"proxy_enabled"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		APIKey:        u.APIKey,
		CreditBalance: u.CreditBalance,
		IsPremium:     u.IsPremium,
		ProxyEnabled:  u.ProxyEnabled,
		CreatedAt:     u.CreatedAt,
	}
}

// Register 用户注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
			return
		}
		h.logger.WithError(err).Error("注册失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    toUserView(user),
		"token":   user.Token,
		"message": "Registration successful",
	})
}

// Login 登录换令牌
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
			return
		}
		h.logger.WithError(err).Error("登录失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    toUserView(user),
		"token":   user.Token,
		"message": "Login successful",
	})
}

// Profile 当前用户资料
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

// UpdateProfile 更新资料（邮箱与个人代理配置）
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Email         *string `json:"email"`
		ProxyEnabled  *bool   `json:"proxy_enabled"`
		ProxyHost     *string `json:"proxy_host"`
		ProxyPort     *int    `json:"proxy_port"`
		ProxyUsername *string `json:"proxy_username"`
		ProxyPassword *string `json:"proxy_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.ProxyEnabled != nil {
		user.ProxyEnabled = *req.ProxyEnabled
	}
	if req.ProxyHost != nil {
		user.ProxyHost = req.ProxyHost
	}
	if req.ProxyPort != nil {
		user.ProxyPort = req.ProxyPort
	}
	if req.ProxyUsername != nil {
		user.ProxyUsername = req.ProxyUsername
	}
	if req.ProxyPassword != nil {
		user.ProxyPassword = req.ProxyPassword
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), user); err != nil {
		h.logger.WithError(err).Error("更新资料失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}
