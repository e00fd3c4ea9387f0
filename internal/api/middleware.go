package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"TipScan/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Authenticator 令牌换用户的约定，由AccountService实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

const userContextKey = "auth_user"

// 扫描端点按用户限流：每分钟100次
const (
	rateLimitPerMinute = 100
	rateLimitWindow    = time.Minute
)

// AuthRequired 令牌认证中间件。支持 Authorization: Token <key> / Bearer <key> 与 X-API-Key 头
func AuthRequired(auth Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.WithError(err).Error("令牌认证查询失败")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// extractToken 从请求头取访问令牌
func extractToken(c *gin.Context) string {
	if v := c.GetHeader("X-API-Key"); v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	for _, prefix := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(auth, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
		}
	}
	return ""
}

// currentUser 取认证中间件放入的用户
func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// RateLimit 按用户限流中间件（Redis INCR+过期窗口）。
// rdb为nil时直接放行；Redis故障时放行（限流不可用不应拖垮扫描服务）
func RateLimit(rdb *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		user := currentUser(c)
		if user == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("api_rate_limit_%d", user.ID)
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.WithError(err).Warn("限流计数失败，放行请求")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, rateLimitWindow)
		}
		if count > rateLimitPerMinute {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": fmt.Sprintf("Maximum %d requests per minute allowed", rateLimitPerMinute),
			})
			return
		}
		c.Next()
	}
}
