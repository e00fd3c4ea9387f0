package api

import (
	"context"
	"errors"
	"net/http"

	"TipScan/internal/model"
	"TipScan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScanRunner 扫描编排约定，由ScanService实现
type ScanRunner interface {
	RunScan(ctx context.Context, user *model.User, req service.ScanRequest) (*service.ScanResult, error)
}

// ScanHandler 实时扫描端点
type ScanHandler struct {
	svc    ScanRunner
	logger *logrus.Logger
}

// NewScanHandler 创建ScanHandler
func NewScanHandler(svc ScanRunner, logger *logrus.Logger) *ScanHandler {
	return &ScanHandler{svc: svc, logger: logger}
}

// scanParams GET走query、POST走JSON body，gin按Content-Type自动选择
type scanParams struct {
	TipType      string `form:"tip_type" json:"tip_type"`
	Mode         string `form:"mode" json:"mode"`
	LiveOnly     bool   `form:"live_only" json:"live_only"`
	ExcludeMajor bool   `form:"exclude_major" json:"exclude_major"`
	TimeOrder    bool   `form:"time_order" json:"time_order"`
	Limit        int    `form:"limit" json:"limit"`
	UseProxy     bool   `form:"use_proxy" json:"use_proxy"`
}

// Scan 计费扫描接口
// GET|POST /api/matches?tip_type=normal&mode=safe&limit=10&use_proxy=true
func (h *ScanHandler) Scan(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	params := scanParams{TipType: "normal", Mode: "normal", Limit: 10}
	if err := c.ShouldBind(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.RunScan(c.Request.Context(), user, service.ScanRequest{
		TipType:      params.TipType,
		Mode:         params.Mode,
		LiveOnly:     params.LiveOnly,
		ExcludeMajor: params.ExcludeMajor,
		TimeOrder:    params.TimeOrder,
		Limit:        params.Limit,
		UseProxy:     params.UseProxy,
	})
	if err != nil {
		var insufficient *service.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":            "Insufficient credits",
				"required_credits": insufficient.Required,
				"current_balance":  insufficient.Balance,
			})
		case errors.Is(err, service.ErrNoResults):
			// 零结果不扣费，对外为上游不可用
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   "upstream unavailable",
			})
		default:
			h.logger.WithError(err).WithField("user_id", user.ID).Error("扫描请求失败")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"count":             result.Count,
		"credits_used":      result.CreditsUsed,
		"credits_remaining": result.CreditsRemaining,
		"used_proxy":        result.UsedProxy,
		"matches":           result.Matches,
	})
}
