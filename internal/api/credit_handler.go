package api

import (
	"errors"
	"net/http"
	"strconv"

	"TipScan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreditHandler 积分余额/充值/流水/审计接口
type CreditHandler struct {
	credits *service.CreditService
	logger  *logrus.Logger
}

// NewCreditHandler 创建CreditHandler
func NewCreditHandler(db *gorm.DB, logger *logrus.Logger) *CreditHandler {
	return &CreditHandler{
		credits: service.NewCreditService(db, logger),
		logger:  logger,
	}
}

// Balance 当前余额
// GET /api/credits
func (h *CreditHandler) Balance(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"credit_balance": user.CreditBalance})
}

// Buy 积分充值（占位实现，信任调用方金额）
// POST /api/credits/buy
func (h *CreditHandler) Buy(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Amount        int    `json:"amount"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newBalance, err := h.credits.BuyCredits(c.Request.Context(), user.ID, req.Amount, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		h.logger.WithError(err).Error("充值失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"new_balance": newBalance,
		"message":     "Successfully purchased " + strconv.Itoa(req.Amount) + " credits",
	})
}

// Transactions 积分流水
// GET /api/credits/transactions
func (h *CreditHandler) Transactions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	txns, total, err := h.credits.Transactions(c.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("查询积分流水失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": txns})
}

// RequestLogs 扫描审计记录
// GET /api/logs
func (h *CreditHandler) RequestLogs(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.credits.RequestLogs(c.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("查询审计记录失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": logs})
}
