package api

import (
	"net/http"
	"strconv"
	"time"

	"TipScan/internal/repository"
	"TipScan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TipHandler 历史提示查询接口
type TipHandler struct {
	tipService *service.TipService
	logger     *logrus.Logger
}

// NewTipHandler 创建TipHandler
func NewTipHandler(db *gorm.DB, logger *logrus.Logger) *TipHandler {
	return &TipHandler{
		tipService: service.NewTipService(db, logger),
		logger:     logger,
	}
}

// List 历史提示列表
// GET /api/tips?tip_type=normal&confidence_level=high&is_live=true&league=premier&start_date=2026-01-01&end_date=2026-01-31&page=1&page_size=20
func (h *TipHandler) List(c *gin.Context) {
	filter := repository.TipFilter{
		TipType:         c.Query("tip_type"),
		ConfidenceLevel: c.Query("confidence_level"),
		League:          c.Query("league"),
	}
	if v := c.Query("is_live"); v != "" {
		b := v == "true"
		filter.IsLive = &b
	}
	if v := c.Query("is_major_league"); v != "" {
		b := v == "true"
		filter.IsMajorLeague = &b
	}
	// 日期解析失败时忽略该条件，不报错
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.EndDate = &t
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.tipService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListTips failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Today 今日开赛
// GET /api/tips/today
func (h *TipHandler) Today(c *gin.Context) {
	tips, err := h.tipService.Today(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("TodayTips failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tips)
}

// Upcoming 未来开赛
// GET /api/tips/upcoming
func (h *TipHandler) Upcoming(c *gin.Context) {
	tips, err := h.tipService.Upcoming(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("UpcomingTips failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tips)
}
