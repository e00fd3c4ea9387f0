package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "TipScan API",
	})
}

// Docs 端点速查
// GET /api/docs
func Docs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": gin.H{
			"auth": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"profile":  "GET|PUT /api/auth/profile",
			},
			"matches": gin.H{
				"live_query": "GET|POST /api/matches",
				"list":       "GET /api/tips",
				"today":      "GET /api/tips/today",
				"upcoming":   "GET /api/tips/upcoming",
			},
			"user": gin.H{
				"credits":      "GET /api/credits",
				"buy_credits":  "POST /api/credits/buy",
				"transactions": "GET /api/credits/transactions",
				"api_logs":     "GET /api/logs",
			},
		},
		"parameters": gin.H{
			"live_query": gin.H{
				"tip_type":      "normal or underdog",
				"mode":          "normal or safe",
				"live_only":     "true/false",
				"exclude_major": "true/false",
				"time_order":    "true/false",
				"limit":         "number (1-100)",
				"use_proxy":     "true/false (100 credits with proxy, 200 without)",
			},
		},
	})
}
