package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"visitas-store/internal/model"
)

const defaultAnalyticsDays = 30

// ViewRequest 浏览记录请求（productNumber 为空表示浏览整个目录）
type ViewRequest struct {
	ProductNumber string `json:"productNumber" validate:"omitempty,max=16"`
	Country       string `json:"country" validate:"omitempty,max=64"`
	City          string `json:"city" validate:"omitempty,max=128"`
}

// AnalyticsQuery 统计查询参数
type AnalyticsQuery struct {
	Days int `form:"days" json:"days" validate:"omitempty,min=1,max=365"`
}

// RecordView 记录目录浏览
// POST /api/catalogs/:owner/views
func (h *Handler) RecordView(c *gin.Context) {
	var req ViewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
			return
		}
	}
	req.ProductNumber = strings.TrimSpace(req.ProductNumber)

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fieldErrors(err)})
		return
	}

	view, err := h.store.RecordView(c.Request.Context(), model.CatalogView{
		Owner:         c.Param("owner"),
		ProductNumber: req.ProductNumber,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		Country:       strings.TrimSpace(req.Country),
		City:          strings.TrimSpace(req.City),
		ViewedAt:      h.now(),
	})
	if err != nil {
		h.storeError(c, "record view", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetAnalytics 最近 N 天的浏览统计
// GET /api/catalogs/:owner/analytics?days=30
func (h *Handler) GetAnalytics(c *gin.Context) {
	var q AnalyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}
	if err := h.validate.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fieldErrors(err)})
		return
	}
	if q.Days == 0 {
		q.Days = defaultAnalyticsDays
	}

	since := h.now().AddDate(0, 0, -q.Days)
	stats, err := h.store.ViewStats(c.Request.Context(), c.Param("owner"), since)
	if err != nil {
		h.storeError(c, "view stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// recentViewsSince 状态页统计的浏览区间
func (h *Handler) recentViewsSince() time.Time {
	return h.now().AddDate(0, 0, -defaultAnalyticsDays)
}
