package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"visitas-store/internal/model"
	"visitas-store/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Status        string           `json:"status"`               // ok / degraded
	Uptime        string           `json:"uptime"`               // 运行时长
	Owner         string           `json:"owner,omitempty"`      // 查询的用户
	HasCatalog    bool             `json:"hasCatalog"`           // 是否已导入目录
	TotalProducts int              `json:"totalProducts"`        // 商品数
	Categories    int              `json:"categories"`           // 分类数
	Photos        int              `json:"photos"`               // 照片数
	RecentViews   int              `json:"recentViews"`          // 最近 30 天浏览次数
	Visits        int              `json:"visits"`               // 拜访记录数
	LastImport    *model.ImportLog `json:"lastImport,omitempty"` // 最后一次导入
}

// GetStatus 获取系统状态
// GET /api/status?owner=
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	owner := c.Query("owner")

	resp := StatusResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		Owner:  owner,
	}

	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if last, err := h.store.LastImport(ctx, owner); err == nil {
		resp.LastImport = last
	}

	if owner != "" {
		if catalog, err := h.store.GetCatalog(ctx, owner); err == nil {
			resp.HasCatalog = true
			resp.TotalProducts = catalog.TotalProducts
			resp.Categories = len(catalog.Categories)
		} else if !errors.Is(err, store.ErrNotFound) {
			resp.Status = "degraded"
		}
		if n, err := h.store.CountPhotos(ctx, owner); err == nil {
			resp.Photos = n
		}
		if resp.HasCatalog {
			if stats, err := h.store.ViewStats(ctx, owner, h.recentViewsSince()); err == nil {
				resp.RecentViews = stats.TotalViews
			}
		}
		if n, err := h.store.CountVisits(ctx, owner); err == nil {
			resp.Visits = n
		}
	}

	c.JSON(http.StatusOK, resp)
}
