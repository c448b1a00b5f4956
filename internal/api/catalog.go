package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitas-store/internal/model"
	"visitas-store/internal/photo"
	"visitas-store/internal/store"
)

// GetCatalog 获取用户目录（已匹配照片）
// GET /api/catalogs/:owner?category=
func (h *Handler) GetCatalog(c *gin.Context) {
	owner := c.Param("owner")
	ctx := c.Request.Context()

	catalog, err := h.store.GetCatalog(ctx, owner)
	if err != nil {
		h.storeError(c, "get catalog", err)
		return
	}

	photos, err := h.store.ListPhotos(ctx, owner)
	if err != nil {
		h.storeError(c, "list photos", err)
		return
	}

	catalog.Products = model.FilterByCategory(photo.Enrich(catalog.Products, photos), c.Query("category"))
	c.JSON(http.StatusOK, catalog)
}

// ListCategories 获取目录分类
// GET /api/catalogs/:owner/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context(), c.Param("owner"))
	if err != nil {
		h.storeError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// storeError ErrNotFound -> 404，其余 -> 500
func (h *Handler) storeError(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	h.logger.Error(op+" failed", zap.String("owner", c.Param("owner")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
