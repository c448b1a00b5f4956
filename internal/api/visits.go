package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"visitas-store/internal/model"
	"visitas-store/internal/store"
)

// VisitRequest 登记门店拜访（照片文件由外部存储负责，这里只记录路径）
type VisitRequest struct {
	Owner     string `json:"owner" validate:"omitempty,max=128"`
	Store     string `json:"loja" validate:"required,max=200"`
	Address   string `json:"endereco" validate:"omitempty,max=300"`
	Contact   string `json:"contato" validate:"omitempty,max=200"`
	Comments  string `json:"comentarios" validate:"omitempty,max=2000"`
	PhotoPath string `json:"photoPath" validate:"omitempty,max=500"`
}

// VisitQuery 拜访记录查询参数
type VisitQuery struct {
	Owner string `form:"owner" json:"owner"`
	Store string `form:"loja" json:"loja"`
	Since string `form:"since" json:"since" validate:"omitempty,datetime=2006-01-02"`
}

// CreateVisit 登记门店拜访
// POST /api/visits
func (h *Handler) CreateVisit(c *gin.Context) {
	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return
	}
	req.Owner = strings.TrimSpace(req.Owner)
	req.Store = strings.TrimSpace(req.Store)
	req.Address = strings.TrimSpace(req.Address)
	req.Contact = strings.TrimSpace(req.Contact)
	req.Comments = strings.TrimSpace(req.Comments)
	req.PhotoPath = strings.TrimSpace(req.PhotoPath)

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fieldErrors(err)})
		return
	}

	visit, err := h.store.CreateVisit(c.Request.Context(), model.Visit{
		Owner:     req.Owner,
		Store:     req.Store,
		Address:   req.Address,
		Contact:   req.Contact,
		Comments:  req.Comments,
		PhotoPath: req.PhotoPath,
		CreatedAt: h.now(),
	})
	if err != nil {
		h.storeError(c, "create visit", err)
		return
	}
	c.JSON(http.StatusCreated, visit)
}

// ListVisits 拜访记录，最新的在前
// GET /api/visits?owner=&loja=&since=2024-10-01
func (h *Handler) ListVisits(c *gin.Context) {
	var q VisitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}
	if err := h.validate.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fieldErrors(err)})
		return
	}

	filter := store.VisitFilter{
		Owner: strings.TrimSpace(q.Owner),
		Store: strings.TrimSpace(q.Store),
	}
	if q.Since != "" {
		// 已由 datetime 规则校验
		filter.Since, _ = time.Parse(time.DateOnly, q.Since)
	}

	visits, err := h.store.ListVisits(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, "list visits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visits": visits})
}
