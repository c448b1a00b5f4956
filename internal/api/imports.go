package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visitas-store/internal/model"
)

// LastImportResponse 最近一次导入及各工作表结果
type LastImportResponse struct {
	Import *model.ImportLog    `json:"import"`
	Sheets []model.SheetReport `json:"sheets"`
}

// GetLastImport 最近一次导入（owner 为空时取全局）
// GET /api/imports/last?owner=
func (h *Handler) GetLastImport(c *gin.Context) {
	ctx := c.Request.Context()

	last, err := h.store.LastImport(ctx, c.Query("owner"))
	if err != nil {
		h.storeError(c, "last import", err)
		return
	}

	sheets, err := h.store.ListSheetReports(ctx, last.ID)
	if err != nil {
		h.storeError(c, "list sheet reports", err)
		return
	}

	c.JSON(http.StatusOK, LastImportResponse{Import: last, Sheets: sheets})
}
