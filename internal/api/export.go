package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"visitas-store/internal/exporter"
	"visitas-store/internal/parser"
	"visitas-store/internal/store"
)

// ExportRequest 导出请求
type ExportRequest struct {
	Category string `json:"category"` // 为空时导出全部分类
}

// ExportResponse 导出结果
type ExportResponse struct {
	Token       string    `json:"token"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Export 导出目录为 Excel，返回一次性下载地址
// POST /api/catalogs/:owner/export
func (h *Handler) Export(c *gin.Context) {
	req, ok := bindExportRequest(c)
	if !ok {
		return
	}

	resp, err := h.exportToFile(c.Request.Context(), c.Param("owner"), req.Category, nil)
	if err != nil {
		h.storeError(c, "export catalog", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供下载地址）
// POST /api/catalogs/:owner/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	req, ok := bindExportRequest(c)
	if !ok {
		return
	}
	owner := c.Param("owner")

	w, ok := startSSE(c)
	if !ok {
		return
	}

	w.send(exportProgressEvent{
		Type:    "start",
		Message: "开始导出",
		Data: map[string]any{
			"owner":    owner,
			"category": req.Category,
		},
		Timestamp: time.Now(),
	})

	progressFn := func(p exporter.ProgressEvent) {
		w.send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	resp, err := h.exportToFile(c.Request.Context(), owner, req.Category, progressFn)
	if err != nil {
		msg := "导出失败: " + err.Error()
		if errors.Is(err, store.ErrNotFound) {
			msg = "目录不存在"
		}
		w.send(exportProgressEvent{
			Type:      "error",
			Message:   msg,
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	w.send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"token":       resp.Token,
			"downloadUrl": resp.DownloadURL,
			"expiresAt":   resp.ExpiresAt,
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)
}

func bindExportRequest(c *gin.Context) (ExportRequest, bool) {
	var req ExportRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return req, false
	}
	return req, true
}

// exportToFile 生成导出文件并登记下载 token
func (h *Handler) exportToFile(ctx context.Context, owner, category string, progress func(exporter.ProgressEvent)) (ExportResponse, error) {
	file, err := h.exporter.Export(ctx, exporter.ExportOptions{
		Owner:    owner,
		Category: category,
		Progress: progress,
	})
	if err != nil {
		return ExportResponse{}, err
	}
	defer file.Close()

	tempPath := filepath.Join(h.exportDir, fmt.Sprintf("catalog_%s.xlsx", uuid.NewString()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return ExportResponse{}, fmt.Errorf("写入导出文件失败: %w", err)
	}

	token, expiresAt := h.downloads.put(tempPath, exportFileName(owner, category), exportTokenTTL)
	h.logger.Info("catalog exported",
		zap.String("owner", owner),
		zap.String("category", category),
		zap.Time("expires_at", expiresAt),
	)
	return ExportResponse{
		Token:       token,
		DownloadURL: "/api/export/download/" + token,
		ExpiresAt:   expiresAt,
	}, nil
}

// exportFileName 下载文件名：catalog-{owner}[-{category}].xlsx
func exportFileName(owner, category string) string {
	name := "catalog"
	if slug := parser.Slugify(owner); slug != "" {
		name += "-" + slug
	}
	if slug := parser.Slugify(category); slug != "" {
		name += "-" + slug
	}
	return name + ".xlsx"
}

func buildExportContentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fileName, url.PathEscape(fileName))
}
