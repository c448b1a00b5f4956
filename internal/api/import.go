package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitas-store/internal/importer"
	"visitas-store/internal/parser"
)

// errUploadTooLarge 上传文件超过限制
var errUploadTooLarge = errors.New("upload too large")

// Import 导入表格并返回商品列表
// POST /api/import  (multipart: file, owner?, catalogName?)
func (h *Handler) Import(c *gin.Context) {
	opts, ok := h.readUpload(c)
	if !ok {
		return
	}

	res, err := h.importer.Run(c.Request.Context(), opts, nil)
	if err != nil {
		status, body := importErrorResponse(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("import failed", zap.String("filename", opts.Filename), zap.Error(err))
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ImportStream 导入表格 (SSE 流式响应)
// POST /api/import/stream
func (h *Handler) ImportStream(c *gin.Context) {
	opts, ok := h.readUpload(c)
	if !ok {
		return
	}

	w, ok := startSSE(c)
	if !ok {
		return
	}

	for event := range h.importer.Import(c.Request.Context(), opts) {
		w.send(event)
	}
}

// readUpload 读取上传文件；失败时已写入响应
func (h *Handler) readUpload(c *gin.Context) (importer.ImportOptions, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload_too_large"})
			return importer.ImportOptions{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return importer.ImportOptions{}, false
	}

	data, err := h.readFile(fileHeader.Size, func() (io.ReadCloser, error) { return fileHeader.Open() })
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload_too_large"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		}
		return importer.ImportOptions{}, false
	}

	return importer.ImportOptions{
		Filename:    fileHeader.Filename,
		Data:        data,
		Owner:       strings.TrimSpace(c.PostForm("owner")),
		CatalogName: strings.TrimSpace(c.PostForm("catalogName")),
	}, true
}

func (h *Handler) readFile(size int64, open func() (io.ReadCloser, error)) ([]byte, error) {
	if size > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	f, err := open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	return data, nil
}

// importErrorResponse 将导入错误映射为 HTTP 状态码
func importErrorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, parser.ErrUnreadableWorkbook):
		return http.StatusUnprocessableEntity, gin.H{"error": "unreadable_workbook"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, gin.H{"error": "import_timeout"}
	case errors.Is(err, context.Canceled):
		return 499, gin.H{"error": "import_cancelled"}
	default:
		return http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("导入失败: %v", err)}
	}
}
