// Package api 提供商品目录的 HTTP 接口
package api

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"visitas-store/internal/exporter"
	"visitas-store/internal/importer"
	"visitas-store/internal/store"
)

// 默认值（配置为 0 时使用）
const (
	defaultMaxUploadBytes = 20 << 20
	exportTokenTTL        = time.Hour
)

// Options 处理器选项
type Options struct {
	MaxUploadBytes    int64
	ImportTimeout     time.Duration
	ImportConcurrency int
	ExportDir         string // 导出文件暂存目录，为空时使用系统临时目录
}

// Handler API 处理器
type Handler struct {
	store     *store.Store
	importer  *importer.Coordinator
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
	validate  *validator.Validate
	logger    *zap.Logger

	maxUploadBytes int64
	exportDir      string
	startedAt      time.Time
	now            func() time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.ExportDir == "" {
		opts.ExportDir = os.TempDir()
	}

	importOpts := []importer.Option{importer.WithTimeout(opts.ImportTimeout)}
	if opts.ImportConcurrency > 0 {
		importOpts = append(importOpts, importer.WithConcurrency(opts.ImportConcurrency))
	}

	return &Handler{
		store:          st,
		importer:       importer.NewCoordinator(st, logger.Named("importer"), importOpts...),
		exporter:       exporter.NewExporter(st),
		downloads:      newExportDownloadStore(),
		validate:       newValidator(),
		logger:         logger,
		maxUploadBytes: opts.MaxUploadBytes,
		exportDir:      opts.ExportDir,
		startedAt:      time.Now(),
		now:            time.Now,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 表格导入
	router.POST("/import", h.Import)
	router.POST("/import/stream", h.ImportStream)
	router.GET("/imports/last", h.GetLastImport)

	// 商品目录
	router.GET("/catalogs/:owner", h.GetCatalog)
	router.GET("/catalogs/:owner/categories", h.ListCategories)

	// 商品照片
	router.GET("/catalogs/:owner/photos", h.ListPhotos)
	router.POST("/catalogs/:owner/photos", h.UpsertPhoto)
	router.DELETE("/catalogs/:owner/photos/:id", h.DeletePhoto)

	// 浏览统计
	router.POST("/catalogs/:owner/views", h.RecordView)
	router.GET("/catalogs/:owner/analytics", h.GetAnalytics)

	// 门店拜访
	router.POST("/visits", h.CreateVisit)
	router.GET("/visits", h.ListVisits)

	// 目录导出
	router.POST("/catalogs/:owner/export", h.Export)
	router.POST("/catalogs/:owner/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}
