package importer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visitas-store/internal/model"
	"visitas-store/internal/parser"
)

// Repository 导入结果的持久化（目录 + 导入日志）
type Repository interface {
	SaveCatalog(ctx context.Context, owner, name string, products []model.Product) (*model.Catalog, error)
	CreateImportLog(ctx context.Context, owner, filename string, fileSize int64) (int64, error)
	FinishImportLog(ctx context.Context, id int64, status string, totalSheets, skippedSheets, totalProducts int, errorMessage string) error
	SaveSheetReports(ctx context.Context, importLogID int64, reports []model.SheetReport) error
}

// Coordinator 导入协调器
type Coordinator struct {
	repo        Repository
	logger      *zap.Logger
	timeout     time.Duration
	concurrency int
	seed        int
}

// Option 协调器选项
type Option func(*Coordinator)

// WithTimeout 整次导入的超时时间（0 表示不限制）
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithConcurrency 同时解析的工作表数量
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithNumberSeed 首个商品编号
func WithNumberSeed(seed int) Option {
	return func(c *Coordinator) {
		c.seed = seed
	}
}

// NewCoordinator 创建导入协调器；repo 为 nil 时只解析不保存
func NewCoordinator(repo Repository, logger *zap.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		repo:        repo,
		logger:      logger,
		concurrency: runtime.GOMAXPROCS(0),
		seed:        NumberSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImportOptions 导入选项
type ImportOptions struct {
	Filename    string
	Data        []byte
	Owner       string // 为空时不保存目录
	CatalogName string
}

// ProcessWorkbook 解析整个工作簿
// 只有文件无法解码（ErrUnreadableWorkbook）或超时/取消会返回错误；其余异常都降级为部分结果
func (c *Coordinator) ProcessWorkbook(ctx context.Context, data []byte) (*model.ImportResult, error) {
	return c.process(ctx, data, nil)
}

// Run 解析并（在指定 owner 时）保存为该用户的目录
func (c *Coordinator) Run(ctx context.Context, opts ImportOptions, emit func(ProgressEvent)) (*model.ImportResult, error) {
	log := c.logger.With(zap.String("filename", opts.Filename), zap.String("owner", opts.Owner))
	persist := c.repo != nil && opts.Owner != ""

	var logID int64
	if persist {
		id, err := c.repo.CreateImportLog(ctx, opts.Owner, opts.Filename, int64(len(opts.Data)))
		if err != nil {
			log.Warn("failed to create import log", zap.Error(err))
		}
		logID = id
	}

	res, err := c.process(ctx, opts.Data, emit)
	if err != nil {
		log.Warn("import failed", zap.Error(err))
		c.finishLog(ctx, logID, "failed", nil, err.Error())
		return nil, err
	}

	if persist {
		catalog, err := c.repo.SaveCatalog(ctx, opts.Owner, opts.CatalogName, res.Products)
		if err != nil {
			log.Error("failed to save catalog", zap.Error(err))
			c.finishLog(ctx, logID, "failed", res, err.Error())
			return nil, fmt.Errorf("save catalog: %w", err)
		}
		res.CatalogID = catalog.ID
		sendInfo(emit, fmt.Sprintf("目录已保存: %d 个商品", res.TotalProducts), map[string]interface{}{
			"catalog_id": catalog.ID,
		})
	}

	c.finishLog(ctx, logID, "completed", res, "")
	log.Info("import completed",
		zap.Int("total_products", res.TotalProducts),
		zap.Int("sheets", len(res.Sheets)),
		zap.Int("skipped_sheets", res.SkippedSheets()),
	)
	return res, nil
}

// Import 异步执行导入，返回进度通道（最后一个事件为 done 或 error）
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)

		emit := func(evt ProgressEvent) {
			c.sendProgress(progressChan, evt)
		}

		emit(newEvent(EventStart, "开始导入表格文件", map[string]string{
			"filename": opts.Filename,
		}))

		res, err := c.Run(ctx, opts, emit)
		if err != nil {
			c.sendFinal(ctx, progressChan, newEvent(EventError, fmt.Sprintf("导入失败: %v", err), nil))
			return
		}
		c.sendFinal(ctx, progressChan, newEvent(EventDone, "导入完成", res))
	}()

	return progressChan
}

// process 读取工作簿 -> 并发解析各表 -> 单线程汇总编号
func (c *Coordinator) process(ctx context.Context, data []byte, emit func(ProgressEvent)) (*model.ImportResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	wb, err := parser.ReadWorkbook(data)
	if err != nil {
		return nil, err
	}

	sendInfo(emit, fmt.Sprintf("发现 %d 个工作表", len(wb.Sheets)), map[string]interface{}{
		"total_sheets": len(wb.Sheets),
		"format":       wb.Format,
	})

	results := make([]sheetResult, len(wb.Sheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sheet := range wb.Sheets {
		i, sheet := i, sheet
		if emit != nil {
			emit(newEvent(EventSheetStart, fmt.Sprintf("解析工作表 %s", sheet.Name), map[string]interface{}{
				"sheet": sheet.Name,
				"index": i,
			}))
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = sheetResult{outcome: parser.ParseSheet(sheet), duration: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("import interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import interrupted: %w", err)
	}

	res := aggregate(results, c.seed)
	for _, sheet := range res.Sheets {
		c.reportSheet(sheet, emit)
	}
	return res, nil
}

// reportSheet 记录单表结果
func (c *Coordinator) reportSheet(sheet model.SheetReport, emit func(ProgressEvent)) {
	fields := []zap.Field{
		zap.String("sheet", sheet.SheetName),
		zap.Int("header_row", sheet.HeaderRow),
		zap.Any("columns", sheet.Columns),
		zap.Int("imported_rows", sheet.ImportedRows),
		zap.Int("skipped_rows", sheet.SkippedRows),
	}

	if sheet.Status == model.SheetSkipped {
		c.logger.Info("sheet skipped", append(fields, zap.String("reason", sheet.Reason))...)
		if emit != nil {
			emit(newEvent(EventWarning, fmt.Sprintf("跳过工作表 %s: %s", sheet.SheetName, sheet.Reason), sheet))
		}
		return
	}

	c.logger.Debug("sheet imported", fields...)
	if emit != nil {
		emit(newEvent(EventSheetDone, fmt.Sprintf("工作表 %s: %d 个商品", sheet.SheetName, sheet.ImportedRows), sheet))
	}
}

func (c *Coordinator) finishLog(ctx context.Context, id int64, status string, res *model.ImportResult, message string) {
	if c.repo == nil || id == 0 {
		return
	}
	// 请求已取消时仍然写入日志
	ctx = context.WithoutCancel(ctx)

	var totalSheets, skippedSheets, totalProducts int
	if res != nil {
		totalSheets = len(res.Sheets)
		skippedSheets = res.SkippedSheets()
		totalProducts = res.TotalProducts
		if err := c.repo.SaveSheetReports(ctx, id, res.Sheets); err != nil {
			c.logger.Warn("failed to save sheet reports", zap.Int64("import_log_id", id), zap.Error(err))
		}
	}
	if err := c.repo.FinishImportLog(ctx, id, status, totalSheets, skippedSheets, totalProducts, message); err != nil {
		c.logger.Warn("failed to finish import log", zap.Int64("import_log_id", id), zap.Error(err))
	}
}

// sendProgress 发送中间进度事件，通道已满时丢弃
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

// sendFinal 终止事件必须送达，除非调用方已放弃
func (c *Coordinator) sendFinal(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
