package exporter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"visitas-store/internal/model"
	"visitas-store/internal/photo"
)

const (
	coverSheet    = "Catalog"
	productsSheet = "Products"
)

// productHeaders 商品表列（顺序即输出顺序）
var productHeaders = []string{
	"Number", "Name", "Barcode", "Category", "Units per Case",
	"Unit Cost", "Case Cost", "Retail Price", "Unit Profit", "Margin (%)",
	"File Name", "Photo URL",
}

// Source 导出所需的数据来源
type Source interface {
	GetCatalog(ctx context.Context, owner string) (*model.Catalog, error)
	ListPhotos(ctx context.Context, owner string) ([]model.Photo, error)
}

// Exporter 商品目录导出器
//
// 只输出记录本身的字段，不重新计算任何派生值。
type Exporter struct {
	source Source
	now    func() time.Time
}

// NewExporter 创建导出器
func NewExporter(source Source) *Exporter {
	return &Exporter{
		source: source,
		now:    time.Now,
	}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Owner    string
	Category string // 为空时导出全部分类
	Progress func(ProgressEvent)
}

// Export 导出 Excel
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*excelize.File, error) {
	progress := newProgressReporter(opts.Progress)
	progress.report(0, "读取商品目录")
	catalog, err := e.source.GetCatalog(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("读取商品目录失败: %w", err)
	}

	progress.report(10, "匹配商品照片")
	photos, err := e.source.ListPhotos(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("读取商品照片失败: %w", err)
	}
	products := model.FilterByCategory(photo.Enrich(catalog.Products, photos), opts.Category)

	return e.render(ctx, catalog, products, opts.Category, progress)
}

// Render 将给定商品写入新的工作簿（封面 + 商品表）
func (e *Exporter) Render(ctx context.Context, catalog *model.Catalog, products []model.Product, opts ExportOptions) (*excelize.File, error) {
	return e.render(ctx, catalog, products, opts.Category, newProgressReporter(opts.Progress))
}

func (e *Exporter) render(ctx context.Context, catalog *model.Catalog, products []model.Product, category string, progress *progressReporter) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", coverSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(productsSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	progress.report(20, "写入封面")
	if err := e.writeCover(f, catalog, products, category); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeProducts(ctx, f, products, progress); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	progress.report(100, "导出完成")
	return f, nil
}

func (e *Exporter) writeCover(f *excelize.File, catalog *model.Catalog, products []model.Product, category string) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	name := strings.TrimSpace(catalog.Name)
	if name == "" {
		name = catalog.Owner
	}
	if category == "" {
		category = strings.Join(model.Categories(products), ", ")
	}

	rows := [][]interface{}{
		{"Product Catalog"},
		{},
		{"Catalog", name},
		{"Owner", catalog.Owner},
		{"Categories", category},
		{"Products", len(products)},
		{"Generated", e.now().Format("2006-01-02 15:04")},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(coverSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(coverSheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(coverSheet, "A3", "A7", labelStyle); err != nil {
		return err
	}
	return f.SetColWidth(coverSheet, "A", "B", 24)
}

func writeProducts(ctx context.Context, f *excelize.File, products []model.Product, progress *progressReporter) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return err
	}

	header := make([]interface{}, len(productHeaders))
	for i, h := range productHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(productHeaders))
	if err := f.SetCellStyle(productsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	total := len(products)
	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := []interface{}{
			p.Number, p.Name, p.Barcode, p.Category, p.UnitsPerCase,
			p.UnitCost.InexactFloat64(), p.CaseCost.InexactFloat64(),
			p.RetailPrice.InexactFloat64(), p.UnitProfit.InexactFloat64(),
			p.Margin, p.FileName, p.PhotoURL,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("写入商品 %s 失败: %w", p.Number, err)
		}

		progress.report(20+70*(i+1)/total, fmt.Sprintf("写入商品 %d/%d", i+1, total))
	}

	if total > 0 {
		if err := f.SetCellStyle(productsSheet, "F2", fmt.Sprintf("I%d", total+1), moneyStyle); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 10, "B": 36, "C": 18, "D": 18, "K": 36, "L": 40}
	for col, w := range widths {
		if err := f.SetColWidth(productsSheet, col, col, w); err != nil {
			return err
		}
	}
	return f.SetPanes(productsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
