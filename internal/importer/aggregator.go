package importer

import (
	"time"

	"visitas-store/internal/model"
	"visitas-store/internal/parser"
)

// sheetResult 单表解析结果与耗时
type sheetResult struct {
	outcome  parser.SheetOutcome
	duration time.Duration
}

// aggregate 按工作表顺序合并草稿、分配编号、收集分类
func aggregate(results []sheetResult, seed int) *model.ImportResult {
	res := &model.ImportResult{
		Products:   []model.Product{},
		Categories: []string{},
		Sheets:     make([]model.SheetReport, 0, len(results)),
	}

	numbering := NewNumbering(seed)
	for _, r := range results {
		for _, draft := range r.outcome.Records {
			var p model.Product
			p, numbering = numbering.Assign(draft)
			res.Products = append(res.Products, p)
		}
		res.Sheets = append(res.Sheets, sheetReport(r))
	}

	res.TotalProducts = len(res.Products)
	res.Categories = model.Categories(res.Products)
	return res
}

func sheetReport(r sheetResult) model.SheetReport {
	o := r.outcome
	report := model.SheetReport{
		SheetName:    o.SheetName,
		HeaderRow:    o.HeaderRow,
		ImportedRows: o.Stats.ImportedRows,
		SkippedRows:  o.Stats.SkippedRows,
		Duration:     r.duration,
	}

	switch {
	case !o.Found():
		report.Status = model.SheetSkipped
		report.Reason = "header not found"
	case o.Stats.ImportedRows == 0:
		report.Status = model.SheetSkipped
		report.Columns = o.Columns.Labels()
		report.Reason = "no rows with description"
	default:
		report.Status = model.SheetImported
		report.Columns = o.Columns.Labels()
	}
	return report
}
