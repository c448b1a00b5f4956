package model

import "time"

// SheetStatus 工作表处理状态
type SheetStatus string

const (
	SheetImported SheetStatus = "imported"
	SheetSkipped  SheetStatus = "skipped"
)

// SheetReport 单个工作表的处理结果（替代逐行调试输出）
type SheetReport struct {
	SheetName    string         `json:"sheetName"`
	Status       SheetStatus    `json:"status"`
	HeaderRow    int            `json:"headerRow"` // -1 表示未找到表头
	Columns      map[string]int `json:"columns,omitempty"`
	ImportedRows int            `json:"importedRows"`
	SkippedRows  int            `json:"skippedRows"`
	Reason       string         `json:"reason,omitempty"`
	Duration     time.Duration  `json:"duration"`
}

// ImportResult 导入结果
type ImportResult struct {
	Products      []Product     `json:"products"`
	TotalProducts int           `json:"totalProducts"`
	Categories    []string      `json:"categories"`
	Sheets        []SheetReport `json:"sheets,omitempty"`
	CatalogID     string        `json:"catalogId,omitempty"` // 指定 owner 时保存后的目录 ID
}

// SkippedSheets 未产出商品的工作表数量
func (r *ImportResult) SkippedSheets() int {
	n := 0
	for _, s := range r.Sheets {
		if s.Status == SheetSkipped {
			n++
		}
	}
	return n
}

// Empty 表格可读但没有可用商品（前端应展示为空状态，而不是错误）
func (r *ImportResult) Empty() bool {
	return r.TotalProducts == 0
}
