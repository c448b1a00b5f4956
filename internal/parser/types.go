package parser

import "errors"

// ErrUnreadableWorkbook 文件无法按任何受支持的表格格式解码（整次导入失败）
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// RawGrid 单个工作表的原始单元格（空字符串表示空单元格）
type RawGrid [][]string

// Sheet 工作表
type Sheet struct {
	Name string
	Rows RawGrid
}

// Workbook 按原始顺序排列的工作表集合
type Workbook struct {
	Format string // xlsx / xls
	Sheets []Sheet
}

// SheetNames 工作表名称（保持工作簿顺序）
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Field 商品语义字段
type Field string

const (
	FieldDescription  Field = "description"
	FieldBarcode      Field = "barcode"
	FieldUnitsPerCase Field = "unitsPerCase"
	FieldUnitCost     Field = "unitCost"
	FieldCaseCost     Field = "caseCost"
	FieldRetailPrice  Field = "retailPrice"
	FieldUnitProfit   Field = "unitProfit"
	FieldMargin       Field = "margin"
)

// ColumnMap 语义字段 -> 列索引（从 0 开始），未识别的字段不出现
type ColumnMap map[Field]int

// Index 返回字段所在列
func (m ColumnMap) Index(f Field) (int, bool) {
	idx, ok := m[f]
	return idx, ok
}

// Cell 取出该字段在数据行中的值（已去除首尾空白）；列未识别或行长度不足时返回空字符串
func (m ColumnMap) Cell(row []string, f Field) string {
	idx, ok := m[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return trimCell(row[idx])
}

// Labels 用于报告与日志的可序列化形式
func (m ColumnMap) Labels() map[string]int {
	out := make(map[string]int, len(m))
	for f, idx := range m {
		out[string(f)] = idx
	}
	return out
}
