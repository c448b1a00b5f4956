package parser

import (
	"github.com/shopspring/decimal"

	"visitas-store/internal/model"
)

// SheetStats 单表行统计
type SheetStats struct {
	ImportedRows int
	SkippedRows  int
}

// BuildRecords 将表头以下的数据行转换为商品草稿
// 草稿不带编号：编号与 FileName 在汇总阶段按工作表顺序统一分配
// 描述为空的行直接跳过；数值字段解析失败时降级为默认值，不拒绝整行
func BuildRecords(sheetName string, rows RawGrid, cols ColumnMap) ([]model.Product, SheetStats) {
	var (
		records []model.Product
		stats   SheetStats
	)

	for _, row := range rows {
		record, ok := buildRecord(sheetName, row, cols)
		if !ok {
			stats.SkippedRows++
			continue
		}
		records = append(records, record)
		stats.ImportedRows++
	}

	return records, stats
}

// buildRecord 解析单行
func buildRecord(sheetName string, row []string, cols ColumnMap) (model.Product, bool) {
	if len(row) == 0 {
		return model.Product{}, false
	}

	description := cols.Cell(row, FieldDescription)
	if description == "" {
		return model.Product{}, false
	}

	unitCost := ParseAmount(cols.Cell(row, FieldUnitCost)).Or(decimal.Zero)
	retailPrice := ParseAmount(cols.Cell(row, FieldRetailPrice)).Or(decimal.Zero)
	unitsPerCase := ParseUnits(cols.Cell(row, FieldUnitsPerCase)).Or(1)

	// 箱价：显式列优先，否则 单价 × 每箱数量
	caseCost := unitCost.Mul(decimal.NewFromInt(int64(unitsPerCase)))
	if raw := cols.Cell(row, FieldCaseCost); raw != "" {
		caseCost = ParseAmount(raw).Or(decimal.Zero)
	}

	// 单位利润：显式列优先，否则 售价 - 单价
	unitProfit := retailPrice.Sub(unitCost)
	if raw := cols.Cell(row, FieldUnitProfit); raw != "" {
		unitProfit = ParseAmount(raw).Or(decimal.Zero)
	}

	var margin int
	if raw := cols.Cell(row, FieldMargin); raw != "" {
		margin = ParseMargin(raw).Or(0)
	} else {
		margin = DeriveMargin(unitProfit, unitCost)
	}

	return model.Product{
		Name:         description,
		Description:  description,
		Barcode:      cols.Cell(row, FieldBarcode),
		Category:     sheetName,
		UnitsPerCase: unitsPerCase,
		UnitCost:     model.NewMoney(unitCost),
		CaseCost:     model.NewMoney(caseCost),
		RetailPrice:  model.NewMoney(retailPrice),
		UnitProfit:   model.NewMoney(unitProfit),
		Margin:       margin,
	}, true
}

// SheetOutcome 单个工作表的完整处理结果
type SheetOutcome struct {
	SheetName string
	HeaderRow int
	Columns   ColumnMap
	Records   []model.Product
	Stats     SheetStats
}

// Found 是否找到表头
func (o SheetOutcome) Found() bool {
	return o.HeaderRow != HeaderNotFound
}

// ParseSheet 定位表头 -> 分类列 -> 构建记录
func ParseSheet(sheet Sheet) SheetOutcome {
	out := SheetOutcome{SheetName: sheet.Name, HeaderRow: LocateHeader(sheet.Rows)}
	if !out.Found() {
		return out
	}

	out.Columns = ClassifyColumns(sheet.Rows[out.HeaderRow])
	out.Records, out.Stats = BuildRecords(sheet.Name, sheet.Rows[out.HeaderRow+1:], out.Columns)
	return out
}
