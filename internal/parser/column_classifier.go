package parser

// ColumnRule 表头分类规则：命中即占用该列，按顺序求值
type ColumnRule struct {
	Field Field
	Name  string
	Match func(header string) bool
	// Fallback 兜底规则：只有在整行表头都没有命中同字段的正式规则时才生效
	Fallback bool
}

// excludesForecast 排除销量/预测类列（"Units - Sales"、"Forecast Sales" 等）
func excludesForecast(h string) bool {
	return !ContainsAny(h, "sales", "forecast")
}

// columnRules 优先级从高到低
var columnRules = []ColumnRule{
	{
		Field: FieldDescription,
		Name:  "item+description | description | produto",
		Match: func(h string) bool {
			return ContainsAll(h, "item", "description") || h == "description" || ContainsAny(h, "produto")
		},
	},
	{
		Field: FieldBarcode,
		Name:  "barcode | upc | gtin",
		Match: func(h string) bool {
			return ContainsAny(h, "barcode", "upc", "gtin")
		},
	},
	{
		Field: FieldUnitsPerCase,
		Name:  "units | unités (not sales/forecast)",
		Match: func(h string) bool {
			return ContainsAny(h, "unités", "units") && excludesForecast(h)
		},
	},
	{
		Field: FieldUnitCost,
		Name:  "cost+unit (not case)",
		Match: func(h string) bool {
			return ContainsAll(h, "cost", "unit") && !ContainsAny(h, "case")
		},
	},
	{
		Field: FieldCaseCost,
		Name:  "cost+case",
		Match: func(h string) bool {
			return ContainsAll(h, "cost", "case")
		},
	},
	{
		Field: FieldRetailPrice,
		Name:  "average+retail | retail+price | market+retail",
		Match: func(h string) bool {
			return ContainsAll(h, "average", "retail") ||
				ContainsAll(h, "retail", "price") ||
				ContainsAll(h, "market", "retail")
		},
	},
	{
		Field:    FieldRetailPrice,
		Name:     "retail | price (exact, fallback)",
		Fallback: true,
		Match: func(h string) bool {
			return (h == "retail" || h == "price") && excludesForecast(h)
		},
	},
	{
		Field: FieldUnitProfit,
		Name:  "profit+unit",
		Match: func(h string) bool {
			return ContainsAll(h, "profit", "unit")
		},
	},
	{
		Field: FieldMargin,
		Name:  "margin | marge",
		Match: func(h string) bool {
			return ContainsAny(h, "margin", "marge")
		},
	},
}

// Rules 返回规则表副本（用于审计与测试）
func Rules() []ColumnRule {
	out := make([]ColumnRule, len(columnRules))
	copy(out, columnRules)
	return out
}

// ClassifyColumns 将表头映射为语义字段
// 每个单元格只归属第一条命中的规则；同一字段被多列命中时保留最先出现的列
func ClassifyColumns(header []string) ColumnMap {
	return classifyWith(columnRules, header)
}

func classifyWith(rules []ColumnRule, header []string) ColumnMap {
	cols := make(ColumnMap)
	fallbacks := make(map[Field]int)

	for idx, cell := range header {
		h := NormalizeHeader(cell)
		if h == "" {
			continue
		}

		for _, rule := range rules {
			if !rule.Match(h) {
				continue
			}
			if rule.Fallback {
				if _, taken := fallbacks[rule.Field]; !taken {
					fallbacks[rule.Field] = idx
				}
			} else if _, taken := cols[rule.Field]; !taken {
				cols[rule.Field] = idx
			}
			break
		}
	}

	for field, idx := range fallbacks {
		if _, taken := cols[field]; !taken {
			cols[field] = idx
		}
	}
	return cols
}
