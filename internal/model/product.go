package model

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Money 金额（内部保留到分，序列化时固定两位小数）
type Money struct {
	decimal.Decimal
}

// NewMoney 创建金额，四舍五入到两位小数
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MoneyFromString 解析固定格式金额（如 "18.00"），用于测试与存储回读
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

// String 固定两位小数
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON 输出 "18.00" 形式
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// UnmarshalJSON 同时接受带引号与不带引号的数字
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 写库时以固定两位小数文本存储
func (m Money) Value() (driver.Value, error) {
	return m.StringFixed(2), nil
}

// Scan 读库
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Product 商品记录（由表格导入生成，创建后不再修改派生字段）
type Product struct {
	Number       string `json:"number" db:"number"` // 展示编号，三位补零
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	Barcode      string `json:"barcode" db:"barcode"`
	Category     string `json:"category" db:"category"` // 来源工作表名
	UnitsPerCase int    `json:"unitsPerCase" db:"units_per_case"`
	UnitCost     Money  `json:"unitCost" db:"unit_cost"`
	CaseCost     Money  `json:"caseCost" db:"case_cost"`
	RetailPrice  Money  `json:"retailPrice" db:"retail_price"`
	UnitProfit   Money  `json:"unitProfit" db:"unit_profit"`
	Margin       int    `json:"margin" db:"margin"` // 百分比整数，不截断
	FileName     string `json:"fileName" db:"file_name"`

	// 照片由照片匹配协作方补充，不参与导入
	PhotoURL string `json:"photoUrl,omitempty" db:"-"`
}

// Categories 去重后的分类（保持首次出现顺序）
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, 8)
	out := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FilterByCategory 按分类筛选；category 为空时返回全部
func FilterByCategory(products []Product, category string) []Product {
	if category == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
