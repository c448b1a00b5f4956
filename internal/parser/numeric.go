package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
	// 整数字段（每箱数量、毛利率）的取值上限，超出视为无法解析
	maxIntCell = decimal.NewFromInt(math.MaxInt32)

	// 与表格里常见的 "12 un" / "2.99 USD" 一样，只取开头的数字部分
	leadingNumber = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)
	// "1,50" 这类只有一个逗号且后接 1~2 位数字的写法按小数逗号处理
	decimalComma = regexp.MustCompile(`^[-+]?\d+,\d{1,2}$`)
	// "1.234,56" 欧式写法：点为千分位，最后的逗号为小数点
	europeanGrouping = regexp.MustCompile(`^[-+]?\d{1,3}(\.\d{3})+,\d{1,2}$`)

	numberNoise = strings.NewReplacer(
		"R$", "", "US$", "", "$", "", "€", "", "£", "",
		"％", "", "%", "",
		" ", "", "\u00a0", "",
	)
)

// Parsed 解析结果：OK 为 false 时由调用方显式套用默认值
type Parsed[T any] struct {
	Value T
	OK    bool
}

// Or 解析失败时返回默认值
func (p Parsed[T]) Or(def T) T {
	if !p.OK {
		return def
	}
	return p.Value
}

// ParseNumber 宽松解析单元格数值
func ParseNumber(raw string) Parsed[decimal.Decimal] {
	s := numberNoise.Replace(trimCell(raw))
	if s == "" {
		return Parsed[decimal.Decimal]{}
	}

	switch {
	case europeanGrouping.MatchString(s):
		s = strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case decimalComma.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "") // 千分位
	}

	if d, err := decimal.NewFromString(s); err == nil {
		return Parsed[decimal.Decimal]{Value: d, OK: true}
	}

	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return Parsed[decimal.Decimal]{}
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(prefix, "."))
	if err != nil {
		return Parsed[decimal.Decimal]{}
	}
	return Parsed[decimal.Decimal]{Value: d, OK: true}
}

// ParseAmount 金额（成本、售价、利润），无法解析时调用方默认 0
func ParseAmount(raw string) Parsed[decimal.Decimal] {
	return ParseNumber(raw)
}

// ParseUnits 每箱数量：取整数部分，非正数视为无法解析（默认 1）
func ParseUnits(raw string) Parsed[int] {
	n := ParseNumber(raw)
	if !n.OK {
		return Parsed[int]{}
	}
	units := n.Value.Truncate(0)
	if !units.IsPositive() || units.GreaterThan(maxIntCell) {
		return Parsed[int]{}
	}
	return Parsed[int]{Value: int(units.IntPart()), OK: true}
}

// ParseMargin 毛利率单元格：绝对值小于 1 视为小数（0.27 -> 27），否则视为已是百分比
func ParseMargin(raw string) Parsed[int] {
	n := ParseNumber(raw)
	if !n.OK {
		return Parsed[int]{}
	}
	v := n.Value
	if v.Abs().LessThan(decimal.NewFromInt(1)) {
		v = v.Mul(hundred)
	}
	return RoundHalfUp(v)
}

// DeriveMargin 未提供毛利率时按 利润/成本*100 计算；成本为 0 时为 0
func DeriveMargin(unitProfit, unitCost decimal.Decimal) int {
	if !unitCost.IsPositive() {
		return 0
	}
	return RoundHalfUp(unitProfit.Div(unitCost).Mul(hundred)).Or(0)
}

// RoundHalfUp 四舍五入到整数，.5 向正无穷方向进位；结果超出 int32 范围时 OK 为 false
func RoundHalfUp(d decimal.Decimal) Parsed[int] {
	r := d.Add(half).Floor()
	if r.Abs().GreaterThan(maxIntCell) {
		return Parsed[int]{}
	}
	return Parsed[int]{Value: int(r.IntPart()), OK: true}
}
