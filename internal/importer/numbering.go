package importer

import (
	"fmt"

	"visitas-store/internal/model"
	"visitas-store/internal/parser"
)

// NumberSeed 第一条商品的编号（"003"）
const NumberSeed = 3

// Numbering 编号累加器，按工作表顺序在汇总阶段单线程推进
type Numbering struct {
	next int
}

// NewNumbering 从 seed 开始编号
func NewNumbering(seed int) Numbering {
	return Numbering{next: seed}
}

// Next 下一个将被分配的编号
func (n Numbering) Next() int {
	return n.next
}

// Assign 为草稿分配编号与 FileName，返回推进后的累加器
func (n Numbering) Assign(p model.Product) (model.Product, Numbering) {
	p.Number = FormatNumber(n.next)
	p.FileName = parser.FileName(p.Number, p.Description)
	return p, Numbering{next: n.next + 1}
}

// FormatNumber 至少三位，左侧补零
func FormatNumber(n int) string {
	return fmt.Sprintf("%03d", n)
}
