// Package photo 将用户登记的照片关联到导入的商品上
package photo

import (
	"strings"

	"visitas-store/internal/model"
)

// fuzzyNameLength 模糊匹配时使用的商品名前缀长度
const fuzzyNameLength = 20

// Index 某个 owner 的照片索引
type Index struct {
	byNumber  map[string]model.Photo
	byBarcode map[string]model.Photo
	named     []model.Photo
	size      int
}

// NewIndex 按编号与条码建立索引；同一个键以先登记的照片为准
func NewIndex(photos []model.Photo) *Index {
	idx := &Index{
		byNumber:  make(map[string]model.Photo, len(photos)),
		byBarcode: make(map[string]model.Photo, len(photos)),
	}
	for _, p := range photos {
		if p.PhotoURL == "" {
			continue
		}
		idx.size++
		if p.ProductNumber != "" {
			if _, ok := idx.byNumber[p.ProductNumber]; !ok {
				idx.byNumber[p.ProductNumber] = p
			}
		}
		if p.Barcode != "" {
			if _, ok := idx.byBarcode[p.Barcode]; !ok {
				idx.byBarcode[p.Barcode] = p
			}
		}
		if strings.TrimSpace(p.ProductName) != "" {
			idx.named = append(idx.named, p)
		}
	}
	return idx
}

// Len 带有 URL 的照片数量
func (idx *Index) Len() int {
	return idx.size
}

// Match 依次按编号、条码、名称前缀查找照片
func (idx *Index) Match(product model.Product) (model.Photo, bool) {
	if product.Number != "" {
		if p, ok := idx.byNumber[product.Number]; ok {
			return p, true
		}
	}
	if product.Barcode != "" {
		if p, ok := idx.byBarcode[product.Barcode]; ok {
			return p, true
		}
	}

	prefix := namePrefix(product.Name)
	if prefix == "" {
		return model.Photo{}, false
	}
	for _, p := range idx.named {
		if strings.Contains(strings.ToLower(p.ProductName), prefix) {
			return p, true
		}
	}
	return model.Photo{}, false
}

// Enrich 返回补充了 PhotoURL 的商品副本，其余字段保持不变
func Enrich(products []model.Product, photos []model.Photo) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	if len(photos) == 0 {
		return out
	}

	idx := NewIndex(photos)
	for i := range out {
		if p, ok := idx.Match(out[i]); ok {
			out[i].PhotoURL = p.PhotoURL
		}
	}
	return out
}

// namePrefix 小写后的前 20 个字符（按 rune 计）
func namePrefix(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	runes := []rune(name)
	if len(runes) > fuzzyNameLength {
		runes = runes[:fuzzyNameLength]
	}
	return string(runes)
}
