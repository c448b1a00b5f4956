package parser

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	// 不间断空格在导出的表格里很常见
	cellSpaceReplacer = strings.NewReplacer("\u00a0", " ", "\u200b", "")
)

// trimCell 去除单元格首尾空白
func trimCell(s string) string {
	return strings.TrimSpace(cellSpaceReplacer.Replace(s))
}

// NormalizeHeader 表头规范化：去空白、转小写
func NormalizeHeader(s string) string {
	return strings.ToLower(trimCell(s))
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ContainsAll 检查字符串是否包含全部关键词
func ContainsAll(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// Slugify 小写，非 [a-z0-9] 折叠为单个下划线，去掉首尾下划线
func Slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

// FileName 商品展示键：{number}_{slug}.html（不对应真实文件）
func FileName(number, description string) string {
	return number + "_" + Slugify(description) + ".html"
}
