package parser

// HeaderScanRows 表头最多在前 10 行内查找
const HeaderScanRows = 10

// HeaderNotFound 未找到表头
const HeaderNotFound = -1

// headerKeywords 任一单元格（小写后）包含其中之一即视为表头行
var headerKeywords = []string{"description", "item", "produto", "units", "unités"}

// LocateHeader 返回表头所在行号；未找到时返回 HeaderNotFound，该工作表不产生记录
func LocateHeader(grid RawGrid) int {
	limit := HeaderScanRows
	if len(grid) < limit {
		limit = len(grid)
	}

	for i := 0; i < limit; i++ {
		for _, cell := range grid[i] {
			text := NormalizeHeader(cell)
			if text == "" {
				continue
			}
			if ContainsAny(text, headerKeywords...) {
				return i
			}
		}
	}
	return HeaderNotFound
}
