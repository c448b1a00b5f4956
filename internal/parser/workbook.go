package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

// OLE2 复合文档头（旧版 .xls）
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ReadWorkbook 将上传的二进制解码为工作表网格
// 依次尝试 OOXML（xlsx/xlsm）与旧版 BIFF（xls），都失败时返回 ErrUnreadableWorkbook
func ReadWorkbook(data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnreadableWorkbook)
	}

	wb, err := readOOXML(data)
	if err == nil {
		return wb, nil
	}

	if bytes.HasPrefix(data, oleSignature) {
		legacy, legacyErr := readLegacyXLS(data)
		if legacyErr == nil {
			return legacy, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, legacyErr)
	}

	return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
}

// readOOXML 使用 excelize 读取，取原始单元格值（避免百分比/货币格式干扰数值解析）
func readOOXML(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{Format: FormatXLSX}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// readLegacyXLS 读取旧版 .xls
func readLegacyXLS(data []byte) (wb *Workbook, err error) {
	// 损坏的 BIFF 流可能让解码器 panic
	defer func() {
		if r := recover(); r != nil {
			wb = nil
			err = fmt.Errorf("decode xls: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("decode xls: no workbook stream")
	}

	wb = &Workbook{Format: FormatXLS}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}

		grid := make(RawGrid, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			// 保留空行，保证行号与表格一致
			grid = append(grid, legacyRowCells(sheet, r))
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.Name, Rows: grid})
	}
	return wb, nil
}

// legacyColumnLimit BIFF8 每行最多 256 列
const legacyColumnLimit = 256

// legacyRowCells 读取一行；不存在的行返回 nil
func legacyRowCells(sheet *xls.WorkSheet, r int) (cells []string) {
	// 工作表中没有记录的行，WorkSheet.Row 会对 nil 解引用
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(r)
	if row == nil {
		return nil
	}

	// 没有 ROW 记录的行列范围为 0，只能逐列探测
	last := row.LastCol()
	if last <= 0 {
		last = legacyColumnLimit
	}

	cells = make([]string, last)
	for c := row.FirstCol(); c < last; c++ {
		cells[c] = row.Col(c)
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
