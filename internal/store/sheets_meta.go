package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"visitas-store/internal/model"
)

// sheetMetaRow sheets_meta 表的一行
type sheetMetaRow struct {
	ImportLogID  int64  `db:"import_log_id"`
	Position     int    `db:"position"`
	SheetName    string `db:"sheet_name"`
	Status       string `db:"status"`
	HeaderRow    int    `db:"header_row"`
	ColumnsJSON  string `db:"columns_json"`
	ImportedRows int    `db:"imported_rows"`
	SkippedRows  int    `db:"skipped_rows"`
	Reason       string `db:"reason"`
	DurationMS   int64  `db:"duration_ms"`
}

// SaveSheetReports 写入一次导入中各工作表的处理结果（用于追溯）
func (s *Store) SaveSheetReports(ctx context.Context, importLogID int64, reports []model.SheetReport) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheets_meta WHERE import_log_id = ?`, importLogID); err != nil {
		return fmt.Errorf("failed to clear sheets_meta: %w", err)
	}

	for i, r := range reports {
		row := sheetMetaRow{
			ImportLogID:  importLogID,
			Position:     i,
			SheetName:    r.SheetName,
			Status:       string(r.Status),
			HeaderRow:    r.HeaderRow,
			ColumnsJSON:  BuildColumnsJSON(r.Columns),
			ImportedRows: r.ImportedRows,
			SkippedRows:  r.SkippedRows,
			Reason:       r.Reason,
			DurationMS:   r.Duration.Milliseconds(),
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO sheets_meta (
				import_log_id, position, sheet_name, status, header_row,
				columns_json, imported_rows, skipped_rows, reason, duration_ms
			) VALUES (
				:import_log_id, :position, :sheet_name, :status, :header_row,
				:columns_json, :imported_rows, :skipped_rows, :reason, :duration_ms
			)
		`, row); err != nil {
			return fmt.Errorf("failed to insert sheets_meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSheetReports 读取某次导入的工作表结果，按工作簿顺序
func (s *Store) ListSheetReports(ctx context.Context, importLogID int64) ([]model.SheetReport, error) {
	var rows []sheetMetaRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT import_log_id, position, sheet_name, status, header_row,
			columns_json, imported_rows, skipped_rows, reason, duration_ms
		FROM sheets_meta WHERE import_log_id = ? ORDER BY position
	`, importLogID); err != nil {
		return nil, fmt.Errorf("failed to query sheets_meta: %w", err)
	}

	reports := make([]model.SheetReport, 0, len(rows))
	for _, row := range rows {
		var columns map[string]int
		if row.ColumnsJSON != "" {
			if err := json.Unmarshal([]byte(row.ColumnsJSON), &columns); err != nil {
				return nil, fmt.Errorf("failed to decode columns of sheet %s: %w", row.SheetName, err)
			}
		}
		reports = append(reports, model.SheetReport{
			SheetName:    row.SheetName,
			Status:       model.SheetStatus(row.Status),
			HeaderRow:    row.HeaderRow,
			Columns:      columns,
			ImportedRows: row.ImportedRows,
			SkippedRows:  row.SkippedRows,
			Reason:       row.Reason,
			Duration:     time.Duration(row.DurationMS) * time.Millisecond,
		})
	}
	return reports, nil
}

// BuildColumnsJSON 将列映射序列化为 JSON（未识别表头时为空）
func BuildColumnsJSON(columns map[string]int) string {
	if len(columns) == 0 {
		return ""
	}
	b, err := json.Marshal(columns)
	if err != nil {
		return ""
	}
	return string(b)
}
