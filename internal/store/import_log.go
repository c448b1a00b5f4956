package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visitas-store/internal/model"
)

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, owner, filename string, fileSize int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (owner, filename, file_size, status)
		VALUES (?, ?, ?, 'processing')
	`, owner, filename, fileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(ctx context.Context, id int64, status string, totalSheets, skippedSheets, totalProducts int, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			status = ?,
			total_sheets = ?,
			skipped_sheets = ?,
			total_products = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, totalSheets, skippedSheets, totalProducts, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImport owner 最近一次导入；owner 为空时取全局最近一次
func (s *Store) LastImport(ctx context.Context, owner string) (*model.ImportLog, error) {
	query := `SELECT * FROM import_logs WHERE owner = ? ORDER BY id DESC LIMIT 1`
	args := []interface{}{owner}
	if owner == "" {
		query = `SELECT * FROM import_logs ORDER BY id DESC LIMIT 1`
		args = nil
	}

	var log model.ImportLog
	if err := s.db.GetContext(ctx, &log, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query import log: %w", err)
	}
	return &log, nil
}
