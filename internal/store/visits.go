package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"visitas-store/internal/model"
)

// VisitFilter 拜访记录查询条件
type VisitFilter struct {
	Owner string    // 为空时只返回未关联用户的记录
	Store string    // 门店名精确匹配，为空不过滤
	Since time.Time // 零值不过滤
}

// CreateVisit 登记一次门店拜访
func (s *Store) CreateVisit(ctx context.Context, visit model.Visit) (*model.Visit, error) {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	visit.CreatedAt = visit.CreatedAt.UTC().Truncate(time.Second)

	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO visits (id, owner, store_name, address, contact, comments, photo_path, created_at)
		VALUES (:id, :owner, :store_name, :address, :contact, :comments, :photo_path, :created_at)
	`, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}
	return &visit, nil
}

// ListVisits 按时间倒序列出拜访记录
func (s *Store) ListVisits(ctx context.Context, filter VisitFilter) ([]model.Visit, error) {
	where := []string{"owner = ?"}
	args := []interface{}{filter.Owner}
	if filter.Store != "" {
		where = append(where, "store_name = ?")
		args = append(args, filter.Store)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC().Truncate(time.Second))
	}

	visits := []model.Visit{}
	if err := s.db.SelectContext(ctx, &visits, `
		SELECT id, owner, store_name, address, contact, comments, photo_path, created_at
		FROM visits WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_at DESC, rowid DESC
	`, args...); err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	return visits, nil
}

// CountVisits owner 的拜访次数
func (s *Store) CountVisits(ctx context.Context, owner string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM visits WHERE owner = ?`, owner); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return n, nil
}
