package store

import (
	"context"
	"fmt"
	"time"

	"visitas-store/internal/model"
)

// topProductsLimit 统计中列出的热门商品数量
const topProductsLimit = 10

// RecordView 记录一次目录浏览；owner 没有目录时返回 ErrNotFound
func (s *Store) RecordView(ctx context.Context, view model.CatalogView) (*model.CatalogView, error) {
	if err := s.requireCatalog(ctx, view.Owner); err != nil {
		return nil, err
	}
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}
	view.ViewedAt = view.ViewedAt.UTC().Truncate(time.Second)

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO catalog_views (owner, product_number, ip_address, user_agent, country, city, viewed_at)
		VALUES (:owner, :product_number, :ip_address, :user_agent, :country, :city, :viewed_at)
	`, view)
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	if view.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get view id: %w", err)
	}
	return &view, nil
}

// ViewStats owner 自 since 起的浏览统计
func (s *Store) ViewStats(ctx context.Context, owner string, since time.Time) (*model.ViewStats, error) {
	if err := s.requireCatalog(ctx, owner); err != nil {
		return nil, err
	}
	since = since.UTC().Truncate(time.Second)

	var totals struct {
		Total    int `db:"total"`
		Catalog  int `db:"catalog"`
		Product  int `db:"product"`
		Visitors int `db:"visitors"`
	}
	if err := s.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN product_number = '' THEN 1 ELSE 0 END), 0) AS catalog,
			COALESCE(SUM(CASE WHEN product_number <> '' THEN 1 ELSE 0 END), 0) AS product,
			COUNT(DISTINCT NULLIF(ip_address, '')) AS visitors
		FROM catalog_views
		WHERE owner = ? AND viewed_at >= ?
	`, owner, since); err != nil {
		return nil, fmt.Errorf("failed to query view totals: %w", err)
	}

	top := []model.ProductViews{}
	if err := s.db.SelectContext(ctx, &top, `
		SELECT v.product_number, COALESCE(p.name, '') AS product_name, COUNT(*) AS views
		FROM catalog_views v
		LEFT JOIN (
			SELECT p.number, p.name FROM products p
			JOIN catalogs c ON c.id = p.catalog_id
			WHERE c.owner = ?
		) p ON p.number = v.product_number
		WHERE v.owner = ? AND v.viewed_at >= ? AND v.product_number <> ''
		GROUP BY v.product_number
		ORDER BY views DESC, v.product_number
		LIMIT ?
	`, owner, owner, since, topProductsLimit); err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}

	byDay := []model.DailyViews{}
	if err := s.db.SelectContext(ctx, &byDay, `
		SELECT substr(viewed_at, 1, 10) AS day, COUNT(*) AS views
		FROM catalog_views
		WHERE owner = ? AND viewed_at >= ?
		GROUP BY day
		ORDER BY day
	`, owner, since); err != nil {
		return nil, fmt.Errorf("failed to query daily views: %w", err)
	}

	return &model.ViewStats{
		Owner:          owner,
		Since:          since,
		TotalViews:     totals.Total,
		CatalogViews:   totals.Catalog,
		ProductViews:   totals.Product,
		UniqueVisitors: totals.Visitors,
		TopProducts:    top,
		ByDay:          byDay,
	}, nil
}
