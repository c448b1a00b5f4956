package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"visitas-store/internal/model"
)

// productRow 商品行（附带所属目录与导入顺序）
type productRow struct {
	CatalogID string `db:"catalog_id"`
	Position  int    `db:"position"`
	model.Product
}

const productColumns = `number, name, description, barcode, category, units_per_case,
	unit_cost, case_cost, retail_price, unit_profit, margin, file_name`

// SaveCatalog 保存 owner 的目录；旧目录连同商品一起被替换
func (s *Store) SaveCatalog(ctx context.Context, owner, name string, products []model.Product) (*model.Catalog, error) {
	catalog := &model.Catalog{
		ID:            uuid.NewString(),
		Owner:         owner,
		Name:          name,
		TotalProducts: len(products),
		Categories:    model.Categories(products),
		Products:      products,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM products WHERE catalog_id IN (SELECT id FROM catalogs WHERE owner = ?)
	`, owner); err != nil {
		return nil, fmt.Errorf("failed to clear products: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalogs WHERE owner = ?`, owner); err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO catalogs (id, owner, name, total_products, created_at)
		VALUES (:id, :owner, :name, :total_products, :created_at)
	`, catalog); err != nil {
		return nil, fmt.Errorf("failed to insert catalog: %w", err)
	}

	if len(products) > 0 {
		stmt, err := tx.PrepareNamedContext(ctx, `
			INSERT INTO products (catalog_id, position, `+productColumns+`)
			VALUES (:catalog_id, :position, :number, :name, :description, :barcode, :category, :units_per_case,
				:unit_cost, :case_cost, :retail_price, :unit_profit, :margin, :file_name)
		`)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, p := range products {
			if _, err := stmt.ExecContext(ctx, productRow{CatalogID: catalog.ID, Position: i, Product: p}); err != nil {
				return nil, fmt.Errorf("failed to insert product %s: %w", p.Number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return catalog, nil
}

// GetCatalog 获取 owner 的目录（含商品，按导入顺序）
func (s *Store) GetCatalog(ctx context.Context, owner string) (*model.Catalog, error) {
	var catalog model.Catalog
	err := s.db.GetContext(ctx, &catalog, `
		SELECT id, owner, name, total_products, created_at FROM catalogs WHERE owner = ?
	`, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	products := []model.Product{}
	if err := s.db.SelectContext(ctx, &products, `
		SELECT `+productColumns+` FROM products WHERE catalog_id = ? ORDER BY position
	`, catalog.ID); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	catalog.Products = products
	catalog.Categories = model.Categories(products)
	return &catalog, nil
}

// ListCategories owner 目录中的分类，按首次出现顺序
func (s *Store) ListCategories(ctx context.Context, owner string) ([]string, error) {
	if err := s.requireCatalog(ctx, owner); err != nil {
		return nil, err
	}

	categories := []string{}
	if err := s.db.SelectContext(ctx, &categories, `
		SELECT p.category FROM products p
		JOIN catalogs c ON c.id = p.catalog_id
		WHERE c.owner = ?
		GROUP BY p.category
		ORDER BY MIN(p.position)
	`, owner); err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return categories, nil
}

// requireCatalog owner 没有目录时返回 ErrNotFound
func (s *Store) requireCatalog(ctx context.Context, owner string) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM catalogs WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to query catalog: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
