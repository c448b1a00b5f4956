package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"visitas-store/internal/model"
)

// UpsertPhoto 登记照片引用；同一 owner 下相同匹配键的照片会被覆盖
func (s *Store) UpsertPhoto(ctx context.Context, photo model.Photo) (*model.Photo, error) {
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO product_photos (id, owner, product_number, barcode, product_name, photo_url, created_at)
		VALUES (:id, :owner, :product_number, :barcode, :product_name, :photo_url, :created_at)
		ON CONFLICT(owner, product_number, barcode, product_name)
		DO UPDATE SET photo_url = excluded.photo_url
	`, photo); err != nil {
		return nil, fmt.Errorf("failed to upsert photo: %w", err)
	}

	var saved model.Photo
	if err := s.db.GetContext(ctx, &saved, `
		SELECT id, owner, product_number, barcode, product_name, photo_url, created_at
		FROM product_photos
		WHERE owner = ? AND product_number = ? AND barcode = ? AND product_name = ?
	`, photo.Owner, photo.ProductNumber, photo.Barcode, photo.ProductName); err != nil {
		return nil, fmt.Errorf("failed to reload photo: %w", err)
	}
	return &saved, nil
}

// ListPhotos owner 的全部照片，按登记顺序
func (s *Store) ListPhotos(ctx context.Context, owner string) ([]model.Photo, error) {
	photos := []model.Photo{}
	if err := s.db.SelectContext(ctx, &photos, `
		SELECT id, owner, product_number, barcode, product_name, photo_url, created_at
		FROM product_photos WHERE owner = ? ORDER BY created_at, rowid
	`, owner); err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	return photos, nil
}

// CountPhotos owner 的照片数量
func (s *Store) CountPhotos(ctx context.Context, owner string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM product_photos WHERE owner = ?`, owner); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

// DeletePhoto 删除照片引用
func (s *Store) DeletePhoto(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product_photos WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
