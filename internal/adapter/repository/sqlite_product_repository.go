package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
)

type sqliteProductRepository struct {
	db *sql.DB
}

func NewSQLiteProductRepository(db *sql.DB) repository.ProductRepository {
	return &sqliteProductRepository{db: db}
}

const productColumns = `id, name, category, price, description, thumbnail, images, seller_id, seller_name, seller_avatar, created_at`

func (r *sqliteProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	images, err := json.Marshal(product.Images)
	if err != nil {
		return errors.Internal("Failed to encode product images", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Category, product.Price, product.Description,
		product.Thumbnail, string(images), product.Seller.ID, product.Seller.Name,
		product.Seller.Avatar, product.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	return nil
}

func (r *sqliteProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Product", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get product", err)
	}
	return product, nil
}

func (r *sqliteProductRepository) ListLatest(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Internal("Failed to list products", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate products", err)
	}
	return products, nil
}

func (r *sqliteProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}
	if affected == 0 {
		return errors.NotFound("Product", nil)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		product   entity.Product
		images    string
		createdAt int64
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.Category, &product.Price, &product.Description,
		&product.Thumbnail, &images, &product.Seller.ID, &product.Seller.Name,
		&product.Seller.Avatar, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &product.Images); err != nil {
		return nil, err
	}
	product.CreatedAt = time.UnixMilli(createdAt)
	return &product, nil
}
