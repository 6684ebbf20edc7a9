package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

var productColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"stock",
	"created_at",
	"updated_at",
}

// ProductRepository implements port.ProductRepository using PostgreSQL.
type ProductRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProductRepository wires a PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Insert("shop.products").
		Columns(productColumns...).
		Values(
			product.ID,
			product.Name,
			product.Description,
			product.Price,
			product.Stock,
			product.CreatedAt,
			product.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	stmt, args, err := r.builder.
		Select(productColumns...).
		From("shop.products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &product, nil
}

// List returns all products ordered by creation time.
func (r *ProductRepository) List(ctx context.Context, sort domain.ProductSort) ([]domain.Product, error) {
	order := "created_at DESC"
	if sort == domain.ProductSortOldest {
		order = "created_at ASC"
	}

	stmt, args, err := r.builder.
		Select(productColumns...).
		From("shop.products").
		OrderBy(order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// Update modifies an existing product's fields.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Update("shop.products").
		Set("name", product.Name).
		Set("description", product.Description).
		Set("price", product.Price).
		Set("stock", product.Stock).
		Set("updated_at", product.UpdatedAt).
		Where(squirrel.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a product row.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("shop.products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete product sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)
