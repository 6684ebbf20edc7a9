package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

func newMockedProductRepository(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &ProductRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestProductRepository_Create(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	now := time.Now().UTC()
	product := domain.Product{
		ID:          "product-1",
		Name:        "Kopi Gayo 250g",
		Description: "Single origin arabica",
		Price:       85000,
		Stock:       12,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO shop\.products`).
		WithArgs(
			product.ID,
			product.Name,
			product.Description,
			product.Price,
			product.Stock,
			product.CreatedAt,
			product.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProductRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	mock.ExpectQuery(`SELECT .*FROM shop\.products`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(productColumns))

	if _, err := repo.GetByID(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows(productColumns).
		AddRow("product-2", "Kopi Gayo 500g", "Bigger bag", int64(160000), 5, now, now).
		AddRow("product-1", "Kopi Gayo 250g", "Single origin arabica", int64(85000), 12, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .*FROM shop\.products ORDER BY created_at DESC`).
		WillReturnRows(rows)

	products, err := repo.List(context.Background(), domain.ProductSortNewest)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(products) != 2 || products[0].ID != "product-2" {
		t.Fatalf("unexpected list result: %+v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProductRepository_ListOldestFirstUsesAscendingOrder(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	mock.ExpectQuery(`SELECT .*FROM shop\.products ORDER BY created_at ASC`).
		WillReturnRows(pgxmock.NewRows(productColumns))

	if _, err := repo.List(context.Background(), domain.ProductSortOldest); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProductRepository_UpdateUnknownID(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	now := time.Now().UTC()
	product := domain.Product{ID: "ghost", Name: "Kopi", Description: "x", Price: 1, Stock: 1, UpdatedAt: now}

	mock.ExpectExec(`UPDATE shop\.products`).
		WithArgs(product.Name, product.Description, product.Price, product.Stock, product.UpdatedAt, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Update(context.Background(), product); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo, mock := newMockedProductRepository(t)

	mock.ExpectExec(`DELETE FROM shop\.products`).
		WithArgs("product-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "product-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	mock.ExpectExec(`DELETE FROM shop\.products`).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
