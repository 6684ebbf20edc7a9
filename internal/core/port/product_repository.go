package port

import (
	"context"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
)

// ProductRepository exposes persistence behavior for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, sort domain.ProductSort) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}
