package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

// ErrProductNotFound indicates the product id does not resolve to a record.
var ErrProductNotFound = errors.New("product not found")

// ProductInput carries the caller-supplied product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int
}

// ProductService manages the catalog.
type ProductService struct {
	products port.ProductRepository
	now      func() time.Time
}

// NewProductService constructs a ProductService instance.
func NewProductService(products port.ProductRepository) *ProductService {
	return &ProductService{
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *ProductService) WithClock(clock func() time.Time) *ProductService {
	if clock != nil {
		s.now = clock
	}
	return s
}

func validateProductInput(input ProductInput) []string {
	var violations []string

	name := strings.TrimSpace(input.Name)
	if length := len([]rune(name)); length < 3 || length > 100 {
		violations = append(violations, "name must be between 3 and 100 characters")
	}

	description := strings.TrimSpace(input.Description)
	if length := len([]rune(description)); length < 3 || length > 500 {
		violations = append(violations, "description must be between 3 and 500 characters")
	}

	if input.Price < 0 {
		violations = append(violations, "price must not be negative")
	}
	if input.Stock < 0 {
		violations = append(violations, "stock must not be negative")
	}

	return violations
}

func parseProductID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", NewValidationError("product id is invalid")
	}
	return parsed.String(), nil
}

// Add validates and persists a new product.
func (s *ProductService) Add(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if violations := validateProductInput(input); len(violations) > 0 {
		return nil, NewValidationError(violations...)
	}

	now := s.now()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return &product, nil
}

// Edit validates and applies changes to an existing product.
func (s *ProductService) Edit(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	if violations := validateProductInput(input); len(violations) > 0 {
		return nil, NewValidationError(violations...)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Stock = input.Stock
	product.UpdatedAt = s.now()

	if err := s.products.Update(ctx, *product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// Get retrieves a single product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	return product, nil
}

// List returns the catalog ordered by creation time, newest first by default.
func (s *ProductService) List(ctx context.Context, sort string) ([]domain.Product, error) {
	order := domain.ProductSortNewest
	if strings.EqualFold(strings.TrimSpace(sort), string(domain.ProductSortOldest)) {
		order = domain.ProductSortOldest
	}

	products, err := s.products.List(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// Delete removes a product and returns its last persisted state.
func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}

	return product, nil
}
