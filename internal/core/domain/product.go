package domain

import "time"

// Product mirrors the persisted representation in the products table.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSort orders catalog listings.
type ProductSort string

const (
	ProductSortNewest ProductSort = "newest"
	ProductSortOldest ProductSort = "oldest"
)
