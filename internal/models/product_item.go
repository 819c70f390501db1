package models

import (
	"time"

	"github.com/google/uuid"
)

// Sort fields accepted by the product item listing.
const (
	SortByName       = "name"
	SortByStock      = "stock"
	SortByExpiryDate = "expiry_date"
)

// Sort directions accepted by the product item listing.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ProductItem is one physical inventory batch/lot. Product fields are
// denormalized onto the item so list views need no extra lookups.
type ProductItem struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProductID        uuid.UUID  `json:"product_id" db:"product_id"`
	Stock            int        `json:"stock" db:"stock"`
	ExpiryDate       time.Time  `json:"expiry_date" db:"expiry_date"`
	LastPurchaseDate *time.Time `json:"last_purchase_date" db:"last_purchase_date"`
	Active           bool       `json:"active" db:"active"`
	ProductName      string     `json:"product_name" db:"product_name"`
	Brand            *string    `json:"brand" db:"brand"`
	Category         *string    `json:"category" db:"category"`
	UnitPrice        float64    `json:"unit_price" db:"unit_price"`
	ImageURL         *string    `json:"image_url" db:"image_url"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ItemListFilter holds search, sort and pagination criteria for item queries
type ItemListFilter struct {
	Search    string `json:"search,omitempty"`     // Matches product name, brand or category
	SortBy    string `json:"sort_by,omitempty"`    // Sort field: name, stock, expiry_date
	SortOrder string `json:"sort_order,omitempty"` // Sort order: asc, desc
	Page      int    `json:"page,omitempty"`       // 1-based page number
	Limit     int    `json:"limit,omitempty"`      // Page size (default: 10)
}

// Pagination is the metadata returned alongside every paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata for a listing.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
