package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pharmastock/internal/models"

	"github.com/google/uuid"
)

type ProductItemRepository interface {
	Create(ctx context.Context, item *models.ProductItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error)
	Update(ctx context.Context, item *models.ProductItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, int, error)
	RestockByProduct(ctx context.Context, productID uuid.UUID, quantity int) error
	ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProductItem, error)
}

type productItemRepo struct {
	db DB
}

func NewProductItemRepo(db DB) ProductItemRepository {
	return &productItemRepo{db: db}
}

const productItemColumns = `id, product_id, stock, expiry_date, last_purchase_date, active, product_name, brand, category, unit_price, image_url, created_at, updated_at`

func scanProductItem(row interface{ Scan(dest ...any) error }) (*models.ProductItem, error) {
	item := &models.ProductItem{}
	err := row.Scan(&item.ID, &item.ProductID, &item.Stock, &item.ExpiryDate, &item.LastPurchaseDate, &item.Active, &item.ProductName, &item.Brand, &item.Category, &item.UnitPrice, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *productItemRepo) Create(ctx context.Context, item *models.ProductItem) error {
	query := `
		INSERT INTO product_items (id, product_id, stock, expiry_date, last_purchase_date, active, product_name, brand, category, unit_price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.ProductID, item.Stock, item.ExpiryDate, item.LastPurchaseDate, item.Active, item.ProductName, item.Brand, item.Category, item.UnitPrice, item.ImageURL)
	return err
}

func (r *productItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error) {
	query := `
		SELECT ` + productItemColumns + `
		FROM product_items
		WHERE id = $1
	`
	return scanProductItem(r.db.QueryRow(ctx, query, id))
}

func (r *productItemRepo) Update(ctx context.Context, item *models.ProductItem) error {
	query := `
		UPDATE product_items
		SET product_id = $1, stock = $2, expiry_date = $3, last_purchase_date = $4, active = $5, product_name = $6, brand = $7, category = $8, unit_price = $9, image_url = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Exec(ctx, query, item.ProductID, item.Stock, item.ExpiryDate, item.LastPurchaseDate, item.Active, item.ProductName, item.Brand, item.Category, item.UnitPrice, item.ImageURL, item.ID)
	return err
}

func (r *productItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM product_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List returns one server page of items plus the total matching count.
// Search matches product name, brand and category; sort fields are
// whitelisted before being interpolated.
func (r *productItemRepo) List(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	whereClause := ` WHERE active = TRUE`
	args := []interface{}{}
	conditionCount := 0

	if filter.Search != "" {
		conditionCount++
		whereClause += fmt.Sprintf(` AND (
			product_name ILIKE $%d OR
			COALESCE(brand, '') ILIKE $%d OR
			COALESCE(category, '') ILIKE $%d
		)`, conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM product_items` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortField := "product_name"
	switch filter.SortBy {
	case models.SortByStock:
		sortField = "stock"
	case models.SortByExpiryDate:
		sortField = "expiry_date"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == models.SortDesc {
		sortOrder = "DESC"
	}

	query := `SELECT ` + productItemColumns + ` FROM product_items` + whereClause
	// Secondary expiry sort keeps batches of one product adjacent.
	query += fmt.Sprintf(` ORDER BY %s %s, product_id, expiry_date ASC`, sortField, sortOrder)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, conditionCount+1, conditionCount+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*models.ProductItem
	for rows.Next() {
		item, err := scanProductItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// RestockByProduct adds received quantity to the product's newest active
// batch and stamps its last purchase date. A product without an active batch
// is an error so a silent zero-row update cannot pass for a restock.
func (r *productItemRepo) RestockByProduct(ctx context.Context, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE product_items
		SET stock = stock + $1, last_purchase_date = NOW(), updated_at = NOW()
		WHERE id = (
			SELECT id FROM product_items
			WHERE product_id = $2 AND active = TRUE
			ORDER BY expiry_date DESC, created_at DESC
			LIMIT 1
		)
	`
	tag, err := r.db.Exec(ctx, query, quantity, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no active batch for product %s", productID.String())
	}
	return nil
}

func (r *productItemRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProductItem, error) {
	query := `
		SELECT ` + productItemColumns + `
		FROM product_items
		WHERE active = TRUE AND stock > 0 AND expiry_date <= $1
		ORDER BY expiry_date ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ProductItem
	for rows.Next() {
		item, err := scanProductItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
