package repositories

import (
	"context"

	"pharmastock/internal/models"

	"github.com/google/uuid"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db DB
}

func NewPurchaseOrderRepo(db DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, order *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, supplier_id, status, order_date, total_amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.SupplierID, order.Status, order.OrderDate, order.TotalAmount, order.Notes)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		itemQuery := `
			INSERT INTO purchase_order_items (id, order_id, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, order.ID, item.ProductID, item.Quantity, item.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, supplier_id, status, order_date, total_amount, notes, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.SupplierID, &order.Status, &order.OrderDate, &order.TotalAmount, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_cost
		FROM purchase_order_items
		WHERE order_id = $1
	`
	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.PurchaseOrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitCost); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func (r *purchaseOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1`, id); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	return err
}

func (r *purchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, status, order_date, total_amount, notes, created_at, updated_at
		FROM purchase_orders
		ORDER BY order_date DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.PurchaseOrder
	for rows.Next() {
		order := &models.PurchaseOrder{}
		if err := rows.Scan(&order.ID, &order.SupplierID, &order.Status, &order.OrderDate, &order.TotalAmount, &order.Notes, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
