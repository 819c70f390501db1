package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase order lifecycle statuses.
const (
	OrderStatusDraft     = "draft"
	OrderStatusPlaced    = "placed"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	SupplierID  uuid.UUID           `json:"supplier_id" db:"supplier_id"`
	Status      string              `json:"status" db:"status"`
	OrderDate   time.Time           `json:"order_date" db:"order_date"`
	TotalAmount float64             `json:"total_amount" db:"total_amount"`
	Notes       *string             `json:"notes" db:"notes"`
	Items       []PurchaseOrderItem `json:"items,omitempty" db:"-"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

type PurchaseOrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitCost  float64   `json:"unit_cost" db:"unit_cost"`
}
