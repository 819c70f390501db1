package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pharmastock/internal/models"
	"pharmastock/internal/repositories"

	"github.com/google/uuid"
)

type PurchaseOrderService interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	Receive(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error)
}

type purchaseOrderService struct {
	orderRepo    repositories.PurchaseOrderRepository
	supplierRepo repositories.SupplierRepository
	itemRepo     repositories.ProductItemRepository
}

func NewPurchaseOrderService(orderRepo repositories.PurchaseOrderRepository, supplierRepo repositories.SupplierRepository, itemRepo repositories.ProductItemRepository) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
	}
}

func (s *purchaseOrderService) Create(ctx context.Context, order *models.PurchaseOrder) error {
	if len(order.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	if _, err := s.supplierRepo.GetByID(ctx, order.SupplierID); err != nil {
		return fmt.Errorf("supplier not found: %w", err)
	}

	order.ID = uuid.New()
	order.Status = models.OrderStatusPlaced
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}

	total := 0.0
	for i := range order.Items {
		if order.Items[i].Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if order.Items[i].UnitCost < 0 {
			return errors.New("item unit cost cannot be negative")
		}
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		total += float64(order.Items[i].Quantity) * order.Items[i].UnitCost
	}
	order.TotalAmount = total

	return s.orderRepo.Create(ctx, order)
}

func (s *purchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// Receive marks an order received and adds its quantities to stock. A
// product that cannot be restocked fails the call so the caller sees that
// inventory and order status have diverged.
func (s *purchaseOrderService) Receive(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == models.OrderStatusReceived {
		return errors.New("order already received")
	}
	if order.Status == models.OrderStatusCancelled {
		return errors.New("cannot receive a cancelled order")
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusReceived); err != nil {
		return err
	}

	var receiveErr error
	for _, item := range order.Items {
		if err := s.itemRepo.RestockByProduct(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("Failed to restock product %s: %v", item.ProductID.String(), err)
			if receiveErr == nil {
				receiveErr = fmt.Errorf("restock product %s: %w", item.ProductID.String(), err)
			}
		}
	}
	return receiveErr
}

func (s *purchaseOrderService) Cancel(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == models.OrderStatusReceived {
		return errors.New("cannot cancel a received order")
	}
	return s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusCancelled)
}

func (s *purchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}

func (s *purchaseOrderService) List(ctx context.Context, limit, offset int) ([]*models.PurchaseOrder, error) {
	return s.orderRepo.List(ctx, limit, offset)
}
