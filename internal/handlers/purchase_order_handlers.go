package handlers

import (
	"net/http"
	"strconv"
	"time"

	"pharmastock/internal/models"
	"pharmastock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PurchaseOrderHandlers handles HTTP requests for purchase orders
type PurchaseOrderHandlers struct {
	orderService services.PurchaseOrderService
}

func NewPurchaseOrderHandlers(orderService services.PurchaseOrderService) *PurchaseOrderHandlers {
	return &PurchaseOrderHandlers{orderService: orderService}
}

// CreatePurchaseOrder handles POST /purchase-orders
func (h *PurchaseOrderHandlers) CreatePurchaseOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		SupplierID string  `json:"supplier_id"`
		OrderDate  *string `json:"order_date"`
		Notes      *string `json:"notes"`
		Items      []struct {
			ProductID string  `json:"product_id"`
			Quantity  int     `json:"quantity"`
			UnitCost  float64 `json:"unit_cost"`
		} `json:"items"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier ID")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Order must contain at least one item")
	}

	order := &models.PurchaseOrder{
		SupplierID: supplierID,
		Notes:      req.Notes,
	}
	if req.OrderDate != nil && *req.OrderDate != "" {
		orderDate, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid order date format")
		}
		order.OrderDate = orderDate
	}

	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID in items")
		}
		order.Items = append(order.Items, models.PurchaseOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	if err := h.orderService.Create(ctx, order); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Purchase order created successfully",
		"order":   order,
	})
}

// ListPurchaseOrders handles GET /purchase-orders
func (h *PurchaseOrderHandlers) ListPurchaseOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 10
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}

	orders, err := h.orderService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPurchaseOrderByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandlers) GetPurchaseOrderByID(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetByID(ctx, orderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Purchase order not found")
	}

	return c.JSON(http.StatusOK, order)
}

// ReceivePurchaseOrder handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandlers) ReceivePurchaseOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.orderService.Receive(ctx, orderID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Purchase order received",
	})
}

// CancelPurchaseOrder handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandlers) CancelPurchaseOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.orderService.Cancel(ctx, orderID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Purchase order cancelled",
	})
}

// DeletePurchaseOrder handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandlers) DeletePurchaseOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.orderService.Delete(ctx, orderID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Purchase order deleted successfully",
	})
}
