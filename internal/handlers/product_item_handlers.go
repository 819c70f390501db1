package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pharmastock/internal/models"
	"pharmastock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProductItemHandlers handles HTTP requests for inventory batches
type ProductItemHandlers struct {
	itemService services.ProductItemService
}

// NewProductItemHandlers creates a new product item handlers instance
func NewProductItemHandlers(itemService services.ProductItemService) *ProductItemHandlers {
	return &ProductItemHandlers{itemService: itemService}
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Param(name))
	if idStr == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid UUID format: empty string")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid UUID format")
	}
	return id, nil
}

type productItemRequest struct {
	ProductID        string   `json:"product_id"`
	Stock            int      `json:"stock"`
	ExpiryDate       string   `json:"expiry_date"`
	LastPurchaseDate *string  `json:"last_purchase_date"`
	Active           bool     `json:"active"`
	ProductName      string   `json:"product_name"`
	Brand            *string  `json:"brand"`
	Category         *string  `json:"category"`
	UnitPrice        float64  `json:"unit_price"`
	ImageURL         *string  `json:"image_url"`
}

func (h *ProductItemHandlers) itemFromRequest(req *productItemRequest) (*models.ProductItem, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if req.UnitPrice <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Unit price must be positive")
	}
	if req.Stock < 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Stock cannot be negative")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid expiry date format")
	}

	item := &models.ProductItem{
		ProductID:   productID,
		Stock:       req.Stock,
		ExpiryDate:  expiryDate,
		Active:      req.Active,
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		ImageURL:    req.ImageURL,
	}
	if req.LastPurchaseDate != nil && *req.LastPurchaseDate != "" {
		lastPurchase, err := time.Parse("2006-01-02", *req.LastPurchaseDate)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid last purchase date format")
		}
		item.LastPurchaseDate = &lastPurchase
	}
	return item, nil
}

// ListProductItems handles GET /product-items
func (h *ProductItemHandlers) ListProductItems(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.ItemListFilter{
		Search:    strings.TrimSpace(c.QueryParam("search")),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Page:      1,
		Limit:     10,
	}

	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			filter.Limit = l
		}
	}

	switch filter.SortBy {
	case "", models.SortByName, models.SortByStock, models.SortByExpiryDate:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sort field")
	}
	switch filter.SortOrder {
	case "", models.SortAsc, models.SortDesc:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sort order")
	}

	items, pagination, err := h.itemService.List(ctx, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":      items,
		"pagination": pagination,
	})
}

// GetProductItemByID handles GET /product-items/:id
func (h *ProductItemHandlers) GetProductItemByID(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.itemService.GetByID(ctx, itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}

	return c.JSON(http.StatusOK, item)
}

// CreateProductItem handles POST /product-items
func (h *ProductItemHandlers) CreateProductItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req productItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemFromRequest(&req)
	if err != nil {
		return err
	}

	if err := h.itemService.Create(ctx, item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Item created successfully",
		"item":    item,
	})
}

// UpdateProductItem handles PUT /product-items/:id
func (h *ProductItemHandlers) UpdateProductItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req productItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemFromRequest(&req)
	if err != nil {
		return err
	}
	item.ID = itemID

	if err := h.itemService.Update(ctx, item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// DeleteProductItem handles DELETE /product-items/:id
func (h *ProductItemHandlers) DeleteProductItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	message, err := h.itemService.Delete(ctx, itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": message,
	})
}
