package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pharmastock/internal/caching"
	"pharmastock/internal/models"
	"pharmastock/internal/repositories"

	"github.com/google/uuid"
)

const (
	itemCacheTTL = 15 * time.Minute
	listCacheTTL = 2 * time.Minute
)

type ProductItemService interface {
	Create(ctx context.Context, item *models.ProductItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error)
	Update(ctx context.Context, item *models.ProductItem) error
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	List(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, models.Pagination, error)
	ListAll(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, error)
}

type productItemService struct {
	itemRepo     repositories.ProductItemRepository
	cacheService caching.CacheService
}

func NewProductItemService(itemRepo repositories.ProductItemRepository, cacheService caching.CacheService) ProductItemService {
	return &productItemService{
		itemRepo:     itemRepo,
		cacheService: cacheService,
	}
}

func (s *productItemService) Create(ctx context.Context, item *models.ProductItem) error {
	if item.ProductName == "" {
		return errors.New("product name is required")
	}
	if item.UnitPrice <= 0 {
		return errors.New("unit price must be positive")
	}
	if item.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if item.ExpiryDate.IsZero() {
		return errors.New("expiry date is required")
	}

	item.ID = uuid.New()
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return err
	}

	if cacheErr := s.cacheService.InvalidateListPages(ctx); cacheErr != nil {
		log.Printf("Failed to invalidate list cache after create: %v", cacheErr)
	}
	return nil
}

func (s *productItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error) {
	if cached, err := s.cacheService.GetProductItem(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache errors shouldn't fail the read
		log.Printf("Cache error for item %s: %v", id.String(), err)
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetProductItem(ctx, item, itemCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache item %s: %v", id.String(), cacheErr)
	}
	return item, nil
}

func (s *productItemService) Update(ctx context.Context, item *models.ProductItem) error {
	if _, err := s.itemRepo.GetByID(ctx, item.ID); err != nil {
		return fmt.Errorf("item not found: %w", err)
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteProductItem(ctx, item.ID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", item.ID.String(), cacheErr)
	}
	if cacheErr := s.cacheService.InvalidateListPages(ctx); cacheErr != nil {
		log.Printf("Failed to invalidate list cache after update: %v", cacheErr)
	}
	return nil
}

func (s *productItemService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("item not found: %w", err)
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return "", err
	}

	if cacheErr := s.cacheService.DeleteProductItem(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", id.String(), cacheErr)
	}
	if cacheErr := s.cacheService.InvalidateListPages(ctx); cacheErr != nil {
		log.Printf("Failed to invalidate list cache after delete: %v", cacheErr)
	}

	return fmt.Sprintf("Deleted batch of %s", item.ProductName), nil
}

// List returns one server page with pagination metadata. Unsearched pages
// are served cache-aside; searched listings always hit the database.
func (s *productItemService) List(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, models.Pagination, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	if filter.Search == "" {
		if items, pagination, err := s.cacheService.GetListPage(ctx, filter); pagination != nil {
			return items, *pagination, nil
		} else if err != nil {
			log.Printf("List cache error: %v", err)
		}
	}

	items, total, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	pagination := models.NewPagination(filter.Page, filter.Limit, total)

	if filter.Search == "" {
		if cacheErr := s.cacheService.SetListPage(ctx, filter, items, pagination, listCacheTTL); cacheErr != nil {
			log.Printf("Failed to cache list page %d: %v", filter.Page, cacheErr)
		}
	}
	return items, pagination, nil
}

// ListAll pages through the full filtered dataset, for report generation.
func (s *productItemService) ListAll(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, error) {
	page := *filter
	page.Page = 1
	if page.Limit <= 0 {
		page.Limit = 200
	}

	var all []*models.ProductItem
	for {
		items, total, err := s.itemRepo.List(ctx, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(all) >= total || len(items) == 0 {
			return all, nil
		}
		page.Page++
	}
}
