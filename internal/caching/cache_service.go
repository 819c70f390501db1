package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pharmastock/internal/models"
)

// cachedListPage bundles one item page with its pagination metadata.
type cachedListPage struct {
	Items      []*models.ProductItem `json:"items"`
	Pagination models.Pagination     `json:"pagination"`
}

type CacheService interface {
	// Item detail caching
	GetProductItem(ctx context.Context, itemID uuid.UUID) (*models.ProductItem, error)
	SetProductItem(ctx context.Context, item *models.ProductItem, ttl time.Duration) error
	DeleteProductItem(ctx context.Context, itemID uuid.UUID) error

	// List page caching, keyed by the full query tuple
	GetListPage(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, *models.Pagination, error)
	SetListPage(ctx context.Context, filter *models.ItemListFilter, items []*models.ProductItem, pagination models.Pagination, ttl time.Duration) error
	InvalidateListPages(ctx context.Context) error

	// Generic string operations backing the token revocation denylist
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func listPageKey(filter *models.ItemListFilter) string {
	return fmt.Sprintf("pharmastock:items:list:%d:%d:%s:%s:%s", filter.Page, filter.Limit, filter.SortBy, filter.SortOrder, filter.Search)
}

func (r *redisCacheService) GetProductItem(ctx context.Context, itemID uuid.UUID) (*models.ProductItem, error) {
	key := fmt.Sprintf("pharmastock:item:%s", itemID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.ProductItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetProductItem(ctx context.Context, item *models.ProductItem, ttl time.Duration) error {
	key := fmt.Sprintf("pharmastock:item:%s", item.ID.String())
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProductItem(ctx context.Context, itemID uuid.UUID) error {
	key := fmt.Sprintf("pharmastock:item:%s", itemID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetListPage(ctx context.Context, filter *models.ItemListFilter) ([]*models.ProductItem, *models.Pagination, error) {
	data, err := r.client.Get(ctx, listPageKey(filter)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil, nil // cache miss
		}
		return nil, nil, err
	}

	var page cachedListPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, nil, err
	}
	return page.Items, &page.Pagination, nil
}

func (r *redisCacheService) SetListPage(ctx context.Context, filter *models.ItemListFilter, items []*models.ProductItem, pagination models.Pagination, ttl time.Duration) error {
	data, err := json.Marshal(cachedListPage{Items: items, Pagination: pagination})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, listPageKey(filter), data, ttl).Err()
}

func (r *redisCacheService) InvalidateListPages(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "pharmastock:items:list:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}
