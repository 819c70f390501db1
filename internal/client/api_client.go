package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pharmastock/internal/models"
)

// APIClient is the admin UI's boundary to the inventory REST API. It
// implements the list controller's refresher, detail-fetch and delete
// collaborators.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given API base URL.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

var errNotFound = fmt.Errorf("not found")

// Refresh loads one server page of product items. Implements
// listview.Refresher.
func (c *APIClient) Refresh(ctx context.Context, page int, search, sortBy, sortOrder string) ([]models.ProductItem, models.Pagination, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if search != "" {
		params.Set("search", search)
	}
	if sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	if sortOrder != "" {
		params.Set("sort_order", sortOrder)
	}

	var resp struct {
		Items      []models.ProductItem `json:"items"`
		Pagination models.Pagination    `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/product-items?"+params.Encode(), &resp); err != nil {
		return nil, models.Pagination{}, err
	}
	return resp.Items, resp.Pagination, nil
}

// FetchProductItemByID loads one item. A nil item with nil error means the
// item no longer exists. Implements listview.ItemFetcher.
func (c *APIClient) FetchProductItemByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error) {
	var item models.ProductItem
	err := c.do(ctx, http.MethodGet, "/api/v1/product-items/"+id.String(), &item)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteProductItemByID deletes one item and returns the server's success
// message. Implements listview.ItemDeleter.
func (c *APIClient) DeleteProductItemByID(ctx context.Context, id uuid.UUID) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/product-items/"+id.String(), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DiskFileSaver writes downloaded files into a directory. Implements
// listview.FileSaver.
type DiskFileSaver struct {
	Dir string
}

func (s DiskFileSaver) Save(filename string, data []byte) error {
	path := s.Dir
	if path == "" {
		path = "."
	}
	return os.WriteFile(path+string(os.PathSeparator)+filename, data, 0o644)
}
