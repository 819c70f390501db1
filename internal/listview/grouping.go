package listview

import (
	"sort"

	"github.com/google/uuid"

	"pharmastock/internal/models"
)

// DefaultGroupsPerPage is the number of product groups shown per group page.
const DefaultGroupsPerPage = 5

// ProductGroup collapses all sellable batches of one product into a single
// display row. Primary is the soonest-expiring batch; Secondary holds the
// remaining batches in ascending expiry order.
type ProductGroup struct {
	ProductID uuid.UUID            `json:"product_id"`
	Primary   models.ProductItem   `json:"primary"`
	Secondary []models.ProductItem `json:"secondary,omitempty"`
}

// Stock returns the combined stock of every batch in the group.
func (g ProductGroup) Stock() int {
	total := g.Primary.Stock
	for _, item := range g.Secondary {
		total += item.Stock
	}
	return total
}

// GroupItems derives product groups from a loaded item page. Inactive and
// zero-stock batches are excluded. Groups keep the order in which their
// product first appears in the input, so the visible order follows the
// server-side sort; batches inside a group are sorted ascending by expiry.
func GroupItems(items []models.ProductItem) []ProductGroup {
	byProduct := make(map[uuid.UUID]int)
	var groups []ProductGroup

	for _, item := range items {
		if !item.Active || item.Stock <= 0 {
			continue
		}
		idx, ok := byProduct[item.ProductID]
		if !ok {
			byProduct[item.ProductID] = len(groups)
			groups = append(groups, ProductGroup{ProductID: item.ProductID, Primary: item})
			continue
		}
		groups[idx].Secondary = append(groups[idx].Secondary, item)
	}

	for i := range groups {
		batches := append([]models.ProductItem{groups[i].Primary}, groups[i].Secondary...)
		sort.SliceStable(batches, func(a, b int) bool {
			return batches[a].ExpiryDate.Before(batches[b].ExpiryDate)
		})
		groups[i].Primary = batches[0]
		groups[i].Secondary = batches[1:]
		if len(groups[i].Secondary) == 0 {
			groups[i].Secondary = nil
		}
	}

	return groups
}

// WindowGroups returns the window of groups visible on the given 1-based
// group page.
func WindowGroups(groups []ProductGroup, page, perPage int) []ProductGroup {
	if perPage <= 0 {
		perPage = DefaultGroupsPerPage
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(groups) {
		return nil
	}
	end := start + perPage
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end]
}

// GroupPageCount returns how many group pages the loaded groups span.
func GroupPageCount(groupCount, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultGroupsPerPage
	}
	if groupCount <= 0 {
		return 0
	}
	return (groupCount + perPage - 1) / perPage
}

// EstimateTotalGroupPages extrapolates the loaded page's items-per-group
// ratio over the server-reported total item count. Grouping is only visible
// on the loaded page, so the true dataset-wide group count is unknown; the
// result is an approximation and must not be presented as exact.
func EstimateTotalGroupPages(loadedItems, loadedGroups, totalItems, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultGroupsPerPage
	}
	if loadedItems <= 0 || loadedGroups <= 0 {
		return 0
	}
	if totalItems < loadedItems {
		totalItems = loadedItems
	}
	estimatedGroups := (totalItems*loadedGroups + loadedItems - 1) / loadedItems
	return (estimatedGroups + perPage - 1) / perPage
}
