package listview

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pharmastock/internal/models"
)

func TestGroupItemsCollapsesBatchesByProduct(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	items := []models.ProductItem{
		batchFor(productA, 5, base.AddDate(0, 2, 0)),
		batchFor(productB, 3, base),
		batchFor(productA, 8, base.AddDate(0, 0, 10)),
		batchFor(productA, 2, base.AddDate(0, 6, 0)),
	}

	groups := GroupItems(items)
	assert.Len(t, groups, 2)

	// Group order follows the first appearance of each product.
	assert.Equal(t, productA, groups[0].ProductID)
	assert.Equal(t, productB, groups[1].ProductID)

	// Primary is the soonest-expiring batch, remaining batches ascend.
	assert.Equal(t, base.AddDate(0, 0, 10), groups[0].Primary.ExpiryDate)
	assert.Len(t, groups[0].Secondary, 2)
	assert.Equal(t, base.AddDate(0, 2, 0), groups[0].Secondary[0].ExpiryDate)
	assert.Equal(t, base.AddDate(0, 6, 0), groups[0].Secondary[1].ExpiryDate)

	assert.Equal(t, 15, groups[0].Stock())
	assert.Equal(t, 3, groups[1].Stock())
}

func TestGroupItemsIsIdempotentAndOrderStable(t *testing.T) {
	items := batchesAcross(4, 12)

	first := GroupItems(items)
	second := GroupItems(items)
	assert.Equal(t, first, second)
}

func TestGroupItemsExcludesInactiveAndZeroStock(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	inactive := batchFor(productA, 5, base)
	inactive.Active = false
	empty := batchFor(productB, 0, base)

	groups := GroupItems([]models.ProductItem{
		inactive,
		empty,
		batchFor(productA, 7, base.AddDate(0, 1, 0)),
	})

	assert.Len(t, groups, 1)
	assert.Equal(t, productA, groups[0].ProductID)
	assert.Equal(t, 7, groups[0].Primary.Stock)
	assert.Nil(t, groups[0].Secondary)
}

func TestWindowGroups(t *testing.T) {
	groups := GroupItems(batchesAcross(12, 12))
	assert.Len(t, groups, 12)

	assert.Len(t, WindowGroups(groups, 1, 5), 5)
	assert.Len(t, WindowGroups(groups, 2, 5), 5)
	assert.Len(t, WindowGroups(groups, 3, 5), 2)
	assert.Nil(t, WindowGroups(groups, 4, 5))

	// The second window starts where the first one ends.
	assert.Equal(t, groups[5].ProductID, WindowGroups(groups, 2, 5)[0].ProductID)
}

func TestGroupPageCount(t *testing.T) {
	assert.Equal(t, 0, GroupPageCount(0, 5))
	assert.Equal(t, 1, GroupPageCount(1, 5))
	assert.Equal(t, 1, GroupPageCount(5, 5))
	assert.Equal(t, 2, GroupPageCount(6, 5))
	assert.Equal(t, 3, GroupPageCount(12, 5))
}

func TestEstimateTotalGroupPages(t *testing.T) {
	// 12 loaded items in 4 groups, 24 total: ~8 groups, 2 pages of 5.
	assert.Equal(t, 2, EstimateTotalGroupPages(12, 4, 24, 5))
	// Fully loaded dataset: estimate equals the exact count.
	assert.Equal(t, 1, EstimateTotalGroupPages(12, 4, 12, 5))
	// No data loaded yet.
	assert.Equal(t, 0, EstimateTotalGroupPages(0, 0, 100, 5))
	// Stale total below the loaded count is clamped.
	assert.Equal(t, 1, EstimateTotalGroupPages(12, 4, 3, 5))
}
