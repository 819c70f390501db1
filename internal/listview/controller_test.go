package listview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"pharmastock/internal/models"
)

type refreshCall struct {
	page      int
	search    string
	sortBy    string
	sortOrder string
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls []refreshCall
	pages map[int][]models.ProductItem
	total int
	limit int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, page int, search, sortBy, sortOrder string) ([]models.ProductItem, models.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, refreshCall{page: page, search: search, sortBy: sortBy, sortOrder: sortOrder})
	if f.err != nil {
		return nil, models.Pagination{}, f.err
	}
	items := f.pages[page]
	return items, models.NewPagination(page, f.limit, f.total), nil
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRefresher) lastCall() refreshCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeNotifier struct {
	mu       sync.Mutex
	success  []string
	warnings []string
	errors   []string
	infos    []string
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, message)
}

func (n *fakeNotifier) Warning(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, message)
}

func (n *fakeNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *fakeNotifier) Info(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message)
}

func batchFor(productID uuid.UUID, stock int, expiry time.Time) models.ProductItem {
	return models.ProductItem{
		ID:          uuid.New(),
		ProductID:   productID,
		Stock:       stock,
		ExpiryDate:  expiry,
		Active:      true,
		ProductName: "Amoxicillin 500mg",
		UnitPrice:   4.20,
	}
}

// batchesAcross builds batches spread over the given number of products.
func batchesAcross(products, batches int) []models.ProductItem {
	ids := make([]uuid.UUID, products)
	for i := range ids {
		ids[i] = uuid.New()
	}
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	items := make([]models.ProductItem, 0, batches)
	for i := 0; i < batches; i++ {
		items = append(items, batchFor(ids[i%products], 10+i, base.AddDate(0, 0, i)))
	}
	return items
}

type ControllerTestSuite struct {
	suite.Suite
	refresher *fakeRefresher
	notifier  *fakeNotifier
	ctrl      *Controller
}

func (suite *ControllerTestSuite) SetupTest() {
	suite.refresher = &fakeRefresher{
		pages: map[int][]models.ProductItem{},
		limit: 12,
	}
	suite.notifier = &fakeNotifier{}
	suite.ctrl = NewController(suite.refresher, suite.notifier, WithSearchDebounce(10*time.Millisecond))
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (suite *ControllerTestSuite) TestMountFetchesExactlyOnce() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	err := suite.ctrl.Mount(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, suite.refresher.callCount())

	call := suite.refresher.lastCall()
	assert.Equal(suite.T(), 1, call.page)
	assert.Equal(suite.T(), models.SortByName, call.sortBy)
	assert.Equal(suite.T(), models.SortAsc, call.sortOrder)
}

func (suite *ControllerTestSuite) TestNoFetchForUnchangedTuple() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	suite.ctrl.SetSort(models.SortByName, models.SortAsc) // same as initial
	assert.Equal(suite.T(), 1, suite.refresher.callCount())
	assert.NotEmpty(suite.T(), suite.notifier.infos)
}

func (suite *ControllerTestSuite) TestSortChangeResetsBothCursorsAndFetches() {
	suite.refresher.pages[1] = batchesAcross(12, 12)
	suite.refresher.pages[2] = batchesAcross(12, 12)
	suite.refresher.total = 24

	suite.ctrl.Mount(context.Background())
	suite.ctrl.NextGroupPage() // group page 2 inside the loaded window
	assert.Equal(suite.T(), 2, suite.ctrl.GroupPage())

	suite.ctrl.SetSort(models.SortByStock, models.SortDesc)
	assert.Equal(suite.T(), 1, suite.ctrl.GroupPage())
	assert.Equal(suite.T(), 2, suite.refresher.callCount())

	call := suite.refresher.lastCall()
	assert.Equal(suite.T(), 1, call.page)
	assert.Equal(suite.T(), models.SortByStock, call.sortBy)
	assert.Equal(suite.T(), models.SortDesc, call.sortOrder)
}

func (suite *ControllerTestSuite) TestGroupPagingInsideWindowNeverFetches() {
	suite.refresher.pages[1] = batchesAcross(12, 12) // 12 groups -> 3 group pages
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	suite.ctrl.NextGroupPage()
	suite.ctrl.NextGroupPage()
	suite.ctrl.PrevGroupPage()

	assert.Equal(suite.T(), 2, suite.ctrl.GroupPage())
	assert.Equal(suite.T(), 1, suite.refresher.callCount())
}

func (suite *ControllerTestSuite) TestBoundaryNextFetchesNewItemPageAndResetsGroupCursor() {
	// 12 batches over 4 products on page 1 of 2: one group page locally.
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.pages[2] = batchesAcross(4, 12)
	suite.refresher.total = 24

	suite.ctrl.Mount(context.Background())
	assert.Equal(suite.T(), 1, suite.ctrl.LoadedGroupPages())
	assert.Len(suite.T(), suite.ctrl.VisibleGroups(), 4)

	suite.ctrl.NextGroupPage()

	assert.Equal(suite.T(), 2, suite.refresher.callCount())
	assert.Equal(suite.T(), 2, suite.refresher.lastCall().page)
	assert.Equal(suite.T(), 1, suite.ctrl.GroupPage())
	assert.Equal(suite.T(), 2, suite.ctrl.Pagination().Page)

	// The reconciliation must not re-issue a fetch for data just received.
	suite.ctrl.NextGroupPage() // already on last server page, last group page
	assert.Equal(suite.T(), 2, suite.refresher.callCount())
	assert.NotEmpty(suite.T(), suite.notifier.infos)
}

func (suite *ControllerTestSuite) TestBoundaryPrevFetchesPreviousItemPage() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.pages[2] = batchesAcross(4, 12)
	suite.refresher.total = 24

	suite.ctrl.Mount(context.Background())
	suite.ctrl.NextGroupPage() // to item page 2
	assert.Equal(suite.T(), 2, suite.ctrl.Pagination().Page)

	suite.ctrl.PrevGroupPage() // back to item page 1
	assert.Equal(suite.T(), 3, suite.refresher.callCount())
	assert.Equal(suite.T(), 1, suite.refresher.lastCall().page)
	assert.Equal(suite.T(), 1, suite.ctrl.GroupPage())
}

func (suite *ControllerTestSuite) TestFetchErrorKeepsStaleData() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 24

	suite.ctrl.Mount(context.Background())
	loaded := suite.ctrl.Items()
	assert.Len(suite.T(), loaded, 12)

	suite.refresher.err = errors.New("connection refused")
	suite.ctrl.SetSort(models.SortByExpiryDate, models.SortAsc)

	assert.NotEmpty(suite.T(), suite.notifier.errors)
	assert.Equal(suite.T(), loaded, suite.ctrl.Items(), "list must never be cleared on error")
}

func (suite *ControllerTestSuite) TestDebouncedSearchCollapsesKeystrokes() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	suite.ctrl.SetSearch("a")
	suite.ctrl.SetSearch("am")
	suite.ctrl.SetSearch("amox")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(suite.T(), 2, suite.refresher.callCount())
	assert.Equal(suite.T(), "amox", suite.refresher.lastCall().search)
}

func (suite *ControllerTestSuite) TestRepeatedSearchTermDoesNotRefetch() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	suite.ctrl.SetSearch("amox")
	time.Sleep(50 * time.Millisecond)
	suite.ctrl.SetSearch("amox")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(suite.T(), 2, suite.refresher.callCount())
}

func (suite *ControllerTestSuite) TestCloseStopsPendingDebounce() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	suite.ctrl.SetSearch("amox")
	suite.ctrl.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(suite.T(), 1, suite.refresher.callCount())
}

func (suite *ControllerTestSuite) TestReloadBypassesDedupeGuard() {
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 12

	suite.ctrl.Mount(context.Background())
	err := suite.ctrl.Reload()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, suite.refresher.callCount())
}

func (suite *ControllerTestSuite) TestEstimatedTotalGroupPagesIsExtrapolated() {
	// 12 loaded batches forming 4 groups, 24 total items: the estimator
	// extrapolates 3 items per group over the dataset.
	suite.refresher.pages[1] = batchesAcross(4, 12)
	suite.refresher.total = 24

	suite.ctrl.Mount(context.Background())
	assert.Equal(suite.T(), 2, suite.ctrl.EstimatedTotalGroupPages())
}
