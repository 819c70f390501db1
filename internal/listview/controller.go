package listview

import (
	"context"
	"strings"
	"sync"
	"time"

	"pharmastock/internal/models"
)

// Refresher is the backend boundary of the controller. Refresh loads one
// server page of raw product items for the given search/sort combination.
type Refresher interface {
	Refresh(ctx context.Context, page int, search, sortBy, sortOrder string) ([]models.ProductItem, models.Pagination, error)
}

// Notifier receives user-facing notifications from the controller.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
	Info(message string)
}

// fetchKey is the tuple the fetch orchestrator dedupes on.
type fetchKey struct {
	page      int
	search    string
	sortBy    string
	sortOrder string
}

// syncState tracks the dual-cursor page reconciliation.
type syncState int

const (
	syncIdle syncState = iota
	syncAwaitingNewItemPage
	syncSyncingFromPagination
)

// Controller merges server-side pagination over raw product items with
// client-side grouping by product. It keeps two independent page cursors:
// the server item page and the local group page over the loaded window.
type Controller struct {
	refresher Refresher
	notifier  Notifier

	groupsPerPage int
	debounce      *debouncer

	mu     sync.Mutex
	ctx    context.Context
	closed bool

	sortBy          string
	sortOrder       string
	itemPage        int
	searchInput     string
	debouncedSearch string

	lastFetched   fetchKey
	hasFetched    bool
	skipNextFetch bool

	state          syncState
	prevServerPage int

	items      []models.ProductItem
	pagination models.Pagination
	groups     []ProductGroup
	groupPage  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithGroupsPerPage overrides the group window size.
func WithGroupsPerPage(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.groupsPerPage = n
		}
	}
}

// WithSearchDebounce overrides the search quiet period.
func WithSearchDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = newDebouncer(d) }
}

// NewController creates a controller in its initial state: item page 1,
// group page 1, sorted by name ascending, empty search.
func NewController(refresher Refresher, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		refresher:     refresher,
		notifier:      notifier,
		groupsPerPage: DefaultGroupsPerPage,
		debounce:      newDebouncer(DefaultSearchDebounce),
		sortBy:        models.SortByName,
		sortOrder:     models.SortAsc,
		itemPage:      1,
		groupPage:     1,
		state:         syncIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount performs the initial fetch. Exactly one fetch is issued; the generic
// change-watcher does not re-trigger for the same tuple.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	return c.fetchLocked(c.currentKey())
}

// Close stops pending debounce timers and makes late completions no-ops.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SetSort changes the sort field and direction. A sort change is a fresh
// query: both the item page and the group page reset to 1.
func (c *Controller) SetSort(field, order string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if field == "" {
		field = models.SortByName
	}
	if order != models.SortDesc {
		order = models.SortAsc
	}
	if field == c.sortBy && order == c.sortOrder {
		c.notifier.Info("Sort unchanged")
		return
	}
	c.sortBy = field
	c.sortOrder = order
	c.itemPage = 1
	c.groupPage = 1
	c.state = syncIdle
	c.syncLocked()
}

// SetSearch records raw search input. The value only reaches the fetch
// orchestrator after the debounce quiet period, so rapid keystrokes collapse
// into the latest one.
func (c *Controller) SetSearch(input string) {
	c.mu.Lock()
	c.searchInput = input
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.debouncedSearch = strings.TrimSpace(c.searchInput)
		c.syncLocked()
	})
}

// NextGroupPage advances the group cursor. Inside the loaded window this is
// pure navigation and never touches the backend; past the last loaded group
// it requests the next server item page when one exists.
func (c *Controller) NextGroupPage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groupPage < GroupPageCount(len(c.groups), c.groupsPerPage) {
		c.groupPage++
		return
	}
	if c.pagination.Page < c.pagination.TotalPages {
		c.state = syncAwaitingNewItemPage
		c.itemPage = c.pagination.Page + 1
		c.syncLocked()
		return
	}
	c.notifier.Info("Already on the last page")
}

// PrevGroupPage moves the group cursor backward, requesting the previous
// server item page when navigation runs off the front of the loaded window.
func (c *Controller) PrevGroupPage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groupPage > 1 {
		c.groupPage--
		return
	}
	if c.pagination.Page > 1 {
		c.state = syncAwaitingNewItemPage
		c.itemPage = c.pagination.Page - 1
		c.syncLocked()
		return
	}
	c.notifier.Info("Already on the first page")
}

// Reload re-fetches the current tuple regardless of the dedupe guard. Used
// after mutations (delete) so the list reflects the backend.
func (c *Controller) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchLocked(c.currentKey())
}

// Items returns the currently loaded raw item window.
func (c *Controller) Items() []models.ProductItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// VisibleGroups returns the groups on the current group page.
func (c *Controller) VisibleGroups() []ProductGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WindowGroups(c.groups, c.groupPage, c.groupsPerPage)
}

// GroupPage returns the current 1-based group page.
func (c *Controller) GroupPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groupPage
}

// LoadedGroupPages returns how many group pages the loaded window spans.
func (c *Controller) LoadedGroupPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GroupPageCount(len(c.groups), c.groupsPerPage)
}

// EstimatedTotalGroupPages extrapolates the dataset-wide group page count
// from the loaded window. Approximate by construction; see
// EstimateTotalGroupPages.
func (c *Controller) EstimatedTotalGroupPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EstimateTotalGroupPages(len(c.items), len(c.groups), c.pagination.Total, c.groupsPerPage)
}

// Pagination returns the server pagination metadata of the loaded window.
func (c *Controller) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Sort returns the active sort field and direction.
func (c *Controller) Sort() (field, order string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortBy, c.sortOrder
}

func (c *Controller) currentKey() fetchKey {
	return fetchKey{
		page:      c.itemPage,
		search:    c.debouncedSearch,
		sortBy:    c.sortBy,
		sortOrder: c.sortOrder,
	}
}

// syncLocked is the generic change-watcher: it compares the current tuple
// against the last fetched one and only issues a fetch when they differ. The
// skip-once guard suppresses the redundant fetch right after a
// pagination-driven reconciliation delivered exactly this tuple's data.
func (c *Controller) syncLocked() {
	if c.closed {
		return
	}
	key := c.currentKey()
	if c.skipNextFetch {
		c.skipNextFetch = false
		c.lastFetched = key
		return
	}
	if c.hasFetched && key == c.lastFetched {
		return
	}
	_ = c.fetchLocked(key)
}

// fetchLocked performs one backend round trip for the given tuple. On
// failure the previous window stays displayed; the list is never cleared.
func (c *Controller) fetchLocked(key fetchKey) error {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	items, pagination, err := c.refresher.Refresh(ctx, key.page, key.search, key.sortBy, key.sortOrder)
	if c.closed {
		// Unmounted while in flight: treat as a cancelled no-op completion.
		return nil
	}
	if err != nil {
		c.notifier.Error("Failed to load product items: " + err.Error())
		return err
	}

	c.lastFetched = key
	c.hasFetched = true
	c.applyDataLocked(items, pagination)
	c.syncLocked()
	return nil
}

// applyDataLocked installs a freshly loaded window and runs the
// reconciliation state machine. The group cursor resets to 1 if and only if
// the server item page actually changed.
func (c *Controller) applyDataLocked(items []models.ProductItem, pagination models.Pagination) {
	if c.state == syncAwaitingNewItemPage && pagination.Page != c.prevServerPage {
		c.state = syncSyncingFromPagination
	}

	c.items = items
	c.pagination = pagination
	c.groups = GroupItems(items)

	if c.state == syncSyncingFromPagination {
		c.groupPage = 1
		c.skipNextFetch = true
		c.state = syncIdle
	} else if max := GroupPageCount(len(c.groups), c.groupsPerPage); c.groupPage > max {
		if max < 1 {
			max = 1
		}
		c.groupPage = max
	}

	c.prevServerPage = pagination.Page
}
