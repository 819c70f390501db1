package listview

import (
	"context"

	"github.com/google/uuid"

	"pharmastock/internal/models"
)

// ItemFetcher loads a single product item for the detail view. A nil item
// with a nil error means the item was not found.
type ItemFetcher interface {
	FetchProductItemByID(ctx context.Context, id uuid.UUID) (*models.ProductItem, error)
}

// ItemDeleter deletes a product item and resolves with a user-facing
// success message.
type ItemDeleter interface {
	DeleteProductItemByID(ctx context.Context, id uuid.UUID) (string, error)
}

// Navigator abstracts route navigation for the edit action.
type Navigator interface {
	NavigateToEdit(id uuid.UUID)
}

// DetailView is the state of the item detail surface. The surface always
// opens; failures show up as an inline error inside it.
type DetailView struct {
	Open  bool
	Item  *models.ProductItem
	Error string
}

// ActionDispatcher exposes the per-row actions of the product list: view,
// edit and two-step delete.
type ActionDispatcher struct {
	controller *Controller
	fetcher    ItemFetcher
	deleter    ItemDeleter
	navigator  Navigator
	notifier   Notifier
}

// NewActionDispatcher wires the row actions to their collaborators.
func NewActionDispatcher(controller *Controller, fetcher ItemFetcher, deleter ItemDeleter, navigator Navigator, notifier Notifier) *ActionDispatcher {
	return &ActionDispatcher{
		controller: controller,
		fetcher:    fetcher,
		deleter:    deleter,
		navigator:  navigator,
		notifier:   notifier,
	}
}

// View fetches the item detail. The detail surface opens regardless of the
// outcome; not-found and fetch failures render as an inline error region.
func (d *ActionDispatcher) View(ctx context.Context, id uuid.UUID) DetailView {
	item, err := d.fetcher.FetchProductItemByID(ctx, id)
	if err != nil {
		return DetailView{Open: true, Error: "Failed to load item details: " + err.Error()}
	}
	if item == nil {
		return DetailView{Open: true, Error: "Item not found"}
	}
	return DetailView{Open: true, Item: item}
}

// Edit navigates to the edit route for the item. No local state is kept.
func (d *ActionDispatcher) Edit(id uuid.UUID) {
	d.navigator.NavigateToEdit(id)
}

// Delete removes an item after confirmation. Without confirmation nothing
// happens beyond an informational notice. On success the current
// item/sort/search window is force-refetched; on failure state is untouched.
func (d *ActionDispatcher) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		d.notifier.Info("Deletion cancelled")
		return nil
	}

	message, err := d.deleter.DeleteProductItemByID(ctx, id)
	if err != nil {
		d.notifier.Error("Failed to delete item: " + err.Error())
		return err
	}

	d.notifier.Success(message)
	return d.controller.Reload()
}
