package state

import (
	"context"

	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
	"github.com/example/fooddash/pkg/search"
)

// Products loads the available catalog (newest first) and caches it for the
// local filter. Catalog reads do not require authentication.
func (a *App) Products(ctx context.Context) ([]models.Product, error) {
	epoch, seq := a.beginReload(sliceProducts)
	rows, err := a.gw.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := normalize.Products(rows)
	a.commit(sliceProducts, epoch, seq, func() { a.products = products })
	return products, nil
}

func (a *App) Product(ctx context.Context, id string) (*models.Product, error) {
	row, err := a.gw.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p := normalize.Product(*row)
	return &p, nil
}

func (a *App) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	rows, err := a.gw.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return normalize.Products(rows), nil
}

// FilterProducts runs the screen-level filter over the cached catalog,
// preserving catalog order. Call Products first to populate the cache.
func (a *App) FilterProducts(f search.Filter) []models.Product {
	a.mu.Lock()
	products := make([]models.Product, len(a.products))
	copy(products, a.products)
	a.mu.Unlock()
	return search.Apply(products, f)
}
