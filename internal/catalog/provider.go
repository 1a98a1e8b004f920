package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

// Data is everything the order workflow needs at entry.
type Data struct {
	Snapshot   *Snapshot
	Suppliers  []refdata.Supplier
	Categories []refdata.Category
}

type Provider struct {
	products product.Repository
	ref      refdata.Repository
}

func NewProvider(products product.Repository, ref refdata.Repository) *Provider {
	return &Provider{products: products, ref: ref}
}

// Load fetches the catalog, the supplier list and the category list as three
// independent lookups. The lists do not depend on each other, so they run
// concurrently. Any failure is recoverable: the caller retries by calling
// Load again.
func (p *Provider) Load(ctx context.Context) (*Data, error) {
	var d Data
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := p.products.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		d.Snapshot = NewSnapshot(entries)
		return nil
	})
	g.Go(func() error {
		sup, err := p.ref.ListSuppliers(ctx)
		if err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		d.Suppliers = sup
		return nil
	})
	g.Go(func() error {
		cat, err := p.ref.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		d.Categories = cat
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
