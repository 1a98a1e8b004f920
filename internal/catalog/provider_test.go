package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

type stubProducts struct {
	items []product.Product
	err   error
}

func (s *stubProducts) Create(context.Context, *product.Product) error { return errors.New("ro") }
func (s *stubProducts) GetByID(context.Context, string) (*product.Product, error) {
	return nil, errors.New("ro")
}
func (s *stubProducts) List(context.Context, product.Query) ([]product.Product, error) {
	return s.items, s.err
}
func (s *stubProducts) ListAll(context.Context) ([]product.Product, error) { return s.items, s.err }
func (s *stubProducts) Update(context.Context, *product.Product, bool) error {
	return errors.New("ro")
}
func (s *stubProducts) Delete(context.Context, string) (bool, error) { return false, errors.New("ro") }

type stubRef struct {
	suppliers  []refdata.Supplier
	categories []refdata.Category
	err        error
}

func (s *stubRef) ListSuppliers(context.Context) ([]refdata.Supplier, error) {
	return s.suppliers, s.err
}
func (s *stubRef) ListCategories(context.Context) ([]refdata.Category, error) {
	return s.categories, s.err
}

func TestProvider_LoadMergesAllThreeFetches(t *testing.T) {
	t.Parallel()

	sid := "s1"
	p := NewProvider(
		&stubProducts{items: []product.Product{
			{ID: "A", Barcode: "750A", PurchasePrice: "10", SupplierID: &sid},
			{ID: "B", Barcode: "750B", PurchasePrice: "8"},
		}},
		&stubRef{
			suppliers:  []refdata.Supplier{{ID: "s1", Name: "Norte"}},
			categories: []refdata.Category{{ID: "c1", Name: "Harinas"}},
		},
	)

	data, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data.Snapshot.Len() != 2 {
		t.Fatalf("snapshot len=%d", data.Snapshot.Len())
	}
	if _, ok := data.Snapshot.ByBarcode("750A"); !ok {
		t.Fatal("barcode index missing 750A")
	}
	if got := data.Snapshot.FilterBySupplier("s1"); len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("filter by supplier: %+v", got)
	}
	if len(data.Suppliers) != 1 || len(data.Categories) != 1 {
		t.Fatalf("refdata incompleta: %+v", data)
	}
}

func TestProvider_LoadSurfacesFetchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	p := NewProvider(&stubProducts{err: boom}, &stubRef{})

	if _, err := p.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err=%v, esperaba la causa original", err)
	}
}

func TestSnapshot_ImmutableCopy(t *testing.T) {
	t.Parallel()

	entries := []product.Product{{ID: "A", Barcode: "750A", PurchasePrice: "10"}}
	s := NewSnapshot(entries)

	// mutar el slice de origen no afecta al snapshot
	entries[0].PurchasePrice = "99"
	p, ok := s.ByID("A")
	if !ok || p.PurchasePrice != "10" {
		t.Fatalf("snapshot mutado: %+v", p)
	}
}
