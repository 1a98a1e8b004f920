// Package catalog loads the per-workflow view of the store: the full product
// snapshot plus the supplier and category lists that drive filtering.
package catalog

import (
	"github.com/MikeMC777/tienda-backoffice/internal/product"
)

// Snapshot is an immutable copy of the product catalog taken at workflow
// entry. A catalog edit made while a draft is open does not affect it.
type Snapshot struct {
	entries   []product.Product
	byID      map[string]*product.Product
	byBarcode map[string]*product.Product
}

func NewSnapshot(entries []product.Product) *Snapshot {
	s := &Snapshot{
		entries:   append([]product.Product(nil), entries...),
		byID:      make(map[string]*product.Product, len(entries)),
		byBarcode: make(map[string]*product.Product, len(entries)),
	}
	for i := range s.entries {
		p := &s.entries[i]
		s.byID[p.ID] = p
		if p.Barcode != "" {
			s.byBarcode[p.Barcode] = p
		}
	}
	return s
}

func (s *Snapshot) ByID(id string) (*product.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *Snapshot) ByBarcode(code string) (*product.Product, bool) {
	p, ok := s.byBarcode[code]
	return p, ok
}

// FilterBySupplier returns the catalog entries for one supplier, in
// snapshot order.
func (s *Snapshot) FilterBySupplier(supplierID string) []product.Product {
	var out []product.Product
	for _, p := range s.entries {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Snapshot) FilterByCategory(categoryID string) []product.Product {
	var out []product.Product
	for _, p := range s.entries {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Snapshot) Len() int { return len(s.entries) }
