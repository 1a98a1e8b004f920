package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-backoffice/internal/catalog"
	"github.com/MikeMC777/tienda-backoffice/internal/product"
)

// Aggregator owns the in-memory draft lines. It merges scans and quantity
// edits into at most one line per product and keeps subtotals derived.
// It does not decide which products are candidates; the controller does.
type Aggregator struct {
	snap       *catalog.Snapshot
	candidates []product.Product
	inPool     map[string]bool
	lines      map[string]*LineItem
	extras     []string // scanned product ids outside the candidate pool, in scan order
}

func NewAggregator(snap *catalog.Snapshot) *Aggregator {
	return &Aggregator{
		snap:   snap,
		inPool: map[string]bool{},
		lines:  map[string]*LineItem{},
	}
}

// SetCandidateSet replaces the filtered candidate pool. Lines for products
// no longer in the pool are dropped: the user must not keep ordering
// something the table no longer shows. It never creates lines by itself.
func (a *Aggregator) SetCandidateSet(entries []product.Product) {
	a.candidates = append([]product.Product(nil), entries...)
	a.inPool = make(map[string]bool, len(entries))
	for _, p := range entries {
		a.inPool[p.ID] = true
	}
	for id := range a.lines {
		if !a.inPool[id] {
			delete(a.lines, id)
		}
	}
	a.extras = nil
}

// RecordScan looks the barcode up in the full catalog snapshot (free mode
// has no candidate pool to search) and merges quantity +1 into the product's
// line, creating it if absent. Scanning the same barcode twice yields one
// line with quantity 2.
func (a *Aggregator) RecordScan(barcode string) (*LineItem, error) {
	p, ok := a.snap.ByBarcode(barcode)
	if !ok {
		return nil, fmt.Errorf("barcode %q: %w", barcode, ErrNotFound)
	}
	ln, err := a.ensureLine(p)
	if err != nil {
		return nil, err
	}
	ln.Quantity++
	ln.Subtotal = ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity)))
	return ln, nil
}

// SetQuantity overrides a line's quantity. Negative values are rejected and
// the line is left unchanged. Zero keeps the line visible but marks it
// non-persistable. The product must be visible in the table: a candidate or
// an already-scanned line.
func (a *Aggregator) SetQuantity(productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInvalidQuantity)
	}
	ln, ok := a.lines[productID]
	if !ok {
		p, inPool := a.candidate(productID)
		if !inPool {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		var err error
		ln, err = a.ensureLine(p)
		if err != nil {
			return err
		}
	}
	ln.Quantity = quantity
	ln.Subtotal = ln.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return nil
}

// Total is recomputed from the current lines on every call; it is never a
// cached value that could go stale across a mutation.
func (a *Aggregator) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range a.lines {
		if ln.Quantity > 0 {
			total = total.Add(ln.Subtotal)
		}
	}
	return total
}

// Rows returns the table view: the candidate pool in order, overlaid with
// entered quantities, followed by scanned products outside the pool in scan
// order. In free mode the pool is empty and only scans appear.
func (a *Aggregator) Rows() []Row {
	rows := make([]Row, 0, len(a.candidates)+len(a.extras))
	for _, p := range a.candidates {
		rows = append(rows, a.row(&p))
	}
	for _, id := range a.extras {
		if p, ok := a.snap.ByID(id); ok {
			rows = append(rows, a.row(p))
		}
	}
	return rows
}

// Lines returns the draft's line items in display order.
func (a *Aggregator) Lines() []LineItem {
	out := make([]LineItem, 0, len(a.lines))
	for _, p := range a.candidates {
		if ln, ok := a.lines[p.ID]; ok {
			out = append(out, *ln)
		}
	}
	for _, id := range a.extras {
		if ln, ok := a.lines[id]; ok {
			out = append(out, *ln)
		}
	}
	return out
}

func (a *Aggregator) candidate(productID string) (*product.Product, bool) {
	if !a.inPool[productID] {
		return nil, false
	}
	for i := range a.candidates {
		if a.candidates[i].ID == productID {
			return &a.candidates[i], true
		}
	}
	return nil, false
}

// ensureLine creates the product's line if absent, snapshotting the purchase
// price at first aggregation. A later catalog price change must not alter
// subtotals already computed in the open draft.
func (a *Aggregator) ensureLine(p *product.Product) (*LineItem, error) {
	if ln, ok := a.lines[p.ID]; ok {
		return ln, nil
	}
	price, err := decimal.NewFromString(p.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad purchase price %q: %w", p.ID, p.PurchasePrice, err)
	}
	ln := &LineItem{ProductID: p.ID, UnitPrice: price, Subtotal: decimal.Zero}
	a.lines[p.ID] = ln
	if !a.inPool[p.ID] {
		a.extras = append(a.extras, p.ID)
	}
	return ln, nil
}

func (a *Aggregator) row(p *product.Product) Row {
	r := Row{
		ProductID: p.ID,
		Name:      p.Name,
		Barcode:   p.Barcode,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
		UnitPrice: p.PurchasePrice,
		Subtotal:  "0",
	}
	if ln, ok := a.lines[p.ID]; ok {
		r.Quantity = ln.Quantity
		r.UnitPrice = ln.UnitPrice.String()
		r.Subtotal = ln.Subtotal.String()
	}
	return r
}
