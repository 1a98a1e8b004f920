package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Persister commits a finalized draft as a header row plus detail rows. The
// store runs one statement per call and offers no transaction across the two
// calls, so the second insert failing after the first succeeded leaves an
// orphaned header: that outcome is reported as *PartialCommitError, never
// hidden, and never rolled back automatically.
type Persister struct {
	store Store
}

func NewPersister(store Store) *Persister { return &Persister{store: store} }

// Commit persists the draft for the given user. It recomputes the header
// total from the surviving lines instead of trusting the draft's total.
// Failure modes:
//   - ErrNoUser: no writes performed
//   - ErrEmptyOrder: no line with quantity > 0, no writes performed
//   - *NoCommitError: header insert failed, safe to retry from scratch
//   - *PartialCommitError: header created, detail insert failed; retry the
//     details via RetryLines or flag the header id for manual cleanup
func (p *Persister) Commit(ctx context.Context, userID string, d Draft) (*Order, []Line, error) {
	if userID == "" {
		return nil, nil, ErrNoUser
	}

	lines, total := persistableLines(d)
	if len(lines) == 0 {
		return nil, nil, ErrEmptyOrder
	}

	o := &Order{
		UserID:     userID,
		Mode:       string(d.Mode),
		SupplierID: d.SupplierID,
		CategoryID: d.CategoryID,
		Total:      total.StringFixed(2),
	}
	id, err := p.store.InsertHeader(ctx, o)
	if err != nil {
		return nil, nil, &NoCommitError{Err: err}
	}
	o.ID = id
	for i := range lines {
		lines[i].OrderID = id
	}

	if err := p.store.InsertLines(ctx, id, lines); err != nil {
		return nil, nil, &PartialCommitError{OrderID: id, Err: err}
	}
	return o, lines, nil
}

// RetryLines re-attempts the detail insert against an already-created header.
// This is the recovery path after a partial commit; it must be used instead
// of a fresh Commit, which would duplicate the header.
func (p *Persister) RetryLines(ctx context.Context, orderID string, d Draft) error {
	lines, _ := persistableLines(d)
	if len(lines) == 0 {
		return ErrEmptyOrder
	}
	for i := range lines {
		lines[i].OrderID = orderID
	}
	if err := p.store.InsertLines(ctx, orderID, lines); err != nil {
		return &PartialCommitError{OrderID: orderID, Err: err}
	}
	return nil
}

// persistableLines filters the draft to quantity > 0 and recomputes each
// subtotal and the running total from quantity and unit price.
func persistableLines(d Draft) ([]Line, decimal.Decimal) {
	var out []Line
	total := decimal.Zero
	for _, ln := range d.Lines {
		if ln.Quantity <= 0 {
			continue
		}
		sub := ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		total = total.Add(sub)
		out = append(out, Line{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice.StringFixed(2),
			Subtotal:  sub.StringFixed(2),
		})
	}
	return out, total
}
