package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-backoffice/internal/catalog"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

// Controller is the workflow state machine: Unselected -> supplier | category
// | free mode. It decides which products feed the aggregator and is the only
// component allowed to reset the draft wholesale.
type Controller struct {
	data       *catalog.Data
	mode       Mode
	supplierID string
	categoryID string
	agg        *Aggregator
}

func NewController(data *catalog.Data) *Controller {
	return &Controller{data: data}
}

func (c *Controller) Mode() Mode { return c.mode }

func (c *Controller) Suppliers() []refdata.Supplier  { return c.data.Suppliers }
func (c *Controller) Categories() []refdata.Category { return c.data.Categories }

// SetMode starts a fresh, empty draft under the given mode. Whatever was
// entered before is discarded.
func (c *Controller) SetMode(m Mode) error {
	if !m.valid() {
		return fmt.Errorf("mode %q: %w", m, ErrNotFound)
	}
	c.mode = m
	c.supplierID = ""
	c.categoryID = ""
	c.agg = NewAggregator(c.data.Snapshot)
	return nil
}

// Reset returns the workflow to Unselected and clears the draft entirely.
func (c *Controller) Reset() {
	c.mode = ModeUnselected
	c.supplierID = ""
	c.categoryID = ""
	c.agg = nil
}

// SelectSupplier re-filters the candidate pool within supplier mode.
// Quantities already entered survive for products still in the new pool;
// the rest are dropped.
func (c *Controller) SelectSupplier(id string) error {
	if c.mode != ModeSupplier {
		return fmt.Errorf("supplier filter in mode %q: %w", c.mode, ErrNoMode)
	}
	if !c.supplierExists(id) {
		return fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	c.supplierID = id
	c.agg.SetCandidateSet(c.data.Snapshot.FilterBySupplier(id))
	return nil
}

func (c *Controller) SelectCategory(id string) error {
	if c.mode != ModeCategory {
		return fmt.Errorf("category filter in mode %q: %w", c.mode, ErrNoMode)
	}
	if !c.categoryExists(id) {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	c.categoryID = id
	c.agg.SetCandidateSet(c.data.Snapshot.FilterByCategory(id))
	return nil
}

// Scan feeds a barcode event into the aggregator. Free mode works purely by
// scans; the other modes accept them too, the lookup always goes against the
// full snapshot.
func (c *Controller) Scan(barcode string) (*LineItem, error) {
	if c.agg == nil {
		return nil, ErrNoMode
	}
	return c.agg.RecordScan(barcode)
}

func (c *Controller) SetQuantity(productID string, quantity int) error {
	if c.agg == nil {
		return ErrNoMode
	}
	return c.agg.SetQuantity(productID, quantity)
}

func (c *Controller) Rows() []Row {
	if c.agg == nil {
		return nil
	}
	return c.agg.Rows()
}

func (c *Controller) Total() decimal.Decimal {
	if c.agg == nil {
		return decimal.Zero
	}
	return c.agg.Total()
}

// Draft freezes the current state into an immutable snapshot for the
// persister.
func (c *Controller) Draft() (Draft, error) {
	if c.agg == nil {
		return Draft{}, ErrNoMode
	}
	d := Draft{
		Mode:  c.mode,
		Lines: c.agg.Lines(),
		Total: c.agg.Total(),
	}
	if c.supplierID != "" {
		id := c.supplierID
		d.SupplierID = &id
	}
	if c.categoryID != "" {
		id := c.categoryID
		d.CategoryID = &id
	}
	return d, nil
}

func (c *Controller) supplierExists(id string) bool {
	for _, s := range c.data.Suppliers {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) categoryExists(id string) bool {
	for _, cat := range c.data.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}
