package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects which source feeds the draft.
type Mode string

const (
	ModeUnselected Mode = ""
	ModeSupplier   Mode = "supplier"
	ModeCategory   Mode = "category"
	ModeFree       Mode = "free"
)

func (m Mode) valid() bool {
	return m == ModeSupplier || m == ModeCategory || m == ModeFree
}

// LineItem is one product's requested quantity within a draft. The unit
// price is copied from the catalog entry the first time the product enters
// the draft; a later catalog edit does not change it.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Draft is an immutable snapshot of the in-progress order, handed to the
// persister on commit. Zero-quantity lines stay in the draft; the persister
// drops them.
type Draft struct {
	Mode       Mode
	SupplierID *string
	CategoryID *string
	Lines      []LineItem
	Total      decimal.Decimal
}

// Order is the persisted header row.
type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Mode       string    `json:"mode"`
	SupplierID *string   `json:"supplier_id"`
	CategoryID *string   `json:"category_id"`
	Total      string    `json:"total"` // NUMERIC -> string
	CreatedAt  time.Time `json:"created_at"`
}

// Line is one persisted detail row.
type Line struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// Row is what the workflow table displays: a candidate (or scanned) product
// overlaid with the quantity entered so far.
type Row struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Stock     int    `json:"stock"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}
