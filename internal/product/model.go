package product

import "time"

type Product struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
	// We store prices as strings to avoid rounding errors (NUMERIC in Postgres)
	PurchasePrice string    `json:"purchase_price"`
	SalePrice     string    `json:"sale_price"`
	Stock         int       `json:"stock"`
	SupplierID    *string   `json:"supplier_id,omitempty"`
	CategoryID    *string   `json:"category_id,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name          string  `json:"name"           example:"Harina 1kg"`
	Barcode       string  `json:"barcode"        example:"7501000111112"`
	PurchasePrice string  `json:"purchase_price" example:"18.50"`
	SalePrice     string  `json:"sale_price"     example:"24.00"`
	Stock         int     `json:"stock"          example:"40"`
	SupplierID    *string `json:"supplier_id,omitempty"`
	CategoryID    *string `json:"category_id,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name          string  `json:"name"`
	Barcode       string  `json:"barcode"`
	PurchasePrice string  `json:"purchase_price"`
	SalePrice     string  `json:"sale_price"`
	Stock         *int    `json:"stock"`
	SupplierID    *string `json:"supplier_id"`
	CategoryID    *string `json:"category_id"`
	ImageURL      string  `json:"image_url"`
}
