// Package product provides the repository interface and PostgreSQL implementation for managing products.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrices bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `id, name, barcode, purchase_price::text, sale_price::text,
	stock, supplier_id, category_id, COALESCE(image_url,''), created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Barcode, &p.PurchasePrice, &p.SalePrice,
		&p.Stock, &p.SupplierID, &p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, barcode, purchase_price, sale_price, stock,
		                      supplier_id, category_id, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),NOW(),NOW())
	`, p.ID, p.Name, p.Barcode, p.PurchasePrice, p.SalePrice, p.Stock,
		p.SupplierID, p.CategoryID, p.ImageURL)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := scanProduct(r.db.QueryRow(ctx, `
		SELECT `+productCols+`
		FROM products WHERE id=$1
	`, id), &p)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR barcode = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListAll returns the full catalog, ordered by name. The order workflow
// loads this once per session as its snapshot.
func (r *PGRepo) ListAll(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrices bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePrices {
		_, err := r.db.Exec(ctx, `
			UPDATE products
			SET name = COALESCE(NULLIF($2,''), name),
			    barcode = COALESCE(NULLIF($3,''), barcode),
			    purchase_price = $4,
			    sale_price = $5,
			    stock = $6,
			    supplier_id = $7,
			    category_id = $8,
			    image_url = NULLIF($9,''),
			    updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.Name, p.Barcode, p.PurchasePrice, p.SalePrice, p.Stock,
			p.SupplierID, p.CategoryID, p.ImageURL)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($2,''), name),
		    barcode = COALESCE(NULLIF($3,''), barcode),
		    stock = $4,
		    supplier_id = $5,
		    category_id = $6,
		    image_url = NULLIF($7,''),
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Barcode, p.Stock, p.SupplierID, p.CategoryID, p.ImageURL)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
