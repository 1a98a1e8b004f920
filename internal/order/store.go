package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the remote table service the persister writes against. Each call
// is a single remote statement; the service gives the client no transaction
// spanning calls, which is why Commit distinguishes partial from failed
// commits instead of pretending atomicity.
type Store interface {
	InsertHeader(ctx context.Context, o *Order) (string, error)
	InsertLines(ctx context.Context, orderID string, lines []Line) error
	GetByID(ctx context.Context, id string) (*Order, []Line, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Order, error)
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) InsertHeader(ctx context.Context, o *Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id string
	var createdAt time.Time
	err := s.db.QueryRow(ctx, `
    INSERT INTO orders (user_id, mode, supplier_id, category_id, total, created_at)
    VALUES ($1,$2,$3,$4,$5,NOW())
    RETURNING id, created_at
  `, o.UserID, o.Mode, o.SupplierID, o.CategoryID, o.Total).Scan(&id, &createdAt)
	if err != nil {
		return "", err
	}
	o.CreatedAt = createdAt
	return id, nil
}

// InsertLines writes all detail rows in one statement. A loop of single-row
// inserts could stop halfway and leave an order with some of its lines; one
// statement keeps the call all-or-nothing even without a transaction.
func (s *PGStore) InsertLines(ctx context.Context, orderID string, lines []Line) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	productIDs := make([]string, len(lines))
	quantities := make([]int, len(lines))
	unitPrices := make([]string, len(lines))
	subtotals := make([]string, len(lines))
	for i, ln := range lines {
		productIDs[i] = ln.ProductID
		quantities[i] = ln.Quantity
		unitPrices[i] = ln.UnitPrice
		subtotals[i] = ln.Subtotal
	}

	_, err := s.db.Exec(ctx, `
    INSERT INTO order_lines (order_id, product_id, quantity, unit_price, subtotal)
    SELECT $1, pid, qty, price, sub
    FROM unnest($2::uuid[], $3::int[], $4::numeric[], $5::numeric[]) AS t(pid, qty, price, sub)
  `, orderID, productIDs, quantities, unitPrices, subtotals)
	return err
}

func (s *PGStore) GetByID(ctx context.Context, id string) (*Order, []Line, error) {
	var o Order
	if err := s.db.QueryRow(ctx, `
    SELECT id, user_id, mode, supplier_id, category_id, total::text, created_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Mode, &o.SupplierID, &o.CategoryID, &o.Total, &o.CreatedAt); err != nil {
		return nil, nil, ErrNotFound
	}
	rows, err := s.db.Query(ctx, `
    SELECT order_id, product_id, quantity, unit_price::text, subtotal::text
    FROM order_lines WHERE order_id=$1
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var lines []Line
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.OrderID, &ln.ProductID, &ln.Quantity, &ln.UnitPrice, &ln.Subtotal); err != nil {
			return nil, nil, err
		}
		lines = append(lines, ln)
	}
	return &o, lines, rows.Err()
}

func (s *PGStore) ListRecent(ctx context.Context, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.Query(ctx, `
    SELECT id, user_id, mode, supplier_id, category_id, total::text, created_at
    FROM orders
    ORDER BY created_at DESC LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Mode, &o.SupplierID, &o.CategoryID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
