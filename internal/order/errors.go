package order

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers barcode/product lookup misses and missing orders.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuantity rejects negative quantity edits; the line is left
	// unchanged.
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")
	// ErrEmptyOrder blocks commit when no line has quantity > 0.
	ErrEmptyOrder = errors.New("order has no lines to persist")
	// ErrNoUser blocks commit when no authenticated user id is available;
	// an order may not be attributed to no one.
	ErrNoUser = errors.New("no authenticated user")
	// ErrNoMode signals a workflow operation before a selection mode was set.
	ErrNoMode = errors.New("no selection mode set")
)

// NoCommitError means the header insert itself failed: nothing was written
// and a fresh commit is safe.
type NoCommitError struct {
	Err error
}

func (e *NoCommitError) Error() string {
	return fmt.Sprintf("order header insert failed: %v", e.Err)
}

func (e *NoCommitError) Unwrap() error { return e.Err }

// PartialCommitError means the header row was created but the detail insert
// failed. The header id is carried so the caller can retry the detail insert
// against it or flag it for manual cleanup. Re-running a fresh commit would
// duplicate the header.
type PartialCommitError struct {
	OrderID string
	Err     error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("order %s: header created but detail insert failed: %v", e.OrderID, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
