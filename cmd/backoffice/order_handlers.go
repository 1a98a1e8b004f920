package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/tienda-backoffice/internal/auth"
	"github.com/MikeMC777/tienda-backoffice/internal/order"
)

type beginDraftRequest struct {
	Mode string `json:"mode" example:"supplier"`
}

type filterDraftRequest struct {
	SupplierID string `json:"supplier_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
}

type scanRequest struct {
	Barcode string `json:"barcode" example:"7501000111112"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func draftView(ctl *order.Controller) gin.H {
	return gin.H{
		"mode":  string(ctl.Mode()),
		"rows":  ctl.Rows(),
		"total": ctl.Total().StringFixed(2),
	}
}

// beginDraftHandler opens (or restarts) the user's draft under a mode. The
// catalog snapshot and reference lists are fetched here, once per entry.
func beginDraftHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req beginDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		ctl, err := sessions.Begin(c.Request.Context(), auth.UserID(c))
		if err != nil {
			// fetch failure is recoverable: the client retries this call
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if err := ctl.SetMode(order.Mode(req.Mode)); err != nil {
			sessions.End(auth.UserID(c))
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be supplier, category or free"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"mode":       string(ctl.Mode()),
			"suppliers":  ctl.Suppliers(),
			"categories": ctl.Categories(),
		})
	}
}

func filterDraftHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl, ok := sessions.Get(auth.UserID(c))
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		var req filterDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		var err error
		switch {
		case req.SupplierID != "":
			err = ctl.SelectSupplier(req.SupplierID)
		case req.CategoryID != "":
			err = ctl.SelectCategory(req.CategoryID)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "supplier_id or category_id is required"})
			return
		}
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftView(ctl))
	}
}

func scanHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl, ok := sessions.Get(auth.UserID(c))
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Barcode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
			return
		}
		if _, err := ctl.Scan(req.Barcode); err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftView(ctl))
	}
}

func setQuantityHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl, ok := sessions.Get(auth.UserID(c))
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		if err := ctl.SetQuantity(c.Param("product_id"), *req.Quantity); err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftView(ctl))
	}
}

func showDraftHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl, ok := sessions.Get(auth.UserID(c))
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		c.JSON(http.StatusOK, draftView(ctl))
	}
}

func discardDraftHandler(sessions *order.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.End(auth.UserID(c))
		c.Status(http.StatusNoContent)
	}
}

// commitOrderHandler freezes the draft and persists it. On success the draft
// is discarded. On a partial commit the draft is kept so the client can
// address the orphaned header (retry details or cancel) instead of issuing a
// fresh commit that would duplicate it.
func commitOrderHandler(sessions *order.Sessions, persister *order.Persister) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UserID(c)
		ctl, ok := sessions.Get(uid)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		draft, err := ctl.Draft()
		if err != nil {
			writeOrderError(c, err)
			return
		}
		o, lines, err := persister.Commit(c.Request.Context(), uid, draft)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		sessions.End(uid)
		c.JSON(http.StatusCreated, gin.H{"order": o, "lines": lines})
	}
}

// retryLinesHandler is the recovery path after a partial commit: it retries
// the detail insert against the header id reported by the failed commit,
// never creating a second header.
func retryLinesHandler(sessions *order.Sessions, persister *order.Persister) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UserID(c)
		ctl, ok := sessions.Get(uid)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no draft in progress"})
			return
		}
		draft, err := ctl.Draft()
		if err != nil {
			writeOrderError(c, err)
			return
		}
		if err := persister.RetryLines(c.Request.Context(), c.Param("id"), draft); err != nil {
			writeOrderError(c, err)
			return
		}
		sessions.End(uid)
		c.JSON(http.StatusCreated, gin.H{"order_id": c.Param("id")})
	}
}

func listOrdersHandler(store order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := store.ListRecent(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getOrderHandler(store order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, lines, err := store.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "lines": lines})
	}
}

// writeOrderError maps the order error taxonomy onto HTTP. The partial
// commit case always carries the created header id for the recovery path.
func writeOrderError(c *gin.Context, err error) {
	var partial *order.PartialCommitError
	var nocommit *order.NoCommitError
	switch {
	case errors.As(err, &partial):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "order header created but lines failed; do not re-commit",
			"code":     "partial_commit",
			"order_id": partial.OrderID,
		})
	case errors.As(err, &nocommit):
		c.JSON(http.StatusBadGateway, gin.H{"error": "order not created, safe to retry", "code": "no_commit"})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrEmptyOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no products in the order"})
	case errors.Is(err, order.ErrNoUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNoMode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
