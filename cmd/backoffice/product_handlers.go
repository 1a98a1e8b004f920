package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

// validPrice accepts a non-negative decimal string ("18.50").
func validPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && !d.IsNegative()
}

// listProductsHandler godoc
// @Summary List products with optional search
// @Produce json
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		q := product.Query{Q: c.Query("q"), Limit: limit, Offset: offset}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Limit: limit, Offset: offset, Items: items})
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, product.HTTPError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary Create a product
// @Accept json
// @Produce json
// @Success 201 {object} product.Product
// @Router /products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, product.HTTPError{Error: "invalid json"})
			return
		}
		if req.Name == "" || req.Barcode == "" || !validPrice(req.PurchasePrice) || !validPrice(req.SalePrice) || req.Stock < 0 {
			c.JSON(http.StatusBadRequest, product.HTTPError{Error: "name, barcode and non-negative prices/stock are required"})
			return
		}
		p := &product.Product{
			ID:            uuid.NewString(),
			Name:          req.Name,
			Barcode:       req.Barcode,
			PurchasePrice: req.PurchasePrice,
			SalePrice:     req.SalePrice,
			Stock:         req.Stock,
			SupplierID:    req.SupplierID,
			CategoryID:    req.CategoryID,
			ImageURL:      req.ImageURL,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, product.HTTPError{Error: "invalid json"})
			return
		}
		cur, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, product.HTTPError{Error: "not found"})
			return
		}

		updatePrices := req.PurchasePrice != "" || req.SalePrice != ""
		if req.PurchasePrice != "" {
			if !validPrice(req.PurchasePrice) {
				c.JSON(http.StatusBadRequest, product.HTTPError{Error: "invalid purchase_price"})
				return
			}
			cur.PurchasePrice = req.PurchasePrice
		}
		if req.SalePrice != "" {
			if !validPrice(req.SalePrice) {
				c.JSON(http.StatusBadRequest, product.HTTPError{Error: "invalid sale_price"})
				return
			}
			cur.SalePrice = req.SalePrice
		}
		if req.Name != "" {
			cur.Name = req.Name
		}
		if req.Barcode != "" {
			cur.Barcode = req.Barcode
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, product.HTTPError{Error: "stock must be non-negative"})
				return
			}
			cur.Stock = *req.Stock
		}
		if req.SupplierID != nil {
			cur.SupplierID = req.SupplierID
		}
		if req.CategoryID != nil {
			cur.CategoryID = req.CategoryID
		}
		if req.ImageURL != "" {
			cur.ImageURL = req.ImageURL
		}

		if err := repo.Update(c.Request.Context(), cur, updatePrices); err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, cur)
	}
}

func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, product.HTTPError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listSuppliersHandler(repo refdata.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListSuppliers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		if out == nil {
			out = []refdata.Supplier{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func listCategoriesHandler(repo refdata.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, product.HTTPError{Error: err.Error()})
			return
		}
		if out == nil {
			out = []refdata.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}
