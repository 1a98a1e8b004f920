package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeMC777/tienda-backoffice/internal/auth"
	"github.com/MikeMC777/tienda-backoffice/internal/httpx"
	"github.com/MikeMC777/tienda-backoffice/internal/order"
	"github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

type routerDeps struct {
	users     auth.Repository
	tokens    *auth.Tokens
	products  product.Repository
	ref       refdata.Repository
	sessions  *order.Sessions
	persister *order.Persister
	store     order.Store
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", registerHandler(d.users, d.tokens))
	r.POST("/auth/login", loginHandler(d.users, d.tokens))

	api := r.Group("/", auth.Require(d.tokens))

	api.GET("/products", listProductsHandler(d.products))
	api.POST("/products", createProductHandler(d.products))
	api.GET("/products/:id", getProductHandler(d.products))
	api.PUT("/products/:id", updateProductHandler(d.products))
	api.DELETE("/products/:id", deleteProductHandler(d.products))

	api.GET("/suppliers", listSuppliersHandler(d.ref))
	api.GET("/categories", listCategoriesHandler(d.ref))

	api.POST("/orders/draft", beginDraftHandler(d.sessions))
	api.PUT("/orders/draft/filter", filterDraftHandler(d.sessions))
	api.POST("/orders/draft/scan", scanHandler(d.sessions))
	api.PUT("/orders/draft/lines/:product_id", setQuantityHandler(d.sessions))
	api.GET("/orders/draft", showDraftHandler(d.sessions))
	api.DELETE("/orders/draft", discardDraftHandler(d.sessions))

	api.POST("/orders", commitOrderHandler(d.sessions, d.persister))
	api.POST("/orders/:id/lines", retryLinesHandler(d.sessions, d.persister))
	api.GET("/orders", listOrdersHandler(d.store))
	api.GET("/orders/:id", getOrderHandler(d.store))

	return r
}
