package main

import (
	"context"
	"log"

	"github.com/MikeMC777/tienda-backoffice/internal/auth"
	"github.com/MikeMC777/tienda-backoffice/internal/catalog"
	"github.com/MikeMC777/tienda-backoffice/internal/config"
	"github.com/MikeMC777/tienda-backoffice/internal/db"
	"github.com/MikeMC777/tienda-backoffice/internal/order"
	"github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := db.RunMigrations(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("[db] migrations: %v", err)
	}
	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[db] connect: %v", err)
	}
	defer pool.Close()

	users := auth.NewPGRepo(pool)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer)
	products := product.NewPGRepo(pool)
	ref := refdata.NewPGRepo(pool)
	provider := catalog.NewProvider(products, ref)
	sessions := order.NewSessions(provider)
	store := order.NewPGStore(pool)
	persister := order.NewPersister(store)

	r := newRouter(routerDeps{
		users:     users,
		tokens:    tokens,
		products:  products,
		ref:       ref,
		sessions:  sessions,
		persister: persister,
		store:     store,
	})

	log.Printf("backoffice listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
