package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/catalog"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// storage backend elegido por STORE_DRIVER.
type storage struct {
	runner   ordering.TxRunner
	products repository.ProductRepository
	orders   repository.OrderRepository
	bills    repository.BillRepository
	seed     func(ctx context.Context, products ...entity.Product) error
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				pool.Close()
				return nil, err
			}
		}
		products := postgres.NewProductRepository(pool)
		return &storage{
			runner:   postgres.NewTxRunner(pool),
			products: products,
			orders:   postgres.NewOrderRepository(pool),
			bills:    postgres.NewBillRepository(pool),
			seed:     products.Upsert,
			close:    pool.Close,
		}, nil

	case config.StoreDriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s := redisstore.NewStore(client, "")
		return &storage{
			runner:   s,
			products: s.Products(),
			orders:   s.Orders(),
			bills:    s.Bills(),
			seed:     s.SeedProducts,
			close:    func() { _ = client.Close() },
		}, nil

	case config.StoreDriverMemory:
		s := memory.NewStore()
		return &storage{
			runner:   s,
			products: s.Products(),
			orders:   s.Orders(),
			bills:    s.Bills(),
			seed: func(_ context.Context, products ...entity.Product) error {
				return s.SeedProducts(products...)
			},
			close: func() {},
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}

// seedCatalog carga STORE_SEED_FILE si está definido.
func (s *storage) seedCatalog(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) error {
	if cfg.SeedFile == "" {
		return nil
	}
	products, err := catalog.ReadFile(cfg.SeedFile, catalog.Options{Latin1: cfg.SeedLatin1})
	if err != nil {
		return err
	}
	if err := s.seed(ctx, products...); err != nil {
		return fmt.Errorf("cargar catálogo: %w", err)
	}
	log.Info().Str("file", cfg.SeedFile).Int("products", len(products)).Msg("catálogo cargado")
	return nil
}
