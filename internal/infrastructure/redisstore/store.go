// Package redisstore implementa inventario, pedidos y facturas sobre Redis.
// Cada colocación es una transacción optimista: WATCH sobre las claves leídas,
// escrituras encoladas y confirmadas con MULTI/EXEC. Si otra escritura toca una
// clave vigilada, EXEC aborta y se reporta domain.ErrConflict.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

var _ ordering.TxRunner = (*Store)(nil)

const defaultPrefix = "pedidos:"

// Store backend Redis.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore construye el store. prefix vacío usa "pedidos:".
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) productKey(id int64) string { return s.prefix + "product:" + strconv.FormatInt(id, 10) }
func (s *Store) orderKey(id int64) string   { return s.prefix + "order:" + strconv.FormatInt(id, 10) }
func (s *Store) billKey(id int64) string    { return s.prefix + "bill:" + strconv.FormatInt(id, 10) }
func (s *Store) orderSeqKey() string        { return s.prefix + "orders:seq" }

// Products repositorio de productos fuera de una unidad.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Orders repositorio de pedidos fuera de una unidad.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Bills repositorio de facturas fuera de una unidad.
func (s *Store) Bills() *BillRepo { return &BillRepo{s: s} }

// SeedProducts inserta o reemplaza productos del catálogo, validando cada uno.
func (s *Store) SeedProducts(ctx context.Context, products ...entity.Product) error {
	for _, p := range products {
		if err := validation.Validate(p, validation.ProductRules()...); err != nil {
			return fmt.Errorf("producto %d: %w", p.ID, err)
		}
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range products {
			pipe.HSet(ctx, s.productKey(p.ID), productFields(p))
		}
		return nil
	})
	return storageErr("seed products", err)
}

// Run ejecuta fn dentro de una transacción WATCH/MULTI/EXEC.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	billRepo repository.BillRepository,
) error) error {
	return s.atomically(ctx, func(u *unit) error {
		return fn(&ProductRepo{s: s, u: u}, &OrderRepo{s: s, u: u}, &BillRepo{s: s, u: u})
	})
}

func (s *Store) atomically(ctx context.Context, fn func(u *unit) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		u := newUnit(tx)
		if err := fn(u); err != nil {
			return err // UNWATCH al cerrar la tx; nada encolado llega a Redis
		}
		if len(u.ops) == 0 {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, op := range u.ops {
				op(pipe)
			}
			return nil
		})
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrConflict
	}
	return err
}

// unit estado de una transacción en curso.
type unit struct {
	tx      *redis.Tx
	watched map[string]bool
	staged  map[int64]int64 // cantidad resultante por producto
	orders  map[int64]entity.Order
	bills   map[int64]entity.Bill
	ops     []func(redis.Pipeliner)
}

func newUnit(tx *redis.Tx) *unit {
	return &unit{
		tx:      tx,
		watched: make(map[string]bool),
		staged:  make(map[int64]int64),
		orders:  make(map[int64]entity.Order),
		bills:   make(map[int64]entity.Bill),
	}
}

// watch vigila la clave (una sola vez por unidad) antes de leerla.
func (u *unit) watch(ctx context.Context, key string) error {
	if u.watched[key] {
		return nil
	}
	if err := u.tx.Watch(ctx, key).Err(); err != nil {
		return storageErr("watch", err)
	}
	u.watched[key] = true
	return nil
}

// storageErr envuelve errores de Redis como domain.ErrStorage.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
