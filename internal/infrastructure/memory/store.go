// Package memory implementa el almacenamiento de inventario, pedidos y facturas en memoria.
// Las unidades de colocación son optimistas: las escrituras se acumulan y se validan
// (compare-and-set sobre la cantidad) al confirmar, bajo el lock del store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

var _ ordering.TxRunner = (*Store)(nil)

// Store estado compartido. Los repositorios devueltos fuera de Run escriben directamente.
type Store struct {
	mu          sync.RWMutex
	products    map[int64]entity.Product
	orders      map[int64]entity.Order
	bills       map[int64]entity.Bill
	nextOrderID int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]entity.Product),
		orders:   make(map[int64]entity.Order),
		bills:    make(map[int64]entity.Bill),
	}
}

// SeedProducts inserta o reemplaza productos del catálogo, validando cada uno.
func (s *Store) SeedProducts(products ...entity.Product) error {
	for _, p := range products {
		if err := validation.Validate(p, validation.ProductRules()...); err != nil {
			return fmt.Errorf("producto %d: %w", p.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ID] = p
	}
	return nil
}

// Counts devuelve el número de pedidos y facturas confirmados.
func (s *Store) Counts() (orders, bills int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), len(s.bills)
}

// Products repositorio de productos fuera de una unidad.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Orders repositorio de pedidos fuera de una unidad.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Bills repositorio de facturas fuera de una unidad.
func (s *Store) Bills() *BillRepo { return &BillRepo{s: s} }

// Run ejecuta fn contra una unidad de trabajo y la confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	billRepo repository.BillRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := newUnit()
	if err := fn(&ProductRepo{s: s, u: u}, &OrderRepo{s: s, u: u}, &BillRepo{s: s, u: u}); err != nil {
		return err // la unidad se descarta
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(u)
}

// unit cambios pendientes de una colocación.
type unit struct {
	base   map[int64]int64 // cantidad observada al primer decremento (compare-and-set)
	staged map[int64]int64 // cantidad resultante
	orders []entity.Order
	bills  []entity.Bill
	// generated IDs asignados por el ledger (no por el caller) dentro de la unidad
	generated map[int64]bool
}

func newUnit() *unit {
	return &unit{
		base:      make(map[int64]int64),
		staged:    make(map[int64]int64),
		generated: make(map[int64]bool),
	}
}

func (u *unit) hasOrder(id int64) bool {
	for _, o := range u.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (u *unit) hasBill(orderID int64) bool {
	for _, b := range u.bills {
		if b.OrderID == orderID {
			return true
		}
	}
	return false
}

// commit valida y aplica la unidad de forma atómica.
func (s *Store) commit(u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expected := range u.base {
		p, ok := s.products[id]
		if !ok || p.Quantity != expected {
			return domain.ErrConflict
		}
	}
	for _, o := range u.orders {
		if _, ok := s.orders[o.ID]; ok {
			if u.generated[o.ID] {
				// otra unidad tomó el ID con un valor explícito; al reintentar se genera otro
				return fmt.Errorf("pedido %d: %w", o.ID, domain.ErrConflict)
			}
			return fmt.Errorf("pedido %d: %w", o.ID, domain.ErrDuplicate)
		}
	}
	for _, b := range u.bills {
		if _, ok := s.bills[b.OrderID]; ok {
			return fmt.Errorf("factura %d: %w", b.OrderID, domain.ErrDuplicate)
		}
	}

	for id, qty := range u.staged {
		p := s.products[id]
		p.Quantity = qty
		s.products[id] = p
	}
	for _, o := range u.orders {
		s.orders[o.ID] = o
	}
	for _, b := range u.bills {
		s.bills[b.OrderID] = b
	}
	return nil
}
