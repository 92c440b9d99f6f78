package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.BillRepository    = (*BillRepo)(nil)
)

// ProductRepo Inventory Store en memoria. Con u != nil opera dentro de una unidad.
type ProductRepo struct {
	s *Store
	u *unit
}

// GetByID devuelve una copia del producto (con los cambios pendientes de la unidad).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	p, ok := r.s.products[id]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if r.u != nil {
		if q, staged := r.u.staged[id]; staged {
			p.Quantity = q
		}
	}
	return &p, nil
}

// GetForUpdate no bloquea: el compare-and-set se valida al confirmar la unidad.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// DecrementQuantity resta amount si la cantidad actual es expected.
func (r *ProductRepo) DecrementQuantity(ctx context.Context, id, amount, expected int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	if r.u == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		p, ok := r.s.products[id]
		if err := checkDecrement(id, p, ok, amount, expected); err != nil {
			return err
		}
		p.Quantity -= amount
		r.s.products[id] = p
		return nil
	}

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return checkDecrement(id, entity.Product{}, false, amount, expected)
	}
	if err := checkDecrement(id, *p, true, amount, expected); err != nil {
		return err
	}
	if _, seen := r.u.base[id]; !seen {
		r.u.base[id] = p.Quantity
	}
	r.u.staged[id] = p.Quantity - amount
	return nil
}

func checkDecrement(id int64, p entity.Product, ok bool, amount, expected int64) error {
	switch {
	case !ok:
		return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	case p.Quantity != expected:
		return domain.ErrConflict
	case amount > p.Quantity:
		return fmt.Errorf("%w: solicitado %d, disponible %d", domain.ErrInsufficientStock, amount, p.Quantity)
	}
	return nil
}

// OrderRepo Order Ledger en memoria.
type OrderRepo struct {
	s *Store
	u *unit
}

// Append registra el pedido. Fuera de una unidad se confirma de inmediato.
func (r *OrderRepo) Append(_ context.Context, order *entity.Order) (int64, error) {
	if order.ClientID <= 0 || order.ProductID <= 0 || order.Quantity <= 0 || order.ID < 0 {
		return 0, domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := order.ID
	if id == 0 {
		id = r.s.nextFreeOrderID(r.u)
		if r.u != nil {
			r.u.generated[id] = true
		}
	} else if _, ok := r.s.orders[id]; ok || (r.u != nil && r.u.hasOrder(id)) {
		return 0, fmt.Errorf("pedido %d: %w", id, domain.ErrDuplicate)
	}

	o := *order
	o.ID = id
	if r.u != nil {
		r.u.orders = append(r.u.orders, o)
	} else {
		r.s.orders[id] = o
	}
	return id, nil
}

// nextFreeOrderID genera un ID no usado. Requiere s.mu tomado.
func (s *Store) nextFreeOrderID(u *unit) int64 {
	for {
		s.nextOrderID++
		id := s.nextOrderID
		if _, ok := s.orders[id]; ok {
			continue
		}
		if u != nil && u.hasOrder(id) {
			continue
		}
		return id
	}
}

// GetByID devuelve el pedido confirmado (o pendiente en la unidad actual).
func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	if r.u != nil {
		for _, o := range r.u.orders {
			if o.ID == id {
				return &o, nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// BillRepo Billing Ledger en memoria.
type BillRepo struct {
	s *Store
	u *unit
}

// Append registra la factura; el pedido referenciado debe existir.
func (r *BillRepo) Append(_ context.Context, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, committed := r.s.orders[bill.OrderID]
	if !committed && (r.u == nil || !r.u.hasOrder(bill.OrderID)) {
		return fmt.Errorf("%w: factura %d sin pedido", domain.ErrStorage, bill.OrderID)
	}
	if _, ok := r.s.bills[bill.OrderID]; ok || (r.u != nil && r.u.hasBill(bill.OrderID)) {
		return fmt.Errorf("factura %d: %w", bill.OrderID, domain.ErrDuplicate)
	}
	if r.u != nil {
		r.u.bills = append(r.u.bills, *bill)
		return nil
	}
	r.s.bills[bill.OrderID] = *bill
	return nil
}

// GetByOrderID devuelve la factura del pedido.
func (r *BillRepo) GetByOrderID(_ context.Context, orderID int64) (*entity.Bill, error) {
	if r.u != nil {
		for _, b := range r.u.bills {
			if b.OrderID == orderID {
				return &b, nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bills[orderID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}
