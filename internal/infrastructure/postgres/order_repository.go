package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// maxIDProbes intentos de obtener un ID libre de la secuencia cuando choca con IDs explícitos.
const maxIDProbes = 16

// OrderRepo Order Ledger sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Append inserta el pedido y devuelve su ID. Con order.ID == 0 se toma de la secuencia.
// ON CONFLICT DO NOTHING evita abortar la transacción ante un ID ya usado.
func (r *OrderRepo) Append(ctx context.Context, order *entity.Order) (int64, error) {
	if order.ClientID <= 0 || order.ProductID <= 0 || order.Quantity <= 0 || order.ID < 0 {
		return 0, domain.ErrInvalidInput
	}
	probes := 1
	if order.ID == 0 {
		probes = maxIDProbes
	}
	for i := 0; i < probes; i++ {
		var id int64
		err := r.q.QueryRow(ctx, `
			INSERT INTO orders (id, client_id, product_id, quantity, price, created_at)
			VALUES (COALESCE(NULLIF($1::bigint, 0), nextval(pg_get_serial_sequence('orders', 'id'))), $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
			RETURNING id`,
			order.ID, order.ClientID, order.ProductID, order.Quantity, order.Price, order.CreatedAt,
		).Scan(&id)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return 0, mapError("insert order", err)
		case order.ID > 0:
			return 0, fmt.Errorf("pedido %d: %w", order.ID, domain.ErrDuplicate)
		}
		// la secuencia devolvió un ID ya usado por un pedido con ID explícito
	}
	return 0, fmt.Errorf("%w: sin ID libre para el pedido", domain.ErrStorage)
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT id, client_id, product_id, quantity, price, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.ClientID, &o.ProductID, &o.Quantity, &o.Price, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get order", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}
