package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto del Order Ledger (solo inserción).
type OrderRepository interface {
	// Append inserta el pedido y devuelve su ID. Si order.ID es 0 el ledger lo genera.
	// Un ID repetido devuelve domain.ErrDuplicate.
	Append(ctx context.Context, order *entity.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
}
