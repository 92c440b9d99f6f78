package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// BillRepository define el puerto del Billing Ledger (solo inserción, clave = order_id).
type BillRepository interface {
	Append(ctx context.Context, bill *entity.Bill) error
	GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error)
}
