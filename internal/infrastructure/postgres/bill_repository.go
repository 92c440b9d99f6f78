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

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo Billing Ledger sobre PostgreSQL. total se guarda como NUMERIC (shopspring/decimal).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Append inserta la factura. La FK a orders exige que el pedido exista en la misma tx.
func (r *BillRepo) Append(ctx context.Context, bill *entity.Bill) error {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO bills (order_id, client_id, product_id, quantity, price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO NOTHING`,
		bill.OrderID, bill.ClientID, bill.ProductID, bill.Quantity, bill.Price, bill.Total, bill.CreatedAt,
	)
	if err != nil {
		return mapError("insert bill", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("factura %d: %w", bill.OrderID, domain.ErrDuplicate)
	}
	return nil
}

// GetByOrderID obtiene la factura de un pedido.
func (r *BillRepo) GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error) {
	var b entity.Bill
	err := r.q.QueryRow(ctx, `
		SELECT order_id, client_id, product_id, quantity, price, total, created_at
		FROM bills WHERE order_id = $1`, orderID,
	).Scan(&b.OrderID, &b.ClientID, &b.ProductID, &b.Quantity, &b.Price, &b.Total, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get bill", err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}
