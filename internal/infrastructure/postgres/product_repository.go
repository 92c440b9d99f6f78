package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo Inventory Store sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const selectProduct = `SELECT id, name, price, quantity FROM products WHERE id = $1`

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, "get product", selectProduct, id)
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, "get product for update", selectProduct+" FOR UPDATE", id)
}

func (r *ProductRepo) get(ctx context.Context, op, query string, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return &p, nil
}

// DecrementQuantity resta amount solo si la cantidad actual sigue siendo expected.
// Con 0 filas afectadas relee la fila para clasificar el motivo.
func (r *ProductRepo) DecrementQuantity(ctx context.Context, id, amount, expected int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET quantity = quantity - $2
		WHERE id = $1 AND quantity = $3 AND quantity >= $2`,
		id, amount, expected,
	)
	if err != nil {
		return mapError("decrement quantity", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	p, err := r.GetByID(ctx, id)
	switch {
	case err != nil:
		return err
	case p == nil:
		return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	case p.Quantity != expected:
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: solicitado %d, disponible %d", domain.ErrInsufficientStock, amount, p.Quantity)
	}
}

// Upsert inserta o reemplaza productos del catálogo (carga inicial).
func (r *ProductRepo) Upsert(ctx context.Context, products ...entity.Product) error {
	for _, p := range products {
		if err := validation.Validate(p, validation.ProductRules()...); err != nil {
			return fmt.Errorf("producto %d: %w", p.ID, err)
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO products (id, name, price, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price, quantity = EXCLUDED.quantity`,
			p.ID, p.Name, p.Price, p.Quantity,
		)
		if err != nil {
			return mapError("upsert product", err)
		}
	}
	return nil
}
