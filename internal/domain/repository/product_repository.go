package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository define el puerto del Inventory Store.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate lee el producto dentro de una unidad de colocación. Los backends con
	// bloqueo de fila lo bloquean aquí; los optimistas vigilan la clave.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// DecrementQuantity resta amount solo si la cantidad actual sigue siendo expected y
	// amount <= cantidad. Devuelve domain.ErrProductNotFound, domain.ErrInsufficientStock
	// o domain.ErrConflict sin modificar el estado.
	DecrementQuantity(ctx context.Context, id, amount, expected int64) error
}
