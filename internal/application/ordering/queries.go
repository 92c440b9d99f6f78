package ordering

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// QueryUseCase lecturas puntuales de inventario y de pedidos colocados.
type QueryUseCase struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	billRepo    repository.BillRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	billRepo repository.BillRepository,
) *QueryUseCase {
	return &QueryUseCase{productRepo: productRepo, orderRepo: orderRepo, billRepo: billRepo}
}

// GetProduct devuelve el producto con su cantidad disponible actual.
func (uc *QueryUseCase) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// GetPlacement devuelve el pedido junto con su factura.
func (uc *QueryUseCase) GetPlacement(ctx context.Context, orderID int64) (*dto.OrderResponse, error) {
	if orderID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storageError(err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	bill, err := uc.billRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, storageError(err)
	}
	return toOrderResponse(order, bill), nil
}
