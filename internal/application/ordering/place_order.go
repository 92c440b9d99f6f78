package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// DefaultMaxAttempts intentos por defecto ante conflictos de compare-and-set.
const DefaultMaxAttempts = 5

// placeOrderRules validación estructural del request, antes de tocar el almacenamiento.
var placeOrderRules = []validation.Rule[dto.PlaceOrderRequest]{
	validation.NonNegative("order_id", func(r dto.PlaceOrderRequest) int64 { return r.OrderID }),
	validation.Positive("client_id", func(r dto.PlaceOrderRequest) int64 { return r.ClientID }),
	validation.Positive("product_id", func(r dto.PlaceOrderRequest) int64 { return r.ProductID }),
	validation.Positive("quantity", func(r dto.PlaceOrderRequest) int64 { return r.Quantity }),
	validation.NonNegative("unit_price", func(r dto.PlaceOrderRequest) int64 { return r.UnitPrice }),
}

// PlaceOrderUseCase coloca un pedido: descuenta stock, registra el pedido y su factura
// en una sola unidad atómica (todo o nada).
type PlaceOrderUseCase struct {
	txRunner    TxRunner
	maxAttempts int
	log         *logger.Logger
	now         func() time.Time
}

// NewPlaceOrderUseCase construye el caso de uso. maxAttempts < 1 usa DefaultMaxAttempts.
func NewPlaceOrderUseCase(txRunner TxRunner, maxAttempts int, log *logger.Logger) *PlaceOrderUseCase {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PlaceOrderUseCase{
		txRunner:    txRunner,
		maxAttempts: maxAttempts,
		log:         log.Component("ordering"),
		now:         time.Now,
	}
}

// PlaceOrder valida el request y ejecuta la colocación. Devuelve:
//   - domain.ErrInvalidInput      si el request está mal formado (sin tocar el almacenamiento).
//   - domain.ErrProductNotFound   si el producto no existe.
//   - domain.ErrInsufficientStock si la cantidad solicitada supera la disponible.
//   - domain.ErrStorage           ante fallos del almacenamiento o contención agotada.
//
// Ante cualquier error no queda ningún cambio persistido.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, in dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	if err := validation.Validate(in, placeOrderRules...); err != nil {
		return nil, err
	}

	log := uc.log.With().
		Str("placement_id", uuid.New().String()).
		Int64("product_id", in.ProductID).
		Int64("client_id", in.ClientID).
		Logger()

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		bill, err := uc.attempt(ctx, in)
		switch {
		case err == nil:
			log.Info().
				Int64("order_id", bill.OrderID).
				Int64("quantity", bill.Quantity).
				Int("attempt", attempt).
				Msg("pedido colocado")
			return &dto.PlaceOrderResponse{OrderID: bill.OrderID, Bill: toBillResponse(bill)}, nil
		case errors.Is(err, domain.ErrConflict):
			log.Debug().Int("attempt", attempt).Msg("compare-and-set perdido, reintentando")
		case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInsufficientStock):
			log.Info().Err(err).Msg("pedido rechazado")
			return nil, err
		default:
			log.Error().Err(err).Int("attempt", attempt).Msg("fallo de almacenamiento, pedido revertido")
			return nil, storageError(err)
		}
	}

	log.Warn().Int("attempts", uc.maxAttempts).Msg("contención agotada")
	return nil, fmt.Errorf("%w: contención agotada tras %d intentos", domain.ErrStorage, uc.maxAttempts)
}

// attempt ejecuta un intento completo dentro de una unidad del TxRunner.
func (uc *PlaceOrderUseCase) attempt(ctx context.Context, in dto.PlaceOrderRequest) (*entity.Bill, error) {
	var bill *entity.Bill
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		billRepo repository.BillRepository,
	) error {
		// 1) Producto (bloqueado o vigilado según el backend)
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, in.ProductID)
		}

		// 2) Suficiencia de stock
		if in.Quantity > product.Quantity {
			return fmt.Errorf("%w: solicitado %d, disponible %d",
				domain.ErrInsufficientStock, in.Quantity, product.Quantity)
		}

		// 3) Decremento condicionado a la cantidad observada
		if err := productRepo.DecrementQuantity(ctx, product.ID, in.Quantity, product.Quantity); err != nil {
			return err
		}

		// 4) Pedido
		order := &entity.Order{
			ID:        in.OrderID,
			ClientID:  in.ClientID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Price:     in.UnitPrice,
			CreatedAt: uc.now().UTC().Truncate(time.Microsecond),
		}
		id, err := orderRepo.Append(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id

		// 5) Factura derivada del pedido recién creado
		b := entity.NewBillFromOrder(order)
		if err := billRepo.Append(ctx, b); err != nil {
			return err
		}
		bill = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func storageError(err error) error {
	if errors.Is(err, domain.ErrStorage) || errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
