package ordering_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository/mocks"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// mockRunner entrega siempre los mismos repositorios mock a fn.
type mockRunner struct {
	products *mocks.MockProductRepository
	orders   *mocks.MockOrderRepository
	bills    *mocks.MockBillRepository
}

func (r mockRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.OrderRepository, repository.BillRepository) error) error {
	return fn(r.products, r.orders, r.bills)
}

func newMockRunner(ctrl *gomock.Controller) mockRunner {
	return mockRunner{
		products: mocks.NewMockProductRepository(ctrl),
		orders:   mocks.NewMockOrderRepository(ctrl),
		bills:    mocks.NewMockBillRepository(ctrl),
	}
}

func TestPlaceOrder_OrdenDeOperaciones(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newMockRunner(ctrl)

	gomock.InOrder(
		r.products.EXPECT().GetForUpdate(gomock.Any(), int64(1)).
			Return(&entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5}, nil),
		r.products.EXPECT().DecrementQuantity(gomock.Any(), int64(1), int64(3), int64(5)).Return(nil),
		r.orders.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o *entity.Order) (int64, error) {
				assert.Equal(t, int64(0), o.ID)
				assert.Equal(t, int64(3), o.Quantity)
				assert.Equal(t, int64(100), o.Price)
				return 77, nil
			}),
		r.bills.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *entity.Bill) error {
				assert.Equal(t, int64(77), b.OrderID, "la factura usa el ID asignado por el ledger")
				assert.Equal(t, "300", b.Total.String())
				return nil
			}),
	)

	uc := ordering.NewPlaceOrderUseCase(r, 0, logger.Nop())
	out, err := uc.PlaceOrder(context.Background(), dto.PlaceOrderRequest{ClientID: 1, ProductID: 1, Quantity: 3, UnitPrice: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(77), out.OrderID)
}

func TestPlaceOrder_StockInsuficienteNoEscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newMockRunner(ctrl)

	r.products.EXPECT().GetForUpdate(gomock.Any(), int64(1)).
		Return(&entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 2}, nil)
	// sin DecrementQuantity ni Append: gomock falla ante cualquier llamada no esperada

	uc := ordering.NewPlaceOrderUseCase(r, 0, logger.Nop())
	_, err := uc.PlaceOrder(context.Background(), dto.PlaceOrderRequest{ClientID: 1, ProductID: 1, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestQueryUseCase_ErrorDeAlmacenamiento(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newMockRunner(ctrl)
	boom := errors.New("conexión perdida")

	r.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, boom)
	r.orders.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&entity.Order{ID: 5, ClientID: 1, ProductID: 1, Quantity: 1}, nil)
	r.bills.EXPECT().GetByOrderID(gomock.Any(), int64(5)).Return(nil, boom)

	q := ordering.NewQueryUseCase(r.products, r.orders, r.bills)

	_, err := q.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = q.GetPlacement(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestQueryUseCase_ErrorYaClasificadoNoSeReenvuelve(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newMockRunner(ctrl)
	classified := fmt.Errorf("get product: %w: conexión perdida", domain.ErrStorage)

	r.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, classified)
	r.orders.EXPECT().GetByID(gomock.Any(), int64(5)).Return(nil, classified)

	q := ordering.NewQueryUseCase(r.products, r.orders, r.bills)

	_, err := q.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 1, strings.Count(err.Error(), domain.ErrStorage.Error()))

	_, err = q.GetPlacement(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, classified.Error(), err.Error())
}

func TestBillPDF_FacturaAusenteYProductoIlegible(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newMockRunner(ctrl)
	order := &entity.Order{ID: 5, ClientID: 1, ProductID: 1, Quantity: 1, Price: 10}

	r.orders.EXPECT().GetByID(gomock.Any(), int64(5)).Return(order, nil).Times(2)
	gomock.InOrder(
		r.bills.EXPECT().GetByOrderID(gomock.Any(), int64(5)).Return(nil, nil),
		r.bills.EXPECT().GetByOrderID(gomock.Any(), int64(5)).Return(entity.NewBillFromOrder(order), nil),
	)
	r.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("timeout"))

	var logs bytes.Buffer
	gen := &fakePDF{}
	uc := ordering.NewBillPDFUseCase(r.orders, r.bills, r.products, gen, logger.New(logger.Config{Level: "warn", Output: &logs}))

	_, _, err := uc.DownloadBillPDF(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pdf, _, err := uc.DownloadBillPDF(context.Background(), 5)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Nil(t, gen.product, "un producto ilegible se imprime por ID")

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"product_id":1`)
	assert.Contains(t, logs.String(), "timeout")
	assert.Contains(t, logs.String(), `"component":"bill_pdf"`)
}
