// Package storetest suite de conformidad común a los backends de almacenamiento.
// Cada backend la ejecuta con suite.Run pasando su propio constructor.
package storetest

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Backend lo que un almacenamiento expone para la suite. Los repositorios operan fuera de unidad.
type Backend struct {
	Runner   ordering.TxRunner
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Bills    repository.BillRepository
	Seed     func(ctx context.Context, products ...entity.Product) error
}

// Suite ejecuta los mismos escenarios de colocación sobre cualquier Backend.
type Suite struct {
	suite.Suite

	// New devuelve un backend vacío; se invoca antes de cada test.
	New func() Backend

	b   Backend
	ctx context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.b = s.New()
}

func (s *Suite) seed(products ...entity.Product) {
	s.Require().NoError(s.b.Seed(s.ctx, products...))
}

func (s *Suite) quantity(id int64) int64 {
	p, err := s.b.Products.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	return p.Quantity
}

func (s *Suite) place(runner ordering.TxRunner, req dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	return ordering.NewPlaceOrderUseCase(runner, 1000, logger.Nop()).PlaceOrder(s.ctx, req)
}

func (s *Suite) TestEscenarioWidget() {
	s.seed(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5})

	out, err := s.place(s.b.Runner, dto.PlaceOrderRequest{OrderID: 10, ClientID: 1, ProductID: 1, Quantity: 3, UnitPrice: 100})
	s.Require().NoError(err)
	s.Equal(int64(10), out.OrderID)
	s.Equal(int64(2), s.quantity(1))

	order, err := s.b.Orders.GetByID(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().NotNil(order)
	bill, err := s.b.Bills.GetByOrderID(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().NotNil(bill)
	s.True(bill.Matches(order))
	s.Equal("300", bill.Total.String())
	s.True(order.CreatedAt.Equal(bill.CreatedAt))

	_, err = s.place(s.b.Runner, dto.PlaceOrderRequest{OrderID: 11, ClientID: 1, ProductID: 1, Quantity: 5, UnitPrice: 100})
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(int64(2), s.quantity(1))

	order, err = s.b.Orders.GetByID(s.ctx, 11)
	s.Require().NoError(err)
	s.Nil(order)
}

func (s *Suite) TestProductoInexistente() {
	_, err := s.place(s.b.Runner, dto.PlaceOrderRequest{ClientID: 1, ProductID: 404, Quantity: 1})
	s.ErrorIs(err, domain.ErrProductNotFound)
}

func (s *Suite) TestFalloEnFacturaRevierte() {
	s.seed(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5})

	_, err := s.place(billFailure{s.b.Runner}, dto.PlaceOrderRequest{OrderID: 20, ClientID: 1, ProductID: 1, Quantity: 3, UnitPrice: 100})
	s.ErrorIs(err, domain.ErrStorage)

	s.Equal(int64(5), s.quantity(1))
	order, err := s.b.Orders.GetByID(s.ctx, 20)
	s.Require().NoError(err)
	s.Nil(order)
}

func (s *Suite) TestIDGeneradoYDuplicado() {
	s.seed(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 10})

	first, err := s.place(s.b.Runner, dto.PlaceOrderRequest{ClientID: 1, ProductID: 1, Quantity: 1, UnitPrice: 100})
	s.Require().NoError(err)
	s.Positive(first.OrderID)

	_, err = s.place(s.b.Runner, dto.PlaceOrderRequest{OrderID: first.OrderID, ClientID: 2, ProductID: 1, Quantity: 1, UnitPrice: 100})
	s.ErrorIs(err, domain.ErrStorage)
	s.ErrorIs(err, domain.ErrDuplicate)
	s.Equal(int64(9), s.quantity(1))

	// un ID explícito alto no debe chocar con los generados después
	_, err = s.place(s.b.Runner, dto.PlaceOrderRequest{OrderID: first.OrderID + 1, ClientID: 1, ProductID: 1, Quantity: 1, UnitPrice: 100})
	s.Require().NoError(err)
	next, err := s.place(s.b.Runner, dto.PlaceOrderRequest{ClientID: 1, ProductID: 1, Quantity: 1, UnitPrice: 100})
	s.Require().NoError(err)
	s.NotEqual(first.OrderID+1, next.OrderID)
}

func (s *Suite) TestTotalSinDesbordamiento() {
	s.seed(entity.Product{ID: 1, Name: "Lingote", Price: math.MaxInt64, Quantity: math.MaxInt64})

	out, err := s.place(s.b.Runner, dto.PlaceOrderRequest{OrderID: 30, ClientID: 1, ProductID: 1, Quantity: math.MaxInt64, UnitPrice: math.MaxInt64})
	s.Require().NoError(err)
	s.Zero(s.quantity(1))

	bill, err := s.b.Bills.GetByOrderID(s.ctx, out.OrderID)
	s.Require().NoError(err)
	s.Require().NotNil(bill)
	s.Equal("85070591730234615847396907784232501249", bill.Total.String())
	s.True(bill.Total.Equal(out.Bill.Total))
}

func (s *Suite) TestDecrementoCondicionado() {
	s.seed(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5})

	s.Require().NoError(s.b.Products.DecrementQuantity(s.ctx, 1, 2, 5))
	s.ErrorIs(s.b.Products.DecrementQuantity(s.ctx, 1, 1, 5), domain.ErrConflict)
	s.ErrorIs(s.b.Products.DecrementQuantity(s.ctx, 1, 9, 3), domain.ErrInsufficientStock)
	s.ErrorIs(s.b.Products.DecrementQuantity(s.ctx, 404, 1, 1), domain.ErrProductNotFound)
	s.Equal(int64(3), s.quantity(1))
}

func (s *Suite) TestConcurrenciaSinSobreventa() {
	const stock, buyers = 10, 25
	s.seed(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: stock})

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed []int64
		other  []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(client int64) {
			defer wg.Done()
			out, err := s.place(s.b.Runner, dto.PlaceOrderRequest{ClientID: client, ProductID: 1, Quantity: 1, UnitPrice: 100})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed = append(placed, out.OrderID)
			case errors.Is(err, domain.ErrInsufficientStock):
			default:
				other = append(other, err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	s.Empty(other)
	s.Len(placed, stock)
	s.Zero(s.quantity(1))
	for _, id := range placed {
		bill, err := s.b.Bills.GetByOrderID(s.ctx, id)
		s.Require().NoError(err)
		s.NotNil(bill, "pedido %d sin factura", id)
	}
}

var errBillFailure = errors.New("fallo inyectado en la factura")

// billFailure hace fallar el Billing Ledger dentro de la unidad.
type billFailure struct {
	inner ordering.TxRunner
}

func (r billFailure) Run(ctx context.Context, fn func(repository.ProductRepository, repository.OrderRepository, repository.BillRepository) error) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, _ repository.BillRepository) error {
		return fn(p, o, failingBills{})
	})
}

type failingBills struct{}

func (failingBills) Append(context.Context, *entity.Bill) error { return errBillFailure }
func (failingBills) GetByOrderID(context.Context, int64) (*entity.Bill, error) {
	return nil, nil
}
