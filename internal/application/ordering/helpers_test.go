package ordering_test

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba alrededor del TxRunner en memoria
// ──────────────────────────────────────────────────────────────────────────────

var errInjected = errors.New("fallo inyectado")

type repoFn = func(repository.ProductRepository, repository.OrderRepository, repository.BillRepository) error

// failingBillRunner sustituye el Billing Ledger por uno que siempre falla.
type failingBillRunner struct {
	inner ordering.TxRunner
}

func (r failingBillRunner) Run(ctx context.Context, fn repoFn) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, _ repository.BillRepository) error {
		return fn(p, o, failingBills{})
	})
}

type failingBills struct{}

func (failingBills) Append(context.Context, *entity.Bill) error { return errInjected }
func (failingBills) GetByOrderID(context.Context, int64) (*entity.Bill, error) {
	return nil, nil
}

// failingOrderRunner sustituye el Order Ledger por uno que siempre falla.
type failingOrderRunner struct {
	inner ordering.TxRunner
}

func (r failingOrderRunner) Run(ctx context.Context, fn repoFn) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, _ repository.OrderRepository, b repository.BillRepository) error {
		return fn(p, failingOrders{}, b)
	})
}

type failingOrders struct{}

func (failingOrders) Append(context.Context, *entity.Order) (int64, error) { return 0, errInjected }
func (failingOrders) GetByID(context.Context, int64) (*entity.Order, error) {
	return nil, nil
}

// conflictRunner devuelve ErrConflict en los primeros `conflicts` intentos.
type conflictRunner struct {
	inner     ordering.TxRunner
	conflicts int32
	calls     atomic.Int32
}

func (r *conflictRunner) Run(ctx context.Context, fn repoFn) error {
	if r.calls.Add(1) <= r.conflicts {
		return domain.ErrConflict
	}
	return r.inner.Run(ctx, fn)
}

// countingRunner cuenta invocaciones.
type countingRunner struct {
	inner ordering.TxRunner
	calls atomic.Int32
}

func (r *countingRunner) Run(ctx context.Context, fn repoFn) error {
	r.calls.Add(1)
	return r.inner.Run(ctx, fn)
}

// fakePDF generador que registra lo recibido.
type fakePDF struct {
	bill    *entity.Bill
	product *entity.Product
}

func (f *fakePDF) GenerateBillPDF(_ context.Context, bill *entity.Bill, _ *entity.Order, product *entity.Product) ([]byte, error) {
	f.bill = bill
	f.product = product
	return []byte("%PDF-fake"), nil
}
