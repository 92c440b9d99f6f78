package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/storetest"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.SeedProducts(entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5}))
	return s
}

func TestSeedProducts_Validacion(t *testing.T) {
	s := NewStore()
	err := s.SeedProducts(
		entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5},
		entity.Product{ID: 2, Name: "", Price: 10, Quantity: 1},
	)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := s.Products().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p, "un lote inválido no debe cargarse parcialmente")

	require.ErrorIs(t, s.SeedProducts(entity.Product{ID: 3, Name: "X", Price: -1}), domain.ErrInvalidInput)
	require.ErrorIs(t, s.SeedProducts(entity.Product{ID: 4, Name: "X", Quantity: -1}), domain.ErrInvalidInput)
}

func TestProductRepo_DecrementQuantityDirecto(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	repo := s.Products()

	require.NoError(t, repo.DecrementQuantity(ctx, 1, 2, 5))
	p, _ := repo.GetByID(ctx, 1)
	assert.Equal(t, int64(3), p.Quantity)

	assert.ErrorIs(t, repo.DecrementQuantity(ctx, 1, 1, 5), domain.ErrConflict)
	assert.ErrorIs(t, repo.DecrementQuantity(ctx, 1, 4, 3), domain.ErrInsufficientStock)
	assert.ErrorIs(t, repo.DecrementQuantity(ctx, 9, 1, 0), domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.DecrementQuantity(ctx, 1, 0, 3), domain.ErrInvalidInput)

	p, _ = repo.GetByID(ctx, 1)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestRun_ErrorDescartaLaUnidad(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	boom := errors.New("boom")

	err := s.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, b repository.BillRepository) error {
		require.NoError(t, p.DecrementQuantity(ctx, 1, 2, 5))
		id, err := o.Append(ctx, &entity.Order{ID: 10, ClientID: 1, ProductID: 1, Quantity: 2, Price: 100})
		require.NoError(t, err)

		// la unidad ve sus propios cambios
		staged, _ := p.GetByID(ctx, 1)
		assert.Equal(t, int64(3), staged.Quantity)
		got, _ := o.GetByID(ctx, id)
		assert.NotNil(t, got)
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, 1)
	assert.Equal(t, int64(5), p.Quantity)
	orders, bills := s.Counts()
	assert.Zero(t, orders)
	assert.Zero(t, bills)
}

func TestRun_ConflictoAlConfirmar(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	err := s.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, _ repository.BillRepository) error {
		if err := p.DecrementQuantity(ctx, 1, 1, 5); err != nil {
			return err
		}
		// otra colocación confirma en medio
		if err := s.Products().DecrementQuantity(ctx, 1, 2, 5); err != nil {
			return err
		}
		_, err := o.Append(ctx, &entity.Order{ClientID: 1, ProductID: 1, Quantity: 1, Price: 100})
		return err
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	p, _ := s.Products().GetByID(ctx, 1)
	assert.Equal(t, int64(3), p.Quantity, "solo persiste el decremento confirmado")
	orders, _ := s.Counts()
	assert.Zero(t, orders)
}

func TestRun_IDGeneradoTomadoPorOtraUnidad(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	var generated int64
	err := s.Run(ctx, func(_ repository.ProductRepository, o repository.OrderRepository, _ repository.BillRepository) error {
		id, err := o.Append(ctx, &entity.Order{ClientID: 1, ProductID: 1, Quantity: 1, Price: 100})
		if err != nil {
			return err
		}
		generated = id
		// otra colocación confirma antes con ese mismo ID explícito
		_, err = s.Orders().Append(ctx, &entity.Order{ID: id, ClientID: 2, ProductID: 1, Quantity: 1, Price: 100})
		return err
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)

	got, err := s.Orders().GetByID(ctx, generated)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ClientID)

	// un ID explícito repetido sigue siendo duplicado
	err = s.Run(ctx, func(_ repository.ProductRepository, o repository.OrderRepository, _ repository.BillRepository) error {
		_, err := o.Append(ctx, &entity.Order{ID: 500, ClientID: 1, ProductID: 1, Quantity: 1, Price: 100})
		if err != nil {
			return err
		}
		_, err = s.Orders().Append(ctx, &entity.Order{ID: 500, ClientID: 2, ProductID: 1, Quantity: 1, Price: 100})
		return err
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPlaceOrder_IDGeneradoSeReintentaTrasColision(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	stolen := false
	runner := interceptRunner{inner: s, beforeCommit: func(o repository.OrderRepository) {
		if stolen {
			return
		}
		stolen = true
		// la primera unidad generó el ID 1; otra colocación lo confirma antes
		_, err := s.Orders().Append(ctx, &entity.Order{ID: 1, ClientID: 9, ProductID: 1, Quantity: 1, Price: 100})
		require.NoError(t, err)
	}}

	out, err := ordering.NewPlaceOrderUseCase(runner, 3, logger.Nop()).PlaceOrder(ctx,
		dto.PlaceOrderRequest{ClientID: 1, ProductID: 1, Quantity: 2, UnitPrice: 100})
	require.NoError(t, err)
	assert.NotEqual(t, int64(1), out.OrderID)

	p, _ := s.Products().GetByID(ctx, 1)
	assert.Equal(t, int64(3), p.Quantity)
	_, bills := s.Counts()
	assert.Equal(t, 1, bills)
}

// interceptRunner ejecuta beforeCommit al terminar fn, antes de que la unidad confirme.
type interceptRunner struct {
	inner        *Store
	beforeCommit func(repository.OrderRepository)
}

func (r interceptRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.OrderRepository, repository.BillRepository) error) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, b repository.BillRepository) error {
		if err := fn(p, o, b); err != nil {
			return err
		}
		r.beforeCommit(o)
		return nil
	})
}

func TestOrderRepo_Append(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	repo := s.Orders()

	id, err := repo.Append(ctx, &entity.Order{ID: 7, ClientID: 1, ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = repo.Append(ctx, &entity.Order{ID: 7, ClientID: 2, ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	gen, err := repo.Append(ctx, &entity.Order{ClientID: 1, ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, int64(7), gen)
	assert.Positive(t, gen)

	_, err = repo.Append(ctx, &entity.Order{ClientID: 1, ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBillRepo_AppendRequierePedido(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	err := s.Bills().Append(ctx, &entity.Bill{OrderID: 42, ClientID: 1, ProductID: 1, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrStorage)

	order := &entity.Order{ID: 42, ClientID: 1, ProductID: 1, Quantity: 2, Price: 50}
	_, err = s.Orders().Append(ctx, order)
	require.NoError(t, err)

	bill := entity.NewBillFromOrder(order)
	require.NoError(t, s.Bills().Append(ctx, bill))
	assert.ErrorIs(t, s.Bills().Append(ctx, bill), domain.ErrDuplicate)

	got, err := s.Bills().GetByOrderID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Matches(order))
	assert.Equal(t, "100", got.Total.String())
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.ProductRepository, repository.OrderRepository, repository.BillRepository) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStoreConformidad(t *testing.T) {
	suite.Run(t, &storetest.Suite{New: func() storetest.Backend {
		s := NewStore()
		return storetest.Backend{
			Runner:   s,
			Products: s.Products(),
			Orders:   s.Orders(),
			Bills:    s.Bills(),
			Seed: func(_ context.Context, products ...entity.Product) error {
				return s.SeedProducts(products...)
			},
		}
	}})
}
