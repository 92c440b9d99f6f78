package ordering

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta fn como una unidad atómica contra el almacenamiento, pasando repositorios
// atados a esa unidad. Si fn devuelve error no queda nada persistido. Un compare-and-set
// perdido (durante fn o al confirmar) se reporta como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		billRepo repository.BillRepository,
	) error) error
}

// BillPDFGenerator genera la representación gráfica de una factura.
// product puede ser nil si ya no existe en el catálogo.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, bill *entity.Bill, order *entity.Order, product *entity.Product) ([]byte, error)
}
