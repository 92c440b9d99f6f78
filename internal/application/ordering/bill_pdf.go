package ordering

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// BillPDFUseCase genera la representación gráfica (PDF) de la factura de un pedido.
type BillPDFUseCase struct {
	orderRepo   repository.OrderRepository
	billRepo    repository.BillRepository
	productRepo repository.ProductRepository
	generator   BillPDFGenerator
	log         *logger.Logger
}

// NewBillPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewBillPDFUseCase(
	orderRepo repository.OrderRepository,
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	generator BillPDFGenerator,
	log *logger.Logger,
) *BillPDFUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BillPDFUseCase{
		orderRepo:   orderRepo,
		billRepo:    billRepo,
		productRepo: productRepo,
		generator:   generator,
		log:         log.Component("bill_pdf"),
	}
}

// DownloadBillPDF devuelve (pdfBytes, filename, nil), o domain.ErrNotFound si el pedido
// o su factura no existen.
func (uc *BillPDFUseCase) DownloadBillPDF(ctx context.Context, orderID int64) ([]byte, string, error) {
	if orderID <= 0 {
		return nil, "", domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	bill, err := uc.billRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if bill == nil {
		return nil, "", domain.ErrNotFound
	}
	// El producto es solo descriptivo; si falla la lectura se imprime el ID.
	product, err := uc.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		uc.log.Warn().Err(err).
			Int64("order_id", orderID).
			Int64("product_id", order.ProductID).
			Msg("no se pudo leer el producto de la factura; se usa su ID")
		product = nil
	}

	pdf, err := uc.generator.GenerateBillPDF(ctx, bill, order, product)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("factura-%d.pdf", orderID), nil
}
