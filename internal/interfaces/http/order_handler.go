package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
)

// OrderHandler maneja la colocación y consulta de pedidos.
type OrderHandler struct {
	place   *ordering.PlaceOrderUseCase
	queries *ordering.QueryUseCase
	pdf     *ordering.BillPDFUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(place *ordering.PlaceOrderUseCase, queries *ordering.QueryUseCase, pdf *ordering.BillPDFUseCase) *OrderHandler {
	return &OrderHandler{place: place, queries: queries, pdf: pdf}
}

// Place godoc
// @Summary      Colocar pedido
// @Description  Descuenta stock, registra el pedido y su factura en una sola unidad atómica.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PlaceOrderRequest  true  "order_id (opcional), client_id, product_id, quantity, unit_price"
// @Success      201   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.place.PlaceOrder(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar pedido
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.queries.GetPlacement(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BillPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/bill.pdf [get]
func (h *OrderHandler) BillPDF(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	pdf, filename, err := h.pdf.DownloadBillPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
