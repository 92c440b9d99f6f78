package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
)

// ProductHandler lecturas del inventario.
type ProductHandler struct {
	queries *ordering.QueryUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(queries *ordering.QueryUseCase) *ProductHandler {
	return &ProductHandler{queries: queries}
}

// GetByID godoc
// @Summary      Consultar producto
// @Description  Devuelve el producto con su cantidad disponible actual.
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.queries.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
