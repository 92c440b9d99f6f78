package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/ordering"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PlaceOrder *ordering.PlaceOrderUseCase
	Queries    *ordering.QueryUseCase
	BillPDF    *ordering.BillPDFUseCase
	Logger     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log.Component("http")))

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.PlaceOrder, deps.Queries, deps.BillPDF)
	orders.Post("/", orderHandler.Place)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/bill.pdf", orderHandler.BillPDF)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Queries)
	products.Get("/:id", productHandler.GetByID)
}
