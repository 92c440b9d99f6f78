package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill factura derivada 1:1 de un Order, creada en la misma transacción.
type Bill struct {
	OrderID   int64
	ClientID  int64
	ProductID int64
	Quantity  int64
	Price     int64
	Total     decimal.Decimal // Quantity * Price
	CreatedAt time.Time
}

// NewBillFromOrder construye la factura a partir del pedido ya persistido.
func NewBillFromOrder(order *Order) *Bill {
	return &Bill{
		OrderID:   order.ID,
		ClientID:  order.ClientID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Price:     order.Price,
		Total:     decimal.NewFromInt(order.Price).Mul(decimal.NewFromInt(order.Quantity)),
		CreatedAt: order.CreatedAt,
	}
}

// Matches indica si la factura refleja exactamente el pedido.
func (b *Bill) Matches(order *Order) bool {
	return b.OrderID == order.ID &&
		b.ClientID == order.ClientID &&
		b.ProductID == order.ProductID &&
		b.Quantity == order.Quantity &&
		b.Price == order.Price
}
