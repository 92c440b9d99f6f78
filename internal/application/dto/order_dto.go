package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest body para POST /api/orders.
// OrderID es opcional: 0 deja que el ledger genere el identificador.
type PlaceOrderRequest struct {
	OrderID   int64 `json:"order_id"`
	ClientID  int64 `json:"client_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// BillResponse factura derivada del pedido.
type BillResponse struct {
	OrderID   int64           `json:"order_id"`
	ClientID  int64           `json:"client_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     int64           `json:"price"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// PlaceOrderResponse resultado exitoso de la colocación.
type PlaceOrderResponse struct {
	OrderID int64        `json:"order_id"`
	Bill    BillResponse `json:"bill"`
}

// OrderResponse pedido con su factura.
type OrderResponse struct {
	ID        int64         `json:"id"`
	ClientID  int64         `json:"client_id"`
	ProductID int64         `json:"product_id"`
	Quantity  int64         `json:"quantity"`
	UnitPrice int64         `json:"unit_price"`
	CreatedAt time.Time     `json:"created_at"`
	Bill      *BillResponse `json:"bill,omitempty"`
}
