package ordering

import (
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func toBillResponse(b *entity.Bill) dto.BillResponse {
	return dto.BillResponse{
		OrderID:   b.OrderID,
		ClientID:  b.ClientID,
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		Price:     b.Price,
		Total:     b.Total,
		CreatedAt: b.CreatedAt,
	}
}

func toOrderResponse(o *entity.Order, b *entity.Bill) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:        o.ID,
		ClientID:  o.ClientID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		UnitPrice: o.Price,
		CreatedAt: o.CreatedAt,
	}
	if b != nil {
		br := toBillResponse(b)
		out.Bill = &br
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
	}
}
