package entity

import "time"

// Order representa un pedido colocado. Inmutable una vez creado.
type Order struct {
	ID        int64
	ClientID  int64
	ProductID int64
	Quantity  int64 // > 0
	Price     int64 // precio unitario acordado, >= 0
	CreatedAt time.Time
}
