package dto

// ProductResponse respuesta de lectura de inventario.
type ProductResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}
