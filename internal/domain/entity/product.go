package entity

// Product representa un producto del inventario.
// Quantity solo se modifica mediante el decremento condicional del Inventory Store.
type Product struct {
	ID       int64
	Name     string
	Price    int64 // precio unitario, >= 0
	Quantity int64 // disponible, >= 0
}
