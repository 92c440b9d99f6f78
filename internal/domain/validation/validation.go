// Package validation implementa cadenas de reglas de negocio independientes:
// cada regla es un predicado sobre la entidad y la cadena devuelve el primer fallo.
package validation

import (
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Rule valida un aspecto de T. Devuelve nil si se cumple.
type Rule[T any] func(T) error

// Validate aplica las reglas en orden y devuelve el primer error.
func Validate[T any](v T, rules ...Rule[T]) error {
	for _, rule := range rules {
		if err := rule(v); err != nil {
			return err
		}
	}
	return nil
}

// Invalid construye un error que envuelve domain.ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Positive exige que el campo extraído sea > 0.
func Positive[T any](field string, get func(T) int64) Rule[T] {
	return func(v T) error {
		if n := get(v); n <= 0 {
			return Invalid("%s debe ser mayor que cero (recibido %d)", field, n)
		}
		return nil
	}
}

// NonNegative exige que el campo extraído sea >= 0.
func NonNegative[T any](field string, get func(T) int64) Rule[T] {
	return func(v T) error {
		if n := get(v); n < 0 {
			return Invalid("%s no puede ser negativo (recibido %d)", field, n)
		}
		return nil
	}
}

// ProductRules reglas de integridad de un producto del catálogo.
func ProductRules() []Rule[entity.Product] {
	return []Rule[entity.Product]{
		Positive("id", func(p entity.Product) int64 { return p.ID }),
		func(p entity.Product) error {
			if p.Name == "" {
				return Invalid("name es requerido")
			}
			return nil
		},
		NonNegative("price", func(p entity.Product) int64 { return p.Price }),
		NonNegative("quantity", func(p entity.Product) int64 { return p.Quantity }),
	}
}
