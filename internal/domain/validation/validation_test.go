package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

func TestValidate_DevuelvePrimerFallo(t *testing.T) {
	var called []string
	rule := func(name string, fail bool) validation.Rule[int] {
		return func(int) error {
			called = append(called, name)
			if fail {
				return errors.New(name)
			}
			return nil
		}
	}

	err := validation.Validate(1, rule("a", false), rule("b", true), rule("c", true))
	require.EqualError(t, err, "b")
	assert.Equal(t, []string{"a", "b"}, called, "la cadena se corta en el primer fallo")
}

func TestValidate_SinReglas(t *testing.T) {
	assert.NoError(t, validation.Validate("x"))
}

func TestProductRules(t *testing.T) {
	valid := entity.Product{ID: 1, Name: "Widget", Price: 100, Quantity: 5}
	require.NoError(t, validation.Validate(valid, validation.ProductRules()...))

	cases := map[string]entity.Product{
		"id cero":           {ID: 0, Name: "Widget", Price: 1, Quantity: 1},
		"sin nombre":        {ID: 1, Price: 1, Quantity: 1},
		"precio negativo":   {ID: 1, Name: "Widget", Price: -1, Quantity: 1},
		"cantidad negativa": {ID: 1, Name: "Widget", Price: 1, Quantity: -3},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			err := validation.Validate(p, validation.ProductRules()...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPrecioNegativo_Mensaje(t *testing.T) {
	err := validation.Validate(entity.Product{ID: 1, Name: "W", Price: -5}, validation.ProductRules()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price no puede ser negativo")
}
