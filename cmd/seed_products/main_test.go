package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestWriteSQL(t *testing.T) {
	var b strings.Builder
	err := writeSQL(&b, "/tmp/productos.csv", []entity.Product{
		{ID: 2, Name: "Llave O'Brien", Price: 50, Quantity: 1},
		{ID: 1, Name: "Widget", Price: 100, Quantity: 5},
	})
	require.NoError(t, err)

	want := `-- Catálogo de productos
-- Generado desde productos.csv

INSERT INTO products (id, name, price, quantity) VALUES
  (1, 'Widget', 100, 5),
  (2, 'Llave O''Brien', 50, 1)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, price = EXCLUDED.price, quantity = EXCLUDED.quantity;
`
	assert.Equal(t, want, b.String())
}

func TestWriteSQL_Vacio(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeSQL(&b, "x.csv", nil))
	assert.NotContains(t, b.String(), "INSERT")
}
