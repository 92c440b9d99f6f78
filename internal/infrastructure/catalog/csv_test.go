package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestRead(t *testing.T) {
	in := "id,name,price,quantity\n# comentario\n1, Widget ,100,5\n2,Gadget,0,0\n"
	got, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, []entity.Product{
		{ID: 1, Name: "Widget", Price: 100, Quantity: 5},
		{ID: 2, Name: "Gadget", Price: 0, Quantity: 0},
	}, got)
}

func TestRead_PuntoYComa(t *testing.T) {
	got, err := Read(strings.NewReader("1;Tornillo;50;10\n"), Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tornillo", got[0].Name)
}

func TestRead_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("7,Café de señor,1200,3\n")
	require.NoError(t, err)

	got, err := Read(bytes.NewReader([]byte(encoded)), Options{Latin1: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Café de señor", got[0].Name)
}

func TestRead_Errores(t *testing.T) {
	cases := map[string]string{
		"cantidad negativa": "1,Widget,100,-1\n",
		"precio negativo":   "1,Widget,-5,1\n",
		"sin nombre":        "1,,100,1\n",
		"id cero":           "0,Widget,100,1\n",
		"id no numérico":    "x1,Widget,100,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in), Options{})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := Read(strings.NewReader("1,A,1,1\n1,B,2,2\n"), Options{})
	assert.ErrorContains(t, err, "repetido")

	_, err = Read(strings.NewReader("1,A,1\n"), Options{})
	assert.Error(t, err, "número de columnas incorrecto")
}
