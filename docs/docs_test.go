package docs

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var openapi map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &openapi))
	paths, ok := openapi["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/api/orders", "/api/orders/{id}", "/api/orders/{id}/bill.pdf", "/api/products/{id}"} {
		assert.Contains(t, paths, p)
	}
}

func TestSwaggerJSONCoincide(t *testing.T) {
	raw, err := os.ReadFile("swagger.json")
	require.NoError(t, err)

	var file, registered map[string]any
	require.NoError(t, json.Unmarshal(raw, &file))
	doc, err := swag.ReadDoc()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(doc), &registered))

	assert.Equal(t, file["paths"], registered["paths"])
	assert.Equal(t, file["definitions"], registered["definitions"])
}
