package products

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundtrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15"`), &d))
	assert.Equal(t, 2024, d.Time.Year())
	assert.Equal(t, 15, d.Time.Day())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(out))
}

func TestDate_Invalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &d))
}

func TestProduct_JSONShape(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15"`), &d))

	p := Product{
		ID:            1,
		Name:          "Widget",
		Status:        StatusActive,
		EntryDate:     d,
		MinStockLevel: 5,
		SupplierID:    2,
		TaxID:         3,
	}
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"name": "Widget",
		"description": "",
		"status": "active",
		"entry_date": "2024-01-15",
		"min_stock_level": 5,
		"supplier_id": 2,
		"tax_id": 3
	}`, string(out))
}
