package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/models"
)

func TestComputeTotals(t *testing.T) {
	items := []models.QuoteItem{
		{Description: "Desarrollo web", Quantity: 10, UnitPrice: 50, VATRate: 21},
		{Description: "Hosting anual", Quantity: 1, UnitPrice: 120, VATRate: 21},
	}

	var ht, tva, ttc float64
	ComputeTotals(items, &ht, &tva, &ttc)

	assert.Equal(t, 620.0, ht)
	assert.Equal(t, 130.2, tva)
	assert.Equal(t, 750.2, ttc)
}

func TestComputeTotals_MixedVATRates(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: 2, UnitPrice: 100, VATRate: 21},
		{Quantity: 1, UnitPrice: 50, VATRate: 10},
		{Quantity: 3, UnitPrice: 20, VATRate: 0},
	}

	var ht, tva, ttc float64
	ComputeTotals(items, &ht, &tva, &ttc)

	assert.Equal(t, 310.0, ht)
	assert.Equal(t, 47.0, tva)
	assert.Equal(t, 357.0, ttc)
}

func TestComputeTotals_RoundsToCents(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: 3, UnitPrice: 33.33, VATRate: 21},
	}

	var ht, tva, ttc float64
	ComputeTotals(items, &ht, &tva, &ttc)

	assert.Equal(t, 99.99, ht)
	assert.Equal(t, 21.0, tva)
	assert.Equal(t, 120.99, ttc)
}

func TestComputeTotals_Empty(t *testing.T) {
	var ht, tva, ttc float64
	ComputeTotals(nil, &ht, &tva, &ttc)

	assert.Zero(t, ht)
	assert.Zero(t, tva)
	assert.Zero(t, ttc)
}
