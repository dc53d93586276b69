package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductFinalPrice(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    float64
	}{
		{"no sale", Product{BasePrice: 100}, 100},
		{"on sale", Product{BasePrice: 100, OnSale: true, DiscountPercent: 20}, 80},
		{"on sale zero discount", Product{BasePrice: 100, OnSale: true}, 100},
		{"discount set but not on sale", Product{BasePrice: 100, DiscountPercent: 20}, 100},
		{"rounds to two decimals", Product{BasePrice: 19.99, OnSale: true, DiscountPercent: 15}, 16.99},
		{"full discount", Product{BasePrice: 50, OnSale: true, DiscountPercent: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.FinalPrice())
		})
	}
}

func TestProductStockTotal(t *testing.T) {
	p := Product{StockLines: []StockLine{{Quantity: 3}, {Quantity: 0}, {Quantity: 7}}}
	assert.Equal(t, 10, p.StockTotal())

	empty := Product{}
	assert.Zero(t, empty.StockTotal())
}
