package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   bool
	}{
		{1.5, true},
		{0.00000001, true},
		{0, false},
		{-5, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		if got := ValidAmount(tt.amount); got != tt.want {
			t.Errorf("ValidAmount(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestValuate(t *testing.T) {
	snap := MarketSnapshot{
		{ID: "bitcoin", CurrentPrice: decimal.NewFromInt(60000)},
		{ID: "ethereum", CurrentPrice: decimal.NewFromInt(3000)},
	}
	entries := []PortfolioEntry{
		{CoinID: "bitcoin", DisplayName: "Bitcoin", Amount: 0.5},
		{CoinID: "ethereum", DisplayName: "Ethereum", Amount: 2},
		{CoinID: "obscure-coin", DisplayName: "Obscure", Amount: 100},
		{CoinID: "bitcoin", DisplayName: "Bitcoin", Amount: 0.25},
	}

	v := Valuate(entries, snap)

	if len(v.Holdings) != 4 {
		t.Fatalf("Expected 4 holdings, got %d", len(v.Holdings))
	}
	if v.Holdings[2].Priced {
		t.Error("Unknown coin should be unpriced")
	}
	if !v.Holdings[0].Value.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Expected 30000, got %v", v.Holdings[0].Value)
	}

	// 30000 + 6000 + 15000
	if !v.Total.Equal(decimal.NewFromInt(51000)) {
		t.Errorf("Expected total 51000, got %v", v.Total)
	}
}

func TestValuate_Empty(t *testing.T) {
	v := Valuate(nil, nil)
	if len(v.Holdings) != 0 || !v.Total.IsZero() {
		t.Errorf("Expected empty valuation, got %+v", v)
	}
}
