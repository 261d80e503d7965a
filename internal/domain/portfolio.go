package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// PortfolioEntry is one user holding. Rows are independent: the same coin may appear twice.
type PortfolioEntry struct {
	CoinID      string  `json:"coinId"`
	DisplayName string  `json:"displayName"`
	Amount      float64 `json:"amount"`
}

// ValidAmount reports whether amount is a finite positive number.
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// Holding is a portfolio row priced against a market snapshot.
type Holding struct {
	Entry  PortfolioEntry  `json:"entry"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
	Priced bool            `json:"priced"` // false when the coin is not in the snapshot
}

// Valuation is the priced view of a whole portfolio.
type Valuation struct {
	Holdings []Holding       `json:"holdings"`
	Total    decimal.Decimal `json:"total"`
}

// Valuate prices every entry with the snapshot's current price.
// Coins missing from the snapshot are kept but excluded from the total.
func Valuate(entries []PortfolioEntry, snapshot MarketSnapshot) Valuation {
	v := Valuation{
		Holdings: make([]Holding, 0, len(entries)),
		Total:    decimal.Zero,
	}
	for _, e := range entries {
		h := Holding{Entry: e}
		if price, ok := snapshot.PriceOf(e.CoinID); ok {
			h.Price = price
			h.Value = price.Mul(decimal.NewFromFloat(e.Amount))
			h.Priced = true
			v.Total = v.Total.Add(h.Value)
		}
		v.Holdings = append(v.Holdings, h)
	}
	return v
}
