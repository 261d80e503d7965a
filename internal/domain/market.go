package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketCoin is one row of the market snapshot.
type MarketCoin struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	PriceChangePct24h decimal.Decimal `json:"price_change_percentage_24h"`
	ImageURL          string          `json:"image"`
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (c MarketCoin) ChangeDirection() string {
	if c.PriceChangePct24h.IsPositive() {
		return "positive"
	}
	if c.PriceChangePct24h.IsNegative() {
		return "negative"
	}
	return "neutral"
}

// MarketSnapshot is the tracked coin list ordered by descending market cap.
// It is replaced as a whole on every refetch.
type MarketSnapshot []MarketCoin

// PriceOf returns the current price for a canonical coin id.
func (s MarketSnapshot) PriceOf(id string) (decimal.Decimal, bool) {
	for _, c := range s {
		if c.ID == id {
			return c.CurrentPrice, true
		}
	}
	return decimal.Zero, false
}

// CoinIdentity names one coin of the full coin universe.
type CoinIdentity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// PricePoint is one sample of a coin's price history.
type PricePoint struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// CoinDetail aggregates the detail page data for a single coin.
type CoinDetail struct {
	CoinIdentity
	ImageURL          string          `json:"image"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	PriceChangePct24h decimal.Decimal `json:"price_change_percentage_24h"`
	Description       string          `json:"description"`
	History           []PricePoint    `json:"history"`
}
