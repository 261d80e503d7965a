package coingecko

import (
	"fmt"
	"time"

	"coinboard/internal/domain"

	"github.com/shopspring/decimal"
)

// Wire records use pointers so that a missing field can be told apart from a zero value.

// marketRecord is one element of /coins/markets
type marketRecord struct {
	ID                *string          `json:"id"`
	Name              *string          `json:"name"`
	Symbol            *string          `json:"symbol"`
	Image             *string          `json:"image"`
	CurrentPrice      *decimal.Decimal `json:"current_price"`
	MarketCap         *decimal.Decimal `json:"market_cap"`
	PriceChangePct24h *decimal.Decimal `json:"price_change_percentage_24h"`
}

func (r marketRecord) toDomain() (domain.MarketCoin, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return domain.MarketCoin{}, fmt.Errorf("missing id")
	case r.Name == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing name", *r.ID)
	case r.Symbol == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing symbol", *r.ID)
	case r.Image == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing image", *r.ID)
	case r.CurrentPrice == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing current_price", *r.ID)
	case r.MarketCap == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing market_cap", *r.ID)
	case r.PriceChangePct24h == nil:
		return domain.MarketCoin{}, fmt.Errorf("%s: missing price_change_percentage_24h", *r.ID)
	}
	return domain.MarketCoin{
		ID:                *r.ID,
		Name:              *r.Name,
		Symbol:            *r.Symbol,
		CurrentPrice:      *r.CurrentPrice,
		MarketCap:         *r.MarketCap,
		PriceChangePct24h: *r.PriceChangePct24h,
		ImageURL:          *r.Image,
	}, nil
}

// coinListRecord is one element of /coins/list
type coinListRecord struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
}

func (r coinListRecord) toDomain() (domain.CoinIdentity, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return domain.CoinIdentity{}, fmt.Errorf("missing id")
	case r.Name == nil:
		return domain.CoinIdentity{}, fmt.Errorf("%s: missing name", *r.ID)
	case r.Symbol == nil:
		return domain.CoinIdentity{}, fmt.Errorf("%s: missing symbol", *r.ID)
	}
	return domain.CoinIdentity{ID: *r.ID, Name: *r.Name, Symbol: *r.Symbol}, nil
}

// coinResponse is the subset of /coins/{id} the detail view reads
type coinResponse struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
	Image  struct {
		Small string `json:"small"`
	} `json:"image"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	MarketData *struct {
		CurrentPrice      map[string]decimal.Decimal `json:"current_price"`
		MarketCap         map[string]decimal.Decimal `json:"market_cap"`
		PriceChangePct24h decimal.Decimal            `json:"price_change_percentage_24h"`
	} `json:"market_data"`
}

func (r coinResponse) toDomain(vsCurrency string) (domain.CoinDetail, error) {
	if r.ID == nil || r.Name == nil || r.Symbol == nil {
		return domain.CoinDetail{}, fmt.Errorf("missing id, name or symbol")
	}
	if r.MarketData == nil {
		return domain.CoinDetail{}, fmt.Errorf("%s: missing market_data", *r.ID)
	}
	price, ok := r.MarketData.CurrentPrice[vsCurrency]
	if !ok {
		return domain.CoinDetail{}, fmt.Errorf("%s: no %s price", *r.ID, vsCurrency)
	}
	return domain.CoinDetail{
		CoinIdentity:      domain.CoinIdentity{ID: *r.ID, Name: *r.Name, Symbol: *r.Symbol},
		ImageURL:          r.Image.Small,
		CurrentPrice:      price,
		MarketCap:         r.MarketData.MarketCap[vsCurrency],
		PriceChangePct24h: r.MarketData.PriceChangePct24h,
		Description:       r.Description.En,
	}, nil
}

// marketChartResponse is /coins/{id}/market_chart; each price is [epoch_ms, price]
type marketChartResponse struct {
	Prices [][]decimal.Decimal `json:"prices"`
}

func (r marketChartResponse) toDomain() ([]domain.PricePoint, error) {
	if r.Prices == nil {
		return nil, fmt.Errorf("missing prices")
	}
	points := make([]domain.PricePoint, 0, len(r.Prices))
	for i, p := range r.Prices {
		if len(p) != 2 {
			return nil, fmt.Errorf("prices[%d]: want [time, price], got %d values", i, len(p))
		}
		points = append(points, domain.PricePoint{
			Time:  time.UnixMilli(p[0].IntPart()),
			Price: p[1],
		})
	}
	return points, nil
}
