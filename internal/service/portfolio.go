package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"coinboard/internal/domain"
)

// KeyPortfolio is the storage slot of the holdings sequence.
const KeyPortfolio = "portfolio"

// Portfolio is the ordered, persisted list of user holdings.
// Every successful mutation rewrites the whole sequence before returning.
type Portfolio struct {
	mu       sync.Mutex
	store    domain.KeyValueStore
	resolver domain.CoinResolver
	entries  []domain.PortfolioEntry
	logger   *slog.Logger
}

// storedEntry accepts both the current document shape and the older {coin, amount} rows.
type storedEntry struct {
	CoinID      string  `json:"coinId"`
	DisplayName string  `json:"displayName"`
	Amount      float64 `json:"amount"`
	Coin        string  `json:"coin,omitempty"`
}

// NewPortfolio loads the holdings saved in store. resolver may be nil until the
// coin list is available; Add rejects every coin until then.
func NewPortfolio(store domain.KeyValueStore, resolver domain.CoinResolver) *Portfolio {
	p := &Portfolio{
		store:    store,
		resolver: resolver,
		logger:   slog.Default().With("module", "portfolio"),
	}
	p.entries = p.load()
	return p
}

func (p *Portfolio) load() []domain.PortfolioEntry {
	raw, ok := p.store.Get(KeyPortfolio)
	if !ok {
		return nil
	}

	var stored []storedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		p.logger.Warn("Ignoring unreadable portfolio", slog.Any("error", err))
		return nil
	}

	entries := make([]domain.PortfolioEntry, 0, len(stored))
	for i, s := range stored {
		e := domain.PortfolioEntry{CoinID: s.CoinID, DisplayName: s.DisplayName, Amount: s.Amount}
		if e.CoinID == "" && s.Coin != "" {
			e.CoinID, e.DisplayName = s.Coin, s.Coin
		}
		if e.CoinID == "" || !domain.ValidAmount(e.Amount) {
			p.logger.Warn("Skipping invalid portfolio row", slog.Int("index", i))
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// SetResolver replaces the coin resolver, typically after the coin list reloads
func (p *Portfolio) SetResolver(r domain.CoinResolver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolver = r
}

// List returns a copy of the holdings in display order
func (p *Portfolio) List() []domain.PortfolioEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.PortfolioEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Add resolves coinText to a canonical coin and appends a holding of amount.
// Adding a coin already held creates a second row.
func (p *Portfolio) Add(coinText string, amount float64) (domain.PortfolioEntry, error) {
	if !domain.ValidAmount(amount) {
		return domain.PortfolioEntry{}, &domain.ValidationError{Field: "amount", Err: domain.ErrInvalidAmount}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolver == nil {
		return domain.PortfolioEntry{}, &domain.ValidationError{
			Field: "coin",
			Err:   fmt.Errorf("%w: coin list unavailable", domain.ErrUnknownCoin),
		}
	}
	coin, ok := p.resolver.ResolveExact(coinText)
	if !ok {
		return domain.PortfolioEntry{}, &domain.ValidationError{
			Field: "coin",
			Err:   fmt.Errorf("%w: %q", domain.ErrUnknownCoin, coinText),
		}
	}

	entry := domain.PortfolioEntry{CoinID: coin.ID, DisplayName: coin.Name, Amount: amount}
	p.entries = append(p.entries, entry)
	p.persist()
	return entry, nil
}

// RemoveAt deletes the holding at index (0-based) and returns it.
func (p *Portfolio) RemoveAt(index int) (domain.PortfolioEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.entries) {
		return domain.PortfolioEntry{}, &domain.ValidationError{
			Field: "index",
			Err:   fmt.Errorf("%w: %d not in [0, %d)", domain.ErrIndexOutOfRange, index, len(p.entries)),
		}
	}

	removed := p.entries[index]
	p.entries = append(p.entries[:index:index], p.entries[index+1:]...)
	p.persist()
	return removed, nil
}

// Valuate prices the holdings against snapshot
func (p *Portfolio) Valuate(snapshot domain.MarketSnapshot) domain.Valuation {
	return domain.Valuate(p.List(), snapshot)
}

// persist writes the full sequence. Must be called with lock held.
// A storage failure leaves the mutation applied in memory.
func (p *Portfolio) persist() {
	entries := p.entries
	if entries == nil {
		entries = []domain.PortfolioEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		p.logger.Error("Failed to encode portfolio", slog.Any("error", err))
		return
	}
	if err := p.store.Put(KeyPortfolio, string(raw)); err != nil {
		p.logger.Warn("Portfolio not persisted, continuing in memory", slog.Any("error", err))
	}
}
