package service

import (
	"errors"
	"math"
	"testing"

	"coinboard/internal/domain"
	"coinboard/internal/infra/storage"

	"github.com/shopspring/decimal"
)

func newTestPortfolio() (*Portfolio, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewPortfolio(store, NewIndex(testCoinList())), store
}

func TestPortfolio_EmptyByDefault(t *testing.T) {
	p, _ := newTestPortfolio()
	if got := p.List(); len(got) != 0 {
		t.Errorf("expected empty portfolio, got %+v", got)
	}
}

func TestPortfolio_AddPersistsAcrossRestart(t *testing.T) {
	p, store := newTestPortfolio()

	entry, err := p.Add("bitcoin", 1.5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	want := domain.PortfolioEntry{CoinID: "bitcoin", DisplayName: "Bitcoin", Amount: 1.5}
	if entry != want {
		t.Errorf("entry = %+v, want %+v", entry, want)
	}

	// Simulated restart: a new store instance over the same persisted data.
	reloaded := NewPortfolio(store, nil)
	got := reloaded.List()
	if len(got) != 1 || got[0] != want {
		t.Errorf("after restart List() = %+v, want [%+v]", got, want)
	}
}

func TestPortfolio_AddRejectsInvalidAmount(t *testing.T) {
	p, store := newTestPortfolio()
	p.Add("btc", 1)

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := p.Add("bitcoin", amount)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("Add(amount=%v) error = %v, want invalid amount", amount, err)
		}
	}

	if len(p.List()) != 1 {
		t.Errorf("rejected adds must not change the sequence, got %d rows", len(p.List()))
	}
	if reloaded := NewPortfolio(store, nil); len(reloaded.List()) != 1 {
		t.Errorf("rejected adds must not change the stored sequence")
	}
}

func TestPortfolio_AddRejectsUnknownCoin(t *testing.T) {
	p, _ := newTestPortfolio()

	_, err := p.Add("nonexistent-xyz", 3)
	if !errors.Is(err, domain.ErrUnknownCoin) {
		t.Errorf("expected ErrUnknownCoin, got %v", err)
	}
	if len(p.List()) != 0 {
		t.Error("rejected add must not change the sequence")
	}
}

func TestPortfolio_AddWithoutCoinList(t *testing.T) {
	p := NewPortfolio(storage.NewMemoryStore(), nil)

	if _, err := p.Add("bitcoin", 1); !errors.Is(err, domain.ErrUnknownCoin) {
		t.Errorf("expected rejection without a resolver, got %v", err)
	}

	p.SetResolver(NewIndex(testCoinList()))
	if _, err := p.Add("bitcoin", 1); err != nil {
		t.Errorf("Add after SetResolver failed: %v", err)
	}
}

func TestPortfolio_DuplicatesAreIndependentRows(t *testing.T) {
	p, _ := newTestPortfolio()

	p.Add("btc", 1)
	p.Add("Bitcoin", 2)

	got := p.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Amount != 1 || got[1].Amount != 2 {
		t.Errorf("rows should keep insertion order and amounts: %+v", got)
	}
}

func TestPortfolio_RemoveAt(t *testing.T) {
	p, store := newTestPortfolio()
	p.Add("btc", 1)
	p.Add("eth", 2)
	p.Add("usdt", 3)

	removed, err := p.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if removed.CoinID != "ethereum" {
		t.Errorf("removed %s, want ethereum", removed.CoinID)
	}

	got := NewPortfolio(store, nil).List()
	if len(got) != 2 || got[0].CoinID != "bitcoin" || got[1].CoinID != "tether" {
		t.Errorf("persisted sequence after remove = %+v", got)
	}
}

func TestPortfolio_RemoveAtOutOfRange(t *testing.T) {
	p, _ := newTestPortfolio()
	p.Add("btc", 1)

	for _, idx := range []int{1, 5, -1} {
		_, err := p.RemoveAt(idx)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) error = %v, want out of range", idx, err)
		}
	}
	if len(p.List()) != 1 {
		t.Error("out-of-range remove must leave the sequence unmodified")
	}
}

func TestPortfolio_ListIsACopy(t *testing.T) {
	p, _ := newTestPortfolio()
	p.Add("btc", 1)

	got := p.List()
	got[0].Amount = 99

	if p.List()[0].Amount != 1 {
		t.Error("mutating List() result must not affect the store")
	}
}

func TestPortfolio_LoadsLegacyDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put(KeyPortfolio, `[{"coin":"Bitcoin","amount":0.5},{"coin":"Doge","amount":null},{"coinId":"ethereum","displayName":"Ethereum","amount":2}]`)

	got := NewPortfolio(store, nil).List()
	if len(got) != 2 {
		t.Fatalf("expected 2 valid rows, got %+v", got)
	}
	if got[0].CoinID != "Bitcoin" || got[0].DisplayName != "Bitcoin" || got[0].Amount != 0.5 {
		t.Errorf("legacy row = %+v", got[0])
	}
	if got[1].CoinID != "ethereum" {
		t.Errorf("current row = %+v", got[1])
	}
}

func TestPortfolio_IgnoresCorruptDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put(KeyPortfolio, `{"oops"`)

	if got := NewPortfolio(store, nil).List(); len(got) != 0 {
		t.Errorf("expected empty portfolio, got %+v", got)
	}
}

type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Put(key, value string) error {
	return &domain.StorageError{Op: "put", Key: key, Err: errors.New("private browsing")}
}

func TestPortfolio_StorageFailureKeepsMemory(t *testing.T) {
	p := NewPortfolio(failingStore{storage.NewMemoryStore()}, NewIndex(testCoinList()))

	if _, err := p.Add("btc", 1); err != nil {
		t.Fatalf("storage failure must not fail the add: %v", err)
	}
	if len(p.List()) != 1 {
		t.Error("entry should remain in memory")
	}
}

func TestPortfolio_Valuate(t *testing.T) {
	p, _ := newTestPortfolio()
	p.Add("btc", 2)
	p.Add("etc", 10) // not in the snapshot

	v := p.Valuate(testSnapshot())
	if !v.Total.Equal(decimal.RequireFromString("128001")) {
		t.Errorf("Total = %v, want 128001", v.Total)
	}
	if v.Holdings[1].Priced {
		t.Error("coin outside the snapshot should be unpriced")
	}
}
