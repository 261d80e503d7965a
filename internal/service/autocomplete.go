package service

import (
	"strings"

	"coinboard/internal/domain"
)

// DefaultQueryLimit caps Query results when no positive limit is given.
const DefaultQueryLimit = 5

// Index matches free text against the coin identifier list.
// Matching is case-insensitive on name and symbol; results keep list order.
type Index struct {
	coins   []domain.CoinIdentity
	names   []string // lowercased, parallel to coins
	symbols []string
}

// NewIndex builds an index over list. The list is not copied and must not be mutated.
func NewIndex(list []domain.CoinIdentity) *Index {
	ix := &Index{
		coins:   list,
		names:   make([]string, len(list)),
		symbols: make([]string, len(list)),
	}
	for i, c := range list {
		ix.names[i] = strings.ToLower(c.Name)
		ix.symbols[i] = strings.ToLower(c.Symbol)
	}
	return ix
}

// Len returns the number of indexed coins
func (ix *Index) Len() int {
	return len(ix.coins)
}

// Query returns up to limit coins whose name or symbol contains text.
func (ix *Index) Query(text string, limit int) []domain.CoinIdentity {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var out []domain.CoinIdentity
	for i, c := range ix.coins {
		if strings.Contains(ix.names[i], needle) || strings.Contains(ix.symbols[i], needle) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ResolveExact returns the first coin whose name or symbol equals text.
func (ix *Index) ResolveExact(text string) (domain.CoinIdentity, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return domain.CoinIdentity{}, false
	}
	for i, c := range ix.coins {
		if ix.names[i] == needle || ix.symbols[i] == needle {
			return c, true
		}
	}
	return domain.CoinIdentity{}, false
}
