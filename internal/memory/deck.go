package memory

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"

	"github.com/samber/lo"
)

// Symbol is the face of a card.
type Symbol string

// DefaultPairCount is the number of pairs in the reference 8-card game.
const DefaultPairCount = 4

// DefaultCatalog lists the symbols a deck draws from, in order.
var DefaultCatalog = []Symbol{
	"⭐", "🚀", "💡", "💻",
	"🎯", "🧩", "🔥", "🌙",
	"🎲", "🪐", "⚡", "🍀",
}

var (
	ErrInsufficientSymbols = errors.New("not enough symbols in catalog")
	ErrInvalidPairCount    = errors.New("pair count must be at least 1")
	ErrDuplicateSymbol     = errors.New("catalog contains a duplicate symbol")
	ErrInvalidDeck         = errors.New("invalid deck")
)

// Card is one position of a deck. ID is its index in the unshuffled deck.
type Card struct {
	ID     int    `json:"id"`
	Symbol Symbol `json:"symbol"`
}

// Deck is an ordered set of cards where every symbol appears exactly twice.
type Deck []Card

// Generate builds a shuffled deck of 2*pairCount cards using the first
// pairCount symbols of catalog. intn must return a uniform int in [0, n);
// nil uses SecureIntn.
func Generate(pairCount int, catalog []Symbol, intn func(n int) int) (Deck, error) {
	if err := checkCatalog(pairCount, catalog); err != nil {
		return nil, err
	}
	pairs := catalog[:pairCount]
	if intn == nil {
		intn = SecureIntn
	}

	symbols := append(append(make([]Symbol, 0, 2*pairCount), pairs...), pairs...)
	deck := Deck(lo.Map(symbols, func(s Symbol, i int) Card {
		return Card{ID: i, Symbol: s}
	}))
	shuffle(deck, intn)
	return deck, nil
}

func checkCatalog(pairCount int, catalog []Symbol) error {
	if pairCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPairCount, pairCount)
	}
	if pairCount > len(catalog) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientSymbols, pairCount, len(catalog))
	}
	if dup := lo.FindDuplicates(catalog[:pairCount]); len(dup) > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateSymbol, dup[0])
	}
	return nil
}

// shuffle is Fisher–Yates: walk from the last position down, swapping with a
// uniformly chosen position at or before it.
func shuffle(deck Deck, intn func(n int) int) {
	for i := len(deck) - 1; i > 0; i-- {
		j := intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// SecureIntn draws from crypto/rand and falls back to math/rand/v2 if the
// system source fails.
func SecureIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.IntN(n)
	}
	return int(v.Int64())
}

// Validate reports whether the deck still satisfies the pair invariant.
func (d Deck) Validate() error {
	if len(d) == 0 || len(d)%2 != 0 {
		return fmt.Errorf("%w: length %d", ErrInvalidDeck, len(d))
	}
	ids := lo.Map(d, func(c Card, _ int) int { return c.ID })
	if len(lo.Uniq(ids)) != len(ids) {
		return fmt.Errorf("%w: duplicate card id", ErrInvalidDeck)
	}
	counts := lo.CountValues(lo.Map(d, func(c Card, _ int) Symbol { return c.Symbol }))
	for sym, n := range counts {
		if n != 2 {
			return fmt.Errorf("%w: symbol %q appears %d times", ErrInvalidDeck, sym, n)
		}
	}
	return nil
}

// Symbols returns the symbols in deck order.
func (d Deck) Symbols() []Symbol {
	return lo.Map(d, func(c Card, _ int) Symbol { return c.Symbol })
}
