package memory

import (
	"slices"

	"github.com/samber/lo"
)

// CardView is the presentation of one card, derived from the index sets.
// Symbol is empty while the card is face down.
type CardView struct {
	Index    int    `json:"index"`
	ID       int    `json:"id"`
	Symbol   Symbol `json:"symbol,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// Cards projects a state onto per-card presentation.
func Cards(s State) []CardView {
	return lo.Map(s.Deck, func(c Card, i int) CardView {
		matched := slices.Contains(s.Matched, i)
		revealed := matched || slices.Contains(s.Flipped, i)
		v := CardView{Index: i, ID: c.ID, Revealed: revealed, Matched: matched}
		if revealed {
			v.Symbol = c.Symbol
		}
		return v
	})
}

// PairsLeft is the number of pairs not yet matched.
func (s State) PairsLeft() int {
	return len(s.Deck)/2 - len(s.Matched)/2
}

// Won reports whether every card is matched.
func (s State) Won() bool {
	return s.Status == StatusWon
}
