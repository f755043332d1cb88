package entities

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyShoe is returned when drawing from a shoe with no cards left
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe is the ordered source of cards for a round. Cards are drawn from the
// front and never put back.
type Shoe struct {
	Cards []*Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() []*Card {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// NewShoe builds deckCount standard decks and shuffles them with rng.
// A nil rng is seeded from the current time.
func NewShoe(deckCount int, rng *rand.Rand) *Shoe {
	if deckCount < 1 {
		deckCount = 1
	}

	cards := make([]*Card, 0, deckCount*52)
	for i := 0; i < deckCount; i++ {
		cards = append(cards, NewDeck()...)
	}

	shoe := &Shoe{Cards: cards}
	shoe.Shuffle(rng)
	return shoe
}

// NewShoeFromCards creates a shoe that deals the given cards in order
func NewShoeFromCards(cards []*Card) *Shoe {
	stacked := make([]*Card, len(cards))
	copy(stacked, cards)
	return &Shoe{Cards: stacked}
}

// Shuffle applies a uniform random permutation to the remaining cards
func (s *Shoe) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	rng.Shuffle(len(s.Cards), func(i, j int) {
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	})
}

// Draw removes and returns the front card of the shoe
func (s *Shoe) Draw() (*Card, error) {
	if len(s.Cards) == 0 {
		return nil, ErrEmptyShoe
	}
	card := s.Cards[0]
	s.Cards = s.Cards[1:]
	return card, nil
}

// Remaining returns how many cards are left
func (s *Shoe) Remaining() int {
	return len(s.Cards)
}
