package blackjack

import (
	"errors"

	"github.com/fadedpez/blackjack/pkg/entities"
)

var ErrInvalidCard = errors.New("invalid card")

// Role says who a hand belongs to
type Role string

const (
	RolePlayer Role = "PLAYER"
	RoleDealer Role = "DEALER"
)

// Hand represents a player's or the dealer's cards.
//
// Virgin is true while the hand holds only its original cards and no
// decision has been taken; for the dealer it also means the hole card is
// still concealed. Active is true while the hand may still act.
//
// Counting an ace as 1 is tracked per hand in demoted, keyed by card
// index, so cards themselves are never modified.
type Hand struct {
	Cards  []*entities.Card
	Role   Role
	Virgin bool
	Active bool

	demoted map[int]bool
}

// NewHand creates a new blackjack hand
func NewHand(role Role) *Hand {
	return &Hand{
		Cards:   make([]*entities.Card, 0, 2),
		Role:    role,
		Virgin:  true,
		Active:  true,
		demoted: make(map[int]bool),
	}
}

// Add appends a card and re-evaluates the total. The dealer's hole card is
// counted even while concealed.
func (h *Hand) Add(card *entities.Card) error {
	if card == nil {
		return ErrInvalidCard
	}
	h.Cards = append(h.Cards, card)
	h.Value()
	return nil
}

// Value returns the best total of the hand. While the total is over 21 and
// an ace is still counted as 11, the first such ace is demoted to 1.
func (h *Hand) Value() int {
	if h.demoted == nil {
		h.demoted = make(map[int]bool)
	}
	for {
		total := h.sum()
		if total <= 21 {
			return total
		}
		i := h.firstElevenAce()
		if i < 0 {
			return total
		}
		h.demoted[i] = true
	}
}

func (h *Hand) sum() int {
	total := 0
	for i, card := range h.Cards {
		if card.IsAce() && h.demoted[i] {
			total++
			continue
		}
		total += card.BaseValue()
	}
	return total
}

func (h *Hand) firstElevenAce() int {
	for i, card := range h.Cards {
		if card.IsAce() && !h.demoted[i] {
			return i
		}
	}
	return -1
}

// IsSoft reports whether the total currently counts an ace as 11
func (h *Hand) IsSoft() bool {
	h.Value()
	return h.firstElevenAce() >= 0
}

// IsBust checks if the hand exceeds 21
func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// IsNatural reports a two card 21
func (h *Hand) IsNatural() bool {
	return len(h.Cards) == 2 && h.Value() == 21
}

// IsPair reports two cards of the same rank
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// HoleCardHidden is true while the dealer's second card must not be shown
func (h *Hand) HoleCardHidden() bool {
	return h.Role == RoleDealer && h.Virgin && len(h.Cards) >= 2
}

// UpCard returns the first card dealt to the hand
func (h *Hand) UpCard() *entities.Card {
	if len(h.Cards) == 0 {
		return nil
	}
	return h.Cards[0]
}

// CardStrings renders every card in the hand
func (h *Hand) CardStrings() []string {
	out := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		out[i] = card.String()
	}
	return out
}
