package entities

import (
	"fmt"
	"strings"
)

// Suit represents a card suit

type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Color groups suits for the Perfect Pairs side bet
type Color string

const (
	Red   Color = "RED"
	Black Color = "BLACK"
)

// Color returns the color family of the suit
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Symbol returns the unicode pip for the suit
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Rank represents a card rank

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var (
	Suits = []Suit{Hearts, Diamonds, Spades, Clubs}
	Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

var baseValues = map[Rank]int{
	Ace: 11, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 10, Queen: 10, King: 10,
}

// Card represents a playing card. Suit and rank never change after creation.

type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card

func NewCard(suit Suit, rank Rank) *Card {
	return &Card{
		Suit: suit,
		Rank: rank,
	}
}

// BaseValue is the blackjack value of the card before any ace is counted as 1
func (c *Card) BaseValue() int {
	return baseValues[c.Rank]
}

// IsAce reports whether the card is an ace
func (c *Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of the card
func (c *Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.Symbol())
}

// ParseCard creates a card from its shorthand, e.g. "10♥", "10h", "AS" or "qd"
func ParseCard(s string) (*Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid card shorthand: %q", s)
	}

	var suit Suit
	var rank string
	switch {
	case strings.HasSuffix(s, "♥"):
		suit, rank = Hearts, strings.TrimSuffix(s, "♥")
	case strings.HasSuffix(s, "♦"):
		suit, rank = Diamonds, strings.TrimSuffix(s, "♦")
	case strings.HasSuffix(s, "♣"):
		suit, rank = Clubs, strings.TrimSuffix(s, "♣")
	case strings.HasSuffix(s, "♠"):
		suit, rank = Spades, strings.TrimSuffix(s, "♠")
	default:
		rank = s[:len(s)-1]
		switch strings.ToLower(s[len(s)-1:]) {
		case "h":
			suit = Hearts
		case "d":
			suit = Diamonds
		case "c":
			suit = Clubs
		case "s":
			suit = Spades
		default:
			return nil, fmt.Errorf("invalid card suit: %q", s[len(s)-1:])
		}
	}

	r := Rank(strings.ToUpper(rank))
	if _, ok := baseValues[r]; !ok {
		return nil, fmt.Errorf("invalid card rank: %q", rank)
	}

	return NewCard(suit, r), nil
}

// MustParseCards parses a list of shorthands and panics on the first bad one.
// Intended for fixtures.
func MustParseCards(shorthands ...string) []*Card {
	cards := make([]*Card, 0, len(shorthands))
	for _, s := range shorthands {
		card, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		cards = append(cards, card)
	}
	return cards
}
