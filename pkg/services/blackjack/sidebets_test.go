package blackjack

import (
	"testing"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func TestEvaluatePerfectPairs(t *testing.T) {
	testCases := []struct {
		name  string
		cards []string
		kind  SideBetKind
		ratio Ratio
	}{
		{name: "perfect pair", cards: []string{"Qh", "Qh"}, kind: KindPerfectPair, ratio: 50},
		{name: "colored pair", cards: []string{"10h", "10d"}, kind: KindColoredPair, ratio: 15},
		{name: "black colored pair", cards: []string{"4c", "4s"}, kind: KindColoredPair, ratio: 15},
		{name: "mixed pair", cards: []string{"7c", "7h"}, kind: KindMixedPair, ratio: 5},
		{name: "aces pair", cards: []string{"As", "Ad"}, kind: KindMixedPair, ratio: 5},
		{name: "ten and king are not a pair", cards: []string{"10h", "Kh"}, kind: KindNone, ratio: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards := entities.MustParseCards(tc.cards...)
			kind, ratio := EvaluatePerfectPairs(cards[0], cards[1])
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.ratio, ratio)
		})
	}
}

func TestEvaluateTwentyOnePlusThree(t *testing.T) {
	testCases := []struct {
		name  string
		cards []string
		kind  SideBetKind
		ratio Ratio
	}{
		{name: "suited trips", cards: []string{"9s", "9s", "9s"}, kind: KindSuitedThreeOfAKind, ratio: 100},
		{name: "straight flush", cards: []string{"5h", "7h", "6h"}, kind: KindStraightFlush, ratio: 50},
		{name: "wheel straight flush", cards: []string{"Ad", "2d", "3d"}, kind: KindStraightFlush, ratio: 50},
		{name: "three of a kind", cards: []string{"7c", "7s", "7d"}, kind: KindThreeOfAKind, ratio: 40},
		{name: "straight", cards: []string{"Jc", "10h", "Qd"}, kind: KindStraight, ratio: 15},
		{name: "ace high straight", cards: []string{"Qc", "Kh", "Ad"}, kind: KindStraight, ratio: 15},
		{name: "wheel", cards: []string{"3c", "Ah", "2d"}, kind: KindStraight, ratio: 15},
		{name: "no wraparound", cards: []string{"Kc", "Ah", "2d"}, kind: KindNone, ratio: 0},
		{name: "flush", cards: []string{"2c", "9c", "Kc"}, kind: KindFlush, ratio: 10},
		{name: "pair with a jack", cards: []string{"10h", "10d", "Js"}, kind: KindNone, ratio: 0},
		{name: "nothing", cards: []string{"2h", "9c", "Kd"}, kind: KindNone, ratio: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards := entities.MustParseCards(tc.cards...)
			kind, ratio := EvaluateTwentyOnePlusThree(cards[0], cards[1], cards[2])
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.ratio, ratio)
		})
	}
}

func TestParseAction(t *testing.T) {
	testCases := []struct {
		input    string
		expected Action
	}{
		{"hit", ActionHit},
		{" Stand ", ActionStand},
		{"Double Down", ActionDoubleDown},
		{"double-down", ActionDoubleDown},
		{"double", ActionDoubleDown},
		{"SPLIT", ActionSplit},
	}
	for _, tc := range testCases {
		action, err := ParseAction(tc.input)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, action, tc.input)
	}

	_, err := ParseAction("surrender")
	assert.Error(t, err)
	assert.Equal(t, "Double Down", ActionDoubleDown.Label())
}
