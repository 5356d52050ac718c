package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveCards(t *testing.T) {
	t.Parallel()

	hand := []Card{TwoOfClubs, QueenOfSpades, {Hearts, Rank5}}
	out := RemoveCards(hand, []Card{QueenOfSpades})
	assert.Equal(t, []Card{TwoOfClubs, {Hearts, Rank5}}, out)
	assert.Len(t, hand, 3)
}

func TestHasDuplicates(t *testing.T) {
	t.Parallel()

	assert.False(t, HasDuplicates([]Card{TwoOfClubs, QueenOfSpades}))
	assert.True(t, HasDuplicates([]Card{TwoOfClubs, QueenOfSpades, TwoOfClubs}))
}

func TestTrickPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TrickPoints([]Card{TwoOfClubs, {Clubs, RankA}}))
	assert.Equal(t, 14, TrickPoints([]Card{TwoOfClubs, {Clubs, RankA}, {Hearts, RankK}, QueenOfSpades}))
	assert.True(t, IsPointCard(QueenOfSpades))
	assert.True(t, IsPointCard(Card{Hearts, Rank2}))
	assert.False(t, IsPointCard(Card{Spades, RankK}))
}

func TestIsValidPlay(t *testing.T) {
	t.Parallel()

	h := func(r Rank) Card { return Card{Hearts, r} }
	c := func(r Rank) Card { return Card{Clubs, r} }
	d := func(r Rank) Card { return Card{Diamonds, r} }

	mixed := []Card{h(5), d(3), TwoOfClubs, c(9), QueenOfSpades}
	noClubs := []Card{h(5), d(3), QueenOfSpades}

	tests := []struct {
		name         string
		card         Card
		hand         []Card
		trick        []Card
		heartsBroken bool
		firstTrick   bool
		valid        bool
	}{
		{"first lead two of clubs", TwoOfClubs, mixed, nil, false, true, true},
		{"first lead other club", c(9), mixed, nil, false, true, false},
		{"first trick follow suit", c(9), mixed, []Card{TwoOfClubs}, false, true, true},
		{"first trick heart void", h(5), noClubs, []Card{TwoOfClubs}, false, true, false},
		{"first trick queen void", QueenOfSpades, noClubs, []Card{TwoOfClubs}, false, true, false},
		{"first trick discard", d(3), noClubs, []Card{TwoOfClubs}, false, true, true},
		{"lead heart unbroken", h(5), mixed, nil, false, false, false},
		{"lead heart broken", h(5), mixed, nil, true, false, true},
		{"lead heart only hearts", h(5), []Card{h(5), h(9)}, nil, false, false, true},
		{"lead queen unbroken", QueenOfSpades, mixed, nil, false, false, true},
		{"must follow suit", d(3), mixed, []Card{c(4)}, false, false, false},
		{"follow suit", c(9), mixed, []Card{c(4)}, false, false, true},
		{"void may slough heart", h(5), noClubs, []Card{c(4)}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, IsValidPlay(tt.card, tt.hand, tt.trick, tt.heartsBroken, tt.firstTrick))
		})
	}
}
