package card

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[Card]int)
	for _, c := range deck {
		seen[c]++
	}
	assert.Len(t, seen, 52)

	for _, s := range Suits {
		for r := Rank2; r <= RankA; r++ {
			assert.Equal(t, 1, seen[Card{Suit: s, Rank: r}], "%s%s", r, s)
		}
	}

	faces := map[Rank]int{RankJ: 11, RankQ: 12, RankK: 13, RankA: 14, Rank10: 10, Rank2: 2}
	for r, v := range faces {
		assert.Equal(t, v, Card{Suit: Clubs, Rank: r}.Value())
	}
}

func TestShuffle(t *testing.T) {
	t.Parallel()

	t.Run("permutation without mutation", func(t *testing.T) {
		t.Parallel()
		deck := NewDeck()
		orig := append(Deck(nil), deck...)

		shuffled := Shuffle(deck, rand.New(rand.NewPCG(1, 2)))
		assert.Equal(t, orig, deck)
		assert.ElementsMatch(t, orig, shuffled)
		assert.NotEqual(t, orig, shuffled)
	})

	t.Run("same seed same order", func(t *testing.T) {
		t.Parallel()
		a := Shuffle(NewDeck(), rand.New(rand.NewPCG(7, 7)))
		b := Shuffle(NewDeck(), rand.New(rand.NewPCG(7, 7)))
		assert.Equal(t, a, b)
	})

	t.Run("empty and singleton", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Shuffle(Deck{}, nil))
		single := Deck{TwoOfClubs}
		out := Shuffle(single, nil)
		assert.Equal(t, single, out)
		out[0] = QueenOfSpades
		assert.Equal(t, TwoOfClubs, single[0])
	})
}

func TestDeal(t *testing.T) {
	t.Parallel()

	deck := Shuffle(NewDeck(), rand.New(rand.NewPCG(3, 4)))
	hands := Deal(deck)

	var all []Card
	for i, h := range hands {
		assert.Len(t, h, 13, "seat %d", i)
		all = append(all, h...)
	}
	assert.ElementsMatch(t, []Card(deck), all)
	assert.Equal(t, deck[5], hands[1][1])

	uneven := Deal(NewDeck()[:6])
	assert.Len(t, uneven[0], 2)
	assert.Len(t, uneven[1], 2)
	assert.Len(t, uneven[2], 1)
	assert.Len(t, uneven[3], 1)
}

func TestSortHand(t *testing.T) {
	t.Parallel()

	hand := []Card{
		{Spades, Rank2}, {Hearts, RankA}, {Clubs, Rank10}, {Hearts, Rank3}, {Diamonds, RankK},
	}
	sorted := SortHand(hand)
	assert.Equal(t, []Card{
		{Hearts, Rank3}, {Hearts, RankA}, {Diamonds, RankK}, {Clubs, Rank10}, {Spades, Rank2},
	}, sorted)
	assert.Equal(t, Card{Spades, Rank2}, hand[0])
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(QueenOfSpades)
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"SPADES","rank":"Q","value":12}`, string(b))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"suit":"HEARTS","rank":"10","value":99}`), &c))
	assert.Equal(t, Card{Hearts, Rank10}, c)
	assert.Equal(t, 10, c.Value())

	assert.Error(t, json.Unmarshal([]byte(`{"suit":"STARS","rank":"Q"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"suit":"HEARTS","rank":"1"}`), &c))

	// 缺少花色或点数时不能得到零值牌
	c = QueenOfSpades
	assert.Error(t, json.Unmarshal([]byte(`{"value":5}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"suit":"CLUBS"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"rank":"7"}`), &c))
	assert.Equal(t, QueenOfSpades, c)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Card
		hasError bool
	}{
		{"QS", QueenOfSpades, false},
		{"2c", TwoOfClubs, false},
		{"10H", Card{Hearts, Rank10}, false},
		{"TD", Card{Diamonds, Rank10}, false},
		{"A♠", Card{Spades, RankA}, false},
		{"1H", Card{}, true},
		{"QX", Card{}, true},
		{"Q", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			c, err := Parse(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}

	cards, err := ParseList("2C, 3d  QS")
	require.NoError(t, err)
	assert.Equal(t, []Card{TwoOfClubs, {Diamonds, Rank3}, QueenOfSpades}, cards)
}
