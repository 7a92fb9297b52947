package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineWinner(t *testing.T) {
	type play struct {
		player string
		card   Card
	}
	cases := []struct {
		name   string
		trump  Suit
		plays  []play
		winner string
	}{
		{
			name:  "trump beats higher ranked non-trump",
			trump: Hearts,
			plays: []play{
				{"P1", Card{Spades, 10}},
				{"P2", Card{Hearts, 2}},
				{"P3", Card{Spades, RankKing}},
				{"P4", Card{Clubs, 5}},
			},
			winner: "P2",
		},
		{
			name:  "no trump, highest of lead suit wins over off-suit ace",
			trump: "",
			plays: []play{
				{"P1", Card{Diamonds, 7}},
				{"P2", Card{Clubs, RankAce}},
				{"P3", Card{Diamonds, RankKing}},
				{"P4", Card{Hearts, 3}},
			},
			winner: "P3",
		},
		{
			name:  "higher trump beats lower trump",
			trump: Clubs,
			plays: []play{
				{"P1", Card{Spades, RankAce}},
				{"P2", Card{Clubs, 4}},
				{"P3", Card{Clubs, RankJack}},
				{"P4", Card{Clubs, 9}},
			},
			winner: "P3",
		},
		{
			name:  "all follow lead, highest rank wins",
			trump: Hearts,
			plays: []play{
				{"P1", Card{Spades, 9}},
				{"P2", Card{Spades, RankQueen}},
				{"P3", Card{Spades, 3}},
				{"P4", Card{Spades, RankJack}},
			},
			winner: "P2",
		},
		{
			name:  "off-suit never wins without trump qualification",
			trump: Diamonds,
			plays: []play{
				{"P1", Card{Spades, 2}},
				{"P2", Card{Hearts, RankAce}},
				{"P3", Card{Clubs, RankAce}},
				{"P4", Card{Hearts, RankKing}},
			},
			winner: "P1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trick := NewTrick()
			for _, p := range tc.plays {
				trick.AddCard(p.player, p.card)
			}
			assert.Equal(t, tc.plays[0].card.Suit, trick.LeadSuit)
			assert.Equal(t, tc.winner, trick.DetermineWinner(tc.trump))
		})
	}
}

func TestDetermineWinnerEmptyTrick(t *testing.T) {
	assert.Equal(t, "", NewTrick().DetermineWinner(Hearts))
}

func TestPlayerHandOps(t *testing.T) {
	p := NewPlayer("id1", "Alice", true)
	c1 := Card{Hearts, 10}
	c2 := Card{Spades, 3}
	p.Hand = []Card{c1, c2}

	assert.True(t, p.HasCard(c1))
	assert.True(t, p.HasSuit(Spades))
	assert.False(t, p.HasSuit(Clubs))

	assert.True(t, p.RemoveCard(c1))
	assert.False(t, p.HasCard(c1))
	assert.False(t, p.RemoveCard(c1))
	assert.Len(t, p.Hand, 1)
}
