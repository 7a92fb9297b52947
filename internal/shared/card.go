package shared

import "strconv"

// Suit represents the suit of a card.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists all four suits in deck-construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// ValidSuit reports whether s is one of the four playable suits.
func ValidSuit(s Suit) bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// Card represents a single playing card. Two cards are equal iff their
// suit and rank match, so Card is safe to compare with ==.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"` // 2..14, with 11=J, 12=Q, 13=K, 14=A
}

const (
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14

	MinRank = 2
	MaxRank = 14
)

// Display labels for the court cards; number cards label as their rank.
var rankLabels = map[int]string{
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
	RankAce:   "A",
}

// Label returns the display label for the card, e.g. "Q of spades".
func (c Card) Label() string {
	rank, ok := rankLabels[c.Rank]
	if !ok {
		rank = strconv.Itoa(c.Rank)
	}
	return rank + " of " + string(c.Suit)
}
