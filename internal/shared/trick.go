package shared

// PlayedCard stores a card along with the stable ID of the player who
// played it.
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Trick represents a single trick in progress. The first card played sets
// the lead suit.
type Trick struct {
	Cards    []PlayedCard `json:"cards"`
	LeadSuit Suit         `json:"lead_suit"`
}

// NewTrick creates a new empty trick.
func NewTrick() *Trick {
	return &Trick{Cards: make([]PlayedCard, 0, 4)}
}

// AddCard appends a play to the trick. The first card sets the lead suit.
func (t *Trick) AddCard(playerID string, card Card) {
	if len(t.Cards) == 0 {
		t.LeadSuit = card.Suit
	}
	t.Cards = append(t.Cards, PlayedCard{PlayerID: playerID, Card: card})
}

// Size returns the number of cards played so far.
func (t *Trick) Size() int {
	return len(t.Cards)
}

// DetermineWinner returns the player ID of the winning play under
// trump/lead-suit precedence:
//   - a trump card beats any non-trump card;
//   - between two trump cards, higher rank wins;
//   - otherwise the highest card of the lead suit wins; a card of neither
//     trump nor lead suit never wins.
//
// Pass an empty trump suit for trumpless tricks (single-card rounds).
// Rank ties cannot occur within one deck, so the earliest qualifying play
// wins by iteration order. Returns "" for an empty trick.
func (t *Trick) DetermineWinner(trump Suit) string {
	if len(t.Cards) == 0 {
		return ""
	}

	winner := t.Cards[0]
	for _, pc := range t.Cards[1:] {
		if beats(pc.Card, winner.Card, trump, t.LeadSuit) {
			winner = pc
		}
	}
	return winner.PlayerID
}

// beats reports whether card a outranks card b given the trump and lead
// suits.
func beats(a, b Card, trump, lead Suit) bool {
	if trump != "" {
		if a.Suit == trump && b.Suit != trump {
			return true
		}
		if a.Suit != trump && b.Suit == trump {
			return false
		}
		if a.Suit == trump && b.Suit == trump {
			return a.Rank > b.Rank
		}
	}
	if a.Suit == lead && b.Suit != lead {
		return true
	}
	if a.Suit != lead {
		return false
	}
	return a.Rank > b.Rank
}
