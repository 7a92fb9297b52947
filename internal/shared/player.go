package shared

// PlayerStatus tracks whether a player's connection is live.
type PlayerStatus int

const (
	Active PlayerStatus = iota
	Disconnected
)

// Player represents a seated player. The ID is stable for the lifetime of
// the game and independent of the transport connection; only Status changes
// when the underlying connection comes and goes.
type Player struct {
	ID     string       // Stable identifier, assigned at join
	Name   string       // Player's chosen name, unique within a game
	IsHost bool         // Exactly one host per game, the creator
	Status PlayerStatus // Active or Disconnected
	Hand   []Card       // Cards currently held by the player
}

// NewPlayer creates a new player with the given ID and name.
func NewPlayer(id string, name string, isHost bool) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		IsHost: isHost,
		Status: Active,
		Hand:   []Card{},
	}
}

// RemoveCard removes a card from the player's hand. Returns false if the
// card is not held.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasCard reports whether the player holds the given card.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds any card of the given suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}
