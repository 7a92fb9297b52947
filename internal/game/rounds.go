package game

import (
	"log"

	"plump-game/internal/shared"
)

// CardsForRound maps a round number to the cards dealt per player:
// 13 down to 1 over rounds 1..13, four single-card rounds 13..16, then
// 2 back up to 13 over rounds 17..28.
func CardsForRound(round int) int {
	switch {
	case round <= 13:
		return 14 - round
	case round <= 16:
		return 1
	default:
		return round - 15
	}
}

// IsSingleCardRound reports whether the round deals exactly one card and
// therefore uses hidden-information bidding and no trump.
func IsSingleCardRound(round int) bool {
	return round >= 13 && round <= 16
}

// startRound rotates the dealer, deals fresh hands and opens bidding.
// Assumes lock is held.
func (g *Game) startRound() {
	g.Phase = Dealing
	g.DealerIndex = (g.DealerIndex + 1) % MaxPlayers
	g.CardsPerPlayer = CardsForRound(g.RoundNumber)

	g.Predictions = make(map[string]int)
	for _, p := range g.Players {
		g.TricksWon[p.ID] = 0
	}
	g.TrumpSuit = ""
	g.CurrentTrick = shared.NewTrick()
	g.trickLock = false
	g.tricksPlayed = 0
	g.lastWinnerIndex = -1
	g.roundScored = false
	g.pendingReveal = false
	g.trickSeq++ // invalidate any straggling reveal timer
	g.HighestBidderID = ""

	if !g.dealHands() {
		// One automatic retry, then the round is fatal and left for
		// operator attention.
		log.Printf("Game %s: Deal produced wrong hand sizes in round %d, reshuffling once.", g.ID, g.RoundNumber)
		if !g.dealHands() {
			log.Printf("Game %s: Deal failed twice in round %d; round not started.", g.ID, g.RoundNumber)
			return
		}
	}

	log.Printf("Game %s: Round %d, %d card(s) each, dealer %s", g.ID, g.RoundNumber, g.CardsPerPlayer, g.Players[g.DealerIndex].Name)

	if IsSingleCardRound(g.RoundNumber) {
		// Each player sees every opponent's card but not their own
		// until bidding closes.
		for _, p := range g.Players {
			g.sendOpponentCards(p)
		}
	} else {
		for _, p := range g.Players {
			g.sendHand(p)
		}
	}

	g.Phase = Bidding
	g.CurrentActorIndex = (g.DealerIndex + 1) % MaxPlayers
	g.broadcastGameState()
	if !g.pauseIfActorDisconnected() {
		g.notifyCurrentPlayerTurn()
	}
}

// dealHands shuffles a fresh deck and deals round-robin, validating the
// hand-size post-condition. Returns false if any hand came up short.
// Assumes lock is held.
func (g *Game) dealHands() bool {
	deck := shared.NewDeck()
	deck.Shuffle()
	hands := deck.Deal(MaxPlayers, g.CardsPerPlayer)
	if hands == nil {
		return false
	}
	for _, hand := range hands {
		if len(hand) != g.CardsPerPlayer {
			return false
		}
	}
	for i, p := range g.Players {
		p.Hand = hands[i]
	}
	return true
}
