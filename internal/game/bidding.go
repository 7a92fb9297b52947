package game

import "log"

// MakePrediction records one player's bid for the round. Bidding runs in
// seat order from the seat after the dealer; the fourth bid closes the
// round's bidding and computes the highest bidder.
func (g *Game) MakePrediction(playerID string, prediction int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != Bidding {
		return ErrWrongPhase
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return ErrPlayerUnknown
	}
	if idx != g.CurrentActorIndex {
		return ErrNotYourTurn
	}
	if prediction < 0 || prediction > g.CardsPerPlayer {
		return ErrInvalidBid
	}

	g.Predictions[playerID] = prediction
	log.Printf("Game %s: %s predicts %d", g.ID, g.Players[idx].Name, prediction)

	if len(g.Predictions) < MaxPlayers {
		if g.advanceActor() {
			return nil // paused, already announced
		}
		g.broadcastGameState()
		g.notifyCurrentPlayerTurn()
		return nil
	}

	g.closeBidding()
	return nil
}

// closeBidding computes the highest bidder and transitions out of the
// bidding phase. Single-card rounds reveal hands to their owners and go
// straight to play; all other rounds hand off to trump selection.
// Assumes lock is held.
func (g *Game) closeBidding() {
	g.HighestBidderID = g.highestBidder()
	g.CurrentActorIndex = g.playerIndex(g.HighestBidderID)
	log.Printf("Game %s: Bidding closed. Highest bidder is %s (%d).",
		g.ID, g.Players[g.CurrentActorIndex].Name, g.Predictions[g.HighestBidderID])

	if IsSingleCardRound(g.RoundNumber) {
		// Own cards were hidden during bidding; reveal them now.
		for _, p := range g.Players {
			g.sendHand(p)
		}
		g.Phase = Playing
	} else {
		g.Phase = SelectingTrump
	}

	g.broadcastGameState()
	if !g.pauseIfActorDisconnected() {
		g.notifyCurrentPlayerTurn()
	}
}

// highestBidder returns the player with the strictly greatest prediction.
// Ties break by seat order starting immediately after the dealer: the
// first tied seat encountered in that rotation wins. Assumes lock is held
// and all four predictions are in.
func (g *Game) highestBidder() string {
	bestID := ""
	best := -1
	for i := 1; i <= MaxPlayers; i++ {
		p := g.Players[(g.DealerIndex+i)%MaxPlayers]
		if bid, ok := g.Predictions[p.ID]; ok && bid > best {
			best = bid
			bestID = p.ID
		}
	}
	return bestID
}
