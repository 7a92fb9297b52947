package game

import (
	"log"
	"time"

	"plump-game/internal/protocol"
	"plump-game/internal/shared"
)

// HandleDisconnect marks a player as disconnected and pauses the game if
// the player due to act just went away. Before the game has started the
// seat is simply released. Returns true when the game is left with no
// players and should be torn down by the registry.
func (g *Game) HandleDisconnect(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.playerIndex(playerID)
	if idx == -1 {
		return false
	}
	player := g.Players[idx]

	if g.Phase == WaitingForPlayers {
		g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
		delete(g.Scores, playerID)
		delete(g.PlumpCounts, playerID)
		log.Printf("Game %s: %s left before start. Seats filled: %d/%d", g.ID, player.Name, len(g.Players), MaxPlayers)
		if len(g.Players) == 0 {
			return true
		}
		if player.IsHost {
			g.Players[0].IsHost = true
			log.Printf("Game %s: Host left, %s is the new host.", g.ID, g.Players[0].Name)
		}
		g.broadcastRoster()
		return false
	}

	player.Status = shared.Disconnected
	log.Printf("Game %s: %s disconnected (phase %s).", g.ID, player.Name, g.Phase)

	if g.Phase == GameOver || g.Phase == Paused {
		return false
	}
	if idx == g.CurrentActorIndex {
		g.pauseIfActorDisconnected()
	} else {
		g.broadcastGameState()
	}
	return false
}

// ResolveRejoin locates a disconnected player by claimed name and returns
// their stable ID so the hub can rebind the new connection handle to it.
// The old handle must already have been invalidated by the hub; nothing
// here mutates game state.
func (g *Game) ResolveRejoin(name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range g.Players {
		if p.Name == name {
			if p.Status != shared.Disconnected {
				return "", ErrNotDisconnected
			}
			return p.ID, nil
		}
	}
	return "", ErrPlayerUnknown
}

// CompleteRejoin marks the player live again, restores the paused phase
// once nobody remains disconnected and resynchronizes the rejoined client
// with a full snapshot plus their private hand.
func (g *Game) CompleteRejoin(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.playerIndex(playerID)
	if idx == -1 {
		return ErrPlayerUnknown
	}
	player := g.Players[idx]
	player.Status = shared.Active
	log.Printf("Game %s: %s reconnected.", g.ID, player.Name)

	msg, _ := protocol.NewMessage("game_resumed", protocol.GameResumedPayload{PlayerID: playerID})
	g.broadcast(msg)

	if g.Phase == Paused && !g.anyDisconnected() {
		g.Phase = g.PausedPhase
		g.PausedPhase = ""
		log.Printf("Game %s: All players back, resuming in phase %s.", g.ID, g.Phase)
	}

	// A partial rewrite must never leave the turn pointing at nothing;
	// recompute the actor from durable facts if it no longer resolves.
	if g.CurrentActorIndex < 0 || g.CurrentActorIndex >= len(g.Players) || g.Players[g.CurrentActorIndex] == nil {
		g.recomputeActor()
	}

	g.sendSnapshotTo(player)
	g.broadcastGameState()
	if g.Phase != Paused && g.playerIndex(playerID) == g.CurrentActorIndex && !g.trickLock {
		g.notifyCurrentPlayerTurn()
	}

	// A reveal window that elapsed while paused still owes its
	// continuation; reschedule it now that play can proceed.
	if g.pendingReveal && g.Phase == Playing {
		g.pendingReveal = false
		seq := g.trickSeq
		time.AfterFunc(10*time.Millisecond, func() {
			g.finishReveal(seq)
		})
	}
	return nil
}

// sendSnapshotTo resynchronizes one player after a reconnect: their hand
// (or the opponents' cards while single-card bidding is still open).
// Assumes lock is held.
func (g *Game) sendSnapshotTo(player *shared.Player) {
	phase := g.Phase
	if phase == Paused {
		phase = g.PausedPhase
	}
	switch phase {
	case Bidding:
		if IsSingleCardRound(g.RoundNumber) {
			g.sendOpponentCards(player)
			return
		}
		g.sendHand(player)
	case SelectingTrump, Playing:
		g.sendHand(player)
	}
}

// recomputeActor rebuilds the current-actor reference from predictions
// and seating order instead of failing the game. Assumes lock is held.
func (g *Game) recomputeActor() {
	phase := g.Phase
	if phase == Paused {
		phase = g.PausedPhase
	}

	switch phase {
	case Bidding:
		// First seat after the dealer still missing a prediction.
		for i := 1; i <= MaxPlayers; i++ {
			seat := (g.DealerIndex + i) % MaxPlayers
			if _, ok := g.Predictions[g.Players[seat].ID]; !ok {
				g.CurrentActorIndex = seat
				return
			}
		}
		g.CurrentActorIndex = (g.DealerIndex + 1) % MaxPlayers
	case SelectingTrump:
		g.CurrentActorIndex = g.playerIndex(g.HighestBidderID)
	case Playing:
		if g.CurrentTrick.Size() > 0 {
			last := g.CurrentTrick.Cards[g.CurrentTrick.Size()-1]
			g.CurrentActorIndex = (g.playerIndex(last.PlayerID) + 1) % MaxPlayers
			return
		}
		if g.lastWinnerIndex >= 0 {
			g.CurrentActorIndex = g.lastWinnerIndex
			return
		}
		g.CurrentActorIndex = g.playerIndex(g.HighestBidderID)
	default:
		g.CurrentActorIndex = 0
	}
	log.Printf("Game %s: Recomputed current actor to seat %d.", g.ID, g.CurrentActorIndex)
}

// anyDisconnected reports whether any seat is still without a live
// connection. Assumes lock is held.
func (g *Game) anyDisconnected() bool {
	for _, p := range g.Players {
		if p.Status == shared.Disconnected {
			return true
		}
	}
	return false
}

// ConnectedCount returns the number of players with live connections.
func (g *Game) ConnectedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.Players {
		if p.Status == shared.Active {
			n++
		}
	}
	return n
}

// CurrentPhase returns the game's phase under the lock.
func (g *Game) CurrentPhase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Phase
}
