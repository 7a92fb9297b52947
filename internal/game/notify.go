package game

import (
	"log"

	"plump-game/internal/protocol"
	"plump-game/internal/shared"
)

// --- Messaging helpers (assume lock is held) ---

// broadcast sends a message to every seated player.
func (g *Game) broadcast(message []byte) {
	if g.sendMessage == nil {
		return
	}
	for _, p := range g.Players {
		if p != nil {
			g.sendMessage(p.ID, message)
		}
	}
}

// sendToPlayer sends a message to one player by stable ID.
func (g *Game) sendToPlayer(playerID string, message []byte) {
	if g.sendMessage == nil {
		return
	}
	g.sendMessage(playerID, message)
}

// sendActionError reports a rejection to the offending actor only.
func (g *Game) sendActionError(playerID string, err error) {
	payload := protocol.ErrorPayload{Message: err.Error()}
	if actionErr, ok := err.(*ActionError); ok {
		payload.Code = actionErr.Code
	}
	msg, marshalErr := protocol.NewMessage("error", payload)
	if marshalErr != nil {
		log.Printf("Game %s: Error creating error message for %s: %v", g.ID, playerID, marshalErr)
		return
	}
	g.sendToPlayer(playerID, msg)
}

// broadcastGameState sends the shared game snapshot to every player.
// Hands are never part of this payload; they go out individually.
func (g *Game) broadcastGameState() {
	var dealerID, actorID string
	if g.DealerIndex >= 0 && g.DealerIndex < len(g.Players) {
		dealerID = g.Players[g.DealerIndex].ID
	}
	if g.CurrentActorIndex >= 0 && g.CurrentActorIndex < len(g.Players) {
		actorID = g.Players[g.CurrentActorIndex].ID
	}

	payload := protocol.GameStatePayload{
		GameCode:       g.ID,
		Phase:          string(g.Phase),
		Round:          g.RoundNumber,
		CardsPerPlayer: g.CardsPerPlayer,
		DealerID:       dealerID,
		CurrentActorID: actorID,
		HighestBidder:  g.HighestBidderID,
		TrumpSuit:      g.TrumpSuit,
		LeadSuit:       g.CurrentTrick.LeadSuit,
		CurrentTrick:   append([]shared.PlayedCard(nil), g.CurrentTrick.Cards...),
		Predictions:    copyCounts(g.Predictions),
		TricksWon:      copyCounts(g.TricksWon),
		Scores:         copyCounts(g.Scores),
		PlumpCounts:    copyCounts(g.PlumpCounts),
	}
	msg, _ := protocol.NewMessage("game_state", payload)
	g.broadcast(msg)
}

// notifyCurrentPlayerTurn tells the player due to act that it is their
// turn.
func (g *Game) notifyCurrentPlayerTurn() {
	if g.CurrentActorIndex < 0 || g.CurrentActorIndex >= len(g.Players) {
		return
	}
	actor := g.Players[g.CurrentActorIndex]
	msg, _ := protocol.NewMessage("your_turn", protocol.YourTurnPayload{PlayerID: actor.ID})
	g.sendToPlayer(actor.ID, msg)
}

// sendHand delivers a player's own hand to them alone.
func (g *Game) sendHand(player *shared.Player) {
	payload := protocol.DealHandPayload{
		Round: g.RoundNumber,
		Hand:  append([]shared.Card(nil), player.Hand...),
	}
	msg, _ := protocol.NewMessage("deal_hand", payload)
	g.sendToPlayer(player.ID, msg)
}

// sendOpponentCards delivers, in single-card rounds, every other player's
// card to the recipient while keeping their own hidden.
func (g *Game) sendOpponentCards(player *shared.Player) {
	cards := make(map[string]shared.Card, MaxPlayers-1)
	for _, p := range g.Players {
		if p.ID != player.ID && len(p.Hand) > 0 {
			cards[p.ID] = p.Hand[0]
		}
	}
	msg, _ := protocol.NewMessage("opponent_cards", protocol.OpponentCardsPayload{Round: g.RoundNumber, Cards: cards})
	g.sendToPlayer(player.ID, msg)
}

// broadcastRoster sends the current seating to everyone in the game.
func (g *Game) broadcastRoster() {
	msg, _ := protocol.NewMessage("player_joined", protocol.RosterUpdatePayload{
		GameCode: g.ID,
		Players:  g.playerInfos(),
	})
	g.broadcast(msg)
}

// broadcastGameStarted announces the fixed seat order at game start.
func (g *Game) broadcastGameStarted() {
	msg, _ := protocol.NewMessage("game_started", protocol.GameStartedPayload{
		GameID:  g.ID,
		Players: g.playerInfos(),
	})
	g.broadcast(msg)
}

func (g *Game) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(g.Players))
	for i, p := range g.Players {
		infos[i] = protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			IsHost:    p.IsHost,
			Connected: p.Status == shared.Active,
			Seat:      i,
		}
	}
	return infos
}
