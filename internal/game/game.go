package game

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"plump-game/internal/protocol"
	"plump-game/internal/shared"
)

// Phase represents the current state of the game state machine.
type Phase string

const (
	WaitingForPlayers Phase = "WaitingForPlayers"
	Dealing           Phase = "Dealing"
	Bidding           Phase = "Bidding"
	SelectingTrump    Phase = "SelectingTrump"
	Playing           Phase = "Playing"
	Paused            Phase = "Paused"
	GameOver          Phase = "GameOver"
)

const (
	// MaxPlayers is the fixed table size; the game starts only with
	// exactly this many seats filled.
	MaxPlayers = 4

	// FinalRound is the last round of the schedule; the game ends once
	// it has been scored.
	FinalRound = 28
)

// MessageSender delivers an outbound message to one player by stable ID.
// The Hub provides the implementation.
type MessageSender func(playerID string, message []byte)

// ResultsRecorder persists the final standings of a finished game. A
// failure is logged by the caller and never affects game state.
type ResultsRecorder func(gameID string, results []protocol.PlayerResult) error

// Game is the aggregate root for one table. All state is guarded by mu;
// every exported method takes the lock and the unexported helpers assume
// it is held.
type Game struct {
	ID      string           // short shareable game code
	Players []*shared.Player // seat order, fixed once all four have joined

	Phase       Phase
	PausedPhase Phase // phase to restore when a paused game resumes

	DealerIndex    int // rotates +1 (mod 4) at the start of every round
	RoundNumber    int // 1..FinalRound
	CardsPerPlayer int

	Predictions map[string]int // player ID -> bid, cleared each round
	TricksWon   map[string]int // player ID -> tricks this round
	Scores      map[string]int // player ID -> cumulative score
	PlumpCounts map[string]int // player ID -> cumulative plumps

	TrumpSuit         shared.Suit
	CurrentTrick      *shared.Trick
	CurrentActorIndex int
	HighestBidderID   string

	// trickLock guards the reveal window between the 4th card landing
	// and the deferred continuation clearing the trick. trickSeq stamps
	// each scheduled continuation so a stale timer no-ops.
	trickLock        bool
	trickSeq         int
	tricksPlayed     int
	lastWinnerIndex  int
	roundScored      bool
	pendingReveal    bool

	revealWindow  time.Duration
	mu            sync.Mutex
	sendMessage   MessageSender
	recordResults ResultsRecorder
}

// NewGame initializes a game in the waiting phase. The creator joins
// separately via AddPlayer and becomes the host.
func NewGame(code string, sender MessageSender, recorder ResultsRecorder, revealWindow time.Duration) *Game {
	return &Game{
		ID:              code,
		Players:         []*shared.Player{},
		Phase:           WaitingForPlayers,
		DealerIndex:     -1, // first round's rotation lands on seat 0
		Predictions:     make(map[string]int),
		TricksWon:       make(map[string]int),
		Scores:          make(map[string]int),
		PlumpCounts:     make(map[string]int),
		CurrentTrick:    shared.NewTrick(),
		lastWinnerIndex: -1,
		revealWindow:    revealWindow,
		sendMessage:     sender,
		recordResults:   recorder,
	}
}

// AddPlayer seats a new player. The first player to join is the host.
func (g *Game) AddPlayer(playerID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != WaitingForPlayers {
		return ErrWrongPhase
	}
	if len(g.Players) >= MaxPlayers {
		return ErrGameFull
	}
	for _, p := range g.Players {
		if p.Name == name {
			return ErrNameTaken
		}
	}

	player := shared.NewPlayer(playerID, name, len(g.Players) == 0)
	g.Players = append(g.Players, player)
	g.Scores[playerID] = 0
	g.PlumpCounts[playerID] = 0

	log.Printf("Game %s: Player %s (%s) joined. Seats filled: %d/%d", g.ID, playerID, name, len(g.Players), MaxPlayers)
	g.broadcastRoster()
	return nil
}

// Start begins the game. Only the host may start, and only with a full
// table.
func (g *Game) Start(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != WaitingForPlayers {
		return ErrWrongPhase
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return ErrPlayerUnknown
	}
	if !g.Players[idx].IsHost {
		return ErrNotYourTurn
	}
	if len(g.Players) != MaxPlayers {
		return &ActionError{protocol.ErrWrongPhase, "need exactly 4 players to start"}
	}

	log.Printf("Game %s: Starting. Seat order: %v", g.ID, g.playerNames())
	g.broadcastGameStarted()
	g.RoundNumber = 1
	g.startRound()
	return nil
}

// HandlePlayerAction processes an in-game action from a seated player.
// Rejections are reported only to the acting player.
func (g *Game) HandlePlayerAction(playerID string, msg protocol.Message) {
	var err error
	switch msg.Type {
	case "make_prediction":
		var payload protocol.MakePredictionPayload
		if err = json.Unmarshal(msg.Payload, &payload); err != nil {
			err = &ActionError{protocol.ErrInvalidMessage, "invalid make_prediction message"}
			break
		}
		err = g.MakePrediction(playerID, payload.Prediction)
	case "select_trump":
		var payload protocol.SelectTrumpPayload
		if err = json.Unmarshal(msg.Payload, &payload); err != nil {
			err = &ActionError{protocol.ErrInvalidMessage, "invalid select_trump message"}
			break
		}
		err = g.SelectTrump(playerID, payload.Suit)
	case "play_card":
		var payload protocol.PlayCardPayload
		if err = json.Unmarshal(msg.Payload, &payload); err != nil {
			err = &ActionError{protocol.ErrInvalidMessage, "invalid play_card message"}
			break
		}
		err = g.PlayCard(playerID, shared.Card{Suit: payload.Suit, Rank: payload.Rank})
	default:
		log.Printf("Game %s: Unhandled action type '%s' from %s", g.ID, msg.Type, playerID)
		return
	}

	if err != nil {
		log.Printf("Game %s: Rejected %s from %s: %v", g.ID, msg.Type, playerID, err)
		g.sendActionError(playerID, err)
	}
}

// SelectTrump records the trump suit for the round. Only the highest
// bidder may act, and only in non-single-card rounds (single-card rounds
// never enter SelectingTrump).
func (g *Game) SelectTrump(playerID string, suit shared.Suit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != SelectingTrump {
		return ErrWrongPhase
	}
	if playerID != g.HighestBidderID {
		return ErrNotYourTurn
	}
	if !shared.ValidSuit(suit) {
		return ErrInvalidSuit
	}

	g.TrumpSuit = suit
	g.Phase = Playing
	g.CurrentActorIndex = g.playerIndex(g.HighestBidderID)
	log.Printf("Game %s: Trump is %s. %s leads the first trick.", g.ID, suit, g.Players[g.CurrentActorIndex].Name)

	g.broadcastGameState()
	g.notifyCurrentPlayerTurn()
	return nil
}

// PlayCard validates and applies a card play per the trick rules.
func (g *Game) PlayCard(playerID string, card shared.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != Playing {
		return ErrWrongPhase
	}
	if g.trickLock {
		return ErrAlreadyPlayed
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return ErrPlayerUnknown
	}
	if idx != g.CurrentActorIndex {
		return ErrNotYourTurn
	}
	player := g.Players[idx]
	if !player.HasCard(card) {
		return ErrCardNotInHand
	}
	if g.CurrentTrick.Size() > 0 && card.Suit != g.CurrentTrick.LeadSuit && player.HasSuit(g.CurrentTrick.LeadSuit) {
		return ErrMustFollowSuit
	}

	player.RemoveCard(card)
	g.CurrentTrick.AddCard(playerID, card)
	log.Printf("Game %s: %s played %s", g.ID, player.Name, card.Label())

	if g.CurrentTrick.Size() < MaxPlayers {
		if g.advanceActor() {
			return nil // paused, already announced
		}
		g.broadcastGameState()
		g.notifyCurrentPlayerTurn()
		return nil
	}

	g.endTrick()
	return nil
}

// endTrick evaluates the completed trick, locks out further plays and
// schedules the deferred reveal continuation. Assumes lock is held.
func (g *Game) endTrick() {
	trump := g.TrumpSuit
	if IsSingleCardRound(g.RoundNumber) {
		trump = "" // no trump in single-card rounds
	}
	winnerID := g.CurrentTrick.DetermineWinner(trump)
	winnerIndex := g.playerIndex(winnerID)
	if winnerIndex == -1 {
		// Cannot happen with a full trick; recover by giving the
		// trick to the leader rather than wedging the round.
		log.Printf("Game %s: Trick winner %q did not resolve to a seat; defaulting to leader.", g.ID, winnerID)
		winnerID = g.CurrentTrick.Cards[0].PlayerID
		winnerIndex = g.playerIndex(winnerID)
	}

	g.TricksWon[winnerID]++
	g.tricksPlayed++
	g.lastWinnerIndex = winnerIndex
	g.trickLock = true
	g.trickSeq++
	seq := g.trickSeq

	log.Printf("Game %s: Trick %d/%d won by %s", g.ID, g.tricksPlayed, g.CardsPerPlayer, g.Players[winnerIndex].Name)

	payload := protocol.TrickEndPayload{
		WinnerID:   winnerID,
		WinnerName: g.Players[winnerIndex].Name,
		Cards:      g.CurrentTrick.Cards,
	}
	msg, _ := protocol.NewMessage("trick_end", payload)
	g.broadcast(msg)
	g.broadcastGameState()

	// Hold the completed trick visible, then continue. The continuation
	// re-validates the sequence number so a stale timer no-ops.
	time.AfterFunc(g.revealWindow, func() {
		g.finishReveal(seq)
	})
}

// finishReveal is the deferred continuation that ends the reveal window.
// It discards itself when the game has already moved on (stale sequence
// number or lock already cleared) and defers to the resume path when the
// game paused mid-window.
func (g *Game) finishReveal(seq int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq != g.trickSeq || !g.trickLock {
		log.Printf("Game %s: Stale reveal continuation (seq %d) discarded.", g.ID, seq)
		return
	}
	if g.Phase == Paused {
		g.pendingReveal = true
		return
	}
	if g.Phase != Playing {
		return
	}

	g.CurrentTrick = shared.NewTrick()
	g.trickLock = false
	g.pendingReveal = false

	if g.tricksPlayed == g.CardsPerPlayer {
		g.endRound()
		return
	}

	g.CurrentActorIndex = g.lastWinnerIndex
	g.broadcastGameState()
	if !g.pauseIfActorDisconnected() {
		g.notifyCurrentPlayerTurn()
	}
}

// endRound scores the finished round and either advances the schedule or
// ends the game. Assumes lock is held.
func (g *Game) endRound() {
	g.scoreRound()

	if g.RoundNumber >= FinalRound {
		g.endGame()
		return
	}
	g.RoundNumber++
	g.startRound()
}

// endGame transitions to GameOver and hands the final standings to the
// results collaborator. Assumes lock is held.
func (g *Game) endGame() {
	g.Phase = GameOver
	results := g.finalResults()
	log.Printf("Game %s: Game over after round %d. Results: %+v", g.ID, g.RoundNumber, results)

	msg, _ := protocol.NewMessage("game_over", protocol.GameOverPayload{Results: results})
	g.broadcast(msg)
	g.broadcastGameState()

	if g.recordResults != nil {
		// Persistence is best-effort; a failure must not touch game
		// state, so it runs outside the lock.
		gameID := g.ID
		go func() {
			if err := g.recordResults(gameID, results); err != nil {
				log.Printf("Game %s: Failed to persist results: %v", gameID, err)
			}
		}()
	}
}

// advanceActor moves the turn to the next seat, pausing if that seat is
// disconnected. Returns true if the game paused. Assumes lock is held.
func (g *Game) advanceActor() bool {
	g.CurrentActorIndex = (g.CurrentActorIndex + 1) % MaxPlayers
	return g.pauseIfActorDisconnected()
}

// pauseIfActorDisconnected pauses the game when the player due to act is
// not connected. Returns true if the game paused. Assumes lock is held.
func (g *Game) pauseIfActorDisconnected() bool {
	actor := g.Players[g.CurrentActorIndex]
	if actor.Status != shared.Disconnected {
		return false
	}
	if g.Phase == Paused {
		return true
	}
	g.PausedPhase = g.Phase
	g.Phase = Paused
	log.Printf("Game %s: Paused, waiting for %s to reconnect.", g.ID, actor.Name)

	msg, _ := protocol.NewMessage("game_paused", protocol.GamePausedPayload{PlayerID: actor.ID, PlayerName: actor.Name})
	g.broadcast(msg)
	g.broadcastGameState()
	return true
}

// --- Utility helpers (assume lock is held) ---

// playerIndex finds the seat (0-3) of a player by stable ID. Returns -1
// if not seated.
func (g *Game) playerIndex(playerID string) int {
	for i, p := range g.Players {
		if p != nil && p.ID == playerID {
			return i
		}
	}
	return -1
}

func (g *Game) playerNames() []string {
	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
	}
	return names
}
