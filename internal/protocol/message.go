package protocol

import (
	"encoding/json"

	"plump-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Machine-distinguishable error codes carried by ErrorPayload.
const (
	ErrNotYourTurn      = "not_your_turn"
	ErrCardNotInHand    = "card_not_in_hand"
	ErrMustFollowSuit   = "must_follow_suit"
	ErrGameFull         = "game_full"
	ErrGameNotFound     = "game_not_found"
	ErrAlreadyPlayed    = "already_played_this_trick"
	ErrWrongPhase       = "wrong_phase"
	ErrNameTaken        = "name_taken"
	ErrInvalidBid       = "invalid_bid"
	ErrPlayerUnknown    = "player_unknown"
	ErrInvalidMessage   = "invalid_message"
	ErrAlreadyConnected = "already_connected"
)

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name string `json:"name"`
}

type JoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

type StartGamePayload struct {
	GameCode string `json:"game_code"`
}

type MakePredictionPayload struct {
	Prediction int `json:"prediction"`
}

type SelectTrumpPayload struct {
	Suit shared.Suit `json:"suit"`
}

type PlayCardPayload struct {
	Suit shared.Suit `json:"suit"`
	Rank int         `json:"rank"`
}

type RejoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

// --- Server -> Client Payload Structs ---

type GameCreatedPayload struct {
	GameCode string `json:"game_code"`
	PlayerID string `json:"player_id"`
}

type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	Connected bool   `json:"connected"`
	Seat      int    `json:"seat"`
}

type RosterUpdatePayload struct {
	GameCode string       `json:"game_code"`
	Players  []PlayerInfo `json:"players"`
}

type GameStartedPayload struct {
	GameID  string       `json:"game_id"`
	Players []PlayerInfo `json:"players"`
}

// DealHandPayload delivers a player's own hand. Never broadcast.
type DealHandPayload struct {
	Round int           `json:"round"`
	Hand  []shared.Card `json:"hand"`
}

// OpponentCardsPayload delivers, in single-card rounds, every opponent's
// card while the recipient's own card stays hidden. Never broadcast.
type OpponentCardsPayload struct {
	Round int                     `json:"round"`
	Cards map[string]shared.Card `json:"cards"` // player ID -> their single card
}

type GameStatePayload struct {
	GameCode       string              `json:"game_code"`
	Phase          string              `json:"phase"`
	Round          int                 `json:"round"`
	CardsPerPlayer int                 `json:"cards_per_player"`
	DealerID       string              `json:"dealer_id"`
	CurrentActorID string              `json:"current_actor_id"`
	HighestBidder  string              `json:"highest_bidder,omitempty"`
	TrumpSuit      shared.Suit         `json:"trump_suit,omitempty"`
	LeadSuit       shared.Suit         `json:"lead_suit,omitempty"`
	CurrentTrick   []shared.PlayedCard `json:"current_trick"`
	Predictions    map[string]int      `json:"predictions"`
	TricksWon      map[string]int      `json:"tricks_won"`
	Scores         map[string]int      `json:"scores"`
	PlumpCounts    map[string]int      `json:"plump_counts"`
}

type YourTurnPayload struct {
	PlayerID string `json:"player_id"`
}

type TrickEndPayload struct {
	WinnerID   string              `json:"winner_id"`
	WinnerName string              `json:"winner_name"`
	Cards      []shared.PlayedCard `json:"cards"`
}

type RoundEndPayload struct {
	Round       int            `json:"round"`
	Predictions map[string]int `json:"predictions"`
	TricksWon   map[string]int `json:"tricks_won"`
	Scores      map[string]int `json:"scores"`
	PlumpCounts map[string]int `json:"plump_counts"`
}

type GamePausedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type GameResumedPayload struct {
	PlayerID string `json:"player_id"`
}

// PlayerResult is one player's final standing.
type PlayerResult struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	PlumpCount int    `json:"plump_count"`
	Rank       int    `json:"rank"`
}

type GameOverPayload struct {
	Results []PlayerResult `json:"results"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage builds a JSON message envelope around the given payload.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
