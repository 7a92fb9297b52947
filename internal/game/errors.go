package game

import "plump-game/internal/protocol"

// ActionError is a user-action rejection. It carries a machine code so the
// client can distinguish reasons without parsing the message text. Action
// errors never mutate game state and are reported only to the acting
// connection.
type ActionError struct {
	Code    string
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}

var (
	ErrNotYourTurn     = &ActionError{protocol.ErrNotYourTurn, "not your turn"}
	ErrCardNotInHand   = &ActionError{protocol.ErrCardNotInHand, "card not in your hand"}
	ErrMustFollowSuit  = &ActionError{protocol.ErrMustFollowSuit, "must follow the lead suit"}
	ErrGameFull        = &ActionError{protocol.ErrGameFull, "game is full"}
	ErrAlreadyPlayed   = &ActionError{protocol.ErrAlreadyPlayed, "already played this trick"}
	ErrWrongPhase      = &ActionError{protocol.ErrWrongPhase, "action not valid in current phase"}
	ErrNameTaken       = &ActionError{protocol.ErrNameTaken, "name already taken in this game"}
	ErrInvalidBid      = &ActionError{protocol.ErrInvalidBid, "prediction out of range"}
	ErrPlayerUnknown   = &ActionError{protocol.ErrPlayerUnknown, "no such player in this game"}
	ErrNotDisconnected = &ActionError{protocol.ErrAlreadyConnected, "player is not disconnected"}
	ErrInvalidSuit     = &ActionError{protocol.ErrInvalidMessage, "invalid suit"}
)
