package server

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"plump-game/internal/database"
	"plump-game/internal/game"
	"plump-game/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client
// reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages active WebSocket connections and routes actions to game
// instances. It owns the replaceable playerID -> connection lookup used
// for outbound delivery; game state keys on stable player IDs only.
type Hub struct {
	registry       *Registry
	db             *database.Service
	clients        map[*Client]bool
	clientsByID    map[string]*Client // stable player ID -> live connection
	clientToGame   map[*Client]string // client -> game code
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	revealWindow   time.Duration
}

// NewHub creates a new Hub instance.
func NewHub(db *database.Service, revealWindow time.Duration) *Hub {
	return &Hub{
		registry:       NewRegistry(),
		db:             db,
		clients:        make(map[*Client]bool),
		clientsByID:    make(map[string]*Client),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		revealWindow:   revealWindow,
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientsByID[client.ID] = client
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.handleUnregister(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleUnregister removes a client's connection handle and notifies its
// game. The handle is removed from all lookup tables before the game sees
// the disconnect, so no action can resolve through it afterwards.
func (h *Hub) handleUnregister(client *Client) {
	h.clientMu.Lock()
	gameCode, inGame := h.clientToGame[client]
	_, clientExists := h.clients[client]
	if clientExists {
		delete(h.clients, client)
		delete(h.clientToGame, client)
		// Only drop the ID mapping if it still points at this handle; a
		// rejoin may already have rebound the ID to a new connection.
		if h.clientsByID[client.ID] == client {
			delete(h.clientsByID, client.ID)
		}
		close(client.send)
		log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
	}
	h.clientMu.Unlock()

	if !clientExists || !inGame {
		return
	}

	gameInstance, gameExists := h.registry.Get(gameCode)
	if !gameExists {
		log.Printf("Client %s was mapped to non-existent game %s", client.ID, gameCode)
		return
	}

	abandoned := gameInstance.HandleDisconnect(client.ID)
	if abandoned {
		log.Printf("Game %s abandoned, removing from registry.", gameCode)
		h.registry.Remove(gameCode)
		return
	}
	// Finished games are retained for result queries while anyone is
	// still looking at them; drop them once the last player leaves.
	if gameInstance.CurrentPhase() == game.GameOver && gameInstance.ConnectedCount() == 0 {
		log.Printf("Game %s finished and empty, removing from registry.", gameCode)
		h.registry.Remove(gameCode)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_game":
		h.handleCreateGame(client, msg)
	case "join_game":
		h.handleJoinGame(client, msg)
	case "start_game":
		h.handleStartGame(client)
	case "rejoin_game":
		h.handleRejoinGame(client, msg)
	case "make_prediction", "select_trump", "play_card":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Unknown message type.")
	}
}

// handleCreateGame creates a new game with the client as host.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	if h.alreadyInGame(client) {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Already in a game.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Name == "" {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Invalid create_game message.")
		return
	}

	code := h.registry.NewCode()
	newGame := game.NewGame(code, h.sendMessageToClient, h.recordResults, h.revealWindow)

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = code
	h.clientMu.Unlock()

	if err := newGame.AddPlayer(client.ID, payload.Name); err != nil {
		h.clientMu.Lock()
		delete(h.clientToGame, client)
		h.clientMu.Unlock()
		h.sendGameError(client, err)
		return
	}
	h.registry.Add(newGame)

	log.Printf("Client %s (%s) created game %s", client.ID, client.Name, code)
	createdMsg, _ := protocol.NewMessage("game_created", protocol.GameCreatedPayload{GameCode: code, PlayerID: client.ID})
	client.send <- createdMsg
}

// handleJoinGame seats the client in an existing waiting game.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	if h.alreadyInGame(client) {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Already in a game.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Name == "" || payload.GameCode == "" {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Invalid join_game message.")
		return
	}

	code := strings.ToUpper(payload.GameCode)
	gameInstance, exists := h.registry.Get(code)
	if !exists {
		h.sendErrorToClient(client, protocol.ErrGameNotFound, "Game code not found.")
		return
	}

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = code
	h.clientMu.Unlock()

	if err := gameInstance.AddPlayer(client.ID, payload.Name); err != nil {
		h.clientMu.Lock()
		delete(h.clientToGame, client)
		h.clientMu.Unlock()
		h.sendGameError(client, err)
		return
	}
	log.Printf("Client %s (%s) joined game %s", client.ID, client.Name, code)
}

// handleStartGame starts the client's game if they are its host.
func (h *Hub) handleStartGame(client *Client) {
	gameInstance, ok := h.gameFor(client)
	if !ok {
		h.sendErrorToClient(client, protocol.ErrGameNotFound, "You are not in a game.")
		return
	}
	if err := gameInstance.Start(client.ID); err != nil {
		h.sendGameError(client, err)
	}
}

// handleRejoinGame rebinds a reconnecting client to their stable player
// ID. Any lingering connection holding that ID is invalidated before the
// rebind, so at no point do two handles resolve to the same live actor.
func (h *Hub) handleRejoinGame(client *Client, msg protocol.Message) {
	if h.alreadyInGame(client) {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Already in a game.")
		return
	}

	var payload protocol.RejoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Name == "" || payload.GameCode == "" {
		h.sendErrorToClient(client, protocol.ErrInvalidMessage, "Invalid rejoin_game message.")
		return
	}

	code := strings.ToUpper(payload.GameCode)
	gameInstance, exists := h.registry.Get(code)
	if !exists {
		h.sendErrorToClient(client, protocol.ErrGameNotFound, "Game code not found.")
		return
	}

	playerID, err := gameInstance.ResolveRejoin(payload.Name)
	if err != nil {
		h.sendGameError(client, err)
		return
	}

	h.clientMu.Lock()
	if old, lingering := h.clientsByID[playerID]; lingering && old != client {
		// Old handle still registered (e.g. a half-dead connection);
		// cut it loose before the new one takes over.
		delete(h.clients, old)
		delete(h.clientToGame, old)
		close(old.send)
		old.conn.Close()
		log.Printf("Invalidated stale connection for player %s during rejoin.", playerID)
	}
	delete(h.clientsByID, client.ID) // drop the temporary connection ID
	client.ID = playerID
	client.Name = payload.Name
	h.clientsByID[playerID] = client
	h.clientToGame[client] = code
	h.clientMu.Unlock()

	if err := gameInstance.CompleteRejoin(playerID); err != nil {
		h.sendGameError(client, err)
		return
	}
	log.Printf("Client rebound to player %s (%s) in game %s", playerID, payload.Name, code)
}

// handleGameAction forwards in-game actions to the correct game instance.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	gameInstance, ok := h.gameFor(client)
	if !ok {
		h.sendErrorToClient(client, protocol.ErrGameNotFound, "You are not in an active game.")
		return
	}
	gameInstance.HandlePlayerAction(client.ID, msg)
}

// recordResults hands the final standings to the results store. Failures
// are logged and never affect game state.
func (h *Hub) recordResults(gameID string, results []protocol.PlayerResult) error {
	rows := make([]database.GameResult, len(results))
	for i, r := range results {
		rows[i] = database.GameResult{
			GameID:     gameID,
			PlayerName: r.Name,
			Score:      r.Score,
			PlumpCount: r.PlumpCount,
			Rank:       r.Rank,
		}
	}
	return h.db.InsertResults(rows)
}

// --- Helpers ---

func (h *Hub) alreadyInGame(client *Client) bool {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	_, ok := h.clientToGame[client]
	return ok
}

func (h *Hub) gameFor(client *Client) (*game.Game, bool) {
	h.clientMu.RLock()
	code, ok := h.clientToGame[client]
	h.clientMu.RUnlock()
	if !ok {
		return nil, false
	}
	return h.registry.Get(code)
}

// sendMessageToClient delivers a message to whichever connection currently
// holds the given player ID. Passed as a callback to game instances.
func (h *Hub) sendMessageToClient(playerID string, message []byte) {
	h.clientMu.RLock()
	targetClient, ok := h.clientsByID[playerID]
	if !ok {
		h.clientMu.RUnlock()
		return // player currently disconnected; state resyncs on rejoin
	}

	// The send stays under the read lock: channels are only closed while
	// the write lock is held, so a handle found in the table cannot be
	// closed mid-send.
	select {
	case targetClient.send <- message:
		h.clientMu.RUnlock()
	default:
		h.clientMu.RUnlock()
		// Channel is blocked, assume the client is gone.
		log.Printf("Failed to send message to player %s (channel full), initiating cleanup.", playerID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// sendGameError maps a game rejection to an error payload for the acting
// client only.
func (h *Hub) sendGameError(client *Client, err error) {
	code := protocol.ErrInvalidMessage
	if actionErr, ok := err.(*game.ActionError); ok {
		code = actionErr.Code
	}
	h.sendErrorToClient(client, code, err.Error())
}

// sendErrorToClient sends an error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, code, errorMsg string) {
	msgBytes, err := protocol.NewMessage("error", protocol.ErrorPayload{Code: code, Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
