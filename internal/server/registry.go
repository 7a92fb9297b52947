package server

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"plump-game/internal/game"
)

const gameCodeLength = 5

// Registry owns the mapping from game code to live game instance. All
// access to that mapping goes through here; no two games ever share
// mutable state.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*game.Game
	rng   *rand.Rand
}

// NewRegistry creates an empty game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*game.Game),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewCode generates a short alphanumeric game code unique among live
// games.
func (r *Registry) NewCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[r.rng.Intn(len(letters))])
		}
		code := sb.String()
		if _, exists := r.games[code]; !exists {
			return code
		}
	}
}

// Add registers a game under its code.
func (r *Registry) Add(g *game.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

// Get looks up a live game by code.
func (r *Registry) Get(code string) (*game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[code]
	return g, ok
}

// Remove tears down a game instance.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, code)
}
