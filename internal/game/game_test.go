package game

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"plump-game/internal/protocol"
	"plump-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIDs = []string{"p1", "p2", "p3", "p4"}
var testNames = []string{"Alice", "Bob", "Carol", "Dave"}

type sentMsg struct {
	playerID string
	msgType  string
}

// msgLog captures outbound messages in place of the hub.
type msgLog struct {
	mu   sync.Mutex
	msgs []sentMsg
}

func (l *msgLog) sender(playerID string, message []byte) {
	var m protocol.Message
	_ = json.Unmarshal(message, &m)
	l.mu.Lock()
	l.msgs = append(l.msgs, sentMsg{playerID: playerID, msgType: m.Type})
	l.mu.Unlock()
}

func (l *msgLog) typesFor(playerID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var types []string
	for _, m := range l.msgs {
		if m.playerID == playerID {
			types = append(types, m.msgType)
		}
	}
	return types
}

func (l *msgLog) reset() {
	l.mu.Lock()
	l.msgs = nil
	l.mu.Unlock()
}

// newTestGame seats four players. The reveal window is effectively
// infinite so tests drive the deferred continuation by hand.
func newTestGame(t *testing.T) (*Game, *msgLog) {
	t.Helper()
	ml := &msgLog{}
	g := NewGame("TEST1", ml.sender, nil, time.Hour)
	for i := range testIDs {
		require.NoError(t, g.AddPlayer(testIDs[i], testNames[i]))
	}
	return g, ml
}

// setPlaying forces a game into the Playing phase with known hands.
func setPlaying(g *Game, round int, trump shared.Suit, hands map[string][]shared.Card, actorIdx int) {
	g.Phase = Playing
	g.RoundNumber = round
	g.CardsPerPlayer = len(hands[testIDs[0]])
	g.DealerIndex = 0
	g.TrumpSuit = trump
	g.CurrentTrick = shared.NewTrick()
	g.CurrentActorIndex = actorIdx
	g.HighestBidderID = testIDs[actorIdx]
	g.Predictions = make(map[string]int)
	for i, p := range g.Players {
		p.Hand = append([]shared.Card(nil), hands[testIDs[i]]...)
		g.TricksWon[p.ID] = 0
	}
}

func TestStartRequiresHostAndFullTable(t *testing.T) {
	ml := &msgLog{}
	g := NewGame("TEST1", ml.sender, nil, time.Hour)
	require.NoError(t, g.AddPlayer("p1", "Alice"))
	require.NoError(t, g.AddPlayer("p2", "Bob"))

	err := g.Start("p1")
	require.Error(t, err, "start with 2 players must fail")

	require.NoError(t, g.AddPlayer("p3", "Carol"))
	require.NoError(t, g.AddPlayer("p4", "Dave"))
	assert.Equal(t, ErrNotYourTurn, g.Start("p2"), "only the host may start")

	require.NoError(t, g.Start("p1"))
	assert.Equal(t, ErrWrongPhase, g.Start("p1"), "start is not repeatable")
}

func TestJoinValidation(t *testing.T) {
	g, _ := newTestGame(t)
	assert.Equal(t, ErrGameFull, g.AddPlayer("p5", "Eve"))

	ml := &msgLog{}
	g2 := NewGame("TEST2", ml.sender, nil, time.Hour)
	require.NoError(t, g2.AddPlayer("p1", "Alice"))
	assert.Equal(t, ErrNameTaken, g2.AddPlayer("p2", "Alice"))
	assert.True(t, g2.Players[0].IsHost)
}

func TestStartDealsRoundOne(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.Start("p1"))

	assert.Equal(t, Bidding, g.Phase)
	assert.Equal(t, 1, g.RoundNumber)
	assert.Equal(t, 13, g.CardsPerPlayer)
	assert.Equal(t, 0, g.DealerIndex, "first round's rotation lands on seat 0")
	assert.Equal(t, 1, g.CurrentActorIndex, "seat after the dealer bids first")

	total := 0
	seen := make(map[shared.Card]bool)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 13)
		total += len(p.Hand)
		for _, c := range p.Hand {
			assert.False(t, seen[c], "card %v dealt to two hands", c)
			seen[c] = true
		}
	}
	assert.Equal(t, 52, total)
}

func TestBiddingTurnOrderAndTieBreak(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.Start("p1"))

	// Dealer is seat 0, so bidding runs p2, p3, p4, p1.
	assert.Equal(t, ErrNotYourTurn, g.MakePrediction("p1", 2))
	assert.Equal(t, ErrInvalidBid, g.MakePrediction("p2", -1))
	assert.Equal(t, ErrInvalidBid, g.MakePrediction("p2", 14))

	require.NoError(t, g.MakePrediction("p2", 3))
	assert.Equal(t, 2, g.CurrentActorIndex)
	require.NoError(t, g.MakePrediction("p3", 5))
	require.NoError(t, g.MakePrediction("p4", 5))
	require.NoError(t, g.MakePrediction("p1", 2))

	// p3 and p4 tie at 5; the first tied seat in rotation after the
	// dealer wins the tie.
	assert.Equal(t, "p3", g.HighestBidderID)
	assert.Equal(t, SelectingTrump, g.Phase)
	assert.Equal(t, 2, g.CurrentActorIndex)
}

func TestTrumpSelection(t *testing.T) {
	g, _ := newTestGame(t)
	require.NoError(t, g.Start("p1"))
	require.NoError(t, g.MakePrediction("p2", 3))
	require.NoError(t, g.MakePrediction("p3", 5))
	require.NoError(t, g.MakePrediction("p4", 4))
	require.NoError(t, g.MakePrediction("p1", 2))
	require.Equal(t, "p3", g.HighestBidderID)

	assert.Equal(t, ErrNotYourTurn, g.SelectTrump("p2", shared.Hearts))
	assert.Equal(t, ErrInvalidSuit, g.SelectTrump("p3", "stars"))

	require.NoError(t, g.SelectTrump("p3", shared.Hearts))
	assert.Equal(t, Playing, g.Phase)
	assert.Equal(t, shared.Hearts, g.TrumpSuit)
	assert.Equal(t, 2, g.CurrentActorIndex, "the bidder leads the first trick")

	assert.Equal(t, ErrWrongPhase, g.SelectTrump("p3", shared.Spades))
}

func TestSingleCardRoundHiddenBiddingAndNoTrump(t *testing.T) {
	g, ml := newTestGame(t)
	g.RoundNumber = 13
	g.startRound()

	require.Equal(t, Bidding, g.Phase)
	require.Equal(t, 1, g.CardsPerPlayer)

	// During bidding each player sees opponents' cards, never their own.
	for _, id := range testIDs {
		types := ml.typesFor(id)
		assert.Contains(t, types, "opponent_cards")
		assert.NotContains(t, types, "deal_hand")
	}
	ml.reset()

	// Dealer rotated onto seat 0, so p2 bids first.
	require.NoError(t, g.MakePrediction("p2", 1))
	require.NoError(t, g.MakePrediction("p3", 0))
	require.NoError(t, g.MakePrediction("p4", 0))
	require.NoError(t, g.MakePrediction("p1", 0))

	// Straight to Playing, own card revealed, no trump selection.
	assert.Equal(t, Playing, g.Phase)
	assert.Equal(t, "p2", g.HighestBidderID)
	assert.Equal(t, shared.Suit(""), g.TrumpSuit)
	for _, id := range testIDs {
		assert.Contains(t, ml.typesFor(id), "deal_hand")
	}
}

func TestPlayCardValidation(t *testing.T) {
	g, _ := newTestGame(t)
	setPlaying(g, 5, shared.Hearts, map[string][]shared.Card{
		"p1": {{Suit: shared.Clubs, Rank: 5}, {Suit: shared.Spades, Rank: 2}},
		"p2": {{Suit: shared.Spades, Rank: 10}, {Suit: shared.Hearts, Rank: 9}},
		"p3": {{Suit: shared.Spades, Rank: 4}, {Suit: shared.Hearts, Rank: 2}},
		"p4": {{Suit: shared.Spades, Rank: 13}, {Suit: shared.Diamonds, Rank: 8}},
	}, 1)

	// Out of turn.
	assert.Equal(t, ErrNotYourTurn, g.PlayCard("p3", shared.Card{Suit: shared.Spades, Rank: 4}))
	// Card not held.
	assert.Equal(t, ErrCardNotInHand, g.PlayCard("p2", shared.Card{Suit: shared.Clubs, Rank: 14}))

	require.NoError(t, g.PlayCard("p2", shared.Card{Suit: shared.Spades, Rank: 10}))
	assert.Equal(t, shared.Spades, g.CurrentTrick.LeadSuit)
	assert.Equal(t, 2, g.CurrentActorIndex)

	// p3 holds a spade, so the heart is an illegal discard.
	assert.Equal(t, ErrMustFollowSuit, g.PlayCard("p3", shared.Card{Suit: shared.Hearts, Rank: 2}))
	require.NoError(t, g.PlayCard("p3", shared.Card{Suit: shared.Spades, Rank: 4}))

	// p1 still holds a spade and must follow with it.
	require.NoError(t, g.PlayCard("p4", shared.Card{Suit: shared.Spades, Rank: 13}))
	assert.Equal(t, ErrMustFollowSuit, g.PlayCard("p1", shared.Card{Suit: shared.Clubs, Rank: 5}))
	require.NoError(t, g.PlayCard("p1", shared.Card{Suit: shared.Spades, Rank: 2}))

	// Highest spade wins; no trump was played.
	assert.Equal(t, 1, g.TricksWon["p4"])
}

func TestTrickLockRejectsRacingPlays(t *testing.T) {
	g, ml := newTestGame(t)
	setPlaying(g, 5, shared.Hearts, map[string][]shared.Card{
		"p1": {{Suit: shared.Clubs, Rank: 5}, {Suit: shared.Clubs, Rank: 6}},
		"p2": {{Suit: shared.Spades, Rank: 10}, {Suit: shared.Clubs, Rank: 7}},
		"p3": {{Suit: shared.Hearts, Rank: 2}, {Suit: shared.Clubs, Rank: 8}},
		"p4": {{Suit: shared.Spades, Rank: 13}, {Suit: shared.Clubs, Rank: 9}},
	}, 1)

	require.NoError(t, g.PlayCard("p2", shared.Card{Suit: shared.Spades, Rank: 10}))
	require.NoError(t, g.PlayCard("p3", shared.Card{Suit: shared.Hearts, Rank: 2}))
	require.NoError(t, g.PlayCard("p4", shared.Card{Suit: shared.Spades, Rank: 13}))
	require.NoError(t, g.PlayCard("p1", shared.Card{Suit: shared.Clubs, Rank: 5}))

	// Trump hearts-2 beats the higher-ranked spades; the reveal window
	// is now open.
	assert.Equal(t, 1, g.TricksWon["p3"])
	assert.True(t, g.trickLock)
	for _, id := range testIDs {
		assert.Contains(t, ml.typesFor(id), "trick_end")
	}

	// Any submission during the reveal window is a duplicate play.
	err := g.PlayCard("p3", shared.Card{Suit: shared.Clubs, Rank: 8})
	assert.Equal(t, ErrAlreadyPlayed, err)

	// The continuation clears the trick and hands the lead to the winner.
	g.finishReveal(g.trickSeq)
	assert.False(t, g.trickLock)
	assert.Equal(t, 0, g.CurrentTrick.Size())
	assert.Equal(t, 2, g.CurrentActorIndex)
	assert.Equal(t, shared.Suit(""), g.CurrentTrick.LeadSuit)
}

func TestStaleRevealContinuationIsDiscarded(t *testing.T) {
	g, _ := newTestGame(t)
	// Last trick of a single-card round: finishing it advances the game
	// to the next round.
	setPlaying(g, 16, "", map[string][]shared.Card{
		"p1": {{Suit: shared.Hearts, Rank: 3}},
		"p2": {{Suit: shared.Diamonds, Rank: 7}},
		"p3": {{Suit: shared.Clubs, Rank: 14}},
		"p4": {{Suit: shared.Diamonds, Rank: 13}},
	}, 1)
	g.Predictions = map[string]int{"p1": 1, "p2": 0, "p3": 0, "p4": 1}

	require.NoError(t, g.PlayCard("p2", shared.Card{Suit: shared.Diamonds, Rank: 7}))
	require.NoError(t, g.PlayCard("p3", shared.Card{Suit: shared.Clubs, Rank: 14}))
	require.NoError(t, g.PlayCard("p4", shared.Card{Suit: shared.Diamonds, Rank: 13}))
	require.NoError(t, g.PlayCard("p1", shared.Card{Suit: shared.Hearts, Rank: 3}))

	// Highest diamond wins; the off-suit ace never qualifies.
	require.Equal(t, 1, g.TricksWon["p4"])
	staleSeq := g.trickSeq

	g.finishReveal(staleSeq)

	// Round scored exactly once and the schedule advanced.
	assert.Equal(t, 17, g.RoundNumber)
	assert.Equal(t, Bidding, g.Phase)
	assert.Equal(t, 11, g.Scores["p4"], "made bid of 1 scores 1+10")
	assert.Equal(t, 10, g.Scores["p2"], "made bid of 0 scores 0+10")
	assert.Equal(t, 10, g.Scores["p3"])
	assert.Equal(t, 0, g.Scores["p1"])
	assert.Equal(t, 1, g.PlumpCounts["p1"])

	// Firing the same continuation again must not re-score or
	// re-advance anything.
	g.finishReveal(staleSeq)
	assert.Equal(t, 17, g.RoundNumber)
	assert.Equal(t, 11, g.Scores["p4"])
	assert.Equal(t, 1, g.PlumpCounts["p1"])
}
