package game

import (
	"log"
	"sort"

	"plump-game/internal/protocol"
)

// scoreRound folds prediction-vs-tricks outcomes into cumulative scores.
// An exact prediction awards prediction*10 when the prediction is at
// least 10, otherwise prediction+10; a miss scores nothing and counts a
// plump. Guarded so a round is never scored twice. Assumes lock is held.
func (g *Game) scoreRound() {
	if g.roundScored {
		log.Printf("Game %s: Round %d already scored, skipping.", g.ID, g.RoundNumber)
		return
	}
	g.roundScored = true

	for _, p := range g.Players {
		predicted := g.Predictions[p.ID]
		won := g.TricksWon[p.ID]
		if predicted == won {
			award := predicted + 10
			if predicted >= 10 {
				award = predicted * 10
			}
			g.Scores[p.ID] += award
			log.Printf("Game %s: %s made their bid of %d, +%d (total %d)", g.ID, p.Name, predicted, award, g.Scores[p.ID])
		} else {
			g.PlumpCounts[p.ID]++
			log.Printf("Game %s: %s plumped (bid %d, won %d), plumps now %d", g.ID, p.Name, predicted, won, g.PlumpCounts[p.ID])
		}
	}

	payload := protocol.RoundEndPayload{
		Round:       g.RoundNumber,
		Predictions: copyCounts(g.Predictions),
		TricksWon:   copyCounts(g.TricksWon),
		Scores:      copyCounts(g.Scores),
		PlumpCounts: copyCounts(g.PlumpCounts),
	}
	msg, _ := protocol.NewMessage("round_end", payload)
	g.broadcast(msg)
}

// finalResults ranks players by score (fewer plumps, then seat order,
// break further ties); equal scores share a rank. Assumes lock is held.
func (g *Game) finalResults() []protocol.PlayerResult {
	order := make([]int, len(g.Players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := g.Players[order[a]], g.Players[order[b]]
		if g.Scores[pa.ID] != g.Scores[pb.ID] {
			return g.Scores[pa.ID] > g.Scores[pb.ID]
		}
		return g.PlumpCounts[pa.ID] < g.PlumpCounts[pb.ID]
	})

	results := make([]protocol.PlayerResult, len(order))
	rank := 0
	prevScore := 0
	for i, seat := range order {
		p := g.Players[seat]
		if i == 0 || g.Scores[p.ID] != prevScore {
			rank = i + 1
			prevScore = g.Scores[p.ID]
		}
		results[i] = protocol.PlayerResult{
			Name:       p.Name,
			Score:      g.Scores[p.ID],
			PlumpCount: g.PlumpCounts[p.ID],
			Rank:       rank,
		}
	}
	return results
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
