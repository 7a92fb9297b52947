package database

// GameResult is one player's final standing in a finished game.
type GameResult struct {
	ID         int64  `json:"id"`
	GameID     string `json:"game_id"`
	CreatedAt  string `json:"created_at"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	PlumpCount int    `json:"plump_count"`
	Rank       int    `json:"rank"`
}
