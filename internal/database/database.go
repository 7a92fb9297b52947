package database

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Service is the durable store for final game standings. Writes are
// best-effort from the game's point of view; the caller logs failures and
// moves on.
type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	tableName string
}

var tableName = "plump_results"

// New opens (or creates) the sqlite results database at the given path.
func New(path string) Service {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists plump_results (
		id integer primary key autoincrement,
		game_id string not null,
		created_at string,
		player_name string not null,
		score integer,
		plump_count integer,
		rank integer
	);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		panic(err)
	}

	return Service{
		db:        db,
		tableName: tableName,
		m:         &sync.Mutex{},
	}
}

func (s *Service) Close() error {
	return s.db.Close()
}

// InsertResults stores one row per player for a finished game, all in a
// single transaction.
func (s *Service) InsertResults(results []GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		_, err := tx.Exec("INSERT INTO "+s.tableName+
			" (game_id, created_at, player_name, score, plump_count, rank) VALUES (?, ?, ?, ?, ?, ?)",
			r.GameID, createdAt, r.PlayerName, r.Score, r.PlumpCount, r.Rank)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetAll returns every recorded standing.
func (s *Service) GetAll() ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()

	rows, err := s.db.Query("SELECT id, game_id, created_at, player_name, score, plump_count, rank FROM " + s.tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// GetByPlayer returns all recorded standings for one player name.
func (s *Service) GetByPlayer(playerName string) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()

	rows, err := s.db.Query("SELECT id, game_id, created_at, player_name, score, plump_count, rank FROM "+
		s.tableName+" WHERE player_name = ?", playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

func scanResults(rows *sql.Rows) ([]GameResult, error) {
	var results []GameResult
	for rows.Next() {
		var r GameResult
		if err := rows.Scan(&r.ID, &r.GameID, &r.CreatedAt, &r.PlayerName, &r.Score, &r.PlumpCount, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
