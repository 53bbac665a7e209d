package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// HandRecord is one scored hand of a room, kept for the dashboard
// history. Seat arrays are indexed north, east, south, west.
type HandRecord struct {
	RoomID     string
	HandNumber int
	Bids       [4]int
	TricksWon  [4]int
	Scores     [4]int
	Totals     [4]int
	Winner     string
}

// GameRecord is the final outcome of a finished room.
type GameRecord struct {
	RoomID string
	Hands  int
	Totals [4]int
	Winner string
}

// ResultStore persists finished hands and games. This is history of
// completed play only; live table state is never written anywhere.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{db: db}
}

// EnsureSchema creates the result tables when missing.
func (s *ResultStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hand_results (
			id          BIGSERIAL PRIMARY KEY,
			room_id     TEXT        NOT NULL,
			hand_number INT         NOT NULL,
			bids        INT[]       NOT NULL,
			tricks_won  INT[]       NOT NULL,
			scores      INT[]       NOT NULL,
			totals      INT[]       NOT NULL,
			winner      TEXT        NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS game_results (
			id         BIGSERIAL PRIMARY KEY,
			room_id    TEXT        NOT NULL,
			hands      INT         NOT NULL,
			totals     INT[]       NOT NULL,
			winner     TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func (s *ResultStore) SaveHand(ctx context.Context, rec HandRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hand_results (room_id, hand_number, bids, tricks_won, scores, totals, winner)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.RoomID, rec.HandNumber,
		pq.Array(rec.Bids[:]), pq.Array(rec.TricksWon[:]),
		pq.Array(rec.Scores[:]), pq.Array(rec.Totals[:]),
		rec.Winner,
	)
	return err
}

func (s *ResultStore) SaveGame(ctx context.Context, rec GameRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results (room_id, hands, totals, winner)
		VALUES ($1, $2, $3, $4)`,
		rec.RoomID, rec.Hands, pq.Array(rec.Totals[:]), rec.Winner,
	)
	return err
}
