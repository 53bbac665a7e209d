package matchmaker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

// Service runs the quick-match queues. When a pool reaches four
// players they are popped atomically, notified, and handed to
// OnRoomReady (the room registry adopts them and deals).
type Service struct {
	repo        Repo
	playerTTL   int // seconds, keeps crashed clients from wedging a queue
	hub         HubBroadcaster
	OnRoomReady func(*Room)
}

type HubBroadcaster interface {
	BroadcastToPlayers(ids []string, msg websocket.OutgoingMessage)
}

func NewService(repo Repo, playerTTL int, hub HubBroadcaster) *Service {
	return &Service{repo: repo, playerTTL: playerTTL, hub: hub}
}

// Join queues the player and tries to form a table immediately.
// Returns the room when one formed, or queued=true.
func (s *Service) Join(ctx context.Context, player Player, pool string) (*Room, bool, error) {
	if err := s.repo.Enqueue(ctx, pool, encodePlayer(player), player.ID, s.playerTTL); err != nil {
		return nil, false, err
	}
	cnt, err := s.repo.Count(ctx, pool)
	if err != nil {
		return nil, false, err
	}
	if cnt < TableSize {
		return nil, true, nil // queued
	}

	members, err := s.repo.PopNRandom(ctx, pool, TableSize)
	if err != nil {
		return nil, false, err
	}
	if len(members) < TableSize {
		// lost the race with a concurrent Join; stay queued
		return nil, true, nil
	}

	players := make([]Player, 0, TableSize)
	for _, m := range members {
		if p, ok := decodePlayer(m); ok {
			players = append(players, p)
		}
	}
	if len(players) < TableSize {
		utils.Log.Error("dropping malformed queue entries", "pool", pool, "got", len(players))
		return nil, true, nil
	}

	room := &Room{
		ID:        uuid.NewString(),
		Pool:      pool,
		Players:   players,
		CreatedAt: time.Now(),
	}

	ids := make([]string, 0, TableSize)
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	s.hub.BroadcastToPlayers(ids, websocket.OutgoingMessage{
		Event: "matched",
		Data: map[string]any{
			"roomId":  room.ID,
			"pool":    room.Pool,
			"players": room.Players,
		},
	})

	if s.OnRoomReady != nil {
		go s.OnRoomReady(room)
	}
	return room, false, nil
}

func (s *Service) Cancel(ctx context.Context, playerID string) error {
	return s.repo.Remove(ctx, playerID)
}
