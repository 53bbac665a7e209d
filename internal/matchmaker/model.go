package matchmaker

import (
	"encoding/json"
	"time"
)

// TableSize is fixed: this game always seats exactly four.
const TableSize = 4

// JoinRequest asks to be queued for a quick match. Identity comes
// from the JWT, not the body.
type JoinRequest struct {
	Pool string `json:"pool" binding:"required"` // e.g. "casual", "ranked"
}

// JoinResponse reports queue state; when a table formed it carries
// the room.
type JoinResponse struct {
	Queued  bool     `json:"queued"`
	Pool    string   `json:"pool"`
	RoomID  string   `json:"roomId,omitempty"`
	Players []Player `json:"players,omitempty"`
}

// Player is one queued identity.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is a formed four-player match handed to the registry.
type Room struct {
	ID        string
	Pool      string
	Players   []Player
	CreatedAt time.Time
}

// Queue entries are stored as opaque strings in the repo (redis set
// members), so Player round-trips through JSON.
func encodePlayer(p Player) string {
	b, _ := json.Marshal(p)
	return string(b)
}

func decodePlayer(s string) (Player, bool) {
	var p Player
	if err := json.Unmarshal([]byte(s), &p); err != nil || p.ID == "" {
		return Player{}, false
	}
	return p, true
}
