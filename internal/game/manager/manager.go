package manager

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"CallBreak/internal/game/engine"
	"CallBreak/internal/game/table"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

var (
	ErrRoomNotFound   = errors.New("room_not_found")
	ErrRoomFull       = errors.New("room_full")
	ErrAlreadyStarted = errors.New("already_started")
	ErrAlreadyInRoom  = errors.New("already_in_room")
	ErrNotInRoom      = errors.New("not_in_room")
)

// Member is a seated identity. Seats are assigned in join order and
// never reassigned while the room lives.
type Member struct {
	ID   string     `json:"-"`
	Name string     `json:"name"`
	Seat table.Seat `json:"seat"`
}

// Room owns at most one table (via its engine). Forming until four
// seats are taken, then Started for the rest of its life.
type Room struct {
	ID        string
	CreatedAt time.Time
	Members   []*Member
	Started   bool
	engine    *engine.Engine
}

// RoomSummary is the lobby listing entry. It never carries card data.
type RoomSummary struct {
	ID       string   `json:"roomId"`
	Names    []string `json:"names"`
	Count    int      `json:"count"`
	Capacity int      `json:"capacity"`
	Started  bool     `json:"started"`
}

// Registry owns every room. Room lifecycle (create, seat, destroy) is
// explicit here; per-room game state is serialized inside each room's
// engine, so the registry lock only guards the maps.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*Room
	playerToRoom map[string]string
	hub          websocket.HubInterface
	handLimit    int
	sink         engine.ResultSink
}

func NewRegistry(hub websocket.HubInterface, handLimit int, sink engine.ResultSink) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		playerToRoom: make(map[string]string),
		hub:          hub,
		handLimit:    handLimit,
		sink:         sink,
	}
}

// CreateRoom allocates a Forming room with the creator in the first
// seat.
func (r *Registry) CreateRoom(playerID, name string) (*Room, error) {
	r.mu.Lock()
	if _, ok := r.playerToRoom[playerID]; ok {
		r.mu.Unlock()
		return nil, ErrAlreadyInRoom
	}
	room := &Room{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Members:   []*Member{{ID: playerID, Name: name, Seat: table.SeatNorth}},
	}
	r.rooms[room.ID] = room
	r.playerToRoom[playerID] = room.ID
	r.mu.Unlock()

	utils.Log.Info("room created", "room", room.ID, "by", name)
	r.hub.SendToPlayer(playerID, websocket.OutgoingMessage{
		Event: "room_created",
		Data:  map[string]any{"roomId": room.ID, "seat": table.SeatNorth},
	})
	r.broadcastRoom(room)
	r.broadcastLobby()
	return room, nil
}

// JoinRoom seats a player in the next open seat. The fourth join
// starts the game.
func (r *Registry) JoinRoom(roomID, playerID, name string) error {
	r.mu.Lock()
	if _, ok := r.playerToRoom[playerID]; ok {
		r.mu.Unlock()
		return ErrAlreadyInRoom
	}
	room, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.Started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(room.Members) >= table.NumSeats {
		r.mu.Unlock()
		return ErrRoomFull
	}
	seat := nextOpenSeat(room.Members)
	room.Members = append(room.Members, &Member{ID: playerID, Name: name, Seat: seat})
	r.playerToRoom[playerID] = room.ID

	var eng *engine.Engine
	if len(room.Members) == table.NumSeats {
		eng = r.startGameLocked(room)
	}
	r.mu.Unlock()

	r.hub.SendToPlayer(playerID, websocket.OutgoingMessage{
		Event: "joined_room",
		Data:  map[string]any{"roomId": room.ID, "seat": seat},
	})
	r.broadcastRoom(room)
	r.broadcastLobby()

	if eng != nil {
		utils.Log.Info("room full, dealing", "room", room.ID)
		go eng.Start()
	}
	return nil
}

// nextOpenSeat returns the lowest seat no current member holds. Seats
// freed by a Forming-room leave are reused, so join order alone does
// not determine the seat. The caller has already checked fullness.
func nextOpenSeat(members []*Member) table.Seat {
	var taken [table.NumSeats]bool
	for _, m := range members {
		taken[m.Seat] = true
	}
	for s := 0; s < table.NumSeats; s++ {
		if !taken[s] {
			return table.Seat(s)
		}
	}
	panic("no open seat in a non-full room")
}

// startGameLocked wires the engine for a full room. Caller holds mu.
func (r *Registry) startGameLocked(room *Room) *engine.Engine {
	var players [table.NumSeats]engine.Player
	for _, m := range room.Members {
		players[m.Seat] = engine.Player{ID: m.ID, Name: m.Name}
	}
	eng := engine.NewEngine(room.ID, players, r.handLimit, r.hub, r.sink)
	eng.OnGameOver = r.onGameOver
	room.engine = eng
	room.Started = true
	return eng
}

// AdoptMatchedRoom creates an already-full room formed by the
// matchmaker and starts its game immediately. A matched player may
// still be seated in a Forming room (queued while waiting for friends);
// that seat is freed here so no identity is ever a member of two rooms.
// A player already in a running game cannot be adopted.
func (r *Registry) AdoptMatchedRoom(roomID string, players []engine.Player) error {
	if len(players) != table.NumSeats {
		return errors.New("matched room needs exactly four players")
	}
	r.mu.Lock()
	if _, ok := r.rooms[roomID]; ok {
		r.mu.Unlock()
		return errors.New("room id already in use")
	}
	for _, p := range players {
		if oldID, ok := r.playerToRoom[p.ID]; ok && r.rooms[oldID].Started {
			r.mu.Unlock()
			return errors.New("player " + p.ID + " is in a running game")
		}
	}
	var vacated []*Room
	for _, p := range players {
		oldID, ok := r.playerToRoom[p.ID]
		if !ok {
			continue
		}
		if old := r.rooms[oldID]; r.removeMemberLocked(old, p.ID) {
			vacated = append(vacated, old)
		}
	}
	room := &Room{ID: roomID, CreatedAt: time.Now()}
	for i, p := range players {
		room.Members = append(room.Members, &Member{ID: p.ID, Name: p.Name, Seat: table.Seat(i)})
		r.playerToRoom[p.ID] = roomID
	}
	r.rooms[roomID] = room
	eng := r.startGameLocked(room)
	r.mu.Unlock()

	for _, old := range vacated {
		r.broadcastRoom(old)
	}
	r.broadcastRoom(room)
	r.broadcastLobby()
	go eng.Start()
	return nil
}

// Leave removes a player. In a Forming room the seat is freed and the
// room survives (or is destroyed when empty). Once the game has
// started the leave is routed through the room's serialized command
// stream, which aborts the hand and closes the room for everyone.
func (r *Registry) Leave(playerID string) error {
	r.mu.Lock()
	roomID, ok := r.playerToRoom[playerID]
	if !ok {
		r.mu.Unlock()
		return ErrNotInRoom
	}
	room := r.rooms[roomID]

	if room.Started {
		var seat table.Seat
		for _, m := range room.Members {
			if m.ID == playerID {
				seat = m.Seat
			}
		}
		eng := room.engine
		r.mu.Unlock()
		// teardown happens in onGameOver, serialized with any play
		// already in flight
		eng.Enqueue(engine.Action{Kind: engine.ActionLeave, Seat: seat})
		return nil
	}

	survives := r.removeMemberLocked(room, playerID)
	r.mu.Unlock()

	if survives {
		r.broadcastRoom(room)
	}
	r.broadcastLobby()
	return nil
}

// removeMemberLocked unseats a player from a Forming room and reports
// whether the room survives; an empty room is destroyed. Caller holds
// mu.
func (r *Registry) removeMemberLocked(room *Room, playerID string) bool {
	members := room.Members[:0]
	for _, m := range room.Members {
		if m.ID != playerID {
			members = append(members, m)
		}
	}
	room.Members = members
	delete(r.playerToRoom, playerID)
	if len(room.Members) == 0 {
		delete(r.rooms, room.ID)
		utils.Log.Info("room destroyed", "room", room.ID)
		return false
	}
	return true
}

// onGameOver tears a room down once its engine reports completion or
// abort. Runs on the engine goroutine.
func (r *Registry) onGameOver(roomID, reason string) {
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return
	}
	for _, m := range room.Members {
		delete(r.playerToRoom, m.ID)
	}
	delete(r.rooms, roomID)
	eng := room.engine
	r.mu.Unlock()

	if eng != nil {
		eng.Stop()
	}
	utils.Log.Info("room closed", "room", roomID, "reason", reason)
	r.broadcastLobby()
}

// HandleDisconnect applies the leave policy for a dropped connection.
// Installed as the hub's OnDisconnect callback.
func (r *Registry) HandleDisconnect(playerID string) {
	if err := r.Leave(playerID); err != nil && !errors.Is(err, ErrNotInRoom) {
		utils.Log.Warn("disconnect cleanup", "player", playerID, "err", err)
	}
}

// ListRooms returns lobby summaries. Card data never appears here.
func (r *Registry) ListRooms() []RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		s := RoomSummary{
			ID:       room.ID,
			Count:    len(room.Members),
			Capacity: table.NumSeats,
			Started:  room.Started,
		}
		for _, m := range room.Members {
			s.Names = append(s.Names, m.Name)
		}
		out = append(out, s)
	}
	return out
}

func (r *Registry) broadcastRoom(room *Room) {
	r.mu.RLock()
	ids := make([]string, 0, len(room.Members))
	members := make([]Member, 0, len(room.Members))
	for _, m := range room.Members {
		ids = append(ids, m.ID)
		members = append(members, *m)
	}
	started := room.Started
	r.mu.RUnlock()

	r.hub.BroadcastToPlayers(ids, websocket.OutgoingMessage{
		Event: "room_update",
		Data: map[string]any{
			"roomId":  room.ID,
			"members": members,
			"started": started,
		},
	})
}

func (r *Registry) broadcastLobby() {
	r.hub.BroadcastAll(websocket.OutgoingMessage{
		Event: "rooms_update",
		Data:  map[string]any{"rooms": r.ListRooms()},
	})
}
