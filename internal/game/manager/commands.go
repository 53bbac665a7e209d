package manager

import (
	"encoding/json"

	"CallBreak/internal/game/engine"
	"CallBreak/internal/game/table"
	"CallBreak/internal/websocket"
)

// Command payloads. Seat identity is never read from the wire; the
// registry resolves it from the sender's membership.
type roomPayload struct {
	RoomID string `json:"roomId"`
}

type bidPayload struct {
	RoomID string `json:"roomId"`
	Bid    int    `json:"bid"`
}

type cardPayload struct {
	RoomID string     `json:"roomId"`
	Card   table.Card `json:"card"`
}

// commandHandlers maps wire command names to registry methods. The
// table is the only coupling between transport events and game logic;
// the hub just forwards envelopes here.
var commandHandlers = map[string]func(*Registry, websocket.IncomingMessage){
	"create_room": (*Registry).cmdCreateRoom,
	"join_room":   (*Registry).cmdJoinRoom,
	"leave":       (*Registry).cmdLeave,
	"list_rooms":  (*Registry).cmdListRooms,
	"place_bid":   (*Registry).cmdPlaceBid,
	"play_card":   (*Registry).cmdPlayCard,
}

// HandlePlayerMessage is installed as the hub's OnIncoming callback.
func (r *Registry) HandlePlayerMessage(msg websocket.IncomingMessage) {
	h, ok := commandHandlers[msg.Event]
	if !ok {
		r.sendError(msg.From, msg.Event, "unknown_command")
		return
	}
	h(r, msg)
}

func (r *Registry) cmdCreateRoom(msg websocket.IncomingMessage) {
	if _, err := r.CreateRoom(msg.From, msg.Name); err != nil {
		r.sendError(msg.From, msg.Event, err.Error())
	}
}

func (r *Registry) cmdJoinRoom(msg websocket.IncomingMessage) {
	var p roomPayload
	if err := json.Unmarshal(msg.Data, &p); err != nil || p.RoomID == "" {
		r.sendError(msg.From, msg.Event, "bad_payload")
		return
	}
	if err := r.JoinRoom(p.RoomID, msg.From, msg.Name); err != nil {
		// room_not_found / room_full / already_started go back as
		// their own events, per the client contract
		r.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
			Event: err.Error(),
			Data:  map[string]any{"roomId": p.RoomID},
		})
	}
}

func (r *Registry) cmdLeave(msg websocket.IncomingMessage) {
	if err := r.Leave(msg.From); err != nil {
		r.sendError(msg.From, msg.Event, err.Error())
	}
}

func (r *Registry) cmdListRooms(msg websocket.IncomingMessage) {
	r.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
		Event: "rooms_update",
		Data:  map[string]any{"rooms": r.ListRooms()},
	})
}

func (r *Registry) cmdPlaceBid(msg websocket.IncomingMessage) {
	var p bidPayload
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		r.sendError(msg.From, msg.Event, "bad_payload")
		return
	}
	eng, seat, ok := r.engineFor(msg.From, p.RoomID)
	if !ok {
		r.sendError(msg.From, msg.Event, ErrRoomNotFound.Error())
		return
	}
	eng.Enqueue(engine.Action{Kind: engine.ActionPlaceBid, Seat: seat, Bid: p.Bid})
}

func (r *Registry) cmdPlayCard(msg websocket.IncomingMessage) {
	var p cardPayload
	if err := json.Unmarshal(msg.Data, &p); err != nil || !p.Card.Valid() {
		r.sendError(msg.From, msg.Event, "bad_payload")
		return
	}
	eng, seat, ok := r.engineFor(msg.From, p.RoomID)
	if !ok {
		r.sendError(msg.From, msg.Event, ErrRoomNotFound.Error())
		return
	}
	eng.Enqueue(engine.Action{Kind: engine.ActionPlayCard, Seat: seat, Card: p.Card})
}

// engineFor resolves the sender's room, seat, and running engine. A
// roomID in the payload must match the sender's actual room.
func (r *Registry) engineFor(playerID, roomID string) (*engine.Engine, table.Seat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actual, ok := r.playerToRoom[playerID]
	if !ok || (roomID != "" && roomID != actual) {
		return nil, 0, false
	}
	room := r.rooms[actual]
	if room == nil || room.engine == nil {
		return nil, 0, false
	}
	for _, m := range room.Members {
		if m.ID == playerID {
			return room.engine, m.Seat, true
		}
	}
	return nil, 0, false
}

func (r *Registry) sendError(playerID, command, reason string) {
	r.hub.SendToPlayer(playerID, websocket.OutgoingMessage{
		Event: "error",
		Data:  map[string]any{"command": command, "reason": reason},
	})
}
