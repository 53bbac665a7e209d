package websocket

import (
	"sync"

	"CallBreak/internal/utils"
)

type HubInterface interface {
	BroadcastToPlayers(ids []string, msg OutgoingMessage)
	BroadcastAll(msg OutgoingMessage)
	SendToPlayer(id string, msg OutgoingMessage)
	Close()
}

type Hub struct {
	clients    map[string]*Client // playerID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage

	// OnIncoming receives every decoded client command; the room
	// registry installs its dispatcher here.
	OnIncoming func(IncomingMessage)
	// OnDisconnect fires after a client is dropped so the registry
	// can apply its leave policy.
	OnDisconnect func(playerID string)

	quit chan struct{}
	mu   sync.RWMutex
}

// PlayerIDs == nil means every connected client (lobby fanout).
type broadcastReq struct {
	PlayerIDs []string
	Message   OutgoingMessage
}

type sendReq struct {
	PlayerID string
	Message  OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.PlayerID] = c
			utils.Log.Debug("hub register", "player", c.PlayerID, "connected", len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[c.PlayerID]
			if ok {
				delete(h.clients, c.PlayerID)
				utils.Log.Debug("hub unregister", "player", c.PlayerID, "connected", len(h.clients))
				close(c.Send)
			}
			h.mu.Unlock()
			if ok && h.OnDisconnect != nil {
				h.OnDisconnect(c.PlayerID)
			}

		case req := <-h.broadcast:
			if req.PlayerIDs == nil {
				for _, client := range h.clients {
					h.trySend(client, req.Message)
				}
				break
			}
			for _, id := range req.PlayerIDs {
				if client, ok := h.clients[id]; ok {
					h.trySend(client, req.Message)
				}
			}

		case req := <-h.sendOne:
			if client, ok := h.clients[req.PlayerID]; ok {
				h.trySend(client, req.Message)
			}

		case req := <-h.incoming:
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			for _, c := range h.clients {
				close(c.Send)
			}
			return
		}
	}
}

// trySend drops the message if the client's buffer is full; a stalled
// connection must not stall the hub loop.
func (h *Hub) trySend(c *Client, msg OutgoingMessage) {
	select {
	case c.Send <- msg:
	default:
		utils.Log.Warn("dropping message for slow client", "player", c.PlayerID, "event", msg.Event)
	}
}

// BroadcastToPlayers fans a message out to the given players.
func (h *Hub) BroadcastToPlayers(ids []string, msg OutgoingMessage) {
	if ids == nil {
		ids = []string{}
	}
	h.broadcast <- broadcastReq{PlayerIDs: ids, Message: msg}
}

// BroadcastAll sends to every connected client (lobby updates).
func (h *Hub) BroadcastAll(msg OutgoingMessage) {
	h.broadcast <- broadcastReq{PlayerIDs: nil, Message: msg}
}

// SendToPlayer sends to a single player (safe concurrent).
func (h *Hub) SendToPlayer(id string, msg OutgoingMessage) {
	h.sendOne <- sendReq{PlayerID: id, Message: msg}
}

func (h *Hub) Close() {
	close(h.quit)
}
