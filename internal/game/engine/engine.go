package engine

import (
	"context"
	"time"

	"CallBreak/internal/game/dealer"
	"CallBreak/internal/game/table"
	"CallBreak/internal/game/view"
	"CallBreak/internal/storage"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
)

// ---------------------
//   ACTION DEFINITION
// ---------------------

type ActionKind int

const (
	ActionPlaceBid ActionKind = iota
	ActionPlayCard
	ActionLeave
)

// Action is one command against the table. Seat identity is resolved
// by the registry before enqueueing; clients never pick their seat.
type Action struct {
	Kind ActionKind
	Seat table.Seat
	Bid  int
	Card table.Card
}

// Player binds a seat to a connected identity.
type Player struct {
	ID   string
	Name string
}

// ResultSink receives completed hand/game records. A nil sink
// disables history persistence without affecting play.
type ResultSink interface {
	SaveHand(ctx context.Context, rec storage.HandRecord) error
	SaveGame(ctx context.Context, rec storage.GameRecord) error
}

// ---------------------
//       ENGINE
// ---------------------

// Engine drives one room's table. All mutations go through actionChan
// and are applied by a single goroutine, which is what serializes
// concurrent commands (and disconnects) for the room. Separate rooms
// have separate engines and share nothing.
type Engine struct {
	RoomID  string
	Table   *table.Table
	Dealer  *dealer.Dealer
	Players [table.NumSeats]Player
	Hub     websocket.HubInterface

	// OnGameOver is called (from the engine goroutine) once the room
	// is finished or aborted, so the registry can tear it down.
	OnGameOver func(roomID string, reason string)

	sink       ResultSink
	actionChan chan Action
	quit       chan struct{}
}

func NewEngine(roomID string, players [table.NumSeats]Player, handLimit int, hub websocket.HubInterface, sink ResultSink) *Engine {
	return &Engine{
		RoomID:     roomID,
		Table:      table.New(roomID, handLimit),
		Dealer:     dealer.NewDealer(time.Now().UnixNano()),
		Players:    players,
		Hub:        hub,
		sink:       sink,
		actionChan: make(chan Action, 32), // 防止死锁
		quit:       make(chan struct{}),
	}
}

// Start deals the first hand, fans out the personalized hand_started
// payloads, and launches the action loop.
func (e *Engine) Start() {
	if err := e.startHand(); err != nil {
		utils.Log.Error("start hand", "room", e.RoomID, "err", err)
		return
	}
	go e.actionLoop()
}

// Stop ends the action loop without notifying anyone; the registry
// sends its own closing broadcast.
func (e *Engine) Stop() {
	close(e.quit)
}

func (e *Engine) Enqueue(a Action) {
	select {
	case e.actionChan <- a:
	case <-e.quit:
	}
}

func (e *Engine) actionLoop() {
	for {
		select {
		case a := <-e.actionChan:
			e.handleAction(a)
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) handleAction(a Action) {
	switch a.Kind {
	case ActionPlaceBid:
		e.handleBid(a.Seat, a.Bid)
	case ActionPlayCard:
		e.handlePlay(a.Seat, a.Card)
	case ActionLeave:
		e.handleLeave(a.Seat)
	}
}

// ---------------------
//   COMMAND HANDLERS
// ---------------------

func (e *Engine) handleBid(seat table.Seat, bid int) {
	allIn, err := e.Table.PlaceBid(seat, bid)
	if err != nil {
		e.reject(seat, "invalid_bid", err)
		return
	}
	e.fanout("bids_update", nil)
	if allIn {
		utils.Log.Info("bidding closed", "room", e.RoomID, "leader", e.Table.Turn)
	}
}

func (e *Engine) handlePlay(seat table.Seat, card table.Card) {
	res, err := e.Table.PlayCard(seat, card)
	if err != nil {
		e.reject(seat, "invalid_move", err)
		return
	}

	if !res.TrickComplete {
		e.fanout("trick_update", nil)
		return
	}

	if !res.HandComplete {
		e.fanout("trick_resolved", map[string]any{"winner": res.Winner})
		return
	}

	e.recordHand(res)
	e.fanout("hand_complete", map[string]any{
		"scores": res.HandScores,
		"totals": res.Totals,
		"winner": table.HandWinner(res.HandScores),
	})

	if res.GameComplete {
		e.recordGame(res)
		e.fanout("game_complete", map[string]any{
			"totals": res.Totals,
			"winner": table.HandWinner(res.Totals),
		})
		if e.OnGameOver != nil {
			e.OnGameOver(e.RoomID, "game_complete")
		}
		return
	}

	// next hand
	if err := e.startHand(); err != nil {
		utils.Log.Error("redeal", "room", e.RoomID, "err", err)
	}
}

// handleLeave implements the mid-game disconnect policy: the hand
// cannot continue fairly with a dead seat, so the room is closed and
// the remaining members are told to return to the lobby.
func (e *Engine) handleLeave(seat table.Seat) {
	e.Hub.BroadcastToPlayers(e.playerIDs(), websocket.OutgoingMessage{
		Event: "room_closed",
		Data: map[string]any{
			"roomId": e.RoomID,
			"reason": "player_left",
			"seat":   seat,
		},
	})
	if e.OnGameOver != nil {
		e.OnGameOver(e.RoomID, "player_left")
	}
}

// ---------------------
//    DEAL AND FANOUT
// ---------------------

func (e *Engine) startHand() error {
	e.Dealer.NewDeck()
	if err := e.Table.StartHand(e.Dealer.DealHands(), e.Dealer.PickLeader()); err != nil {
		return err
	}

	names := e.names()
	for s := 0; s < table.NumSeats; s++ {
		seat := table.Seat(s)
		e.Hub.SendToPlayer(e.Players[s].ID, websocket.OutgoingMessage{
			Event: "hand_started",
			Data: map[string]any{
				"roomId":     e.RoomID,
				"view":       view.ProjectFor(e.Table, seat),
				"names":      names,
				"localNames": view.RelabelNames(names, seat),
			},
		})
	}
	return nil
}

// fanout sends each seat its own projection of the table, plus any
// public extras. Hands other than the recipient's never leave the
// projector, so this is safe for every event.
func (e *Engine) fanout(event string, extra map[string]any) {
	for s := 0; s < table.NumSeats; s++ {
		seat := table.Seat(s)
		data := map[string]any{
			"roomId": e.RoomID,
			"view":   view.ProjectFor(e.Table, seat),
		}
		for k, v := range extra {
			data[k] = v
		}
		e.Hub.SendToPlayer(e.Players[s].ID, websocket.OutgoingMessage{
			Event: event,
			Data:  data,
		})
	}
}

// reject answers the acting player only; table state was not touched.
func (e *Engine) reject(seat table.Seat, event string, err error) {
	e.Hub.SendToPlayer(e.Players[seat].ID, websocket.OutgoingMessage{
		Event: event,
		Data: map[string]any{
			"roomId": e.RoomID,
			"reason": err.Error(),
		},
	})
}

// ---------------------
//   RESULTS HISTORY
// ---------------------

func (e *Engine) recordHand(res table.PlayResult) {
	if e.sink == nil {
		return
	}
	var bids [table.NumSeats]int
	for s := 0; s < table.NumSeats; s++ {
		if b := e.Table.Bids[s]; b != nil {
			bids[s] = *b
		}
	}
	rec := storage.HandRecord{
		RoomID:     e.RoomID,
		HandNumber: e.Table.HandNumber,
		Bids:       bids,
		TricksWon:  e.Table.TricksWon,
		Scores:     res.HandScores,
		Totals:     res.Totals,
		Winner:     table.HandWinner(res.HandScores).String(),
	}
	if err := e.sink.SaveHand(context.Background(), rec); err != nil {
		utils.Log.Warn("save hand result", "room", e.RoomID, "err", err)
	}
}

func (e *Engine) recordGame(res table.PlayResult) {
	if e.sink == nil {
		return
	}
	rec := storage.GameRecord{
		RoomID: e.RoomID,
		Hands:  e.Table.HandNumber,
		Totals: res.Totals,
		Winner: table.HandWinner(res.Totals).String(),
	}
	if err := e.sink.SaveGame(context.Background(), rec); err != nil {
		utils.Log.Warn("save game result", "room", e.RoomID, "err", err)
	}
}

func (e *Engine) playerIDs() []string {
	ids := make([]string, 0, table.NumSeats)
	for _, p := range e.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (e *Engine) names() [table.NumSeats]string {
	var names [table.NumSeats]string
	for s, p := range e.Players {
		names[s] = p.Name
	}
	return names
}
