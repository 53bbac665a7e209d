package table

import (
	"errors"
	"fmt"
	"time"
)

// State is the table lifecycle phase.
type State string

const (
	StateForming      State = "forming"
	StateDealt        State = "dealt"
	StateBidding      State = "bidding"
	StatePlaying      State = "playing"
	StateHandComplete State = "hand_complete"
	StateGameComplete State = "game_complete"
)

// Validation errors: the command was addressed correctly but is illegal
// right now. The table is left untouched and nothing is broadcast.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrCardNotHeld     = errors.New("card not in hand")
	ErrMustFollowSuit  = errors.New("must follow the lead suit")
	ErrSpadesNotBroken = errors.New("spades have not been broken")
	ErrBidOutOfRange   = errors.New("bid must be between 0 and 13")
	ErrBidAlreadySet   = errors.New("bid already placed")
)

// State errors: the command arrived in the wrong lifecycle phase.
var (
	ErrNotBidding = errors.New("table is not in the bidding phase")
	ErrNotPlaying = errors.New("table is not in the playing phase")
	ErrNotReady   = errors.New("table is not ready to deal")
)

// Table is the authoritative state of one game. It is not safe for
// concurrent use; the engine serializes all access per room.
type Table struct {
	ID        string
	CreatedAt time.Time

	State      State
	HandNumber int
	HandLimit  int

	Hands     [NumSeats][]Card
	Trick     [NumSeats]*Card
	Bids      [NumSeats]*int
	TricksWon [NumSeats]int

	// HandScores holds the most recently scored hand; Totals is the
	// running sum across hands.
	HandScores [NumSeats]int
	Totals     [NumSeats]int

	Turn         Seat
	SpadesBroken bool

	// leader is the seat that opened the current trick; its card
	// fixes the lead suit.
	leader     Seat
	trickPlays int
}

func New(id string, handLimit int) *Table {
	if handLimit <= 0 {
		handLimit = 1
	}
	return &Table{
		ID:        id,
		CreatedAt: time.Now(),
		State:     StateForming,
		HandLimit: handLimit,
	}
}

// StartHand installs a fresh deal and opens bidding. Allowed from
// Forming (first hand, once all four seats are taken) and from
// HandComplete (redeal). The Dealt state is passed through
// immediately: there is no separate ready signal.
func (t *Table) StartHand(hands [NumSeats][]Card, leader Seat) error {
	if t.State != StateForming && t.State != StateHandComplete {
		return ErrNotReady
	}
	for s := 0; s < NumSeats; s++ {
		if len(hands[s]) != HandSize {
			return fmt.Errorf("seat %s dealt %d cards, want %d", Seat(s), len(hands[s]), HandSize)
		}
	}
	t.State = StateDealt
	t.HandNumber++
	t.Hands = hands
	t.Trick = [NumSeats]*Card{}
	t.Bids = [NumSeats]*int{}
	t.TricksWon = [NumSeats]int{}
	t.HandScores = [NumSeats]int{}
	t.SpadesBroken = false
	t.Turn = leader
	t.leader = leader
	t.trickPlays = 0

	t.State = StateBidding
	return nil
}

// PlaceBid records seat's bid. Bids are public, placed exactly once
// per hand, and all four must be in before the first card is played.
// Returns true when the last bid closes the phase.
func (t *Table) PlaceBid(seat Seat, bid int) (bool, error) {
	if t.State != StateBidding {
		return false, ErrNotBidding
	}
	if bid < 0 || bid > HandSize {
		return false, ErrBidOutOfRange
	}
	if t.Bids[seat] != nil {
		return false, ErrBidAlreadySet
	}
	b := bid
	t.Bids[seat] = &b

	for s := 0; s < NumSeats; s++ {
		if t.Bids[s] == nil {
			return false, nil
		}
	}
	t.State = StatePlaying
	return true, nil
}

// PlayResult reports what an accepted play did to the table.
type PlayResult struct {
	TrickComplete bool
	Winner        Seat

	HandComplete bool
	HandScores   [NumSeats]int
	Totals       [NumSeats]int

	GameComplete bool
}

// PlayCard validates and applies one play. Validation runs in full
// before any mutation, so a rejected play leaves the table unchanged.
func (t *Table) PlayCard(seat Seat, card Card) (PlayResult, error) {
	var res PlayResult
	if t.State != StatePlaying {
		return res, ErrNotPlaying
	}
	if t.Turn != seat {
		return res, ErrNotYourTurn
	}
	idx := indexOf(t.Hands[seat], card)
	if idx < 0 {
		return res, ErrCardNotHeld
	}
	if err := t.checkLegal(seat, card); err != nil {
		return res, err
	}

	t.Hands[seat] = append(t.Hands[seat][:idx], t.Hands[seat][idx+1:]...)
	c := card
	t.Trick[seat] = &c
	t.trickPlays++
	if card.Suit == SuitSpades {
		t.SpadesBroken = true
	}

	if t.trickPlays < NumSeats {
		t.Turn = seat.Next()
		return res, nil
	}

	winner := t.resolveTrick()
	t.TricksWon[winner]++
	t.Trick = [NumSeats]*Card{}
	t.trickPlays = 0
	t.Turn = winner
	t.leader = winner
	res.TrickComplete = true
	res.Winner = winner

	for s := 0; s < NumSeats; s++ {
		if len(t.Hands[s]) > 0 {
			return res, nil
		}
	}

	t.completeHand(&res)
	return res, nil
}

// completeHand scores the finished hand and either freezes the game
// or parks the table in HandComplete awaiting a redeal.
func (t *Table) completeHand(res *PlayResult) {
	var bids [NumSeats]int
	for s := 0; s < NumSeats; s++ {
		bids[s] = *t.Bids[s]
	}
	t.HandScores = ScoreHand(bids, t.TricksWon)
	for s := 0; s < NumSeats; s++ {
		t.Totals[s] += t.HandScores[s]
	}

	res.HandComplete = true
	res.HandScores = t.HandScores
	res.Totals = t.Totals

	if t.HandNumber >= t.HandLimit {
		t.State = StateGameComplete
		res.GameComplete = true
		return
	}
	t.State = StateHandComplete
}

func indexOf(hand []Card, card Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}
