// Package view derives, per seat, the slice of table state that seat
// is allowed to see. ProjectFor is the only place in the codebase that
// serializes a hand, which keeps the hidden-information rule in one spot.
package view

import "CallBreak/internal/game/table"

// SeatView is everything one seat may know about the table: its own
// hand in full, everyone else's hand as a count only, and the public
// trick / bid / score state.
type SeatView struct {
	You        table.Seat  `json:"you"`
	State      table.State `json:"state"`
	HandNumber int         `json:"handNumber"`

	Hand      []table.Card        `json:"hand"`
	HandSizes [table.NumSeats]int `json:"handSizes"`

	Trick [table.NumSeats]*table.Card `json:"trick"`
	Turn  table.Seat                  `json:"turn"`

	Bids       [table.NumSeats]*int `json:"bids"`
	TricksWon  [table.NumSeats]int  `json:"tricksWon"`
	HandScores [table.NumSeats]int  `json:"handScores"`
	Totals     [table.NumSeats]int  `json:"totals"`

	SpadesBroken bool `json:"spadesBroken"`
}

func ProjectFor(t *table.Table, seat table.Seat) SeatView {
	v := SeatView{
		You:          seat,
		State:        t.State,
		HandNumber:   t.HandNumber,
		Hand:         append([]table.Card(nil), t.Hands[seat]...),
		Turn:         t.Turn,
		TricksWon:    t.TricksWon,
		HandScores:   t.HandScores,
		Totals:       t.Totals,
		SpadesBroken: t.SpadesBroken,
	}
	for s := 0; s < table.NumSeats; s++ {
		v.HandSizes[s] = len(t.Hands[s])
		if c := t.Trick[s]; c != nil {
			card := *c
			v.Trick[s] = &card
		}
		if b := t.Bids[s]; b != nil {
			bid := *b
			v.Bids[s] = &bid
		}
	}
	return v
}
