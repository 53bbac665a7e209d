package table

import "testing"

// craftedDeal gives each seat one long suit plus a single off-suit
// card, so follow-suit and void situations are deterministic:
//
//	north: 3♣..A♣ + 2♦
//	east:  3♦..A♦ + 2♣
//	south: 3♥..A♥ + 2♠
//	west:  3♠..A♠ + 2♥
func craftedDeal() [NumSeats][]Card {
	var hands [NumSeats][]Card
	fill := func(seat Seat, main Suit, extra Card) {
		h := []Card{extra}
		for r := Rank(3); r <= MaxRank; r++ {
			h = append(h, Card{Suit: main, Rank: r})
		}
		hands[seat] = h
	}
	fill(SeatNorth, SuitClubs, Card{SuitDiamonds, 2})
	fill(SeatEast, SuitDiamonds, Card{SuitClubs, 2})
	fill(SeatSouth, SuitHearts, Card{SuitSpades, 2})
	fill(SeatWest, SuitSpades, Card{SuitHearts, 2})
	return hands
}

func biddingTable(t *testing.T, handLimit int) *Table {
	t.Helper()
	tbl := New("room-test", handLimit)
	if tbl.State != StateForming {
		t.Fatalf("new table state = %v, want forming", tbl.State)
	}
	if err := tbl.StartHand(craftedDeal(), SeatNorth); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	return tbl
}

func placeAllBids(t *testing.T, tbl *Table) {
	t.Helper()
	for s := 0; s < NumSeats; s++ {
		if _, err := tbl.PlaceBid(Seat(s), 3); err != nil {
			t.Fatalf("bid for seat %d: %v", s, err)
		}
	}
}

func TestStartHandOpensBidding(t *testing.T) {
	tbl := biddingTable(t, 5)
	if tbl.State != StateBidding {
		t.Fatalf("state = %v, want bidding", tbl.State)
	}
	if tbl.HandNumber != 1 {
		t.Fatalf("hand number = %d, want 1", tbl.HandNumber)
	}
	if tbl.Turn != SeatNorth {
		t.Fatalf("turn = %v, want the leader", tbl.Turn)
	}
}

func TestStartHandRejectsShortDeal(t *testing.T) {
	tbl := New("room-test", 5)
	hands := craftedDeal()
	hands[SeatWest] = hands[SeatWest][:12]
	if err := tbl.StartHand(hands, SeatNorth); err == nil {
		t.Fatalf("expected error for a 12-card hand")
	}
}

func TestNoPlayBeforeBidsComplete(t *testing.T) {
	tbl := biddingTable(t, 5)
	if _, err := tbl.PlayCard(SeatNorth, Card{SuitClubs, 3}); err != ErrNotPlaying {
		t.Fatalf("err = %v, want ErrNotPlaying", err)
	}
	// three bids are not enough either
	for s := 0; s < 3; s++ {
		if _, err := tbl.PlaceBid(Seat(s), 3); err != nil {
			t.Fatalf("bid: %v", err)
		}
	}
	if _, err := tbl.PlayCard(SeatNorth, Card{SuitClubs, 3}); err != ErrNotPlaying {
		t.Fatalf("err = %v, want ErrNotPlaying with a bid missing", err)
	}
}

func TestBidValidation(t *testing.T) {
	tbl := biddingTable(t, 5)

	if _, err := tbl.PlaceBid(SeatNorth, -1); err != ErrBidOutOfRange {
		t.Fatalf("err = %v, want ErrBidOutOfRange", err)
	}
	if _, err := tbl.PlaceBid(SeatNorth, 14); err != ErrBidOutOfRange {
		t.Fatalf("err = %v, want ErrBidOutOfRange", err)
	}
	if _, err := tbl.PlaceBid(SeatNorth, 4); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if _, err := tbl.PlaceBid(SeatNorth, 5); err != ErrBidAlreadySet {
		t.Fatalf("err = %v, want ErrBidAlreadySet", err)
	}

	for s := 1; s < NumSeats; s++ {
		all, err := tbl.PlaceBid(Seat(s), 3)
		if err != nil {
			t.Fatalf("bid: %v", err)
		}
		if (s == NumSeats-1) != all {
			t.Fatalf("all-in = %v after %d bids", all, s+1)
		}
	}
	if tbl.State != StatePlaying {
		t.Fatalf("state = %v, want playing after final bid", tbl.State)
	}
	if _, err := tbl.PlaceBid(SeatNorth, 2); err != ErrNotBidding {
		t.Fatalf("err = %v, want ErrNotBidding once play began", err)
	}
}

func TestPlayValidationLeavesStateUntouched(t *testing.T) {
	tbl := biddingTable(t, 5)
	placeAllBids(t, tbl)

	if _, err := tbl.PlayCard(SeatEast, Card{SuitDiamonds, 3}); err != ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if _, err := tbl.PlayCard(SeatNorth, Card{SuitHearts, RankAce}); err != ErrCardNotHeld {
		t.Fatalf("err = %v, want ErrCardNotHeld", err)
	}

	if _, err := tbl.PlayCard(SeatNorth, Card{SuitClubs, 3}); err != nil {
		t.Fatalf("lead: %v", err)
	}

	// east holds 2♣ so diamonds are illegal
	before := len(tbl.Hands[SeatEast])
	if _, err := tbl.PlayCard(SeatEast, Card{SuitDiamonds, 3}); err != ErrMustFollowSuit {
		t.Fatalf("err = %v, want ErrMustFollowSuit", err)
	}
	if len(tbl.Hands[SeatEast]) != before {
		t.Fatalf("rejected play mutated the hand")
	}
	if tbl.Trick[SeatEast] != nil {
		t.Fatalf("rejected play reached the trick")
	}
	if tbl.Turn != SeatEast {
		t.Fatalf("rejected play advanced the turn")
	}
}

func TestSpadeLeadRejectedBeforeBreak(t *testing.T) {
	tbl := biddingTable(t, 5)
	placeAllBids(t, tbl)

	// hand south to lead: 2♠ is locked while hearts remain
	tbl.Turn = SeatSouth
	if _, err := tbl.PlayCard(SeatSouth, Card{SuitSpades, 2}); err != ErrSpadesNotBroken {
		t.Fatalf("err = %v, want ErrSpadesNotBroken", err)
	}
	if _, err := tbl.PlayCard(SeatSouth, Card{SuitHearts, 3}); err != nil {
		t.Fatalf("heart lead should be legal: %v", err)
	}
}

func TestTrickResolutionAndSpadeBreak(t *testing.T) {
	tbl := biddingTable(t, 5)
	placeAllBids(t, tbl)

	plays := []struct {
		seat Seat
		card Card
	}{
		{SeatNorth, Card{SuitClubs, 3}},
		{SeatEast, Card{SuitClubs, 2}},
		{SeatSouth, Card{SuitSpades, 2}}, // void in clubs, trumps in
		{SeatWest, Card{SuitHearts, 2}},  // void in clubs
	}
	var res PlayResult
	for _, p := range plays {
		var err error
		res, err = tbl.PlayCard(p.seat, p.card)
		if err != nil {
			t.Fatalf("play %v by %v: %v", p.card, p.seat, err)
		}
	}

	if !res.TrickComplete || res.Winner != SeatSouth {
		t.Fatalf("result = %+v, want south winning by trump", res)
	}
	if !tbl.SpadesBroken {
		t.Fatalf("spades should be broken")
	}
	if tbl.TricksWon[SeatSouth] != 1 {
		t.Fatalf("tricksWon = %v, want south credited once", tbl.TricksWon)
	}
	for s := 0; s < NumSeats; s++ {
		if tbl.Trick[s] != nil {
			t.Fatalf("trick not cleared after resolution")
		}
	}
	if tbl.Turn != SeatSouth {
		t.Fatalf("turn = %v, want the trick winner", tbl.Turn)
	}
}

// playOutHand drives the table with the first legal move until the
// hand ends, returning the final play result.
func playOutHand(t *testing.T, tbl *Table) PlayResult {
	t.Helper()
	for n := 0; tbl.State == StatePlaying; n++ {
		if n > NumSeats*HandSize {
			t.Fatalf("hand did not terminate")
		}
		moves := tbl.LegalMoves(tbl.Turn)
		if len(moves) == 0 {
			t.Fatalf("no legal moves for %v with %d cards", tbl.Turn, len(tbl.Hands[tbl.Turn]))
		}
		res, err := tbl.PlayCard(tbl.Turn, moves[0])
		if err != nil {
			t.Fatalf("playing %v as %v: %v", moves[0], tbl.Turn, err)
		}
		if res.HandComplete {
			return res
		}
	}
	t.Fatalf("left playing state without completing the hand")
	return PlayResult{}
}

func TestFullHandRoundTrip(t *testing.T) {
	tbl := biddingTable(t, 2)
	placeAllBids(t, tbl)

	res := playOutHand(t, tbl)

	total := 0
	for s := 0; s < NumSeats; s++ {
		total += tbl.TricksWon[s]
		if len(tbl.Hands[s]) != 0 {
			t.Fatalf("seat %d still holds cards", s)
		}
	}
	if total != HandSize {
		t.Fatalf("sum(tricksWon) = %d, want 13", total)
	}
	if tbl.State != StateHandComplete {
		t.Fatalf("state = %v, want hand_complete", tbl.State)
	}
	if res.GameComplete {
		t.Fatalf("game should continue below the hand limit")
	}

	// second hand reaches the limit and freezes the table
	if err := tbl.StartHand(craftedDeal(), SeatEast); err != nil {
		t.Fatalf("redeal: %v", err)
	}
	if tbl.HandNumber != 2 || tbl.State != StateBidding {
		t.Fatalf("redeal state = %v hand %d", tbl.State, tbl.HandNumber)
	}
	placeAllBids(t, tbl)
	res = playOutHand(t, tbl)
	if !res.GameComplete || tbl.State != StateGameComplete {
		t.Fatalf("state = %v result %+v, want game complete", tbl.State, res)
	}

	wantTotals := [NumSeats]int{}
	for s := 0; s < NumSeats; s++ {
		wantTotals[s] = tbl.Totals[s]
	}
	if res.Totals != wantTotals {
		t.Fatalf("result totals %v != table totals %v", res.Totals, wantTotals)
	}

	if err := tbl.StartHand(craftedDeal(), SeatNorth); err != ErrNotReady {
		t.Fatalf("err = %v, want ErrNotReady on a frozen table", err)
	}
}

func TestCumulativeTotals(t *testing.T) {
	tbl := biddingTable(t, 3)
	var running [NumSeats]int
	for hand := 1; hand <= 2; hand++ {
		if hand > 1 {
			if err := tbl.StartHand(craftedDeal(), SeatNorth); err != nil {
				t.Fatalf("redeal: %v", err)
			}
		}
		placeAllBids(t, tbl)
		res := playOutHand(t, tbl)
		for s := 0; s < NumSeats; s++ {
			running[s] += res.HandScores[s]
		}
		if res.Totals != running {
			t.Fatalf("hand %d totals %v, want %v", hand, res.Totals, running)
		}
	}
}
