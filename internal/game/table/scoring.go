package table

// ScoreHand applies the house scoring rule: making the bid is worth
// 10 points per bid trick plus one per overtrick, missing it costs 10
// per bid trick. This is a deliberate, documented choice; other
// rulesets (fractional overtricks, no multiplier) would replace only
// this function.
func ScoreHand(bids [NumSeats]int, tricksWon [NumSeats]int) [NumSeats]int {
	var scores [NumSeats]int
	for s := 0; s < NumSeats; s++ {
		bid := bids[s]
		won := tricksWon[s]
		if won >= bid {
			scores[s] = 10*bid + (won - bid)
		} else {
			scores[s] = -10 * bid
		}
	}
	return scores
}

// HandWinner returns the seat with the best score for a single hand,
// for the results history. Lowest seat index wins a tie.
func HandWinner(scores [NumSeats]int) Seat {
	winner := Seat(0)
	for s := 1; s < NumSeats; s++ {
		if scores[s] > scores[winner] {
			winner = Seat(s)
		}
	}
	return winner
}
