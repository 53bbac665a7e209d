package table

// LegalMoves returns every card seat may play right now. While the
// seat's hand is non-empty the result is never empty: a follower who
// cannot follow suit may play anything, and a leader holding only
// spades may lead them even before spades are broken.
func (t *Table) LegalMoves(seat Seat) []Card {
	hand := t.Hands[seat]

	if t.trickPlays == 0 {
		// Leading. Spades stay locked until broken, unless that is
		// all the seat has left.
		if t.SpadesBroken {
			return append([]Card(nil), hand...)
		}
		moves := make([]Card, 0, len(hand))
		for _, c := range hand {
			if c.Suit != SuitSpades {
				moves = append(moves, c)
			}
		}
		if len(moves) == 0 {
			return append([]Card(nil), hand...)
		}
		return moves
	}

	lead := t.Trick[t.leader].Suit
	moves := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit == lead {
			moves = append(moves, c)
		}
	}
	if len(moves) == 0 {
		return append([]Card(nil), hand...)
	}
	return moves
}

// checkLegal mirrors LegalMoves for a single card so PlayCard can
// report which rule was broken. The card is already known to be held.
func (t *Table) checkLegal(seat Seat, card Card) error {
	if t.trickPlays == 0 {
		if card.Suit != SuitSpades || t.SpadesBroken {
			return nil
		}
		for _, c := range t.Hands[seat] {
			if c.Suit != SuitSpades {
				return ErrSpadesNotBroken
			}
		}
		return nil
	}

	lead := t.Trick[t.leader].Suit
	if card.Suit == lead {
		return nil
	}
	for _, c := range t.Hands[seat] {
		if c.Suit == lead {
			return ErrMustFollowSuit
		}
	}
	return nil
}

// resolveTrick picks the winner of the completed trick: the highest
// spade if any was played, otherwise the highest card of the lead
// suit. Ties are structurally impossible within one deck.
func (t *Table) resolveTrick() Seat {
	if t.trickPlays != NumSeats {
		panic("resolveTrick called on a partial trick")
	}
	// best starts as the lead card, so best.Suit is always the lead
	// suit until a spade shows up.
	winner := t.leader
	best := *t.Trick[t.leader]
	for s := 0; s < NumSeats; s++ {
		c := t.Trick[s]
		if Seat(s) == t.leader {
			continue
		}
		switch {
		case c.Suit == SuitSpades && best.Suit != SuitSpades:
			winner, best = Seat(s), *c
		case c.Suit == best.Suit && c.Rank > best.Rank:
			winner, best = Seat(s), *c
		}
	}
	return winner
}
