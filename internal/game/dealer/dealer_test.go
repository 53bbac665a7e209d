package dealer

import (
	"testing"
	"time"

	"CallBreak/internal/game/table"
)

func hasDuplicates(cards []table.Card) bool {
	seen := make(map[table.Card]bool)
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

func TestNewDeck(t *testing.T) {
	d := NewDealer(time.Now().UnixNano())
	d.NewDeck()

	if len(d.deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(d.deck))
	}
	if hasDuplicates(d.deck) {
		t.Fatalf("deck should not contain duplicates")
	}

	suits := make(map[table.Suit]bool)
	ranks := make(map[table.Rank]bool)
	for _, c := range d.deck {
		suits[c.Suit] = true
		ranks[c.Rank] = true
	}
	if len(suits) != 4 {
		t.Fatalf("expected 4 suits, got %d", len(suits))
	}
	if len(ranks) != 13 {
		t.Fatalf("expected 13 ranks, got %d", len(ranks))
	}
}

func TestShuffleDeterministicPerSeed(t *testing.T) {
	d1 := NewDealer(42)
	d1.NewDeck()
	d2 := NewDealer(42)
	d2.NewDeck()

	for i := range d1.deck {
		if d1.deck[i] != d2.deck[i] {
			t.Fatalf("expected identical decks for same seed")
		}
	}

	d3 := NewDealer(99)
	d3.NewDeck()
	diff := false
	for i := range d1.deck {
		if d1.deck[i] != d3.deck[i] {
			diff = true
			break
		}
	}
	if !diff {
		t.Fatalf("expected deck with different seed to differ")
	}
}

// The four hands must partition the deck: 13 cards each, pairwise
// disjoint, union is all 52.
func TestDealHandsPartitionsDeck(t *testing.T) {
	d := NewDealer(1)
	d.NewDeck()
	hands := d.DealHands()

	all := []table.Card{}
	for s := 0; s < table.NumSeats; s++ {
		if len(hands[s]) != table.HandSize {
			t.Fatalf("seat %d should have 13 cards, got %d", s, len(hands[s]))
		}
		all = append(all, hands[s]...)
	}
	if len(all) != 52 {
		t.Fatalf("expected 52 dealt cards, got %d", len(all))
	}
	if hasDuplicates(all) {
		t.Fatalf("deal contains duplicates")
	}
}

func TestDealHandsRequiresFullDeck(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on partial deck")
		}
	}()
	d := NewDealer(2)
	// never shuffled a fresh deck in
	d.DealHands()
}

func TestPickLeaderInRange(t *testing.T) {
	d := NewDealer(3)
	for i := 0; i < 100; i++ {
		if s := d.PickLeader(); !s.Valid() {
			t.Fatalf("invalid leader seat %d", s)
		}
	}
}
