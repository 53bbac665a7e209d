package dealer

import (
	"math/rand"

	"CallBreak/internal/game/table"
)

// Dealer 只负责洗牌与发牌（无规则判断）
type Dealer struct {
	deck []table.Card
	rnd  *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{
		deck: make([]table.Card, 0, 52),
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// NewDeck 初始化一副牌并洗牌
func (d *Dealer) NewDeck() {
	d.deck = d.makeDeck()
	d.shuffle()
}

func (d *Dealer) makeDeck() []table.Card {
	deck := make([]table.Card, 0, 52)
	for s := table.SuitClubs; s <= table.SuitSpades; s++ {
		for r := table.MinRank; r <= table.MaxRank; r++ {
			deck = append(deck, table.Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func (d *Dealer) shuffle() {
	d.rnd.Shuffle(len(d.deck), func(i, j int) {
		d.deck[i], d.deck[j] = d.deck[j], d.deck[i]
	})
}

// DealHands deals the shuffled deck into four hands of 13. The deck
// must partition exactly; anything else is a programming error.
func (d *Dealer) DealHands() [table.NumSeats][]table.Card {
	if len(d.deck) != table.NumSeats*table.HandSize {
		panic("deal requires a full 52-card deck")
	}
	var hands [table.NumSeats][]table.Card
	for s := 0; s < table.NumSeats; s++ {
		hand := make([]table.Card, table.HandSize)
		copy(hand, d.deck[s*table.HandSize:(s+1)*table.HandSize])
		hands[s] = hand
	}
	d.deck = d.deck[:0]
	return hands
}

// PickLeader chooses who opens the first trick of a hand.
func (d *Dealer) PickLeader() table.Seat {
	return table.Seat(d.rnd.Intn(table.NumSeats))
}
