package table

import "fmt"

// Suit order matches the deck build order; spades are trump.
type Suit int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Rank runs 2..14 with J=11, Q=12, K=13, A=14.
type Rank int

const (
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

const (
	MinRank Rank = 2
	MaxRank Rank = RankAce
)

// Card 定义 (suit 0-3, rank 2-14)
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (s Suit) String() string {
	suits := []string{"♣", "♦", "♥", "♠"}
	if s < 0 || int(s) >= len(suits) {
		return "?"
	}
	return suits[s]
}

func (r Rank) String() string {
	names := map[Rank]string{
		RankJack:  "J",
		RankQueen: "Q",
		RankKing:  "K",
		RankAce:   "A",
	}
	if v, ok := names[r]; ok {
		return v
	}
	return fmt.Sprintf("%d", int(r))
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Valid reports whether the card names a real deck member.
func (c Card) Valid() bool {
	return c.Suit >= SuitClubs && c.Suit <= SuitSpades &&
		c.Rank >= MinRank && c.Rank <= MaxRank
}

// Seat is one of four fixed clockwise positions. The identity never
// changes for the lifetime of a table; viewer-relative relabeling
// ("you are always south") lives in the view package.
type Seat int

const (
	SeatNorth Seat = iota
	SeatEast
	SeatSouth
	SeatWest

	NumSeats = 4
)

const HandSize = 13

func (s Seat) String() string {
	switch s {
	case SeatNorth:
		return "north"
	case SeatEast:
		return "east"
	case SeatSouth:
		return "south"
	case SeatWest:
		return "west"
	default:
		return "?"
	}
}

// Next returns the seat clockwise from s.
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

// Valid reports whether s names one of the four seats.
func (s Seat) Valid() bool {
	return s >= SeatNorth && s < NumSeats
}
