package view

import "CallBreak/internal/game/table"

// Viewer-relative relabeling: clients render themselves at the bottom
// of the screen, so the canonical seat ring is rotated until the
// viewer lands on south. This is pure presentation applied on top of a
// SeatView; the authoritative seat identities never change.

// MapSeatForView rotates a canonical seat so viewerSeat appears as
// south. With viewer=north, north maps to south and east to west.
func MapSeatForView(serverSeat, viewerSeat table.Seat) table.Seat {
	rotation := (table.SeatSouth - viewerSeat + table.NumSeats) % table.NumSeats
	return (serverSeat + rotation) % table.NumSeats
}

// RelabelNames returns the member display names keyed by local seat
// for the given viewer.
func RelabelNames(names [table.NumSeats]string, viewerSeat table.Seat) [table.NumSeats]string {
	var local [table.NumSeats]string
	for s := 0; s < table.NumSeats; s++ {
		local[MapSeatForView(table.Seat(s), viewerSeat)] = names[s]
	}
	return local
}
