package domain

import "strconv"

type SeatClass string

const (
	SeatNormal     SeatClass = "normal"
	SeatCouple     SeatClass = "couple"
	SeatAccessible SeatClass = "accessible"
)

type Seat struct {
	ID           int64
	RoomID       int64
	Row          string
	Number       int
	Class        SeatClass
	SeatCount    int
	Preferential bool
	Available    bool
}

// Label renders the seat as it is printed on a ticket, e.g. "C7".
func (s Seat) Label() string {
	return s.Row + strconv.Itoa(s.Number)
}

type SeatCounts struct {
	Available int64
	Taken     int64
	Total     int64
}
