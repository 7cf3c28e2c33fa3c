package domain

import "time"

type RoomClass string

const (
	RoomStandard RoomClass = "standard"
	RoomXD       RoomClass = "xd"
	RoomVIP      RoomClass = "vip"
	Room4D       RoomClass = "4d"
)

func (c RoomClass) Valid() bool {
	switch c {
	case RoomStandard, RoomXD, RoomVIP, Room4D:
		return true
	}
	return false
}

type Role string

const (
	RoleManager  Role = "manager"
	RoleWaiter   Role = "waiter"
	RoleCleaning Role = "cleaning"
	RoleCashier  Role = "cashier"
)

type Cinema struct {
	ID   int64
	Name string
}

type Room struct {
	ID              int64
	CinemaID        int64
	Name            string
	Capacity        int
	Class           RoomClass
	CoupleSeats     int
	AccessibleSeats int
}

type Film struct {
	ID          int64
	Title       string
	DurationMin int
	Is3D        bool
	MinimumAge  int
}

// Duration returns how long the film occupies a room.
func (f Film) Duration() time.Duration {
	return time.Duration(f.DurationMin) * time.Minute
}

type Employee struct {
	ID       int64
	CinemaID int64
	Name     string
	Role     Role
}

type Customer struct {
	ID        int64
	Name      string
	BirthDate time.Time
	Points    int64
}

// AgeAt returns the customer's age in whole years at t.
func (c Customer) AgeAt(t time.Time) int {
	age := t.Year() - c.BirthDate.Year()
	if t.Month() < c.BirthDate.Month() ||
		(t.Month() == c.BirthDate.Month() && t.Day() < c.BirthDate.Day()) {
		age--
	}
	return age
}

// HasBirthdayMonth reports whether t falls in the customer's birthday month.
func (c Customer) HasBirthdayMonth(t time.Time) bool {
	return !c.BirthDate.IsZero() && c.BirthDate.Month() == t.Month()
}

// Product is the concession inventory's view of a sellable item.
type Product struct {
	ID          int64
	Name        string
	Stock       int
	PointsPrice int64
}
