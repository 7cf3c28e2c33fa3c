package domain

import "time"

type SessionType string

const (
	SessionRegular     SessionType = "regular"
	SessionPreRelease  SessionType = "pre_release"
	SessionEvent       SessionType = "event"
	SessionBabySpecial SessionType = "baby_special"
	SessionPetSpecial  SessionType = "pet_special"
	SessionMatinee     SessionType = "matinee"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionRegular, SessionPreRelease, SessionEvent,
		SessionBabySpecial, SessionPetSpecial, SessionMatinee:
		return true
	}
	return false
}

type Session struct {
	ID              int64
	RoomID          int64
	FilmID          int64
	Starts          time.Time
	Ends            time.Time
	BasePriceCents  int64
	FinalPriceCents int64
	Type            SessionType
	EventName       string
	PartnerName     string
	Language        string
}

// SessionDetails is a session joined with the room and film it needs on the
// sale path. Room or Film being nil means the catalog lost a reference.
type SessionDetails struct {
	Session Session
	Room    *Room
	Film    *Film
}
