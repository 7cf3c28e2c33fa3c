package pricing

import (
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
)

var roomClassSurcharge = map[domain.RoomClass]int64{
	domain.RoomStandard: 0,
	domain.RoomXD:       1500,
	domain.RoomVIP:      3500,
	domain.Room4D:       2500,
}

const threeDSurchargeCents int64 = 700

var sessionTypeSurcharge = map[domain.SessionType]int64{
	domain.SessionPreRelease: 1000,
	domain.SessionEvent:      1500,
}

// Percent off the surcharge-adjusted base.
var sessionTypeDiscount = map[domain.SessionType]int64{
	domain.SessionBabySpecial: 50,
	domain.SessionPetSpecial:  30,
	domain.SessionMatinee:     20,
}

var birthdayDiscount = map[domain.RoomClass]int64{
	domain.RoomStandard: 100,
	domain.RoomXD:       50,
	domain.RoomVIP:      25,
	domain.Room4D:       25,
}

const (
	partnerCouponDiscount int64 = 20

	AdvanceReservationFeeCents int64 = 300
	AdvanceReservationLead           = time.Hour
)

var rentalHourlyRate = map[domain.RoomClass]int64{
	domain.RoomStandard: 20000,
	domain.RoomXD:       30000,
	domain.RoomVIP:      50000,
	domain.Room4D:       40000,
}

const BirthdayPackageCents int64 = 15000
