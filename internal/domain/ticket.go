package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketKind string

const (
	TicketFull TicketKind = "full"
	TicketHalf TicketKind = "half"
)

type TicketStatus string

const (
	TicketSold      TicketStatus = "sold"
	TicketCheckedIn TicketStatus = "checked_in"
	TicketCancelled TicketStatus = "cancelled"
)

type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayCredit PaymentMethod = "credit"
	PayDebit  PaymentMethod = "debit"
	PayPix    PaymentMethod = "pix"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCredit, PayDebit, PayPix:
		return true
	}
	return false
}

type Ticket struct {
	ID                 uuid.UUID
	SessionID          int64
	CustomerID         int64
	SeatID             int64
	Kind               TicketKind
	HalfReason         string
	PurchasedAt        time.Time
	PaymentMethod      PaymentMethod
	PriceCents         int64
	PaidCents          int64
	ChangeCents        int64
	ChangeBreakdown    map[int64]int
	AdvanceReservation bool
	AdvanceFeeCents    int64
	PointsUsed         int64
	PointsEarned       int64
	Status             TicketStatus
	CheckedInAt        *time.Time
}

// Active reports whether the ticket still holds its seat.
func (t *Ticket) Active() bool {
	return t.Status != TicketCancelled
}

// ChargeFor resolves the ticket variant against the fully adjusted full
// price. Half tickets round half-up to the cent.
func (k TicketKind) ChargeFor(fullCents int64) int64 {
	switch k {
	case TicketHalf:
		return (fullCents + 1) / 2
	default:
		return fullCents
	}
}
