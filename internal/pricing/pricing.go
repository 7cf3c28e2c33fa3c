// Package pricing turns a session's base price into the amount charged for
// one ticket.
//
// Session-level surcharges and discounts are folded into the session's final
// price once, when the session is scheduled. The per-ticket pipeline then
// applies seat, birthday, partner coupon, loyalty and advance reservation
// adjustments in a fixed order: every percentage applies to the amount
// produced by the steps before it, and every discount is floored at zero.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/loyalty"
	"github.com/kirinyoku/cinebook/internal/seating"
)

var (
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient loyalty points", domain.ErrForbidden)
	ErrAdvanceTooLate     = fmt.Errorf("%w: too late for advance reservation", domain.ErrForbidden)
)

type SessionInput struct {
	BaseCents int64
	RoomClass domain.RoomClass
	Is3D      bool
	Type      domain.SessionType
}

// SessionPrice computes a session's final price.
func SessionPrice(in SessionInput) (int64, error) {
	const op = "pricing.SessionPrice"

	if in.BaseCents < 0 {
		return 0, fmt.Errorf("%s: %w: negative base price", op, domain.ErrInvalidInput)
	}

	surcharge, ok := roomClassSurcharge[in.RoomClass]
	if !ok {
		return 0, fmt.Errorf("%s: %w: unknown room class %q", op, domain.ErrInvalidInput, in.RoomClass)
	}

	if !in.Type.Valid() {
		return 0, fmt.Errorf("%s: %w: unknown session type %q", op, domain.ErrInvalidInput, in.Type)
	}

	price := in.BaseCents + surcharge
	if in.Is3D {
		price += threeDSurchargeCents
	}

	price += sessionTypeSurcharge[in.Type]
	if pct, ok := sessionTypeDiscount[in.Type]; ok {
		price = percentOff(price, pct)
	}

	return price, nil
}

type Step struct {
	Name        string
	AmountCents int64
}

// Breakdown records what each pipeline step did to the price.
type Breakdown struct {
	Steps           []Step
	TotalCents      int64
	PointsUsed      int64
	AdvanceFeeCents int64
}

func (b *Breakdown) apply(name string, next int64) {
	if next < 0 {
		next = 0
	}
	if delta := next - b.TotalCents; delta != 0 {
		b.Steps = append(b.Steps, Step{Name: name, AmountCents: delta})
	}
	b.TotalCents = next
}

// ChargeInput carries everything the pipeline reads. Customer is debited in
// place when points are redeemed.
type ChargeInput struct {
	Session            domain.Session
	RoomClass          domain.RoomClass
	Seat               domain.Seat
	Customer           *domain.Customer
	Coupon             string
	PointsToRedeem     int64
	AdvanceReservation bool
	Now                time.Time
}

// Charge runs the full-price pipeline for one ticket.
func Charge(in ChargeInput) (Breakdown, error) {
	const op = "pricing.Charge"

	if in.Session.FinalPriceCents < 0 {
		return Breakdown{}, fmt.Errorf("%s: %w: negative session price", op, domain.ErrCriticalInconsistency)
	}

	if in.PointsToRedeem < 0 {
		return Breakdown{}, fmt.Errorf("%s: %w: negative points", op, domain.ErrInvalidInput)
	}

	b := Breakdown{TotalCents: in.Session.FinalPriceCents}
	b.Steps = append(b.Steps, Step{Name: "session", AmountCents: in.Session.FinalPriceCents})

	b.apply("seat", b.TotalCents+seating.Surcharge(in.Seat))

	if in.Customer != nil && in.Customer.HasBirthdayMonth(in.Now) {
		b.apply("birthday", percentOff(b.TotalCents, birthdayDiscount[in.RoomClass]))
	}

	if CouponMatches(in.Session.PartnerName, in.Coupon) {
		b.apply("coupon", percentOff(b.TotalCents, partnerCouponDiscount))
	}

	if in.PointsToRedeem > 0 {
		if in.Customer == nil || !loyalty.TryRedeemPoints(in.Customer, in.PointsToRedeem) {
			return Breakdown{}, fmt.Errorf("%s:%w", op, ErrInsufficientPoints)
		}
		b.PointsUsed = in.PointsToRedeem
		b.apply("points", b.TotalCents-loyalty.DiscountFor(in.PointsToRedeem))
	}

	if in.AdvanceReservation {
		if !in.Session.Starts.After(in.Now.Add(AdvanceReservationLead)) {
			return Breakdown{}, fmt.Errorf("%s:%w", op, ErrAdvanceTooLate)
		}
		b.AdvanceFeeCents = AdvanceReservationFeeCents
		b.apply("advance_reservation", b.TotalCents+AdvanceReservationFeeCents)
	}

	return b, nil
}

// CouponMatches compares a coupon against the session partner,
// ignoring case. Sessions without a partner accept no coupon.
func CouponMatches(partner, coupon string) bool {
	partner = strings.TrimSpace(partner)
	return partner != "" && strings.EqualFold(partner, strings.TrimSpace(coupon))
}

// percentOff subtracts pct% of cents, rounding the discount half-up and
// flooring the result at zero.
func percentOff(cents, pct int64) int64 {
	off := (cents*pct + 50) / 100
	if off >= cents {
		return 0
	}
	return cents - off
}
