package httpgin

import (
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/service/booking"
)

type SellTicketRequest struct {
	CustomerID         int64  `json:"customer_id" binding:"required"`
	Row                string `json:"row" binding:"required"`
	Number             int    `json:"number" binding:"required,gt=0"`
	PaymentMethod      string `json:"payment_method" binding:"required"`
	PaidCents          int64  `json:"paid_cents" binding:"gte=0"`
	Coupon             string `json:"coupon"`
	AdvanceReservation bool   `json:"advance_reservation"`
	PointsToRedeem     int64  `json:"points_to_redeem" binding:"gte=0"`
	Half               bool   `json:"half"`
	HalfReason         string `json:"half_reason"`
}

type RentalRequest struct {
	RoomID          int64  `json:"room_id" binding:"required"`
	CustomerID      *int64 `json:"customer_id"`
	StartsAt        string `json:"starts_at" binding:"required"`
	EndsAt          string `json:"ends_at" binding:"required"`
	BirthdayPackage bool   `json:"birthday_package"`
}

type RescheduleRequest struct {
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
}

type ApproveRentalRequest struct {
	ValueCents *int64 `json:"value_cents"`
}

type CleaningRequest struct {
	RoomID     int64  `json:"room_id" binding:"required"`
	EmployeeID int64  `json:"employee_id" binding:"required"`
	StartsAt   string `json:"starts_at" binding:"required"`
	EndsAt     string `json:"ends_at" binding:"required"`
}

type RedemptionRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type SessionRequest struct {
	RoomID         int64  `json:"room_id"`
	FilmID         int64  `json:"film_id" binding:"required"`
	StartsAt       string `json:"starts_at" binding:"required"`
	BasePriceCents int64  `json:"base_price_cents" binding:"gte=0"`
	Type           string `json:"type" binding:"required"`
	EventName      string `json:"event_name"`
	PartnerName    string `json:"partner_name"`
	Language       string `json:"language"`
}

type RegenerateSeatsRequest struct {
	Capacity        int `json:"capacity" binding:"required,gt=0"`
	CoupleSeats     int `json:"couple_seats" binding:"gte=0"`
	AccessibleSeats int `json:"accessible_seats" binding:"gte=0"`
}

type PreferentialRequest struct {
	Preferential bool `json:"preferential"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type TicketResponse struct {
	ID                 string        `json:"id"`
	SessionID          int64         `json:"session_id"`
	CustomerID         int64         `json:"customer_id"`
	SeatID             int64         `json:"seat_id,omitempty"`
	Kind               string        `json:"kind"`
	HalfReason         string        `json:"half_reason,omitempty"`
	PurchasedAt        time.Time     `json:"purchased_at"`
	PaymentMethod      string        `json:"payment_method"`
	PriceCents         int64         `json:"price_cents"`
	PaidCents          int64         `json:"paid_cents"`
	ChangeCents        int64         `json:"change_cents"`
	ChangeBreakdown    map[int64]int `json:"change_breakdown,omitempty"`
	AdvanceReservation bool          `json:"advance_reservation"`
	AdvanceFeeCents    int64         `json:"advance_fee_cents"`
	PointsUsed         int64         `json:"points_used"`
	PointsEarned       int64         `json:"points_earned"`
	Status             string        `json:"status"`
	CheckedInAt        *time.Time    `json:"checked_in_at,omitempty"`
}

type SeatResponse struct {
	ID           int64  `json:"id"`
	Label        string `json:"label"`
	Row          string `json:"row"`
	Number       int    `json:"number"`
	Class        string `json:"class"`
	SeatCount    int    `json:"seat_count"`
	Preferential bool   `json:"preferential"`
	Available    bool   `json:"available"`
}

type AvailabilityResponse struct {
	Available int64 `json:"available"`
	Taken     int64 `json:"taken"`
	Total     int64 `json:"total"`
}

type RentalResponse struct {
	ID              string    `json:"id"`
	RoomID          int64     `json:"room_id"`
	CustomerID      *int64    `json:"customer_id,omitempty"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Status          string    `json:"status"`
	ValueCents      int64     `json:"value_cents"`
	BirthdayPackage bool      `json:"birthday_package"`
}

type CleaningResponse struct {
	ID         string    `json:"id"`
	RoomID     int64     `json:"room_id"`
	EmployeeID int64     `json:"employee_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
}

type RedemptionResponse struct {
	CustomerID    int64 `json:"customer_id"`
	ProductID     int64 `json:"product_id"`
	Quantity      int   `json:"quantity"`
	PointsSpent   int64 `json:"points_spent"`
	PointsBalance int64 `json:"points_balance"`
}

type SessionResponse struct {
	ID              int64     `json:"id"`
	RoomID          int64     `json:"room_id"`
	FilmID          int64     `json:"film_id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	BasePriceCents  int64     `json:"base_price_cents"`
	FinalPriceCents int64     `json:"final_price_cents"`
	Type            string    `json:"type"`
	EventName       string    `json:"event_name,omitempty"`
	PartnerName     string    `json:"partner_name,omitempty"`
	Language        string    `json:"language,omitempty"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseWindow(start, end string) (time.Time, time.Time, string) {
	s, err := parseRFC3339(start)
	if err != nil {
		return time.Time{}, time.Time{}, "invalid starts_at (RFC3339)"
	}
	e, err := parseRFC3339(end)
	if err != nil {
		return time.Time{}, time.Time{}, "invalid ends_at (RFC3339)"
	}
	return s, e, ""
}

func toTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 t.ID.String(),
		SessionID:          t.SessionID,
		CustomerID:         t.CustomerID,
		SeatID:             t.SeatID,
		Kind:               string(t.Kind),
		HalfReason:         t.HalfReason,
		PurchasedAt:        t.PurchasedAt,
		PaymentMethod:      string(t.PaymentMethod),
		PriceCents:         t.PriceCents,
		PaidCents:          t.PaidCents,
		ChangeCents:        t.ChangeCents,
		ChangeBreakdown:    t.ChangeBreakdown,
		AdvanceReservation: t.AdvanceReservation,
		AdvanceFeeCents:    t.AdvanceFeeCents,
		PointsUsed:         t.PointsUsed,
		PointsEarned:       t.PointsEarned,
		Status:             string(t.Status),
		CheckedInAt:        t.CheckedInAt,
	}
}

func toSeatResponses(seats []domain.Seat) []SeatResponse {
	out := make([]SeatResponse, len(seats))
	for i, s := range seats {
		out[i] = toSeatResponse(s)
	}
	return out
}

func toSeatResponse(s domain.Seat) SeatResponse {
	return SeatResponse{
		ID:           s.ID,
		Label:        s.Label(),
		Row:          s.Row,
		Number:       s.Number,
		Class:        string(s.Class),
		SeatCount:    s.SeatCount,
		Preferential: s.Preferential,
		Available:    s.Available,
	}
}

func toRentalResponse(r *domain.RoomRental) RentalResponse {
	return RentalResponse{
		ID:              r.ID.String(),
		RoomID:          r.RoomID,
		CustomerID:      r.CustomerID,
		StartsAt:        r.Starts,
		EndsAt:          r.Ends,
		Status:          string(r.Status),
		ValueCents:      r.ValueCents,
		BirthdayPackage: r.BirthdayPackage,
	}
}

func toCleaningResponse(c *domain.CleaningAssignment) CleaningResponse {
	return CleaningResponse{
		ID:         c.ID.String(),
		RoomID:     c.RoomID,
		EmployeeID: c.EmployeeID,
		StartsAt:   c.Starts,
		EndsAt:     c.Ends,
		Status:     string(c.Status),
	}
}

func toRedemptionResponse(r *booking.Redemption) RedemptionResponse {
	return RedemptionResponse{
		CustomerID:    r.CustomerID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		PointsSpent:   r.PointsSpent,
		PointsBalance: r.PointsBalance,
	}
}

func toSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		RoomID:          s.RoomID,
		FilmID:          s.FilmID,
		StartsAt:        s.Starts,
		EndsAt:          s.Ends,
		BasePriceCents:  s.BasePriceCents,
		FinalPriceCents: s.FinalPriceCents,
		Type:            string(s.Type),
		EventName:       s.EventName,
		PartnerName:     s.PartnerName,
		Language:        s.Language,
	}
}
