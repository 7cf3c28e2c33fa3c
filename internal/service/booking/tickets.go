package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/change"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/loyalty"
	"github.com/kirinyoku/cinebook/internal/metrics"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/seating"
)

// SaleRequest describes one seat sale at the box office.
type SaleRequest struct {
	SessionID          int64
	CustomerID         int64
	Row                string
	Number             int
	PaymentMethod      domain.PaymentMethod
	PaidCents          int64
	Coupon             string
	AdvanceReservation bool
	PointsToRedeem     int64
}

// SellFullTicket sells a seat at the full pipeline price.
//
// Returns:
//   - error: ErrSessionNotFound, ErrCustomerNotFound or a seat lookup error wrapping domain.ErrNotFound.
//   - error: ErrSeatUnavailable, ErrAgeRestricted, ErrSessionStarted or a pricing error wrapping domain.ErrForbidden.
//   - error: ErrIncompleteSession if the session lost its room or film.
func (s *Service) SellFullTicket(ctx context.Context, req SaleRequest) (*domain.Ticket, error) {
	const op = "service.booking.SellFullTicket"

	t, err := s.sell(ctx, req, domain.TicketFull, "")
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	return t, nil
}

// SellHalfTicket sells a seat at half the full pipeline price. The reason
// (student, senior, ...) is mandatory.
func (s *Service) SellHalfTicket(ctx context.Context, req SaleRequest, reason string) (*domain.Ticket, error) {
	const op = "service.booking.SellHalfTicket"

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrHalfReasonRequired)
	}

	t, err := s.sell(ctx, req, domain.TicketHalf, reason)
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	return t, nil
}

func (s *Service) sell(
	ctx context.Context,
	req SaleRequest,
	kind domain.TicketKind,
	halfReason string,
) (*domain.Ticket, error) {
	if !req.PaymentMethod.Valid() || req.PaidCents < 0 {
		return nil, ErrInvalidPayment
	}

	if req.PointsToRedeem < 0 {
		return nil, fmt.Errorf("%w: negative points", domain.ErrInvalidInput)
	}

	var ticket *domain.Ticket

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		now := s.cfg.Now()

		details, err := r.Sessions().Details(ctx, req.SessionID)
		if err != nil {
			return notFound(err, ErrSessionNotFound)
		}

		if details.Room == nil || details.Film == nil {
			return s.critical(details.Session.ID, ErrIncompleteSession)
		}

		session := details.Session
		if !now.Before(session.Starts) {
			return ErrSessionStarted
		}

		customer, err := r.Catalog().LockCustomer(ctx, req.CustomerID)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}

		if customer.AgeAt(now) < details.Film.MinimumAge {
			return ErrAgeRestricted
		}

		seats, err := r.Sessions().SeatMap(ctx, session.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		seat, err := seating.FindSeat(seats, req.Row, req.Number)
		if err != nil {
			return err
		}

		if !seat.Available {
			return ErrSeatUnavailable
		}

		if err := r.Sessions().ReserveSeat(ctx, session.ID, seat.ID); err != nil {
			if errors.Is(err, repository.ErrSeatsUnavailable) {
				return ErrSeatUnavailable
			}
			return err
		}
		seating.Reserve(&seat)

		breakdown, err := pricing.Charge(pricing.ChargeInput{
			Session:            session,
			RoomClass:          details.Room.Class,
			Seat:               seat,
			Customer:           customer,
			Coupon:             req.Coupon,
			PointsToRedeem:     req.PointsToRedeem,
			AdvanceReservation: req.AdvanceReservation,
			Now:                now,
		})
		if err != nil {
			if errors.Is(err, domain.ErrCriticalInconsistency) {
				return s.critical(session.ID, err)
			}
			return err
		}

		price := kind.ChargeFor(breakdown.TotalCents)

		paid, err := change.ForMethod(req.PaymentMethod, price, req.PaidCents)
		if err != nil {
			return err
		}

		earned := loyalty.EarnedFor(price)
		loyalty.AddPoints(customer, earned)

		if err := r.Catalog().SaveCustomerPoints(ctx, customer); err != nil {
			return err
		}

		ticket = &domain.Ticket{
			ID:                 uuid.New(),
			SessionID:          session.ID,
			CustomerID:         customer.ID,
			SeatID:             seat.ID,
			Kind:               kind,
			HalfReason:         halfReason,
			PurchasedAt:        now,
			PaymentMethod:      req.PaymentMethod,
			PriceCents:         price,
			PaidCents:          paid.PaidCents,
			ChangeCents:        paid.ChangeCents,
			ChangeBreakdown:    paid.Counts,
			AdvanceReservation: req.AdvanceReservation,
			AdvanceFeeCents:    breakdown.AdvanceFeeCents,
			PointsUsed:         breakdown.PointsUsed,
			PointsEarned:       earned,
			Status:             domain.TicketSold,
		}

		if err := r.Tickets().Create(ctx, ticket); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrSeatUnavailable
			}
			return err
		}

		s.sessionChanged(after, session.ID)
		after(func(context.Context) {
			metrics.TicketsSold.WithLabelValues(string(kind)).Inc()
			metrics.TicketRevenueCents.Add(float64(price))
			if ticket.PointsUsed > 0 {
				metrics.PointsRedeemed.WithLabelValues("ticket").Add(float64(ticket.PointsUsed))
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket sold",
		slog.String("ticket_id", ticket.ID.String()),
		slog.Int64("session_id", ticket.SessionID),
		slog.Int64("price_cents", ticket.PriceCents),
	)

	return ticket, nil
}

// CancelTicket cancels a sold ticket while the cancellation window is open
// and frees its seat. Points earned on the sale are taken back and points
// spent on it are refunded.
//
// Returns:
//   - error: ErrTicketNotFound if the ticket does not exist.
//   - error: ErrCancellationClosed if the session starts within the cancellation lead.
//   - error: ErrTicketCancelled or ErrAlreadyCheckedIn for tickets no longer sold.
func (s *Service) CancelTicket(ctx context.Context, ticketID uuid.UUID) error {
	const op = "service.booking.CancelTicket"

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		t, err := r.Tickets().Lock(ctx, ticketID)
		if err != nil {
			return notFound(err, ErrTicketNotFound)
		}

		switch t.Status {
		case domain.TicketCancelled:
			return ErrTicketCancelled
		case domain.TicketCheckedIn:
			return ErrAlreadyCheckedIn
		}

		session, err := r.Sessions().Get(ctx, t.SessionID)
		if err != nil {
			return notFound(err, ErrSessionNotFound)
		}

		if s.cfg.Now().After(session.Starts.Add(-s.cfg.TicketCancelLead)) {
			return ErrCancellationClosed
		}

		if t.SeatID != 0 {
			if err := r.Sessions().ReleaseSeat(ctx, t.SessionID, t.SeatID); err != nil {
				return err
			}
		}

		customer, err := r.Catalog().LockCustomer(ctx, t.CustomerID)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}

		loyalty.Revoke(customer, t.PointsEarned)
		loyalty.AddPoints(customer, t.PointsUsed)

		if err := r.Catalog().SaveCustomerPoints(ctx, customer); err != nil {
			return err
		}

		t.Status = domain.TicketCancelled
		if err := r.Tickets().UpdateStatus(ctx, t); err != nil {
			return err
		}

		s.sessionChanged(after, t.SessionID)
		after(func(context.Context) {
			metrics.TicketTransitions.WithLabelValues(string(domain.TicketCancelled)).Inc()
		})

		return nil
	})

	return translateCommitErr(op, err)
}

// CheckIn admits the ticket holder. It is allowed once, before the session
// starts, and grants the check-in loyalty bonus.
func (s *Service) CheckIn(ctx context.Context, ticketID uuid.UUID) error {
	const op = "service.booking.CheckIn"

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		t, err := r.Tickets().Lock(ctx, ticketID)
		if err != nil {
			return notFound(err, ErrTicketNotFound)
		}

		switch t.Status {
		case domain.TicketCancelled:
			return ErrTicketCancelled
		case domain.TicketCheckedIn:
			return ErrAlreadyCheckedIn
		}

		session, err := r.Sessions().Get(ctx, t.SessionID)
		if err != nil {
			return notFound(err, ErrSessionNotFound)
		}

		now := s.cfg.Now()
		if !now.Before(session.Starts) {
			return ErrSessionStarted
		}

		customer, err := r.Catalog().LockCustomer(ctx, t.CustomerID)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}

		loyalty.AddPoints(customer, loyalty.CheckInBonus)
		if err := r.Catalog().SaveCustomerPoints(ctx, customer); err != nil {
			return err
		}

		t.Status = domain.TicketCheckedIn
		t.CheckedInAt = &now
		if err := r.Tickets().UpdateStatus(ctx, t); err != nil {
			return err
		}

		after(func(context.Context) {
			metrics.TicketTransitions.WithLabelValues(string(domain.TicketCheckedIn)).Inc()
		})

		return nil
	})

	return translateCommitErr(op, err)
}

// critical records a data corruption signal before surfacing it.
func (s *Service) critical(sessionID int64, err error) error {
	metrics.CriticalInconsistencies.Inc()
	s.log.Error("critical inconsistency on sale path",
		slog.Int64("session_id", sessionID),
		slog.Any("err", err),
	)
	return err
}
