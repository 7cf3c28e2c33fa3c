package booking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/change"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSellFullTicket_BirthdayInVIPCoupleSeat(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	require.EqualValues(t, 6200, session.FinalPriceCents)

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.birthday.ID,
		Row:           "c",
		Number:        7,
		PaymentMethod: domain.PayCash,
		PaidCents:     6000,
	})
	require.NoError(t, err)

	// (62.00 + 10.00 couple) with 25% VIP birthday discount.
	assert.EqualValues(t, 5400, ticket.PriceCents)
	assert.EqualValues(t, 600, ticket.ChangeCents)
	assert.Equal(t, map[int64]int{500: 1, 100: 1}, ticket.ChangeBreakdown)
	assert.EqualValues(t, 600, change.Sum(ticket.ChangeBreakdown))
	assert.EqualValues(t, 54, ticket.PointsEarned)
	assert.Equal(t, domain.TicketSold, ticket.Status)
	assert.Equal(t, domain.TicketFull, ticket.Kind)

	assert.EqualValues(t, 54, f.customer(t, f.birthday.ID).Points)
	assert.False(t, f.seat(t, session.ID, "C", 7).Available)
	assert.Equal(t, []int64{session.ID}, f.events.invalidated)
	assert.Equal(t, []int64{session.ID}, f.events.published)
}

func TestSellFullTicket_SeatCannotBeSoldTwice(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))

	req := SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "B",
		Number:        4,
		PaymentMethod: domain.PayCredit,
	}

	_, err := f.svc.SellFullTicket(context.Background(), req)
	require.NoError(t, err)

	req.CustomerID = f.birthday.ID
	_, err = f.svc.SellFullTicket(context.Background(), req)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSellFullTicket_ConcurrentBuyersOneSeat(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))

	const buyers = 16

	var sold, rejected atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < buyers; i++ {
		customerID := f.regular.ID
		if i%2 == 1 {
			customerID = f.birthday.ID
		}
		g.Go(func() error {
			_, err := f.svc.SellFullTicket(ctx, SaleRequest{
				SessionID:     session.ID,
				CustomerID:    customerID,
				Row:           "B",
				Number:        6,
				PaymentMethod: domain.PayDebit,
			})
			switch {
			case err == nil:
				sold.Add(1)
			case errors.Is(err, ErrSeatUnavailable):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, sold.Load())
	assert.EqualValues(t, buyers-1, rejected.Load())

	n, err := f.store.Repos().Sessions().ActiveTickets(context.Background(), session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.False(t, f.seat(t, session.ID, "B", 6).Available)
}

func TestSellFullTicket_InsufficientPointsRollsBack(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	poor := f.store.AddCustomer(domain.Customer{
		Name:      "Caio",
		BirthDate: time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC),
		Points:    40,
	})

	_, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:      session.ID,
		CustomerID:     poor.ID,
		Row:            "A",
		Number:         5,
		PaymentMethod:  domain.PayDebit,
		PointsToRedeem: 50,
	})
	require.ErrorIs(t, err, pricing.ErrInsufficientPoints)

	assert.EqualValues(t, 40, f.customer(t, poor.ID).Points)
	assert.True(t, f.seat(t, session.ID, "A", 5).Available)
	assert.Empty(t, f.events.invalidated)
}

func TestSellFullTicket_PointsNetAgainstDiscountedPrice(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	rich := f.store.AddCustomer(domain.Customer{
		Name:      "Duda",
		BirthDate: time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC),
		Points:    100,
	})

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:      session.ID,
		CustomerID:     rich.ID,
		Row:            "A",
		Number:         5,
		PaymentMethod:  domain.PayPix,
		PointsToRedeem: 100,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 5200, ticket.PriceCents)
	assert.EqualValues(t, 100, ticket.PointsUsed)
	assert.EqualValues(t, 52, ticket.PointsEarned)
	assert.EqualValues(t, 52, f.customer(t, rich.ID).Points)
}

func TestSellFullTicket_Validation(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))

	base := SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        3,
		PaymentMethod: domain.PayCash,
		PaidCents:     10000,
	}

	tests := []struct {
		name    string
		mutate  func(*SaleRequest)
		wantErr error
	}{
		{"unknown session", func(r *SaleRequest) { r.SessionID = 999 }, ErrSessionNotFound},
		{"unknown customer", func(r *SaleRequest) { r.CustomerID = 999 }, ErrCustomerNotFound},
		{"unknown seat", func(r *SaleRequest) { r.Row, r.Number = "Z", 1 }, domain.ErrNotFound},
		{"bad seat coordinates", func(r *SaleRequest) { r.Number = 0 }, domain.ErrInvalidInput},
		{"bad payment method", func(r *SaleRequest) { r.PaymentMethod = "cheque" }, ErrInvalidPayment},
		{"underpaid cash", func(r *SaleRequest) { r.PaidCents = 100 }, domain.ErrInvalidInput},
		{"negative points", func(r *SaleRequest) { r.PointsToRedeem = -1 }, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)

			_, err := f.svc.SellFullTicket(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.True(t, f.seat(t, session.ID, "A", 3).Available)
}

func TestSellFullTicket_AgeGate(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	kid := f.store.AddCustomer(domain.Customer{
		Name:      "Theo",
		BirthDate: time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC),
	})

	_, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    kid.ID,
		Row:           "A",
		Number:        1,
		PaymentMethod: domain.PayPix,
	})
	assert.ErrorIs(t, err, ErrAgeRestricted)
}

func TestSellFullTicket_SessionWithoutFilmIsCritical(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	f.store.DeleteFilm(f.film.ID)

	_, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        1,
		PaymentMethod: domain.PayPix,
	})
	assert.ErrorIs(t, err, ErrIncompleteSession)
	assert.ErrorIs(t, err, domain.ErrCriticalInconsistency)
}

func TestSellFullTicket_AfterStartIsForbidden(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(time.Hour))
	f.clock.Set(session.Starts)

	_, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        1,
		PaymentMethod: domain.PayPix,
	})
	assert.ErrorIs(t, err, ErrSessionStarted)
}

func TestSellFullTicket_AdvanceReservation(t *testing.T) {
	f := newFixture(t)
	soon := f.addSession(t, baseNow.Add(30*time.Minute))
	later := f.addSession(t, baseNow.Add(5*time.Hour))

	req := SaleRequest{
		CustomerID:         f.regular.ID,
		Row:                "B",
		Number:             1,
		PaymentMethod:      domain.PayPix,
		AdvanceReservation: true,
	}

	req.SessionID = soon.ID
	_, err := f.svc.SellFullTicket(context.Background(), req)
	assert.ErrorIs(t, err, pricing.ErrAdvanceTooLate)
	assert.True(t, f.seat(t, soon.ID, "B", 1).Available)

	req.SessionID = later.ID
	ticket, err := f.svc.SellFullTicket(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 6500, ticket.PriceCents)
	assert.EqualValues(t, pricing.AdvanceReservationFeeCents, ticket.AdvanceFeeCents)
}

func TestSellHalfTicket(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))

	req := SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        3,
		PaymentMethod: domain.PayPix,
		PaidCents:     1,
	}

	_, err := f.svc.SellHalfTicket(context.Background(), req, "   ")
	require.ErrorIs(t, err, ErrHalfReasonRequired)

	ticket, err := f.svc.SellHalfTicket(context.Background(), req, "student")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketHalf, ticket.Kind)
	assert.Equal(t, "student", ticket.HalfReason)
	assert.EqualValues(t, 3100, ticket.PriceCents)
	assert.EqualValues(t, 3100, ticket.PaidCents)
	assert.Zero(t, ticket.ChangeCents)
	assert.Empty(t, ticket.ChangeBreakdown)
	assert.EqualValues(t, 31, ticket.PointsEarned)
}

func TestCancelTicket_Window(t *testing.T) {
	f := newFixture(t)
	near := f.addSession(t, baseNow.Add(12*time.Hour))
	far := f.addSession(t, baseNow.Add(30*time.Hour))

	sell := func(sessionID int64) *domain.Ticket {
		t.Helper()
		ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
			SessionID:     sessionID,
			CustomerID:    f.regular.ID,
			Row:           "B",
			Number:        2,
			PaymentMethod: domain.PayCredit,
		})
		require.NoError(t, err)
		return ticket
	}

	nearTicket := sell(near.ID)
	farTicket := sell(far.ID)
	require.EqualValues(t, 124, f.customer(t, f.regular.ID).Points)

	err := f.svc.CancelTicket(context.Background(), nearTicket.ID)
	assert.ErrorIs(t, err, ErrCancellationClosed)
	assert.False(t, f.seat(t, near.ID, "B", 2).Available)

	require.NoError(t, f.svc.CancelTicket(context.Background(), farTicket.ID))
	assert.True(t, f.seat(t, far.ID, "B", 2).Available)
	assert.EqualValues(t, 62, f.customer(t, f.regular.ID).Points)

	got, err := f.store.Repos().Tickets().Get(context.Background(), farTicket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, got.Status)

	err = f.svc.CancelTicket(context.Background(), farTicket.ID)
	assert.ErrorIs(t, err, ErrTicketCancelled)

	// The freed seat can be sold again.
	sell(far.ID)
}

func TestCancelTicket_ExactlyAtLeadSucceeds(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(25*time.Hour))

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        9,
		PaymentMethod: domain.PayPix,
	})
	require.NoError(t, err)

	f.clock.Set(session.Starts.Add(-24 * time.Hour))
	assert.NoError(t, f.svc.CancelTicket(context.Background(), ticket.ID))
}

func TestCancelTicket_RefundsRedeemedPoints(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(48*time.Hour))
	c := f.store.AddCustomer(domain.Customer{
		Name:      "Eva",
		BirthDate: time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC),
		Points:    30,
	})

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:      session.ID,
		CustomerID:     c.ID,
		Row:            "A",
		Number:         4,
		PaymentMethod:  domain.PayPix,
		PointsToRedeem: 30,
	})
	require.NoError(t, err)
	require.EqualValues(t, 59, f.customer(t, c.ID).Points)

	require.NoError(t, f.svc.CancelTicket(context.Background(), ticket.ID))
	assert.EqualValues(t, 30, f.customer(t, c.ID).Points)
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(2*time.Hour))

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        6,
		PaymentMethod: domain.PayDebit,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.CheckIn(context.Background(), ticket.ID))
	assert.EqualValues(t, 62+5, f.customer(t, f.regular.ID).Points)

	got, err := f.store.Repos().Tickets().Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCheckedIn, got.Status)
	require.NotNil(t, got.CheckedInAt)
	assert.Equal(t, baseNow, *got.CheckedInAt)

	err = f.svc.CheckIn(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	err = f.svc.CancelTicket(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	err = f.svc.CheckIn(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckIn_AfterStartIsForbidden(t *testing.T) {
	f := newFixture(t)
	session := f.addSession(t, baseNow.Add(2*time.Hour))

	ticket, err := f.svc.SellFullTicket(context.Background(), SaleRequest{
		SessionID:     session.ID,
		CustomerID:    f.regular.ID,
		Row:           "A",
		Number:        6,
		PaymentMethod: domain.PayDebit,
	})
	require.NoError(t, err)

	f.clock.Set(session.Starts.Add(time.Minute))
	assert.ErrorIs(t, f.svc.CheckIn(context.Background(), ticket.ID), ErrSessionStarted)
}
