package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const ticketColumns = `id, session_id, customer_id, COALESCE(seat_id, 0), kind, half_reason,
	purchased_at, payment_method, price_cents, paid_cents, change_cents, change_breakdown,
	advance_reservation, advance_fee_cents, points_used, points_earned, status, checked_in_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		t                    domain.Ticket
		kind, method, status string
		breakdown            []byte
	)

	if err := row.Scan(
		&t.ID,
		&t.SessionID,
		&t.CustomerID,
		&t.SeatID,
		&kind,
		&t.HalfReason,
		&t.PurchasedAt,
		&method,
		&t.PriceCents,
		&t.PaidCents,
		&t.ChangeCents,
		&breakdown,
		&t.AdvanceReservation,
		&t.AdvanceFeeCents,
		&t.PointsUsed,
		&t.PointsEarned,
		&status,
		&t.CheckedInAt,
	); err != nil {
		return nil, err
	}

	t.Kind = domain.TicketKind(kind)
	t.PaymentMethod = domain.PaymentMethod(method)
	t.Status = domain.TicketStatus(status)

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &t.ChangeBreakdown); err != nil {
			return nil, fmt.Errorf("decode change breakdown: %w", err)
		}
	}

	return &t, nil
}

// Get retrieves a ticket by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the ticket does not exist.
func (r *TicketRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Get"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

func (r *TicketRepo) Lock(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Lock"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// Create inserts a ticket.
//
// Returns:
//   - error: repository.ErrConflict if an active ticket already holds the seat.
func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.Create"

	breakdown, err := json.Marshal(t.ChangeBreakdown)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if _, err := r.handle().Exec(ctx,
		`INSERT INTO tickets(id, session_id, customer_id, seat_id, kind, half_reason,
			purchased_at, payment_method, price_cents, paid_cents, change_cents, change_breakdown,
			advance_reservation, advance_fee_cents, points_used, points_earned, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		t.ID, t.SessionID, t.CustomerID, t.SeatID, string(t.Kind), t.HalfReason,
		t.PurchasedAt, string(t.PaymentMethod), t.PriceCents, t.PaidCents, t.ChangeCents, breakdown,
		t.AdvanceReservation, t.AdvanceFeeCents, t.PointsUsed, t.PointsEarned, string(t.Status),
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.UpdateStatus"

	tag, err := r.handle().Exec(ctx,
		`UPDATE tickets SET status = $2, checked_in_at = $3 WHERE id = $1`,
		t.ID, string(t.Status), t.CheckedInAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}
