package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/metrics"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

type RentalRequest struct {
	RoomID          int64
	CustomerID      *int64
	Starts          time.Time
	Ends            time.Time
	BirthdayPackage bool
}

// RequestRoomRental books a room privately. The rental starts in the
// requested state with its value computed from the room class rate.
//
// Returns:
//   - error: ErrInvalidWindow or ErrStartInPast for a bad window.
//   - error: ErrRoomNotFound or ErrCustomerNotFound for unknown references.
//   - error: schedule.ConflictError if the room is taken in the window.
func (s *Service) RequestRoomRental(ctx context.Context, req RentalRequest) (*domain.RoomRental, error) {
	const op = "service.booking.RequestRoomRental"

	if !schedule.ValidWindow(req.Starts, req.Ends) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidWindow)
	}

	var rental *domain.RoomRental

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		now := s.cfg.Now()
		if !req.Starts.After(now) {
			return ErrStartInPast
		}

		room, err := r.Rooms().Lock(ctx, req.RoomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		if req.CustomerID != nil {
			if _, err := r.Catalog().Customer(ctx, *req.CustomerID); err != nil {
				return notFound(err, ErrCustomerNotFound)
			}
		}

		if err := checkRoom(ctx, r, room.ID, req.Starts, req.Ends, nil); err != nil {
			return err
		}

		value, err := pricing.RentalValue(room.Class, req.Starts, req.Ends, req.BirthdayPackage)
		if err != nil {
			return err
		}

		rental = &domain.RoomRental{
			ID:              uuid.New(),
			CustomerID:      req.CustomerID,
			RoomID:          room.ID,
			Starts:          req.Starts,
			Ends:            req.Ends,
			Status:          domain.RentalRequested,
			ValueCents:      value,
			BirthdayPackage: req.BirthdayPackage,
			CreatedAt:       now,
		}

		if err := r.Rentals().Create(ctx, rental); err != nil {
			return err
		}

		after(func(context.Context) {
			metrics.Rentals.WithLabelValues(string(domain.RentalRequested)).Inc()
		})

		return nil
	})
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	s.log.Info("room rental requested",
		slog.String("rental_id", rental.ID.String()),
		slog.Int64("room_id", rental.RoomID),
	)

	return rental, nil
}

// RescheduleRental moves a rental to a new window and reprices it.
func (s *Service) RescheduleRental(
	ctx context.Context,
	id uuid.UUID,
	start, end time.Time,
) (*domain.RoomRental, error) {
	const op = "service.booking.RescheduleRental"

	if !schedule.ValidWindow(start, end) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidWindow)
	}

	var rental *domain.RoomRental

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		if !start.After(s.cfg.Now()) {
			return ErrStartInPast
		}

		rr, err := r.Rentals().Get(ctx, id)
		if err != nil {
			return notFound(err, ErrRentalNotFound)
		}

		room, err := r.Rooms().Lock(ctx, rr.RoomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		rr, err = r.Rentals().Lock(ctx, id)
		if err != nil {
			return notFound(err, ErrRentalNotFound)
		}

		if rr.IsCancelled() {
			return ErrRentalCancelled
		}

		self := &schedule.Ref{Kind: schedule.KindRental, ID: rr.ID.String()}
		if err := checkRoom(ctx, r, room.ID, start, end, self); err != nil {
			return err
		}

		value, err := pricing.RentalValue(room.Class, start, end, rr.BirthdayPackage)
		if err != nil {
			return err
		}

		rr.Starts, rr.Ends, rr.ValueCents = start, end, value
		if err := r.Rentals().Update(ctx, rr); err != nil {
			return err
		}

		rental = rr

		return nil
	})
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	return rental, nil
}

// ApproveRental confirms a requested rental. A non-nil value overrides the
// computed price; otherwise the price is recomputed for the current window.
//
// Returns:
//   - error: ErrRentalNotFound if the rental does not exist.
//   - error: ErrRentalCancelled or ErrRentalNotRequested if it cannot be approved.
//   - error: ErrNegativeValue for a negative override.
func (s *Service) ApproveRental(ctx context.Context, id uuid.UUID, valueCents *int64) (*domain.RoomRental, error) {
	const op = "service.booking.ApproveRental"

	if valueCents != nil && *valueCents < 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrNegativeValue)
	}

	var rental *domain.RoomRental

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		rr, err := r.Rentals().Lock(ctx, id)
		if err != nil {
			return notFound(err, ErrRentalNotFound)
		}

		switch rr.Status {
		case domain.RentalCancelled:
			return ErrRentalCancelled
		case domain.RentalApproved:
			return ErrRentalNotRequested
		}

		if valueCents != nil {
			rr.ValueCents = *valueCents
		} else {
			room, err := r.Rooms().Get(ctx, rr.RoomID)
			if err != nil {
				return notFound(err, ErrRoomNotFound)
			}
			v, err := pricing.RentalValue(room.Class, rr.Starts, rr.Ends, rr.BirthdayPackage)
			if err != nil {
				return err
			}
			rr.ValueCents = v
		}

		rr.Status = domain.RentalApproved
		if err := r.Rentals().Update(ctx, rr); err != nil {
			return err
		}

		rental = rr

		after(func(context.Context) {
			metrics.Rentals.WithLabelValues(string(domain.RentalApproved)).Inc()
		})

		return nil
	})
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	return rental, nil
}

// CancelRental cancels a rental outside the cancellation lead before its
// start. Cancelled rentals free the room.
func (s *Service) CancelRental(ctx context.Context, id uuid.UUID) error {
	const op = "service.booking.CancelRental"

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		rr, err := r.Rentals().Lock(ctx, id)
		if err != nil {
			return notFound(err, ErrRentalNotFound)
		}

		if rr.IsCancelled() {
			return ErrRentalCancelled
		}

		if s.cfg.Now().After(rr.Starts.Add(-s.cfg.RentalCancelLead)) {
			return ErrCancellationClosed
		}

		rr.Status = domain.RentalCancelled
		if err := r.Rentals().Update(ctx, rr); err != nil {
			return err
		}

		after(func(context.Context) {
			metrics.Rentals.WithLabelValues(string(domain.RentalCancelled)).Inc()
		})

		return nil
	})

	return translateCommitErr(op, err)
}
