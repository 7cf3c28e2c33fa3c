// Package booking sells and cancels tickets, books rooms for private rentals
// and cleaning crews, and spends loyalty points. Every operation runs in one
// unit of work; a failure at any step leaves no partial state behind.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

// Cache drops cached read models of a session.
type Cache interface {
	InvalidateSession(ctx context.Context, sessionID int64) error
}

// Publisher announces that a session's seat map changed.
type Publisher interface {
	PublishSessionChanged(ctx context.Context, sessionID int64) error
}

type Config struct {
	// Now is the service clock. Business deadlines are checked against it.
	Now func() time.Time

	TicketCancelLead time.Duration
	RentalCancelLead time.Duration
}

type Service struct {
	uow    repository.UnitOfWork
	cache  Cache
	pubsub Publisher
	log    *slog.Logger
	cfg    Config
}

func New(
	uow repository.UnitOfWork,
	cache Cache,
	pubsub Publisher,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.TicketCancelLead <= 0 {
		cfg.TicketCancelLead = 24 * time.Hour
	}

	if cfg.RentalCancelLead <= 0 {
		cfg.RentalCancelLead = 24 * time.Hour
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		uow:    uow,
		cache:  cache,
		pubsub: pubsub,
		log:    logger,
		cfg:    cfg,
	}
}

// sessionChanged registers the post-commit fan-out for a session whose seat
// map changed. Cache and pub/sub failures are logged, never returned: the
// booking itself is already committed.
func (s *Service) sessionChanged(after func(repository.AfterCommit), sessionID int64) {
	after(func(ctx context.Context) {
		if s.cache != nil {
			if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
				s.log.Warn("invalidate session cache", slog.Int64("session_id", sessionID), slog.Any("err", err))
			}
		}
		if s.pubsub != nil {
			if err := s.pubsub.PublishSessionChanged(ctx, sessionID); err != nil {
				s.log.Warn("publish session changed", slog.Int64("session_id", sessionID), slog.Any("err", err))
			}
		}
	})
}

// checkRoom returns a ConflictError when [start, end) overlaps any booking of
// the room other than self. The room row must already be locked.
func checkRoom(
	ctx context.Context,
	r repository.Repos,
	roomID int64,
	start, end time.Time,
	self *schedule.Ref,
) error {
	timeline, err := r.Rooms().Timeline(ctx, roomID, start, end)
	if err != nil {
		return err
	}

	if slot, ok := timeline.FirstConflict(roomID, start, end, self); ok {
		return schedule.ConflictError{With: slot}
	}

	return nil
}

// notFound maps a repository miss to the service sentinel and passes every
// other error through.
func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

// translateCommitErr maps errors the unit of work raises itself.
func translateCommitErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%s:%w", op, ErrConcurrentUpdate)
	}
	return fmt.Errorf("%s:%w", op, err)
}
