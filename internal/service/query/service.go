package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	redisx "github.com/kirinyoku/cinebook/internal/redis"
	"github.com/kirinyoku/cinebook/internal/repository"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/seating"
)

type Config struct {
	SessionSummaryTTL time.Duration
	AvailabilityTTL   time.Duration
	CacheSeatMap      bool
	SeatMapTTL        time.Duration
}

// Service serves the read side outside any unit of work. Writers invalidate
// the cached views after commit.
type Service struct {
	repos repository.Repos
	cache *redisrepo.Cache
	cfg   Config
}

// New builds the query service. A nil cache reads straight from repos.
func New(repos repository.Repos, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.SessionSummaryTTL <= 0 {
		cfg.SessionSummaryTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 15 * time.Second
	}

	return &Service{
		repos: repos,
		cache: cache,
		cfg:   cfg,
	}
}

// Session returns the session joined with its room and film.
func (s *Service) Session(ctx context.Context, id int64) (*domain.SessionDetails, error) {
	const op = "service.query.Session"

	details, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeySessionSummary(id),
		s.cfg.SessionSummaryTTL,
		func(ctx context.Context) (domain.SessionDetails, error) {
			d, err := s.repos.Sessions().Details(ctx, id)
			if err != nil {
				return domain.SessionDetails{}, notFound(err, ErrSessionNotFound)
			}

			return *d, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &details, nil
}

// SeatMap lists the seats of a session with their availability in it.
func (s *Service) SeatMap(ctx context.Context, sessionID int64) ([]domain.Seat, error) {
	const op = "service.query.SeatMap"

	if !s.cfg.CacheSeatMap {
		seats, err := s.loadSeatMap(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return seats, nil
	}

	seats, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeySessionSeatMap(sessionID), s.cfg.SeatMapTTL, func(ctx context.Context) ([]domain.Seat, error) {
		return s.loadSeatMap(ctx, sessionID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// loadSeatMap tells an unknown session apart from a session whose room has
// no seats yet.
func (s *Service) loadSeatMap(ctx context.Context, sessionID int64) ([]domain.Seat, error) {
	seats, err := s.repos.Sessions().SeatMap(ctx, sessionID)
	if err == nil {
		return seats, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.repos.Sessions().Get(ctx, sessionID); err != nil {
		return nil, notFound(err, ErrSessionNotFound)
	}

	return []domain.Seat{}, nil
}

// Availability counts available and taken seats of a session.
func (s *Service) Availability(ctx context.Context, sessionID int64) (*domain.SeatCounts, error) {
	const op = "service.query.Availability"

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeySessionAvailability(sessionID),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.SeatCounts, error) {
			seats, err := s.loadSeatMap(ctx, sessionID)
			if err != nil {
				return domain.SeatCounts{}, err
			}

			return seating.Count(seats), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}

func (s *Service) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "service.query.GetTicket"

	t, err := s.repos.Tickets().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, ErrTicketNotFound))
	}

	return t, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
