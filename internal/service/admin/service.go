// Package admin schedules sessions and maintains room seat layouts.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
	"github.com/kirinyoku/cinebook/internal/seating"
)

type Cache interface {
	InvalidateSession(ctx context.Context, sessionID int64) error
}

type Publisher interface {
	PublishSessionChanged(ctx context.Context, sessionID int64) error
}

type Config struct {
	Now         func() time.Time
	SeatsPerRow int
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

	if cfg.SeatsPerRow <= 0 {
		cfg.SeatsPerRow = seating.DefaultSeatsPerRow
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

// SessionRequest carries the editable fields of a session. The end of the
// session is derived from the film duration.
type SessionRequest struct {
	RoomID         int64
	FilmID         int64
	Starts         time.Time
	BasePriceCents int64
	Type           domain.SessionType
	EventName      string
	PartnerName    string
	Language       string
}

func (r SessionRequest) validate() error {
	if r.Starts.IsZero() || r.BasePriceCents < 0 || !r.Type.Valid() {
		return ErrInvalidSession
	}
	return nil
}

// CreateSession schedules a film in a room and opens its seat map.
//
// Parameters:
//   - ctx: request-scoped context.
//   - req: room, film, start, base price and session type.
//
// Returns:
//   - *domain.Session: the stored session with its final price.
//   - error: admin.ErrRoomNotFound or admin.ErrFilmNotFound for unknown references.
//   - error: admin.ErrNoWaiter or admin.ErrNoManager if staffing is missing.
//   - error: schedule.ConflictError if the room is taken in the window.
func (s *Service) CreateSession(ctx context.Context, req SessionRequest) (*domain.Session, error) {
	const op = "service.admin.CreateSession"

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var session *domain.Session

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		if !req.Starts.After(s.cfg.Now()) {
			return ErrStartInPast
		}

		sess, err := s.prepare(ctx, r, req, nil)
		if err != nil {
			return err
		}

		id, err := r.Sessions().Create(ctx, sess)
		if err != nil {
			return err
		}
		sess.ID = id

		if _, err := r.Sessions().InitSeats(ctx, id, sess.RoomID); err != nil {
			return err
		}

		session = sess
		s.sessionsChanged(after, id)

		return nil
	})
	if err != nil {
		return nil, translateErr(op, err)
	}

	s.log.Info("session created",
		slog.Int64("session_id", session.ID),
		slog.Int64("room_id", session.RoomID),
		slog.Int64("final_price_cents", session.FinalPriceCents),
	)

	return session, nil
}

// UpdateSession reschedules or reprices a session that has not sold any
// ticket yet. The session is excluded from its own conflict check.
func (s *Service) UpdateSession(ctx context.Context, id int64, req SessionRequest) (*domain.Session, error) {
	const op = "service.admin.UpdateSession"

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var session *domain.Session

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		current, err := r.Sessions().Get(ctx, id)
		if err != nil {
			return notFound(err, ErrSessionNotFound)
		}

		if req.RoomID == 0 {
			req.RoomID = current.RoomID
		}
		if req.RoomID != current.RoomID {
			return ErrRoomChange
		}

		if !req.Starts.After(s.cfg.Now()) {
			return ErrStartInPast
		}

		sold, err := r.Sessions().ActiveTickets(ctx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return ErrSessionHasTickets
		}

		sess, err := s.prepare(ctx, r, req, &schedule.Ref{
			Kind: schedule.KindSession,
			ID:   strconv.FormatInt(id, 10),
		})
		if err != nil {
			return err
		}
		sess.ID = id

		if err := r.Sessions().Update(ctx, sess); err != nil {
			return err
		}

		session = sess
		s.sessionsChanged(after, id)

		return nil
	})
	if err != nil {
		return nil, translateErr(op, err)
	}

	return session, nil
}

// prepare locks the room, checks staffing and the timeline, and prices the
// session. self excludes the session being updated from the conflict check.
func (s *Service) prepare(
	ctx context.Context,
	r repository.Repos,
	req SessionRequest,
	self *schedule.Ref,
) (*domain.Session, error) {
	room, err := r.Rooms().Lock(ctx, req.RoomID)
	if err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}

	film, err := r.Catalog().Film(ctx, req.FilmID)
	if err != nil {
		return nil, notFound(err, ErrFilmNotFound)
	}

	if err := checkStaffing(ctx, r, room, req.Type); err != nil {
		return nil, err
	}

	final, err := pricing.SessionPrice(pricing.SessionInput{
		BaseCents: req.BasePriceCents,
		RoomClass: room.Class,
		Is3D:      film.Is3D,
		Type:      req.Type,
	})
	if err != nil {
		return nil, err
	}

	ends := req.Starts.Add(film.Duration())

	timeline, err := r.Rooms().Timeline(ctx, room.ID, req.Starts, ends)
	if err != nil {
		return nil, err
	}

	if slot, ok := timeline.FirstConflict(room.ID, req.Starts, ends, self); ok {
		return nil, schedule.ConflictError{With: slot}
	}

	return &domain.Session{
		RoomID:          room.ID,
		FilmID:          film.ID,
		Starts:          req.Starts,
		Ends:            ends,
		BasePriceCents:  req.BasePriceCents,
		FinalPriceCents: final,
		Type:            req.Type,
		EventName:       strings.TrimSpace(req.EventName),
		PartnerName:     strings.TrimSpace(req.PartnerName),
		Language:        strings.TrimSpace(req.Language),
	}, nil
}

func checkStaffing(ctx context.Context, r repository.Repos, room *domain.Room, typ domain.SessionType) error {
	if room.Class == domain.RoomVIP {
		n, err := r.Catalog().CountStaff(ctx, room.CinemaID, domain.RoleWaiter)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoWaiter
		}
	}

	if typ == domain.SessionPreRelease {
		n, err := r.Catalog().CountStaff(ctx, room.CinemaID, domain.RoleManager)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoManager
		}
	}

	return nil
}

// RegenerateSeats rebuilds a room's seat set for a new layout. Sessions of
// the room that have not ended get a fresh, fully available seat map.
//
// Returns:
//   - []domain.Seat: the new seats.
//   - error: a layout error wrapping domain.ErrInvalidInput.
//   - error: admin.ErrRoomHasTickets while sessions that have not ended hold sold tickets.
func (s *Service) RegenerateSeats(
	ctx context.Context,
	roomID int64,
	capacity, couple, accessible int,
) ([]domain.Seat, error) {
	const op = "service.admin.RegenerateSeats"

	if err := seating.ValidateLayout(capacity, couple, accessible); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var seats []domain.Seat

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		now := s.cfg.Now()

		room, err := r.Rooms().Lock(ctx, roomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		sold, err := r.Sessions().UnfinishedActiveTickets(ctx, room.ID, now)
		if err != nil {
			return err
		}
		if sold > 0 {
			return ErrRoomHasTickets
		}

		layout, err := seating.Generate(room.ID, capacity, couple, accessible, s.cfg.SeatsPerRow)
		if err != nil {
			return err
		}

		seats, err = r.Rooms().ReplaceSeats(ctx, room.ID, layout)
		if err != nil {
			return err
		}

		room.Capacity, room.CoupleSeats, room.AccessibleSeats = capacity, couple, accessible
		if err := r.Rooms().UpdateLayout(ctx, room); err != nil {
			return err
		}

		if err := r.Sessions().ResetUnfinishedSeats(ctx, room.ID, now); err != nil {
			return err
		}

		unfinished, err := r.Sessions().UnfinishedIDs(ctx, room.ID, now)
		if err != nil {
			return err
		}
		s.sessionsChanged(after, unfinished...)

		return nil
	})
	if err != nil {
		return nil, translateErr(op, err)
	}

	s.log.Info("room seats regenerated",
		slog.Int64("room_id", roomID),
		slog.Int("seats", len(seats)),
	)

	return seats, nil
}

// SetPreferential flags or unflags a seat as preferential.
func (s *Service) SetPreferential(
	ctx context.Context,
	roomID int64,
	row string,
	number int,
	preferential bool,
) (*domain.Seat, error) {
	const op = "service.admin.SetPreferential"

	var seat domain.Seat

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		room, err := r.Rooms().Lock(ctx, roomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		seats, err := r.Rooms().Seats(ctx, room.ID)
		if err != nil {
			return err
		}

		seat, err = seating.FindSeat(seats, row, number)
		if err != nil {
			return err
		}

		if err := r.Rooms().SetPreferential(ctx, seat.ID, preferential); err != nil {
			return err
		}
		seat.Preferential = preferential

		unfinished, err := r.Sessions().UnfinishedIDs(ctx, room.ID, s.cfg.Now())
		if err != nil {
			return err
		}
		s.sessionsChanged(after, unfinished...)

		return nil
	})
	if err != nil {
		return nil, translateErr(op, err)
	}

	return &seat, nil
}

func (s *Service) sessionsChanged(after func(repository.AfterCommit), ids ...int64) {
	if len(ids) == 0 {
		return
	}

	after(func(ctx context.Context) {
		for _, id := range ids {
			if s.cache != nil {
				if err := s.cache.InvalidateSession(ctx, id); err != nil {
					s.log.Warn("invalidate session cache", slog.Int64("session_id", id), slog.Any("err", err))
				}
			}
			if s.pubsub != nil {
				if err := s.pubsub.PublishSessionChanged(ctx, id); err != nil {
					s.log.Warn("publish session changed", slog.Int64("session_id", id), slog.Any("err", err))
				}
			}
		}
	})
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

func translateErr(op string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%s:%w", op, ErrConcurrentUpdate)
	}
	return fmt.Errorf("%s:%w", op, err)
}
