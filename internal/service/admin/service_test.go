package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/repository/memory"
	"github.com/kirinyoku/cinebook/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type invalidations struct{ ids []int64 }

func (i *invalidations) InvalidateSession(_ context.Context, id int64) error {
	i.ids = append(i.ids, id)
	return nil
}

type env struct {
	store *memory.Store
	svc   *Service
	cache *invalidations
	room  domain.Room
	film  domain.Film
}

func newEnv(t *testing.T, class domain.RoomClass) *env {
	t.Helper()

	e := &env{store: memory.NewStore(), cache: &invalidations{}}
	e.room = e.store.AddRoom(domain.Room{CinemaID: 7, Name: "Sala 3", Capacity: 40, Class: class})
	e.film = e.store.AddFilm(domain.Film{Title: "Tides", DurationMin: 120})
	e.svc = New(e.store, e.cache, nil, nil, Config{Now: func() time.Time { return now }})

	_, err := e.svc.RegenerateSeats(context.Background(), e.room.ID, 40, 0, 0)
	require.NoError(t, err)

	return e
}

func (e *env) request(starts time.Time) SessionRequest {
	return SessionRequest{
		RoomID:         e.room.ID,
		FilmID:         e.film.ID,
		Starts:         starts,
		BasePriceCents: 2000,
		Type:           domain.SessionRegular,
		Language:       "en",
	}
}

func (e *env) sellSeat(t *testing.T, sessionID int64) {
	t.Helper()

	err := e.store.Do(context.Background(), func(ctx context.Context, r repository.Repos, _ func(repository.AfterCommit)) error {
		seats, err := r.Sessions().SeatMap(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := r.Sessions().ReserveSeat(ctx, sessionID, seats[0].ID); err != nil {
			return err
		}
		return r.Tickets().Create(ctx, &domain.Ticket{
			ID:        uuid.New(),
			SessionID: sessionID,
			SeatID:    seats[0].ID,
			Kind:      domain.TicketFull,
			Status:    domain.TicketSold,
		})
	})
	require.NoError(t, err)
}

func TestCreateSession_ConflictOnSameRoom(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)
	day := now.Add(24 * time.Hour).Truncate(24 * time.Hour)

	a, err := e.svc.CreateSession(context.Background(), e.request(day.Add(18*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, day.Add(20*time.Hour), a.Ends)
	assert.EqualValues(t, 2000, a.FinalPriceCents)

	_, err = e.svc.CreateSession(context.Background(), e.request(day.Add(19*time.Hour)))
	require.ErrorIs(t, err, schedule.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	b, err := e.svc.CreateSession(context.Background(), e.request(day.Add(20*time.Hour)))
	require.NoError(t, err)

	seats, err := e.store.Repos().Sessions().SeatMap(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 40)
	assert.Equal(t, []int64{a.ID, b.ID}, e.cache.ids)
}

// idOnlyStore hands out session repositories that return the new id
// without writing it back into the caller's struct.
type idOnlyStore struct{ *memory.Store }

func (u idOnlyStore) Do(
	ctx context.Context,
	fn func(ctx context.Context, r repository.Repos, after func(repository.AfterCommit)) error,
) error {
	return u.Store.Do(ctx, func(ctx context.Context, r repository.Repos, after func(repository.AfterCommit)) error {
		return fn(ctx, idOnlyRepos{r}, after)
	})
}

type idOnlyRepos struct{ repository.Repos }

func (r idOnlyRepos) Sessions() repository.SessionRepository {
	return idOnlySessions{r.Repos.Sessions()}
}

type idOnlySessions struct{ repository.SessionRepository }

func (s idOnlySessions) Create(ctx context.Context, sess *domain.Session) (int64, error) {
	cp := *sess
	return s.SessionRepository.Create(ctx, &cp)
}

func TestCreateSession_ReturnsStoredID(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)
	svc := New(idOnlyStore{e.store}, e.cache, nil, nil, Config{Now: func() time.Time { return now }})

	s, err := svc.CreateSession(context.Background(), e.request(now.Add(48*time.Hour)))
	require.NoError(t, err)
	require.NotZero(t, s.ID)

	stored, err := e.store.Repos().Sessions().Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Starts, stored.Starts)
	assert.Equal(t, s.FinalPriceCents, stored.FinalPriceCents)

	seats, err := e.store.Repos().Sessions().SeatMap(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 40)
	assert.Equal(t, []int64{s.ID}, e.cache.ids)
}

func TestCreateSession_Validation(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)
	starts := now.Add(48 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(*SessionRequest)
		wantErr error
	}{
		{"negative base", func(r *SessionRequest) { r.BasePriceCents = -1 }, ErrInvalidSession},
		{"unknown type", func(r *SessionRequest) { r.Type = "midnight" }, ErrInvalidSession},
		{"in the past", func(r *SessionRequest) { r.Starts = now.Add(-time.Hour) }, ErrStartInPast},
		{"unknown room", func(r *SessionRequest) { r.RoomID = 999 }, ErrRoomNotFound},
		{"unknown film", func(r *SessionRequest) { r.FilmID = 999 }, ErrFilmNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.request(starts)
			tt.mutate(&req)

			_, err := e.svc.CreateSession(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSession_Staffing(t *testing.T) {
	t.Run("vip room needs a waiter", func(t *testing.T) {
		e := newEnv(t, domain.RoomVIP)
		req := e.request(now.Add(48 * time.Hour))

		_, err := e.svc.CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoWaiter)

		e.store.AddEmployee(domain.Employee{CinemaID: 8, Name: "Elsewhere", Role: domain.RoleWaiter})
		_, err = e.svc.CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoWaiter)

		e.store.AddEmployee(domain.Employee{CinemaID: 7, Name: "Gil", Role: domain.RoleWaiter})
		s, err := e.svc.CreateSession(context.Background(), req)
		require.NoError(t, err)
		assert.EqualValues(t, 2000+3500, s.FinalPriceCents)
	})

	t.Run("pre-release needs a manager", func(t *testing.T) {
		e := newEnv(t, domain.RoomStandard)
		req := e.request(now.Add(48 * time.Hour))
		req.Type = domain.SessionPreRelease

		_, err := e.svc.CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoManager)

		e.store.AddEmployee(domain.Employee{CinemaID: 7, Name: "Lu", Role: domain.RoleManager})
		s, err := e.svc.CreateSession(context.Background(), req)
		require.NoError(t, err)
		assert.EqualValues(t, 3000, s.FinalPriceCents)
	})
}

func TestUpdateSession(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)
	starts := now.Add(48 * time.Hour)

	s, err := e.svc.CreateSession(context.Background(), e.request(starts))
	require.NoError(t, err)

	// Shifting within its own window is not a conflict.
	req := e.request(starts.Add(30 * time.Minute))
	req.Type = domain.SessionMatinee
	req.RoomID = 0
	updated, err := e.svc.UpdateSession(context.Background(), s.ID, req)
	require.NoError(t, err)
	assert.Equal(t, starts.Add(150*time.Minute), updated.Ends)
	assert.EqualValues(t, 1600, updated.FinalPriceCents)

	other := e.store.AddRoom(domain.Room{CinemaID: 7, Name: "Sala 4", Capacity: 10, Class: domain.RoomStandard})
	req.RoomID = other.ID
	_, err = e.svc.UpdateSession(context.Background(), s.ID, req)
	assert.ErrorIs(t, err, ErrRoomChange)

	_, err = e.svc.UpdateSession(context.Background(), 999, e.request(starts))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	e.sellSeat(t, s.ID)
	_, err = e.svc.UpdateSession(context.Background(), s.ID, e.request(starts))
	assert.ErrorIs(t, err, ErrSessionHasTickets)
}

func TestRegenerateSeats(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)

	t.Run("layout invariant", func(t *testing.T) {
		seats, err := e.svc.RegenerateSeats(context.Background(), e.room.ID, 100, 10, 5)
		require.NoError(t, err)
		assert.Len(t, seats, 90)

		_, err = e.svc.RegenerateSeats(context.Background(), e.room.ID, 20, 10, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		room, err := e.store.Repos().Rooms().Get(context.Background(), e.room.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, room.Capacity)
		assert.Equal(t, 10, room.CoupleSeats)
	})

	t.Run("resets upcoming sessions", func(t *testing.T) {
		s, err := e.svc.CreateSession(context.Background(), e.request(now.Add(72*time.Hour)))
		require.NoError(t, err)

		_, err = e.svc.RegenerateSeats(context.Background(), e.room.ID, 12, 1, 2)
		require.NoError(t, err)

		seats, err := e.store.Repos().Sessions().SeatMap(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Len(t, seats, 11)
		for _, seat := range seats {
			assert.True(t, seat.Available)
		}
		assert.Contains(t, e.cache.ids, s.ID)
	})

	t.Run("forbidden while tickets are sold", func(t *testing.T) {
		s, err := e.svc.CreateSession(context.Background(), e.request(now.Add(96*time.Hour)))
		require.NoError(t, err)
		e.sellSeat(t, s.ID)

		_, err = e.svc.RegenerateSeats(context.Background(), e.room.ID, 30, 0, 0)
		assert.ErrorIs(t, err, ErrRoomHasTickets)
	})
}

func TestRegenerateSeats_RunningSession(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)

	s, err := e.svc.CreateSession(context.Background(), e.request(now.Add(time.Hour)))
	require.NoError(t, err)

	during := New(e.store, e.cache, nil, nil, Config{Now: func() time.Time { return s.Starts.Add(30 * time.Minute) }})

	t.Run("resets seats when nothing is sold", func(t *testing.T) {
		_, err := during.RegenerateSeats(context.Background(), e.room.ID, 20, 0, 0)
		require.NoError(t, err)

		seats, err := e.store.Repos().Sessions().SeatMap(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Len(t, seats, 20)
	})

	t.Run("forbidden while its tickets are active", func(t *testing.T) {
		e.sellSeat(t, s.ID)

		_, err := during.RegenerateSeats(context.Background(), e.room.ID, 30, 0, 0)
		assert.ErrorIs(t, err, ErrRoomHasTickets)

		seats, err := e.store.Repos().Sessions().SeatMap(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Len(t, seats, 20)
	})

	t.Run("allowed once the session has ended", func(t *testing.T) {
		after := New(e.store, e.cache, nil, nil, Config{Now: func() time.Time { return s.Ends.Add(time.Minute) }})

		_, err := after.RegenerateSeats(context.Background(), e.room.ID, 30, 0, 0)
		assert.NoError(t, err)
	})
}

func TestSetPreferential(t *testing.T) {
	e := newEnv(t, domain.RoomStandard)

	seat, err := e.svc.SetPreferential(context.Background(), e.room.ID, "b", 3, true)
	require.NoError(t, err)
	assert.True(t, seat.Preferential)
	assert.Equal(t, "B3", seat.Label())

	seats, err := e.store.Repos().Rooms().Seats(context.Background(), e.room.ID)
	require.NoError(t, err)
	for _, s := range seats {
		assert.Equal(t, s.Label() == "B3", s.Preferential, s.Label())
	}

	_, err = e.svc.SetPreferential(context.Background(), e.room.ID, "Z", 1, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.svc.SetPreferential(context.Background(), 999, "A", 1, true)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
